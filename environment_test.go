package main

import (
	"errors"
	"testing"
)

var boxMap = []string{
	"###",
	"#P#",
	"###",
}

func TestNewGridMap_RejectsEmptyMap(t *testing.T) {
	if _, err := newGridMap(nil, 10); !errors.Is(err, errEmptyMap) {
		t.Fatalf("newGridMap(nil) error = %v, want errEmptyMap", err)
	}
	if _, err := newGridMap([]string{""}, 10); !errors.Is(err, errEmptyMap) {
		t.Fatalf("newGridMap(empty row) error = %v, want errEmptyMap", err)
	}
}

func TestNewGridMap_RejectsRaggedRows(t *testing.T) {
	_, err := newGridMap([]string{"###", "#P", "###"}, 10)
	if !errors.Is(err, errRaggedMap) {
		t.Fatalf("expected errRaggedMap, got %v", err)
	}
}

func TestNewGridMap_RejectsBadScale(t *testing.T) {
	for _, scale := range []float64{0, -1, 5e-324} {
		if _, err := newGridMap(boxMap, scale); !errors.Is(err, errInvalidScale) {
			t.Fatalf("scale %v: expected errInvalidScale, got %v", scale, err)
		}
	}
}

func TestNewGridMap_RejectsSecondSpawn(t *testing.T) {
	_, err := newGridMap([]string{"####", "#PP#", "####"}, 10)
	if !errors.Is(err, errDuplicateSpawn) {
		t.Fatalf("expected errDuplicateSpawn, got %v", err)
	}
}

func TestPlayerSpawn_ScalesCellIndex(t *testing.T) {
	w, err := newGridMap(boxMap, 10)
	if err != nil {
		t.Fatalf("newGridMap: %v", err)
	}
	if got := w.playerSpawn(); got != (position{x: 10, y: 10}) {
		t.Fatalf("spawn = %+v, want (10, 10)", got)
	}
	if w.width != 3 || w.height != 3 || w.scale != 10 {
		t.Fatalf("dimensions = %dx%d scale %v", w.width, w.height, w.scale)
	}
}

func TestPlayerSpawn_MissingReturnsSentinel(t *testing.T) {
	w, err := newGridMap([]string{"###", "# #", "###"}, 10)
	if err != nil {
		t.Fatalf("newGridMap: %v", err)
	}
	if got := w.playerSpawn(); got != noSpawn {
		t.Fatalf("spawn = %+v, want sentinel %+v", got, noSpawn)
	}
}

func TestIsWall_OutsideMapIsSolid(t *testing.T) {
	w, err := newGridMap(boxMap, 10)
	if err != nil {
		t.Fatalf("newGridMap: %v", err)
	}
	if !w.isWall(-1, 1) || !w.isWall(1, 3) {
		t.Fatal("cells outside the map should count as walls")
	}
	if w.isWall(1, 1) {
		t.Fatal("spawn cell should be open")
	}
	if !w.isWall(0, 0) {
		t.Fatal("'#' should be a wall")
	}
}

func TestWallColor_Table(t *testing.T) {
	cases := map[byte]packedColor{
		'r': 0xFF2222,
		'g': 0x22FF22,
		'b': 0x2222FF,
		'#': 0x222222,
		'x': 0x222222,
	}
	for symbol, want := range cases {
		if got := wallColor(symbol); got != want {
			t.Fatalf("wallColor(%q) = %06X, want %06X", symbol, got, want)
		}
	}
}

func TestDefaultMap_IsValid(t *testing.T) {
	w, err := newGridMap(defaultMap, worldScale)
	if err != nil {
		t.Fatalf("default map rejected: %v", err)
	}
	if w.playerSpawn() == noSpawn {
		t.Fatal("default map has no spawn")
	}
}
