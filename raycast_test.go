package main

import (
	"math"
	"testing"
	"time"
)

const depthTolerance = 1e-9

func mustWorld(t testing.TB, rows []string) *gridMap {
	t.Helper()
	w, err := newGridMap(rows, 10)
	if err != nil {
		t.Fatalf("newGridMap: %v", err)
	}
	return w
}

func TestCastRay_SpawnLooksNorthWall(t *testing.T) {
	w := mustWorld(t, boxMap)
	r := w.castRay(w.playerSpawn(), 0, 0)
	if r.side != sideNorth {
		t.Fatalf("side = %v, want north", r.side)
	}
	if math.Abs(r.depth-1) > depthTolerance {
		t.Fatalf("depth = %v, want 1", r.depth)
	}
	if r.color != 0x222222 {
		t.Fatalf("color = %06X, want 222222", r.color)
	}
	if r.cell != (intPoint{x: 1, y: 2}) {
		t.Fatalf("cell = %+v, want (1, 2)", r.cell)
	}
}

func TestCastRay_AxisAlignedSides(t *testing.T) {
	w := mustWorld(t, boxMap)
	pos := position{x: 15, y: 15}
	cases := []struct {
		name  string
		angle float64
		side  wallSide
		cell  intPoint
	}{
		{"positive y", 0, sideNorth, intPoint{1, 2}},
		{"negative x", math.Pi / 2, sideEast, intPoint{0, 1}},
		{"negative y", math.Pi, sideSouth, intPoint{1, 0}},
		{"positive x", -math.Pi / 2, sideWest, intPoint{2, 1}},
	}
	for _, tc := range cases {
		r := w.castRay(pos, tc.angle, tc.angle)
		if r.side != tc.side || r.cell != tc.cell {
			t.Fatalf("%s: hit %v at %+v, want %v at %+v", tc.name, r.side, r.cell, tc.side, tc.cell)
		}
		if math.Abs(r.depth-0.5) > 1e-6 {
			t.Fatalf("%s: depth = %v, want 0.5", tc.name, r.depth)
		}
		if r.incidence < 0 || r.incidence > math.Pi/2 {
			t.Fatalf("%s: incidence %v outside [0, π/2]", tc.name, r.incidence)
		}
	}
}

func TestCastRay_RemovesFisheye(t *testing.T) {
	w := mustWorld(t, boxMap)
	pos := position{x: 15, y: 15}
	r := w.castRay(pos, 0, 0.3)
	want := 0.5 * math.Cos(0.3)
	if math.Abs(r.depth-want) > depthTolerance {
		t.Fatalf("depth = %v, want %v", r.depth, want)
	}
}

func TestCastRay_EscapesOpenMap(t *testing.T) {
	w := mustWorld(t, []string{"   ", " P ", "   "})
	r := w.castRay(position{x: 15, y: 15}, 0, 0)
	if r.depth != farDepth {
		t.Fatalf("depth = %v, want %v", r.depth, farDepth)
	}
	if r.color != 0 || r.side != sideNone {
		t.Fatalf("escaped ray = %+v, want black with no side", r)
	}
}

func TestCastRay_ZeroStepStopsAtBudget(t *testing.T) {
	w := mustWorld(t, boxMap)
	// A scale this small makes the step underflow to zero, so the ray
	// never leaves its cell.
	w.scale = 5e-324
	done := make(chan rayResult, 1)
	go func() { done <- w.castRay(position{}, 0.3, 0.3) }()
	select {
	case r := <-done:
		if r.depth != farDepth || r.side != sideNone {
			t.Fatalf("stalled ray = %+v, want escaped", r)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("castRay did not return for a zero step")
	}
}

func TestMarch_StepBudgetCrossesGrid(t *testing.T) {
	w := mustWorld(t, []string{"          ", "     P    ", "          "})
	// Open map: the diagonal ray must leave the grid before the budget ends.
	if _, outcome := w.march(position{x: 55, y: 15}, -math.Sin(2.2), math.Cos(2.2), false); outcome != marchEscaped {
		t.Fatalf("outcome = %v, want escaped", outcome)
	}
	if w.maxMarchSteps() != 10*(10+3+2) {
		t.Fatalf("maxMarchSteps = %d", w.maxMarchSteps())
	}
}

func TestCastRay_StartOutsideMapEscapes(t *testing.T) {
	w := mustWorld(t, boxMap)
	r := w.castRay(position{x: -50, y: 15}, 0, 0)
	if r.side != sideNone {
		t.Fatalf("side = %v, want none", r.side)
	}
	r = w.castRay(position{x: math.NaN(), y: 15}, 0, 0)
	if r.side != sideNone {
		t.Fatalf("NaN position: side = %v, want none", r.side)
	}
}

func TestCastRay_CornerPerturbationIsConsistent(t *testing.T) {
	w := mustWorld(t, boxMap)
	pos := position{x: 15, y: 15}
	angle := -math.Pi / 4
	r := w.castRay(pos, angle, angle)
	if r.angle == angle {
		t.Fatal("ray through the grid corner was not perturbed")
	}
	if math.Abs(r.angle-angle) >= 2*cornerNudge {
		t.Fatalf("perturbation %v exceeds bound", r.angle-angle)
	}
	if r.side != sideWest || r.cell != (intPoint{x: 2, y: 1}) {
		t.Fatalf("hit %v at %+v, want west of (2, 1)", r.side, r.cell)
	}
	if math.Abs(r.depth-math.Sqrt2/2) > 1e-3 {
		t.Fatalf("depth = %v, want about 0.707", r.depth)
	}

	again := w.castRay(pos, r.angle, angle)
	if again.side != r.side || again.cell != r.cell || again.angle != r.angle {
		t.Fatalf("re-cast at perturbed angle gave %+v, want %+v", again, r)
	}
	if math.Abs(again.depth-r.depth) > depthTolerance {
		t.Fatalf("re-cast depth = %v, want %v", again.depth, r.depth)
	}
}

func TestMarch_ExactCornerNeedsVerticalPick(t *testing.T) {
	w := mustWorld(t, boxMap)
	d := math.Sqrt2 / 2
	pos := position{x: 15, y: 15}
	if _, outcome := w.march(pos, d, d, false); outcome != marchCorner {
		t.Fatalf("outcome = %v, want marchCorner", outcome)
	}
	hit, outcome := w.march(pos, d, d, true)
	if outcome != marchHit {
		t.Fatalf("outcome = %v, want marchHit", outcome)
	}
	if hit.side != sideWest || hit.cell != (intPoint{x: 2, y: 1}) {
		t.Fatalf("hit %v at %+v, want the vertical edge of (2, 1)", hit.side, hit.cell)
	}
}

func TestCastRay_DiagonalChecksIntermediateCell(t *testing.T) {
	// The ray clips the corner of the wall at (2, 1) on its way to (2, 2).
	w := mustWorld(t, []string{
		"####",
		"# ##",
		"#   ",
		"####",
	})
	pos := position{x: 12, y: 15}
	angle := -math.Atan2(1.7, 1)
	r := w.castRay(pos, angle, angle)
	if r.cell != (intPoint{x: 2, y: 1}) || r.side != sideWest {
		t.Fatalf("hit %v at %+v, want west of (2, 1)", r.side, r.cell)
	}
}

func TestIncidenceAngle_StaysInRange(t *testing.T) {
	for _, side := range []wallSide{sideSouth, sideNorth, sideEast, sideWest} {
		for a := -4 * math.Pi; a <= 4*math.Pi; a += 0.01 {
			inc := incidenceAngle(side, a)
			if math.IsNaN(inc) || inc < 0 || inc > math.Pi/2 {
				t.Fatalf("incidenceAngle(%v, %v) = %v", side, a, inc)
			}
		}
	}
}

func TestSide_String(t *testing.T) {
	if sideNorth.String() != "north" || sideNone.String() != "none" {
		t.Fatalf("unexpected names %q %q", sideNorth, sideNone)
	}
}
