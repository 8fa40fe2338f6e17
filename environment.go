package main

import (
	"errors"
	"fmt"
	"math"
)

const (
	symbolEmpty = ' '
	symbolSpawn = 'P'
)

var (
	errEmptyMap       = errors.New("map has no cells")
	errRaggedMap      = errors.New("map rows differ in length")
	errInvalidScale   = errors.New("map scale must be positive and finite")
	errDuplicateSpawn = errors.New("map has more than one spawn marker")
	errNoSpawn        = errors.New("map has no spawn marker")
)

// noSpawn is returned by playerSpawn when the map carries no 'P' cell.
var noSpawn = position{x: -1, y: -1}

// position is a point in world units.
type position struct {
	x, y float64
}

// gridMap is the immutable tile map the camera looks into. Cell (x, y) covers
// world coordinates [x*scale, (x+1)*scale) × [y*scale, (y+1)*scale).
type gridMap struct {
	cells  []byte
	width  int
	height int
	scale  float64
}

// newGridMap builds a world from equally long rows of map symbols.
func newGridMap(rows []string, scale float64) (*gridMap, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errEmptyMap
	}
	if !(scale > 0) || math.IsInf(scale, 1) || scale/rayDetail == 0 {
		return nil, fmt.Errorf("%w: %v", errInvalidScale, scale)
	}
	width := len(rows[0])
	cells := make([]byte, 0, width*len(rows))
	spawns := 0
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", errRaggedMap, y, len(row), width)
		}
		for x := 0; x < width; x++ {
			if row[x] == symbolSpawn {
				spawns++
			}
		}
		cells = append(cells, row...)
	}
	if spawns > 1 {
		return nil, fmt.Errorf("%w: found %d", errDuplicateSpawn, spawns)
	}
	return &gridMap{cells: cells, width: width, height: len(rows), scale: scale}, nil
}

// playerSpawn returns the world position of the first 'P' cell in row-major
// order, or noSpawn when the map has none.
func (w *gridMap) playerSpawn() position {
	for y := 0; y < w.height; y++ {
		for x := 0; x < w.width; x++ {
			if w.cells[y*w.width+x] == symbolSpawn {
				return position{x: float64(x) * w.scale, y: float64(y) * w.scale}
			}
		}
	}
	return noSpawn
}

// symbolAt returns the map symbol of an in-bounds cell.
func (w *gridMap) symbolAt(x, y int) byte {
	return w.cells[y*w.width+x]
}

// inBounds reports whether the grid coordinates reference a map cell.
func (w *gridMap) inBounds(x, y int) bool {
	return x >= 0 && x < w.width && y >= 0 && y < w.height
}

// isWall reports whether the coordinates reference a wall cell. Cells outside
// the map count as walls.
func (w *gridMap) isWall(x, y int) bool {
	if !w.inBounds(x, y) {
		return true
	}
	return isSolid(w.symbolAt(x, y))
}

// cellAt converts world coordinates to the grid cell containing them.
func (w *gridMap) cellAt(x, y float64) (int, int) {
	return int(math.Floor(x / w.scale)), int(math.Floor(y / w.scale))
}

func isSolid(symbol byte) bool {
	return symbol != symbolEmpty && symbol != symbolSpawn
}

// wallColor maps a solid symbol to its flat wall color.
func wallColor(symbol byte) packedColor {
	switch symbol {
	case 'r':
		return redWallColor
	case 'g':
		return greenWallColor
	case 'b':
		return blueWallColor
	default:
		return solidWallColor
	}
}
