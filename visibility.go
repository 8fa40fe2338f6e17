package main

// visibility tracks which map cells the view rays crossed in the last frame.
// Cells are stamped with a generation number so a refresh never has to clear
// the whole grid.
type visibility struct {
	world        *gridMap
	visibleStamp []uint32
	visibleGen   uint32
	lastCell     intPoint
	lastHits     []intPoint
}

func newVisibility(world *gridMap) *visibility {
	return &visibility{
		world:        world,
		visibleStamp: make([]uint32, world.width*world.height),
		lastCell:     intPoint{x: -1, y: -1},
	}
}

// refresh marks every cell between the player and each column's wall hit.
// It is skipped when neither the player cell nor the hits changed.
func (v *visibility) refresh(pos position, hits []intPoint) {
	cx, cy := v.world.cellAt(pos.x, pos.y)
	cell := intPoint{x: cx, y: cy}
	if cell == v.lastCell && sameHits(hits, v.lastHits) {
		return
	}
	if v.visibleGen == ^uint32(0) {
		for i := range v.visibleStamp {
			v.visibleStamp[i] = 0
		}
		v.visibleGen = 1
	} else {
		v.visibleGen++
	}
	if v.world.inBounds(cx, cy) {
		var prev intPoint
		for i, hit := range hits {
			if hit.x < 0 || (i > 0 && hit == prev) {
				continue
			}
			prev = hit
			v.castVisibilityRay(cx, cy, hit.x, hit.y)
		}
	}
	v.lastCell = cell
	v.lastHits = append(v.lastHits[:0], hits...)
}

func sameHits(a, b []intPoint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// visible reports whether cell (x, y) was seen in the last refresh.
func (v *visibility) visible(x, y int) bool {
	if !v.world.inBounds(x, y) || v.visibleGen == 0 {
		return false
	}
	return v.visibleStamp[y*v.world.width+x] == v.visibleGen
}

// castVisibilityRay walks a Bresenham line from (x0, y0) to (x1, y1) and
// stamps every in-bounds cell, stopping at the first wall before the target.
func (v *visibility) castVisibilityRay(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -absInt(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	width := v.world.width
	for {
		if !v.world.inBounds(x0, y0) {
			break
		}
		v.visibleStamp[y0*width+x0] = v.visibleGen
		if x0 == x1 && y0 == y1 {
			break
		}
		if v.world.isWall(x0, y0) {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
