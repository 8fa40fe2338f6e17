package main

import "math"

// wallSide names the cell edge a ray crossed when it entered a wall.
type wallSide uint8

const (
	sideSouth wallSide = iota
	sideNorth
	sideEast
	sideWest
	// sideNone marks rays that left the map without hitting anything.
	sideNone
)

func (s wallSide) String() string {
	switch s {
	case sideSouth:
		return "south"
	case sideNorth:
		return "north"
	case sideEast:
		return "east"
	case sideWest:
		return "west"
	default:
		return "none"
	}
}

// rayResult is the result of casting one view ray.
type rayResult struct {
	// depth is the distance from the view plane to the wall in grid units.
	depth float64
	color packedColor
	// incidence drives the specular highlight; it lies in [0, π/2].
	incidence float64
	side      wallSide
	// angle is the angle that was marched, which differs from the requested
	// one by less than 2*cornerNudge when a grid corner had to be avoided.
	angle float64
	cell  intPoint
}

type marchOutcome uint8

const (
	marchHit marchOutcome = iota
	marchEscaped
	marchCorner
)

// wallHit describes the wall cell a march stopped in.
type wallHit struct {
	cell   intPoint
	side   wallSide
	symbol byte
}

// castRay marches a ray from pos along rayAngle and reports the first wall it
// enters. Angles follow the map convention: direction (-sin a, cos a), so 0
// looks toward increasing y. playerAngle is the view direction and is only
// used to project the distance onto the view plane.
//
// A step that crosses both grid lines away from a corner is resolved by the
// order of the crossings and keeps the requested angle; only an exact corner
// retries with a slightly smaller angle.
func (w *gridMap) castRay(pos position, rayAngle, playerAngle float64) rayResult {
	angle := rayAngle
	nudge := cornerNudge
	for attempt := 0; attempt <= maxCornerRetries; attempt++ {
		dirX, dirY := -math.Sin(angle), math.Cos(angle)
		hit, outcome := w.march(pos, dirX, dirY, false)
		switch outcome {
		case marchHit:
			return w.shadeHit(pos, hit, angle, playerAngle, dirX, dirY)
		case marchEscaped:
			return escapedRay(angle)
		}
		// The ray passed exactly through a grid corner, so the side it hit
		// is undefined. Look again a hair to the side.
		angle -= nudge
		nudge /= 2
	}
	dirX, dirY := -math.Sin(rayAngle), math.Cos(rayAngle)
	hit, outcome := w.march(pos, dirX, dirY, true)
	if outcome != marchHit {
		return escapedRay(rayAngle)
	}
	return w.shadeHit(pos, hit, rayAngle, playerAngle, dirX, dirY)
}

func escapedRay(angle float64) rayResult {
	return rayResult{
		depth:     farDepth,
		color:     escapedRayColor,
		incidence: math.Pi / 2,
		side:      sideNone,
		angle:     angle,
		cell:      intPoint{x: -1, y: -1},
	}
}

// march steps along the unit direction (dirX, dirY) in increments of
// scale/rayDetail. A step that changes both grid coordinates is resolved by
// comparing where the ray crosses the two cell edges; the intermediate cell
// is checked before the one the step landed in. When both edges are crossed
// at the same point the march reports marchCorner unless pickVertical is set,
// in which case the vertical edge is taken first. A march that runs out of
// steps counts as escaped.
func (w *gridMap) march(pos position, dirX, dirY float64, pickVertical bool) (wallHit, marchOutcome) {
	if math.IsNaN(pos.x) || math.IsNaN(pos.y) || math.IsInf(pos.x, 0) || math.IsInf(pos.y, 0) {
		return wallHit{}, marchEscaped
	}
	cx, cy := w.cellAt(pos.x, pos.y)
	if !w.inBounds(cx, cy) {
		return wallHit{}, marchEscaped
	}
	step := w.scale / rayDetail
	stepX, stepY := dirX*step, dirY*step
	x, y := pos.x, pos.y
	for i := w.maxMarchSteps(); i > 0; i-- {
		x += stepX
		y += stepY
		nx, ny := w.cellAt(x, y)
		if nx == cx && ny == cy {
			continue
		}
		if nx != cx && ny != cy {
			tx := w.edgeCrossing(pos.x, dirX, cx, nx)
			ty := w.edgeCrossing(pos.y, dirY, cy, ny)
			if math.Abs(tx-ty) <= cornerTolerance && !pickVertical {
				return wallHit{}, marchCorner
			}
			ix, iy := nx, cy
			if ty < tx-cornerTolerance {
				ix, iy = cx, ny
			}
			if !w.inBounds(ix, iy) {
				return wallHit{}, marchEscaped
			}
			if symbol := w.symbolAt(ix, iy); isSolid(symbol) {
				return wallHit{
					cell:   intPoint{x: ix, y: iy},
					side:   sideCrossed(cx, cy, ix, iy),
					symbol: symbol,
				}, marchHit
			}
			cx, cy = ix, iy
		}
		if !w.inBounds(nx, ny) {
			return wallHit{}, marchEscaped
		}
		if symbol := w.symbolAt(nx, ny); isSolid(symbol) {
			return wallHit{
				cell:   intPoint{x: nx, y: ny},
				side:   sideCrossed(cx, cy, nx, ny),
				symbol: symbol,
			}, marchHit
		}
		cx, cy = nx, ny
	}
	return wallHit{}, marchEscaped
}

// maxMarchSteps bounds a march: no ray inside the grid travels further than
// width+height cells before leaving it.
func (w *gridMap) maxMarchSteps() int {
	return int(rayDetail) * (w.width + w.height + 2)
}

// edgeCrossing returns the distance along a unit direction at which a ray
// starting at origin crosses the grid line between cells from and to.
func (w *gridMap) edgeCrossing(origin, dir float64, from, to int) float64 {
	edge := from
	if to > from {
		edge = to
	}
	return (float64(edge)*w.scale - origin) / dir
}

// sideCrossed names the edge of cell (x, y) that was crossed coming from the
// neighbouring cell (prevX, prevY). Only one coordinate may differ.
func sideCrossed(prevX, prevY, x, y int) wallSide {
	switch {
	case x > prevX:
		return sideWest
	case x < prevX:
		return sideEast
	case y > prevY:
		return sideNorth
	default:
		return sideSouth
	}
}

func (w *gridMap) shadeHit(pos position, hit wallHit, angle, playerAngle, dirX, dirY float64) rayResult {
	raw := w.edgeDistance(pos, hit, dirX, dirY) / w.scale
	return rayResult{
		depth:     math.Abs(math.Cos(playerAngle-angle) * raw),
		color:     wallColor(hit.symbol),
		incidence: incidenceAngle(hit.side, angle),
		side:      hit.side,
		angle:     angle,
		cell:      hit.cell,
	}
}

// edgeDistance intersects the ray line with the crossed edge of the hit cell
// and returns the Euclidean distance from pos in world units.
func (w *gridMap) edgeDistance(pos position, hit wallHit, dirX, dirY float64) float64 {
	s := w.scale
	if dirX == 0 {
		edge := float64(hit.cell.y) * s
		if dirY < 0 {
			edge += s
		}
		return math.Abs(edge - pos.y)
	}
	if dirY == 0 {
		edge := float64(hit.cell.x) * s
		if dirX < 0 {
			edge += s
		}
		return math.Abs(edge - pos.x)
	}
	switch hit.side {
	case sideNorth, sideSouth:
		slope := dirY / dirX
		edgeY := float64(hit.cell.y) * s
		if hit.side == sideSouth {
			edgeY += s
		}
		edgeX := edgeY/slope + pos.x - pos.y/slope
		return math.Hypot(pos.x-edgeX, pos.y-edgeY)
	default:
		slope := dirX / dirY
		edgeX := float64(hit.cell.x) * s
		if hit.side == sideEast {
			edgeX += s
		}
		edgeY := edgeX/slope + pos.y - pos.x/slope
		return math.Hypot(pos.x-edgeX, pos.y-edgeY)
	}
}

// incidenceAngle returns the lighting angle for a ray at angle hitting side,
// folded into [0, π/2]. Only its sine is used for shading.
func incidenceAngle(side wallSide, angle float64) float64 {
	var raw float64
	switch side {
	case sideWest:
		raw = math.Pi/2 - (angle - math.Pi - math.Pi/2)
	case sideEast:
		raw = math.Pi/2 - (angle - math.Pi/2)
	case sideNorth:
		raw = math.Pi/2 - angle
	case sideSouth:
		raw = math.Pi/2 - (angle - math.Pi)
	default:
		return math.Pi / 2
	}
	sin := math.Sin(raw)
	if sin < 0 {
		sin = 0
	} else if sin > 1 {
		sin = 1
	}
	return math.Asin(sin)
}
