package main

import (
	"errors"
	"fmt"
	"math"
)

var errInvalidFOV = errors.New("field of view must be within (0, 180) degrees")

// camera projects screen columns onto view rays.
type camera struct {
	width, height int
	focal         float64
}

// newCamera builds a pinhole camera for a width×height frame with the given
// horizontal field of view in degrees.
func newCamera(width, height int, fovDegrees float64) (camera, error) {
	if !(fovDegrees > 0 && fovDegrees < 180) {
		return camera{}, fmt.Errorf("%w: got %v", errInvalidFOV, fovDegrees)
	}
	halfFOV := (fovDegrees / 180 * math.Pi) / 2
	return camera{
		width:  width,
		height: height,
		focal:  float64(width/2) / math.Tan(halfFOV),
	}, nil
}

// rayAngle returns the world angle of the ray through screen column x.
func (c camera) rayAngle(x int, playerAngle float64) float64 {
	return playerAngle + math.Atan(float64(x-c.width/2)/c.focal)
}

// viewState is the camera pose a frame is rendered from. The coordinator
// publishes it before releasing the workers.
type viewState struct {
	pos   position
	angle float64
}

// columnRenderer rasterizes screen columns into a frame buffer.
type columnRenderer struct {
	world *gridMap
	cam   camera
	frame *frameBuffer
	view  viewState

	// rowColors holds the sky or fogged floor color of every row; only wall
	// pixels vary per column.
	rowColors []packedColor
	// hits records the wall cell seen through each column in the last frame.
	hits []intPoint
}

func newColumnRenderer(world *gridMap, cam camera, frame *frameBuffer) *columnRenderer {
	r := &columnRenderer{
		world:     world,
		cam:       cam,
		frame:     frame,
		rowColors: make([]packedColor, cam.height),
		hits:      make([]intPoint, cam.width),
	}
	for y := range r.rowColors {
		r.rowColors[y] = backgroundColor(y, cam.height)
	}
	return r
}

// backgroundColor returns the sky color above the horizon and the fogged
// floor color below it.
func backgroundColor(y, height int) packedColor {
	if y < height/2 {
		return skyColor
	}
	floorDepth := float64(height) / ((float64(y) - float64(height)/2) * 2)
	c := floorColor
	if fog := fogAmount(floorDepth); fog > 0 {
		c = lerpColor(c, fogColor, fog)
	}
	return c
}

// renderSpan draws every column of span.
func (r *columnRenderer) renderSpan(span columnSpan) {
	for x := span.start; x < span.end; x++ {
		r.renderColumn(x)
	}
}

// renderColumn casts the view ray for column x and writes the whole column.
func (r *columnRenderer) renderColumn(x int) {
	view := r.view
	ray := r.world.castRay(view.pos, r.cam.rayAngle(x, view.angle), view.angle)
	r.hits[x] = ray.cell

	wall := shadeWall(ray)
	height := r.cam.height
	wallHeight := wallHeightFor(ray.depth, height)
	top := (height - wallHeight) / 2
	for y := 0; y < height; y++ {
		if y > top && y < wallHeight+top {
			r.frame.set(x, y, wall)
		} else {
			r.frame.set(x, y, r.rowColors[y])
		}
	}
}

// shadeWall applies the specular highlight and distance fog to a ray color.
func shadeWall(ray rayResult) packedColor {
	c := lerpColor(lightColor, ray.color, math.Sqrt(math.Sin(ray.incidence)))
	if fog := fogAmount(ray.depth); fog > 0 {
		c = lerpColor(c, fogColor, fog)
	}
	return c
}

// wallHeightFor projects a depth onto a screen of the given height. Depths
// near zero are capped so the wall still fills the column.
func wallHeightFor(depth float64, height int) int {
	h := float64(height) / depth
	if !(h < maxWallHeight) {
		return maxWallHeight
	}
	return int(h)
}
