package main

import (
	"math"
	"math/rand"
	"time"
)

// inputState is one frame's snapshot of the controls.
type inputState struct {
	quit bool
	// mouseDX is the horizontal mouse motion since the previous poll.
	mouseDX float64

	forward, backward       bool
	turnLeft, turnRight     bool
	strafeLeft, strafeRight bool
}

// player is the camera pose. An angle of 0 looks toward increasing y.
type player struct {
	pos   position
	angle float64
}

// integrate advances the pose by delta. Opposing keys cancel out. The walk
// multiplier is shared by walking and strafing, and backward negates it once
// per use, so strafing is reversed only while forward and backward are both
// held.
func (p *player) integrate(in inputState, delta time.Duration) {
	dt := delta.Seconds()
	p.angle += in.mouseDX / 1000 * mouseSensitivity
	if in.turnLeft != in.turnRight {
		if in.turnLeft {
			p.angle -= arrowTurnSpeed * dt
		} else {
			p.angle += arrowTurnSpeed * dt
		}
	}

	mult := dt * playerSpeed
	if in.forward != in.backward {
		if in.backward {
			mult = -mult
		}
		p.pos.x += -math.Sin(p.angle) * mult
		p.pos.y += math.Cos(p.angle) * mult
	}
	if in.strafeLeft != in.strafeRight {
		if in.backward {
			mult = -mult
		}
		turn := -math.Pi / 2
		if in.strafeRight {
			turn = math.Pi / 2
		}
		p.pos.x += -math.Sin(p.angle+turn) * mult
		p.pos.y += math.Cos(p.angle+turn) * mult
	}
}

// autoWalker produces scripted input: a random combination of keys held for
// a random number of frames, rerolled when it would walk into a wall.
type autoWalker struct {
	rand       *rand.Rand
	current    inputState
	frameCount int
	deadline   time.Time
}

// newAutoWalker returns a walker that stops after duration, or never when
// duration is zero.
func newAutoWalker(seed int64, duration time.Duration) *autoWalker {
	a := &autoWalker{rand: rand.New(rand.NewSource(seed))}
	if duration > 0 {
		a.deadline = time.Now().Add(duration)
	}
	return a
}

// expired reports whether the walk duration has passed.
func (a *autoWalker) expired() bool {
	return !a.deadline.IsZero() && time.Now().After(a.deadline)
}

// next returns the input for the coming frame.
func (a *autoWalker) next(p player, world *gridMap, delta time.Duration) inputState {
	if a.expired() {
		return inputState{}
	}
	for attempts := 0; attempts < 5; attempts++ {
		if a.frameCount <= 0 {
			a.randomize()
		}
		ahead := p
		ahead.integrate(a.current, delta)
		if !world.isWall(world.cellAt(ahead.pos.x, ahead.pos.y)) {
			a.frameCount--
			return a.current
		}
		a.frameCount = 0
	}
	// Boxed in: turn on the spot until a free direction opens up.
	return inputState{turnRight: true}
}

// randomize picks new keys and how many frames to hold them.
func (a *autoWalker) randomize() {
	r := a.rand
	in := inputState{}
	switch r.Intn(3) {
	case 0:
		in.forward = true
	case 1:
		in.backward = true
	}
	switch r.Intn(4) {
	case 0:
		in.strafeLeft = true
	case 1:
		in.strafeRight = true
	}
	switch r.Intn(3) {
	case 0:
		in.turnLeft = true
	case 1:
		in.turnRight = true
	}
	a.current = in
	a.frameCount = autoWalkMinFrames + r.Intn(autoWalkFrameSpread)
}
