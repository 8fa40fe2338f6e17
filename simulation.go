package main

import (
	"fmt"
	"time"
)

// display receives finished RGB8 frames.
type display interface {
	Upload(frame []byte) error
	Present() error
	Close() error
}

// inputSource reports the controls once per frame.
type inputSource interface {
	Poll() inputState
}

// backend is a presentation target that also supplies input.
type backend interface {
	display
	inputSource
}

// runLoop drives g until the backend reports quit: poll input, integrate the
// player, render, upload and present. now supplies the frame timestamps.
func runLoop(g *Game, b backend, now func() time.Time) error {
	last := now()
	for {
		t := now()
		delta := t.Sub(last)
		last = t

		in := b.Poll()
		if in.quit {
			return nil
		}
		g.update(in, delta)
		if err := g.renderFrame(); err != nil {
			return err
		}
		if err := b.Upload(g.frame.pix); err != nil {
			return fmt.Errorf("uploading frame %d: %w", g.frames, err)
		}
		if err := b.Present(); err != nil {
			return fmt.Errorf("presenting frame %d: %w", g.frames, err)
		}
	}
}

// fixedClock returns a clock that advances by step on every call.
func fixedClock(step time.Duration) func() time.Time {
	t := time.Unix(0, 0)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}
