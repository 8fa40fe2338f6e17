package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
)

// termKey names the controls the terminal backend tracks.
type termKey int

const (
	termForward termKey = iota
	termBackward
	termStrafeLeft
	termStrafeRight
	termTurnLeft
	termTurnRight
	termKeyCount
)

// terminalBackend draws frames with half-block characters, two pixels per
// cell. Terminals report key presses but not releases, so a key counts as
// held for terminalKeyHold after its last press or repeat.
type terminalBackend struct {
	screen tcell.Screen
	events chan tcell.Event
	quit   chan struct{}

	pressedAt [termKeyCount]time.Time
	mouseX    int
	mouseSeen bool
	mouseDX   float64
	closed    bool

	// width and height are the frame size chosen at startup.
	width, height int
}

func newTerminalBackend() (*terminalBackend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating terminal screen: %w", err)
	}
	return newTerminalBackendOn(screen)
}

// newTerminalBackendOn initializes screen and starts reading its events.
func newTerminalBackendOn(screen tcell.Screen) (*terminalBackend, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initializing terminal screen: %w", err)
	}
	screen.HideCursor()
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.Clear()

	t := &terminalBackend{
		screen: screen,
		events: make(chan tcell.Event, 100),
		quit:   make(chan struct{}),
	}
	go t.pollEvents()
	return t, nil
}

// frameSize returns the pixel size that fills the terminal. Frames passed to
// Upload must have this size.
func (t *terminalBackend) frameSize() (int, int) {
	cols, rows := t.screen.Size()
	t.width, t.height = cols, rows*2
	return t.width, t.height
}

func (t *terminalBackend) pollEvents() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case t.events <- ev:
		case <-t.quit:
			return
		}
	}
}

// Poll drains pending terminal events and reports the keys still held.
func (t *terminalBackend) Poll() inputState {
	return t.pollAt(time.Now())
}

func (t *terminalBackend) pollAt(now time.Time) inputState {
	var in inputState
drain:
	for {
		select {
		case ev := <-t.events:
			if t.handleEvent(ev, now) {
				in.quit = true
			}
		default:
			break drain
		}
	}
	held := func(k termKey) bool {
		return now.Sub(t.pressedAt[k]) < terminalKeyHold
	}
	in.forward = held(termForward)
	in.backward = held(termBackward)
	in.strafeLeft = held(termStrafeLeft)
	in.strafeRight = held(termStrafeRight)
	in.turnLeft = held(termTurnLeft)
	in.turnRight = held(termTurnRight)
	in.mouseDX = t.mouseDX
	t.mouseDX = 0
	return in
}

// handleEvent records one event and reports whether it asks to quit.
func (t *terminalBackend) handleEvent(ev tcell.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyLeft:
			t.pressedAt[termTurnLeft] = now
		case tcell.KeyRight:
			t.pressedAt[termTurnRight] = now
		case tcell.KeyUp:
			t.pressedAt[termForward] = now
		case tcell.KeyDown:
			t.pressedAt[termBackward] = now
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'w', 'W':
				t.pressedAt[termForward] = now
			case 's', 'S':
				t.pressedAt[termBackward] = now
			case 'a', 'A':
				t.pressedAt[termStrafeLeft] = now
			case 'd', 'D':
				t.pressedAt[termStrafeRight] = now
			case 'q', 'Q':
				return true
			}
		}
	case *tcell.EventMouse:
		x, _ := ev.Position()
		if t.mouseSeen {
			t.mouseDX += float64(x-t.mouseX) * terminalMouseScale
		}
		t.mouseX = x
		t.mouseSeen = true
	case *tcell.EventResize:
		t.screen.Sync()
	}
	return false
}

// Upload paints the frame, pairing rows into upper-half blocks.
func (t *terminalBackend) Upload(frame []byte) error {
	width, height := t.width, t.height
	if len(frame) != width*height*3 {
		return fmt.Errorf("frame is %d bytes, want %dx%d RGB", len(frame), width, height)
	}
	// Cells beyond a resized terminal are clipped by tcell.
	for row := 0; row*2+1 < height; row++ {
		top := (row * 2) * width * 3
		bottom := (row*2 + 1) * width * 3
		for x := 0; x < width; x++ {
			fg := tcell.NewRGBColor(int32(frame[top+x*3]), int32(frame[top+x*3+1]), int32(frame[top+x*3+2]))
			bg := tcell.NewRGBColor(int32(frame[bottom+x*3]), int32(frame[bottom+x*3+1]), int32(frame[bottom+x*3+2]))
			t.screen.SetContent(x, row, '▀', nil, tcell.StyleDefault.Foreground(fg).Background(bg))
		}
	}
	return nil
}

// Present flushes the screen and paces the loop.
func (t *terminalBackend) Present() error {
	t.screen.Show()
	time.Sleep(terminalFrameDelay)
	return nil
}

func (t *terminalBackend) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	close(t.quit)
	t.screen.Fini()
	return nil
}
