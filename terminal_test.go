package main

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

func simTerminal(t *testing.T, cols, rows int) (*terminalBackend, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	tb, err := newTerminalBackendOn(screen)
	if err != nil {
		t.Fatalf("newTerminalBackendOn: %v", err)
	}
	t.Cleanup(func() { _ = tb.Close() })
	screen.SetSize(cols, rows)
	tb.frameSize()
	return tb, screen
}

// waitForEvents blocks until the reader goroutine has forwarded n events.
func waitForEvents(t *testing.T, tb *terminalBackend, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for len(tb.events) < n {
		if time.Now().After(deadline) {
			t.Fatalf("got %d events, want %d", len(tb.events), n)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestTerminalBackend_FrameSizeDoublesRows(t *testing.T) {
	tb, _ := simTerminal(t, 40, 12)
	if w, h := tb.frameSize(); w != 40 || h != 24 {
		t.Fatalf("frameSize = %dx%d, want 40x24", w, h)
	}
}

func TestTerminalBackend_KeyHeldUntilHoldExpires(t *testing.T) {
	tb, screen := simTerminal(t, 8, 4)
	screen.InjectKey(tcell.KeyRune, 'w', tcell.ModNone)
	screen.InjectKey(tcell.KeyLeft, 0, tcell.ModNone)
	waitForEvents(t, tb, 2)

	now := time.Now()
	in := tb.pollAt(now)
	if !in.forward || !in.turnLeft {
		t.Fatalf("pressed keys not held: %+v", in)
	}
	if in.backward || in.strafeLeft || in.strafeRight || in.turnRight || in.quit {
		t.Fatalf("unexpected keys held: %+v", in)
	}
	if in = tb.pollAt(now.Add(terminalKeyHold - time.Millisecond)); !in.forward || !in.turnLeft {
		t.Fatalf("keys released before the hold expired: %+v", in)
	}
	if in = tb.pollAt(now.Add(terminalKeyHold)); in.forward || in.turnLeft {
		t.Fatalf("keys still held after %v: %+v", terminalKeyHold, in)
	}
}

func TestTerminalBackend_RepeatExtendsHold(t *testing.T) {
	tb, screen := simTerminal(t, 8, 4)
	screen.InjectKey(tcell.KeyRune, 'd', tcell.ModNone)
	waitForEvents(t, tb, 1)
	now := time.Now()
	tb.pollAt(now)

	screen.InjectKey(tcell.KeyRune, 'd', tcell.ModNone)
	waitForEvents(t, tb, 1)
	later := now.Add(terminalKeyHold / 2)
	tb.pollAt(later)
	if in := tb.pollAt(now.Add(terminalKeyHold)); !in.strafeRight {
		t.Fatalf("repeat did not extend the hold: %+v", in)
	}
}

func TestTerminalBackend_QuitKeys(t *testing.T) {
	cases := []struct {
		name string
		key  tcell.Key
		r    rune
		mod  tcell.ModMask
	}{
		{"escape", tcell.KeyEscape, 0, tcell.ModNone},
		{"ctrl-c", tcell.KeyCtrlC, 0, tcell.ModCtrl},
		{"q", tcell.KeyRune, 'q', tcell.ModNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tb, screen := simTerminal(t, 8, 4)
			screen.InjectKey(tc.key, tc.r, tc.mod)
			waitForEvents(t, tb, 1)
			now := time.Now()
			if in := tb.pollAt(now); !in.quit {
				t.Fatalf("%s did not quit: %+v", tc.name, in)
			}
			if in := tb.pollAt(now); in.quit {
				t.Fatal("quit repeated without a new key")
			}
		})
	}
}

func TestTerminalBackend_MouseDeltaAccumulatesAndResets(t *testing.T) {
	tb, screen := simTerminal(t, 40, 4)
	screen.InjectMouse(10, 1, tcell.ButtonNone, tcell.ModNone)
	screen.InjectMouse(13, 1, tcell.ButtonNone, tcell.ModNone)
	screen.InjectMouse(11, 2, tcell.ButtonNone, tcell.ModNone)
	waitForEvents(t, tb, 3)

	now := time.Now()
	// The first report only primes the position: (3 - 2) columns moved.
	if in := tb.pollAt(now); in.mouseDX != terminalMouseScale {
		t.Fatalf("MouseDX = %v, want %v", in.mouseDX, terminalMouseScale)
	}
	if in := tb.pollAt(now); in.mouseDX != 0 {
		t.Fatalf("MouseDX after reset = %v, want 0", in.mouseDX)
	}
}

func TestTerminalBackend_UploadPairsRows(t *testing.T) {
	tb, screen := simTerminal(t, 2, 1)
	frame := []byte{
		10, 20, 30, 40, 50, 60,
		70, 80, 90, 100, 110, 120,
	}
	if err := tb.Upload(frame); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	cells := []struct {
		x      int
		fg, bg tcell.Color
	}{
		{0, tcell.NewRGBColor(10, 20, 30), tcell.NewRGBColor(70, 80, 90)},
		{1, tcell.NewRGBColor(40, 50, 60), tcell.NewRGBColor(100, 110, 120)},
	}
	for _, c := range cells {
		r, _, style, _ := screen.GetContent(c.x, 0)
		if r != '▀' {
			t.Fatalf("cell %d rune = %q, want upper half block", c.x, r)
		}
		fg, bg, _ := style.Decompose()
		if fg != c.fg || bg != c.bg {
			t.Fatalf("cell %d colors = %v/%v, want %v/%v", c.x, fg, bg, c.fg, c.bg)
		}
	}
}

func TestTerminalBackend_UploadRejectsWrongSize(t *testing.T) {
	tb, _ := simTerminal(t, 2, 1)
	if err := tb.Upload(make([]byte, 2*2*3-1)); err == nil {
		t.Fatal("Upload accepted a short frame")
	}
}

func TestTerminalBackend_CloseIsIdempotent(t *testing.T) {
	tb, _ := simTerminal(t, 2, 1)
	if err := tb.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := tb.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
