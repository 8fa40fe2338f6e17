package main

import (
	"flag"
	"fmt"
	"log"
	"time"
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Fatalf("raycaster: %v", err)
	}
}

// run sets up profiling, builds the game for the selected backend and drives
// it until the player quits.
func run() error {
	if *cpuProfileFlag != "" {
		stop, err := startCPUProfile(*cpuProfileFlag)
		if err != nil {
			return err
		}
		defer stop()
	}
	var walker *autoWalker
	if *recordDefaultPGO {
		stop, err := startCPUProfile("default.pgo")
		if err != nil {
			return fmt.Errorf("starting default.pgo recording: %w", err)
		}
		defer stop()
		walker = newAutoWalker(*seedFlag, pgoRecordDuration)
		log.Printf("Recording default.pgo for %s", pgoRecordDuration)
	}

	cfg := defaultGameConfig()
	switch *backendFlag {
	case "ebiten":
		g, err := newGame(cfg)
		if err != nil {
			return err
		}
		defer g.Close()
		b, err := newEbitenBackend(g, walker)
		if err != nil {
			return err
		}
		defer b.Close()
		return b.run(*windowScaleFlag)

	case "terminal":
		t, err := newTerminalBackend()
		if err != nil {
			return err
		}
		defer t.Close()
		cfg.width, cfg.height = t.frameSize()
		return runWith(cfg, t, time.Now)

	case "sdl":
		s, err := newSDLBackend(cfg.width, cfg.height, *windowScaleFlag)
		if err != nil {
			return err
		}
		defer s.Close()
		return runWith(cfg, s, time.Now)

	case "headless":
		g, err := newGame(cfg)
		if err != nil {
			return err
		}
		defer g.Close()
		h := newHeadlessBackend(g, *framesFlag, *seedFlag)
		defer h.Close()
		start := time.Now()
		if err := runLoop(g, h, fixedClock(h.delta)); err != nil {
			return err
		}
		elapsed := time.Since(start)
		log.Printf("Rendered %d frames in %s (%.1f fps)", g.frames, elapsed, float64(g.frames)/elapsed.Seconds())
		return nil

	default:
		return fmt.Errorf("unknown backend %q", *backendFlag)
	}
}

// runWith builds a game and drives it with runLoop on b.
func runWith(cfg gameConfig, b backend, now func() time.Time) error {
	g, err := newGame(cfg)
	if err != nil {
		return err
	}
	defer g.Close()
	return runLoop(g, b, now)
}
