package main

import (
	"fmt"
	"log"
	"time"
)

// gameConfig collects the startup options of a Game.
type gameConfig struct {
	mapRows    []string
	width      int
	height     int
	workers    int
	fovDegrees float64
	gpu        bool
}

// defaultGameConfig returns the configuration selected by the command line.
func defaultGameConfig() gameConfig {
	return gameConfig{
		mapRows:    defaultMap,
		width:      screenWidth,
		height:     screenHeight,
		workers:    *workersFlag,
		fovDegrees: *fovDegreesFlag,
		gpu:        *gpuFlag,
	}
}

// Game owns the world, the player, the frame buffer and the renderer that
// fills it. All methods run on the frame loop goroutine.
type Game struct {
	world    *gridMap
	player   player
	cam      camera
	frame    *frameBuffer
	renderer frameRenderer
	vis      *visibility
	// trackVisibility enables the per-frame visibility refresh the minimap
	// reads.
	trackVisibility bool

	frames         uint64
	lastDelta      time.Duration
	lastRenderTime time.Duration
}

// newGame validates the map, places the player on the spawn cell and starts
// the renderer.
func newGame(cfg gameConfig) (*Game, error) {
	world, err := newGridMap(cfg.mapRows, worldScale)
	if err != nil {
		return nil, fmt.Errorf("loading map: %w", err)
	}
	spawn := world.playerSpawn()
	if spawn == noSpawn {
		return nil, errNoSpawn
	}
	cam, err := newCamera(cfg.width, cfg.height, cfg.fovDegrees)
	if err != nil {
		return nil, fmt.Errorf("configuring camera: %w", err)
	}
	frame := newFrameBuffer(cfg.width, cfg.height)

	var renderer frameRenderer
	if cfg.gpu {
		gpu, err := newOpenCLRenderer(world, cam, frame)
		if err != nil {
			return nil, fmt.Errorf("OpenCL initialization failed: %w", err)
		}
		renderer = gpu
	} else {
		cpu, err := newCPURenderer(world, cam, frame, cfg.workers)
		if err != nil {
			return nil, fmt.Errorf("starting render workers: %w", err)
		}
		renderer = cpu
	}
	log.Printf("Renderer: %s, %dx%d, fov %.0f°", renderer.Name(), cfg.width, cfg.height, cfg.fovDegrees)

	return &Game{
		world:    world,
		player:   player{pos: spawn},
		cam:      cam,
		frame:    frame,
		renderer: renderer,
		vis:      newVisibility(world),
	}, nil
}

// view returns the pose the next frame is rendered from.
func (g *Game) view() viewState {
	return viewState{pos: g.player.pos, angle: g.player.angle}
}

// update integrates one frame of input.
func (g *Game) update(in inputState, delta time.Duration) {
	g.lastDelta = delta
	g.player.integrate(in, delta)
}

// renderFrame fills the frame buffer for the current pose and, when tracking
// is on, refreshes the cells seen by it.
func (g *Game) renderFrame() error {
	start := time.Now()
	if err := g.renderer.Render(g.view()); err != nil {
		return fmt.Errorf("rendering frame %d: %w", g.frames, err)
	}
	g.lastRenderTime = time.Since(start)
	g.frames++
	if !g.trackVisibility {
		return nil
	}
	if hits := g.renderer.Hits(); hits != nil {
		g.vis.refresh(g.player.pos, hits)
	}
	return nil
}

// Close stops the renderer.
func (g *Game) Close() {
	g.renderer.Close()
}
