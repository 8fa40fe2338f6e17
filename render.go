package main

import (
	"bytes"
	"fmt"
	"image/color"
	"log"
	"math"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/gomono"
)

var (
	hudTextColor    = color.RGBA{230, 230, 230, 255}
	minimapBG       = color.RGBA{0, 0, 0, 180}
	minimapWall     = color.RGBA{120, 120, 120, 255}
	minimapSeen     = color.RGBA{60, 70, 90, 255}
	minimapFOVColor = color.RGBA{255, 220, 0, 160}
	minimapPlayer   = color.RGBA{255, 40, 40, 255}
)

// ebitenBackend presents frames in an ebiten window. ebiten owns the loop, so
// the per-frame sequence runs inside Update and Draw instead of runLoop.
type ebitenBackend struct {
	game   *Game
	rgba   []byte
	walker *autoWalker

	lastTick     time.Time
	lastCursorX  int
	cursorPrimed bool

	showMinimap bool
	hudFace     *text.GoTextFace
	hudText     string
	lastHUD     time.Time
}

func newEbitenBackend(g *Game, walker *autoWalker) (*ebitenBackend, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
	if err != nil {
		return nil, fmt.Errorf("loading HUD font: %w", err)
	}
	return &ebitenBackend{
		game:        g,
		walker:      walker,
		showMinimap: *debugFlag,
		hudFace:     &text.GoTextFace{Source: src, Size: hudFontSize},
	}, nil
}

// run opens the window and blocks until it is closed.
func (b *ebitenBackend) run(scale int) error {
	if scale < 1 {
		scale = 1
	}
	ebiten.SetWindowSize(b.game.cam.width*scale, b.game.cam.height*scale)
	ebiten.SetWindowTitle("Raycaster")
	ebiten.SetTPS(defaultTPS)
	if b.walker == nil {
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)
	}
	if err := ebiten.RunGame(b); err != nil {
		return err
	}
	return nil
}

// Poll reads the keyboard and the cursor motion since the previous call.
func (b *ebitenBackend) Poll() inputState {
	in := inputState{
		quit:        ebiten.IsKeyPressed(ebiten.KeyEscape),
		forward:     ebiten.IsKeyPressed(ebiten.KeyW),
		backward:    ebiten.IsKeyPressed(ebiten.KeyS),
		strafeLeft:  ebiten.IsKeyPressed(ebiten.KeyA),
		strafeRight: ebiten.IsKeyPressed(ebiten.KeyD),
		turnLeft:    ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		turnRight:   ebiten.IsKeyPressed(ebiten.KeyArrowRight),
	}
	x, _ := ebiten.CursorPosition()
	if b.cursorPrimed {
		in.mouseDX = float64(x - b.lastCursorX)
	}
	b.lastCursorX = x
	b.cursorPrimed = true
	return in
}

// Update integrates input and renders the next frame.
func (b *ebitenBackend) Update() error {
	now := time.Now()
	if b.lastTick.IsZero() {
		b.lastTick = now
	}
	delta := now.Sub(b.lastTick)
	b.lastTick = now

	in := b.Poll()
	if in.quit {
		return ebiten.Termination
	}
	if b.walker != nil {
		if b.walker.expired() {
			return ebiten.Termination
		}
		in = b.walker.next(b.game.player, b.game.world, delta)
	}
	if *debugFlag {
		b.handleDebugControls()
	}

	g := b.game
	g.trackVisibility = b.showMinimap
	g.update(in, delta)
	if err := g.renderFrame(); err != nil {
		return err
	}
	if err := b.Upload(g.frame.pix); err != nil {
		return err
	}
	return b.Present()
}

// Upload converts the RGB8 frame into the RGBA buffer drawn by Draw.
func (b *ebitenBackend) Upload(frame []byte) error {
	b.rgba = rgbToRGBA(b.rgba, frame)
	return nil
}

// Present is a no-op; ebiten shows the screen after Draw returns.
func (b *ebitenBackend) Present() error { return nil }

func (b *ebitenBackend) Close() error {
	ebiten.SetCursorMode(ebiten.CursorModeVisible)
	return nil
}

// handleDebugControls processes debug hotkeys.
func (b *ebitenBackend) handleDebugControls() {
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		b.showMinimap = !b.showMinimap
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		pose := formatPose(b.game.player)
		if err := clipboard.WriteAll(pose); err != nil {
			log.Printf("Copying pose failed: %v", err)
		} else {
			log.Printf("Copied pose %s", pose)
		}
	}
}

// formatPose renders the player pose in a form that can be pasted into a bug
// report.
func formatPose(p player) string {
	return fmt.Sprintf("pos=(%.3f, %.3f) angle=%.4f", p.pos.x, p.pos.y, p.angle)
}

// Draw writes the latest frame and the optional overlays.
func (b *ebitenBackend) Draw(screen *ebiten.Image) {
	g := b.game
	if len(b.rgba) == g.cam.width*g.cam.height*4 {
		screen.WritePixels(b.rgba)
	}
	if b.showMinimap {
		b.drawMinimap(screen)
	}
	if *debugFlag {
		b.drawHUD(screen)
	}
}

// Layout reports the logical screen size used by ebiten.
func (b *ebitenBackend) Layout(_, _ int) (int, int) {
	return b.game.cam.width, b.game.cam.height
}

// drawHUD prints frame timing, refreshed every debugOverlayInterval.
func (b *ebitenBackend) drawHUD(screen *ebiten.Image) {
	now := time.Now()
	if now.Sub(b.lastHUD) >= debugOverlayInterval {
		g := b.game
		renderMS := g.lastRenderTime.Seconds() * 1000
		b.hudText = fmt.Sprintf("FPS: %.1f  TPS: %.1f\nRender: %.2f ms (%s)  Tick: %.1f ms\nFrame %d  %s",
			ebiten.ActualFPS(), ebiten.ActualTPS(), renderMS, g.renderer.Name(),
			g.lastDelta.Seconds()*1000, g.frames, formatPose(g.player))
		b.lastHUD = now
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(minimapMargin, minimapMargin)
	op.ColorScale.ScaleWithColor(hudTextColor)
	op.LineSpacing = hudFontSize * 1.3
	text.Draw(screen, b.hudText, b.hudFace, op)
}

// drawMinimap draws a top-down map in the bottom-left corner with the cells
// seen last frame, the player and the edges of the view cone.
func (b *ebitenBackend) drawMinimap(screen *ebiten.Image) {
	g := b.game
	world := g.world
	cell := minimapCellPixels
	mapW, mapH := world.width*cell, world.height*cell
	ox := minimapMargin
	oy := g.cam.height - mapH - minimapMargin
	vector.FillRect(screen, float32(ox), float32(oy), float32(mapW), float32(mapH), minimapBG, false)
	for y := 0; y < world.height; y++ {
		for x := 0; x < world.width; x++ {
			var clr color.Color
			switch {
			case world.isWall(x, y):
				clr = minimapWall
				if c := wallColor(world.symbolAt(x, y)); c != solidWallColor {
					clr = c.RGBA()
				}
			case g.vis.visible(x, y):
				clr = minimapSeen
			default:
				continue
			}
			vector.FillRect(screen, float32(ox+x*cell), float32(oy+y*cell), float32(cell), float32(cell), clr, false)
		}
	}

	scale := float64(cell) / world.scale
	px := clampCoord(ox+int(g.player.pos.x*scale), ox, ox+mapW-1)
	py := clampCoord(oy+int(g.player.pos.y*scale), oy, oy+mapH-1)
	reach := float64(2 * mapW)
	for _, col := range []int{0, g.cam.width - 1} {
		a := g.cam.rayAngle(col, g.player.angle)
		ex := px + int(-math.Sin(a)*reach)
		ey := py + int(math.Cos(a)*reach)
		drawLine(screen, px, py, ex, ey, ox, oy, mapW, mapH, minimapFOVColor)
	}
	vector.FillRect(screen, float32(px-1), float32(py-1), 3, 3, minimapPlayer, false)
}

// drawLine plots a line segment using Bresenham's integer algorithm, clipped
// to the rectangle at (cx, cy) of size cw×ch.
func drawLine(screen *ebiten.Image, x0, y0, x1, y1, cx, cy, cw, ch int, clr color.Color) {
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
	for {
		if x0 < cx || x0 >= cx+cw || y0 < cy || y0 >= cy+ch {
			break
		}
		screen.Set(x0, y0, clr)
		if x0 == x1 && y0 == y1 {
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
