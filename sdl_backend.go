//go:build sdl

package main

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
)

// SDL must be driven from the main thread.
func init() { runtime.LockOSThread() }

// sdlBackend streams frames into an RGB24 texture.
type sdlBackend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	width    int
	height   int
	mouseDX  int32
}

func newSDLBackend(width, height, scale int) (*sdlBackend, error) {
	if scale < 1 {
		scale = 1
	}
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("initializing SDL: %w", err)
	}
	b := &sdlBackend{width: width, height: height}
	var err error
	b.window, err = sdl.CreateWindow("Raycaster", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(width*scale), int32(height*scale), sdl.WINDOW_SHOWN)
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("creating window: %w", err)
	}
	b.renderer, err = sdl.CreateRenderer(b.window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("creating renderer: %w", err)
	}
	b.texture, err = b.renderer.CreateTexture(sdl.PIXELFORMAT_RGB24, sdl.TEXTUREACCESS_STREAMING, int32(width), int32(height))
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("creating texture: %w", err)
	}
	sdl.SetRelativeMouseMode(true)
	return b, nil
}

// Poll drains the SDL event queue and samples the keyboard.
func (b *sdlBackend) Poll() inputState {
	var in inputState
	for evt := sdl.PollEvent(); evt != nil; evt = sdl.PollEvent() {
		switch e := evt.(type) {
		case *sdl.QuitEvent:
			in.quit = true
		case *sdl.MouseMotionEvent:
			b.mouseDX += e.XRel
		}
	}
	keys := sdl.GetKeyboardState()
	if keys[sdl.SCANCODE_ESCAPE] == 1 {
		in.quit = true
	}
	in.forward = keys[sdl.SCANCODE_W] == 1
	in.backward = keys[sdl.SCANCODE_S] == 1
	in.strafeLeft = keys[sdl.SCANCODE_A] == 1
	in.strafeRight = keys[sdl.SCANCODE_D] == 1
	in.turnLeft = keys[sdl.SCANCODE_LEFT] == 1
	in.turnRight = keys[sdl.SCANCODE_RIGHT] == 1
	in.mouseDX = float64(b.mouseDX)
	b.mouseDX = 0
	return in
}

// Upload copies the frame into the streaming texture row by row, honouring
// the texture pitch.
func (b *sdlBackend) Upload(frame []byte) error {
	pixels, pitch, err := b.texture.Lock(nil)
	if err != nil {
		return fmt.Errorf("locking texture: %w", err)
	}
	rowBytes := b.width * 3
	for y := 0; y < b.height; y++ {
		copy(pixels[y*pitch:y*pitch+rowBytes], frame[y*rowBytes:(y+1)*rowBytes])
	}
	b.texture.Unlock()
	return nil
}

func (b *sdlBackend) Present() error {
	if err := b.renderer.Copy(b.texture, nil, nil); err != nil {
		return fmt.Errorf("copying texture: %w", err)
	}
	b.renderer.Present()
	return nil
}

// Close releases the texture, renderer and window in reverse creation order.
func (b *sdlBackend) Close() error {
	if b.texture != nil {
		b.texture.Destroy()
		b.texture = nil
	}
	if b.renderer != nil {
		b.renderer.Destroy()
		b.renderer = nil
	}
	if b.window != nil {
		b.window.Destroy()
		b.window = nil
	}
	sdl.Quit()
	return nil
}
