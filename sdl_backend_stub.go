//go:build !sdl

package main

import "errors"

var errNoSDL = errors.New("SDL support is not enabled; rebuild with -tags sdl")

type sdlBackend struct{}

func newSDLBackend(_, _, _ int) (*sdlBackend, error) {
	return nil, errNoSDL
}

func (b *sdlBackend) Poll() inputState { return inputState{quit: true} }

func (b *sdlBackend) Upload([]byte) error { return errNoSDL }

func (b *sdlBackend) Present() error { return errNoSDL }

func (b *sdlBackend) Close() error { return nil }
