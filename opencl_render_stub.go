//go:build !opencl

package main

import "errors"

type openCLRenderer struct{}

func newOpenCLRenderer(_ *gridMap, _ camera, _ *frameBuffer) (*openCLRenderer, error) {
	return nil, errors.New("OpenCL support is not enabled; rebuild with -tags opencl")
}

func (r *openCLRenderer) Render(viewState) error {
	return errors.New("OpenCL renderer unavailable")
}

func (r *openCLRenderer) Hits() []intPoint { return nil }

func (r *openCLRenderer) Name() string { return "opencl" }

func (r *openCLRenderer) Close() {}
