package main

import "flag"

// Command-line flags that select the presentation backend, the renderer and
// optional diagnostics.
var (
	// workersFlag sets how many persistent goroutines split each frame.
	workersFlag = flag.Int("workers", defaultWorkerCount, "number of render worker goroutines")

	// fovDegreesFlag adjusts the horizontal field of view.
	fovDegreesFlag = flag.Float64("fov-deg", defaultFOVDegrees, "horizontal field of view (degrees)")

	backendFlag = flag.String("backend", "ebiten", "presentation backend: ebiten, terminal, sdl or headless")

	// framesFlag bounds the headless run.
	framesFlag = flag.Int("frames", defaultHeadlessRun, "frames to render with -backend headless")

	windowScaleFlag = flag.Int("window-scale", defaultWindowScale, "window size multiplier for the ebiten and sdl backends")

	// gpuFlag renders columns with OpenCL instead of the worker pool.
	gpuFlag = flag.Bool("gpu", false, "render columns with OpenCL (requires -tags opencl)")

	// debugFlag enables the FPS overlay, the minimap and the debug hotkeys.
	debugFlag = flag.Bool("debug", false, "show FPS overlay and minimap")

	cpuProfileFlag = flag.String("cpuprofile", "", "write a CPU profile to this file")

	// recordDefaultPGO triggers a scripted walk to produce default.pgo.
	recordDefaultPGO = flag.Bool("record-default-pgo", false, "walk randomly for 15s while capturing default.pgo")

	seedFlag = flag.Int64("seed", 1, "random seed for scripted walks")
)
