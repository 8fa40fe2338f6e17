package main

// frameRenderer fills the game's frame buffer for one view. Render is called
// only from the frame loop goroutine.
type frameRenderer interface {
	Render(view viewState) error
	// Hits returns the wall cell seen through each column in the last frame,
	// or nil when the renderer does not track them.
	Hits() []intPoint
	Name() string
	Close()
}

// cpuRenderer splits the columns of every frame across a framePool.
type cpuRenderer struct {
	columns *columnRenderer
	pool    *framePool
}

func newCPURenderer(world *gridMap, cam camera, frame *frameBuffer, workers int) (*cpuRenderer, error) {
	columns := newColumnRenderer(world, cam, frame)
	pool, err := newFramePool(workers, cam.width, columns.renderSpan)
	if err != nil {
		return nil, err
	}
	return &cpuRenderer{columns: columns, pool: pool}, nil
}

// Render publishes the view and runs one pass of the pool. The pool's mutex
// orders the view write before every worker's read.
func (r *cpuRenderer) Render(view viewState) error {
	r.columns.view = view
	r.pool.renderFrame()
	return nil
}

func (r *cpuRenderer) Hits() []intPoint { return r.columns.hits }

func (r *cpuRenderer) Name() string { return "cpu" }

func (r *cpuRenderer) Close() { r.pool.Close() }
