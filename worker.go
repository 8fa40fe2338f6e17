package main

import (
	"errors"
	"fmt"
	"sync"
)

var errNoWorkers = errors.New("worker count must be at least 1")

// framePool runs a fixed set of persistent render goroutines. Each worker owns
// one static column span and renders it once per generation.
//
// Workers wait on workCond for a new generation; the coordinator waits on
// doneCond for the countdown to reach zero. Both share mu.
type framePool struct {
	mu         sync.Mutex
	workCond   *sync.Cond
	doneCond   *sync.Cond
	generation uint64
	remaining  int
	done       bool

	spans  []columnSpan
	render func(columnSpan)

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// newFramePool starts workers goroutines that split width columns between
// them and call render with their span on every frame.
func newFramePool(workers, width int, render func(columnSpan)) (*framePool, error) {
	if workers < 1 {
		return nil, fmt.Errorf("%w: got %d", errNoWorkers, workers)
	}
	p := &framePool{
		spans:  splitColumns(width, workers),
		render: render,
	}
	p.workCond = sync.NewCond(&p.mu)
	p.doneCond = sync.NewCond(&p.mu)
	p.wg.Add(len(p.spans))
	for _, span := range p.spans {
		go p.workerLoop(span)
	}
	return p, nil
}

// workerLoop renders span once for every generation until the pool closes.
func (p *framePool) workerLoop(span columnSpan) {
	defer p.wg.Done()
	var lastSeen uint64
	p.mu.Lock()
	for {
		for p.generation == lastSeen {
			p.workCond.Wait()
		}
		lastSeen = p.generation
		if p.done {
			p.mu.Unlock()
			return
		}
		p.mu.Unlock()

		if span.end > span.start {
			p.render(span)
		}

		p.mu.Lock()
		p.remaining--
		if p.remaining == 0 {
			p.doneCond.Signal()
		}
	}
}

// renderFrame releases every worker for one generation and blocks until all
// of them have reported. It does nothing once the pool is closed.
func (p *framePool) renderFrame() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done {
		return
	}
	p.remaining = len(p.spans)
	p.generation++
	p.workCond.Broadcast()
	for p.remaining > 0 {
		p.doneCond.Wait()
	}
}

// Close stops every worker and waits for them to exit. It is safe to call
// more than once but not concurrently with renderFrame.
func (p *framePool) Close() {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.done = true
		p.generation++
		p.workCond.Broadcast()
		p.mu.Unlock()
		p.wg.Wait()
	})
}
