package main

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestSplitColumns_CoversWidth(t *testing.T) {
	spans := splitColumns(10, 3)
	want := []columnSpan{{0, 0, 3}, {1, 3, 6}, {2, 6, 10}}
	if len(spans) != len(want) {
		t.Fatalf("got %d spans, want %d", len(spans), len(want))
	}
	for i := range want {
		if spans[i] != want[i] {
			t.Fatalf("span %d = %+v, want %+v", i, spans[i], want[i])
		}
	}
}

func TestSplitColumns_MoreWorkersThanColumns(t *testing.T) {
	spans := splitColumns(2, 4)
	covered := make([]int, 2)
	for _, s := range spans {
		for x := s.start; x < s.end; x++ {
			covered[x]++
		}
	}
	for x, n := range covered {
		if n != 1 {
			t.Fatalf("column %d covered %d times", x, n)
		}
	}
}

func TestNewFramePool_RejectsNoWorkers(t *testing.T) {
	if _, err := newFramePool(0, 10, func(columnSpan) {}); !errors.Is(err, errNoWorkers) {
		t.Fatalf("expected errNoWorkers, got %v", err)
	}
}

// countingPool returns a pool whose render callback counts calls per worker
// and per column.
func countingPool(t *testing.T, workers, width int) (*framePool, []int, []int) {
	t.Helper()
	perWorker := make([]int, workers)
	perColumn := make([]int, width)
	p, err := newFramePool(workers, width, func(s columnSpan) {
		perWorker[s.worker]++
		for x := s.start; x < s.end; x++ {
			perColumn[x]++
		}
	})
	if err != nil {
		t.Fatalf("newFramePool: %v", err)
	}
	return p, perWorker, perColumn
}

func TestFramePool_OnePassPerFrame(t *testing.T) {
	const workers, width, frames = 4, 103, 50
	p, perWorker, perColumn := countingPool(t, workers, width)
	defer p.Close()

	for f := 1; f <= frames; f++ {
		p.renderFrame()
		for x, n := range perColumn {
			if n != f {
				t.Fatalf("after frame %d column %d rendered %d times", f, x, n)
			}
		}
	}
	for i, n := range perWorker {
		if n != frames {
			t.Fatalf("worker %d rendered %d slices, want %d", i, n, frames)
		}
	}
	if len(p.spans) != workers {
		t.Fatalf("pool has %d spans, want %d", len(p.spans), workers)
	}
}

func TestFramePool_EmptySpansStillReport(t *testing.T) {
	p, _, perColumn := countingPool(t, 8, 3)
	defer p.Close()
	for i := 0; i < 10; i++ {
		p.renderFrame()
	}
	for x, n := range perColumn {
		if n != 10 {
			t.Fatalf("column %d rendered %d times, want 10", x, n)
		}
	}
}

func TestFramePool_CloseStopsWorkers(t *testing.T) {
	p, perWorker, _ := countingPool(t, 4, 40)
	p.renderFrame()

	done := make(chan struct{})
	go func() {
		p.Close()
		p.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not return; workers still running")
	}

	p.renderFrame()
	for i, n := range perWorker {
		if n != 1 {
			t.Fatalf("worker %d rendered %d slices after close, want 1", i, n)
		}
	}
}

func TestFramePool_ConcurrentWritesAreDisjoint(t *testing.T) {
	const width = 257
	fb := newFrameBuffer(width, 4)
	var mu sync.Mutex
	seen := map[int]int{}
	p, err := newFramePool(6, width, func(s columnSpan) {
		for x := s.start; x < s.end; x++ {
			for y := 0; y < fb.height; y++ {
				fb.set(x, y, packedColor(x))
			}
		}
		mu.Lock()
		seen[s.worker]++
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("newFramePool: %v", err)
	}
	defer p.Close()
	p.renderFrame()
	for x := 0; x < width; x++ {
		if got := fb.at(x, 3); got != packedColor(x) {
			t.Fatalf("column %d = %06X, want %06X", x, got, x)
		}
	}
	if len(seen) != 6 {
		t.Fatalf("%d workers reported, want 6", len(seen))
	}
}
