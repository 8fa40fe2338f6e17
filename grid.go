package main

// intPoint represents an integer coordinate on the map grid.
type intPoint struct {
	x int
	y int
}

// columnSpan is the half-open range of screen columns [start, end) owned by
// one render worker.
type columnSpan struct {
	worker int
	start  int
	end    int
}

// splitColumns divides width columns into workers contiguous spans. Span i
// covers [⌊i·width/workers⌋, ⌊(i+1)·width/workers⌋).
func splitColumns(width, workers int) []columnSpan {
	if workers < 1 {
		workers = 1
	}
	div := float64(width) / float64(workers)
	spans := make([]columnSpan, workers)
	for i := range spans {
		spans[i] = columnSpan{
			worker: i,
			start:  int(div * float64(i)),
			end:    int(div * float64(i+1)),
		}
	}
	spans[workers-1].end = width
	return spans
}

// clampCoord constrains v to lie within the inclusive [min, max] range.
func clampCoord(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
