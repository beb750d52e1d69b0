package raster

import "golang.org/x/sync/errgroup"

// minRowsPerWorker keeps tiny rasters on the calling goroutine.
const minRowsPerWorker = 8

// ForEachRowRange splits [0, height) into contiguous ranges and runs fn on
// each, at most workers at a time. fn must only write rows inside its
// range. The first error returned by any range is reported.
func ForEachRowRange(height, workers int, fn func(y0, y1 int) error) error {
	if height <= 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	if limit := (height + minRowsPerWorker - 1) / minRowsPerWorker; workers > limit {
		workers = limit
	}
	if workers == 1 {
		return fn(0, height)
	}

	chunk := (height + workers - 1) / workers
	var g errgroup.Group
	g.SetLimit(workers)
	for y0 := 0; y0 < height; y0 += chunk {
		y1 := min(y0+chunk, height)
		g.Go(func() error {
			return fn(y0, y1)
		})
	}
	return g.Wait()
}
