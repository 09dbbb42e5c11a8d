package image

import (
	"layer-comparator/internal/raster"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// AbsoluteDiff computes |baseline - target| for every pixel and channel.
type AbsoluteDiff struct {
	workers int
}

func NewAbsoluteDiff() *AbsoluteDiff {
	// Use GOMAXPROCS instead of runtime.NumCPU() to consider cgroup.
	// https://tip.golang.org/doc/go1.25#container-aware-gomaxprocs
	return &AbsoluteDiff{
		workers: runtime.GOMAXPROCS(0),
	}
}

func (a *AbsoluteDiff) Calculate(baseline *raster.Buffer, target *raster.Buffer) (*DiffResult, error) {
	if !baseline.SameSize(target) {
		return nil, &DimensionMismatchError{
			BaselineWidth:  baseline.Width,
			BaselineHeight: baseline.Height,
			TargetWidth:    target.Width,
			TargetHeight:   target.Height,
		}
	}

	diff := raster.New(baseline.Width, baseline.Height)
	height := diff.Height

	numWorkers := a.workers
	if numWorkers > height {
		numWorkers = height
	}
	if numWorkers < 1 {
		numWorkers = 1
	}
	rowsPerWorker := height / numWorkers

	var changedPixelCount int64
	var eg errgroup.Group
	for i := 0; i < numWorkers; i++ {
		startY := i * rowsPerWorker
		endY := startY + rowsPerWorker
		if i == numWorkers-1 {
			endY = height
		}

		eg.Go(func() error {
			changed := a.processRows(baseline, target, diff, startY, endY)
			atomic.AddInt64(&changedPixelCount, changed)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	diffAmount := 0.0
	if totalPixelCount := int64(diff.Width) * int64(diff.Height); totalPixelCount > 0 {
		diffAmount = float64(changedPixelCount) / float64(totalPixelCount)
	}

	return &DiffResult{
		Image:      diff,
		DiffAmount: diffAmount,
		Regions:    FindRegions(diff),
	}, nil
}

func (a *AbsoluteDiff) processRows(baseline *raster.Buffer, target *raster.Buffer, diff *raster.Buffer, startY int, endY int) int64 {
	var localChanged int64

	for y := startY; y < endY; y++ {
		rowStart := diff.PixOffset(0, y)
		for x := 0; x < diff.Width; x++ {
			offset := rowStart + x*3

			dr := absDiff(baseline.Pix[offset], target.Pix[offset])
			dg := absDiff(baseline.Pix[offset+1], target.Pix[offset+1])
			db := absDiff(baseline.Pix[offset+2], target.Pix[offset+2])

			diff.Pix[offset] = dr
			diff.Pix[offset+1] = dg
			diff.Pix[offset+2] = db

			if dr != 0 || dg != 0 || db != 0 {
				localChanged++
			}
		}
	}

	return localChanged
}

func absDiff(l uint8, r uint8) uint8 {
	if l > r {
		return l - r
	}
	return r - l
}
