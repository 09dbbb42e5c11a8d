package image

import (
	"fmt"
	"layer-comparator/internal/raster"
)

type DiffResult struct {
	Image *raster.Buffer
	// DiffAmount is the fraction of pixels with at least one differing channel.
	DiffAmount float64
	Regions    []Rectangle
}

type Differ interface {
	Calculate(baseline *raster.Buffer, target *raster.Buffer) (*DiffResult, error)
}

// DimensionMismatchError reports two sources whose extents differ, for which
// a per-pixel difference is undefined.
type DimensionMismatchError struct {
	BaselineWidth  int
	BaselineHeight int
	TargetWidth    int
	TargetHeight   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch: %dx%d vs %dx%d", e.BaselineWidth, e.BaselineHeight, e.TargetWidth, e.TargetHeight)
}
