package session

import (
	"errors"
	"fmt"
	diffimage "layer-comparator/internal/diff/image"
)

// ErrNotReady is returned when an operation needs a slot that is not loaded yet.
var ErrNotReady = errors.New("previous and next images are not both loaded")

// ImageLoadError reports a path that could not be read or decoded. The
// affected slot keeps its prior value.
type ImageLoadError struct {
	Path string
	Err  error
}

func (e *ImageLoadError) Error() string {
	return fmt.Sprintf("failed to load image %s: %v", e.Path, e.Err)
}

func (e *ImageLoadError) Unwrap() error {
	return e.Err
}

type DimensionMismatchError = diffimage.DimensionMismatchError
