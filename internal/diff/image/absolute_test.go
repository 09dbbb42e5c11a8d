package image

import (
	"errors"
	"layer-comparator/internal/raster"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func createTestBuffer(width, height int, r, g, b uint8) *raster.Buffer {
	buf := raster.New(width, height)
	for i := 0; i < len(buf.Pix); i += 3 {
		buf.Pix[i] = r
		buf.Pix[i+1] = g
		buf.Pix[i+2] = b
	}
	return buf
}

func TestAbsoluteDiff_Calculate(t *testing.T) {
	ad := NewAbsoluteDiff()

	t.Run("NoDifference", func(t *testing.T) {
		img1 := createTestBuffer(100, 100, 255, 255, 255)
		img2 := createTestBuffer(100, 100, 255, 255, 255)

		result, err := ad.Calculate(img1, img2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.DiffAmount != 0.0 {
			t.Errorf("Expected DiffAmount to be 0.0, got %f", result.DiffAmount)
		}
		for i, v := range result.Image.Pix {
			if v != 0 {
				t.Fatalf("Expected zero at %d, got %d", i, v)
			}
		}
		if len(result.Regions) != 0 {
			t.Errorf("Expected no regions, got %v", result.Regions)
		}
	})

	t.Run("AbsolutePerChannel", func(t *testing.T) {
		img1 := createTestBuffer(3, 2, 10, 200, 30)
		img2 := createTestBuffer(3, 2, 50, 20, 30)

		result, err := ad.Calculate(img1, img2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := createTestBuffer(3, 2, 40, 180, 0)
		if diff := cmp.Diff(want.Pix, result.Image.Pix); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
		if result.DiffAmount != 1.0 {
			t.Errorf("Expected DiffAmount to be 1.0, got %f", result.DiffAmount)
		}
	})

	t.Run("Symmetric", func(t *testing.T) {
		img1 := createTestBuffer(64, 48, 12, 99, 250)
		img2 := createTestBuffer(64, 48, 200, 3, 17)
		img2.Pix[0] = 12

		forward, err := ad.Calculate(img1, img2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		backward, err := ad.Calculate(img2, img1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !forward.Image.Equal(backward.Image) {
			t.Errorf("Expected difference to be symmetric")
		}
	})

	t.Run("PartialDifference", func(t *testing.T) {
		img1 := createTestBuffer(100, 100, 255, 255, 255)
		img2 := createTestBuffer(100, 100, 255, 255, 255)

		for y := 0; y < 50; y++ {
			for x := 0; x < 100; x++ {
				o := img2.PixOffset(x, y)
				img2.Pix[o], img2.Pix[o+1], img2.Pix[o+2] = 0, 0, 0
			}
		}

		result, err := ad.Calculate(img1, img2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.DiffAmount != 0.5 {
			t.Errorf("Expected DiffAmount to be 0.5, got %f", result.DiffAmount)
		}
		if diff := cmp.Diff([]Rectangle{{X: 0, Y: 0, Width: 100, Height: 50}}, result.Regions); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})

	t.Run("DimensionMismatch", func(t *testing.T) {
		img1 := createTestBuffer(100, 100, 0, 0, 0)
		img2 := createTestBuffer(50, 50, 0, 0, 0)

		result, err := ad.Calculate(img1, img2)

		var mismatch *DimensionMismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("Expected DimensionMismatchError, got %v", err)
		}
		if result != nil {
			t.Errorf("Expected no result, got %v", result)
		}
		want := &DimensionMismatchError{BaselineWidth: 100, BaselineHeight: 100, TargetWidth: 50, TargetHeight: 50}
		if diff := cmp.Diff(want, mismatch); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})

	t.Run("FewerRowsThanWorkers", func(t *testing.T) {
		wide := &AbsoluteDiff{workers: 16}
		img1 := createTestBuffer(5, 1, 1, 1, 1)
		img2 := createTestBuffer(5, 1, 3, 3, 3)

		result, err := wide.Calculate(img1, img2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff(createTestBuffer(5, 1, 2, 2, 2).Pix, result.Image.Pix); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})
}

func BenchmarkAbsoluteDiff_Calculate_Small(b *testing.B) {
	ad := NewAbsoluteDiff()
	img1 := createTestBuffer(1920, 1080, 255, 255, 255)
	img2 := createTestBuffer(1920, 1080, 250, 255, 255)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ad.Calculate(img1, img2)
	}
}

func BenchmarkAbsoluteDiff_Calculate_Large(b *testing.B) {
	ad := NewAbsoluteDiff()
	img1 := createTestBuffer(3840, 2160, 255, 255, 255)
	img2 := createTestBuffer(3840, 2160, 250, 255, 255)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ad.Calculate(img1, img2)
	}
}
