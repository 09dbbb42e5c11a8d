package extract

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"
	"layer-comparator/internal/logging"
	"layer-comparator/internal/raster"
	"layer-comparator/internal/storage"
	"path"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var palette = color.Palette{color.Transparent, color.White, color.Black}

func frame(r image.Rectangle, index uint8) *image.Paletted {
	p := image.NewPaletted(r, palette)
	for i := range p.Pix {
		p.Pix[i] = index
	}
	return p
}

func encodeTestGIF(t *testing.T) []byte {
	t.Helper()

	g := &gif.GIF{
		Image: []*image.Paletted{
			frame(image.Rect(0, 0, 4, 4), 1),
			frame(image.Rect(0, 0, 2, 2), 2),
		},
		Delay:    []int{10, 10},
		Disposal: []byte{gif.DisposalNone, gif.DisposalNone},
		Config:   image.Config{ColorModel: palette, Width: 4, Height: 4},
	}

	var buffer bytes.Buffer
	if err := gif.EncodeAll(&buffer, g); err != nil {
		t.Fatalf("failed to encode gif: %v", err)
	}
	return buffer.Bytes()
}

func TestGIFFrames_Extract(t *testing.T) {
	variants, err := GIFFrames{}.Extract(context.Background(), encodeTestGIF(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names := make([]string, 0, len(variants))
	for _, v := range variants {
		names = append(names, v.Name)
	}
	if diff := cmp.Diff([]string{"Frame 1", "Frame 2"}, names); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	second := raster.FromImage(variants[1].Image)
	if second.Width != 4 || second.Height != 4 {
		t.Fatalf("Expected full canvas 4x4, got %dx%d", second.Width, second.Height)
	}
	if got := second.Pix[second.PixOffset(0, 0)]; got != 0 {
		t.Errorf("Expected the second frame to paint black at the origin, got %d", got)
	}
	if got := second.Pix[second.PixOffset(3, 3)]; got != 255 {
		t.Errorf("Expected the first frame to show through at (3,3), got %d", got)
	}
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	s, err := storage.NewFileStorage(ctx, storage.FileConfig{Directory: t.TempDir()})
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	logger := logging.Discard()
	at := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

	result, err := Run(ctx, s, GIFFrames{}, logger, "Example", "/tmp/designs/banner.gif", encodeTestGIF(t), at)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := "Example/banner_2024-03-05_14-07-09"; result.Folder != want {
		t.Errorf("Expected folder %s, got %s", want, result.Folder)
	}
	if len(result.URLs) != 2 {
		t.Fatalf("Expected 2 urls, got %v", result.URLs)
	}

	entries, err := s.List(ctx, result.Folder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	if diff := cmp.Diff([]string{"Frame 1.png", "Frame 2.png"}, names); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	data, err := s.Get(ctx, path.Join(result.Folder, "Frame 1.png"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := raster.DecodeBytes(data); err != nil {
		t.Errorf("Expected a decodable variant, got %v", err)
	}
}

func TestRun_NotAGIF(t *testing.T) {
	ctx := context.Background()
	s, err := storage.NewFileStorage(ctx, storage.FileConfig{Directory: t.TempDir()})
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}

	if _, err := Run(ctx, s, GIFFrames{}, logging.Discard(), "Example", "doc.gif", []byte("nope"), time.Now()); err == nil {
		t.Errorf("Expected error for invalid document")
	}
}
