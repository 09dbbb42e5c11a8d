package extract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/gif"

	"golang.org/x/xerrors"
)

// GIFFrames turns every frame of an animated GIF into a variant named
// "Frame N", rendered as the viewer would see it at that point.
type GIFFrames struct{}

func (GIFFrames) Extract(ctx context.Context, data []byte) ([]Variant, error) {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, xerrors.Errorf("failed to decode gif: %w", err)
	}

	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() && len(g.Image) > 0 {
		bounds = g.Image[0].Bounds()
	}
	canvas := image.NewNRGBA(bounds)

	variants := make([]Variant, 0, len(g.Image))
	for i, frame := range g.Image {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var restore *image.NRGBA
		disposal := byte(0)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			restore = image.NewNRGBA(bounds)
			draw.Draw(restore, bounds, canvas, bounds.Min, draw.Src)
		}

		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)

		snapshot := image.NewNRGBA(bounds)
		draw.Draw(snapshot, bounds, canvas, bounds.Min, draw.Src)
		variants = append(variants, Variant{
			Name:  fmt.Sprintf("Frame %d", i+1),
			Image: snapshot,
		})

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = restore
		}
	}

	return variants, nil
}
