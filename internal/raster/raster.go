package raster

import (
	"bytes"
	"image"
	"image/color"
	"io"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/xerrors"
)

// Buffer is a decoded raster in a fixed 3-channel RGB layout.
// A Buffer is never mutated after it has been handed out.
type Buffer struct {
	Width  int
	Height int
	// Pix holds R, G, B triples row by row, 3*Width bytes per row.
	Pix []uint8
}

func New(width int, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, 3*width*height),
	}
}

func (b *Buffer) Stride() int {
	return 3 * b.Width
}

func (b *Buffer) PixOffset(x int, y int) int {
	return y*b.Stride() + x*3
}

func (b *Buffer) ColorModel() color.Model {
	return color.RGBAModel
}

func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width, b.Height)
}

func (b *Buffer) At(x int, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(b.Bounds())) {
		return color.RGBA{}
	}
	i := b.PixOffset(x, y)
	return color.RGBA{R: b.Pix[i], G: b.Pix[i+1], B: b.Pix[i+2], A: 255}
}

func (b *Buffer) Empty() bool {
	return b == nil || b.Width == 0 || b.Height == 0
}

func (b *Buffer) SameSize(o *Buffer) bool {
	return b.Width == o.Width && b.Height == o.Height
}

func (b *Buffer) Equal(o *Buffer) bool {
	return b.SameSize(o) && bytes.Equal(b.Pix, o.Pix)
}

// FromImage converts img to RGB. Alpha is dropped, not composited, so a
// transparent pixel keeps its stored color.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	buf := New(bounds.Dx(), bounds.Dy())

	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < buf.Height; y++ {
			row := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			out := buf.PixOffset(0, y)
			for x := 0; x < buf.Width; x++ {
				buf.Pix[out+x*3] = src.Pix[row+x*4]
				buf.Pix[out+x*3+1] = src.Pix[row+x*4+1]
				buf.Pix[out+x*3+2] = src.Pix[row+x*4+2]
			}
		}
	case *image.RGBA:
		for y := 0; y < buf.Height; y++ {
			row := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			out := buf.PixOffset(0, y)
			for x := 0; x < buf.Width; x++ {
				r, g, b, a := src.Pix[row+x*4], src.Pix[row+x*4+1], src.Pix[row+x*4+2], src.Pix[row+x*4+3]
				if a != 255 && a != 0 {
					r = unpremultiply(r, a)
					g = unpremultiply(g, a)
					b = unpremultiply(b, a)
				}
				buf.Pix[out+x*3] = r
				buf.Pix[out+x*3+1] = g
				buf.Pix[out+x*3+2] = b
			}
		}
	case *image.YCbCr:
		for y := 0; y < buf.Height; y++ {
			out := buf.PixOffset(0, y)
			for x := 0; x < buf.Width; x++ {
				yi := src.YOffset(bounds.Min.X+x, bounds.Min.Y+y)
				ci := src.COffset(bounds.Min.X+x, bounds.Min.Y+y)
				r, g, b := color.YCbCrToRGB(src.Y[yi], src.Cb[ci], src.Cr[ci])
				buf.Pix[out+x*3] = r
				buf.Pix[out+x*3+1] = g
				buf.Pix[out+x*3+2] = b
			}
		}
	default:
		for y := 0; y < buf.Height; y++ {
			out := buf.PixOffset(0, y)
			for x := 0; x < buf.Width; x++ {
				c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
				buf.Pix[out+x*3] = c.R
				buf.Pix[out+x*3+1] = c.G
				buf.Pix[out+x*3+2] = c.B
			}
		}
	}

	return buf
}

func unpremultiply(v uint8, a uint8) uint8 {
	return uint8((uint32(v)*255 + uint32(a)/2) / uint32(a))
}

// Decode reads a full raster from r and returns it with the format name.
func Decode(r io.Reader) (*Buffer, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", xerrors.Errorf("failed to decode image: %w", err)
	}
	return FromImage(img), format, nil
}

func DecodeBytes(data []byte) (*Buffer, string, error) {
	return Decode(bytes.NewReader(data))
}

// Extensions lists the file extensions the registered decoders accept.
var Extensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

func IsRasterFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}
