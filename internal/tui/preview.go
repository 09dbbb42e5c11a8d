package tui

import (
	"fmt"
	"image"
	"layer-comparator/internal/raster"
	"strings"

	xdraw "golang.org/x/image/draw"
)

const upperHalfBlock = "▀"

// renderPreview draws buf into at most cols x rows terminal cells. Each cell
// carries two vertical pixels: the foreground paints the upper half block and
// the background shows the lower one.
func renderPreview(buf *raster.Buffer, cols int, rows int) string {
	if buf.Empty() || cols <= 0 || rows <= 0 {
		return ""
	}

	w, h := fitSize(buf.Width, buf.Height, cols, rows*2)
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), buf, buf.Bounds(), xdraw.Src, nil)

	var b strings.Builder
	for y := 0; y < h; y += 2 {
		for x := 0; x < w; x++ {
			top := dst.PixOffset(x, y)
			fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm", dst.Pix[top], dst.Pix[top+1], dst.Pix[top+2])
			if y+1 < h {
				bottom := dst.PixOffset(x, y+1)
				fmt.Fprintf(&b, "\x1b[48;2;%d;%d;%dm", dst.Pix[bottom], dst.Pix[bottom+1], dst.Pix[bottom+2])
			}
			b.WriteString(upperHalfBlock)
		}
		b.WriteString("\x1b[0m")
		if y+2 < h {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// fitSize scales width x height to fit in maxWidth x maxHeight keeping the
// aspect ratio. The height is kept even so every cell row is filled.
func fitSize(width int, height int, maxWidth int, maxHeight int) (int, int) {
	scale := min(float64(maxWidth)/float64(width), float64(maxHeight)/float64(height))
	w := max(1, int(float64(width)*scale))
	h := max(2, int(float64(height)*scale))
	if h%2 == 1 {
		h--
	}
	return w, h
}
