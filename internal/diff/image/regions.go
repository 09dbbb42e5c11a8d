package image

import "layer-comparator/internal/raster"

type Rectangle struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

const (
	minRegionSide  = 3
	mergeProximity = 10
)

// FindRegions groups the non-zero pixels of a difference image into
// 8-connected areas and returns their bounding boxes, merging boxes that
// overlap or lie within a few pixels of each other.
func FindRegions(diff *raster.Buffer) []Rectangle {
	if diff.Empty() {
		return nil
	}

	width := diff.Width
	height := diff.Height
	changed := make([]bool, width*height)
	for y := 0; y < height; y++ {
		row := diff.PixOffset(0, y)
		for x := 0; x < width; x++ {
			o := row + x*3
			changed[y*width+x] = diff.Pix[o] != 0 || diff.Pix[o+1] != 0 || diff.Pix[o+2] != 0
		}
	}

	visited := make([]bool, width*height)
	var rectangles []Rectangle
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if changed[y*width+x] && !visited[y*width+x] {
				rect := findBoundingBox(changed, visited, x, y, width, height)
				if rect.Width >= minRegionSide && rect.Height >= minRegionSide {
					rectangles = append(rectangles, rect)
				}
			}
		}
	}

	return mergeRectangles(rectangles)
}

func findBoundingBox(changed []bool, visited []bool, startX int, startY int, width int, height int) Rectangle {
	minX, minY := startX, startY
	maxX, maxY := startX, startY

	type point struct{ x, y int }
	queue := []point{{startX, startY}}
	visited[startY*width+startX] = true

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		minX = min(minX, p.x)
		maxX = max(maxX, p.x)
		minY = min(minY, p.y)
		maxY = max(maxY, p.y)

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx, ny := p.x+dx, p.y+dy
				if nx < 0 || nx >= width || ny < 0 || ny >= height {
					continue
				}
				i := ny*width + nx
				if changed[i] && !visited[i] {
					visited[i] = true
					queue = append(queue, point{nx, ny})
				}
			}
		}
	}

	return Rectangle{
		X:      minX,
		Y:      minY,
		Width:  maxX - minX + 1,
		Height: maxY - minY + 1,
	}
}

// mergeRectangles combines boxes lying within mergeProximity of each other
// until no pair is left to combine. A box grown by one merge can reach
// boxes already emitted, so passes repeat until one merges nothing.
func mergeRectangles(rects []Rectangle) []Rectangle {
	for {
		merged := mergePass(rects)
		if len(merged) == len(rects) {
			return merged
		}
		rects = merged
	}
}

func mergePass(rects []Rectangle) []Rectangle {
	if len(rects) <= 1 {
		return rects
	}

	merged := make([]Rectangle, 0, len(rects))
	used := make([]bool, len(rects))

	for i := range rects {
		if used[i] {
			continue
		}

		current := rects[i]
		for mergedAny := true; mergedAny; {
			mergedAny = false
			for j := i + 1; j < len(rects); j++ {
				if used[j] {
					continue
				}
				if overlap(expand(current, mergeProximity), rects[j]) {
					current = combine(current, rects[j])
					used[j] = true
					mergedAny = true
				}
			}
		}

		merged = append(merged, current)
	}

	return merged
}

func expand(r Rectangle, by int) Rectangle {
	return Rectangle{X: r.X - by, Y: r.Y - by, Width: r.Width + 2*by, Height: r.Height + 2*by}
}

func overlap(r1 Rectangle, r2 Rectangle) bool {
	return !(r1.X+r1.Width <= r2.X || r2.X+r2.Width <= r1.X ||
		r1.Y+r1.Height <= r2.Y || r2.Y+r2.Height <= r1.Y)
}

func combine(r1 Rectangle, r2 Rectangle) Rectangle {
	minX := min(r1.X, r2.X)
	minY := min(r1.Y, r2.Y)
	maxX := max(r1.X+r1.Width, r2.X+r2.Width)
	maxY := max(r1.Y+r1.Height, r2.Y+r2.Height)

	return Rectangle{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
