package line

import (
	"image"
)

// Cells returns every grid cell the segment (x1,y1) -> (x2,y2) passes
// through, endpoints included, using a bresenham walk. Coordinates are
// cell indices, not world units. The walk always runs from the first
// point to the second so callers get a consistent direction.
func Cells(x1, y1, x2, y2 int) []image.Point {
	out := []image.Point{}
	push := func(x, y int) {
		out = append(out, image.Pt(x, y))
	}

	dx, dy := x2-x1, y2-y1
	sx, sy := 1, 1
	if dx < 0 {
		dx = -dx
		sx = -1
	}
	if dy < 0 {
		dy = -dy
		sy = -1
	}

	switch {
	// a single cell?
	case dx == 0 && dy == 0:
		push(x1, y1)

	// horizontal?
	case dy == 0:
		for ; dx >= 0; dx-- {
			push(x1, y1)
			x1 += sx
		}

	// vertical?
	case dx == 0:
		for ; dy >= 0; dy-- {
			push(x1, y1)
			y1 += sy
		}

	// diagonal?
	case dx == dy:
		for ; dx >= 0; dx-- {
			push(x1, y1)
			x1 += sx
			y1 += sy
		}

	// wider than high
	case dx > dy:
		e := dx
		for i := 0; i <= dx; i++ {
			push(x1, y1)
			x1 += sx
			e -= 2 * dy
			if e < 0 {
				y1 += sy
				e += 2 * dx
			}
		}

	// higher than wide
	default:
		e := dy
		for i := 0; i <= dy; i++ {
			push(x1, y1)
			y1 += sy
			e -= 2 * dx
			if e < 0 {
				x1 += sx
				e += 2 * dy
			}
		}
	}

	return out
}
