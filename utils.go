package sitelayout

import (
	"bytes"
	"image"
	"image/png"
	"os"

	"github.com/franciszver/site-layout-optimizer/internal/geom"
)

// toCoords converts API points to internal coords.
func toCoords(pts []Point) []geom.Coord {
	out := make([]geom.Coord, len(pts))
	for i, p := range pts {
		out[i] = geom.Pt(p.X, p.Y)
	}
	return out
}

// fromCoords converts internal coords back to API points.
func fromCoords(cs []geom.Coord) []Point {
	out := make([]Point, len(cs))
	for i, c := range cs {
		out[i] = Point{X: c.X, Y: c.Y}
	}
	return out
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// savePNG to disk
func savePNG(fpath string, in image.Image) error {
	buff := new(bytes.Buffer)
	err := png.Encode(buff, in)
	if err != nil {
		return err
	}
	return os.WriteFile(fpath, buff.Bytes(), 0644)
}
