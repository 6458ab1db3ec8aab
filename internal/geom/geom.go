package geom

import (
	"math"

	"github.com/unixpickle/model3d/model2d"
)

// Coord is our planar coordinate. We lean on model2d for the vector
// maths rather than rolling our own.
type Coord = model2d.Coord

// Pt is shorthand for building a Coord.
func Pt(x, y float64) Coord {
	return Coord{X: x, Y: y}
}

// SegmentPointDist returns the distance from p to the segment a-b.
func SegmentPointDist(a, b, p Coord) float64 {
	ab := b.Sub(a)
	ln := ab.Dot(ab)
	if ln == 0 { // a == b, degenerate segment
		return p.Dist(a)
	}
	t := p.Sub(a).Dot(ab) / ln
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.Dist(a.Add(ab.Scale(t)))
}

// SegmentsIntersect returns whether segments a-b and c-d cross
// (touching at an endpoint counts).
func SegmentsIntersect(a, b, c, d Coord) bool {
	o1 := orient(a, b, c)
	o2 := orient(a, b, d)
	o3 := orient(c, d, a)
	o4 := orient(c, d, b)

	if o1*o2 < 0 && o3*o4 < 0 {
		return true
	}

	// collinear / endpoint touches
	if o1 == 0 && onSegment(a, b, c) {
		return true
	}
	if o2 == 0 && onSegment(a, b, d) {
		return true
	}
	if o3 == 0 && onSegment(c, d, a) {
		return true
	}
	if o4 == 0 && onSegment(c, d, b) {
		return true
	}
	return false
}

// SegmentSegmentDist returns the min distance between segments a-b and c-d.
// Zero if they cross.
func SegmentSegmentDist(a, b, c, d Coord) float64 {
	if SegmentsIntersect(a, b, c, d) {
		return 0
	}
	min := SegmentPointDist(a, b, c)
	if v := SegmentPointDist(a, b, d); v < min {
		min = v
	}
	if v := SegmentPointDist(c, d, a); v < min {
		min = v
	}
	if v := SegmentPointDist(c, d, b); v < min {
		min = v
	}
	return min
}

// orient gives the sign of the cross product (b-a) x (c-a).
func orient(a, b, c Coord) float64 {
	v := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
	if math.Abs(v) < 1e-12 {
		return 0
	}
	return v
}

// onSegment assumes c is collinear with a-b and checks it sits between them.
func onSegment(a, b, c Coord) bool {
	return c.X >= math.Min(a.X, b.X)-1e-12 && c.X <= math.Max(a.X, b.X)+1e-12 &&
		c.Y >= math.Min(a.Y, b.Y)-1e-12 && c.Y <= math.Max(a.Y, b.Y)+1e-12
}
