package geom

import (
	"math"
)

// Polygon is a simple closed ring of points. The last point is
// understood to join back to the first; callers should not repeat it.
type Polygon struct {
	Points []Coord
}

// NewPolygon builds a polygon, dropping a duplicated closing point if
// the caller passed one.
func NewPolygon(pts []Coord) *Polygon {
	if len(pts) > 1 && pts[0].Dist(pts[len(pts)-1]) < 1e-9 {
		pts = pts[:len(pts)-1]
	}
	cp := make([]Coord, len(pts))
	copy(cp, pts)
	return &Polygon{Points: cp}
}

// Rect returns an axis aligned rectangle centred on c, length along x.
func Rect(c Coord, length, width float64) *Polygon {
	hl, hw := length/2, width/2
	return &Polygon{Points: []Coord{
		{X: c.X - hl, Y: c.Y - hw},
		{X: c.X + hl, Y: c.Y - hw},
		{X: c.X + hl, Y: c.Y + hw},
		{X: c.X - hl, Y: c.Y + hw},
	}}
}

// SignedArea via the shoelace formula. Positive for counter clockwise rings.
func (p *Polygon) SignedArea() float64 {
	if len(p.Points) < 3 {
		return 0
	}
	sum := 0.0
	for i, a := range p.Points {
		b := p.Points[(i+1)%len(p.Points)]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// Area of the ring, always >= 0.
func (p *Polygon) Area() float64 {
	return math.Abs(p.SignedArea())
}

// Centroid of the ring area. Falls back to the vertex mean for
// degenerate (zero area) rings.
func (p *Polygon) Centroid() Coord {
	a := p.SignedArea()
	if a == 0 {
		var c Coord
		for _, pt := range p.Points {
			c = c.Add(pt)
		}
		return c.Scale(1 / float64(len(p.Points)))
	}
	var cx, cy float64
	for i, v := range p.Points {
		w := p.Points[(i+1)%len(p.Points)]
		f := v.X*w.Y - w.X*v.Y
		cx += (v.X + w.X) * f
		cy += (v.Y + w.Y) * f
	}
	return Coord{X: cx / (6 * a), Y: cy / (6 * a)}
}

// Bounds returns the min / max corners of the ring.
func (p *Polygon) Bounds() (Coord, Coord) {
	if len(p.Points) == 0 {
		return Coord{}, Coord{}
	}
	min, max := p.Points[0], p.Points[0]
	for _, pt := range p.Points[1:] {
		min.X = math.Min(min.X, pt.X)
		min.Y = math.Min(min.Y, pt.Y)
		max.X = math.Max(max.X, pt.X)
		max.Y = math.Max(max.Y, pt.Y)
	}
	return min, max
}

// Contains runs a standard ray cast. Points exactly on the ring edge
// may land either side; our callers always pair this with a distance
// check so that's fine.
func (p *Polygon) Contains(c Coord) bool {
	if len(p.Points) < 3 {
		return false
	}
	in := false
	j := len(p.Points) - 1
	for i := 0; i < len(p.Points); i++ {
		a, b := p.Points[i], p.Points[j]
		if (a.Y > c.Y) != (b.Y > c.Y) {
			x := (b.X-a.X)*(c.Y-a.Y)/(b.Y-a.Y) + a.X
			if c.X < x {
				in = !in
			}
		}
		j = i
	}
	return in
}

// DistanceToRing returns the min distance from c to the ring edges
// (regardless of whether c is inside).
func (p *Polygon) DistanceToRing(c Coord) float64 {
	min := math.Inf(1)
	for i, a := range p.Points {
		b := p.Points[(i+1)%len(p.Points)]
		if d := SegmentPointDist(a, b, c); d < min {
			min = d
		}
	}
	return min
}

// IntersectsPolygon returns whether the two rings overlap - any edge
// crossing, or one fully containing the other.
func (p *Polygon) IntersectsPolygon(q *Polygon) bool {
	for i, a := range p.Points {
		b := p.Points[(i+1)%len(p.Points)]
		for j, c := range q.Points {
			d := q.Points[(j+1)%len(q.Points)]
			if SegmentsIntersect(a, b, c, d) {
				return true
			}
		}
	}
	if len(p.Points) > 0 && q.Contains(p.Points[0]) {
		return true
	}
	if len(q.Points) > 0 && p.Contains(q.Points[0]) {
		return true
	}
	return false
}

// DistanceToPolygon returns the min distance between the two rings,
// zero if they overlap.
func (p *Polygon) DistanceToPolygon(q *Polygon) float64 {
	if p.IntersectsPolygon(q) {
		return 0
	}
	min := math.Inf(1)
	for i, a := range p.Points {
		b := p.Points[(i+1)%len(p.Points)]
		for j, c := range q.Points {
			d := q.Points[(j+1)%len(q.Points)]
			if v := SegmentSegmentDist(a, b, c, d); v < min {
				min = v
			}
		}
	}
	return min
}

// SelfIntersects checks for any crossing between non adjacent edges.
// O(n^2) but boundary rings are small.
func (p *Polygon) SelfIntersects() bool {
	n := len(p.Points)
	if n < 4 {
		return false
	}
	for i := 0; i < n; i++ {
		a, b := p.Points[i], p.Points[(i+1)%n]
		for j := i + 1; j < n; j++ {
			// skip edges sharing a vertex
			if j == i || (j+1)%n == i || j == (i+1)%n {
				continue
			}
			c, d := p.Points[j], p.Points[(j+1)%n]
			if SegmentsIntersect(a, b, c, d) {
				return true
			}
		}
	}
	return false
}

// Circle approximates a circle as a ring of n segments.
func Circle(c Coord, radius float64, n int) *Polygon {
	if n < 8 {
		n = 8
	}
	pts := make([]Coord, n)
	for i := 0; i < n; i++ {
		t := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = Coord{X: c.X + radius*math.Cos(t), Y: c.Y + radius*math.Sin(t)}
	}
	return &Polygon{Points: pts}
}

// BufferPolyline builds a corridor ring around the polyline pts with
// the given half width. Offsets use averaged vertex normals with a
// clamped miter, which is plenty for right-of-way estimates.
func BufferPolyline(pts []Coord, half float64) *Polygon {
	if len(pts) < 2 || half <= 0 {
		return nil
	}

	// drop consecutive duplicates so normals are well defined
	clean := pts[:1]
	for _, p := range pts[1:] {
		if p.Dist(clean[len(clean)-1]) > 1e-9 {
			clean = append(clean, p)
		}
	}
	if len(clean) < 2 {
		return nil
	}

	normal := func(a, b Coord) Coord {
		d := b.Sub(a).Normalize()
		return Coord{X: -d.Y, Y: d.X}
	}

	left := make([]Coord, len(clean))
	right := make([]Coord, len(clean))
	for i, p := range clean {
		var n Coord
		switch {
		case i == 0:
			n = normal(clean[0], clean[1])
		case i == len(clean)-1:
			n = normal(clean[len(clean)-2], clean[len(clean)-1])
		default:
			n = normal(clean[i-1], p).Add(normal(p, clean[i+1]))
			if n.Norm() < 1e-9 { // hairpin, fall back to one side
				n = normal(clean[i-1], p)
			} else {
				n = n.Normalize()
			}
		}
		// clamp the miter so sharp corners don't spike
		scale := half
		if i > 0 && i < len(clean)-1 {
			dot := n.Dot(normal(clean[i-1], p))
			if dot > 0.25 {
				scale = half / dot
				if scale > half*2 {
					scale = half * 2
				}
			}
		}
		left[i] = p.Add(n.Scale(scale))
		right[i] = p.Sub(n.Scale(scale))
	}

	ring := make([]Coord, 0, len(left)+len(right))
	ring = append(ring, left...)
	for i := len(right) - 1; i >= 0; i-- {
		ring = append(ring, right[i])
	}
	return &Polygon{Points: ring}
}
