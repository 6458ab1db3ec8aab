package sitelayout

import (
	"math"

	"github.com/franciszver/site-layout-optimizer/internal/geom"
)

// RuleViolation names the constraint a footprint broke.
type RuleViolation struct {
	// Rule is "boundary" or "exclusion"
	Rule string

	// ZoneID is set for exclusion violations
	ZoneID string
}

// ConstraintEngine answers "can this footprint go here" queries against
// the site boundary and the exclusion zones. Zones are held in a
// uniform bucket index so checks stay cheap as zone counts grow.
// Immutable after construction, safe for concurrent use.
type ConstraintEngine struct {
	boundary *geom.Polygon
	buffer   float64

	zones []constraintZone
	index *geom.BucketIndex
}

type constraintZone struct {
	id     string
	ring   *geom.Polygon
	buffer float64
}

// NewConstraintEngine validates and indexes the site geometry.
// Regulatory zones should already be folded into zones by the caller.
func NewConstraintEngine(boundary *geom.Polygon, zones []Zone, cfg Config) (*ConstraintEngine, error) {
	if len(boundary.Points) < 3 {
		return nil, invalidf("boundary needs at least 3 points, got %d", len(boundary.Points))
	}
	if boundary.Area() <= 0 {
		return nil, invalidf("boundary has zero area")
	}
	if boundary.SelfIntersects() {
		return nil, invalidf("boundary ring self-intersects")
	}

	ce := &ConstraintEngine{
		boundary: boundary,
		buffer:   cfg.BoundaryBuffer,
		index:    geom.NewBucketIndex(math.Max(cfg.CellSize*4, 1)),
	}

	for i, z := range zones {
		if len(z.Ring) < 3 {
			return nil, invalidf("exclusion zone %q needs at least 3 points, got %d", z.ID, len(z.Ring))
		}
		if z.Buffer < 0 {
			return nil, invalidf("exclusion zone %q has negative buffer", z.ID)
		}
		ring := geom.NewPolygon(toCoords(z.Ring))
		cz := constraintZone{id: z.ID, ring: ring, buffer: z.Buffer}
		ce.zones = append(ce.zones, cz)

		min, max := ring.Bounds()
		min.X -= z.Buffer
		min.Y -= z.Buffer
		max.X += z.Buffer
		max.Y += z.Buffer
		ce.index.Insert(i, min, max)
	}

	return ce, nil
}

// Boundary returns the site ring.
func (ce *ConstraintEngine) Boundary() *geom.Polygon { return ce.boundary }

// FootprintValid reports whether fp can be built: fully inside the
// buffered boundary and clear of every buffered exclusion zone.
// Violations name what blocked it, in index order.
func (ce *ConstraintEngine) FootprintValid(fp *geom.Polygon) (bool, []RuleViolation) {
	var violations []RuleViolation

	if !ce.insideBoundary(fp) {
		violations = append(violations, RuleViolation{Rule: "boundary"})
	}

	min, max := fp.Bounds()
	for _, i := range ce.index.Search(min, max) {
		z := ce.zones[i]
		if fp.DistanceToPolygon(z.ring) < z.buffer || fp.IntersectsPolygon(z.ring) {
			violations = append(violations, RuleViolation{Rule: "exclusion", ZoneID: z.id})
		}
	}

	return len(violations) == 0, violations
}

// Margin returns the clearance of fp: the min over the distance to the
// boundary ring (less the boundary buffer) and the distance to each
// buffered zone. Larger is roomier; <= 0 means invalid.
func (ce *ConstraintEngine) Margin(fp *geom.Polygon) float64 {
	margin := math.Inf(1)
	for _, p := range fp.Points {
		if d := ce.boundary.DistanceToRing(p) - ce.buffer; d < margin {
			margin = d
		}
	}

	min, max := fp.Bounds()
	grow := margin
	if math.IsInf(grow, 1) {
		grow = 0
	}
	min.X -= grow
	min.Y -= grow
	max.X += grow
	max.Y += grow
	for _, i := range ce.index.Search(min, max) {
		z := ce.zones[i]
		if d := fp.DistanceToPolygon(z.ring) - z.buffer; d < margin {
			margin = d
		}
	}
	return margin
}

// PointValid reports whether a single point is buildable ground, used
// by road routing to keep corridors out of zones. Roads ignore the
// boundary buffer but must stay inside the boundary itself.
func (ce *ConstraintEngine) PointValid(c geom.Coord) bool {
	if !ce.boundary.Contains(c) {
		return false
	}
	for _, i := range ce.index.Search(c, c) {
		z := ce.zones[i]
		if z.ring.Contains(c) {
			return false
		}
		if z.buffer > 0 && z.ring.DistanceToRing(c) < z.buffer {
			return false
		}
	}
	return true
}

// insideBoundary checks every vertex is inside, no edge crosses the
// ring, and the buffer setback holds.
func (ce *ConstraintEngine) insideBoundary(fp *geom.Polygon) bool {
	for _, p := range fp.Points {
		if !ce.boundary.Contains(p) {
			return false
		}
		if ce.buffer > 0 && ce.boundary.DistanceToRing(p) < ce.buffer {
			return false
		}
	}
	n := len(ce.boundary.Points)
	for i, a := range fp.Points {
		b := fp.Points[(i+1)%len(fp.Points)]
		for j := 0; j < n; j++ {
			c, d := ce.boundary.Points[j], ce.boundary.Points[(j+1)%n]
			if geom.SegmentsIntersect(a, b, c, d) {
				return false
			}
		}
	}
	return true
}
