package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegmentPointDist(t *testing.T) {
	a, b := Pt(0, 0), Pt(10, 0)

	assert.InDelta(t, 5, SegmentPointDist(a, b, Pt(5, 5)), 1e-9)
	assert.InDelta(t, 0, SegmentPointDist(a, b, Pt(3, 0)), 1e-9)
	// beyond the endpoints the distance is to the nearest endpoint
	assert.InDelta(t, 5, SegmentPointDist(a, b, Pt(-3, 4)), 1e-9)
	assert.InDelta(t, 5, SegmentPointDist(a, b, Pt(13, 4)), 1e-9)
	// degenerate segment
	assert.InDelta(t, 5, SegmentPointDist(a, a, Pt(3, 4)), 1e-9)
}

func TestSegmentsIntersect(t *testing.T) {
	t.Run("crossing", func(t *testing.T) {
		assert.True(t, SegmentsIntersect(Pt(0, 0), Pt(10, 10), Pt(0, 10), Pt(10, 0)))
	})

	t.Run("disjoint", func(t *testing.T) {
		assert.False(t, SegmentsIntersect(Pt(0, 0), Pt(10, 0), Pt(0, 1), Pt(10, 1)))
	})

	t.Run("endpoint touch counts", func(t *testing.T) {
		assert.True(t, SegmentsIntersect(Pt(0, 0), Pt(10, 0), Pt(10, 0), Pt(20, 5)))
	})

	t.Run("collinear overlap", func(t *testing.T) {
		assert.True(t, SegmentsIntersect(Pt(0, 0), Pt(10, 0), Pt(5, 0), Pt(15, 0)))
	})

	t.Run("collinear disjoint", func(t *testing.T) {
		assert.False(t, SegmentsIntersect(Pt(0, 0), Pt(10, 0), Pt(11, 0), Pt(20, 0)))
	})
}

func TestSegmentSegmentDist(t *testing.T) {
	assert.InDelta(t, 0, SegmentSegmentDist(Pt(0, 0), Pt(10, 10), Pt(0, 10), Pt(10, 0)), 1e-9)
	assert.InDelta(t, 1, SegmentSegmentDist(Pt(0, 0), Pt(10, 0), Pt(0, 1), Pt(10, 1)), 1e-9)
	assert.InDelta(t, 5, SegmentSegmentDist(Pt(0, 0), Pt(10, 0), Pt(13, 4), Pt(20, 4)), 1e-9)
}
