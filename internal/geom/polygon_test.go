package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(size float64) *Polygon {
	return NewPolygon([]Coord{
		Pt(0, 0), Pt(size, 0), Pt(size, size), Pt(0, size),
	})
}

func TestNewPolygonDropsClosingPoint(t *testing.T) {
	p := NewPolygon([]Coord{Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 0)})
	assert.Len(t, p.Points, 3)
}

func TestArea(t *testing.T) {
	assert.InDelta(t, 100, square(10).Area(), 1e-9)

	// winding direction doesn't matter for Area
	cw := NewPolygon([]Coord{Pt(0, 0), Pt(0, 10), Pt(10, 10), Pt(10, 0)})
	assert.InDelta(t, 100, cw.Area(), 1e-9)
}

func TestCentroid(t *testing.T) {
	c := square(10).Centroid()
	assert.InDelta(t, 5, c.X, 1e-9)
	assert.InDelta(t, 5, c.Y, 1e-9)
}

func TestContains(t *testing.T) {
	p := square(10)
	assert.True(t, p.Contains(Pt(5, 5)))
	assert.False(t, p.Contains(Pt(15, 5)))
	assert.False(t, p.Contains(Pt(-1, -1)))
}

func TestRect(t *testing.T) {
	r := Rect(Pt(10, 20), 6, 4)
	require.Len(t, r.Points, 4)
	assert.InDelta(t, 24, r.Area(), 1e-9)
	assert.True(t, r.Contains(Pt(10, 20)))
	assert.False(t, r.Contains(Pt(13.5, 20)))
}

func TestIntersectsPolygon(t *testing.T) {
	a := square(10)

	t.Run("overlapping", func(t *testing.T) {
		b := NewPolygon([]Coord{Pt(5, 5), Pt(15, 5), Pt(15, 15), Pt(5, 15)})
		assert.True(t, a.IntersectsPolygon(b))
	})

	t.Run("contained", func(t *testing.T) {
		b := NewPolygon([]Coord{Pt(2, 2), Pt(4, 2), Pt(4, 4), Pt(2, 4)})
		assert.True(t, a.IntersectsPolygon(b))
		assert.True(t, b.IntersectsPolygon(a))
	})

	t.Run("disjoint", func(t *testing.T) {
		b := NewPolygon([]Coord{Pt(20, 20), Pt(30, 20), Pt(30, 30), Pt(20, 30)})
		assert.False(t, a.IntersectsPolygon(b))
	})
}

func TestDistanceToPolygon(t *testing.T) {
	a := square(10)
	b := NewPolygon([]Coord{Pt(15, 0), Pt(25, 0), Pt(25, 10), Pt(15, 10)})
	assert.InDelta(t, 5, a.DistanceToPolygon(b), 1e-9)

	c := NewPolygon([]Coord{Pt(5, 5), Pt(15, 5), Pt(15, 15), Pt(5, 15)})
	assert.Zero(t, a.DistanceToPolygon(c))
}

func TestSelfIntersects(t *testing.T) {
	assert.False(t, square(10).SelfIntersects())

	bowtie := NewPolygon([]Coord{Pt(0, 0), Pt(10, 10), Pt(10, 0), Pt(0, 10)})
	assert.True(t, bowtie.SelfIntersects())
}

func TestBufferPolyline(t *testing.T) {
	t.Run("straight corridor", func(t *testing.T) {
		p := BufferPolyline([]Coord{Pt(0, 0), Pt(100, 0)}, 5)
		require.NotNil(t, p)
		assert.InDelta(t, 1000, p.Area(), 1)
		assert.True(t, p.Contains(Pt(50, 3)))
		assert.False(t, p.Contains(Pt(50, 8)))
	})

	t.Run("too short", func(t *testing.T) {
		assert.Nil(t, BufferPolyline([]Coord{Pt(0, 0)}, 5))
		assert.Nil(t, BufferPolyline([]Coord{Pt(0, 0), Pt(0, 0)}, 5))
	})
}
