package sitelayout

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franciszver/site-layout-optimizer/internal/geom"
)

// toPolygon is a test convenience for geometry assertions.
func toPolygon(pts []Point) *geom.Polygon {
	return geom.NewPolygon(toCoords(pts))
}

// squareBoundary is a simple 1000 x 1000 site.
func squareBoundary() []Point {
	return []Point{
		{X: 0, Y: 0}, {X: 1000, Y: 0}, {X: 1000, Y: 1000}, {X: 0, Y: 1000},
	}
}

// rampSamples builds a sampled plane z = base + gradeX * x over the
// square site, sampled on a 100 unit lattice.
func rampSamples(base, gradeX float64) []ElevationSample {
	var out []ElevationSample
	for y := 0.0; y <= 1000; y += 100 {
		for x := 0.0; x <= 1000; x += 100 {
			out = append(out, ElevationSample{X: x, Y: y, Z: base + gradeX*x})
		}
	}
	return out
}

func flatRequest() *Request {
	return &Request{
		Boundary: squareBoundary(),
		Entry:    Point{X: 500, Y: 5},
		Requirements: []AssetRequirement{
			{Type: "pad", Count: 2, Length: 60, Width: 40, MinSpacing: 100},
		},
	}
}

func TestOptimizeFlatSite(t *testing.T) {
	e := New(Config{})

	res, err := e.Optimize(context.Background(), flatRequest())
	require.NoError(t, err)

	assert.Len(t, res.Assets, 2)
	assert.Empty(t, res.Unsatisfied)
	assert.Empty(t, res.Roads.Unreachable)
	assert.NotEmpty(t, res.Roads.Segments)
	for _, a := range res.Assets {
		assert.False(t, a.Unreachable)
	}

	// flat ground at the default elevation means no earth moves
	assert.InDelta(t, 0, res.Volumes.TotalCut, 1e-6)
	assert.InDelta(t, 0, res.Volumes.TotalFill, 1e-6)
	assert.Zero(t, res.Elevation.Range)
}

func TestOptimizeRespectsExclusions(t *testing.T) {
	req := flatRequest()
	req.Exclusions = []Zone{{
		ID:     "pond",
		Buffer: 25,
		Ring: []Point{
			{X: 400, Y: 400}, {X: 600, Y: 400}, {X: 600, Y: 600}, {X: 400, Y: 600},
		},
	}}

	e := New(Config{})
	res, err := e.Optimize(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Assets, 2)

	zone := toPolygon(req.Exclusions[0].Ring)
	for _, a := range res.Assets {
		fp := toPolygon(a.Footprint)
		assert.False(t, fp.IntersectsPolygon(zone), "asset %s overlaps exclusion", a.ID)
		assert.GreaterOrEqual(t, fp.DistanceToPolygon(zone), 25.0, "asset %s inside setback", a.ID)
	}
}

func TestOptimizeClearsBufferedCircle(t *testing.T) {
	// a circular exclusion of radius 200 at the centroid with a 100
	// setback keeps every footprint point at least 300 out
	ring := make([]Point, 0, 32)
	for i := 0; i < 32; i++ {
		th := 2 * math.Pi * float64(i) / 32
		ring = append(ring, Point{
			X: 500 + 200*math.Cos(th),
			Y: 500 + 200*math.Sin(th),
		})
	}

	req := flatRequest()
	req.Exclusions = []Zone{{ID: "centre", Ring: ring, Buffer: 100}}
	req.Requirements = []AssetRequirement{{Type: "pad", Count: 1, Length: 50, Width: 50}}

	res, err := New(Config{}).Optimize(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Assets, 1)

	a := res.Assets[0]
	d := math.Hypot(a.Anchor.X-500, a.Anchor.Y-500)
	// the ring is a 32-gon inscribed in the circle, hence the slack
	assert.GreaterOrEqual(t, d, 295.0)
}

func TestOptimizeRegulatoryFolded(t *testing.T) {
	// a regulatory zone blocks placement exactly like an exclusion
	req := flatRequest()
	req.Regulatory = []Zone{{
		ID: "easement",
		Ring: []Point{
			{X: 0, Y: 0}, {X: 1000, Y: 0}, {X: 1000, Y: 1000}, {X: 0, Y: 1000},
		},
	}}

	e := New(Config{})
	res, err := e.Optimize(context.Background(), req)
	require.NoError(t, err)

	assert.Empty(t, res.Assets)
	require.Len(t, res.Unsatisfied, 1)
	assert.Equal(t, ReasonNoArea, res.Unsatisfied[0].Reason)
}

func TestPlacementPrefersGentleGround(t *testing.T) {
	// flat west half, 30% ramp on the east half
	var samples []ElevationSample
	for y := 0.0; y <= 1000; y += 100 {
		for x := 0.0; x <= 1000; x += 100 {
			z := 100.0
			if x > 500 {
				z = 100 + 0.3*(x-500)
			}
			samples = append(samples, ElevationSample{X: x, Y: y, Z: z})
		}
	}

	req := &Request{
		Boundary: squareBoundary(),
		Samples:  samples,
		Entry:    Point{X: 100, Y: 500},
		Requirements: []AssetRequirement{
			{Type: "pad", Count: 3, Length: 50, Width: 50, MinSpacing: 100},
		},
	}

	res, err := New(Config{}).Optimize(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Assets, 3)

	for _, a := range res.Assets {
		assert.Less(t, a.Anchor.X, 500.0, "asset %s sited on the steep half", a.ID)
	}
}

func TestSteepSiteIsUnroutable(t *testing.T) {
	// a uniform ramp well past the max road grade; assets may still
	// be placed but nothing is reachable
	req := &Request{
		Boundary: squareBoundary(),
		Samples:  rampSamples(100, 0.25),
		Entry:    Point{X: 55, Y: 505},
		Requirements: []AssetRequirement{
			{Type: "pad", Count: 1, Length: 50, Width: 50},
		},
	}

	res, err := New(Config{MaxRoadGradePct: 15}).Optimize(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Assets, 1)

	assert.True(t, res.Assets[0].Unreachable)
	assert.Equal(t, []string{res.Assets[0].ID}, res.Roads.Unreachable)
	assert.Empty(t, res.Roads.Segments)
	assert.NotEmpty(t, res.Warnings)
}

func TestOptimizeDeterministic(t *testing.T) {
	mk := func() *Request {
		r := flatRequest()
		r.Samples = rampSamples(100, 0.05)
		return r
	}

	// independent engines so nothing is served from cache
	a, err := New(Config{}).Optimize(context.Background(), mk())
	require.NoError(t, err)
	b, err := New(Config{}).Optimize(context.Background(), mk())
	require.NoError(t, err)

	assert.Equal(t, a.Fingerprint, b.Fingerprint)
	assert.Equal(t, a.Assets, b.Assets)
	assert.Equal(t, a.Roads, b.Roads)
	assert.Equal(t, a.Volumes, b.Volumes)
	assert.Equal(t, a.Unsatisfied, b.Unsatisfied)
}

func TestOptimizeInvalidInput(t *testing.T) {
	e := New(Config{})

	t.Run("nil request", func(t *testing.T) {
		_, err := e.Optimize(context.Background(), nil)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("degenerate boundary", func(t *testing.T) {
		req := flatRequest()
		req.Boundary = []Point{{X: 0, Y: 0}, {X: 10, Y: 10}}
		_, err := e.Optimize(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("self-intersecting boundary", func(t *testing.T) {
		req := flatRequest()
		req.Boundary = []Point{
			{X: 0, Y: 0}, {X: 1000, Y: 1000}, {X: 1000, Y: 0}, {X: 0, Y: 1000},
		}
		_, err := e.Optimize(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("entry outside boundary", func(t *testing.T) {
		req := flatRequest()
		req.Entry = Point{X: -50, Y: -50}
		_, err := e.Optimize(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("bad footprint", func(t *testing.T) {
		req := flatRequest()
		req.Requirements = []AssetRequirement{{Type: "pad", Count: 1, Length: -5, Width: 10}}
		_, err := e.Optimize(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("no requirements", func(t *testing.T) {
		req := flatRequest()
		req.Requirements = nil
		_, err := e.Optimize(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("bad count", func(t *testing.T) {
		req := flatRequest()
		req.Requirements = []AssetRequirement{{Type: "pad", Count: 0, Length: 5, Width: 10}}
		_, err := e.Optimize(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestOptimizeDegenerateSamples(t *testing.T) {
	req := flatRequest()
	req.Samples = []ElevationSample{
		{X: 0, Y: 0, Z: 1}, {X: 100, Y: 100, Z: 2}, {X: 200, Y: 200, Z: 3},
	}

	_, err := New(Config{}).Optimize(context.Background(), req)
	assert.ErrorIs(t, err, ErrNumerical)
}

func TestOptimizeServesFromCache(t *testing.T) {
	e := New(Config{})

	first, err := e.Optimize(context.Background(), flatRequest())
	require.NoError(t, err)
	second, err := e.Optimize(context.Background(), flatRequest())
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestOptimizeCollapsesConcurrentRequests(t *testing.T) {
	e := New(Config{})

	const n = 8
	results := make([]*LayoutResult, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := e.Optimize(context.Background(), flatRequest())
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		assert.Same(t, results[0], results[i])
	}
}

// stubAdvisory pushes candidates east.
type stubAdvisory struct{}

func (stubAdvisory) Adjust(x, y float64) float64 {
	return (x - 500) / 500
}

func TestOptimizeAdvisoryBypassesCache(t *testing.T) {
	e := New(Config{})

	plain, err := e.Optimize(context.Background(), flatRequest())
	require.NoError(t, err)

	req := flatRequest()
	req.Advisory = stubAdvisory{}
	advised, err := e.Optimize(context.Background(), req)
	require.NoError(t, err)

	assert.NotSame(t, plain, advised)
}
