package sitelayout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEstimator(t *testing.T, samples []ElevationSample, cfg Config) *CutFillEstimator {
	t.Helper()
	cfg = cfg.withDefaults()
	tm, err := NewTerrainModel(toPolygon(squareBoundary()), samples, cfg)
	require.NoError(t, err)
	return NewCutFillEstimator(tm, cfg)
}

func TestEstimateFlatSiteMovesNothing(t *testing.T) {
	ce := testEstimator(t, nil, Config{})

	a := asset("pad-1", 500, 500)
	sum := ce.Estimate([]*PlacedAsset{a}, nil)

	assert.Zero(t, sum.TotalCut)
	assert.Zero(t, sum.TotalFill)
	assert.Zero(t, sum.Net)
	assert.NotEmpty(t, sum.Cells)

	// the pad still gets a grade
	assert.Zero(t, a.PadElevation)
}

func TestEstimatePadOnRamp(t *testing.T) {
	ce := testEstimator(t, rampSamples(100, 0.05), Config{})

	a := asset("pad-1", 500, 500)
	sum := ce.Estimate([]*PlacedAsset{a}, nil)

	// levelling a pad on a slope cuts the high side and fills the low
	assert.Greater(t, sum.TotalCut, 0.0)
	assert.Greater(t, sum.TotalFill, 0.0)

	// pad grade sits within the ground it covers
	assert.Greater(t, a.PadElevation, 100.0)
	assert.Less(t, a.PadElevation, 160.0)

	vp, ok := sum.PerAsset["pad-1"]
	require.True(t, ok)
	assert.InDelta(t, sum.TotalCut, vp.Cut, 1e-9)
	assert.InDelta(t, sum.TotalFill, vp.Fill, 1e-9)
	assert.Empty(t, sum.PerRoad)

	// yd3 conversion
	assert.InDelta(t, sum.TotalCut/27, sum.CutYd3, 1e-9)
	assert.InDelta(t, sum.TotalCut-sum.TotalFill, sum.Net, 1e-9)
}

func TestEstimateCompactionScalesFill(t *testing.T) {
	a1 := asset("pad-1", 500, 500)
	plain := testEstimator(t, rampSamples(100, 0.05), Config{}).
		Estimate([]*PlacedAsset{a1}, nil)

	a2 := asset("pad-1", 500, 500)
	compacted := testEstimator(t, rampSamples(100, 0.05), Config{CompactionFactor: 1.25}).
		Estimate([]*PlacedAsset{a2}, nil)

	assert.InDelta(t, plain.TotalCut, compacted.TotalCut, 1e-9)
	assert.InDelta(t, plain.TotalFill*1.25, compacted.TotalFill, 1e-6)
}

func TestEstimateRoadVolumes(t *testing.T) {
	ce := testEstimator(t, rampSamples(100, 0.05), Config{})

	seg := &RoadSegment{
		ID:    "road-1",
		Class: RoadPrimary,
		Width: 20,
		Centerline: []Point{
			{X: 100, Y: 500}, {X: 900, Y: 500},
		},
	}
	sum := ce.Estimate(nil, &RoadNetwork{Segments: []*RoadSegment{seg}})

	vp, ok := sum.PerRoad["road-1"]
	require.True(t, ok)
	// a 5% grade road within the 15% limit mostly follows the ground,
	// so earthwork stays modest but the corridor is touched
	assert.NotEmpty(t, sum.Cells)
	assert.GreaterOrEqual(t, vp.Cut, 0.0)
	assert.GreaterOrEqual(t, vp.Fill, 0.0)
}

func TestEstimatePadsWinOverRoads(t *testing.T) {
	ce := testEstimator(t, rampSamples(100, 0.05), Config{})

	a := asset("pad-1", 500, 500)
	seg := &RoadSegment{
		ID:    "road-1",
		Width: 20,
		Centerline: []Point{
			{X: 100, Y: 500}, {X: 900, Y: 500}, // runs through the pad
		},
	}
	sum := ce.Estimate([]*PlacedAsset{a}, &RoadNetwork{Segments: []*RoadSegment{seg}})

	// cells under the pad are attributed to the pad, not the road
	for _, cell := range sum.Cells {
		x := 0.0 + (float64(cell.Col)+0.5)*sum.CellSize
		y := 0.0 + (float64(cell.Row)+0.5)*sum.CellSize
		if math.Abs(x-500) < 15 && math.Abs(y-500) < 15 {
			assert.InDelta(t, a.PadElevation, cell.Proposed, 1e-9)
		}
	}

	_, hasPad := sum.PerAsset["pad-1"]
	assert.True(t, hasPad)
}

func TestClampProfile(t *testing.T) {
	cfg := Config{}.withDefaults()
	tm, err := NewTerrainModel(toPolygon(squareBoundary()), nil, cfg)
	require.NoError(t, err)
	ce := NewCutFillEstimator(tm, cfg)

	pts := []Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 200, Y: 0}}
	profile := []float64{0, 50, 0} // a 50% spike

	ce.clampProfile(pts, profile)

	for i := 1; i < len(profile); i++ {
		grade := math.Abs(profile[i]-profile[i-1]) / 100 * 100
		assert.LessOrEqual(t, grade, cfg.MaxRoadGradePct+1e-9)
	}
}
