package sitelayout

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/franciszver/site-layout-optimizer/internal/dem"
	"github.com/franciszver/site-layout-optimizer/internal/geom"
)

// TerrainModel wraps the interpolated elevation grid with the scoring
// queries the rest of the pipeline needs. Immutable once built.
type TerrainModel struct {
	grid *dem.Grid

	// flat is set when the surface came from zero or one samples, in
	// which case aspect is meaningless and scored as neutral
	flat bool

	maxSlopePct float64
}

// NewTerrainModel interpolates a surface over the boundary's bounding
// box from the given samples.
func NewTerrainModel(boundary *geom.Polygon, samples []ElevationSample, cfg Config) (*TerrainModel, error) {
	min, max := boundary.Bounds()

	ds := make([]dem.Sample, len(samples))
	for i, s := range samples {
		ds[i] = dem.Sample{X: s.X, Y: s.Y, Z: s.Z}
	}

	g, err := dem.Build(ds, min.X, min.Y, max.X, max.Y, cfg.CellSize, cfg.DefaultElevation)
	if err != nil {
		return nil, numericalf("build elevation grid: %v", err)
	}

	return &TerrainModel{
		grid:        g,
		flat:        len(distinctSampleLocs(samples)) < 2,
		maxSlopePct: cfg.MaxSlopePct,
	}, nil
}

// Grid exposes the underlying elevation lattice.
func (t *TerrainModel) Grid() *dem.Grid { return t.grid }

// ElevationAt returns interpolated ground elevation at (x, y).
func (t *TerrainModel) ElevationAt(x, y float64) float64 {
	return t.grid.ElevationAt(x, y)
}

// SlopeAt returns percent slope at (x, y).
func (t *TerrainModel) SlopeAt(x, y float64) float64 {
	return t.grid.SlopeAt(x, y)
}

// SlopeDegreesAt returns the slope angle at (x, y) in degrees.
func (t *TerrainModel) SlopeDegreesAt(x, y float64) float64 {
	return math.Atan(t.grid.SlopeAt(x, y)/100) * 180 / math.Pi
}

// AspectAt returns the downhill bearing at (x, y), degrees from north.
func (t *TerrainModel) AspectAt(x, y float64) float64 {
	return t.grid.AspectAt(x, y)
}

// Suitability scores (x, y) for development in [0, 1]. Slope dominates:
// flat ground scores 1, ground at or beyond maxSlopePct scores 0. A
// smaller aspect term prefers south-facing ground. On a flat surface
// the aspect term is neutral.
func (t *TerrainModel) Suitability(x, y float64, maxSlopePct float64) float64 {
	if maxSlopePct <= 0 {
		maxSlopePct = t.maxSlopePct
	}

	slope := t.grid.SlopeAt(x, y)
	slopeScore := 1 - slope/maxSlopePct
	if slopeScore < 0 {
		slopeScore = 0
	}

	aspectScore := 0.5
	if !t.flat && slope > 1e-9 {
		// south is 180; score falls off linearly toward north
		d := math.Abs(t.grid.AspectAt(x, y) - 180)
		aspectScore = 1 - d/180
	}

	return 0.8*slopeScore + 0.2*aspectScore
}

// Stats summarises the interpolated surface.
func (t *TerrainModel) Stats() ElevationStats {
	e := t.grid.Elev
	if len(e) == 0 {
		return ElevationStats{}
	}

	min, max := e[0], e[0]
	for _, v := range e[1:] {
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	mean, std := stat.MeanStdDev(e, nil)
	if math.IsNaN(std) { // single cell grid
		std = 0
	}
	return ElevationStats{
		Min:   min,
		Max:   max,
		Mean:  mean,
		Std:   std,
		Range: max - min,
	}
}

// Hillshade renders shading values for the preview image.
func (t *TerrainModel) Hillshade(azimuthDeg, altitudeDeg float64) []float64 {
	return t.grid.Hillshade(azimuthDeg, altitudeDeg)
}

// distinctSampleLocs collapses samples to unique (x, y) locations.
func distinctSampleLocs(samples []ElevationSample) map[[2]float64]bool {
	locs := map[[2]float64]bool{}
	for _, s := range samples {
		locs[[2]float64{s.X, s.Y}] = true
	}
	return locs
}

// padElevation picks the flat pad grade for a set of cell elevations.
// Median rather than mean so an outlier cell doesn't drag the pad.
func padElevation(elevs []float64) (float64, error) {
	if len(elevs) == 0 {
		return 0, fmt.Errorf("no cells under pad")
	}
	cp := make([]float64, len(elevs))
	copy(cp, elevs)
	sort.Float64s(cp)
	return stat.Quantile(0.5, stat.Empirical, cp, nil), nil
}
