package sitelayout

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// AssetRequirement asks for Count assets of a type with the given
// rectangular footprint. Requirements are processed in the order the
// caller supplies them; placement is deterministic for identical input.
type AssetRequirement struct {
	// Type names the asset kind, e.g. "inverter-pad". Also used in
	// placed asset ids.
	Type string

	// Count of assets wanted. We place as many as constraints allow
	// and report any shortfall rather than failing.
	Count int

	// Footprint dimensions. Length runs along x (placement is axis
	// aligned).
	Length float64
	Width  float64

	// MinSpacing is the min anchor-to-anchor distance from assets of
	// spacing-relevant types. 0 disables the check.
	MinSpacing float64

	// SpacingTypes restricts which asset types MinSpacing applies to.
	// Empty means all types.
	SpacingTypes []string

	// MaxSlopePct caps acceptable terrain slope for this asset.
	// 0 uses the engine default (terrain steeper than this scores 0).
	MaxSlopePct float64
}

// ScoringWeights weight the candidate score terms. They are normalised
// before use so only their ratios matter.
type ScoringWeights struct {
	Terrain          float64
	EntryDistance    float64
	ConstraintMargin float64
}

// Config holds tunables for one optimization run. The zero value is
// usable - withDefaults() fills in anything unset. All distances are in
// the request's coordinate frame units.
type Config struct {
	// CellSize of the terrain grid (default 10).
	CellSize float64

	// DefaultElevation used when no elevation samples exist.
	DefaultElevation float64

	// BoundaryBuffer shrinks the boundary inward before anything may
	// be placed inside it (default 50).
	BoundaryBuffer float64

	// CandidateStep spaces the placement lattice. 0 means
	// max(CellSize, smallest footprint dimension / 2) per requirement.
	CandidateStep float64

	// MaxSlopePct is the default slope cap for suitability scoring
	// when a requirement doesn't set its own (default 15).
	MaxSlopePct float64

	// ComfortableGradePct is the road grade below which terrain adds
	// no cost (default 8).
	ComfortableGradePct float64

	// MaxRoadGradePct is the hard road grade limit; edges steeper
	// than this are impassable (default 15).
	MaxRoadGradePct float64

	// RouteCellSize is the routing lattice spacing. 0 uses CellSize.
	RouteCellSize float64

	// PrimaryRoadWidth / SecondaryRoadWidth set right-of-way widths
	// (defaults 20 / 12).
	PrimaryRoadWidth   float64
	SecondaryRoadWidth float64

	// Weights for candidate scoring (default equal).
	Weights ScoringWeights

	// CutFillCellSize spaces the earthwork sampling grid (default 10).
	CutFillCellSize float64

	// CompactionFactor scales fill volumes (default 1.0).
	CompactionFactor float64

	// Hillshade light parameters, visualization only
	// (defaults 315 / 45).
	HillshadeAzimuth  float64
	HillshadeAltitude float64
}

// LoadConfig reads a Config from a TOML file. Unset values fall back
// to defaults at run time.
func LoadConfig(fpath string) (Config, error) {
	var c Config
	if _, err := toml.DecodeFile(fpath, &c); err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", fpath, err)
	}
	return c, nil
}

// withDefaults returns a copy with zero values replaced by defaults.
func (c Config) withDefaults() Config {
	if c.CellSize <= 0 {
		c.CellSize = 10
	}
	if c.BoundaryBuffer < 0 {
		c.BoundaryBuffer = 0
	} else if c.BoundaryBuffer == 0 {
		c.BoundaryBuffer = 50
	}
	if c.MaxSlopePct <= 0 {
		c.MaxSlopePct = 15
	}
	if c.ComfortableGradePct <= 0 {
		c.ComfortableGradePct = 8
	}
	if c.MaxRoadGradePct <= 0 {
		c.MaxRoadGradePct = 15
	}
	if c.RouteCellSize <= 0 {
		c.RouteCellSize = c.CellSize
	}
	if c.PrimaryRoadWidth <= 0 {
		c.PrimaryRoadWidth = 20
	}
	if c.SecondaryRoadWidth <= 0 {
		c.SecondaryRoadWidth = 12
	}
	if c.Weights.Terrain <= 0 && c.Weights.EntryDistance <= 0 && c.Weights.ConstraintMargin <= 0 {
		c.Weights = ScoringWeights{Terrain: 1, EntryDistance: 1, ConstraintMargin: 1}
	}
	if c.CutFillCellSize <= 0 {
		c.CutFillCellSize = 10
	}
	if c.CompactionFactor <= 0 {
		c.CompactionFactor = 1
	}
	if c.HillshadeAzimuth == 0 {
		c.HillshadeAzimuth = 315
	}
	if c.HillshadeAltitude == 0 {
		c.HillshadeAltitude = 45
	}
	return c
}

// normalized returns weights scaled to sum to 1.
func (w ScoringWeights) normalized() ScoringWeights {
	sum := w.Terrain + w.EntryDistance + w.ConstraintMargin
	if sum <= 0 {
		return ScoringWeights{Terrain: 1.0 / 3, EntryDistance: 1.0 / 3, ConstraintMargin: 1.0 / 3}
	}
	return ScoringWeights{
		Terrain:          w.Terrain / sum,
		EntryDistance:    w.EntryDistance / sum,
		ConstraintMargin: w.ConstraintMargin / sum,
	}
}
