package sitelayout

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/franciszver/site-layout-optimizer/internal/geom"
)

// advisoryWeight scales the (clamped) advisory delta so hints can
// reorder near-equal candidates without overruling terrain.
const advisoryWeight = 0.1

// AssetPlacer sites asset footprints greedily, best scored candidate
// first, requirement order preserved.
type AssetPlacer struct {
	terrain     *TerrainModel
	constraints *ConstraintEngine
	cfg         Config
	entry       geom.Coord
	advisory    Advisory

	// extentDiag normalises distance and margin terms
	extentDiag float64
	centroid   geom.Coord
}

// NewAssetPlacer wires the placer to a terrain model and constraint set.
func NewAssetPlacer(t *TerrainModel, ce *ConstraintEngine, entry Point, adv Advisory, cfg Config) *AssetPlacer {
	min, max := ce.Boundary().Bounds()
	return &AssetPlacer{
		terrain:     t,
		constraints: ce,
		cfg:         cfg,
		entry:       geom.Pt(entry.X, entry.Y),
		advisory:    adv,
		extentDiag:  max.Sub(min).Norm(),
		centroid:    ce.Boundary().Centroid(),
	}
}

// candidate is one scored potential anchor.
type candidate struct {
	anchor geom.Coord
	fp     *geom.Polygon
	score  float64
	margin float64
}

// Place works through the requirements in order. Shortfalls never fail
// the run; they are reported per requirement.
func (ap *AssetPlacer) Place(ctx context.Context, reqs []AssetRequirement) ([]*PlacedAsset, []UnsatisfiedRequirement, error) {
	var placed []*PlacedAsset
	var unsat []UnsatisfiedRequirement

	for _, r := range reqs {
		if r.Length <= 0 || r.Width <= 0 {
			return nil, nil, invalidf("requirement %q has non-positive footprint %g x %g", r.Type, r.Length, r.Width)
		}
		if r.Count <= 0 {
			return nil, nil, invalidf("requirement %q has non-positive count %d", r.Type, r.Count)
		}

		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		cands := ap.candidates(r)
		got, reason := ap.pick(r, cands, &placed)
		if got < r.Count {
			unsat = append(unsat, UnsatisfiedRequirement{
				Type:      r.Type,
				Requested: r.Count,
				Placed:    got,
				Reason:    reason,
			})
		}
	}

	return placed, unsat, nil
}

// candidates enumerates valid, scored anchors on a lattice over the
// boundary bounds. Returned sorted best-first with a full deterministic
// tie-break chain.
func (ap *AssetPlacer) candidates(r AssetRequirement) []candidate {
	step := ap.cfg.CandidateStep
	if step <= 0 {
		step = math.Max(ap.cfg.CellSize, math.Min(r.Length, r.Width)/2)
	}

	maxSlope := r.MaxSlopePct
	if maxSlope <= 0 {
		maxSlope = ap.cfg.MaxSlopePct
	}

	w := ap.cfg.Weights.normalized()
	min, max := ap.constraints.Boundary().Bounds()

	var out []candidate
	for y := min.Y; y <= max.Y; y += step {
		for x := min.X; x <= max.X; x += step {
			anchor := geom.Pt(x, y)
			fp := geom.Rect(anchor, r.Length, r.Width)
			ok, _ := ap.constraints.FootprintValid(fp)
			if !ok {
				continue
			}

			suit := ap.terrain.Suitability(x, y, maxSlope)
			margin := ap.constraints.Margin(fp)

			distNorm := 0.0
			if ap.extentDiag > 0 {
				distNorm = clampf(anchor.Dist(ap.entry)/ap.extentDiag, 0, 1)
			}
			marginNorm := 0.0
			if ap.extentDiag > 0 {
				marginNorm = clampf(margin/(0.1*ap.extentDiag), 0, 1)
			}

			score := w.Terrain*suit + w.EntryDistance*(1-distNorm) + w.ConstraintMargin*marginNorm
			if ap.advisory != nil {
				score += advisoryWeight * clampf(ap.advisory.Adjust(x, y), -1, 1)
			}

			out = append(out, candidate{anchor: anchor, fp: fp, score: score, margin: margin})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.score != b.score {
			return a.score > b.score
		}
		da, db := a.anchor.Dist(ap.centroid), b.anchor.Dist(ap.centroid)
		if da != db {
			return da < db
		}
		if a.anchor.X != b.anchor.X {
			return a.anchor.X < b.anchor.X
		}
		return a.anchor.Y < b.anchor.Y
	})
	return out
}

// pick walks the sorted candidates, taking the best that clears both
// spacing and footprint overlap against everything already placed.
func (ap *AssetPlacer) pick(r AssetRequirement, cands []candidate, placed *[]*PlacedAsset) (int, string) {
	if len(cands) == 0 {
		return 0, ReasonNoArea
	}

	// ids number per type across requirements so repeats don't collide
	seq := 0
	for _, p := range *placed {
		if p.Type == r.Type {
			seq++
		}
	}

	got := 0
	for _, c := range cands {
		if got == r.Count {
			break
		}
		if !ap.clearsPlaced(r, c, *placed) {
			continue
		}
		got++
		*placed = append(*placed, &PlacedAsset{
			ID:        fmt.Sprintf("%s-%d", r.Type, seq+got),
			Type:      r.Type,
			Anchor:    Point{X: c.anchor.X, Y: c.anchor.Y},
			Footprint: fromCoords(c.fp.Points),
			Score:     c.score,
		})
	}

	if got < r.Count {
		return got, ReasonSpacingExhausted
	}
	return got, ""
}

// clearsPlaced enforces no footprint overlap plus the requirement's
// anchor spacing rule against already sited assets.
func (ap *AssetPlacer) clearsPlaced(r AssetRequirement, c candidate, placed []*PlacedAsset) bool {
	spacingApplies := func(typ string) bool {
		if len(r.SpacingTypes) == 0 {
			return true
		}
		for _, t := range r.SpacingTypes {
			if t == typ {
				return true
			}
		}
		return false
	}

	for _, p := range placed {
		other := geom.NewPolygon(toCoords(p.Footprint))
		if c.fp.IntersectsPolygon(other) {
			return false
		}
		if r.MinSpacing > 0 && spacingApplies(p.Type) {
			anchor := geom.Pt(p.Anchor.X, p.Anchor.Y)
			if c.anchor.Dist(anchor) < r.MinSpacing {
				return false
			}
		}
	}
	return true
}
