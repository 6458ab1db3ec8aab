package sitelayout

import (
	"math"

	"github.com/boljen/go-bitmap"

	"github.com/franciszver/site-layout-optimizer/internal/geom"
	"github.com/franciszver/site-layout-optimizer/internal/line"
)

// cubicFeetPerYd3 converts volumes when the frame unit is feet.
const cubicFeetPerYd3 = 27.0

// sqFtPerAcre converts boundary area for per-acre reporting.
const sqFtPerAcre = 43560.0

// CutFillEstimator rasterises pads and road corridors onto a sampling
// grid and totals the earth moved to reach proposed grades.
type CutFillEstimator struct {
	terrain *TerrainModel
	cfg     Config
}

// NewCutFillEstimator wires the estimator.
func NewCutFillEstimator(t *TerrainModel, cfg Config) *CutFillEstimator {
	return &CutFillEstimator{terrain: t, cfg: cfg}
}

// earthGrid is the sampling lattice plus per-cell proposed state.
type earthGrid struct {
	originX, originY float64
	cell             float64
	cols, rows       int

	touched  bitmap.Bitmap
	proposed []float64
	owner    []int // index into entity ids, -1 untouched
}

func (e *earthGrid) idx(c, r int) int { return r*e.cols + c }

func (e *earthGrid) center(c, r int) (float64, float64) {
	return e.originX + (float64(c)+0.5)*e.cell, e.originY + (float64(r)+0.5)*e.cell
}

func (e *earthGrid) cellOf(x, y float64) (int, int) {
	c := int(math.Floor((x - e.originX) / e.cell))
	r := int(math.Floor((y - e.originY) / e.cell))
	return c, r
}

func (e *earthGrid) in(c, r int) bool {
	return c >= 0 && c < e.cols && r >= 0 && r < e.rows
}

// mark claims cell (c, r) for entity owner at the proposed elevation.
// First claim wins, so pads rasterised before roads take precedence
// where a road corridor meets a pad edge.
func (e *earthGrid) mark(c, r int, owner int, elev float64) {
	if !e.in(c, r) {
		return
	}
	i := e.idx(c, r)
	if e.touched.Get(i) {
		return
	}
	e.touched.Set(i, true)
	e.proposed[i] = elev
	e.owner[i] = owner
}

// Estimate computes cut and fill for the given layout. Volumes are per
// entity (asset id or road segment id) and total; fill is scaled by the
// compaction factor. Also sets each asset's PadElevation.
func (ce *CutFillEstimator) Estimate(assets []*PlacedAsset, roads *RoadNetwork) *CutFillSummary {
	min, max := ce.gridBounds()
	cell := ce.cfg.CutFillCellSize

	eg := &earthGrid{
		originX: min.X,
		originY: min.Y,
		cell:    cell,
		cols:    int(math.Ceil((max.X-min.X)/cell)) + 1,
		rows:    int(math.Ceil((max.Y-min.Y)/cell)) + 1,
	}
	n := eg.cols * eg.rows
	eg.touched = bitmap.New(n)
	eg.proposed = make([]float64, n)
	eg.owner = make([]int, n)
	for i := range eg.owner {
		eg.owner[i] = -1
	}

	var entityIDs []string
	entity := func(id string) int {
		entityIDs = append(entityIDs, id)
		return len(entityIDs) - 1
	}

	for _, a := range assets {
		ce.rasterisePad(eg, a, entity(a.ID))
	}
	if roads != nil {
		for _, seg := range roads.Segments {
			ce.rasteriseRoad(eg, seg, entity(seg.ID))
		}
	}

	return ce.total(eg, entityIDs, assets, roads)
}

// rasterisePad claims every cell whose centre is inside the footprint
// and levels them all at the median existing elevation.
func (ce *CutFillEstimator) rasterisePad(eg *earthGrid, a *PlacedAsset, owner int) {
	fp := geom.NewPolygon(toCoords(a.Footprint))
	fmin, fmax := fp.Bounds()
	c0, r0 := eg.cellOf(fmin.X, fmin.Y)
	c1, r1 := eg.cellOf(fmax.X, fmax.Y)

	type cr struct{ c, r int }
	var cells []cr
	var elevs []float64
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			if !eg.in(c, r) {
				continue
			}
			x, y := eg.center(c, r)
			if !fp.Contains(geom.Pt(x, y)) {
				continue
			}
			cells = append(cells, cr{c, r})
			elevs = append(elevs, ce.terrain.ElevationAt(x, y))
		}
	}

	// tiny footprints can miss every cell centre; fall back to the
	// anchor's cell so the pad still gets a grade
	if len(cells) == 0 {
		c, r := eg.cellOf(a.Anchor.X, a.Anchor.Y)
		if eg.in(c, r) {
			cells = append(cells, cr{c, r})
			elevs = append(elevs, ce.terrain.ElevationAt(a.Anchor.X, a.Anchor.Y))
		}
	}

	pad, err := padElevation(elevs)
	if err != nil {
		return
	}
	a.PadElevation = pad

	for _, cl := range cells {
		eg.mark(cl.c, cl.r, owner, pad)
	}
}

// rasteriseRoad lays the segment's corridor onto the grid. The vertical
// profile follows the terrain but is clamped leg by leg so no stretch
// exceeds the max road grade, forward then backward so both approaches
// to a hump are feasible.
func (ce *CutFillEstimator) rasteriseRoad(eg *earthGrid, seg *RoadSegment, owner int) {
	pts := seg.Centerline
	if len(pts) < 2 {
		return
	}

	profile := make([]float64, len(pts))
	for i, p := range pts {
		profile[i] = ce.terrain.ElevationAt(p.X, p.Y)
	}
	ce.clampProfile(pts, profile)

	half := seg.Width / 2
	rw := int(math.Ceil(half / eg.cell))

	for i := 1; i < len(pts); i++ {
		a, b := geom.Pt(pts[i-1].X, pts[i-1].Y), geom.Pt(pts[i].X, pts[i].Y)
		za, zb := profile[i-1], profile[i]
		legLen := a.Dist(b)

		ac, ar := eg.cellOf(a.X, a.Y)
		bc, br := eg.cellOf(b.X, b.Y)
		for _, cellPt := range line.Cells(ac, ar, bc, br) {
			for dr := -rw; dr <= rw; dr++ {
				for dc := -rw; dc <= rw; dc++ {
					c, r := cellPt.X+dc, cellPt.Y+dr
					if !eg.in(c, r) {
						continue
					}
					x, y := eg.center(c, r)
					p := geom.Pt(x, y)
					if geom.SegmentPointDist(a, b, p) > half {
						continue
					}
					// project onto the leg for the design elevation
					t := 0.0
					if legLen > 0 {
						t = clampf(p.Sub(a).Dot(b.Sub(a))/(legLen*legLen), 0, 1)
					}
					eg.mark(c, r, owner, za+(zb-za)*t)
				}
			}
		}
	}
}

// clampProfile limits |dz| on each leg to the max road grade.
func (ce *CutFillEstimator) clampProfile(pts []Point, profile []float64) {
	maxRatio := ce.cfg.MaxRoadGradePct / 100

	legLen := func(i int) float64 {
		return math.Hypot(pts[i].X-pts[i-1].X, pts[i].Y-pts[i-1].Y)
	}

	for i := 1; i < len(profile); i++ {
		lim := legLen(i) * maxRatio
		profile[i] = clampf(profile[i], profile[i-1]-lim, profile[i-1]+lim)
	}
	for i := len(profile) - 2; i >= 0; i-- {
		lim := legLen(i+1) * maxRatio
		profile[i] = clampf(profile[i], profile[i+1]-lim, profile[i+1]+lim)
	}
}

// total walks the touched cells and aggregates volumes.
func (ce *CutFillEstimator) total(eg *earthGrid, entityIDs []string, assets []*PlacedAsset, roads *RoadNetwork) *CutFillSummary {
	sum := &CutFillSummary{
		PerAsset: map[string]VolumePair{},
		PerRoad:  map[string]VolumePair{},
		CellSize: eg.cell,
	}

	assetIDs := map[string]bool{}
	for _, a := range assets {
		assetIDs[a.ID] = true
	}

	area := eg.cell * eg.cell
	for r := 0; r < eg.rows; r++ {
		for c := 0; c < eg.cols; c++ {
			i := eg.idx(c, r)
			if !eg.touched.Get(i) {
				continue
			}
			x, y := eg.center(c, r)
			existing := ce.terrain.ElevationAt(x, y)
			delta := eg.proposed[i] - existing

			vol := delta * area
			cut, fill := 0.0, 0.0
			if delta < 0 {
				cut = -vol
			} else {
				fill = vol * ce.cfg.CompactionFactor
			}
			sum.TotalCut += cut
			sum.TotalFill += fill

			id := entityIDs[eg.owner[i]]
			if assetIDs[id] {
				vp := sum.PerAsset[id]
				vp.Cut += cut
				vp.Fill += fill
				sum.PerAsset[id] = vp
			} else {
				vp := sum.PerRoad[id]
				vp.Cut += cut
				vp.Fill += fill
				sum.PerRoad[id] = vp
			}

			sum.Cells = append(sum.Cells, CutFillCell{
				Col:      c,
				Row:      r,
				Existing: existing,
				Proposed: eg.proposed[i],
				Volume:   vol,
			})
		}
	}

	sum.Net = sum.TotalCut - sum.TotalFill
	sum.CutYd3 = sum.TotalCut / cubicFeetPerYd3
	sum.FillYd3 = sum.TotalFill / cubicFeetPerYd3
	sum.NetYd3 = sum.Net / cubicFeetPerYd3
	return sum
}

// gridBounds covers the full terrain extent.
func (ce *CutFillEstimator) gridBounds() (geom.Coord, geom.Coord) {
	g := ce.terrain.Grid()
	min := geom.Pt(g.OriginX, g.OriginY)
	max := geom.Pt(
		g.OriginX+float64(g.Cols-1)*g.CellSize,
		g.OriginY+float64(g.Rows-1)*g.CellSize,
	)
	return min, max
}
