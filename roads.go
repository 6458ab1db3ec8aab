package sitelayout

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/franciszver/site-layout-optimizer/internal/astar"
	"github.com/franciszver/site-layout-optimizer/internal/geom"
)

// gradePenalty is the extra cost multiplier at the hard grade limit.
// Between the comfortable grade and the limit the multiplier rises
// quadratically, so routes trade a little length for a lot less climb.
const gradePenalty = 4.0

// RoadNetworkBuilder routes access roads from the entry point to every
// placed asset over a terrain-cost lattice.
type RoadNetworkBuilder struct {
	terrain     *TerrainModel
	constraints *ConstraintEngine
	cfg         Config
}

// NewRoadNetworkBuilder wires the builder.
func NewRoadNetworkBuilder(t *TerrainModel, ce *ConstraintEngine, cfg Config) *RoadNetworkBuilder {
	return &RoadNetworkBuilder{terrain: t, constraints: ce, cfg: cfg}
}

// Build routes every asset and merges shared trunk stretches so they
// appear once. Unreachable assets are flagged, never fatal. A cancelled
// context stops routing early; assets not yet routed are reported
// unreachable with a warning.
func (rb *RoadNetworkBuilder) Build(ctx context.Context, entry Point, assets []*PlacedAsset) (*RoadNetwork, []Warning) {
	net := &RoadNetwork{}
	var warnings []Warning

	if len(assets) == 0 {
		return net, nil
	}

	lat := rb.lattice()
	start := lat.nodeAt(entry.X, entry.Y)

	markUnreachable := func(a *PlacedAsset, msg string) {
		a.Unreachable = true
		net.Unreachable = append(net.Unreachable, a.ID)
		warnings = append(warnings, Warning{Stage: "roads", Entity: a.ID, Message: msg})
	}

	if !lat.passable[start] {
		for _, a := range assets {
			markUnreachable(a, "entry point is not routable ground")
		}
		return net, warnings
	}

	// route each asset independently, then merge shared stretches
	var routes []routedPath
	cancelled := false

	for _, a := range assets {
		if !cancelled && ctx.Err() != nil {
			cancelled = true
		}
		if cancelled {
			markUnreachable(a, "routing aborted: deadline exceeded")
			continue
		}

		goal := lat.nodeAt(a.Anchor.X, a.Anchor.Y)
		if !lat.passable[goal] {
			markUnreachable(a, "no routable ground at asset")
			continue
		}
		if goal == start {
			routes = append(routes, routedPath{asset: a, path: []int{start}})
			continue
		}

		res, err := astar.Search(ctx, lat, start, goal)
		switch {
		case err == nil:
			routes = append(routes, routedPath{asset: a, path: res.Path})
		case err == astar.ErrNoPath:
			markUnreachable(a, "no path within grade and exclusion limits")
		default:
			// context cancellation; degrade to a partial network
			cancelled = true
			markUnreachable(a, fmt.Sprintf("routing aborted: %v", err))
		}
	}

	rb.mergeRoutes(lat, routes, net)
	return net, warnings
}

// routedPath pairs an asset with its entry-to-asset node path.
type routedPath struct {
	asset *PlacedAsset
	path  []int
}

// mergeRoutes groups consecutive edges with an identical set of using
// assets into one segment, so a trunk shared by several assets is
// emitted once with all of them listed.
func (rb *RoadNetworkBuilder) mergeRoutes(lat *lattice, routes []routedPath, net *RoadNetwork) {
	type edgeKey [2]int
	keyOf := func(a, b int) edgeKey {
		if a > b {
			a, b = b, a
		}
		return edgeKey{a, b}
	}

	// which assets use each edge
	users := map[edgeKey][]string{}
	for _, rt := range routes {
		for i := 1; i < len(rt.path); i++ {
			k := keyOf(rt.path[i-1], rt.path[i])
			users[k] = append(users[k], rt.asset.ID)
		}
	}
	sig := func(k edgeKey) string {
		ids := append([]string{}, users[k]...)
		sort.Strings(ids)
		return strings.Join(ids, ",")
	}

	firstServed := ""
	if len(routes) > 0 {
		firstServed = routes[0].asset.ID
	}

	emitted := map[string]bool{}
	seq := 0

	emit := func(nodes []int, edgeSig string) {
		// a shared run is walked once per using asset; keep one copy
		runKey := edgeSig + "|" + fmt.Sprint(nodes)
		if emitted[runKey] {
			return
		}
		emitted[runKey] = true
		seq++

		ids := strings.Split(edgeSig, ",")
		class := RoadSecondary
		width := rb.cfg.SecondaryRoadWidth
		if len(ids) > 1 || (len(routes) == 1 && ids[0] == firstServed) {
			class = RoadPrimary
			width = rb.cfg.PrimaryRoadWidth
		}

		seg := &RoadSegment{
			ID:       fmt.Sprintf("road-%d", seq),
			Class:    class,
			Width:    width,
			AssetIDs: ids,
		}

		for _, n := range nodes {
			x, y := lat.coord(n)
			seg.Centerline = append(seg.Centerline, Point{X: x, Y: y})
		}
		for i := 1; i < len(nodes); i++ {
			hd := lat.hdist(nodes[i-1], nodes[i])
			dz := lat.elev[nodes[i]] - lat.elev[nodes[i-1]]
			g := 0.0
			if hd > 0 {
				g = math.Abs(dz) / hd * 100
			}
			seg.GradePct = append(seg.GradePct, g)
			if g > seg.MaxGradePct {
				seg.MaxGradePct = g
			}
			seg.Length += hd
		}

		if row := geom.BufferPolyline(toCoords(seg.Centerline), width/2); row != nil {
			seg.RightOfWay = fromCoords(row.Points)
		}

		net.Segments = append(net.Segments, seg)
		net.TotalLength += seg.Length
	}

	for _, rt := range routes {
		if len(rt.path) < 2 {
			continue
		}
		runStart := 0
		runSig := sig(keyOf(rt.path[0], rt.path[1]))
		for i := 2; i < len(rt.path); i++ {
			s := sig(keyOf(rt.path[i-1], rt.path[i]))
			if s != runSig {
				emit(rt.path[runStart:i], runSig)
				runStart, runSig = i-1, s
			}
		}
		emit(rt.path[runStart:], runSig)
	}
}

// lattice is the implicit routing graph over the boundary bounds.
// It satisfies astar.Grid.
type lattice struct {
	originX, originY float64
	cell             float64
	cols, rows       int

	elev     []float64
	passable []bool

	comfortable float64
	maxGrade    float64
}

// neighbour8 is the fixed expansion order for determinism.
var neighbour8 = [8][2]int{
	{0, -1}, {1, -1}, {1, 0}, {1, 1},
	{0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

// lattice builds the routing arena. A node is passable when it sits on
// buildable ground and its local terrain slope is within the road grade
// limit; cutting across a face steeper than the max grade is out even
// when the path's own rise per run would be gentler.
func (rb *RoadNetworkBuilder) lattice() *lattice {
	min, max := rb.constraints.Boundary().Bounds()
	cell := rb.cfg.RouteCellSize
	cols := int(math.Ceil((max.X-min.X)/cell)) + 1
	rows := int(math.Ceil((max.Y-min.Y)/cell)) + 1

	lat := &lattice{
		originX:     min.X,
		originY:     min.Y,
		cell:        cell,
		cols:        cols,
		rows:        rows,
		elev:        make([]float64, cols*rows),
		passable:    make([]bool, cols*rows),
		comfortable: rb.cfg.ComfortableGradePct,
		maxGrade:    rb.cfg.MaxRoadGradePct,
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			id := r*cols + c
			x, y := lat.coord(id)
			lat.elev[id] = rb.terrain.ElevationAt(x, y)
			lat.passable[id] = rb.constraints.PointValid(geom.Pt(x, y)) &&
				rb.terrain.SlopeAt(x, y) <= rb.cfg.MaxRoadGradePct
		}
	}
	return lat
}

func (l *lattice) Size() int { return l.cols * l.rows }

func (l *lattice) Neighbors(id int) []int {
	c, r := id%l.cols, id/l.cols
	out := make([]int, 0, 8)
	for _, d := range neighbour8 {
		nc, nr := c+d[0], r+d[1]
		if nc < 0 || nc >= l.cols || nr < 0 || nr >= l.rows {
			continue
		}
		out = append(out, nr*l.cols+nc)
	}
	return out
}

// EdgeCost is horizontal distance scaled by a grade multiplier. Edges
// past the hard grade limit, or touching an impassable node, are out.
func (l *lattice) EdgeCost(from, to int) (float64, bool) {
	if !l.passable[from] || !l.passable[to] {
		return 0, false
	}
	hd := l.hdist(from, to)
	g := l.grade(from, to)
	if g > l.maxGrade {
		return 0, false
	}

	mult := 1.0
	if g > l.comfortable && l.maxGrade > l.comfortable {
		t := (g - l.comfortable) / (l.maxGrade - l.comfortable)
		mult = 1 + gradePenalty*t*t
	}
	return hd * mult, true
}

// Heuristic is straight-line distance; the cost multiplier never drops
// below 1 so this stays admissible.
func (l *lattice) Heuristic(id, goal int) float64 {
	x1, y1 := l.coord(id)
	x2, y2 := l.coord(goal)
	return math.Hypot(x2-x1, y2-y1)
}

func (l *lattice) GradeChange(from, to int) float64 {
	return l.grade(from, to)
}

func (l *lattice) grade(from, to int) float64 {
	hd := l.hdist(from, to)
	if hd == 0 {
		return 0
	}
	return math.Abs(l.elev[to]-l.elev[from]) / hd * 100
}

func (l *lattice) hdist(a, b int) float64 {
	x1, y1 := l.coord(a)
	x2, y2 := l.coord(b)
	return math.Hypot(x2-x1, y2-y1)
}

func (l *lattice) coord(id int) (float64, float64) {
	c, r := id%l.cols, id/l.cols
	return l.originX + float64(c)*l.cell, l.originY + float64(r)*l.cell
}

// nodeAt maps world coordinates to the nearest lattice node, clamped.
func (l *lattice) nodeAt(x, y float64) int {
	c := int(math.Round((x - l.originX) / l.cell))
	r := int(math.Round((y - l.originY) / l.cell))
	if c < 0 {
		c = 0
	} else if c >= l.cols {
		c = l.cols - 1
	}
	if r < 0 {
		r = 0
	} else if r >= l.rows {
		r = l.rows - 1
	}
	return r*l.cols + c
}
