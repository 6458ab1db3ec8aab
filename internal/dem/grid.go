package dem

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"
)

var (
	// ErrDegenerateSamples means the sample set has no 2D spread -
	// every point sits on a single line (or a single spot when more
	// than one distinct location was expected) so no surface can be
	// interpolated from it.
	ErrDegenerateSamples = fmt.Errorf("elevation samples are coincident or collinear")

	// ErrEmptyExtent means the requested grid covers no area.
	ErrEmptyExtent = fmt.Errorf("grid extent has zero area")
)

// Sample is a sparse elevation observation, typically a contour vertex.
type Sample struct {
	X, Y, Z float64
}

// Grid is a regular elevation lattice with derived slope / aspect.
// Immutable once built; safe for concurrent reads.
type Grid struct {
	OriginX  float64
	OriginY  float64
	CellSize float64
	Cols     int
	Rows     int

	// row major, index = row*Cols + col
	Elev      []float64
	SlopePct  []float64 // percent grade
	AspectDeg []float64 // compass bearing of steepest descent, 0 = north
}

// idwNeighbours is how many nearby samples feed each interpolated cell.
const idwNeighbours = 12

// Build interpolates a Grid over the extent from the given samples.
//
// With no samples the grid is flat at defaultElev. With exactly one
// distinct sample location the grid is flat at that sample's value.
// Two or more distinct but collinear locations cannot support a 2D
// surface and return ErrDegenerateSamples.
//
// Interpolation is inverse distance weighting (power 2) over the
// nearest samples, found via a kd-tree. Exact at sample locations.
func Build(samples []Sample, minX, minY, maxX, maxY, cellSize, defaultElev float64) (*Grid, error) {
	if cellSize <= 0 {
		cellSize = 10
	}
	if maxX-minX <= 0 || maxY-minY <= 0 {
		return nil, ErrEmptyExtent
	}

	cols := int(math.Ceil((maxX-minX)/cellSize)) + 1
	rows := int(math.Ceil((maxY-minY)/cellSize)) + 1

	g := &Grid{
		OriginX:  minX,
		OriginY:  minY,
		CellSize: cellSize,
		Cols:     cols,
		Rows:     rows,
		Elev:     make([]float64, cols*rows),
	}

	distinct := dedupe(samples)

	switch {
	case len(distinct) == 0:
		fill(g.Elev, defaultElev)
	case len(distinct) == 1:
		fill(g.Elev, distinct[0].z)
	case collinear(distinct):
		return nil, ErrDegenerateSamples
	default:
		g.interpolate(distinct)
	}

	g.derive()
	return g, nil
}

// interpolate fills Elev by IDW over the k nearest samples per cell.
func (g *Grid) interpolate(pts samplePoints) {
	tree := kdtree.New(pts, false)
	k := idwNeighbours
	if k > len(pts) {
		k = len(pts)
	}

	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			x, y := g.CellCenter(c, r)
			keep := kdtree.NewNKeeper(k)
			tree.NearestSet(keep, samplePoint{x: x, y: y})

			var num, den float64
			exact := math.NaN()
			for _, cd := range keep.Heap {
				if cd.Comparable == nil {
					continue // unfilled keeper slot
				}
				sp := cd.Comparable.(samplePoint)
				if cd.Dist < 1e-12 { // sitting on a sample
					exact = sp.z
					break
				}
				w := 1 / cd.Dist // Dist is already squared, so this is 1/d^2
				num += w * sp.z
				den += w
			}

			idx := r*g.Cols + c
			if !math.IsNaN(exact) {
				g.Elev[idx] = exact
			} else if den > 0 {
				g.Elev[idx] = num / den
			}
		}
	}
}

// derive computes slope (percent) and aspect (compass bearing of
// steepest descent) using central differences, falling back to
// forward / backward differences at the edges.
func (g *Grid) derive() {
	g.SlopePct = make([]float64, len(g.Elev))
	g.AspectDeg = make([]float64, len(g.Elev))

	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			dzdx := g.partial(c, r, 1, 0)
			dzdy := g.partial(c, r, 0, 1)

			idx := r*g.Cols + c
			g.SlopePct[idx] = math.Sqrt(dzdx*dzdx+dzdy*dzdy) * 100

			// downhill direction is -grad; bearing measured from north
			az := math.Atan2(-dzdx, -dzdy) * 180 / math.Pi
			if az < 0 {
				az += 360
			}
			g.AspectDeg[idx] = az
		}
	}
}

// partial estimates the elevation gradient along one axis at (c, r).
func (g *Grid) partial(c, r, dc, dr int) float64 {
	c0, r0 := c-dc, r-dr
	c1, r1 := c+dc, r+dr
	span := 2.0
	if c0 < 0 || r0 < 0 {
		c0, r0 = c, r
		span = 1
	}
	if c1 >= g.Cols || r1 >= g.Rows {
		c1, r1 = c, r
		span-- // collapses to 0 on a 1-cell axis
	}
	if span <= 0 {
		return 0
	}
	return (g.Elev[r1*g.Cols+c1] - g.Elev[r0*g.Cols+c0]) / (span * g.CellSize)
}

// Hillshade computes Lambertian shading in [0, 1] for every cell given
// a light azimuth and altitude in degrees. Visualization only.
func (g *Grid) Hillshade(azimuthDeg, altitudeDeg float64) []float64 {
	az := azimuthDeg * math.Pi / 180
	alt := altitudeDeg * math.Pi / 180

	out := make([]float64, len(g.Elev))
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			dzdx := g.partial(c, r, 1, 0)
			dzdy := g.partial(c, r, 0, 1)

			slope := math.Atan(math.Sqrt(dzdx*dzdx + dzdy*dzdy))
			aspect := math.Atan2(-dzdx, dzdy)

			v := math.Sin(alt)*math.Sin(slope) +
				math.Cos(alt)*math.Cos(slope)*math.Cos(az-aspect)
			out[r*g.Cols+c] = clamp((v+1)/2, 0, 1)
		}
	}
	return out
}

// CellCenter returns world coordinates for the centre of cell (c, r).
func (g *Grid) CellCenter(c, r int) (float64, float64) {
	return g.OriginX + float64(c)*g.CellSize, g.OriginY + float64(r)*g.CellSize
}

// CellAt maps world coordinates to a cell index, clamping to the edge
// so queries just outside the extent resolve to the nearest cell.
func (g *Grid) CellAt(x, y float64) (int, int) {
	c := int(math.Round((x - g.OriginX) / g.CellSize))
	r := int(math.Round((y - g.OriginY) / g.CellSize))
	if c < 0 {
		c = 0
	} else if c >= g.Cols {
		c = g.Cols - 1
	}
	if r < 0 {
		r = 0
	} else if r >= g.Rows {
		r = g.Rows - 1
	}
	return c, r
}

// ElevationAt returns the elevation of the cell containing (x, y).
func (g *Grid) ElevationAt(x, y float64) float64 {
	c, r := g.CellAt(x, y)
	return g.Elev[r*g.Cols+c]
}

// SlopeAt returns the percent slope of the cell containing (x, y).
func (g *Grid) SlopeAt(x, y float64) float64 {
	c, r := g.CellAt(x, y)
	return g.SlopePct[r*g.Cols+c]
}

// AspectAt returns the aspect bearing of the cell containing (x, y).
func (g *Grid) AspectAt(x, y float64) float64 {
	c, r := g.CellAt(x, y)
	return g.AspectDeg[r*g.Cols+c]
}

// dedupe merges samples at the same location (mean elevation) and
// returns them sorted for deterministic tree construction.
func dedupe(samples []Sample) samplePoints {
	type acc struct {
		sum float64
		n   int
	}
	byLoc := map[[2]float64]*acc{}
	for _, s := range samples {
		k := [2]float64{s.X, s.Y}
		a, ok := byLoc[k]
		if !ok {
			a = &acc{}
			byLoc[k] = a
		}
		a.sum += s.Z
		a.n++
	}

	out := make(samplePoints, 0, len(byLoc))
	for k, a := range byLoc {
		out = append(out, samplePoint{x: k[0], y: k[1], z: a.sum / float64(a.n)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].x != out[j].x {
			return out[i].x < out[j].x
		}
		return out[i].y < out[j].y
	})
	return out
}

// collinear reports whether all points lie on one line.
func collinear(pts samplePoints) bool {
	if len(pts) < 3 {
		// two distinct points are always collinear; there is no 2D
		// spread to interpolate from
		return len(pts) == 2
	}
	a, b := pts[0], pts[1]
	for _, p := range pts[2:] {
		cross := (b.x-a.x)*(p.y-a.y) - (b.y-a.y)*(p.x-a.x)
		if math.Abs(cross) > 1e-9 {
			return false
		}
	}
	return true
}

func fill(dst []float64, v float64) {
	for i := range dst {
		dst[i] = v
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
