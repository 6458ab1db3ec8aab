package dem

import (
	"gonum.org/v1/gonum/spatial/kdtree"
)

// samplePoint is an elevation sample placed in a 2D kd-tree. Only x
// and y take part in tree ordering; z rides along as the payload.
type samplePoint struct {
	x, y, z float64
}

func (p samplePoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(samplePoint)
	switch d {
	case 0:
		return p.x - q.x
	default:
		return p.y - q.y
	}
}

func (p samplePoint) Dims() int { return 2 }

// Distance is the squared euclidean distance, per kdtree convention.
func (p samplePoint) Distance(c kdtree.Comparable) float64 {
	q := c.(samplePoint)
	dx, dy := p.x-q.x, p.y-q.y
	return dx*dx + dy*dy
}

type samplePoints []samplePoint

func (p samplePoints) Index(i int) kdtree.Comparable { return p[i] }
func (p samplePoints) Len() int                      { return len(p) }
func (p samplePoints) Pivot(d kdtree.Dim) int {
	return plane{Dim: d, samplePoints: p}.Pivot()
}
func (p samplePoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// plane lets the kdtree partition samplePoints along one dimension.
type plane struct {
	kdtree.Dim
	samplePoints
}

func (p plane) Less(i, j int) bool {
	switch p.Dim {
	case 0:
		return p.samplePoints[i].x < p.samplePoints[j].x
	default:
		return p.samplePoints[i].y < p.samplePoints[j].y
	}
}

func (p plane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }

func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.samplePoints = p.samplePoints[start:end]
	return p
}

func (p plane) Swap(i, j int) {
	p.samplePoints[i], p.samplePoints[j] = p.samplePoints[j], p.samplePoints[i]
}
