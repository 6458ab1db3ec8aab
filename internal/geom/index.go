package geom

import (
	"math"
	"sort"
)

// BucketIndex is a uniform grid bucket index over geometry bounds.
// It keeps point-in-zone style queries sub linear as the number of
// indexed geometries grows. Entries are immutable once inserted so
// lookups are safe to run concurrently.
type BucketIndex struct {
	cell    float64
	buckets map[[2]int][]int
	all     []int
}

// NewBucketIndex creates an index with the given bucket size.
func NewBucketIndex(cell float64) *BucketIndex {
	if cell <= 0 {
		cell = 1
	}
	return &BucketIndex{cell: cell, buckets: map[[2]int][]int{}}
}

// Insert registers id for every bucket the rect (min, max) touches.
func (ix *BucketIndex) Insert(id int, min, max Coord) {
	c0, r0 := ix.key(min)
	c1, r1 := ix.key(max)
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			k := [2]int{c, r}
			ix.buckets[k] = append(ix.buckets[k], id)
		}
	}
	ix.all = append(ix.all, id)
}

// Search returns ids whose inserted bounds may overlap (min, max),
// sorted ascending and deduplicated so iteration order is stable.
func (ix *BucketIndex) Search(min, max Coord) []int {
	c0, r0 := ix.key(min)
	c1, r1 := ix.key(max)
	seen := map[int]bool{}
	out := []int{}
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			for _, id := range ix.buckets[[2]int{c, r}] {
				if !seen[id] {
					seen[id] = true
					out = append(out, id)
				}
			}
		}
	}
	sort.Ints(out)
	return out
}

// Len returns how many geometries have been inserted.
func (ix *BucketIndex) Len() int {
	return len(ix.all)
}

func (ix *BucketIndex) key(c Coord) (int, int) {
	return int(math.Floor(c.X / ix.cell)), int(math.Floor(c.Y / ix.cell))
}
