// Package astar implements shortest path search over an arena of
// integer indexed grid nodes. The graph is implicit - callers supply
// adjacency and edge costs through the Grid interface - so the frontier
// and visited set are flat slices and the search stays reproducible.
package astar

import (
	"container/heap"
	"context"
	"fmt"
)

// ErrNoPath means the goal cannot be reached at any cost.
var ErrNoPath = fmt.Errorf("no path to goal")

// Grid describes an implicit weighted graph over integer node ids
// in [0, Size).
type Grid interface {
	// Size returns the number of nodes in the arena.
	Size() int

	// Neighbors returns adjacent node ids in a deterministic order.
	Neighbors(id int) []int

	// EdgeCost returns the cost of moving from -> to. ok=false marks
	// the edge impassable.
	EdgeCost(from, to int) (cost float64, ok bool)

	// Heuristic is an admissible estimate of remaining cost to goal.
	Heuristic(id, goal int) float64

	// GradeChange is the absolute grade delta across the edge, used
	// only to break ties between equal cost frontier nodes so flatter
	// routes win.
	GradeChange(from, to int) float64
}

// Result is a found path, start to goal inclusive.
type Result struct {
	Path []int
	Cost float64
}

// ctxCheckEvery controls how often the search polls for cancellation.
const ctxCheckEvery = 1024

// Search runs A* from start to goal. The context is polled during the
// search; a cancelled context aborts with its error so callers can
// degrade to partial results.
func Search(ctx context.Context, g Grid, start, goal int) (*Result, error) {
	n := g.Size()
	if start < 0 || start >= n || goal < 0 || goal >= n {
		return nil, fmt.Errorf("start or goal outside arena [0,%d)", n)
	}

	gScore := make([]float64, n)
	gradeSum := make([]float64, n)
	cameFrom := make([]int32, n)
	state := make([]uint8, n) // 0 unseen, 1 open, 2 closed
	for i := range cameFrom {
		cameFrom[i] = -1
	}

	pq := &frontier{}
	heap.Init(pq)
	heap.Push(pq, node{id: start, f: g.Heuristic(start, goal)})
	state[start] = 1

	pops := 0
	for pq.Len() > 0 {
		pops++
		if pops%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		cur := heap.Pop(pq).(node)
		if state[cur.id] == 2 {
			continue // stale frontier entry
		}
		state[cur.id] = 2

		if cur.id == goal {
			return &Result{Path: rebuild(cameFrom, goal), Cost: gScore[goal]}, nil
		}

		for _, nb := range g.Neighbors(cur.id) {
			if state[nb] == 2 {
				continue
			}
			cost, ok := g.EdgeCost(cur.id, nb)
			if !ok {
				continue
			}

			tentative := gScore[cur.id] + cost
			grades := gradeSum[cur.id] + g.GradeChange(cur.id, nb)

			if state[nb] == 1 && tentative > gScore[nb] {
				continue
			}
			if state[nb] == 1 && tentative == gScore[nb] && grades >= gradeSum[nb] {
				continue
			}

			gScore[nb] = tentative
			gradeSum[nb] = grades
			cameFrom[nb] = int32(cur.id)
			state[nb] = 1
			heap.Push(pq, node{
				id:     nb,
				f:      tentative + g.Heuristic(nb, goal),
				grades: grades,
			})
		}
	}

	return nil, ErrNoPath
}

func rebuild(cameFrom []int32, goal int) []int {
	path := []int{goal}
	for cur := cameFrom[goal]; cur >= 0; cur = cameFrom[cur] {
		path = append(path, int(cur))
	}
	// reverse in place
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// node is a frontier entry. Ordering: lowest f first, then lowest
// accumulated grade change, then lowest id - fully deterministic.
type node struct {
	id     int
	f      float64
	grades float64
}

type frontier []node

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].f != f[j].f {
		return f[i].f < f[j].f
	}
	if f[i].grades != f[j].grades {
		return f[i].grades < f[j].grades
	}
	return f[i].id < f[j].id
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x interface{}) { *f = append(*f, x.(node)) }

func (f *frontier) Pop() interface{} {
	old := *f
	n := len(old)
	it := old[n-1]
	*f = old[:n-1]
	return it
}
