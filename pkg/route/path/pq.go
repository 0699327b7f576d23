package path

import "github.com/matzehuels/pinroute/pkg/route/grid"

// item is a priority queue entry for the open set.
type item struct {
	cell grid.Cell
	f    float64 // total estimated cost
	h    float64 // heuristic, used as tie-break
}

// queue is a min-heap ordered by f, then h. Lower heuristic wins ties so
// the search prefers nodes closer to the goal among equal-cost frontiers.
type queue []*item

func (q queue) Len() int { return len(q) }

func (q queue) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	return q[i].h < q[j].h
}

func (q queue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *queue) Push(x any) { *q = append(*q, x.(*item)) }

func (q *queue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return it
}
