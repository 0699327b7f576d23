package route

import (
	"github.com/matzehuels/pinroute/pkg/board"
)

// Task is one point-to-point connection to route. Multi-pin nets
// decompose into several tasks spanning all their terminals.
type Task struct {
	Net  string
	A, B *Endpoint
}

// EstimatedLength is the Manhattan distance between the task's endpoint
// estimates. Used for seeding the net order and for allocation ties.
func (t Task) EstimatedLength() float64 {
	return board.ManhattanDist(t.A.Estimate(), t.B.Estimate())
}

// decompose builds the connection tasks for one net's endpoints.
//
// Two terminals yield a single task. More than two yield a greedy
// nearest-neighbor spanning structure: starting from the first terminal,
// the unconnected terminal closest to any connected one is attached,
// producing n-1 ordered tasks. The greedy tree approximates a Steiner
// topology without computing Steiner points; detours are absorbed by the
// grid pathfinder.
func decompose(netID string, endpoints []*Endpoint) []Task {
	if len(endpoints) == 2 {
		return []Task{{Net: netID, A: endpoints[0], B: endpoints[1]}}
	}

	connected := make([]bool, len(endpoints))
	connected[0] = true
	tasks := make([]Task, 0, len(endpoints)-1)

	for range endpoints[1:] {
		bestFrom, bestTo := -1, -1
		bestDist := 0.0
		for i, from := range endpoints {
			if !connected[i] {
				continue
			}
			for j, to := range endpoints {
				if connected[j] {
					continue
				}
				d := board.ManhattanDist(from.Estimate(), to.Estimate())
				if bestTo == -1 || d < bestDist {
					bestFrom, bestTo, bestDist = i, j, d
				}
			}
		}
		connected[bestTo] = true
		tasks = append(tasks, Task{Net: netID, A: endpoints[bestFrom], B: endpoints[bestTo]})
	}
	return tasks
}

// estimatedSpan sums the estimated lengths of a net's tasks. Shorter,
// simpler nets route first in the seed ordering.
func estimatedSpan(tasks []Task) float64 {
	total := 0.0
	for _, t := range tasks {
		total += t.EstimatedLength()
	}
	return total
}
