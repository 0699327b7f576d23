// Package path implements Manhattan pathfinding over an occupancy grid.
//
// Two search modes share one A* core:
//
//   - Obstacle-avoiding: only Free cells are passable. Used for every
//     net's first routing attempt.
//   - Minimum-crossing: Occupied cells are also passable, at a penalty
//     charged when the search enters an occupied stretch owned by a
//     different net than the previous cell. The distinct set of crossed
//     nets is reported so the caller can decide what to rip up. Blocked
//     cells stay impassable in both modes.
//
// Expansions are 4-directional with a Manhattan heuristic; ties break by
// lowest total cost, then lowest heuristic. Accepted paths are typically
// reduced to their direction-change corners with [Simplify] before being
// stored as traces.
package path

import (
	"container/heap"

	"github.com/matzehuels/pinroute/pkg/route/grid"
)

// Options tunes a single search.
type Options struct {
	// CrossPenalty enables minimum-crossing mode when positive: occupied
	// cells become passable at this cost per entered foreign stretch.
	CrossPenalty float64

	// SelfNet marks cells owned by this net as freely passable in both
	// modes. A net may always touch its own committed cells.
	SelfNet string
}

// Result is a found path in grid coordinates.
type Result struct {
	// Cells is the full cell sequence from start to goal inclusive.
	Cells []grid.Cell
	// Cost is the accumulated search cost (steps plus crossing penalties).
	Cost float64
	// Crossed holds the distinct foreign nets whose cells the path
	// passes through. Empty in obstacle-avoiding mode.
	Crossed []string
}

// neighbor expansion order: right, left, up, down. Fixed so equal-cost
// searches are deterministic.
var steps = [4]grid.Cell{{Col: 1}, {Col: -1}, {Row: 1}, {Row: -1}}

// Find runs A* from start to goal under the given options.
// Returns false if no path exists under the mode's passability rules.
func Find(g *grid.Grid, start, goal grid.Cell, opts Options) (Result, bool) {
	if !passable(g, start, opts) || !passable(g, goal, opts) {
		return Result{}, false
	}
	if start == goal {
		return Result{Cells: []grid.Cell{start}}, true
	}

	open := &queue{}
	heap.Init(open)
	h0 := heuristic(g, start, goal)
	heap.Push(open, &item{cell: start, f: h0, h: h0})

	gScore := map[grid.Cell]float64{start: 0}
	cameFrom := make(map[grid.Cell]grid.Cell)
	closed := make(map[grid.Cell]bool)

	for open.Len() > 0 {
		cur := heap.Pop(open).(*item)
		if cur.cell == goal {
			return reconstruct(g, cameFrom, goal, gScore[goal], opts), true
		}
		if closed[cur.cell] {
			continue
		}
		closed[cur.cell] = true
		curG := gScore[cur.cell]

		for _, d := range steps {
			next := grid.Cell{Col: cur.cell.Col + d.Col, Row: cur.cell.Row + d.Row}
			if closed[next] || !passable(g, next, opts) {
				continue
			}

			stepCost := 1.0
			if penalty := crossingPenalty(g, cur.cell, next, opts); penalty > 0 {
				stepCost += penalty
			}

			tentative := curG + stepCost
			if prev, seen := gScore[next]; seen && tentative >= prev {
				continue
			}
			gScore[next] = tentative
			cameFrom[next] = cur.cell
			h := heuristic(g, next, goal)
			heap.Push(open, &item{cell: next, f: tentative + h, h: h})
		}
	}
	return Result{}, false
}

// passable reports whether the cell may be entered under the options.
func passable(g *grid.Grid, c grid.Cell, opts Options) bool {
	if g.IsFree(c) {
		return true
	}
	owner, occupied := g.Owner(c)
	if !occupied {
		return false // Blocked or out of bounds
	}
	if opts.SelfNet != "" && owner == opts.SelfNet {
		return true
	}
	return opts.CrossPenalty > 0
}

// crossingPenalty charges for entering an occupied stretch of a foreign
// net. The penalty applies once per entered stretch, not per cell: moving
// between two cells of the same foreign net is free after the first
// entry. This approximates per-distinct-net counting during the search;
// the exact crossed set is recomputed from the final path.
func crossingPenalty(g *grid.Grid, from, to grid.Cell, opts Options) float64 {
	if opts.CrossPenalty <= 0 {
		return 0
	}
	toOwner, occupied := g.Owner(to)
	if !occupied || toOwner == opts.SelfNet {
		return 0
	}
	if fromOwner, ok := g.Owner(from); ok && fromOwner == toOwner {
		return 0
	}
	return opts.CrossPenalty
}

// reconstruct walks cameFrom back from the goal and collects the crossed
// net set from the final cell sequence.
func reconstruct(g *grid.Grid, cameFrom map[grid.Cell]grid.Cell, goal grid.Cell, cost float64, opts Options) Result {
	var cells []grid.Cell
	for c := goal; ; {
		cells = append(cells, c)
		prev, ok := cameFrom[c]
		if !ok {
			break
		}
		c = prev
	}
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}

	var crossed []string
	if opts.CrossPenalty > 0 {
		seen := make(map[string]bool)
		for _, c := range cells {
			if owner, ok := g.Owner(c); ok && owner != opts.SelfNet && !seen[owner] {
				seen[owner] = true
				crossed = append(crossed, owner)
			}
		}
	}
	return Result{Cells: cells, Cost: cost, Crossed: crossed}
}

// heuristic is the Manhattan distance in step units. Grid cells are
// uniform, so the cell-index distance is admissible.
func heuristic(_ *grid.Grid, a, b grid.Cell) float64 {
	return float64(abs(a.Col-b.Col) + abs(a.Row-b.Row))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Simplify reduces a cell path to its direction-change corners, keeping
// both endpoints. A straight run of any length collapses to its ends.
func Simplify(cells []grid.Cell) []grid.Cell {
	if len(cells) <= 2 {
		return cells
	}
	out := []grid.Cell{cells[0]}
	for i := 1; i < len(cells)-1; i++ {
		prev, cur, next := cells[i-1], cells[i], cells[i+1]
		sameCol := prev.Col == cur.Col && cur.Col == next.Col
		sameRow := prev.Row == cur.Row && cur.Row == next.Row
		if !sameCol && !sameRow {
			out = append(out, cur)
		}
	}
	return append(out, cells[len(cells)-1])
}
