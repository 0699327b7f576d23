// Package grid discretizes a device outline into fixed-size cells and
// tracks routing occupancy.
//
// A cell is Free, Blocked, or Occupied by exactly one net. Blocked cells
// are permanent for the run: outline exterior, blocking component
// footprints, keepout margins, and the edge-clearance buffer. Occupied
// cells are owned by a net's trace and return to Free only when that net
// is ripped up. No operation ever clears a Blocked cell, which is what
// makes rip-up safe.
package grid

import (
	"errors"
	"fmt"
	"math"

	"github.com/matzehuels/pinroute/pkg/board"
)

// Sentinel errors for grid operations.
var (
	// ErrEmptyOutline indicates the outline polygon has fewer than 3 vertices.
	ErrEmptyOutline = errors.New("grid: outline must have at least 3 vertices")
	// ErrInvalidCellSize indicates a non-positive cell size.
	ErrInvalidCellSize = errors.New("grid: cell size must be positive")
	// ErrOutOfBounds indicates a cell outside the grid dimensions.
	ErrOutOfBounds = errors.New("grid: cell out of bounds")
	// ErrCellNotFree indicates an attempt to occupy a Blocked or Occupied cell.
	ErrCellNotFree = errors.New("grid: cell is not free")
)

// State is the routing state of a single cell.
type State uint8

const (
	// Free cells are available for routing.
	Free State = iota
	// Blocked cells are permanently unavailable for the run.
	Blocked
	// Occupied cells carry a committed trace of one net.
	Occupied
)

// Cell addresses a grid cell by integer column and row.
type Cell struct {
	Col, Row int
}

// Grid is the occupancy grid for one routing run. It is mutable state
// exclusively owned by the routing orchestrator; it is not safe for
// concurrent use.
type Grid struct {
	cols, rows int
	cellSize   float64
	origin     board.Point // world coordinate of cell (0,0)'s min corner

	state []State
	owner []string         // net id per Occupied cell, "" otherwise
	owned map[string][]int // net id -> occupied cell indices
}

// Build constructs the grid from the outline and placement set.
//
// Construction order:
//  1. cells whose center lies outside the outline are Blocked
//  2. cells whose center lies within edgeClearance cells of the outline
//     boundary are Blocked (the edge-clearance buffer)
//  3. component footprints and keepout margins are Blocked
//
// Components with the blocks-routing flag block their body plus keepout;
// components without it block only when they carry a non-zero keepout
// margin (the margin region includes the body).
func Build(design *board.Design, catalog *board.Catalog, cellSize float64, edgeClearance int) (*Grid, error) {
	if len(design.Outline) < 3 {
		return nil, ErrEmptyOutline
	}
	if cellSize <= 0 {
		return nil, ErrInvalidCellSize
	}

	bounds := board.BoundingBox(design.Outline)
	cols := int(math.Ceil((bounds.MaxX - bounds.MinX) / cellSize))
	rows := int(math.Ceil((bounds.MaxY - bounds.MinY) / cellSize))
	if cols < 1 || rows < 1 {
		return nil, ErrEmptyOutline
	}

	g := &Grid{
		cols:     cols,
		rows:     rows,
		cellSize: cellSize,
		origin:   board.Point{X: bounds.MinX, Y: bounds.MinY},
		state:    make([]State, cols*rows),
		owner:    make([]string, cols*rows),
		owned:    make(map[string][]int),
	}

	clearance := float64(edgeClearance) * cellSize
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			center := g.Center(Cell{col, row})
			if !board.PointInPolygon(center, design.Outline) {
				g.state[g.idx(Cell{col, row})] = Blocked
				continue
			}
			if clearance > 0 && board.DistToPolygonBoundary(center, design.Outline) < clearance {
				g.state[g.idx(Cell{col, row})] = Blocked
			}
		}
	}

	for _, place := range design.Placements {
		def, ok := catalog.Component(place.Catalog)
		if !ok {
			return nil, fmt.Errorf("grid: instance %s references unknown component %s", place.ID, place.Catalog)
		}
		if !def.BlocksRouting && def.Keepout == 0 {
			continue
		}
		g.blockRect(place.BodyRect(def).Expand(def.Keepout))
	}

	return g, nil
}

// blockRect marks every cell whose center lies inside the world
// rectangle. Cells that merely touch an edge stay free, so a corridor
// next to a component whose bounds land exactly on a cell boundary
// remains routable.
func (g *Grid) blockRect(r board.Rect) {
	minCol := int(math.Ceil((r.MinX-g.origin.X)/g.cellSize - 0.5))
	maxCol := int(math.Floor((r.MaxX-g.origin.X)/g.cellSize - 0.5))
	minRow := int(math.Ceil((r.MinY-g.origin.Y)/g.cellSize - 0.5))
	maxRow := int(math.Floor((r.MaxY-g.origin.Y)/g.cellSize - 0.5))

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			c := Cell{col, row}
			if g.InBounds(c) {
				g.state[g.idx(c)] = Blocked
			}
		}
	}
}

func (g *Grid) idx(c Cell) int { return c.Row*g.cols + c.Col }

// Cols returns the grid width in cells.
func (g *Grid) Cols() int { return g.cols }

// Rows returns the grid height in cells.
func (g *Grid) Rows() int { return g.rows }

// CellSize returns the spatial resolution in world units.
func (g *Grid) CellSize() float64 { return g.cellSize }

// InBounds reports whether the cell lies within the grid dimensions.
func (g *Grid) InBounds(c Cell) bool {
	return c.Col >= 0 && c.Col < g.cols && c.Row >= 0 && c.Row < g.rows
}

// CellAt maps a world point to its containing cell.
// Returns false if the point lies outside the grid bounds.
func (g *Grid) CellAt(p board.Point) (Cell, bool) {
	c := Cell{
		Col: int(math.Floor((p.X - g.origin.X) / g.cellSize)),
		Row: int(math.Floor((p.Y - g.origin.Y) / g.cellSize)),
	}
	return c, g.InBounds(c)
}

// Center returns the world coordinate of the cell's center.
func (g *Grid) Center(c Cell) board.Point {
	return board.Point{
		X: g.origin.X + (float64(c.Col)+0.5)*g.cellSize,
		Y: g.origin.Y + (float64(c.Row)+0.5)*g.cellSize,
	}
}

// IsBlocked reports whether the cell is permanently unavailable.
// Out-of-bounds cells are treated as Blocked.
func (g *Grid) IsBlocked(c Cell) bool {
	return !g.InBounds(c) || g.state[g.idx(c)] == Blocked
}

// IsFree reports whether the cell is available for routing.
func (g *Grid) IsFree(c Cell) bool {
	return g.InBounds(c) && g.state[g.idx(c)] == Free
}

// Owner returns the net occupying the cell, or false if the cell is not
// Occupied.
func (g *Grid) Owner(c Cell) (string, bool) {
	if !g.InBounds(c) || g.state[g.idx(c)] != Occupied {
		return "", false
	}
	return g.owner[g.idx(c)], true
}

// Occupy marks the cells as owned by the net. The operation is atomic:
// if any cell is not Free, no cell is modified and ErrCellNotFree (or
// ErrOutOfBounds) is returned.
func (g *Grid) Occupy(cells []Cell, netID string) error {
	for _, c := range cells {
		if !g.InBounds(c) {
			return fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, c.Col, c.Row)
		}
		if g.state[g.idx(c)] != Free {
			return fmt.Errorf("%w: (%d,%d)", ErrCellNotFree, c.Col, c.Row)
		}
	}
	for _, c := range cells {
		i := g.idx(c)
		g.state[i] = Occupied
		g.owner[i] = netID
		g.owned[netID] = append(g.owned[netID], i)
	}
	return nil
}

// Release frees every cell owned by the net and returns the count.
// Blocked cells are never touched; releasing an unknown net is a no-op.
func (g *Grid) Release(netID string) int {
	indices := g.owned[netID]
	for _, i := range indices {
		g.state[i] = Free
		g.owner[i] = ""
	}
	delete(g.owned, netID)
	return len(indices)
}

// OwnedBy returns the cells currently occupied by the net.
func (g *Grid) OwnedBy(netID string) []Cell {
	indices := g.owned[netID]
	cells := make([]Cell, len(indices))
	for i, idx := range indices {
		cells[i] = Cell{Col: idx % g.cols, Row: idx / g.cols}
	}
	return cells
}

// Reset releases every occupied cell, restoring the grid to its
// post-construction state. Used when an ordering attempt is abandoned.
func (g *Grid) Reset() {
	for netID := range g.owned {
		g.Release(netID)
	}
}

// NearestFree scans outward in square rings from the cell and returns
// the nearest Free cell within maxRadius (Chebyshev). Used to snap a pin
// whose cell lands inside its component's keepout onto routable ground.
// Returns false when the pin is fully enclosed.
func (g *Grid) NearestFree(c Cell, maxRadius int) (Cell, bool) {
	if g.IsFree(c) {
		return c, true
	}

	best := Cell{}
	bestDist := math.MaxFloat64
	found := false
	center := g.Center(c)

	for r := 1; r <= maxRadius; r++ {
		for dc := -r; dc <= r; dc++ {
			for _, dr := range ringRows(dc, r) {
				n := Cell{c.Col + dc, c.Row + dr}
				if !g.IsFree(n) {
					continue
				}
				d := board.ManhattanDist(center, g.Center(n))
				if d < bestDist {
					best, bestDist, found = n, d, true
				}
			}
		}
		// Cells in ring r+1 can be closer in Manhattan terms than a
		// corner hit in ring r, so scan one extra ring before accepting.
		if found && r > 1 {
			return best, true
		}
	}
	if found {
		return best, true
	}
	return Cell{}, false
}

// ringRows returns the row offsets forming the border of the square ring
// at Chebyshev radius r for the given column offset.
func ringRows(dc, r int) []int {
	if dc == -r || dc == r {
		rows := make([]int, 0, 2*r+1)
		for dr := -r; dr <= r; dr++ {
			rows = append(rows, dr)
		}
		return rows
	}
	return []int{-r, r}
}
