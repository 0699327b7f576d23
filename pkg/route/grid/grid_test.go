package grid

import (
	"errors"
	"testing"

	"github.com/matzehuels/pinroute/pkg/board"
)

// square20 is an obstacle-free 20x20 outline (clockwise).
func square20() *board.Design {
	return &board.Design{
		Outline: []board.Point{{X: 0, Y: 0}, {X: 0, Y: 20}, {X: 20, Y: 20}, {X: 20, Y: 0}},
	}
}

func mustBuild(t *testing.T, d *board.Design, c *board.Catalog, cellSize float64, clearance int) *Grid {
	t.Helper()
	g, err := Build(d, c, cellSize, clearance)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func TestBuildDimensions(t *testing.T) {
	g := mustBuild(t, square20(), &board.Catalog{}, 1.0, 0)

	if g.Cols() != 20 || g.Rows() != 20 {
		t.Errorf("dimensions = %dx%d, want 20x20", g.Cols(), g.Rows())
	}
	if !g.IsFree(Cell{10, 10}) {
		t.Error("interior cell should be free")
	}
}

func TestBuildRejectsBadInput(t *testing.T) {
	if _, err := Build(&board.Design{Outline: []board.Point{{X: 0, Y: 0}}}, &board.Catalog{}, 1, 0); !errors.Is(err, ErrEmptyOutline) {
		t.Errorf("short outline error = %v, want ErrEmptyOutline", err)
	}
	if _, err := Build(square20(), &board.Catalog{}, 0, 0); !errors.Is(err, ErrInvalidCellSize) {
		t.Errorf("zero cell size error = %v, want ErrInvalidCellSize", err)
	}
}

func TestOutlineExteriorBlocked(t *testing.T) {
	// L-shape: the notch at high x / high y is outside the outline.
	d := &board.Design{
		Outline: []board.Point{{X: 0, Y: 0}, {X: 0, Y: 20}, {X: 10, Y: 20}, {X: 10, Y: 10}, {X: 20, Y: 10}, {X: 20, Y: 0}},
	}
	g := mustBuild(t, d, &board.Catalog{}, 1.0, 0)

	if !g.IsBlocked(Cell{15, 15}) {
		t.Error("notch cell should be blocked")
	}
	if !g.IsFree(Cell{5, 15}) {
		t.Error("upper arm cell should be free")
	}
	if !g.IsFree(Cell{15, 5}) {
		t.Error("lower arm cell should be free")
	}
}

func TestEdgeClearance(t *testing.T) {
	g := mustBuild(t, square20(), &board.Catalog{}, 1.0, 1)

	if !g.IsBlocked(Cell{0, 10}) {
		t.Error("cell adjacent to boundary should be blocked by clearance")
	}
	if !g.IsFree(Cell{1, 10}) {
		t.Error("cell one step in should remain free")
	}
}

func TestComponentBlocking(t *testing.T) {
	catalog := &board.Catalog{
		Components: []board.ComponentDef{
			{ID: "ic", Body: board.Body{Width: 4, Height: 4}, BlocksRouting: true, Keepout: 1},
			{ID: "pad", Body: board.Body{Width: 2, Height: 2}},
		},
	}
	d := square20()
	d.Placements = []board.Placement{
		{ID: "u1", Catalog: "ic", X: 10, Y: 10},
		{ID: "p1", Catalog: "pad", X: 4, Y: 4},
	}
	g := mustBuild(t, d, catalog, 1.0, 0)

	if !g.IsBlocked(Cell{10, 10}) {
		t.Error("cell under blocking component should be blocked")
	}
	// Keepout extends the footprint: body spans x 8..12, keepout to 7..13.
	if !g.IsBlocked(Cell{7, 10}) {
		t.Error("keepout margin cell should be blocked")
	}
	if !g.IsFree(Cell{5, 10}) {
		t.Error("cell beyond keepout should be free")
	}
	// Non-blocking component without keepout blocks nothing.
	if !g.IsFree(Cell{4, 4}) {
		t.Error("cell under non-blocking component should be free")
	}
}

func TestComponentBlockingEdgeAligned(t *testing.T) {
	// A wall whose bounds land exactly on cell boundaries: body spans
	// x 1..6, y 4..5. Only cells whose centers fall inside are blocked;
	// the columns touching the edges stay routable.
	catalog := &board.Catalog{
		Components: []board.ComponentDef{
			{ID: "wall", Body: board.Body{Width: 5, Height: 1}, BlocksRouting: true},
		},
	}
	d := square20()
	d.Placements = []board.Placement{{ID: "w", Catalog: "wall", X: 3.5, Y: 4.5}}
	g := mustBuild(t, d, catalog, 1.0, 0)

	for col := 1; col <= 5; col++ {
		if !g.IsBlocked(Cell{col, 4}) {
			t.Errorf("cell (%d,4) under the wall should be blocked", col)
		}
	}
	if !g.IsFree(Cell{0, 4}) {
		t.Error("cell left of the wall edge should be free")
	}
	if !g.IsFree(Cell{6, 4}) {
		t.Error("cell right of the wall edge should be free")
	}
	if !g.IsFree(Cell{3, 3}) || !g.IsFree(Cell{3, 5}) {
		t.Error("rows above and below the wall should be free")
	}
}

func TestUnknownCatalogComponent(t *testing.T) {
	d := square20()
	d.Placements = []board.Placement{{ID: "u1", Catalog: "ghost", X: 5, Y: 5}}
	if _, err := Build(d, &board.Catalog{}, 1.0, 0); err == nil {
		t.Error("expected error for unknown catalog component")
	}
}

func TestOccupyReleaseLifecycle(t *testing.T) {
	g := mustBuild(t, square20(), &board.Catalog{}, 1.0, 0)

	cells := []Cell{{2, 2}, {2, 3}, {2, 4}}
	if err := g.Occupy(cells, "n1"); err != nil {
		t.Fatalf("Occupy: %v", err)
	}

	if g.IsFree(Cell{2, 3}) {
		t.Error("occupied cell should not be free")
	}
	if owner, ok := g.Owner(Cell{2, 3}); !ok || owner != "n1" {
		t.Errorf("Owner = %q, %v; want n1, true", owner, ok)
	}
	if got := len(g.OwnedBy("n1")); got != 3 {
		t.Errorf("OwnedBy returned %d cells, want 3", got)
	}

	// Occupying a taken cell is atomic: nothing changes.
	err := g.Occupy([]Cell{{5, 5}, {2, 3}}, "n2")
	if !errors.Is(err, ErrCellNotFree) {
		t.Errorf("overlapping Occupy error = %v, want ErrCellNotFree", err)
	}
	if !g.IsFree(Cell{5, 5}) {
		t.Error("failed Occupy must not leave partial state")
	}

	if freed := g.Release("n1"); freed != 3 {
		t.Errorf("Release freed %d, want 3", freed)
	}
	if !g.IsFree(Cell{2, 3}) {
		t.Error("released cell should be free")
	}
	if freed := g.Release("n1"); freed != 0 {
		t.Errorf("second Release freed %d, want 0", freed)
	}
}

func TestReleaseNeverClearsBlocked(t *testing.T) {
	g := mustBuild(t, square20(), &board.Catalog{}, 1.0, 1)

	blocked := Cell{0, 0}
	if !g.IsBlocked(blocked) {
		t.Fatal("expected boundary cell blocked")
	}
	g.Release("any")
	g.Reset()
	if !g.IsBlocked(blocked) {
		t.Error("Blocked cell must never transition")
	}
}

func TestOccupyOutOfBounds(t *testing.T) {
	g := mustBuild(t, square20(), &board.Catalog{}, 1.0, 0)
	if err := g.Occupy([]Cell{{-1, 0}}, "n1"); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("error = %v, want ErrOutOfBounds", err)
	}
}

func TestReset(t *testing.T) {
	g := mustBuild(t, square20(), &board.Catalog{}, 1.0, 0)

	_ = g.Occupy([]Cell{{2, 2}}, "n1")
	_ = g.Occupy([]Cell{{3, 3}}, "n2")
	g.Reset()

	if !g.IsFree(Cell{2, 2}) || !g.IsFree(Cell{3, 3}) {
		t.Error("Reset should free all occupied cells")
	}
	if len(g.OwnedBy("n1")) != 0 || len(g.OwnedBy("n2")) != 0 {
		t.Error("Reset should clear ownership")
	}
}

func TestCellAtCenterRoundTrip(t *testing.T) {
	g := mustBuild(t, square20(), &board.Catalog{}, 1.0, 0)

	c, ok := g.CellAt(board.Point{X: 2.3, Y: 10.7})
	if !ok || c != (Cell{2, 10}) {
		t.Fatalf("CellAt = %v, %v", c, ok)
	}
	center := g.Center(c)
	if center.X != 2.5 || center.Y != 10.5 {
		t.Errorf("Center = %v, want (2.5, 10.5)", center)
	}

	if _, ok := g.CellAt(board.Point{X: -5, Y: 0}); ok {
		t.Error("CellAt outside bounds should return false")
	}
}

func TestNearestFree(t *testing.T) {
	catalog := &board.Catalog{
		Components: []board.ComponentDef{
			{ID: "ic", Body: board.Body{Width: 4, Height: 4}, BlocksRouting: true},
		},
	}
	d := square20()
	d.Placements = []board.Placement{{ID: "u1", Catalog: "ic", X: 10, Y: 10}}
	g := mustBuild(t, d, catalog, 1.0, 0)

	// Already free: identity.
	if c, ok := g.NearestFree(Cell{2, 2}, 3); !ok || c != (Cell{2, 2}) {
		t.Errorf("NearestFree(free cell) = %v, %v", c, ok)
	}

	// Blocked under the component: snaps to just outside the footprint.
	c, ok := g.NearestFree(Cell{8, 10}, 5)
	if !ok {
		t.Fatal("expected a free cell near the footprint edge")
	}
	if !g.IsFree(c) {
		t.Errorf("NearestFree returned non-free cell %v", c)
	}

	// Fully enclosed: a tiny radius that stays inside the footprint.
	if _, ok := g.NearestFree(Cell{10, 10}, 1); ok {
		t.Error("expected no free cell within radius 1 of the component center")
	}
}
