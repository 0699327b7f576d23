package board

import (
	"math"
	"testing"
)

func TestManhattanDist(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want float64
	}{
		{"same point", Point{2, 3}, Point{2, 3}, 0},
		{"horizontal", Point{0, 0}, Point{5, 0}, 5},
		{"vertical", Point{0, 0}, Point{0, 7}, 7},
		{"diagonal", Point{1, 1}, Point{4, 5}, 7},
		{"negative coords", Point{-2, -3}, Point{2, 3}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ManhattanDist(tt.a, tt.b); got != tt.want {
				t.Errorf("ManhattanDist(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestPointInPolygon(t *testing.T) {
	// 20x20 square, clockwise
	square := []Point{{0, 0}, {0, 20}, {20, 20}, {20, 0}}

	// L-shaped outline
	lshape := []Point{{0, 0}, {0, 20}, {10, 20}, {10, 10}, {20, 10}, {20, 0}}

	tests := []struct {
		name    string
		p       Point
		polygon []Point
		want    bool
	}{
		{"center of square", Point{10, 10}, square, true},
		{"outside square", Point{25, 10}, square, false},
		{"outside negative", Point{-1, 10}, square, false},
		{"near corner inside", Point{0.5, 0.5}, square, true},
		{"inside L lower arm", Point{15, 5}, lshape, true},
		{"inside L upper arm", Point{5, 15}, lshape, true},
		{"in L notch", Point{15, 15}, lshape, false},
		{"degenerate polygon", Point{1, 1}, []Point{{0, 0}, {1, 0}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointInPolygon(tt.p, tt.polygon); got != tt.want {
				t.Errorf("PointInPolygon(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestDistToPolygonBoundary(t *testing.T) {
	square := []Point{{0, 0}, {0, 20}, {20, 20}, {20, 0}}

	tests := []struct {
		name string
		p    Point
		want float64
	}{
		{"center", Point{10, 10}, 10},
		{"near left edge", Point{0.5, 10}, 0.5},
		{"on boundary", Point{0, 10}, 0},
		{"outside", Point{22, 10}, 2},
		{"near corner", Point{21, 21}, math.Sqrt(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistToPolygonBoundary(tt.p, square)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("DistToPolygonBoundary(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestRotateOffset(t *testing.T) {
	tests := []struct {
		name     string
		dx, dy   float64
		rotation int
		wantX    float64
		wantY    float64
	}{
		{"identity", 3, 1, 0, 3, 1},
		{"quarter turn", 3, 1, 90, -1, 3},
		{"half turn", 3, 1, 180, -3, -1},
		{"three quarters", 3, 1, 270, 1, -3},
		{"full turn", 3, 1, 360, 3, 1},
		{"negative rotation", 3, 1, -90, 1, -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gx, gy := RotateOffset(tt.dx, tt.dy, tt.rotation)
			if gx != tt.wantX || gy != tt.wantY {
				t.Errorf("RotateOffset(%v, %v, %d) = (%v, %v), want (%v, %v)",
					tt.dx, tt.dy, tt.rotation, gx, gy, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestBoundingBox(t *testing.T) {
	pts := []Point{{3, 7}, {-1, 2}, {5, -4}}
	r := BoundingBox(pts)
	want := Rect{MinX: -1, MinY: -4, MaxX: 5, MaxY: 7}
	if r != want {
		t.Errorf("BoundingBox = %+v, want %+v", r, want)
	}

	if empty := BoundingBox(nil); empty != (Rect{}) {
		t.Errorf("BoundingBox(nil) = %+v, want zero", empty)
	}
}

func TestRectExpandContains(t *testing.T) {
	r := Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}

	if !r.Contains(Point{5, 5}) {
		t.Error("center should be contained")
	}
	if !r.Contains(Point{0, 10}) {
		t.Error("boundary should be contained")
	}
	if r.Contains(Point{10.1, 5}) {
		t.Error("point beyond MaxX should not be contained")
	}

	e := r.Expand(1.5)
	if e.MinX != -1.5 || e.MaxY != 11.5 {
		t.Errorf("Expand(1.5) = %+v", e)
	}
	if !e.Contains(Point{-1, 11}) {
		t.Error("expanded rect should contain margin point")
	}
}

func TestPinPosition(t *testing.T) {
	pin := Pin{ID: "A", X: 4, Y: 2}

	tests := []struct {
		rotation int
		want     Point
	}{
		{0, Point{14, 22}},
		{90, Point{8, 24}},
		{180, Point{6, 18}},
		{270, Point{12, 16}},
	}

	for _, tt := range tests {
		place := Placement{ID: "u1", X: 10, Y: 20, Rotation: tt.rotation}
		got := place.PinPosition(pin)
		if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
			t.Errorf("rotation %d: PinPosition = %v, want %v", tt.rotation, got, tt.want)
		}
	}
}

func TestBodyRect(t *testing.T) {
	def := &ComponentDef{ID: "ic", Body: Body{Width: 8, Height: 4}}

	place := Placement{ID: "u1", X: 10, Y: 10}
	r := place.BodyRect(def)
	want := Rect{MinX: 6, MinY: 8, MaxX: 14, MaxY: 12}
	if r != want {
		t.Errorf("BodyRect(0°) = %+v, want %+v", r, want)
	}

	// 90° rotation swaps the footprint dimensions.
	place.Rotation = 90
	r = place.BodyRect(def)
	want = Rect{MinX: 8, MinY: 6, MaxX: 12, MaxY: 14}
	if r != want {
		t.Errorf("BodyRect(90°) = %+v, want %+v", r, want)
	}
}
