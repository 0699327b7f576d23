package board

import "math"

// Point is a location in world coordinates (outline units).
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// ManhattanDist returns the L1 distance between two points.
func ManhattanDist(a, b Point) float64 {
	return math.Abs(a.X-b.X) + math.Abs(a.Y-b.Y)
}

// Rect is an axis-aligned rectangle in world coordinates.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Contains reports whether p lies inside or on the boundary of the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Expand returns the rectangle grown by margin on all four sides.
// A negative margin shrinks the rectangle; callers must ensure the result
// stays non-degenerate if they rely on that.
func (r Rect) Expand(margin float64) Rect {
	return Rect{
		MinX: r.MinX - margin,
		MinY: r.MinY - margin,
		MaxX: r.MaxX + margin,
		MaxY: r.MaxY + margin,
	}
}

// BoundingBox returns the smallest rectangle containing all points.
// Returns a zero Rect for an empty slice.
func BoundingBox(points []Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	r := Rect{MinX: points[0].X, MinY: points[0].Y, MaxX: points[0].X, MaxY: points[0].Y}
	for _, p := range points[1:] {
		r.MinX = math.Min(r.MinX, p.X)
		r.MinY = math.Min(r.MinY, p.Y)
		r.MaxX = math.Max(r.MaxX, p.X)
		r.MaxY = math.Max(r.MaxY, p.Y)
	}
	return r
}

// PointInPolygon reports whether p lies inside the polygon using the
// even-odd ray casting rule. Points exactly on an edge may land on either
// side; the grid construction compensates with an edge-clearance buffer,
// so boundary ambiguity never reaches the router.
func PointInPolygon(p Point, polygon []Point) bool {
	if len(polygon) < 3 {
		return false
	}
	inside := false
	j := len(polygon) - 1
	for i := 0; i < len(polygon); i++ {
		pi, pj := polygon[i], polygon[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) {
			xCross := (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y) + pi.X
			if p.X < xCross {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// DistToPolygonBoundary returns the Euclidean distance from p to the
// nearest point on the polygon's boundary. The polygon is treated as a
// closed ring.
func DistToPolygonBoundary(p Point, polygon []Point) float64 {
	if len(polygon) == 0 {
		return math.Inf(1)
	}
	best := math.Inf(1)
	j := len(polygon) - 1
	for i := 0; i < len(polygon); i++ {
		if d := distToSegment(p, polygon[j], polygon[i]); d < best {
			best = d
		}
		j = i
	}
	return best
}

// distToSegment returns the distance from p to the segment (a, b).
func distToSegment(p, a, b Point) float64 {
	abx, aby := b.X-a.X, b.Y-a.Y
	apx, apy := p.X-a.X, p.Y-a.Y
	lenSq := abx*abx + aby*aby
	t := 0.0
	if lenSq > 0 {
		t = (apx*abx + apy*aby) / lenSq
		t = math.Max(0, math.Min(1, t))
	}
	dx, dy := p.X-(a.X+t*abx), p.Y-(a.Y+t*aby)
	return math.Hypot(dx, dy)
}

// RotateOffset rotates a local (dx, dy) offset by a 90° multiple.
// Rotation is counter-clockwise and exact: axes are swapped and negated,
// never multiplied by trigonometric approximations.
func RotateOffset(dx, dy float64, rotation int) (float64, float64) {
	switch normalizeRotation(rotation) {
	case 90:
		return -dy, dx
	case 180:
		return -dx, -dy
	case 270:
		return dy, -dx
	default:
		return dx, dy
	}
}

// normalizeRotation maps any 90° multiple onto {0, 90, 180, 270}.
func normalizeRotation(rotation int) int {
	r := rotation % 360
	if r < 0 {
		r += 360
	}
	return r
}
