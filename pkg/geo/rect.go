package geo

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Epsilon is the tolerance used when comparing rectangle edges.
const Epsilon = 1e-6

// Rect is an axis-aligned rectangle on the floor plane.
type Rect struct {
	Min Point2D `json:"min"`
	Max Point2D `json:"max"`
}

// NewRect builds a rectangle from its minimum corner and size.
func NewRect(min Point2D, width, height float64) Rect {
	return Rect{Min: min, Max: Point2D{X: min.X + width, Z: min.Z + height}}
}

// RectFromCorners returns the rectangle spanned by two arbitrary corners.
func RectFromCorners(a, b Point2D) Rect {
	return Rect{
		Min: Point2D{X: math.Min(a.X, b.X), Z: math.Min(a.Z, b.Z)},
		Max: Point2D{X: math.Max(a.X, b.X), Z: math.Max(a.Z, b.Z)},
	}
}

// Width is the extent along X.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height is the extent along Z.
func (r Rect) Height() float64 { return r.Max.Z - r.Min.Z }

// Area returns width * height, or 0 for degenerate rectangles.
func (r Rect) Area() float64 {
	w, h := r.Width(), r.Height()
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Area() <= 0
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point2D {
	return MidPoint(r.Min, r.Max)
}

// TopCenter is the midpoint of the north (min Z) edge.
func (r Rect) TopCenter() Point2D {
	return Point2D{X: (r.Min.X + r.Max.X) / 2, Z: r.Min.Z}
}

// BottomCenter is the midpoint of the south (max Z) edge.
func (r Rect) BottomCenter() Point2D {
	return Point2D{X: (r.Min.X + r.Max.X) / 2, Z: r.Max.Z}
}

// LeftCenter is the midpoint of the west (min X) edge.
func (r Rect) LeftCenter() Point2D {
	return Point2D{X: r.Min.X, Z: (r.Min.Z + r.Max.Z) / 2}
}

// RightCenter is the midpoint of the east (max X) edge.
func (r Rect) RightCenter() Point2D {
	return Point2D{X: r.Max.X, Z: (r.Min.Z + r.Max.Z) / 2}
}

// Contains reports whether pt lies inside or on the boundary of r.
func (r Rect) Contains(pt Point2D) bool {
	return pt.X >= r.Min.X-Epsilon && pt.X <= r.Max.X+Epsilon &&
		pt.Z >= r.Min.Z-Epsilon && pt.Z <= r.Max.Z+Epsilon
}

// ContainsRect reports whether o lies entirely within r.
func (r Rect) ContainsRect(o Rect) bool {
	return r.Contains(o.Min) && r.Contains(o.Max)
}

// Overlap returns the area shared by r and o.
func (r Rect) Overlap(o Rect) float64 {
	w := math.Min(r.Max.X, o.Max.X) - math.Max(r.Min.X, o.Min.X)
	h := math.Min(r.Max.Z, o.Max.Z) - math.Max(r.Min.Z, o.Min.Z)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Intersects reports whether r and o share a region of positive area.
// Rectangles that only touch along an edge do not intersect.
func (r Rect) Intersects(o Rect) bool {
	return r.Overlap(o) > Epsilon
}

// Touches reports whether r and o overlap or share part of an edge.
func (r Rect) Touches(o Rect) bool {
	return r.Min.X <= o.Max.X+Epsilon && o.Min.X <= r.Max.X+Epsilon &&
		r.Min.Z <= o.Max.Z+Epsilon && o.Min.Z <= r.Max.Z+Epsilon
}

// TouchesBoundary reports whether any edge of r lies on the boundary of
// outer. Used to decide whether a room has direct access to the outside.
func (r Rect) TouchesBoundary(outer Rect) bool {
	return math.Abs(r.Min.X-outer.Min.X) < Epsilon ||
		math.Abs(r.Max.X-outer.Max.X) < Epsilon ||
		math.Abs(r.Min.Z-outer.Min.Z) < Epsilon ||
		math.Abs(r.Max.Z-outer.Max.Z) < Epsilon
}

// Expand grows the rectangle by d on every side.
func (r Rect) Expand(d float64) Rect {
	return Rect{
		Min: Point2D{X: r.Min.X - d, Z: r.Min.Z - d},
		Max: Point2D{X: r.Max.X + d, Z: r.Max.Z + d},
	}
}

// Bound converts the rectangle into an orb.Bound (X maps to lon/x, Z to lat/y).
func (r Rect) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{r.Min.X, r.Min.Z},
		Max: orb.Point{r.Max.X, r.Max.Z},
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("[%.2f,%.2f]-[%.2f,%.2f]", r.Min.X, r.Min.Z, r.Max.X, r.Max.Z)
}
