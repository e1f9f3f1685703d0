package geometry

import "math"

// Vector2 represents a 2D point or vector
type Vector2 struct {
	X, Y float64
}

// NewVector2 creates a new 2D vector
func NewVector2(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

// Add returns the sum of two vectors
func (v Vector2) Add(other Vector2) Vector2 {
	return Vector2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub returns the difference between two vectors
func (v Vector2) Sub(other Vector2) Vector2 {
	return Vector2{X: v.X - other.X, Y: v.Y - other.Y}
}

// Distance returns the distance between two points
func (v Vector2) Distance(other Vector2) float64 {
	dx, dy := v.X-other.X, v.Y-other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Rect is an axis-aligned rectangle described by its minimum and maximum corners
type Rect struct {
	Min Vector2
	Max Vector2
}

// NewRect creates a rectangle from position (minimum corner) and size
func NewRect(pos, size Vector2) Rect {
	return Rect{Min: pos, Max: pos.Add(size)}
}

// Width returns the rectangle's extent along X
func (r Rect) Width() float64 {
	return r.Max.X - r.Min.X
}

// Height returns the rectangle's extent along Y
func (r Rect) Height() float64 {
	return r.Max.Y - r.Min.Y
}

// Center returns the rectangle's midpoint
func (r Rect) Center() Vector2 {
	return Vector2{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

// Normalized returns the same rectangle with Min and Max swapped where needed
// so that Min <= Max on both axes, regardless of drag direction
func (r Rect) Normalized() Rect {
	return Rect{
		Min: Vector2{X: math.Min(r.Min.X, r.Max.X), Y: math.Min(r.Min.Y, r.Max.Y)},
		Max: Vector2{X: math.Max(r.Min.X, r.Max.X), Y: math.Max(r.Min.Y, r.Max.Y)},
	}
}

// Contains reports whether the point lies inside the rectangle
func (r Rect) Contains(p Vector2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// BoundingRect returns the axis-aligned rectangle enclosing the points
func BoundingRect(points []Vector2) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	r := Rect{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		r.Min.X = math.Min(r.Min.X, p.X)
		r.Min.Y = math.Min(r.Min.Y, p.Y)
		r.Max.X = math.Max(r.Max.X, p.X)
		r.Max.Y = math.Max(r.Max.Y, p.Y)
	}
	return r
}
