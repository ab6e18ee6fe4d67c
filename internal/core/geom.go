// Package core provides fundamental types and utilities shared by the bubble
// engine and its hosts. It has no external dependencies (especially no Bubble
// Tea) to keep game logic pure and testable.
package core

import "math"

// Point is a position in field-local coordinates.
// The origin is the top-left corner; Y grows downward.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Distance returns the Euclidean distance between two points.
func (p Point) Distance(o Point) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// Size holds the dimensions of the playing field.
// A size with a zero or negative dimension is unknown.
type Size struct {
	W, H float64
}

// Known reports whether both dimensions have been reported.
func (s Size) Known() bool {
	return s.W > 0 && s.H > 0
}

// Circle is a round hitbox.
type Circle struct {
	Center Point
	Radius float64
}

// Overlaps reports whether two circles touch or intersect.
// Circles whose centers are exactly r1+r2 apart count as overlapping.
func (c Circle) Overlaps(o Circle) bool {
	return c.Center.Distance(o.Center) <= c.Radius+o.Radius
}

// Contains reports whether p lies inside the circle (edge inclusive).
func (c Circle) Contains(p Point) bool {
	return c.Center.Distance(p) <= c.Radius
}

// Touches reports whether the circle reaches or crosses any edge of a field
// of the given size.
func (c Circle) Touches(s Size) bool {
	return c.Center.X-c.Radius <= 0 ||
		c.Center.X+c.Radius >= s.W ||
		c.Center.Y-c.Radius <= 0 ||
		c.Center.Y+c.Radius >= s.H
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
