package common

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
)

// Vec2 is a 2D vector in screen space (y grows downward).
type Vec2 struct {
	X float64
	Y float64
}

func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// FromCP converts a Chipmunk vector.
func FromCP(v cp.Vector) Vec2 {
	return Vec2{X: v.X, Y: v.Y}
}

// CP converts to a Chipmunk vector.
func (v Vec2) CP() cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

func (v Vec2) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// LenSq avoids the square root for distance comparisons.
func (v Vec2) LenSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalized returns the unit vector in the direction of v.
// The zero vector normalizes to the zero vector.
func (v Vec2) Normalized() Vec2 {
	m := v.Len()
	if m == 0 {
		return Vec2{}
	}
	return Vec2{X: v.X / m, Y: v.Y / m}
}

// WithLen rescales v to magnitude m, keeping its direction.
func (v Vec2) WithLen(m float64) Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return v.Scale(m / l)
}

// Angle is the direction of v in radians, measured in screen space:
// 0 points right and -Pi/2 points up.
func (v Vec2) Angle() float64 {
	if v.IsZero() {
		return 0
	}
	return math.Atan2(v.Y, v.X)
}

// WithAngle rotates v to point along angle r, keeping its magnitude.
func (v Vec2) WithAngle(r float64) Vec2 {
	m := v.Len()
	return Vec2{X: m * math.Cos(r), Y: m * math.Sin(r)}
}

// Perp is v rotated a quarter turn.
func (v Vec2) Perp() Vec2 {
	return Vec2{X: -v.Y, Y: v.X}
}

func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

func (v Vec2) String() string {
	return fmt.Sprintf("<%g, %g>", v.X, v.Y)
}
