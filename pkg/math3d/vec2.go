package math3d

import "math"

// Vec2 is a texture coordinate (U in X, V in Y).
type Vec2 struct {
	X, Y float64
}

// V2 creates a new Vec2.
func V2(x, y float64) Vec2 {
	return Vec2{x, y}
}

// Zero2 returns the zero vector.
func Zero2() Vec2 {
	return Vec2{}
}

func (a Vec2) Add(b Vec2) Vec2 { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2 { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Scale(s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }
func (a Vec2) Div(s float64) Vec2 { return Vec2{a.X / s, a.Y / s} }
func (a Vec2) Dot(b Vec2) float64 { return a.X*b.X + a.Y*b.Y }

// Cross is the signed area of the parallelogram spanned by a and b. It is
// the determinant of the UV edge matrix in tangent construction.
func (a Vec2) Cross(b Vec2) float64 {
	return a.X*b.Y - a.Y*b.X
}

// Normalize returns a unit vector, or zero for the zero vector.
func (a Vec2) Normalize() Vec2 {
	l := math.Sqrt(a.Dot(a))
	if l == 0 {
		return Vec2{}
	}
	return a.Div(l)
}
