package math3d

import "math"

// Epsilon is the tolerance used for near-zero determinants, sum-to-one
// checks and self-intersection avoidance.
const Epsilon = 1e-6

// MinArea is the smallest triangle area treated as non-degenerate.
const MinArea = 1e-12

// TriangleArea returns the area of the triangle (a, b, c).
func TriangleArea(a, b, c Vec3) float64 {
	return b.Sub(a).Cross(c.Sub(a)).Len() * 0.5
}

// Barycentric returns the weights (α, β, γ) of p with respect to the
// triangle (a, b, c), packed as X, Y, Z.
//
// Each weight is the signed area of the sub-triangle opposite its vertex,
// measured along the face normal and divided by the full area. Points off
// the plane are projected onto it implicitly. ok is false when the triangle
// has no area or a weight is not finite.
func Barycentric(p, a, b, c Vec3) (w Vec3, ok bool) {
	n := b.Sub(a).Cross(c.Sub(a))
	nn := n.LenSq()
	if math.Sqrt(nn)*0.5 < MinArea {
		return Vec3{}, false
	}

	pa := a.Sub(p)
	pb := b.Sub(p)
	pc := c.Sub(p)

	w = Vec3{
		X: n.Dot(pb.Cross(pc)) / nn,
		Y: n.Dot(pc.Cross(pa)) / nn,
		Z: n.Dot(pa.Cross(pb)) / nn,
	}
	if !finite(w.X) || !finite(w.Y) || !finite(w.Z) {
		return Vec3{}, false
	}
	return w, true
}

// SumsToOne reports whether α+β+γ lies within Epsilon of 1.
// NaN weights never pass.
func SumsToOne(w Vec3) bool {
	sum := w.X + w.Y + w.Z
	return sum > 1-Epsilon && sum < 1+Epsilon
}

// Inside reports whether no weight is below -Epsilon, that is, whether the
// point the weights describe lies on the triangle rather than beyond an
// edge. Signed weights always sum to one, so SumsToOne alone cannot tell.
func Inside(w Vec3) bool {
	return w.X >= -Epsilon && w.Y >= -Epsilon && w.Z >= -Epsilon
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
