package math3d

import "math"

// Mat4 is an affine placement transform, stored column-major like Mat3:
//
//	| L  t |   L = Linear(), the 3x3 rotation/scale/shear part
//	| 0  1 |   t = Translation()
//
// Every constructor in this package keeps the bottom row at (0, 0, 0, 1),
// so points never need a perspective divide. Surfaces only see L, through
// Mat3FromMat4 and NormalMatrix.
type Mat4 [16]float64

// Affine builds the transform p -> l*p + t.
func Affine(l Mat3, t Vec3) Mat4 {
	return Mat4{
		l[0], l[1], l[2], 0,
		l[3], l[4], l[5], 0,
		l[6], l[7], l[8], 0,
		t.X, t.Y, t.Z, 1,
	}
}

// Identity returns the transform that leaves every point in place.
func Identity() Mat4 {
	return Affine(Identity3(), Zero3())
}

// Translate moves every point by v.
func Translate(v Vec3) Mat4 {
	return Affine(Identity3(), v)
}

// Scale scales each axis independently. Non-uniform scales are the case
// where normals need NormalMatrix instead of Linear.
func Scale(v Vec3) Mat4 {
	return Affine(Mat3{v.X, 0, 0, 0, v.Y, 0, 0, 0, v.Z}, Zero3())
}

// ScaleUniform scales all three axes by s.
func ScaleUniform(s float64) Mat4 {
	return Scale(V3(s, s, s))
}

// Rotate turns counter-clockwise by angle radians about axis, looking down
// the axis toward the origin. axis need not be unit length.
func Rotate(axis Vec3, angle float64) Mat4 {
	k := axis.Normalize()
	c, s := math.Cos(angle), math.Sin(angle)

	// Rodrigues: each column is the image of a basis vector e.
	col := func(e Vec3) Vec3 {
		return e.Scale(c).
			Add(k.Cross(e).Scale(s)).
			Add(k.Scale(k.Dot(e) * (1 - c)))
	}
	l := Mat3FromColumns(col(V3(1, 0, 0)), col(V3(0, 1, 0)), col(V3(0, 0, 1)))
	return Affine(l, Zero3())
}

// RotateX rotates about the X axis.
func RotateX(angle float64) Mat4 { return Rotate(V3(1, 0, 0), angle) }

// RotateY rotates about the Y axis.
func RotateY(angle float64) Mat4 { return Rotate(V3(0, 1, 0), angle) }

// RotateZ rotates about the Z axis.
func RotateZ(angle float64) Mat4 { return Rotate(V3(0, 0, 1), angle) }

// Linear returns the 3x3 part without translation.
func (m Mat4) Linear() Mat3 {
	return Mat3FromMat4(m)
}

// Translation returns where the origin lands.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}

// Mul composes a after b: the result applies b first.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	la := a.Linear()
	return Affine(la.Mul(b.Linear()), la.MulVec3(b.Translation()).Add(a.Translation()))
}

// MulVec3 transforms a point.
func (m Mat4) MulVec3(p Vec3) Vec3 {
	return m.Linear().MulVec3(p).Add(m.Translation())
}

// MulVec3Dir transforms a direction, ignoring translation. Do not use it
// for normals under non-uniform scale.
func (m Mat4) MulVec3Dir(v Vec3) Vec3 {
	return m.Linear().MulVec3(v)
}

// Inverse undoes m. A singular linear part has no inverse, and Identity is
// returned for it.
func (m Mat4) Inverse() Mat4 {
	l := m.Linear()
	if l.Determinant() == 0 {
		return Identity()
	}
	inv := l.Inverse()
	return Affine(inv, inv.MulVec3(m.Translation()).Negate())
}

// NormalMatrix returns the inverse-transpose of the linear part, the matrix
// that keeps normals perpendicular to transformed surfaces.
func (m Mat4) NormalMatrix() Mat3 {
	return m.Linear().InverseTranspose()
}
