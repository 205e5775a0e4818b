package math3d

import (
	"math"
	"testing"
)

func mat3Near(a, b Mat3, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

func TestMat3GetSet(t *testing.T) {
	m := Mat3FromRows(V3(1, 2, 3), V3(4, 5, 6), V3(7, 8, 9))

	if m.Get(0, 1) != 2 {
		t.Errorf("Get(0, 1) = %v, want 2", m.Get(0, 1))
	}
	if m.Get(2, 0) != 7 {
		t.Errorf("Get(2, 0) = %v, want 7", m.Get(2, 0))
	}

	m.Set(1, 2, 42)
	if m.Get(1, 2) != 42 {
		t.Errorf("after Set, Get(1, 2) = %v, want 42", m.Get(1, 2))
	}
}

func TestMat3FromColumns(t *testing.T) {
	m := Mat3FromColumns(V3(1, 0, 0), V3(0, 2, 0), V3(0, 0, 3))
	got := m.MulVec3(V3(1, 1, 1))
	if !got.Near(V3(1, 2, 3), 1e-12) {
		t.Errorf("MulVec3 = %v, want (1, 2, 3)", got)
	}

	if m.Column(1) != V3(0, 2, 0) {
		t.Errorf("Column(1) = %v, want (0, 2, 0)", m.Column(1))
	}
}

func TestMat3FromMat4(t *testing.T) {
	m4 := Translate(V3(5, 6, 7)).Mul(Scale(V3(2, 3, 4)))
	m3 := Mat3FromMat4(m4)

	// Translation must be dropped.
	got := m3.MulVec3(V3(1, 1, 1))
	if !got.Near(V3(2, 3, 4), 1e-12) {
		t.Errorf("MulVec3 = %v, want (2, 3, 4)", got)
	}
}

func TestMat3Inverse(t *testing.T) {
	tests := []struct {
		name string
		m    Mat3
	}{
		{"identity", Identity3()},
		{"rotation", Mat3FromMat4(Rotate(V3(1, 2, 3), 0.7))},
		{"non-uniform scale", Mat3FromMat4(Scale(V3(2, 0.5, 4)))},
		{"shear", Mat3FromRows(V3(1, 0.5, 0), V3(0, 1, 0), V3(0.25, 0, 1))},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.m.Mul(tc.m.Inverse())
			if !mat3Near(got, Identity3(), 1e-9) {
				t.Errorf("m * m^-1 = %v, want identity", got)
			}
		})
	}
}

func TestMat3InverseSingular(t *testing.T) {
	m := Mat3FromRows(V3(1, 2, 3), V3(2, 4, 6), V3(0, 0, 1))
	if m.Determinant() != 0 {
		t.Fatalf("Determinant = %v, want 0", m.Determinant())
	}
	if m.Inverse() != Identity3() {
		t.Errorf("singular Inverse = %v, want identity", m.Inverse())
	}
}

func TestMat3InverseTransposeRotation(t *testing.T) {
	// For orthonormal matrices the inverse-transpose is the matrix itself.
	r := Mat3FromMat4(RotateZ(math.Pi / 5).Mul(RotateX(0.3)))
	if !mat3Near(r.InverseTranspose(), r, 1e-9) {
		t.Errorf("InverseTranspose of rotation = %v, want %v", r.InverseTranspose(), r)
	}
}

func TestMat4NormalMatrix(t *testing.T) {
	m := Translate(V3(10, 0, 0)).Mul(Scale(V3(2, 1, 1)))
	n := m.NormalMatrix()

	// Scaling X by 2 scales normal X by 1/2.
	got := n.MulVec3(V3(1, 1, 0))
	if !got.Near(V3(0.5, 1, 0), 1e-12) {
		t.Errorf("NormalMatrix * (1,1,0) = %v, want (0.5, 1, 0)", got)
	}
}
