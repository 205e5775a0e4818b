package surface

import (
	"image/color"
	"math"
	"testing"

	"github.com/taigrr/facet/pkg/math3d"
)

func TestColorAtFallbacks(t *testing.T) {
	blue := color.RGBA{0, 0, 255, 255}
	// Anchors stretch u to [0,3], so (0.5, 0.5, 0) maps to UV (1.5, 0.5).
	stretched := [3]math3d.Vec2{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 0, Y: 1}}
	unit := [3]math3d.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}

	tests := []struct {
		name     string
		material Material
		texture  Texture
		anchors  [3]math3d.Vec2
		point    math3d.Vec3
		want     color.RGBA
	}{
		{"no material no texture", nil, nil, unit, math3d.V3(0.25, 0.25, 0), color.RGBA{}},
		{"material only", testMaterial{red}, nil, unit, math3d.V3(0.25, 0.25, 0), red},
		{"texture in range", testMaterial{red}, solidTexture{c: blue}, unit, math3d.V3(0.25, 0.25, 0), blue},
		{"clamped out of range", testMaterial{red}, solidTexture{c: blue}, stretched, math3d.V3(0.5, 0.5, 0), red},
		{"clamped out of range no material", nil, solidTexture{c: blue}, stretched, math3d.V3(0.5, 0.5, 0), color.RGBA{}},
		{"repeating out of range", testMaterial{red}, solidTexture{c: blue, repeat: true}, stretched, math3d.V3(0.5, 0.5, 0), blue},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			arena := NewArena(3)
			s, err := New(arena,
				arena.Add(math3d.V3(0, 0, 0)),
				arena.Add(math3d.V3(1, 0, 0)),
				arena.Add(math3d.V3(0, 1, 0)),
				tc.material, tc.texture)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			s.SetTextureAnchors(tc.anchors[0], tc.anchors[1], tc.anchors[2])

			if got := s.ColorAt(tc.point); got != tc.want {
				t.Errorf("ColorAt(%v) = %v, want %v", tc.point, got, tc.want)
			}
			p := tc.point
			if got := s.ColorAtXYZ(p.X, p.Y, p.Z); got != s.ColorAt(p) {
				t.Errorf("ColorAtXYZ = %v, want %v", got, s.ColorAt(p))
			}
		})
	}
}

func TestOutsidePointFallsBack(t *testing.T) {
	// (2, 2, 0) is coplanar but beyond the v1-v2 edge.
	outside := math3d.V3(2, 2, 0)
	arena := NewArena(3)
	s, err := New(arena,
		arena.Add(math3d.V3(0, 0, 0)),
		arena.Add(math3d.V3(1, 0, 0)),
		arena.Add(math3d.V3(0, 1, 0)),
		testMaterial{red}, solidTexture{c: color.RGBA{0, 0, 255, 255}, repeat: true})
	if err != nil {
		t.Fatal(err)
	}
	s.SetTextureAnchors(math3d.V2(0, 0), math3d.V2(1, 0), math3d.V2(0, 1))
	s.SetVertexNormals(math3d.V3(0, 0, 1), math3d.V3(1, 0, 1), math3d.V3(0, 1, 1))

	if s.Contains(outside) {
		t.Fatal("Contains(outside) = true")
	}
	if w, ok := s.Barycentric(outside); ok {
		t.Errorf("Barycentric(outside) = %v, ok, want failure", w)
	}
	if got := s.ColorAt(outside); got != red {
		t.Errorf("ColorAt(outside) = %v, want material %v", got, red)
	}
	if got := s.NormalAt(outside); got != s.Normal() {
		t.Errorf("NormalAt(outside) = %v, want flat %v", got, s.Normal())
	}
}

func TestColorAtInterpolatesAnchors(t *testing.T) {
	s := newTestSurface(t, math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0))
	s.LinkTexture(uvTexture{})
	s.SetTextureAnchors(math3d.V2(0.2, 0.4), math3d.V2(0.6, 0.4), math3d.V2(0.2, 0.8))

	tests := []struct {
		name  string
		point math3d.Vec3
		u, v  uint8
	}{
		{"v0", math3d.V3(0, 0, 0), 20, 40},
		{"v1", math3d.V3(1, 0, 0), 60, 40},
		{"v2", math3d.V3(0, 1, 0), 20, 80},
		{"edge v1-v2", math3d.V3(0.5, 0.5, 0), 40, 60},
		{"interior", math3d.V3(0.25, 0.5, 0), 30, 60},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := s.ColorAt(tc.point)
			if got.R != tc.u || got.G != tc.v {
				t.Errorf("sampled UV = (%d, %d)/100, want (%d, %d)/100", got.R, got.G, tc.u, tc.v)
			}
		})
	}
}

func TestNormalAtFlat(t *testing.T) {
	s := newTestSurface(t, math3d.V3(1, 0, 2), math3d.V3(4, 1, 0), math3d.V3(0, 3, 1))
	want := s.Normal()

	for _, p := range []math3d.Vec3{s.Vertex(0), s.Vertex(1), s.Vertex(2), s.Center()} {
		if got := s.NormalAt(p); !got.Near(want, 1e-12) {
			t.Errorf("NormalAt(%v) = %v, want flat %v", p, got, want)
		}
	}
}

func TestNormalAtInterpolates(t *testing.T) {
	s := newTestSurface(t, math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0))
	n0 := math3d.V3(0, 0, 1)
	n1 := math3d.V3(1, 0, 1).Normalize()
	n2 := math3d.V3(0, 1, 1).Normalize()
	s.SetVertexNormals(n0, n1, n2)

	tests := []struct {
		name  string
		point math3d.Vec3
		want  math3d.Vec3
	}{
		{"v0", math3d.V3(0, 0, 0), n0},
		{"v1", math3d.V3(1, 0, 0), n1},
		{"v2", math3d.V3(0, 1, 0), n2},
		{"edge v0-v1", math3d.V3(0.5, 0, 0), n0.Add(n1).Normalize()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := s.NormalAt(tc.point)
			if !got.Near(tc.want, 1e-9) {
				t.Errorf("NormalAt(%v) = %v, want %v", tc.point, got, tc.want)
			}
			if math.Abs(got.Len()-1) > 1e-9 {
				t.Errorf("NormalAt(%v) length = %v, want 1", tc.point, got.Len())
			}
		})
	}
}

func TestNormalAtCancellingNormals(t *testing.T) {
	s := newTestSurface(t, math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0))
	s.SetVertexNormals(math3d.V3(0, 0, 1), math3d.V3(0, 0, -1), math3d.V3(0, 0, 1))

	if got := s.NormalAt(math3d.V3(0.5, 0, 0)); got != s.Normal() {
		t.Errorf("NormalAt with cancelling normals = %v, want flat %v", got, s.Normal())
	}
}

func TestNormalMapFlatTexel(t *testing.T) {
	// A tilted triangle so the tangent basis is not axis aligned.
	s := newTestSurface(t, math3d.V3(0, 0, 0), math3d.V3(2, 1, 1), math3d.V3(-1, 2, 0.5))
	s.SetTextureAnchors(math3d.V2(0, 0), math3d.V2(1, 0), math3d.V2(0, 1))
	s.LinkNormalMap(solidTexture{c: color.RGBA{128, 128, 255, 255}})

	got := s.NormalAt(s.Center())
	if !got.Near(s.Normal(), 1e-2) {
		t.Errorf("NormalAt with flat normal map = %v, want close to %v", got, s.Normal())
	}
	if math.Abs(got.Len()-1) > 1e-9 {
		t.Errorf("mapped normal length = %v, want 1", got.Len())
	}
}

func TestNormalMapTangentTexel(t *testing.T) {
	s := newTestSurface(t, math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0))
	s.SetTextureAnchors(math3d.V2(0, 0), math3d.V2(1, 0), math3d.V2(0, 1))
	// Full +X in tangent space: the normal tilts onto the U direction.
	s.LinkNormalMap(solidTexture{c: color.RGBA{255, 128, 128, 255}})

	got := s.NormalAt(math3d.V3(0.25, 0.25, 0))
	if want := math3d.V3(1, 0, 0); !got.Near(want, 1e-2) {
		t.Errorf("NormalAt = %v, want close to %v", got, want)
	}
}

func TestNormalMapDegenerateAnchors(t *testing.T) {
	s := newTestSurface(t, math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0))
	n1 := math3d.V3(1, 0, 1).Normalize()
	s.SetVertexNormals(math3d.V3(0, 0, 1), n1, math3d.V3(0, 0, 1))
	// Anchors left at the origin span no UV area.
	s.LinkNormalMap(solidTexture{c: color.RGBA{255, 0, 0, 255}})

	if got := s.NormalAt(math3d.V3(1, 0, 0)); !got.Near(n1, 1e-9) {
		t.Errorf("NormalAt = %v, want interpolated %v", got, n1)
	}
}

func TestNormalMapFollowsPlacement(t *testing.T) {
	arena := NewArena(3)
	s, err := New(arena,
		arena.Add(math3d.V3(0, 0, 0)),
		arena.Add(math3d.V3(1, 0, 0)),
		arena.Add(math3d.V3(0, 1, 0)),
		nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	s.SetTextureAnchors(math3d.V2(0, 0), math3d.V2(1, 0), math3d.V2(0, 1))
	s.LinkNormalMap(solidTexture{c: color.RGBA{128, 128, 255, 255}})

	m := math3d.Scale(math3d.V3(3, 1, 0.5)).Mul(math3d.RotateX(math.Pi / 3))
	arena.Transform(m)
	s.TransformNormals(math3d.Mat3FromMat4(m))

	if got := s.NormalAt(s.Center()); !got.Near(s.Normal(), 1e-2) {
		t.Errorf("NormalAt after placement = %v, want close to %v", got, s.Normal())
	}
}

func TestTransformNormalsRotation(t *testing.T) {
	s := newTestSurface(t, math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0))
	before := [3]math3d.Vec3{
		math3d.V3(0, 0, 1),
		math3d.V3(1, 0, 1).Normalize(),
		math3d.V3(0, 1, 2).Normalize(),
	}
	s.SetVertexNormals(before[0], before[1], before[2])

	rot := math3d.Rotate(math3d.V3(1, 1, 0).Normalize(), 0.7)
	s.TransformNormals(math3d.Mat3FromMat4(rot))

	for i, n := range s.VertexNormals() {
		want := rot.MulVec3Dir(before[i])
		if !n.Near(want, 1e-9) {
			t.Errorf("normal %d = %v, want %v", i, n, want)
		}
	}
}

func TestTransformNormalsNonUniformScale(t *testing.T) {
	// Flat normal (1, 1, 0)/√2.
	arena := NewArena(3)
	s, err := New(arena,
		arena.Add(math3d.V3(1, 0, 0)),
		arena.Add(math3d.V3(0, 1, 0)),
		arena.Add(math3d.V3(0, 1, 1)),
		nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	n := math3d.V3(1, 1, 0).Normalize()
	if !s.Normal().Near(n, 1e-12) {
		t.Fatalf("setup: Normal() = %v, want %v", s.Normal(), n)
	}

	m := math3d.Scale(math3d.V3(2, 1, 1))
	arena.Transform(m)
	s.TransformNormals(math3d.Mat3FromMat4(m))

	want := math3d.V3(1, 2, 0).Normalize()
	naive := m.MulVec3Dir(n).Normalize()

	for i, got := range s.VertexNormals() {
		if !got.Near(want, 1e-9) {
			t.Errorf("normal %d = %v, want %v", i, got, want)
		}
		if got.Near(naive, 1e-3) {
			t.Errorf("normal %d matches the forward-transformed normal %v", i, naive)
		}
		if !got.Near(s.Normal(), 1e-9) {
			t.Errorf("normal %d = %v, not perpendicular to transformed face %v", i, got, s.Normal())
		}
	}
}

func BenchmarkNormalAt(b *testing.B) {
	arena := NewArena(3)
	s, _ := New(arena,
		arena.Add(math3d.V3(0, 0, 0)), arena.Add(math3d.V3(1, 0, 0)), arena.Add(math3d.V3(0, 1, 0)),
		nil, nil)
	s.SetVertexNormals(math3d.V3(0, 0, 1), math3d.V3(1, 0, 1), math3d.V3(0, 1, 1))
	p := math3d.V3(0.25, 0.25, 0)

	for b.Loop() {
		s.NormalAt(p)
	}
}

func BenchmarkNormalAtMapped(b *testing.B) {
	arena := NewArena(3)
	s, _ := New(arena,
		arena.Add(math3d.V3(0, 0, 0)), arena.Add(math3d.V3(1, 0, 0)), arena.Add(math3d.V3(0, 1, 0)),
		nil, nil)
	s.SetTextureAnchors(math3d.V2(0, 0), math3d.V2(1, 0), math3d.V2(0, 1))
	s.LinkNormalMap(solidTexture{c: color.RGBA{128, 128, 255, 255}})
	p := math3d.V3(0.25, 0.25, 0)

	for b.Loop() {
		s.NormalAt(p)
	}
}

func BenchmarkColorAt(b *testing.B) {
	arena := NewArena(3)
	s, _ := New(arena,
		arena.Add(math3d.V3(0, 0, 0)), arena.Add(math3d.V3(1, 0, 0)), arena.Add(math3d.V3(0, 1, 0)),
		testMaterial{red}, uvTexture{})
	s.SetTextureAnchors(math3d.V2(0, 0), math3d.V2(1, 0), math3d.V2(0, 1))
	p := math3d.V3(0.25, 0.25, 0)

	for b.Loop() {
		s.ColorAt(p)
	}
}
