package surface

import (
	"image/color"
	"math"

	"github.com/taigrr/facet/pkg/math3d"
)

// Color returns the material's diffuse color, or the zero color when no
// material is linked.
func (s *Surface) Color() color.RGBA {
	if s.material != nil {
		return s.material.DiffuseColor()
	}
	return color.RGBA{}
}

// ColorAt returns the diffuse color at point.
//
// Without a texture this is Color(). With one, the texture anchors are
// interpolated barycentrically and the texture is sampled there. Points
// that fail the barycentric check, or coordinates outside [0,1] on a
// texture that does not repeat, fall back to Color().
func (s *Surface) ColorAt(point math3d.Vec3) color.RGBA {
	if s.texture == nil {
		return s.Color()
	}

	w, ok := s.Barycentric(point)
	if !ok {
		return s.Color()
	}

	uv := s.interpolateUV(w.Y, w.Z)
	if !s.texture.Repeats() && (uv.X < 0 || uv.X > 1 || uv.Y < 0 || uv.Y > 1) {
		return s.Color()
	}
	return s.texture.Sample(uv.X, uv.Y)
}

// ColorAtXYZ is ColorAt for raw coordinates.
func (s *Surface) ColorAtXYZ(x, y, z float64) color.RGBA {
	return s.ColorAt(math3d.V3(x, y, z))
}

// interpolateUV blends the texture anchors with the two independent
// barycentric weights β and γ.
func (s *Surface) interpolateUV(beta, gamma float64) math3d.Vec2 {
	a := s.anchors
	return a[0].
		Add(a[1].Sub(a[0]).Scale(beta)).
		Add(a[2].Sub(a[0]).Scale(gamma))
}

// NormalAt returns the shading normal at point.
//
// The vertex normals are interpolated barycentrically. If a normal map is
// linked, its sample at the interpolated texture coordinate is read as a
// tangent-space normal and carried into world space. Points that fail the
// barycentric check get the flat face normal.
func (s *Surface) NormalAt(point math3d.Vec3) math3d.Vec3 {
	w, ok := s.Barycentric(point)
	if !ok {
		return s.Normal()
	}
	beta, gamma := w.Y, w.Z

	n := s.normals
	normal := n[0].
		Add(n[1].Sub(n[0]).Scale(beta)).
		Add(n[2].Sub(n[0]).Scale(gamma)).
		Normalize()
	if normal.LenSq() == 0 {
		// Opposing vertex normals cancelled out.
		return s.Normal()
	}

	if s.normalMap == nil {
		return normal
	}

	basis, ok := s.tangentBasis(normal)
	if !ok {
		return normal
	}

	uv := s.interpolateUV(beta, gamma)
	mapped := decodeNormal(s.normalMap.Sample(uv.X, uv.Y))

	out := basis.MulVec3(mapped).Normalize()
	if out.LenSq() == 0 {
		return normal
	}
	return out
}

// tangentBasis returns the matrix carrying tangent-space vectors to world
// space for a point whose interpolated normal is normal. Its columns start
// as (tangent, bitangent, normal); the inverse-transpose of that matrix is
// returned because the basis need not be orthonormal and it transforms
// normals. ok is false when the texture anchors span no area.
func (s *Surface) tangentBasis(normal math3d.Vec3) (math3d.Mat3, bool) {
	p0, p1, p2 := s.points()
	e1 := p1.Sub(p0)
	e2 := p2.Sub(p0)

	duv1 := s.anchors[1].Sub(s.anchors[0])
	duv2 := s.anchors[2].Sub(s.anchors[0])

	det := duv1.Cross(duv2)
	if math.Abs(det) < math3d.Epsilon {
		return math3d.Mat3{}, false
	}
	r := 1.0 / det

	tangent := e1.Scale(duv2.Y).Sub(e2.Scale(duv1.Y)).Scale(r).Normalize()
	bitangent := tangent.Cross(normal).Normalize()
	if tangent.LenSq() == 0 || bitangent.LenSq() == 0 {
		return math3d.Mat3{}, false
	}

	basis := math3d.Mat3FromColumns(tangent, bitangent, normal)
	return basis.InverseTranspose(), true
}

// decodeNormal maps a normal-map texel from [0,1] color range to a unit
// vector in [-1,1].
func decodeNormal(c color.RGBA) math3d.Vec3 {
	return math3d.V3(
		float64(c.R)/255*2-1,
		float64(c.G)/255*2-1,
		float64(c.B)/255*2-1,
	).Normalize()
}

// TransformNormals carries the vertex normals through the 3x3 placement
// transform m of the owning object. Normals go through the inverse-transpose
// of m and are renormalized. The owner must call this whenever its
// placement changes; surfaces do not track it.
func (s *Surface) TransformNormals(m math3d.Mat3) {
	it := m.InverseTranspose()
	for i := range s.normals {
		s.normals[i] = it.MulVec3(s.normals[i]).Normalize()
	}
}
