// Package surface implements the triangle primitive every facet pixel is
// resolved through: ray intersection, barycentric interpolation of color,
// texture coordinates and normals, and tangent-space normal mapping.
//
// A Surface is built once by a mesh builder, optionally has its per-vertex
// normals, texture anchors and links updated, and is then only queried.
// Queries never fail; degenerate input falls back to the material color or
// the flat face normal. Queries may run concurrently as long as no mutation
// is in flight and each caller owns its own distance bound.
package surface

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/taigrr/facet/pkg/math3d"
)

var (
	// ErrDegenerate is returned when the three vertices span no area.
	ErrDegenerate = errors.New("surface: degenerate triangle")
	// ErrVertexOutOfRange is returned for a handle the arena does not hold.
	ErrVertexOutOfRange = errors.New("surface: vertex out of range")
)

// Material supplies the fallback diffuse color of a surface.
type Material interface {
	DiffuseColor() color.RGBA
}

// Texture supplies position-dependent color. Normal maps are Textures too:
// their RGB channels encode a tangent-space normal.
type Texture interface {
	// Sample returns the color at texture coordinates (u, v).
	Sample(u, v float64) color.RGBA
	// Repeats reports whether coordinates outside [0,1] tile the texture.
	Repeats() bool
}

// Surface is one mesh triangle.
type Surface struct {
	arena   *Arena
	ids     [3]VertexID
	normals [3]math3d.Vec3 // per-vertex shading normals, unit length
	anchors [3]math3d.Vec2 // per-vertex texture coordinates

	material  Material
	texture   Texture
	normalMap Texture
	object    any
}

// New creates the surface (v0, v1, v2) on arena. Every vertex normal starts
// as the flat face normal and every texture anchor as the origin.
// material and texture may be nil.
func New(arena *Arena, v0, v1, v2 VertexID, material Material, texture Texture) (*Surface, error) {
	for _, id := range [3]VertexID{v0, v1, v2} {
		if !arena.Valid(id) {
			return nil, fmt.Errorf("%w: %d (arena holds %d)", ErrVertexOutOfRange, id, arena.Len())
		}
	}

	s := &Surface{
		arena:    arena,
		ids:      [3]VertexID{v0, v1, v2},
		material: material,
		texture:  texture,
	}
	if s.Degenerate() {
		return nil, fmt.Errorf("%w: vertices %d, %d, %d", ErrDegenerate, v0, v1, v2)
	}

	n := s.Normal()
	for i := range s.normals {
		s.normals[i] = n
	}
	return s, nil
}

// Degenerate reports whether the surface currently spans no area. This can
// become true after its arena is transformed by a singular matrix.
func (s *Surface) Degenerate() bool {
	return s.Area() < math3d.MinArea
}

// Area returns the area of the triangle.
func (s *Surface) Area() float64 {
	p0, p1, p2 := s.points()
	return math3d.TriangleArea(p0, p1, p2)
}

// Center returns the centroid of the triangle.
func (s *Surface) Center() math3d.Vec3 {
	p0, p1, p2 := s.points()
	return p0.Add(p1).Add(p2).Div(3)
}

// Normal returns the flat face normal, (v1-v0) × (v2-v0) normalized.
func (s *Surface) Normal() math3d.Vec3 {
	p0, p1, p2 := s.points()
	return p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
}

func (s *Surface) points() (p0, p1, p2 math3d.Vec3) {
	return s.arena.At(s.ids[0]), s.arena.At(s.ids[1]), s.arena.At(s.ids[2])
}

// Vertex returns the position of corner i (0, 1 or 2).
func (s *Surface) Vertex(i int) math3d.Vec3 {
	return s.arena.At(s.ids[i])
}

// Vertices returns the three corner positions.
func (s *Surface) Vertices() [3]math3d.Vec3 {
	p0, p1, p2 := s.points()
	return [3]math3d.Vec3{p0, p1, p2}
}

// VertexIDs returns the arena handles of the three corners.
func (s *Surface) VertexIDs() [3]VertexID {
	return s.ids
}

// Arena returns the arena the surface reads its corners from.
func (s *Surface) Arena() *Arena {
	return s.arena
}

// Material returns the linked material, or nil.
func (s *Surface) Material() Material {
	return s.material
}

// SetMaterial links a material. nil unlinks it.
func (s *Surface) SetMaterial(m Material) {
	s.material = m
}

// Texture returns the linked diffuse texture, or nil.
func (s *Surface) Texture() Texture {
	return s.texture
}

// LinkTexture links (or with nil, unlinks) the diffuse texture.
func (s *Surface) LinkTexture(t Texture) {
	s.texture = t
}

// NormalMap returns the linked normal map, or nil.
func (s *Surface) NormalMap() Texture {
	return s.normalMap
}

// LinkNormalMap links (or with nil, unlinks) the normal map.
func (s *Surface) LinkNormalMap(t Texture) {
	s.normalMap = t
}

// Object returns the owning object set with SetObject.
func (s *Surface) Object() any {
	return s.object
}

// SetObject records the mesh or object this surface belongs to.
func (s *Surface) SetObject(obj any) {
	s.object = obj
}

// TextureAnchors returns the texture coordinates of the three corners.
func (s *Surface) TextureAnchors() [3]math3d.Vec2 {
	return s.anchors
}

// SetTextureAnchors sets the texture coordinates of all three corners.
func (s *Surface) SetTextureAnchors(t0, t1, t2 math3d.Vec2) {
	s.anchors = [3]math3d.Vec2{t0, t1, t2}
}

// VertexNormals returns the shading normals of the three corners.
func (s *Surface) VertexNormals() [3]math3d.Vec3 {
	return s.normals
}

// SetVertexNormals sets the shading normals of all three corners.
// The normals are normalized on assignment; a zero normal becomes the flat
// face normal.
func (s *Surface) SetVertexNormals(n0, n1, n2 math3d.Vec3) {
	s.normals = [3]math3d.Vec3{s.unitNormal(n0), s.unitNormal(n1), s.unitNormal(n2)}
}

func (s *Surface) unitNormal(n math3d.Vec3) math3d.Vec3 {
	if u := n.Normalize(); u.LenSq() > 0 {
		return u
	}
	return s.Normal()
}

// slot returns the corner index holding id, or -1.
func (s *Surface) slot(id VertexID) int {
	if id == NoVertex {
		return -1
	}
	for i, v := range s.ids {
		if v == id {
			return i
		}
	}
	return -1
}

// AssignTextureAnchor sets the texture coordinate of the corner holding
// vertex id. It does nothing if no corner holds id.
func (s *Surface) AssignTextureAnchor(id VertexID, uv math3d.Vec2) {
	if i := s.slot(id); i >= 0 {
		s.anchors[i] = uv
	}
}

// AssignVertexNormal sets the shading normal of the corner holding vertex
// id, normalized like SetVertexNormals. It does nothing if no corner holds id.
func (s *Surface) AssignVertexNormal(id VertexID, n math3d.Vec3) {
	if i := s.slot(id); i >= 0 {
		s.normals[i] = s.unitNormal(n)
	}
}
