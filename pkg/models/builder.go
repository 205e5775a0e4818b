package models

import (
	"errors"
	"fmt"
	"image"

	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/render"
	"github.com/taigrr/facet/pkg/surface"
)

// Builder turns a Mesh into surfaces.
type Builder struct {
	// Smooth assigns the mesh's vertex normals to each corner. Otherwise
	// every surface keeps its flat face normal.
	Smooth bool

	// Texture and NormalMap, when set, are linked to every surface in place
	// of the maps carried by the mesh materials.
	Texture   surface.Texture
	NormalMap surface.Texture

	// Clamp disables tiling for textures decoded from mesh materials.
	Clamp bool

	// Filter is the sampling filter for textures decoded from mesh materials.
	Filter render.FilterMode
}

// NewBuilder creates a builder that uses smooth normals.
func NewBuilder() *Builder {
	return &Builder{Smooth: true}
}

// SurfaceSet is a built mesh: surfaces sharing one vertex arena.
type SurfaceSet struct {
	Name     string
	Arena    *surface.Arena
	Surfaces []*surface.Surface
	Skipped  int // Faces dropped as degenerate
}

// materialLinks holds what a mesh material contributes to its surfaces.
type materialLinks struct {
	material  surface.Material
	texture   surface.Texture
	normalMap surface.Texture
}

// Build creates one surface per face of m. Every mesh vertex gets one arena
// slot, so faces sharing a vertex share its position. Texture coordinates
// and normals are assigned through the shared slot. Faces without a
// material are opaque white.
func (b *Builder) Build(m *Mesh) (*SurfaceSet, error) {
	if len(m.Faces) == 0 {
		return nil, fmt.Errorf("%s: %w", m.Name, ErrNoGeometry)
	}

	set := &SurfaceSet{
		Name:     m.Name,
		Arena:    surface.NewArena(len(m.Vertices)),
		Surfaces: make([]*surface.Surface, 0, len(m.Faces)),
	}

	ids := make([]surface.VertexID, len(m.Vertices))
	for i, v := range m.Vertices {
		ids[i] = set.Arena.Add(v.Position)
	}

	links := make([]materialLinks, len(m.Materials))
	for i := range m.Materials {
		links[i] = b.linksFor(&m.Materials[i])
	}
	fallback := materialLinks{
		material:  DefaultMaterial(""),
		texture:   b.Texture,
		normalMap: b.NormalMap,
	}

	for fi, f := range m.Faces {
		l := fallback
		if f.Material >= 0 && f.Material < len(links) {
			l = links[f.Material]
		}

		s, err := surface.New(set.Arena, ids[f.V[0]], ids[f.V[1]], ids[f.V[2]], l.material, l.texture)
		if errors.Is(err, surface.ErrDegenerate) {
			set.Skipped++
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("face %d: %w", fi, err)
		}

		for _, vi := range f.V {
			v := m.Vertices[vi]
			s.AssignTextureAnchor(ids[vi], v.UV)
			if b.Smooth && v.Normal.LenSq() > 0 {
				s.AssignVertexNormal(ids[vi], v.Normal)
			}
		}
		s.LinkNormalMap(l.normalMap)
		s.SetObject(set)

		set.Surfaces = append(set.Surfaces, s)
	}

	if len(set.Surfaces) == 0 {
		return nil, fmt.Errorf("%s: all %d faces degenerate: %w", m.Name, set.Skipped, ErrNoGeometry)
	}
	return set, nil
}

// linksFor converts a mesh material, decoding its images into textures
// unless the builder overrides them.
func (b *Builder) linksFor(mat *Material) materialLinks {
	l := materialLinks{
		material:  *mat,
		texture:   b.Texture,
		normalMap: b.NormalMap,
	}
	if l.texture == nil && mat.BaseMap != nil {
		l.texture = b.decode(mat.BaseMap)
	}
	if l.normalMap == nil && mat.NormalMap != nil {
		l.normalMap = b.decode(mat.NormalMap)
	}
	return l
}

func (b *Builder) decode(img image.Image) *render.Texture {
	tex := render.TextureFromImage(img)
	tex.Filter = b.Filter
	if b.Clamp {
		tex.Wrap = render.WrapClamp
	}
	return tex
}

// Transform moves the set by m: arena positions go through m and every
// surface's normals through its inverse-transpose.
func (s *SurfaceSet) Transform(m math3d.Mat4) {
	s.Arena.Transform(m)
	normal := math3d.Mat3FromMat4(m)
	for _, surf := range s.Surfaces {
		surf.TransformNormals(normal)
	}
}

// Bounds returns the axis-aligned bounds of the set's vertices.
func (s *SurfaceSet) Bounds() render.AABB {
	return render.BoundsOf(s.Surfaces)
}

// Fit centers the set on the origin and scales it uniformly so its largest
// dimension equals size.
func (s *SurfaceSet) Fit(size float64) {
	b := s.Bounds()
	if b.IsEmpty() {
		return
	}
	extent := b.Size().MaxComponent()
	if extent <= 0 {
		return
	}
	s.Transform(math3d.ScaleUniform(size / extent).Mul(math3d.Translate(b.Center().Negate())))
}

// Area returns the summed area of all surfaces.
func (s *SurfaceSet) Area() float64 {
	var area float64
	for _, surf := range s.Surfaces {
		area += surf.Area()
	}
	return area
}
