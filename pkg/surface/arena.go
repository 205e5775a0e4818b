package surface

import "github.com/taigrr/facet/pkg/math3d"

// VertexID addresses a position in an Arena.
type VertexID int

// NoVertex is the null vertex handle. Assign-by-vertex operations ignore it.
const NoVertex VertexID = -1

// Arena stores vertex positions shared by the surfaces of a mesh.
// Adjacent surfaces hold the same VertexID for a shared corner, so two
// vertices with identical coordinates stay distinct unless they share a slot.
type Arena struct {
	positions []math3d.Vec3
}

// NewArena creates an arena with room for n vertices.
func NewArena(n int) *Arena {
	return &Arena{positions: make([]math3d.Vec3, 0, n)}
}

// Add appends a position and returns its handle.
func (a *Arena) Add(p math3d.Vec3) VertexID {
	a.positions = append(a.positions, p)
	return VertexID(len(a.positions) - 1)
}

// At returns the position stored at id. It panics if id is not Valid.
func (a *Arena) At(id VertexID) math3d.Vec3 {
	return a.positions[id]
}

// Valid reports whether id addresses a stored position.
func (a *Arena) Valid(id VertexID) bool {
	return id >= 0 && int(id) < len(a.positions)
}

// Len returns the number of stored positions.
func (a *Arena) Len() int {
	return len(a.positions)
}

// Transform moves every stored position by m. Surfaces built on the arena
// must have their normals updated with Surface.TransformNormals afterwards.
func (a *Arena) Transform(m math3d.Mat4) {
	for i := range a.positions {
		a.positions[i] = m.MulVec3(a.positions[i])
	}
}

// Bounds returns the axis-aligned bounds of every stored position.
func (a *Arena) Bounds() (min, max math3d.Vec3) {
	if len(a.positions) == 0 {
		return math3d.Vec3{}, math3d.Vec3{}
	}
	min, max = a.positions[0], a.positions[0]
	for _, p := range a.positions[1:] {
		min = min.Min(p)
		max = max.Max(p)
	}
	return min, max
}
