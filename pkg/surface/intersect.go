package surface

import "github.com/taigrr/facet/pkg/math3d"

// Intersect tests ray against the triangle using the Möller-Trumbore
// algorithm. A hit counts only if its distance t satisfies
// Epsilon < t < *dist; on such a hit *dist is set to t and Intersect
// returns true. Otherwise *dist is left untouched.
//
// Passing the same bound to every surface of a scene yields the nearest hit.
// Concurrent callers must each own their bound.
func (s *Surface) Intersect(ray math3d.Ray, dist *float64) bool {
	p0, p1, p2 := s.points()
	e1 := p1.Sub(p0)
	e2 := p2.Sub(p0)

	p := ray.Direction.Cross(e2)
	det := e1.Dot(p)

	// Parallel to the plane. Zero-area triangles always land here too.
	if det > -math3d.Epsilon && det < math3d.Epsilon {
		return false
	}
	invDet := 1.0 / det

	tvec := ray.Origin.Sub(p0)
	u := tvec.Dot(p) * invDet
	if u < 0 || u > 1 {
		return false
	}

	q := tvec.Cross(e1)
	v := ray.Direction.Dot(q) * invDet
	if v < 0 || u+v > 1 {
		return false
	}

	t := e2.Dot(q) * invDet
	if t > math3d.Epsilon && t < *dist {
		*dist = t
		return true
	}
	return false
}

// Contains reports whether point lies inside the triangle. The three
// sub-triangle areas around point must add up to the full area within
// Epsilon. point is assumed to lie on the triangle's plane.
func (s *Surface) Contains(point math3d.Vec3) bool {
	area := s.Area()
	if area < math3d.MinArea {
		return false
	}
	p0, p1, p2 := s.points()

	alpha := math3d.TriangleArea(point, p1, p2) / area
	beta := math3d.TriangleArea(point, p0, p2) / area
	gamma := math3d.TriangleArea(point, p0, p1) / area

	return math3d.SumsToOne(math3d.V3(alpha, beta, gamma))
}

// Barycentric returns the weights (α, β, γ) of point, packed as X, Y, Z.
// ok is false when the surface is degenerate, the weights fail the
// sum-to-one check, or point lies beyond an edge.
func (s *Surface) Barycentric(point math3d.Vec3) (w math3d.Vec3, ok bool) {
	p0, p1, p2 := s.points()
	w, ok = math3d.Barycentric(point, p0, p1, p2)
	if !ok || !math3d.SumsToOne(w) || !math3d.Inside(w) {
		return math3d.Vec3{}, false
	}
	return w, true
}
