package raycast

import (
	"mesh-raycaster/internal/camera"
	"mesh-raycaster/internal/mathutil"
)

// Intersection describes where a ray crosses a triangle: T is the ray
// parameter, U and V the barycentric weights of the second and third vertex.
type Intersection struct {
	T, U, V float32
	// Normal is the unit geometric normal, following the vertex winding.
	Normal mathutil.Vec3
}

// Intersect runs the Möller–Trumbore test of ray r against triangle
// (v0, v1, v2). Hits at or behind the origin, and hits not strictly nearer
// than best, are rejected. Pass +Inf as best to accept any forward hit.
func Intersect(r camera.Ray, v0, v1, v2 mathutil.Vec3, best float32) (Intersection, bool) {
	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)
	h := r.Direction.Cross(e2)
	a := e1.Dot(h)
	if a > -mathutil.Epsilon && a < mathutil.Epsilon {
		return Intersection{}, false // parallel to the plane
	}

	f := 1 / a
	s := r.Origin.Sub(v0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return Intersection{}, false
	}

	q := s.Cross(e1)
	v := f * r.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return Intersection{}, false
	}

	t := f * e2.Dot(q)
	if t < mathutil.Epsilon || !(t < best) {
		return Intersection{}, false
	}

	return Intersection{
		T:      t,
		U:      u,
		V:      v,
		Normal: e1.Cross(e2).Normalize(),
	}, true
}
