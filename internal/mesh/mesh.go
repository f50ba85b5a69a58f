package mesh

import (
	"fmt"
	"math"

	"mesh-raycaster/internal/mathutil"
)

// Vertex is one corner of a triangle as stored in the mesh vertex array.
type Vertex struct {
	Position mathutil.Vec3
	Normal   mathutil.Vec3
	UV       mathutil.Vec2
}

// Triangle holds its three vertices by value.
type Triangle [3]Vertex

// Mesh is an indexed triangle list. Indices[i] names the three vertices of
// triangle i; scan order is index order.
type Mesh struct {
	Vertices []Vertex
	Indices  [][3]int
}

// Len returns the number of triangles.
func (m *Mesh) Len() int {
	return len(m.Indices)
}

// Triangle assembles triangle i from the vertex array.
func (m *Mesh) Triangle(i int) Triangle {
	idx := m.Indices[i]
	return Triangle{m.Vertices[idx[0]], m.Vertices[idx[1]], m.Vertices[idx[2]]}
}

// Validate reports an empty index list or any index outside the vertex array.
func (m *Mesh) Validate() error {
	if len(m.Indices) == 0 {
		return fmt.Errorf("mesh: no triangles")
	}
	n := len(m.Vertices)
	for i, tri := range m.Indices {
		for _, k := range tri {
			if k < 0 || k >= n {
				return fmt.Errorf("mesh: triangle %d references vertex %d of %d", i, k, n)
			}
		}
	}
	return nil
}

// Bounds returns the axis-aligned bounding box of all vertex positions.
func (m *Mesh) Bounds() (min, max mathutil.Vec3) {
	inf := float32(math.Inf(1))
	min = mathutil.Vec3{inf, inf, inf}
	max = mathutil.Vec3{-inf, -inf, -inf}
	for _, v := range m.Vertices {
		for k := 0; k < 3; k++ {
			if v.Position[k] < min[k] {
				min[k] = v.Position[k]
			}
			if v.Position[k] > max[k] {
				max[k] = v.Position[k]
			}
		}
	}
	return min, max
}

// FromTriangles builds an indexed mesh with one vertex per triangle corner.
func FromTriangles(tris []Triangle) *Mesh {
	m := &Mesh{
		Vertices: make([]Vertex, 0, len(tris)*3),
		Indices:  make([][3]int, 0, len(tris)),
	}
	for _, t := range tris {
		base := len(m.Vertices)
		m.Vertices = append(m.Vertices, t[0], t[1], t[2])
		m.Indices = append(m.Indices, [3]int{base, base + 1, base + 2})
	}
	return m
}
