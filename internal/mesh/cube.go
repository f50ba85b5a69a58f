package mesh

import "mesh-raycaster/internal/mathutil"

// Interleaved position(3) normal(3) uv(2), outward-wound.
var cubeVertices = [24][8]float32{
	{-1, 1, -1, 0, 1, 0, 0, 1},
	{1, 1, 1, 0, 1, 0, 1, 0},
	{1, 1, -1, 0, 1, 0, 1, 1},
	{1, 1, 1, 0, 0, 1, 1, 1},
	{-1, -1, 1, 0, 0, 1, 0, 0},
	{1, -1, 1, 0, 0, 1, 1, 0},
	{-1, 1, 1, -1, 0, 0, 0, 1},
	{-1, -1, -1, -1, 0, 0, 1, 0},
	{-1, -1, 1, -1, 0, 0, 0, 0},
	{1, -1, -1, 0, -1, 0, 1, 1},
	{-1, -1, 1, 0, -1, 0, 0, 0},
	{-1, -1, -1, 0, -1, 0, 0, 1},
	{1, 1, -1, 1, 0, 0, 1, 1},
	{1, -1, 1, 1, 0, 0, 0, 0},
	{1, -1, -1, 1, 0, 0, 1, 0},
	{-1, 1, -1, 0, 0, -1, 0, 1},
	{1, -1, -1, 0, 0, -1, 1, 0},
	{-1, -1, -1, 0, 0, -1, 0, 0},
	{-1, 1, 1, 0, 1, 0, 0, 0},
	{-1, 1, 1, 0, 0, 1, 0, 1},
	{-1, 1, -1, -1, 0, 0, 1, 1},
	{1, -1, 1, 0, -1, 0, 1, 0},
	{1, 1, 1, 1, 0, 0, 0, 1},
	{1, 1, -1, 0, 0, -1, 1, 1},
}

var cubeIndices = [12][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, {9, 10, 11}, {12, 13, 14}, {15, 16, 17},
	{0, 18, 1}, {3, 19, 4}, {6, 20, 7}, {9, 21, 10}, {12, 22, 13}, {15, 23, 16},
}

// Cube returns the 2×2×2 cube centred on the origin: 24 vertices, 12 triangles.
func Cube() *Mesh {
	m := &Mesh{
		Vertices: make([]Vertex, len(cubeVertices)),
		Indices:  make([][3]int, len(cubeIndices)),
	}
	for i, c := range cubeVertices {
		m.Vertices[i] = Vertex{
			Position: mathutil.Vec3{c[0], c[1], c[2]},
			Normal:   mathutil.Vec3{c[3], c[4], c[5]},
			UV:       mathutil.Vec2{c[6], c[7]},
		}
	}
	copy(m.Indices, cubeIndices[:])
	return m
}
