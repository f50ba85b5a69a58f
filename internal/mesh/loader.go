package mesh

import (
	"fmt"

	"github.com/fogleman/fauxgl"

	"mesh-raycaster/internal/mathutil"
)

// Load reads an OBJ, STL, PLY or 3DS file. Missing vertex normals are
// replaced with the face normal.
func Load(path string) (*Mesh, error) {
	src, err := fauxgl.LoadMesh(path)
	if err != nil {
		return nil, fmt.Errorf("mesh: load %s: %w", path, err)
	}
	if len(src.Triangles) == 0 {
		return nil, fmt.Errorf("mesh: %s has no triangles", path)
	}
	return fromFauxGL(src), nil
}

func fromFauxGL(src *fauxgl.Mesh) *Mesh {
	tris := make([]Triangle, 0, len(src.Triangles))
	for _, t := range src.Triangles {
		tri := Triangle{convertVertex(t.V1), convertVertex(t.V2), convertVertex(t.V3)}
		face := tri[1].Position.Sub(tri[0].Position).Cross(tri[2].Position.Sub(tri[0].Position))
		if face.Len() > 0 {
			face = face.Normalize()
		}
		for k := range tri {
			if tri[k].Normal == (mathutil.Vec3{}) {
				tri[k].Normal = face
			}
		}
		tris = append(tris, tri)
	}
	return FromTriangles(tris)
}

func convertVertex(v fauxgl.Vertex) Vertex {
	return Vertex{
		Position: vec3(v.Position),
		Normal:   vec3(v.Normal),
		UV:       mathutil.Vec2{float32(v.Texture.X), float32(v.Texture.Y)},
	}
}

func vec3(v fauxgl.Vector) mathutil.Vec3 {
	return mathutil.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}
