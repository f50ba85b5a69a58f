// Package raycast implements the per-pixel ray-casting kernel: build the
// camera ray for one pixel, find the nearest triangle it hits, and write the
// ray, the hit record and a shaded color into the frame buffers.
package raycast

import (
	"fmt"

	"mesh-raycaster/internal/camera"
	"mesh-raycaster/internal/mesh"
)

// Caster runs the kernel with a configurable shader. The zero value shades
// with Flat and paints misses opaque black. A Caster is safe for concurrent
// use on disjoint pixels.
type Caster struct {
	Shader Shader

	// Transparent gives missed pixels alpha 0 so the frame can be
	// composited over another background.
	Transparent bool
}

// CastPixel runs the kernel for pixel (x, y) with the Flat shader.
func CastPixel(cam *camera.Camera, m *mesh.Mesh, width, height, x, y int, out Buffers) error {
	return Caster{}.Cast(cam, m, width, height, x, y, out)
}

// Cast runs the kernel for pixel (x, y) of a width×height surface. It only
// writes the slots of (x, y), and only after the scan succeeds: on error
// the ray, hit and color slots all keep their previous contents.
func (c Caster) Cast(cam *camera.Camera, m *mesh.Mesh, width, height, x, y int, out Buffers) error {
	if err := checkArgs(cam, m, width, height, x, y, out); err != nil {
		return err
	}

	ray := cam.Ray(width, height, x, y)
	rec, err := nearestHit(ray, m)
	if err != nil {
		return err
	}

	shader := c.Shader
	if shader == nil {
		shader = Flat{}
	}
	idx := y*width + x
	out.Rays.Rays[idx] = ray
	out.Hits.Records[idx] = rec
	out.Pixels.set(x, y, color(shader, rec, c.Transparent))
	return nil
}

// Trace returns the nearest hit of an arbitrary ray against m without
// touching any buffer.
func Trace(ray camera.Ray, m *mesh.Mesh) (HitRecord, error) {
	if m == nil || m.Len() == 0 {
		return Miss(), fmt.Errorf("raycast: %w: mesh has no triangles", ErrInvalidArgument)
	}
	return nearestHit(ray, m)
}

// nearestHit scans all triangles in index order. Equal distances keep the
// earlier triangle.
func nearestHit(ray camera.Ray, m *mesh.Mesh) (HitRecord, error) {
	rec := Miss()
	n := len(m.Vertices)
	for i, tri := range m.Indices {
		if tri[0] < 0 || tri[0] >= n || tri[1] < 0 || tri[1] >= n || tri[2] < 0 || tri[2] >= n {
			return Miss(), fmt.Errorf("raycast: %w: triangle %d indices %v out of range [0,%d)",
				ErrInvalidArgument, i, tri, n)
		}
		hit, ok := Intersect(ray,
			m.Vertices[tri[0]].Position,
			m.Vertices[tri[1]].Position,
			m.Vertices[tri[2]].Position,
			rec.Distance)
		if !ok {
			continue
		}
		rec = HitRecord{
			Hit:           true,
			Normal:        hit.Normal,
			Position:      ray.At(hit.T),
			ViewDirection: ray.Direction.Neg(),
			Distance:      hit.T,
		}
	}
	return rec, nil
}

func checkArgs(cam *camera.Camera, m *mesh.Mesh, width, height, x, y int, out Buffers) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("raycast: %w: surface %dx%d", ErrInvalidArgument, width, height)
	}
	if x < 0 || x >= width || y < 0 || y >= height {
		return fmt.Errorf("raycast: %w: pixel (%d,%d) outside %dx%d", ErrInvalidArgument, x, y, width, height)
	}
	if cam == nil {
		return fmt.Errorf("raycast: %w: nil camera", ErrInvalidArgument)
	}
	if err := cam.Validate(); err != nil {
		return fmt.Errorf("raycast: %w: %w", ErrInvalidArgument, err)
	}
	if m == nil || m.Len() == 0 {
		return fmt.Errorf("raycast: %w: mesh has no triangles", ErrInvalidArgument)
	}
	return out.check(width, height)
}
