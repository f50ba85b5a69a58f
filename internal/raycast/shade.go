package raycast

import "mesh-raycaster/internal/mathutil"

// Shader maps a hit to an RGB color with channels in [0, 1]. It is only
// called for pixels whose record has Hit set.
type Shader interface {
	Shade(h HitRecord) mathutil.Vec3
}

// Flat writes full white for every hit.
type Flat struct{}

func (Flat) Shade(HitRecord) mathutil.Vec3 {
	return mathutil.Vec3{1, 1, 1}
}

// NormalShader encodes the geometric normal as N·0.5 + 0.5.
type NormalShader struct{}

func (NormalShader) Shade(h HitRecord) mathutil.Vec3 {
	c := h.Normal.Scale(0.5).AddScalar(0.5)
	for i := range c {
		c[i] = clamp01(c[i])
	}
	return c
}

// ShaderByName resolves "flat" or "normal".
func ShaderByName(name string) (Shader, bool) {
	switch name {
	case "", "flat":
		return Flat{}, true
	case "normal":
		return NormalShader{}, true
	}
	return nil, false
}

// color converts a record to the 8-bit pixel. A miss yields opaque black,
// or transparent black when transparent is set. Hits are always opaque.
func color(s Shader, h HitRecord, transparent bool) [4]uint8 {
	c := mathutil.Vec4{0, 0, 0, 1}
	if transparent {
		c[3] = 0
	}
	if h.Hit {
		rgb := s.Shade(h)
		c = rgb.Extend(1)
	}
	c = c.Scale(255)
	return [4]uint8{uint8(c[0]), uint8(c[1]), uint8(c[2]), uint8(c[3])}
}

func clamp01(v float32) float32 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
