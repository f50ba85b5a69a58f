package mathutil

import "math"

// Vec4 is a 4-component vector, used for RGBA colors.
type Vec4 [4]float32

func V4(x, y, z, w float32) Vec4 {
	return Vec4{x, y, z, w}
}

// Extend appends w to a Vec3.
func (v Vec3) Extend(w float32) Vec4 {
	return Vec4{v[0], v[1], v[2], w}
}

func (a Vec4) Add(b Vec4) Vec4 {
	return Vec4{a[0] + b[0], a[1] + b[1], a[2] + b[2], a[3] + b[3]}
}

func (a Vec4) Sub(b Vec4) Vec4 {
	return Vec4{a[0] - b[0], a[1] - b[1], a[2] - b[2], a[3] - b[3]}
}

func (a Vec4) Mul(b Vec4) Vec4 {
	return Vec4{a[0] * b[0], a[1] * b[1], a[2] * b[2], a[3] * b[3]}
}

func (a Vec4) Div(b Vec4) Vec4 {
	return Vec4{a[0] / b[0], a[1] / b[1], a[2] / b[2], a[3] / b[3]}
}

func (v Vec4) AddScalar(s float32) Vec4 {
	return Vec4{v[0] + s, v[1] + s, v[2] + s, v[3] + s}
}

func (v Vec4) SubScalar(s float32) Vec4 {
	return Vec4{v[0] - s, v[1] - s, v[2] - s, v[3] - s}
}

func (v Vec4) Scale(s float32) Vec4 {
	return Vec4{v[0] * s, v[1] * s, v[2] * s, v[3] * s}
}

func (v Vec4) DivScalar(s float32) Vec4 {
	return Vec4{v[0] / s, v[1] / s, v[2] / s, v[3] / s}
}

func (a Vec4) Dot(b Vec4) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] + a[3]*b[3]
}

func (v Vec4) Len() float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

func (v Vec4) Normalize() Vec4 {
	return v.DivScalar(v.Len())
}

// XYZ drops the fourth component.
func (v Vec4) XYZ() Vec3 {
	return Vec3{v[0], v[1], v[2]}
}
