package mathutil

import "math"

// Epsilon is the machine epsilon of float32 (the gap between 1 and the next
// representable value).
const Epsilon float32 = 0x1p-23

// Vec3 is a 3-component vector (value type, stack-allocated).
type Vec3 [3]float32

// V3 builds a Vec3 from its components.
func V3(x, y, z float32) Vec3 {
	return Vec3{x, y, z}
}

func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Mul is the elementwise product.
func (a Vec3) Mul(b Vec3) Vec3 {
	return Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func (a Vec3) Div(b Vec3) Vec3 {
	return Vec3{a[0] / b[0], a[1] / b[1], a[2] / b[2]}
}

func (v Vec3) AddScalar(s float32) Vec3 {
	return Vec3{v[0] + s, v[1] + s, v[2] + s}
}

func (v Vec3) SubScalar(s float32) Vec3 {
	return Vec3{v[0] - s, v[1] - s, v[2] - s}
}

func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

func (v Vec3) DivScalar(s float32) Vec3 {
	return Vec3{v[0] / s, v[1] / s, v[2] / s}
}

func (v Vec3) Neg() Vec3 {
	return Vec3{-v[0], -v[1], -v[2]}
}

func (a Vec3) Dot(b Vec3) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Cross is the right-handed cross product a × b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func (v Vec3) Len() float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

// Normalize returns v / |v|. A zero vector yields NaN components.
func (v Vec3) Normalize() Vec3 {
	return v.DivScalar(v.Len())
}
