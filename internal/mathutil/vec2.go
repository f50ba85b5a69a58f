package mathutil

import "math"

// Vec2 is a 2-component vector.
type Vec2 [2]float32

func V2(x, y float32) Vec2 {
	return Vec2{x, y}
}

func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a[0] + b[0], a[1] + b[1]}
}

func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{a[0] - b[0], a[1] - b[1]}
}

func (a Vec2) Mul(b Vec2) Vec2 {
	return Vec2{a[0] * b[0], a[1] * b[1]}
}

func (a Vec2) Div(b Vec2) Vec2 {
	return Vec2{a[0] / b[0], a[1] / b[1]}
}

func (v Vec2) AddScalar(s float32) Vec2 {
	return Vec2{v[0] + s, v[1] + s}
}

func (v Vec2) SubScalar(s float32) Vec2 {
	return Vec2{v[0] - s, v[1] - s}
}

func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v[0] * s, v[1] * s}
}

func (v Vec2) DivScalar(s float32) Vec2 {
	return Vec2{v[0] / s, v[1] / s}
}

func (a Vec2) Dot(b Vec2) float32 {
	return a[0]*b[0] + a[1]*b[1]
}

func (v Vec2) Len() float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

func (v Vec2) Normalize() Vec2 {
	return v.DivScalar(v.Len())
}
