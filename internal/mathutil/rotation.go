package mathutil

import "math"

// AxisAngle returns the matrix rotating counter-clockwise by a radians
// around axis, seen from the tip of the axis looking back at the origin.
// axis must be unit length.
func AxisAngle(axis Vec3, a float64) Mat3 {
	c, s := float32(math.Cos(a)), float32(math.Sin(a))
	k := 1 - c
	x, y, z := axis[0], axis[1], axis[2]
	return Mat3{
		c + k*x*x, k*x*y - s*z, k*x*z + s*y,
		k*y*x + s*z, c + k*y*y, k*y*z - s*x,
		k*z*x - s*y, k*z*y + s*x, c + k*z*z,
	}
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}
