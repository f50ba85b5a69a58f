// Package camera describes a pinhole camera by its image plane in world
// space and maps pixel coordinates to primary rays.
package camera

import (
	"errors"
	"fmt"
	"math"

	"mesh-raycaster/internal/mathutil"
)

// Camera is the image plane one unit in front of Position. Right and Up span
// the plane; ViewSize holds its half extents along them.
type Camera struct {
	Position     mathutil.Vec3 `json:"position"`
	ScreenCenter mathutil.Vec3 `json:"screen_center"`
	Right        mathutil.Vec3 `json:"right"`
	Up           mathutil.Vec3 `json:"up"`
	ViewSize     mathutil.Vec2 `json:"view_size"`
}

// Ray is a half-line from Origin along Direction.
type Ray struct {
	Origin    mathutil.Vec3 `json:"origin"`
	Direction mathutil.Vec3 `json:"direction"`
}

// At returns Origin + t·Direction.
func (r Ray) At(t float32) mathutil.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

var (
	// WorldFront and WorldUp are the reference axes for FromAngles.
	WorldFront = mathutil.Vec3{0, 1, 0}
	WorldUp    = mathutil.Vec3{0, 0, 1}
)

// Validate rejects a camera whose image plane has no extent.
func (c *Camera) Validate() error {
	if c.ViewSize[0] == 0 || c.ViewSize[1] == 0 {
		return fmt.Errorf("camera: zero view size %v", c.ViewSize)
	}
	return nil
}

// Ray returns the primary ray through pixel (x, y) of a width×height surface.
// Pixel rows grow downward, the Up axis grows upward.
func (c *Camera) Ray(width, height, x, y int) Ray {
	half := mathutil.V2(float32(width), float32(height)).Scale(0.5)
	rel := mathutil.Vec2{
		(float32(x) - half[0]) / half[0],
		(float32(height-y) - half[1]) / half[1],
	}
	rect := rel.Mul(c.ViewSize)
	point := c.ScreenCenter.Add(c.Right.Scale(rect[0])).Add(c.Up.Scale(rect[1]))
	return Ray{
		Origin:    c.Position,
		Direction: point.Sub(c.Position).Normalize(),
	}
}

// ViewSize returns the image plane half extents for a diagonal field of view
// in degrees on a width×height surface.
func ViewSize(fovDeg float64, width, height int) mathutil.Vec2 {
	halfDiagonal := math.Tan(mathutil.Deg2Rad(fovDeg) / 2)
	aspect := float64(width) / float64(height)
	h := halfDiagonal / math.Sqrt(aspect*aspect+1)
	return mathutil.Vec2{float32(aspect * h), float32(h)}
}

// LookAt aims a camera at target. Roll rotates the image plane about the
// view direction, in radians.
func LookAt(position, target, worldUp mathutil.Vec3, roll, fovDeg float64, width, height int) (Camera, error) {
	if width <= 0 || height <= 0 {
		return Camera{}, fmt.Errorf("camera: invalid surface %dx%d", width, height)
	}
	dir := target.Sub(position)
	if dir.Len() == 0 {
		return Camera{}, errors.New("camera: target coincides with position")
	}
	dir = dir.Normalize()
	side := dir.Cross(worldUp)
	if side.Len() < mathutil.Epsilon {
		return Camera{}, fmt.Errorf("camera: view direction %v is parallel to up %v", dir, worldUp)
	}
	side = side.Normalize()
	up := side.Cross(dir)

	cr, sr := float32(math.Cos(roll)), float32(math.Sin(roll))
	return Camera{
		Position:     position,
		ScreenCenter: position.Add(dir),
		Right:        side.Scale(cr).Add(up.Scale(sr)),
		Up:           up.Scale(cr).Sub(side.Scale(sr)),
		ViewSize:     ViewSize(fovDeg, width, height),
	}, nil
}

// FromAngles orients a camera by yaw, pitch and roll in radians, starting
// from WorldFront with WorldUp. Positive yaw turns right and positive pitch
// tilts the view down.
func FromAngles(position mathutil.Vec3, yaw, pitch, roll, fovDeg float64, width, height int) (Camera, error) {
	if width <= 0 || height <= 0 {
		return Camera{}, fmt.Errorf("camera: invalid surface %dx%d", width, height)
	}
	m := mathutil.Mat3Mul(
		mathutil.Mat3Mul(mathutil.AxisAngle(WorldUp, -yaw), mathutil.AxisAngle(mathutil.V3(1, 0, 0), -pitch)),
		mathutil.AxisAngle(WorldFront, -roll),
	)
	front := m.MulVec3(WorldFront)
	up := m.MulVec3(WorldUp)
	return Camera{
		Position:     position,
		ScreenCenter: position.Add(front),
		Right:        front.Cross(up),
		Up:           up,
		ViewSize:     ViewSize(fovDeg, width, height),
	}, nil
}

// Orbit places the camera on a circle of the given radius around target in
// the plane orthogonal to worldUp, at angle radians, lifted by elevation
// along worldUp.
func Orbit(target, worldUp mathutil.Vec3, radius, elevation, angle, fovDeg float64, width, height int) (Camera, error) {
	u, v, up := orbitBasis(worldUp)
	c, s := float32(radius*math.Cos(angle)), float32(radius*math.Sin(angle))
	pos := target.Add(u.Scale(c)).Add(v.Scale(s)).Add(up.Scale(float32(elevation)))
	return LookAt(pos, target, worldUp, 0, fovDeg, width, height)
}

// OrbitParams returns the Orbit arguments that put the camera at position.
func OrbitParams(position, target, worldUp mathutil.Vec3) (radius, elevation, angle float64) {
	u, v, up := orbitBasis(worldUp)
	rel := position.Sub(target)
	elevation = float64(rel.Dot(up))
	x, y := float64(rel.Dot(u)), float64(rel.Dot(v))
	return math.Hypot(x, y), elevation, math.Atan2(y, x)
}

// orbitBasis returns two unit axes spanning the plane orthogonal to worldUp,
// plus worldUp normalized.
func orbitBasis(worldUp mathutil.Vec3) (u, v, up mathutil.Vec3) {
	up = worldUp.Normalize()
	axis := mathutil.Vec3{1, 0, 0}
	if math.Abs(float64(axis.Dot(up))) > 0.9 {
		axis = mathutil.Vec3{0, 1, 0}
	}
	u = axis.Sub(up.Scale(axis.Dot(up))).Normalize()
	return u, up.Cross(u), up
}
