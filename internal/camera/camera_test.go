package camera

import (
	"math"
	"testing"

	"mesh-raycaster/internal/mathutil"
)

func near(a, b float32, eps float64) bool {
	return math.Abs(float64(a-b)) <= eps
}

func nearVec3(a, b mathutil.Vec3) bool {
	return near(a[0], b[0], 1e-5) && near(a[1], b[1], 1e-5) && near(a[2], b[2], 1e-5)
}

func testCamera() Camera {
	return Camera{
		Position:     mathutil.V3(0, 0, 0),
		ScreenCenter: mathutil.V3(0, 0, -1),
		Right:        mathutil.V3(1, 0, 0),
		Up:           mathutil.V3(0, 1, 0),
		ViewSize:     mathutil.V2(2, 2),
	}
}

func TestRayCorners(t *testing.T) {
	cam := testCamera()
	const w, h = 800, 600
	cases := []struct {
		x, y       int
		signX, sgY float32
	}{
		{0, 0, -1, 1},
		{w - 1, 0, 1, 1},
		{0, h - 1, -1, -1},
		{w - 1, h - 1, 1, -1},
	}
	for _, c := range cases {
		r := cam.Ray(w, h, c.x, c.y)
		if r.Origin != cam.Position {
			t.Fatalf("(%d,%d): origin %v", c.x, c.y, r.Origin)
		}
		d := r.Direction
		if d[0]*c.signX <= 0 || d[1]*c.sgY <= 0 || d[2] >= 0 {
			t.Fatalf("(%d,%d): direction %v has wrong signs", c.x, c.y, d)
		}
		if !near(d.Len(), 1, 1e-5) {
			t.Fatalf("(%d,%d): direction not unit: %g", c.x, c.y, d.Len())
		}
	}
}

func TestRayCenterAndExtent(t *testing.T) {
	cam := testCamera()
	r := cam.Ray(800, 600, 400, 300)
	if !nearVec3(r.Direction, mathutil.V3(0, 0, -1)) {
		t.Fatalf("center ray %v", r.Direction)
	}
	// Left edge maps to rel.x = -1, so the point is (-2, 0, -1).
	r = cam.Ray(800, 600, 0, 300)
	want := mathutil.V3(-2, 0, -1).Normalize()
	if !nearVec3(r.Direction, want) {
		t.Fatalf("left edge ray %v, want %v", r.Direction, want)
	}
	if p := r.At(2); !nearVec3(p, want.Scale(2)) {
		t.Fatalf("At(2) = %v", p)
	}
}

func TestValidate(t *testing.T) {
	cam := testCamera()
	if err := cam.Validate(); err != nil {
		t.Fatalf("valid camera rejected: %v", err)
	}
	cam.ViewSize[1] = 0
	if err := cam.Validate(); err == nil {
		t.Fatal("zero view size accepted")
	}
}

func TestViewSize(t *testing.T) {
	vs := ViewSize(60, 400, 400)
	want := float32(math.Tan(math.Pi/6) / math.Sqrt2)
	if !near(vs[0], want, 1e-6) || !near(vs[1], want, 1e-6) {
		t.Fatalf("square view size %v, want %g", vs, want)
	}
	vs = ViewSize(60, 800, 400)
	if !near(vs[0], 2*vs[1], 1e-6) {
		t.Fatalf("aspect not preserved: %v", vs)
	}
	diag := math.Hypot(float64(vs[0]), float64(vs[1]))
	if math.Abs(diag-math.Tan(math.Pi/6)) > 1e-6 {
		t.Fatalf("half diagonal %g", diag)
	}
}

func TestLookAt(t *testing.T) {
	cam, err := LookAt(mathutil.V3(0, 0, 0), mathutil.V3(0, 0, -10), mathutil.V3(0, 1, 0), 0, 60, 800, 600)
	if err != nil {
		t.Fatalf("LookAt: %v", err)
	}
	if !nearVec3(cam.ScreenCenter, mathutil.V3(0, 0, -1)) {
		t.Fatalf("screen center %v", cam.ScreenCenter)
	}
	if !nearVec3(cam.Right, mathutil.V3(1, 0, 0)) || !nearVec3(cam.Up, mathutil.V3(0, 1, 0)) {
		t.Fatalf("basis right=%v up=%v", cam.Right, cam.Up)
	}

	rolled, err := LookAt(mathutil.V3(0, 0, 0), mathutil.V3(0, 0, -10), mathutil.V3(0, 1, 0), math.Pi/2, 60, 800, 600)
	if err != nil {
		t.Fatalf("LookAt rolled: %v", err)
	}
	if !nearVec3(rolled.Right, mathutil.V3(0, 1, 0)) || !nearVec3(rolled.Up, mathutil.V3(-1, 0, 0)) {
		t.Fatalf("rolled basis right=%v up=%v", rolled.Right, rolled.Up)
	}

	if _, err := LookAt(mathutil.V3(0, 0, 0), mathutil.V3(0, 5, 0), mathutil.V3(0, 1, 0), 0, 60, 8, 8); err == nil {
		t.Fatal("expected error for view parallel to up")
	}
	if _, err := LookAt(mathutil.V3(1, 1, 1), mathutil.V3(1, 1, 1), mathutil.V3(0, 1, 0), 0, 60, 8, 8); err == nil {
		t.Fatal("expected error for target at position")
	}
	if _, err := LookAt(mathutil.V3(0, 0, 0), mathutil.V3(0, 0, -1), mathutil.V3(0, 1, 0), 0, 60, 0, 8); err == nil {
		t.Fatal("expected error for empty surface")
	}
}

func TestFromAngles(t *testing.T) {
	cam, err := FromAngles(mathutil.Vec3{}, 0, 0, 0, 60, 800, 600)
	if err != nil {
		t.Fatalf("FromAngles: %v", err)
	}
	if !nearVec3(cam.ScreenCenter, WorldFront) || !nearVec3(cam.Up, WorldUp) || !nearVec3(cam.Right, mathutil.V3(1, 0, 0)) {
		t.Fatalf("identity orientation: %+v", cam)
	}
	// Yaw of 90° turns the view from north to east.
	cam, _ = FromAngles(mathutil.Vec3{}, math.Pi/2, 0, 0, 60, 800, 600)
	if !nearVec3(cam.ScreenCenter, mathutil.V3(1, 0, 0)) {
		t.Fatalf("yaw 90 front %v", cam.ScreenCenter)
	}
	// Pitch of 90° looks straight down.
	cam, _ = FromAngles(mathutil.Vec3{}, 0, math.Pi/2, 0, 60, 800, 600)
	if !nearVec3(cam.ScreenCenter, mathutil.V3(0, 0, -1)) {
		t.Fatalf("pitch 90 front %v", cam.ScreenCenter)
	}
}

func TestFromAnglesPitchMatrix(t *testing.T) {
	// Mouse-look pitch matrix [[1,0,0],[0,c,s],[0,-s,c]].
	const p = 0.4
	c, s := float32(math.Cos(p)), float32(math.Sin(p))
	m := mathutil.Mat3{1, 0, 0, 0, c, s, 0, -s, c}

	cam, err := FromAngles(mathutil.V3(1, 2, 3), 0, p, 0, 60, 800, 600)
	if err != nil {
		t.Fatalf("FromAngles: %v", err)
	}
	front := cam.ScreenCenter.Sub(cam.Position)
	if want := m.MulVec3(WorldFront); !nearVec3(front, want) {
		t.Fatalf("front = %v, want %v", front, want)
	}
	if want := m.MulVec3(WorldUp); !nearVec3(cam.Up, want) {
		t.Fatalf("up = %v, want %v", cam.Up, want)
	}
	if !nearVec3(cam.Right, mathutil.V3(1, 0, 0)) {
		t.Fatalf("right = %v", cam.Right)
	}
}

func TestOrbit(t *testing.T) {
	target := mathutil.V3(1, 2, 3)
	for _, angle := range []float64{0, 1, math.Pi, 5} {
		cam, err := Orbit(target, WorldUp, 4, 3, angle, 60, 100, 100)
		if err != nil {
			t.Fatalf("Orbit(%g): %v", angle, err)
		}
		if d := target.Sub(cam.Position).Len(); !near(d, 5, 1e-4) {
			t.Fatalf("Orbit(%g): distance %g, want 5", angle, d)
		}
		if h := cam.Position.Sub(target).Dot(WorldUp); !near(h, 3, 1e-4) {
			t.Fatalf("Orbit(%g): elevation %g", angle, h)
		}
		fwd := cam.ScreenCenter.Sub(cam.Position)
		if !nearVec3(fwd, target.Sub(cam.Position).Normalize()) {
			t.Fatalf("Orbit(%g): not aimed at target", angle)
		}
	}
}

func TestOrbitParamsRoundTrip(t *testing.T) {
	pos := mathutil.V3(7.35889, -6.92579, 4.95831)
	target := mathutil.V3(0.5, 0, -0.25)
	r, e, a := OrbitParams(pos, target, WorldUp)
	cam, err := Orbit(target, WorldUp, r, e, a, 60, 64, 64)
	if err != nil {
		t.Fatalf("Orbit: %v", err)
	}
	if !near(cam.Position[0], pos[0], 1e-4) || !near(cam.Position[1], pos[1], 1e-4) || !near(cam.Position[2], pos[2], 1e-4) {
		t.Fatalf("orbit position %v, want %v", cam.Position, pos)
	}
}
