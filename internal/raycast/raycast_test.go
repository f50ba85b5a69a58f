package raycast

import (
	"errors"
	"math"
	"testing"

	"mesh-raycaster/internal/camera"
	"mesh-raycaster/internal/mathutil"
	"mesh-raycaster/internal/mesh"
)

func near(a, b float32, eps float64) bool {
	return math.Abs(float64(a-b)) <= eps
}

func testCamera() *camera.Camera {
	return &camera.Camera{
		Position:     mathutil.V3(0, 0, 0),
		ScreenCenter: mathutil.V3(0, 0, -1),
		Right:        mathutil.V3(1, 0, 0),
		Up:           mathutil.V3(0, 1, 0),
		ViewSize:     mathutil.V2(2, 2),
	}
}

func tri(z float32) mesh.Triangle {
	return mesh.Triangle{
		{Position: mathutil.V3(-1, -1, z)},
		{Position: mathutil.V3(1, -1, z)},
		{Position: mathutil.V3(0, 1, z)},
	}
}

func TestIntersectCentroid(t *testing.T) {
	v0, v1, v2 := mathutil.V3(0, 0, 0), mathutil.V3(3, 0, 1), mathutil.V3(0, 2, 2)
	centroid := v0.Add(v1).Add(v2).DivScalar(3)
	n := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
	origin := centroid.Add(n.Scale(4))
	r := camera.Ray{Origin: origin, Direction: centroid.Sub(origin).Normalize()}

	hit, ok := Intersect(r, v0, v1, v2, float32(math.Inf(1)))
	if !ok {
		t.Fatal("expected hit at centroid")
	}
	if hit.U < 0 || hit.V < 0 || hit.U+hit.V > 1 || hit.T <= 0 {
		t.Fatalf("bad barycentrics: %+v", hit)
	}
	if !near(hit.U, 1.0/3, 1e-5) || !near(hit.V, 1.0/3, 1e-5) || !near(hit.T, 4, 1e-4) {
		t.Fatalf("centroid hit %+v, want u=v=1/3 t=4", hit)
	}
	if !near(hit.Normal.Dot(n), 1, 1e-5) {
		t.Fatalf("normal %v, want %v", hit.Normal, n)
	}
}

func TestIntersectRejects(t *testing.T) {
	v0, v1, v2 := mathutil.V3(-1, -1, -5), mathutil.V3(1, -1, -5), mathutil.V3(0, 1, -5)
	inf := float32(math.Inf(1))
	cases := []struct {
		name string
		ray  camera.Ray
		best float32
	}{
		{"parallel", camera.Ray{Origin: mathutil.V3(0, 0, 0), Direction: mathutil.V3(1, 0, 0)}, inf},
		{"parallel in plane", camera.Ray{Origin: mathutil.V3(-5, 0, -5), Direction: mathutil.V3(1, 0, 0)}, inf},
		{"behind", camera.Ray{Origin: mathutil.V3(0, 0, 0), Direction: mathutil.V3(0, 0, 1)}, inf},
		{"outside u", camera.Ray{Origin: mathutil.V3(5, 0, 0), Direction: mathutil.V3(0, 0, -1)}, inf},
		{"outside above", camera.Ray{Origin: mathutil.V3(0, 5, 0), Direction: mathutil.V3(0, 0, -1)}, inf},
		{"not nearer", camera.Ray{Origin: mathutil.V3(0, 0, 0), Direction: mathutil.V3(0, 0, -1)}, 4},
		{"tie", camera.Ray{Origin: mathutil.V3(0, 0, 0), Direction: mathutil.V3(0, 0, -1)}, 5},
	}
	for _, c := range cases {
		if hit, ok := Intersect(c.ray, v0, v1, v2, c.best); ok {
			t.Fatalf("%s: unexpected hit %+v", c.name, hit)
		}
	}
	if _, ok := Intersect(camera.Ray{Direction: mathutil.V3(0, 0, -1)}, v0, v1, v2, 5.5); !ok {
		t.Fatal("hit nearer than best rejected")
	}
}

func TestNearestWinsRegardlessOfOrder(t *testing.T) {
	near3, far7 := tri(-3), tri(-7)
	for _, order := range [][]mesh.Triangle{{near3, far7}, {far7, near3}} {
		m := mesh.FromTriangles(order)
		rec, err := Trace(camera.Ray{Direction: mathutil.V3(0, 0, -1)}, m)
		if err != nil {
			t.Fatalf("Trace: %v", err)
		}
		if !rec.Hit || !near(rec.Distance, 3, 1e-5) {
			t.Fatalf("expected nearest hit at 3, got %+v", rec)
		}
	}
}

func TestTieKeepsFirstTriangle(t *testing.T) {
	a := tri(-4)
	b := mesh.Triangle{a[0], a[2], a[1]} // same plane, opposite winding
	cases := []struct {
		order []mesh.Triangle
		wantZ float32
	}{
		{[]mesh.Triangle{a, b}, 1},
		{[]mesh.Triangle{b, a}, -1},
	}
	for _, c := range cases {
		rec, err := Trace(camera.Ray{Direction: mathutil.V3(0, 0, -1)}, mesh.FromTriangles(c.order))
		if err != nil {
			t.Fatalf("Trace: %v", err)
		}
		if !rec.Hit || rec.Distance != 4 || !near(rec.Normal[2], c.wantZ, 1e-6) {
			t.Fatalf("tie should keep the first triangle (normal z %g), got %+v", c.wantZ, rec)
		}
	}
}

func TestCastPixelEndToEnd(t *testing.T) {
	const w, h = 800, 600
	cam := testCamera()
	m := mesh.FromTriangles([]mesh.Triangle{tri(-5)})
	out := NewBuffers(w, h)

	if err := CastPixel(cam, m, w, h, w/2, h/2, out); err != nil {
		t.Fatalf("CastPixel center: %v", err)
	}
	rec := out.Hits.At(w/2, h/2)
	if !rec.Hit || !near(rec.Distance, 5, 1e-4) {
		t.Fatalf("center record %+v", rec)
	}
	if !near(rec.Normal[2], 1, 1e-5) {
		t.Fatalf("normal %v, want +z", rec.Normal)
	}
	if !near(rec.Position[2], -5, 1e-4) {
		t.Fatalf("position %v", rec.Position)
	}
	if rec.ViewDirection != out.Rays.At(w/2, h/2).Direction.Neg() {
		t.Fatalf("view direction %v", rec.ViewDirection)
	}
	if got := out.Pixels.RGBA(w/2, h/2); got != [4]uint8{255, 255, 255, 255} {
		t.Fatalf("center color %v", got)
	}

	if err := CastPixel(cam, m, w, h, 0, 0, out); err != nil {
		t.Fatalf("CastPixel corner: %v", err)
	}
	miss := out.Hits.At(0, 0)
	if miss.Hit || !math.IsInf(float64(miss.Distance), 1) {
		t.Fatalf("corner record %+v", miss)
	}
	if got := out.Pixels.RGBA(0, 0); got != [4]uint8{0, 0, 0, 255} {
		t.Fatalf("corner color %v, want opaque black", got)
	}
	if r := out.Rays.At(0, 0); r.Origin != cam.Position || r.Direction[0] >= 0 || r.Direction[1] <= 0 {
		t.Fatalf("corner ray not recorded on miss: %+v", r)
	}
}

func TestNormalShader(t *testing.T) {
	const w, h = 4, 4
	m := mesh.FromTriangles([]mesh.Triangle{tri(-5)})
	out := NewBuffers(w, h)
	c := Caster{Shader: NormalShader{}}
	if err := c.Cast(testCamera(), m, w, h, 2, 2, out); err != nil {
		t.Fatalf("Cast: %v", err)
	}
	if got := out.Pixels.RGBA(2, 2); got != [4]uint8{127, 127, 255, 255} {
		t.Fatalf("normal-shaded color %v", got)
	}
	if _, ok := ShaderByName("normal"); !ok {
		t.Fatal("normal shader not registered")
	}
	if _, ok := ShaderByName("phong"); ok {
		t.Fatal("unknown shader accepted")
	}
}

func TestCastPixelInvalidArguments(t *testing.T) {
	const w, h = 8, 8
	good := mesh.FromTriangles([]mesh.Triangle{tri(-5)})
	bad := &mesh.Mesh{Vertices: good.Vertices, Indices: [][3]int{{0, 1, 9}}}
	flat := testCamera()
	flat.ViewSize = mathutil.V2(0, 2)

	cases := []struct {
		name string
		cam  *camera.Camera
		m    *mesh.Mesh
		x, y int
		out  Buffers
	}{
		{"x out of range", testCamera(), good, w, 0, NewBuffers(w, h)},
		{"y negative", testCamera(), good, 0, -1, NewBuffers(w, h)},
		{"bad index", testCamera(), bad, 1, 1, NewBuffers(w, h)},
		{"empty mesh", testCamera(), &mesh.Mesh{}, 1, 1, NewBuffers(w, h)},
		{"zero view size", flat, good, 1, 1, NewBuffers(w, h)},
		{"nil camera", nil, good, 1, 1, NewBuffers(w, h)},
		{"buffer mismatch", testCamera(), good, 1, 1, NewBuffers(w, h+1)},
		{"missing buffer", testCamera(), good, 1, 1, Buffers{}},
	}
	for _, c := range cases {
		err := CastPixel(c.cam, c.m, w, h, c.x, c.y, c.out)
		if !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("%s: got %v, want ErrInvalidArgument", c.name, err)
		}
	}
}

func TestCastPixelErrorLeavesSlots(t *testing.T) {
	const w, h = 4, 4
	good := mesh.FromTriangles([]mesh.Triangle{tri(-5)})
	bad := &mesh.Mesh{Vertices: good.Vertices, Indices: [][3]int{{0, 1, 2}, {0, 1, 9}}}

	out := NewBuffers(w, h)
	stale := camera.Ray{Origin: mathutil.V3(9, 9, 9), Direction: mathutil.V3(0, 0, 1)}
	staleRec := HitRecord{Hit: true, Distance: 42}
	stalePix := [4]uint8{1, 2, 3, 4}
	out.Rays.Rays[2*w+2] = stale
	out.Hits.Records[2*w+2] = staleRec
	out.Pixels.set(2, 2, stalePix)

	if err := CastPixel(testCamera(), bad, w, h, 2, 2, out); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("got %v, want ErrInvalidArgument", err)
	}
	if got := out.Rays.At(2, 2); got != stale {
		t.Fatalf("ray slot written on error: %+v", got)
	}
	if got := out.Hits.At(2, 2); got != staleRec {
		t.Fatalf("hit slot written on error: %+v", got)
	}
	if got := out.Pixels.RGBA(2, 2); got != stalePix {
		t.Fatalf("pixel slot written on error: %v", got)
	}
}

func TestTransparentMiss(t *testing.T) {
	const w, h = 4, 4
	m := mesh.FromTriangles([]mesh.Triangle{tri(-5)})
	out := NewBuffers(w, h)
	c := Caster{Transparent: true}
	for _, p := range [][2]int{{0, 0}, {2, 2}} {
		if err := c.Cast(testCamera(), m, w, h, p[0], p[1], out); err != nil {
			t.Fatalf("Cast %v: %v", p, err)
		}
	}
	if got := out.Pixels.RGBA(0, 0); got != [4]uint8{0, 0, 0, 0} {
		t.Fatalf("miss color %v, want transparent", got)
	}
	if got := out.Pixels.RGBA(2, 2); got != [4]uint8{255, 255, 255, 255} {
		t.Fatalf("hit color %v, want opaque white", got)
	}
}

func TestPixelBufferImage(t *testing.T) {
	b := NewPixelBuffer(3, 2)
	b.set(2, 1, [4]uint8{1, 2, 3, 4})
	img := b.Image()
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Fatalf("bounds %v", img.Bounds())
	}
	c := img.NRGBAAt(2, 1)
	if c.R != 1 || c.G != 2 || c.B != 3 || c.A != 4 {
		t.Fatalf("pixel %v", c)
	}
}
