package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"mesh-raycaster/internal/camera"
	"mesh-raycaster/internal/config"
	"mesh-raycaster/internal/mathutil"
	"mesh-raycaster/internal/mesh"
	"mesh-raycaster/internal/raycast"
)

// report is printed as JSON. Pixel fields are omitted for free rays.
type report struct {
	X      *int              `json:"x,omitempty"`
	Y      *int              `json:"y,omitempty"`
	Camera *camera.Camera    `json:"camera,omitempty"`
	Ray    camera.Ray        `json:"ray"`
	Hit    raycast.HitRecord `json:"hit"`
	Color  *[4]uint8         `json:"color,omitempty"`
}

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	meshPath := flag.String("mesh", "", "Mesh file (default: built-in cube)")
	x := flag.Int("x", -1, "Pixel column (default: centre)")
	y := flag.Int("y", -1, "Pixel row (default: centre)")
	origin := flag.String("origin", "", "Trace a free ray from x,y,z instead of a pixel (needs -dir)")
	dir := flag.String("dir", "", "Direction x,y,z of the free ray; normalized before tracing")
	transparent := flag.Bool("transparent", false, "Report the color a transparent background would get")
	flag.Parse()

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{Mesh: *meshPath, Transparent: *transparent})

	m := mesh.Cube()
	if cfg.Mesh != "" {
		var err error
		m, err = mesh.Load(cfg.Mesh)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading mesh: %v\n", err)
			os.Exit(1)
		}
	}

	var rep report
	if *origin != "" || *dir != "" {
		ray, err := parseRay(*origin, *dir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		hit, err := raycast.Trace(ray, m)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		rep = report{Ray: ray, Hit: hit}
	} else {
		shader, ok := raycast.ShaderByName(cfg.Shader)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown shader %q\n", cfg.Shader)
			os.Exit(1)
		}
		cam, err := cfg.Camera.Build(cfg.Width, cfg.Height)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		px, py := *x, *y
		if px < 0 {
			px = cfg.Width / 2
		}
		if py < 0 {
			py = cfg.Height / 2
		}

		out := raycast.NewBuffers(cfg.Width, cfg.Height)
		caster := raycast.Caster{Shader: shader, Transparent: cfg.Transparent}
		if err := caster.Cast(&cam, m, cfg.Width, cfg.Height, px, py, out); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		color := out.Pixels.RGBA(px, py)
		rep = report{
			X:      &px,
			Y:      &py,
			Camera: &cam,
			Ray:    out.Rays.At(px, py),
			Hit:    out.Hits.At(px, py),
			Color:  &color,
		}
	}

	if math.IsInf(float64(rep.Hit.Distance), 1) {
		// JSON has no infinity.
		rep.Hit.Distance = -1
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		os.Exit(1)
	}
}

func parseRay(origin, dir string) (camera.Ray, error) {
	if origin == "" || dir == "" {
		return camera.Ray{}, fmt.Errorf("-origin and -dir must be given together")
	}
	o, err := parseVec3(origin)
	if err != nil {
		return camera.Ray{}, fmt.Errorf("-origin: %w", err)
	}
	d, err := parseVec3(dir)
	if err != nil {
		return camera.Ray{}, fmt.Errorf("-dir: %w", err)
	}
	if d.Len() == 0 {
		return camera.Ray{}, fmt.Errorf("-dir: zero vector")
	}
	return camera.Ray{Origin: o, Direction: d.Normalize()}, nil
}

func parseVec3(s string) (mathutil.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return mathutil.Vec3{}, fmt.Errorf("want x,y,z, got %q", s)
	}
	var v mathutil.Vec3
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return mathutil.Vec3{}, err
		}
		v[i] = float32(f)
	}
	return v, nil
}
