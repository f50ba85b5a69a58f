package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"mesh-raycaster/internal/camera"
	"mesh-raycaster/internal/mathutil"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	Mesh      string `json:"mesh"` // OBJ/STL/PLY/3DS; empty renders the built-in cube
	OutputDir string `json:"output_dir"`

	// Camera
	Camera CameraConfig `json:"camera"`

	// Render settings
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Shader       string `json:"shader"`      // flat | normal
	Transparent  bool   `json:"transparent"` // misses get alpha 0
	Format       string `json:"format"`      // png | webp | tga | bmp
	OutputWidth  int    `json:"output_width"`
	OutputHeight int    `json:"output_height"`
	Frames       int    `json:"frames"` // >1 renders an orbit around the target
	FrameMs      int    `json:"frame_ms"`
	Workers      int    `json:"workers"`

	// Upload
	S3Bucket string `json:"s3_bucket"`
	S3Region string `json:"s3_region"`
	S3Prefix string `json:"s3_prefix"`
}

// CameraConfig places the camera. Angles are in degrees.
//
// Setting Yaw or Pitch orients the camera by angles from the +Y axis and
// ignores Target and Up for single frames. Orbits always aim at Target.
type CameraConfig struct {
	Position *[3]float32 `json:"position"`
	Target   *[3]float32 `json:"target"`
	Up       *[3]float32 `json:"up"`
	Yaw      *float64    `json:"yaw"`
	Pitch    *float64    `json:"pitch"`
	Roll     float64     `json:"roll"`
	FOV      float64     `json:"fov"`
}

// UsesAngles reports whether the camera is oriented by yaw and pitch.
func (c CameraConfig) UsesAngles() bool {
	return c.Yaw != nil || c.Pitch != nil
}

// Build returns the camera for a width×height surface. Call after Resolve.
func (c CameraConfig) Build(width, height int) (camera.Camera, error) {
	pos := mathutil.Vec3(*c.Position)
	roll := mathutil.Deg2Rad(c.Roll)
	if c.UsesAngles() {
		var yaw, pitch float64
		if c.Yaw != nil {
			yaw = *c.Yaw
		}
		if c.Pitch != nil {
			pitch = *c.Pitch
		}
		return camera.FromAngles(pos, mathutil.Deg2Rad(yaw), mathutil.Deg2Rad(pitch), roll, c.FOV, width, height)
	}
	return camera.LookAt(pos, mathutil.Vec3(*c.Target), mathutil.Vec3(*c.Up), roll, c.FOV, width, height)
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Mesh        string
	OutputDir   string
	Width       int
	Height      int
	Shader      string
	Transparent bool
	Format      string
	Frames      int
	Workers     int
	S3Bucket    string
}

// Resolve applies CLI overrides, then fills any empty field with a default.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Mesh != "" {
		c.Mesh = flags.Mesh
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Shader != "" {
		c.Shader = flags.Shader
	}
	if flags.Transparent {
		c.Transparent = true
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.S3Bucket != "" {
		c.S3Bucket = flags.S3Bucket
	}

	if c.OutputDir == "" {
		c.OutputDir = "renders"
	}
	if c.Mesh != "" {
		c.Mesh = filepath.Clean(c.Mesh)
	}

	// Camera defaults: the reference three-quarter view of the unit cube.
	if c.Camera.Position == nil {
		c.Camera.Position = &[3]float32{7.35889, -6.92579, 4.95831}
	}
	if c.Camera.Target == nil {
		c.Camera.Target = &[3]float32{0, 0, 0}
	}
	if c.Camera.Up == nil {
		c.Camera.Up = &[3]float32{0, 0, 1}
	}
	if c.Camera.FOV <= 0 {
		c.Camera.FOV = 60
	}

	// Defaults for render settings
	if c.Width <= 0 {
		c.Width = 800
	}
	if c.Height <= 0 {
		c.Height = 600
	}
	if c.Shader == "" {
		c.Shader = "flat"
	}
	if c.Format == "" {
		c.Format = "png"
	}
	if c.Frames <= 0 {
		c.Frames = 1
	}
	if c.FrameMs <= 0 {
		c.FrameMs = 80
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.S3Region == "" {
		c.S3Region = "us-east-1"
	}
}
