package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"time"

	"mesh-raycaster/internal/batch"
	"mesh-raycaster/internal/config"
	"mesh-raycaster/internal/mathutil"
	"mesh-raycaster/internal/mesh"
	"mesh-raycaster/internal/output"
	"mesh-raycaster/internal/postprocess"
	"mesh-raycaster/internal/raycast"
	"mesh-raycaster/internal/render"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	meshPath := flag.String("mesh", "", "Mesh file: OBJ, STL, PLY or 3DS (default: built-in cube)")
	outputDir := flag.String("output", "", "Output directory (default: renders)")
	width := flag.Int("width", 0, "Surface width in pixels (default: 800)")
	height := flag.Int("height", 0, "Surface height in pixels (default: 600)")
	shaderName := flag.String("shader", "", "Shader: flat or normal (default: flat)")
	transparent := flag.Bool("transparent", false, "Give background pixels alpha 0")
	formatName := flag.String("format", "", "Image format: png, webp, tga or bmp (default: png)")
	frames := flag.Int("frames", 0, "Render an orbit of N frames around the target")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	s3Bucket := flag.String("s3-bucket", "", "Upload results to this S3 bucket instead of the output directory")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		Mesh:        *meshPath,
		OutputDir:   *outputDir,
		Width:       *width,
		Height:      *height,
		Shader:      *shaderName,
		Transparent: *transparent,
		Format:      *formatName,
		Frames:      *frames,
		Workers:     *workers,
		S3Bucket:    *s3Bucket,
	})

	shader, ok := raycast.ShaderByName(cfg.Shader)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown shader %q\n", cfg.Shader)
		os.Exit(1)
	}
	format, err := output.ParseFormat(cfg.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	m := mesh.Cube()
	if cfg.Mesh != "" {
		m, err = mesh.Load(cfg.Mesh)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading mesh: %v\n", err)
			os.Exit(1)
		}
	}

	var sink output.Sink = output.DirSink{Dir: cfg.OutputDir}
	if cfg.S3Bucket != "" {
		sink, err = output.NewS3Sink(cfg.S3Region, cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pos := mathutil.Vec3(*cfg.Camera.Position)
	target := mathutil.Vec3(*cfg.Camera.Target)
	up := mathutil.Vec3(*cfg.Camera.Up)

	// Print summary
	name := "cube"
	if cfg.Mesh != "" {
		name = cfg.Mesh
	}
	fmt.Printf("Mesh ray caster → %s\n", format)
	lo, hi := m.Bounds()
	fmt.Printf("Mesh: %s (%d triangles, bounds %v..%v)\n", name, m.Len(), lo, hi)
	fmt.Printf("Surface: %dx%d, Shader: %s, Workers: %d\n", cfg.Width, cfg.Height, cfg.Shader, cfg.Workers)
	if cfg.Camera.UsesAngles() && cfg.Frames <= 1 {
		fmt.Printf("Camera: yaw/pitch/roll from %v\n", pos)
	}
	fmt.Printf("Output: %s\n", sink.Location(""))
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	if cfg.Frames > 1 {
		os.Exit(runOrbit(ctx, cfg, m, shader, format, sink, pos, target, up, start))
	}

	cam, err := cfg.Camera.Build(cfg.Width, cfg.Height)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Progress reporter
	var rows atomic.Int64
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				r := rows.Load()
				if r > 0 {
					rate := float64(r) / time.Since(start).Seconds()
					fmt.Printf("  [%d/%d] %.1f rows/sec\n", r, cfg.Height, rate)
				}
			}
		}
	}()

	bufs, err := render.Frame(ctx, render.Options{
		Camera:      cam,
		Mesh:        m,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Shader:      shader,
		Transparent: cfg.Transparent,
		Workers:     cfg.Workers,
		Progress: func(n, _ int) {
			rows.Store(int64(n))
		},
	})
	close(done)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering: %v\n", err)
		os.Exit(1)
	}

	img := postprocess.Scale(bufs.Pixels.Image(), cfg.OutputWidth, cfg.OutputHeight)
	data, err := output.EncodeBytes(img, format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	outName := "frame" + format.Ext()
	if err := sink.Put(ctx, outName, data, format.ContentType()); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving frame: %v\n", err)
		os.Exit(1)
	}

	st := render.Summarize(bufs)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.2fs\n", time.Since(start).Seconds())
	fmt.Printf("Hits: %d/%d pixels", st.Hits, st.Pixels)
	if st.Hits > 0 {
		fmt.Printf(", distance %.3f..%.3f", st.Near, st.Far)
	}
	fmt.Println()
	fmt.Printf("Saved: %s\n", sink.Location(outName))
}

func runOrbit(
	ctx context.Context,
	cfg config.Config,
	m *mesh.Mesh,
	shader raycast.Shader,
	format output.Format,
	sink output.Sink,
	pos, target, up mathutil.Vec3,
	start time.Time,
) int {
	results := batch.Run(ctx, batch.Config{
		Mesh:         m,
		Start:        pos,
		Target:       target,
		Up:           up,
		FOV:          cfg.Camera.FOV,
		Width:        cfg.Width,
		Height:       cfg.Height,
		OutputWidth:  cfg.OutputWidth,
		OutputHeight: cfg.OutputHeight,
		Shader:       shader,
		Transparent:  cfg.Transparent,
		Format:       format,
		Sink:         sink,
		Frames:       cfg.Frames,
		Workers:      cfg.Workers,
	})

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", time.Since(start).Seconds())

	// Count results
	success, failed := 0, 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Rendered: %d/%d\n", success, len(results))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := 20
		if len(errors) < limit {
			limit = len(errors)
		}
		for _, e := range errors[:limit] {
			fmt.Printf("  %s: %s\n", e.Name, e.Error)
		}
	}

	// Write manifest
	if err := batch.WriteManifest(ctx, sink, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", sink.Location("manifest.json"))
	}

	if failed == 0 {
		if err := batch.WriteAnimation(ctx, sink, results, uint(cfg.FrameMs)); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: animation write failed: %v\n", err)
		} else {
			fmt.Printf("Animation: %s\n", sink.Location("orbit.webp"))
		}
		return 0
	}
	return 1
}
