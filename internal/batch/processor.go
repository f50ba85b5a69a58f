package batch

import (
	"context"
	"fmt"
	"image"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"mesh-raycaster/internal/camera"
	"mesh-raycaster/internal/mathutil"
	"mesh-raycaster/internal/mesh"
	"mesh-raycaster/internal/output"
	"mesh-raycaster/internal/postprocess"
	"mesh-raycaster/internal/raycast"
	"mesh-raycaster/internal/render"
)

// Config holds all shared resources for an orbit run.
type Config struct {
	Mesh *mesh.Mesh

	// The first frame is seen from Start; later frames rotate Start about
	// Target around Up.
	Start  mathutil.Vec3
	Target mathutil.Vec3
	Up     mathutil.Vec3
	FOV    float64

	Width        int
	Height       int
	OutputWidth  int
	OutputHeight int
	Shader       raycast.Shader
	Transparent  bool
	Format       output.Format
	Sink         output.Sink
	Frames       int
	Workers      int

	// Quiet disables the progress reporter.
	Quiet bool
}

// Result holds the outcome of rendering one frame.
type Result struct {
	Frame    int
	Name     string
	Angle    float64 // degrees from the start position
	Location string
	Stats    render.Stats
	Success  bool
	Error    string

	Image *image.NRGBA
}

// FrameName is the sink-relative name of frame i.
func FrameName(i int, f output.Format) string {
	return fmt.Sprintf("frames/%04d%s", i, f.Ext())
}

// Run renders all frames using a worker pool. Each worker renders whole
// frames single-threaded.
func Run(ctx context.Context, cfg Config) []Result {
	total := cfg.Frames
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	if !cfg.Quiet {
		go func() {
			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := processed.Load()
					if p > 0 {
						elapsed := time.Since(start).Seconds()
						rate := float64(p) / elapsed
						fmt.Printf("  [%d/%d] %.1f frames/sec\n", p, total, rate)
					}
				}
			}
		}()
	}

	radius, elevation, angle0 := camera.OrbitParams(cfg.Start, cfg.Target, cfg.Up)

	// Worker pool
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	frameChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range frameChan {
				step := 2 * math.Pi * float64(idx) / float64(total)
				results[idx] = processFrame(ctx, cfg, idx, radius, elevation, angle0+step)
				results[idx].Angle = step * 180 / math.Pi
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := 0; i < total; i++ {
		frameChan <- i
	}
	close(frameChan)

	wg.Wait()
	close(done)

	return results
}

func processFrame(ctx context.Context, cfg Config, idx int, radius, elevation, angle float64) Result {
	name := FrameName(idx, cfg.Format)
	res := Result{Frame: idx, Name: name, Location: cfg.Sink.Location(name)}

	cam, err := camera.Orbit(cfg.Target, cfg.Up, radius, elevation, angle, cfg.FOV, cfg.Width, cfg.Height)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	bufs, err := render.Frame(ctx, render.Options{
		Camera:      cam,
		Mesh:        cfg.Mesh,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Shader:      cfg.Shader,
		Transparent: cfg.Transparent,
		Workers:     1,
	})
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Stats = render.Summarize(bufs)

	img := postprocess.Scale(bufs.Pixels.Image(), cfg.OutputWidth, cfg.OutputHeight)
	res.Image = img

	data, err := output.EncodeBytes(img, cfg.Format)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	if err := cfg.Sink.Put(ctx, name, data, cfg.Format.ContentType()); err != nil {
		res.Error = err.Error()
		return res
	}

	res.Success = true
	return res
}
