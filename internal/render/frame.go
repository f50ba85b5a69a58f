// Package render drives the ray-casting kernel over every pixel of a frame.
package render

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"mesh-raycaster/internal/camera"
	"mesh-raycaster/internal/mesh"
	"mesh-raycaster/internal/raycast"
)

// Options describes one frame.
type Options struct {
	Camera  camera.Camera
	Mesh    *mesh.Mesh
	Width   int
	Height  int
	Shader  raycast.Shader
	Workers int // default: NumCPU

	// Transparent gives missed pixels alpha 0.
	Transparent bool

	// Progress, when set, is called after each finished row with the number
	// of rows done so far. It may be called from several goroutines.
	Progress func(rows, total int)
}

// Frame casts every pixel of the surface. Rows are handed to a worker pool;
// each worker owns whole rows, so no two workers touch the same pixel.
// Cancelling ctx stops workers between rows and returns ctx.Err().
func Frame(ctx context.Context, opt Options) (raycast.Buffers, error) {
	if opt.Width <= 0 || opt.Height <= 0 {
		return raycast.Buffers{}, fmt.Errorf("render: %w: surface %dx%d", raycast.ErrInvalidArgument, opt.Width, opt.Height)
	}
	if opt.Mesh == nil {
		return raycast.Buffers{}, fmt.Errorf("render: %w: nil mesh", raycast.ErrInvalidArgument)
	}
	if err := opt.Mesh.Validate(); err != nil {
		return raycast.Buffers{}, fmt.Errorf("render: %w: %w", raycast.ErrInvalidArgument, err)
	}
	if err := opt.Camera.Validate(); err != nil {
		return raycast.Buffers{}, fmt.Errorf("render: %w: %w", raycast.ErrInvalidArgument, err)
	}

	workers := opt.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > opt.Height {
		workers = opt.Height
	}

	out := raycast.NewBuffers(opt.Width, opt.Height)
	caster := raycast.Caster{Shader: opt.Shader, Transparent: opt.Transparent}
	cam := opt.Camera

	var (
		rowsDone atomic.Int64
		errOnce  sync.Once
		firstErr error
		failed   atomic.Bool
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			failed.Store(true)
		})
	}

	rowChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range rowChan {
				if failed.Load() {
					continue
				}
				if err := ctx.Err(); err != nil {
					fail(err)
					continue
				}
				for x := 0; x < opt.Width; x++ {
					if err := caster.Cast(&cam, opt.Mesh, opt.Width, opt.Height, x, y, out); err != nil {
						fail(err)
						break
					}
				}
				n := rowsDone.Add(1)
				if opt.Progress != nil {
					opt.Progress(int(n), opt.Height)
				}
			}
		}()
	}

	for y := 0; y < opt.Height; y++ {
		rowChan <- y
	}
	close(rowChan)

	wg.Wait()

	if firstErr != nil {
		return raycast.Buffers{}, firstErr
	}
	return out, nil
}

// Stats summarises a finished frame.
type Stats struct {
	Pixels int     `json:"pixels"`
	Hits   int     `json:"hits"`
	Near   float32 `json:"near"`
	Far    float32 `json:"far"`
}

// Summarize counts hit pixels and the distance range they span.
func Summarize(b raycast.Buffers) Stats {
	s := Stats{Pixels: len(b.Hits.Records)}
	for _, r := range b.Hits.Records {
		if !r.Hit {
			continue
		}
		if s.Hits == 0 || r.Distance < s.Near {
			s.Near = r.Distance
		}
		if s.Hits == 0 || r.Distance > s.Far {
			s.Far = r.Distance
		}
		s.Hits++
	}
	return s
}
