package raycast

import (
	"fmt"
	"image"
	"math"

	"mesh-raycaster/internal/camera"
	"mesh-raycaster/internal/mathutil"
)

// HitRecord is the nearest intersection found for one pixel. When Hit is
// false the geometric fields are zero and Distance is +Inf.
type HitRecord struct {
	Hit           bool          `json:"hit"`
	Normal        mathutil.Vec3 `json:"normal"`
	Position      mathutil.Vec3 `json:"position"`
	ViewDirection mathutil.Vec3 `json:"view_direction"`
	Distance      float32       `json:"distance"`
}

// Miss is the record every pixel starts from.
func Miss() HitRecord {
	return HitRecord{Distance: float32(math.Inf(1))}
}

// RayBuffer holds one primary ray per pixel, row-major.
type RayBuffer struct {
	Width  int
	Height int
	Rays   []camera.Ray
}

// NewRayBuffer allocates a zeroed ray buffer.
func NewRayBuffer(w, h int) *RayBuffer {
	return &RayBuffer{Width: w, Height: h, Rays: make([]camera.Ray, w*h)}
}

// At returns the ray stored for pixel (x, y).
func (b *RayBuffer) At(x, y int) camera.Ray {
	return b.Rays[y*b.Width+x]
}

// HitBuffer holds one hit record per pixel, row-major.
type HitBuffer struct {
	Width   int
	Height  int
	Records []HitRecord
}

// NewHitBuffer allocates a buffer with every pixel set to Miss.
func NewHitBuffer(w, h int) *HitBuffer {
	recs := make([]HitRecord, w*h)
	miss := Miss()
	for i := range recs {
		recs[i] = miss
	}
	return &HitBuffer{Width: w, Height: h, Records: recs}
}

// At returns the hit record stored for pixel (x, y).
func (b *HitBuffer) At(x, y int) HitRecord {
	return b.Records[y*b.Width+x]
}

// PixelBuffer holds the displayable color as flat RGBA bytes.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []uint8 // RGBA interleaved, len = W*H*4
}

// NewPixelBuffer allocates a zeroed (transparent) color buffer.
func NewPixelBuffer(w, h int) *PixelBuffer {
	return &PixelBuffer{Width: w, Height: h, Pix: make([]uint8, w*h*4)}
}

// RGBA returns the four channels of pixel (x, y).
func (b *PixelBuffer) RGBA(x, y int) [4]uint8 {
	i := (y*b.Width + x) * 4
	return [4]uint8{b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]}
}

func (b *PixelBuffer) set(x, y int, c [4]uint8) {
	i := (y*b.Width + x) * 4
	copy(b.Pix[i:i+4], c[:])
}

// Image exposes the buffer as an NRGBA image sharing the same memory.
func (b *PixelBuffer) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: b.Width * 4,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// Buffers groups the three per-pixel outputs of a frame.
type Buffers struct {
	Rays   *RayBuffer
	Hits   *HitBuffer
	Pixels *PixelBuffer
}

// NewBuffers allocates all three outputs for a w×h surface.
func NewBuffers(w, h int) Buffers {
	return Buffers{
		Rays:   NewRayBuffer(w, h),
		Hits:   NewHitBuffer(w, h),
		Pixels: NewPixelBuffer(w, h),
	}
}

// check verifies every buffer is present and shaped w×h.
func (o Buffers) check(w, h int) error {
	if o.Rays == nil || o.Hits == nil || o.Pixels == nil {
		return fmt.Errorf("raycast: %w: missing output buffer", ErrInvalidArgument)
	}
	shapes := [3][3]int{
		{o.Rays.Width, o.Rays.Height, len(o.Rays.Rays)},
		{o.Hits.Width, o.Hits.Height, len(o.Hits.Records)},
		{o.Pixels.Width, o.Pixels.Height, len(o.Pixels.Pix) / 4},
	}
	for _, s := range shapes {
		if s[0] != w || s[1] != h || s[2] != w*h {
			return fmt.Errorf("raycast: %w: buffer %dx%d (%d cells) does not match surface %dx%d",
				ErrInvalidArgument, s[0], s[1], s[2], w, h)
		}
	}
	return nil
}
