// Package postprocess resizes rendered frames before encoding.
package postprocess

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Scale resizes a rendered frame to w×h with a Catmull-Rom filter. The
// filter runs on premultiplied color, so a transparent background does not
// bleed dark fringes into the edges of the mesh. A non-positive target or
// the current size returns img itself.
func Scale(img *image.NRGBA, w, h int) *image.NRGBA {
	src := img.Bounds()
	if w <= 0 || h <= 0 || (src.Dx() == w && src.Dy() == h) {
		return img
	}

	premul := image.NewRGBA(src)
	draw.Copy(premul, src.Min, img, src, draw.Src, nil)

	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), premul, src, draw.Src, nil)

	out := image.NewNRGBA(scaled.Bounds())
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if c := scaled.RGBAAt(x, y); c.A > 0 {
				out.SetNRGBA(x, y, unpremultiply(c))
			}
		}
	}
	return out
}

// unpremultiply tolerates channels above alpha, which filter overshoot can
// produce, by saturating at 255.
func unpremultiply(c color.RGBA) color.NRGBA {
	a := uint32(c.A)
	ch := func(v uint8) uint8 {
		n := (uint32(v)*255 + a/2) / a
		if n > 255 {
			n = 255
		}
		return uint8(n)
	}
	return color.NRGBA{R: ch(c.R), G: ch(c.G), B: ch(c.B), A: c.A}
}
