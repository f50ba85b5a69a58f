package output

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
)

// Format is an image container for rendered frames.
type Format string

const (
	PNG  Format = "png"
	WebP Format = "webp"
	TGA  Format = "tga"
	BMP  Format = "bmp"
)

// ParseFormat accepts a format name or file extension, case-insensitive.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(s), "."))
	switch f {
	case PNG, WebP, TGA, BMP:
		return f, nil
	case "":
		return PNG, nil
	}
	return "", fmt.Errorf("output: unknown format %q", s)
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// ContentType returns the MIME type used for uploads.
func (f Format) ContentType() string {
	switch f {
	case WebP:
		return "image/webp"
	case TGA:
		return "image/x-tga"
	case BMP:
		return "image/bmp"
	}
	return "image/png"
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	var err error
	switch f {
	case PNG:
		err = png.Encode(w, img)
	case WebP:
		err = nativewebp.Encode(w, img, nil)
	case TGA:
		err = tga.Encode(w, img)
	case BMP:
		err = bmp.Encode(w, img)
	default:
		return fmt.Errorf("output: unknown format %q", f)
	}
	if err != nil {
		return fmt.Errorf("output: %s encode: %w", f, err)
	}
	return nil
}

// EncodeBytes is Encode into a fresh buffer.
func EncodeBytes(img image.Image, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeAnimation writes frames as a looping animated WebP, each frame shown
// for frameMs milliseconds.
func EncodeAnimation(w io.Writer, frames []image.Image, frameMs uint) error {
	ani := &nativewebp.Animation{
		Images:    frames,
		Durations: make([]uint, len(frames)),
		Disposals: make([]uint, len(frames)),
	}
	for i := range frames {
		ani.Durations[i] = frameMs
	}
	if err := nativewebp.EncodeAll(w, ani, nil); err != nil {
		return fmt.Errorf("output: webp animation: %w", err)
	}
	return nil
}
