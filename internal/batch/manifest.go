package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"

	"mesh-raycaster/internal/output"
)

// ManifestEntry represents one frame in the output manifest.
type ManifestEntry struct {
	Frame int     `json:"frame"`
	Angle float64 `json:"angle_deg"`
	Image string  `json:"image"`
	Hits  int     `json:"hits"`
	Near  float32 `json:"near,omitempty"`
	Far   float32 `json:"far,omitempty"`
	Error string  `json:"error,omitempty"`
}

// Manifest builds the manifest entries for a run.
func Manifest(results []Result) []ManifestEntry {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		entries[i] = ManifestEntry{
			Frame: r.Frame,
			Angle: r.Angle,
			Image: r.Name,
			Hits:  r.Stats.Hits,
			Near:  r.Stats.Near,
			Far:   r.Stats.Far,
			Error: r.Error,
		}
	}
	return entries
}

// WriteManifest stores manifest.json through the sink.
func WriteManifest(ctx context.Context, sink output.Sink, results []Result) error {
	data, err := json.MarshalIndent(Manifest(results), "", "  ")
	if err != nil {
		return err
	}
	return sink.Put(ctx, "manifest.json", data, "application/json")
}

// WriteAnimation stores the frames as orbit.webp. Every frame must have
// rendered successfully.
func WriteAnimation(ctx context.Context, sink output.Sink, results []Result, frameMs uint) error {
	frames := make([]image.Image, 0, len(results))
	for _, r := range results {
		if !r.Success || r.Image == nil {
			return fmt.Errorf("batch: frame %d missing, animation skipped", r.Frame)
		}
		frames = append(frames, r.Image)
	}
	var buf bytes.Buffer
	if err := output.EncodeAnimation(&buf, frames, frameMs); err != nil {
		return err
	}
	return sink.Put(ctx, "orbit.webp", buf.Bytes(), output.WebP.ContentType())
}
