// Package ocr provides text recognition engines for listing photographs.
//
// Two kinds of engine sit behind one interface: regional engines report
// every recognized word with its location, whole-image engines report a
// single text span covering the full image. Both normalize confidence
// to the 0-1 range so results stay comparable.
package ocr

import (
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"listing-scan/pkg/geometry"

	"github.com/otiai10/gosseract/v2"
	"gonum.org/v1/gonum/stat"
)

// Region is a single recognized text span with its location.
type Region struct {
	Text       string             `json:"text"`
	Confidence float64            `json:"confidence"` // 0.0 - 1.0
	Polygon    []geometry.Point2D `json:"polygon"`    // four corners, clockwise from top-left
}

// Recognition is the output of one engine pass over one image.
type Recognition struct {
	// Regions holds the recognized spans. Empty means the engine ran but
	// found no text, which is a valid result rather than an error.
	Regions []Region

	// Structured reports whether region geometry is fine-grained enough
	// for spatial line reconstruction. Whole-image engines set it false.
	Structured bool
}

// Engine is a single recognition capability.
type Engine interface {
	// Name identifies the engine in diagnostics and method labels.
	Name() string

	// Recognize runs recognition over the image at the given path.
	Recognize(ctx context.Context, imagePath string) (*Recognition, error)

	// Close releases engine resources.
	Close() error
}

// RegionsFromBoxes converts Tesseract word boxes to regions, dropping
// empty words and normalizing confidence from 0-100 to 0-1.
func RegionsFromBoxes(boxes []gosseract.BoundingBox) []Region {
	var regions []Region
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		bounds := geometry.RectInt{
			X:      box.Box.Min.X,
			Y:      box.Box.Min.Y,
			Width:  box.Box.Dx(),
			Height: box.Box.Dy(),
		}
		regions = append(regions, Region{
			Text:       text,
			Confidence: box.Confidence / 100.0,
			Polygon:    bounds.ToFloat().Corners(),
		})
	}
	return regions
}

// MeanWordConfidence averages word-level confidences, normalized to 0-1.
func MeanWordConfidence(boxes []gosseract.BoundingBox) float64 {
	if len(boxes) == 0 {
		return 0
	}
	confs := make([]float64, len(boxes))
	for i, b := range boxes {
		confs[i] = b.Confidence
	}
	return stat.Mean(confs, nil) / 100.0
}

// fullImageRegion wraps a whole-image text span in a single region
// covering the image bounds. Unreadable dimensions leave a zero-size
// polygon; the span itself is still usable.
func fullImageRegion(imagePath, text string, confidence float64) Region {
	var rect geometry.Rect
	if f, err := os.Open(imagePath); err == nil {
		if cfg, _, err := image.DecodeConfig(f); err == nil {
			rect = geometry.NewRect(0, 0, float64(cfg.Width), float64(cfg.Height))
		}
		f.Close()
	}
	return Region{
		Text:       text,
		Confidence: confidence,
		Polygon:    rect.Corners(),
	}
}
