package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// FullTextEngine recognizes a whole image as one text span. A fresh
// Tesseract client is created per call, so the engine carries no state
// and is safe for concurrent use.
type FullTextEngine struct {
	language string
}

// NewFullTextEngine creates the whole-image fallback engine.
func NewFullTextEngine(language string) *FullTextEngine {
	if language == "" {
		language = "eng"
	}
	return &FullTextEngine{language: language}
}

// Name identifies the engine in method labels.
func (e *FullTextEngine) Name() string { return "fulltext" }

// Close is a no-op; clients are per-call.
func (e *FullTextEngine) Close() error { return nil }

// Recognize runs whole-image recognition over the image at imagePath.
// The result is a single region spanning the image. Confidence is the
// mean of word confidences, or 0.0 when confidence extraction fails;
// the text is still returned in that case.
func (e *FullTextEngine) Recognize(ctx context.Context, imagePath string) (*Recognition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.language); err != nil {
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}
	if err := client.SetImage(imagePath); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	confidence := 0.0
	if boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD); err == nil {
		confidence = MeanWordConfidence(boxes)
	}

	return &Recognition{
		Regions:    []Region{fullImageRegion(imagePath, text, confidence)},
		Structured: false,
	}, nil
}
