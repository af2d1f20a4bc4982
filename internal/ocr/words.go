package ocr

import (
	"context"
	"fmt"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// WordsEngine recognizes individual words with bounding geometry using a
// persistent Tesseract client. The client keeps per-call state, so
// recognition calls are serialized; the engine itself is safe for
// concurrent use.
type WordsEngine struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// NewWordsEngine creates the regional recognition engine. The client is
// created once and reused for every call until Close.
func NewWordsEngine(language string) (*WordsEngine, error) {
	if language == "" {
		language = "eng"
	}

	client := gosseract.NewClient()
	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}

	return &WordsEngine{client: client}, nil
}

// Name identifies the engine in method labels.
func (e *WordsEngine) Name() string { return "words" }

// Close releases the Tesseract client.
func (e *WordsEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client != nil {
		err := e.client.Close()
		e.client = nil
		return err
	}
	return nil
}

// Recognize runs word-level recognition over the image at imagePath.
func (e *WordsEngine) Recognize(ctx context.Context, imagePath string) (*Recognition, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if e.client == nil {
		return nil, fmt.Errorf("engine is closed")
	}

	// PSM 3 = fully automatic page segmentation
	if err := e.client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		return nil, fmt.Errorf("failed to set PSM: %w", err)
	}

	if err := e.client.SetImage(imagePath); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("failed to get word boxes: %w", err)
	}

	return &Recognition{
		Regions:    RegionsFromBoxes(boxes),
		Structured: true,
	}, nil
}
