package ocr

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// transcribePrompt asks the model for a verbatim transcription. Layout
// hints (line breaks, column gaps) must survive because the catalog
// parser works line by line.
const transcribePrompt = `Transcribe ALL text visible in this image exactly as written.
Preserve the line structure: output one line of text per visual line in the image.
Separate side-by-side columns on the same line with two spaces.
Do not describe the image, do not add commentary, do not use markdown.
Output only the transcribed text.`

// GeminiEngine transcribes an image with a Gemini vision model. It is an
// alternative whole-image fallback for deployments without local
// Tesseract language data. The model reports no confidence, so a text
// quality heuristic stands in.
type GeminiEngine struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiEngine creates the Gemini-backed engine. An API key is
// required; without one the capability is unavailable.
func NewGeminiEngine(ctx context.Context, apiKey, modelName string) (*GeminiEngine, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-pro"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiEngine{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

// Name identifies the engine in method labels.
func (e *GeminiEngine) Name() string { return "gemini" }

// Close closes the Gemini client.
func (e *GeminiEngine) Close() error {
	return e.client.Close()
}

// Recognize transcribes the image at imagePath as a single span.
func (e *GeminiEngine) Recognize(ctx context.Context, imagePath string) (*Recognition, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}

	// Preprocessed variants are always PNG.
	parts := []genai.Part{
		genai.ImageData("png", data),
		genai.Text(transcribePrompt),
	}

	resp, err := e.model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("generating content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	// Strip markdown fences the model sometimes adds despite the prompt.
	text := strings.TrimSpace(sb.String())
	text = strings.TrimPrefix(text, "```text")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	return &Recognition{
		Regions:    []Region{fullImageRegion(imagePath, text, TextQualityConfidence(text))},
		Structured: false,
	}, nil
}

// TextQualityConfidence estimates recognition confidence from the shape
// of the text itself, for engines that report none.
func TextQualityConfidence(text string) float64 {
	if text == "" {
		return 0
	}

	confidence := 0.6 // base for a model that produced output

	if len(text) > 200 {
		confidence += 0.1
	}
	if len(strings.Fields(text)) > 20 {
		confidence += 0.1
	}

	// Mostly-alphabetic output suggests words rather than noise.
	alphaCount := 0
	for _, r := range text {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			alphaCount++
		}
	}
	alphaRatio := float64(alphaCount) / float64(len(text))
	if alphaRatio > 0.5 && alphaRatio < 0.9 {
		confidence += 0.1
	}

	if confidence > 0.9 {
		confidence = 0.9
	}
	return confidence
}
