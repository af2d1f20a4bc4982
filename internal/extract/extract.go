// Package extract orchestrates preprocessing, recognition and line
// reconstruction into a single best-effort text extraction.
//
// The primary engine runs against every image variant first. The
// fallback engine runs only when the primary produced nothing at all.
// Candidates are scored and the single best one is returned.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"listing-scan/internal/lines"
	"listing-scan/internal/ocr"
	"listing-scan/internal/preprocess"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrNoEngine means no recognition capability is available.
	ErrNoEngine = errors.New("no recognition engine available")

	// ErrNoText means every recognition attempt failed or produced
	// empty text.
	ErrNoText = errors.New("all recognition attempts failed")
)

// ScoreFunc rates a candidate from its confidence and text length.
type ScoreFunc func(confidence float64, textLength int) float64

// DefaultScore prefers more text at good confidence.
func DefaultScore(confidence float64, textLength int) float64 {
	return confidence * float64(textLength)
}

// Options configures a Pipeline.
type Options struct {
	// ScratchDir is where per-request variant directories are created.
	// Empty means the system temp dir.
	ScratchDir string

	Preprocess preprocess.Options
	Lines      lines.Options

	// Score ranks candidates; nil means DefaultScore.
	Score ScoreFunc

	// Logger receives per-attempt diagnostics; nil means slog.Default.
	Logger *slog.Logger
}

// DefaultOptions returns a fully populated Options.
func DefaultOptions() Options {
	return Options{
		Preprocess: preprocess.DefaultOptions(),
		Lines:      lines.DefaultOptions(),
		Score:      DefaultScore,
	}
}

// Result is the best candidate produced by one extraction request.
type Result struct {
	ScanID     string        `json:"scan_id"`
	RawText    string        `json:"raw_text"`
	Confidence float64       `json:"confidence"`
	Blocks     []lines.Block `json:"blocks"` // nil when a whole-image engine won
	Method     string        `json:"method"` // "<engine>_<variant>"
	Duration   time.Duration `json:"-"`
}

// Pipeline runs extraction requests. Instances are safe for concurrent
// use; engine serialization is the engines' own concern.
type Pipeline struct {
	primary  ocr.Engine
	fallback ocr.Engine
	opts     Options
	log      *slog.Logger
}

// New builds a pipeline around the given engines. Either engine may be
// nil when that capability is unavailable; Extract fails only when both
// are.
func New(primary, fallback ocr.Engine, opts Options) *Pipeline {
	if opts.Score == nil {
		opts.Score = DefaultScore
	}
	if opts.Preprocess == (preprocess.Options{}) {
		opts.Preprocess = preprocess.DefaultOptions()
	}
	if opts.Lines == (lines.Options{}) {
		opts.Lines = lines.DefaultOptions()
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		primary:  primary,
		fallback: fallback,
		opts:     opts,
		log:      log,
	}
}

// Extract runs the full pipeline on the image at imagePath and returns
// the best candidate. Variant files live in a per-request scratch
// directory that is removed before Extract returns, on every path.
func (p *Pipeline) Extract(ctx context.Context, imagePath string) (*Result, error) {
	start := time.Now()

	if p.primary == nil && p.fallback == nil {
		return nil, ErrNoEngine
	}

	scanID := uuid.NewString()
	log := p.log.With("scan_id", scanID)

	scratch := p.opts.ScratchDir
	if scratch == "" {
		scratch = os.TempDir()
	}
	workDir, err := os.MkdirTemp(scratch, "listing-scan-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	variants, err := preprocess.Prepare(imagePath, workDir, p.opts.Preprocess)
	if err != nil {
		return nil, fmt.Errorf("preprocessing failed: %w", err)
	}
	log.Info("prepared image variants", "image", imagePath, "count", len(variants))

	var best *Result
	bestScore := 0.0

	attempt := func(engine ocr.Engine) error {
		for _, v := range variants {
			if err := ctx.Err(); err != nil {
				return err
			}

			rec, err := engine.Recognize(ctx, v.Path)
			if err != nil {
				log.Warn("recognition attempt failed",
					"engine", engine.Name(), "variant", v.Label, "error", err)
				continue
			}

			text, confidence, blocks := collapse(rec, p.opts.Lines)
			textLen := utf8.RuneCountInString(text)
			score := p.opts.Score(confidence, textLen)
			log.Info("recognition attempt",
				"engine", engine.Name(), "variant", v.Label,
				"confidence", confidence, "text_len", textLen, "score", score)

			// Strictly greater, so the first candidate wins ties and
			// empty text (score 0) is never selected.
			if score > bestScore {
				bestScore = score
				best = &Result{
					RawText:    text,
					Confidence: confidence,
					Blocks:     blocks,
					Method:     engine.Name() + "_" + v.Label,
				}
			}
		}
		return nil
	}

	if p.primary != nil {
		if err := attempt(p.primary); err != nil {
			return nil, err
		}
	} else {
		log.Warn("primary engine unavailable, using fallback only")
	}

	// The fallback only runs when the primary selected nothing.
	if best == nil && p.fallback != nil {
		if err := attempt(p.fallback); err != nil {
			return nil, err
		}
	}

	if best == nil {
		return nil, ErrNoText
	}

	best.ScanID = scanID
	best.Duration = time.Since(start)
	log.Info("selected best candidate",
		"method", best.Method, "score", bestScore, "elapsed", best.Duration)
	return best, nil
}

// collapse reduces one recognition to candidate text, confidence and
// block metadata. Structured results are reassembled into lines; a
// whole-image span is taken verbatim with no blocks.
func collapse(rec *ocr.Recognition, opts lines.Options) (string, float64, []lines.Block) {
	if rec.Structured {
		texts, blocks := lines.Reconstruct(rec.Regions, opts)
		if len(blocks) == 0 {
			return "", 0, nil
		}
		confs := make([]float64, len(blocks))
		for i, b := range blocks {
			confs[i] = b.Confidence
		}
		return strings.Join(texts, "\n"), stat.Mean(confs, nil), blocks
	}

	if len(rec.Regions) == 0 {
		return "", 0, nil
	}
	span := rec.Regions[0]
	return span.Text, span.Confidence, nil
}
