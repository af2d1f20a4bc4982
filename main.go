// Package main provides the listing-scan command line interface. It
// runs a catalog photo through the extraction pipeline and prints the
// recognized text, optionally parsed into product entries.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"listing-scan/internal/catalog"
	"listing-scan/internal/extract"
	"listing-scan/internal/lines"
	"listing-scan/internal/ocr"
	"listing-scan/internal/version"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
)

// scanOutput is the machine readable shape of one scan.
type scanOutput struct {
	ScanID            string            `json:"scan_id"`
	Method            string            `json:"method"`
	Confidence        float64           `json:"confidence"`
	ProcessingSeconds float64           `json:"processing_time"`
	RawText           string            `json:"raw_text"`
	Blocks            []lines.Block     `json:"blocks,omitempty"`
	Products          []catalog.Product `json:"products,omitempty"`
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" {
			fmt.Println(version.String())
			os.Exit(0)
		}
	}

	// Populate the environment from .env before flags read it.
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	fs := ff.NewFlagSet("listing-scan")
	var (
		imagePath    = fs.StringLong("image", "", "Path to the catalog photo (PNG, JPEG, GIF, BMP, TIFF, WebP, HEIC or PDF)")
		language     = fs.StringLong("lang", "eng", "Recognition language")
		fallbackName = fs.StringLong("fallback", "fulltext", "Fallback engine: 'fulltext', 'gemini' or 'none'")
		geminiKey    = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel  = fs.StringLong("gemini-model", "gemini-2.5-pro", "Google Gemini model name")
		scratchDir   = fs.StringLong("scratch", "", "Directory for per-scan variant files (default: system temp dir)")
		wantProducts = fs.BoolLong("products", "Parse product entries out of the recognized text")
		asJSON       = fs.BoolLong("json", "Print the result as JSON")
		verbose      = fs.BoolLong("verbose", "Enable debug logging")
		showVersion  = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("LISTING_SCAN"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version.String())
		os.Exit(0)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if *imagePath == "" {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintln(os.Stderr, "error: --image is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var primary ocr.Engine
	if eng, err := ocr.NewWordsEngine(*language); err != nil {
		slog.Warn("words engine unavailable", "error", err)
	} else {
		primary = eng
		defer eng.Close()
	}

	var fallback ocr.Engine
	switch *fallbackName {
	case "fulltext":
		fallback = ocr.NewFullTextEngine(*language)
	case "gemini":
		apiKey := *geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if eng, err := ocr.NewGeminiEngine(ctx, apiKey, *geminiModel); err != nil {
			slog.Warn("gemini engine unavailable", "error", err)
		} else {
			fallback = eng
			defer eng.Close()
		}
	case "none":
	default:
		slog.Error("invalid fallback engine", "engine", *fallbackName, "valid", "fulltext, gemini or none")
		os.Exit(1)
	}

	opts := extract.DefaultOptions()
	opts.ScratchDir = *scratchDir
	pipeline := extract.New(primary, fallback, opts)

	result, err := pipeline.Extract(ctx, *imagePath)
	if err != nil {
		slog.Error("extraction failed", "image", *imagePath, "error", err)
		os.Exit(1)
	}

	var products []catalog.Product
	if *wantProducts {
		products = catalog.Parse(result.RawText)
	}

	if *asJSON {
		out := scanOutput{
			ScanID:            result.ScanID,
			Method:            result.Method,
			Confidence:        result.Confidence,
			ProcessingSeconds: result.Duration.Seconds(),
			RawText:           result.RawText,
			Blocks:            result.Blocks,
			Products:          products,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			slog.Error("failed to encode result", "error", err)
			os.Exit(1)
		}
		return
	}

	fmt.Printf("Scan:       %s\n", result.ScanID)
	fmt.Printf("Method:     %s\n", result.Method)
	fmt.Printf("Confidence: %.2f\n", result.Confidence)
	fmt.Printf("Time:       %.2fs\n", result.Duration.Seconds())
	fmt.Println()
	fmt.Println(result.RawText)

	if *wantProducts {
		fmt.Printf("\nProducts (%d):\n", len(products))
		for i, p := range products {
			price := "n/a"
			if p.Price != nil {
				price = fmt.Sprintf("$%.2f", *p.Price)
			}
			fmt.Printf("%3d. %-40s %s\n", i+1, p.Name, price)
		}
	}
}
