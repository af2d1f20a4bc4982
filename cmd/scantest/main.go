// Command scantest runs a recognition engine on one image and prints
// the raw regions, the reconstructed lines and the parsed products.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"listing-scan/internal/catalog"
	"listing-scan/internal/lines"
	"listing-scan/internal/ocr"
	"listing-scan/pkg/geometry"
)

func main() {
	imagePath := flag.String("image", "", "Path to image file")
	engineName := flag.String("engine", "words", "Engine: words or fulltext")
	language := flag.String("lang", "eng", "Recognition language")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: scantest -image <path> [-engine words|fulltext] [-lang eng]")
		os.Exit(1)
	}

	var engine ocr.Engine
	switch *engineName {
	case "words":
		eng, err := ocr.NewWordsEngine(*language)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create words engine: %v\n", err)
			os.Exit(1)
		}
		engine = eng
	case "fulltext":
		engine = ocr.NewFullTextEngine(*language)
	default:
		fmt.Fprintf(os.Stderr, "Unknown engine: %s (use words or fulltext)\n", *engineName)
		os.Exit(1)
	}
	defer engine.Close()

	fmt.Printf("Engine: %s\n", engine.Name())
	fmt.Printf("Image:  %s\n", *imagePath)

	rec, err := engine.Recognize(context.Background(), *imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Recognition failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nRegions: %d (structured=%v)\n", len(rec.Regions), rec.Structured)
	fmt.Printf("%-5s %9s %9s %11s  %s\n", "No", "CX", "CY", "Confidence", "Text")
	fmt.Println(strings.Repeat("-", 64))
	for i, r := range rec.Regions {
		center := geometry.Centroid(r.Polygon)
		fmt.Printf("%-5d %9.0f %9.0f %11.2f  %s\n", i+1, center.X, center.Y, r.Confidence, truncate(r.Text, 28))
	}

	var rawText string
	if rec.Structured {
		texts, blocks := lines.Reconstruct(rec.Regions, lines.DefaultOptions())
		fmt.Printf("\nReconstructed lines: %d\n", len(blocks))
		for i, b := range blocks {
			fmt.Printf("%-5d conf=%.2f words=%-3d %s\n", i+1, b.Confidence, b.Regions, texts[i])
		}
		rawText = strings.Join(texts, "\n")
	} else if len(rec.Regions) > 0 {
		rawText = rec.Regions[0].Text
	}

	products := catalog.Parse(rawText)
	fmt.Printf("\nProducts: %d\n", len(products))
	for i, p := range products {
		price := "n/a"
		if p.Price != nil {
			price = fmt.Sprintf("$%.2f", *p.Price)
		}
		fmt.Printf("%-5d %-40s %s\n", i+1, p.Name, price)
	}
}

// truncate shortens s to at most max runes, ending in an ellipsis.
// Cutting by runes keeps multibyte text valid.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
