// Command preptest generates the preprocessing variants for one image
// and reports what was written.
package main

import (
	"flag"
	"fmt"
	"os"

	"listing-scan/internal/preprocess"
)

func main() {
	imagePath := flag.String("image", "", "Path to image file (PNG, JPEG, GIF, BMP, TIFF, WebP, HEIC or PDF)")
	outDir := flag.String("out", ".", "Directory for the generated variants")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: preptest -image <path> [-out <dir>]")
		os.Exit(1)
	}

	img, err := preprocess.Load(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	bounds := img.Bounds()
	fmt.Printf("Loaded image: %dx%d pixels\n", bounds.Dx(), bounds.Dy())

	opts := preprocess.DefaultOptions()
	fmt.Printf("Upscale 150%% below: %dpx\n", opts.Upscale150Below)
	fmt.Printf("Upscale 200%% below: %dpx\n", opts.Upscale200Below)

	variants, err := preprocess.Prepare(*imagePath, *outDir, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Preprocessing failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nGenerated %d variants:\n", len(variants))
	for i, v := range variants {
		info, err := os.Stat(v.Path)
		size := int64(0)
		if err == nil {
			size = info.Size()
		}
		fmt.Printf("%-3d %-16s %8d bytes  %s\n", i+1, v.Label, size, v.Path)
	}
}
