package preprocess

import (
	"fmt"
	"image"
	"math"
	"path/filepath"
	"strings"

	"gocv.io/x/gocv"
)

// Variant is one preprocessed rendition of the input image.
type Variant struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// Options controls variant generation.
type Options struct {
	// Upscale150Below enables the 150% variant when either dimension is
	// below this many pixels.
	Upscale150Below int

	// Upscale200Below enables the 200% variant when either dimension is
	// below this many pixels.
	Upscale200Below int
}

// DefaultOptions returns the upscale cutoffs tuned for listing
// screenshots, where body text drops under ~10px on small captures.
func DefaultOptions() Options {
	return Options{
		Upscale150Below: 2000,
		Upscale200Below: 1500,
	}
}

// Prepare loads the image at path and writes its recognition variants
// into dir. Variant files are named after the input file.
func Prepare(path, dir string, opts Options) ([]Variant, error) {
	img, err := Load(path)
	if err != nil {
		return nil, err
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Generate(img, base, dir, opts)
}

// Generate writes preprocessed variants of img into dir as PNG files
// named <base>_<label>.png. Variants come back in a fixed order:
// original, sharpened, enhanced_sharp, contrast_sharp, then the
// conditional 150pct_sharp and 200pct_sharp upscales for small images.
func Generate(img image.Image, base, dir string, opts Options) ([]Variant, error) {
	mat := imageToMat(Normalize(img))
	defer mat.Close()

	var variants []Variant
	save := func(label string, m gocv.Mat) error {
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", base, label))
		if ok := gocv.IMWrite(path, m); !ok {
			return fmt.Errorf("failed to write %s variant", label)
		}
		variants = append(variants, Variant{Label: label, Path: path})
		return nil
	}

	// 1. Baseline.
	if err := save("original", mat); err != nil {
		return nil, err
	}

	// 2. Single sharpen pass.
	sharpened := sharpen(mat)
	err := save("sharpened", sharpened)
	if err != nil {
		sharpened.Close()
		return nil, err
	}

	// 3. Second sharpen pass on top of the first.
	enhanced := sharpen(sharpened)
	sharpened.Close()
	err = save("enhanced_sharp", enhanced)
	enhanced.Close()
	if err != nil {
		return nil, err
	}

	// 4. Contrast boost, then sharpen.
	contrasted := adjustContrast(mat, 1.5)
	contrastSharp := sharpen(contrasted)
	contrasted.Close()
	err = save("contrast_sharp", contrastSharp)
	contrastSharp.Close()
	if err != nil {
		return nil, err
	}

	// 5. 150% upscale for small images.
	width, height := mat.Cols(), mat.Rows()
	if width < opts.Upscale150Below || height < opts.Upscale150Below {
		up := upscale(mat, 1.5)
		upSharp := sharpen(up)
		up.Close()
		err = save("150pct_sharp", upSharp)
		upSharp.Close()
		if err != nil {
			return nil, err
		}
	}

	// 6. 200% upscale for very small images.
	if width < opts.Upscale200Below || height < opts.Upscale200Below {
		up := upscale(mat, 2.0)
		upSharp := sharpen(up)
		up.Close()
		err = save("200pct_sharp", upSharp)
		upSharp.Close()
		if err != nil {
			return nil, err
		}
	}

	return variants, nil
}

// sharpen applies an unsharp mask approximating the classic 3x3 sharpen
// kernel (center 32, neighbors -2, divisor 16).
func sharpen(src gocv.Mat) gocv.Mat {
	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(src, &blurred, image.Pt(3, 3), 0, 0, gocv.BorderDefault)

	dst := gocv.NewMat()
	gocv.AddWeighted(src, 2.0, blurred, -1.0, 0, &dst)
	return dst
}

// adjustContrast interpolates away from the solid mean-luminance image.
// A factor of 1.0 returns the input unchanged; above 1.0 increases
// contrast.
func adjustContrast(src gocv.Mat, factor float64) gocv.Mat {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)

	mean := math.Round(gray.Mean().Val1)
	solid := gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(mean, mean, mean, 0),
		src.Rows(), src.Cols(), gocv.MatTypeCV8UC3)
	defer solid.Close()

	dst := gocv.NewMat()
	gocv.AddWeighted(src, factor, solid, 1.0-factor, 0, &dst)
	return dst
}

// upscale resizes by factor with Lanczos resampling, which keeps glyph
// edges usable for recognition.
func upscale(src gocv.Mat, factor float64) gocv.Mat {
	dst := gocv.NewMat()
	size := image.Pt(
		int(float64(src.Cols())*factor),
		int(float64(src.Rows())*factor))
	gocv.Resize(src, &dst, size, 0, 0, gocv.InterpolationLanczos4)
	return dst
}
