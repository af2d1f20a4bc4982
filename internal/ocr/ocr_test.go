package ocr

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"listing-scan/pkg/geometry"

	"github.com/otiai10/gosseract/v2"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

func TestOcr(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "OCR Suite")
}

// renderTextImage rasterizes text onto a white background and upscales
// it to a size Tesseract handles comfortably.
func renderTextImage(dir, text string) string {
	small := image.NewRGBA(image.Rect(0, 0, 160, 40))
	draw.Draw(small, small.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  small,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(10, 24),
	}
	d.DrawString(text)

	big := image.NewRGBA(image.Rect(0, 0, 640, 160))
	xdraw.NearestNeighbor.Scale(big, big.Bounds(), small, small.Bounds(), xdraw.Src, nil)

	path := filepath.Join(dir, "sample.png")
	f, err := os.Create(path)
	Expect(err).NotTo(HaveOccurred())
	defer f.Close()
	Expect(png.Encode(f, big)).To(Succeed())
	return path
}

var _ = Describe("RegionsFromBoxes", func() {
	It("converts word boxes to trimmed, normalized regions", func() {
		boxes := []gosseract.BoundingBox{
			{Box: image.Rect(10, 20, 110, 40), Word: " Lamp ", Confidence: 91.5},
			{Box: image.Rect(120, 20, 160, 40), Word: "   ", Confidence: 80},
			{Box: image.Rect(0, 50, 40, 70), Word: "$45.00", Confidence: 88},
		}

		regions := RegionsFromBoxes(boxes)
		Expect(regions).To(HaveLen(2))

		Expect(regions[0].Text).To(Equal("Lamp"))
		Expect(regions[0].Confidence).To(BeNumerically("~", 0.915, 1e-9))
		Expect(regions[0].Polygon).To(Equal([]geometry.Point2D{
			{X: 10, Y: 20}, {X: 110, Y: 20}, {X: 110, Y: 40}, {X: 10, Y: 40},
		}))

		Expect(regions[1].Text).To(Equal("$45.00"))
	})

	It("is empty for no boxes", func() {
		Expect(RegionsFromBoxes(nil)).To(BeEmpty())
	})
})

var _ = Describe("MeanWordConfidence", func() {
	It("averages and normalizes to 0-1", func() {
		boxes := []gosseract.BoundingBox{
			{Confidence: 80},
			{Confidence: 90},
		}
		Expect(MeanWordConfidence(boxes)).To(Equal(0.85))
	})

	It("is zero for no boxes", func() {
		Expect(MeanWordConfidence(nil)).To(Equal(0.0))
	})
})

var _ = Describe("TextQualityConfidence", func() {
	It("is zero for empty text", func() {
		Expect(TextQualityConfidence("")).To(Equal(0.0))
	})

	It("starts at the base for short plain text", func() {
		Expect(TextQualityConfidence("Hello world")).To(Equal(0.6))
	})

	It("rewards a healthy mix of letters and symbols", func() {
		Expect(TextQualityConfidence("Vintage Lamp $45.00")).To(BeNumerically("~", 0.7, 1e-9))
	})

	It("caps long wordy output at 0.9", func() {
		text := strings.Repeat("vintage lamp oak desk chair ", 10)
		Expect(TextQualityConfidence(text)).To(Equal(0.9))
	})

	It("does not reward digit noise", func() {
		Expect(TextQualityConfidence("1234.56 7890")).To(Equal(0.6))
	})
})

var _ = Describe("fullImageRegion", func() {
	It("spans the image bounds", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "img.png")
		img := image.NewRGBA(image.Rect(0, 0, 24, 16))
		f, err := os.Create(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(png.Encode(f, img)).To(Succeed())
		f.Close()

		r := fullImageRegion(path, "some text", 0.5)
		Expect(r.Text).To(Equal("some text"))
		Expect(r.Confidence).To(Equal(0.5))
		Expect(r.Polygon).To(Equal([]geometry.Point2D{
			{X: 0, Y: 0}, {X: 24, Y: 0}, {X: 24, Y: 16}, {X: 0, Y: 16},
		}))
	})

	It("keeps the span when the bounds are unreadable", func() {
		r := fullImageRegion("no-such-file.png", "text survives", 0.4)
		Expect(r.Text).To(Equal("text survives"))
		Expect(r.Confidence).To(Equal(0.4))
		Expect(r.Polygon).To(HaveLen(4))
		Expect(r.Polygon[2]).To(Equal(geometry.Point2D{}))
	})
})

var _ = Describe("WordsEngine", func() {
	It("refuses to recognize after Close", func() {
		eng, err := NewWordsEngine("eng")
		Expect(err).NotTo(HaveOccurred())
		Expect(eng.Close()).To(Succeed())

		_, err = eng.Recognize(context.Background(), "whatever.png")
		Expect(err).To(HaveOccurred())
	})

	It("stops before any work when the context is cancelled", func() {
		eng, err := NewWordsEngine("")
		Expect(err).NotTo(HaveOccurred())
		defer eng.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = eng.Recognize(ctx, "whatever.png")
		Expect(err).To(MatchError(context.Canceled))
	})

	It("recognizes rendered words with geometry", func() {
		if _, err := exec.LookPath("tesseract"); err != nil {
			Skip("tesseract is not installed")
		}
		eng, err := NewWordsEngine("eng")
		Expect(err).NotTo(HaveOccurred())
		defer eng.Close()

		path := renderTextImage(GinkgoT().TempDir(), "HELLO 500")
		rec, err := eng.Recognize(context.Background(), path)
		if err != nil {
			Skip("tesseract language data unavailable: " + err.Error())
		}

		Expect(rec.Structured).To(BeTrue())
		for _, r := range rec.Regions {
			Expect(r.Text).NotTo(BeEmpty())
			Expect(r.Confidence).To(BeNumerically(">=", 0))
			Expect(r.Confidence).To(BeNumerically("<=", 1))
			Expect(r.Polygon).To(HaveLen(4))
		}
	})
})

var _ = Describe("FullTextEngine", func() {
	It("produces one span covering the image", func() {
		if _, err := exec.LookPath("tesseract"); err != nil {
			Skip("tesseract is not installed")
		}
		eng := NewFullTextEngine("eng")
		defer eng.Close()

		path := renderTextImage(GinkgoT().TempDir(), "HELLO 500")
		rec, err := eng.Recognize(context.Background(), path)
		if err != nil {
			Skip("tesseract language data unavailable: " + err.Error())
		}

		Expect(rec.Structured).To(BeFalse())
		Expect(rec.Regions).To(HaveLen(1))
		span := rec.Regions[0]
		Expect(span.Polygon).To(Equal([]geometry.Point2D{
			{X: 0, Y: 0}, {X: 640, Y: 0}, {X: 640, Y: 160}, {X: 0, Y: 160},
		}))
		Expect(span.Confidence).To(BeNumerically(">=", 0))
		Expect(span.Confidence).To(BeNumerically("<=", 1))
	})
})
