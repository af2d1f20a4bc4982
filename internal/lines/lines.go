// Package lines reassembles word regions into reading-order text lines.
//
// Recognition engines report words as isolated regions with no notion of
// rows. Reconstruct groups regions into lines by vertical proximity and
// orders each line left to right, inferring word spacing from the
// horizontal gaps between neighbors. Each merged line passes through the
// corrector before it is returned.
package lines

import (
	"log/slog"
	"math"
	"sort"
	"strings"

	"listing-scan/internal/ocr"
	"listing-scan/internal/textfix"
	"listing-scan/pkg/geometry"

	"gonum.org/v1/gonum/stat"
)

// Options holds the spatial thresholds, all expressed as fractions of
// the average height of the two regions being compared.
type Options struct {
	// SameLineFactor is the largest vertical distance between region
	// tops that still counts as the same line.
	SameLineFactor float64

	// WordGapFactor bounds gaps that merge with no space, repairing
	// words the recognizer split apart ("fi" + "le").
	WordGapFactor float64

	// ColumnGapFactor bounds gaps that merge with a single space.
	// Anything wider gets a double space to mark a column break.
	ColumnGapFactor float64
}

// DefaultOptions returns thresholds tuned on marketplace listing
// screenshots with mixed table and free-form layout.
func DefaultOptions() Options {
	return Options{
		SameLineFactor:  0.5,
		WordGapFactor:   1.0,
		ColumnGapFactor: 2.0,
	}
}

// Block describes one merged line for callers that need geometry.
type Block struct {
	Text       string             `json:"text"`
	Confidence float64            `json:"confidence"`
	Polygon    []geometry.Point2D `json:"polygon"` // first member region's polygon
	Regions    int                `json:"regions"`
}

// measured is a region with its derived line-grouping coordinates.
type measured struct {
	region ocr.Region
	yTop   float64
	xLeft  float64
	xRight float64
	height float64
}

func measure(r ocr.Region) measured {
	bounds := geometry.BoundingBox(r.Polygon)
	m := measured{
		region: r,
		yTop:   bounds.Y,
		xLeft:  bounds.X,
		xRight: bounds.X + bounds.Width,
		height: bounds.Height,
	}
	// Full quads: top edge midpoint and the top-left to bottom-right
	// vertical span, which differ from the axis-aligned box when the
	// photo is skewed.
	if len(r.Polygon) >= 4 {
		m.yTop = (r.Polygon[0].Y + r.Polygon[1].Y) / 2
		m.height = math.Abs(r.Polygon[2].Y - r.Polygon[0].Y)
	}
	return m
}

// Reconstruct merges regions into corrected text lines plus parallel
// block metadata. Empty input produces empty output.
func Reconstruct(regions []ocr.Region, opts Options) ([]string, []Block) {
	if len(regions) == 0 {
		return nil, nil
	}

	ms := make([]measured, len(regions))
	for i, r := range regions {
		ms[i] = measure(r)
	}

	// Top to bottom.
	sort.SliceStable(ms, func(i, j int) bool {
		return ms[i].yTop < ms[j].yTop
	})

	// Group into lines. Each region is compared against its predecessor
	// in sorted order, so a gently sloping row still chains together.
	var grouped [][]measured
	current := []measured{ms[0]}
	for i := 1; i < len(ms); i++ {
		prev, curr := ms[i-1], ms[i]
		yDistance := math.Abs(curr.yTop - prev.yTop)
		threshold := (prev.height + curr.height) / 2 * opts.SameLineFactor
		if yDistance <= threshold {
			current = append(current, curr)
		} else {
			grouped = append(grouped, current)
			current = []measured{curr}
		}
	}
	grouped = append(grouped, current)

	var (
		texts  []string
		blocks []Block
	)
	for _, line := range grouped {
		// Left to right within the line.
		sort.SliceStable(line, func(i, j int) bool {
			return line[i].xLeft < line[j].xLeft
		})

		var sb strings.Builder
		for i, m := range line {
			if i > 0 {
				prev := line[i-1]
				gap := m.xLeft - prev.xRight
				avgHeight := (prev.height + m.height) / 2
				switch {
				case gap < avgHeight*opts.WordGapFactor:
					// Same word split by the recognizer.
				case gap < avgHeight*opts.ColumnGapFactor:
					sb.WriteString(" ")
				default:
					sb.WriteString("  ")
				}
			}
			sb.WriteString(m.region.Text)
		}

		merged := sb.String()
		corrected := textfix.Correct(merged)
		if corrected != merged {
			slog.Debug("applied text corrections", "before", merged, "after", corrected)
		}

		confs := make([]float64, len(line))
		for i, m := range line {
			confs[i] = m.region.Confidence
		}

		texts = append(texts, corrected)
		blocks = append(blocks, Block{
			Text:       corrected,
			Confidence: stat.Mean(confs, nil),
			Polygon:    line[0].region.Polygon,
			Regions:    len(line),
		})
	}

	return texts, blocks
}
