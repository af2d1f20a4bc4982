package geometry

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestGeometry(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Geometry Suite")
}

var _ = Describe("Rect", func() {
	It("lists corners clockwise from the top-left", func() {
		r := NewRect(10, 20, 100, 50)
		Expect(r.Corners()).To(Equal([]Point2D{
			{X: 10, Y: 20},
			{X: 110, Y: 20},
			{X: 110, Y: 70},
			{X: 10, Y: 70},
		}))
	})
})

var _ = Describe("RectInt", func() {
	It("converts to the float form", func() {
		r := RectInt{X: 1, Y: 2, Width: 3, Height: 4}
		Expect(r.ToFloat()).To(Equal(Rect{X: 1, Y: 2, Width: 3, Height: 4}))
	})
})

var _ = Describe("Centroid", func() {
	It("averages point positions", func() {
		points := []Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
		Expect(Centroid(points)).To(Equal(Point2D{X: 5, Y: 5}))
	})

	It("is zero for no points", func() {
		Expect(Centroid(nil)).To(Equal(Point2D{}))
	})
})

var _ = Describe("BoundingBox", func() {
	It("wraps a point set", func() {
		points := []Point2D{{X: 5, Y: 8}, {X: -3, Y: 2}, {X: 12, Y: 4}}
		Expect(BoundingBox(points)).To(Equal(Rect{X: -3, Y: 2, Width: 15, Height: 6}))
	})

	It("is zero for no points", func() {
		Expect(BoundingBox(nil)).To(Equal(Rect{}))
	})
})
