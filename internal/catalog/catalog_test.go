package catalog

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCatalog(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Catalog Suite")
}

var _ = Describe("Parse", func() {
	When("a line holds a name and a price", func() {
		It("yields a product with defaults filled in", func() {
			products := Parse("Vintage Lamp $45.00")
			Expect(products).To(HaveLen(1))

			p := products[0]
			Expect(p.Name).To(Equal("Vintage Lamp"))
			Expect(p.Price).NotTo(BeNil())
			Expect(*p.Price).To(Equal(45.00))
			Expect(p.Description).To(Equal("Vintage Lamp $45.00"))
			Expect(p.Condition).To(Equal("New"))
			Expect(p.Category).To(Equal(""))
		})
	})

	When("the price uses a comma fraction without a currency sign", func() {
		It("still detects the line as a product", func() {
			products := Parse("Teak Sideboard 89,99")
			Expect(products).To(HaveLen(1))
			Expect(products[0].Name).To(Equal("Teak Sideboard"))
			Expect(products[0].Price).NotTo(BeNil())
			// The comma is treated as a separator, not a decimal mark.
			Expect(*products[0].Price).To(Equal(8999.0))
		})
	})

	When("a line is only a price", func() {
		It("is dropped for lack of a name", func() {
			Expect(Parse("$12.50")).To(BeEmpty())
		})
	})

	When("the name is too short once prices are removed", func() {
		It("is dropped", func() {
			Expect(Parse("ab $1.00")).To(BeEmpty())
		})
	})

	When("a line has no price-shaped token", func() {
		It("keeps the whole line as a name-only product", func() {
			products := Parse("Beautiful handmade piece")
			Expect(products).To(HaveLen(1))

			p := products[0]
			Expect(p.Name).To(Equal("Beautiful handmade piece"))
			Expect(p.Price).To(BeNil())
			Expect(p.Description).To(Equal("Beautiful handmade piece"))
			Expect(p.Condition).To(Equal("New"))
		})

		It("still drops lines shorter than three characters", func() {
			Expect(Parse("ab")).To(BeEmpty())
		})
	})

	When("a line carries several prices", func() {
		It("keeps the first price and strips them all from the name", func() {
			products := Parse("Armchair $10.00 was $20.00")
			Expect(products).To(HaveLen(1))
			Expect(*products[0].Price).To(Equal(10.00))
			Expect(products[0].Name).NotTo(ContainSubstring("$"))
			Expect(products[0].Name).To(HavePrefix("Armchair"))
		})
	})

	When("parsing a whole scan", func() {
		It("emits products in line order and drops the noise", func() {
			raw := "PRODUCT CATALOG\n" +
				"Vintage Lamp $45.00\n" +
				"\n" +
				"Oak Bookshelf $120.00\n" +
				"$5.00\n" +
				"Ceramic Vase 15,00"
			products := Parse(raw)
			Expect(products).To(HaveLen(4))
			Expect(products[0].Name).To(Equal("PRODUCT CATALOG"))
			Expect(products[0].Price).To(BeNil())
			Expect(products[1].Name).To(Equal("Vintage Lamp"))
			Expect(products[2].Name).To(Equal("Oak Bookshelf"))
			Expect(products[3].Name).To(Equal("Ceramic Vase"))
		})
	})

	When("the input is empty", func() {
		It("returns an empty, non-nil list", func() {
			products := Parse("")
			Expect(products).NotTo(BeNil())
			Expect(products).To(BeEmpty())
		})
	})
})
