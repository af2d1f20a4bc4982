package main

import (
	"strings"
	"testing"
	"unicode/utf8"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestScantest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Scantest Suite")
}

var _ = Describe("truncate", func() {
	DescribeTable("shortens long text by runes",
		func(in, want string) {
			got := truncate(in, 28)
			Expect(got).To(Equal(want))
			Expect(utf8.ValidString(got)).To(BeTrue())
		},
		Entry("short text is unchanged", "oak shelf", "oak shelf"),
		Entry("text at the limit is unchanged", strings.Repeat("a", 28), strings.Repeat("a", 28)),
		Entry("long text gains an ellipsis", strings.Repeat("a", 40), strings.Repeat("a", 25)+"..."),
		Entry("multibyte text is cut between runes", strings.Repeat("é", 40), strings.Repeat("é", 25)+"..."),
	)
})
