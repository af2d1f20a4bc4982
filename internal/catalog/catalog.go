// Package catalog parses recognized text into product entries.
package catalog

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Product is a single catalog entry recovered from one text line.
// Price is nil when the line carried no price token or the token could
// not be parsed as a number.
type Product struct {
	Name        string   `json:"name"`
	Price       *float64 `json:"price"`
	Description string   `json:"description"`
	Condition   string   `json:"condition"`
	Category    string   `json:"category"`
}

// priceRe matches amounts with a two-digit fraction, with or without a
// currency sign: "$45.00", "1299,99".
var priceRe = regexp.MustCompile(`\$?\d+[.,]\d{2}`)

// Parse scans raw text line by line for product entries. Every line of
// three or more characters yields a product as long as at least three
// characters of name remain once every price-shaped token is removed.
// Lines without a price keep a nil price; the original line is kept as
// the description either way.
func Parse(rawText string) []Product {
	products := []Product{}
	for _, line := range strings.Split(rawText, "\n") {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) < 3 {
			continue
		}

		token := priceRe.FindString(line)
		name := strings.TrimSpace(priceRe.ReplaceAllString(line, ""))
		if utf8.RuneCountInString(name) < 3 {
			continue
		}

		products = append(products, Product{
			Name:        name,
			Price:       parsePrice(token),
			Description: line,
			Condition:   "New",
			Category:    "",
		})
	}
	return products
}

// parsePrice converts a matched token to a number, dropping the
// currency sign and any comma separators. An empty token means the
// line had no price.
func parsePrice(token string) *float64 {
	if token == "" {
		return nil
	}
	cleaned := strings.ReplaceAll(strings.TrimPrefix(token, "$"), ",", "")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &v
}
