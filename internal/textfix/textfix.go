// Package textfix repairs systematic OCR misreads in recognized text.
//
// Corrections run as an ordered list of named rules in three passes:
// words the recognizer split apart are rejoined, then merged all-caps
// runs are segmented against a known vocabulary, then a substitution
// table repairs common character confusions. Order within each pass is
// significant.
package textfix

import (
	"regexp"
	"sort"
	"strings"
)

// rule is one named correction applied to a whole line.
type rule struct {
	name  string
	apply func(string) string
}

// rx builds a regex substitution rule.
func rx(name, pattern, repl string) rule {
	re := regexp.MustCompile(pattern)
	return rule{
		name: name,
		apply: func(s string) string {
			return re.ReplaceAllString(s, repl)
		},
	}
}

// rejoinRules repair words the recognizer broke in half.
var rejoinRules = []rule{
	rx("rejoin-condition", `\bCONDIT\s+ION\b`, "CONDITION"),
	rx("rejoin-description", `\bDESCRIPT\s+ION\b`, "DESCRIPTION"),
	rx("rejoin-category", `\bCATEG\s+ORY\b`, "CATEGORY"),
	rx("rejoin-shipping", `\bSHIPP\s+ING\b`, "SHIPPING"),
}

// capsVocabulary lists header and UI words used to segment merged
// all-caps runs such as "TITLEPRICECONDITION".
var capsVocabulary = []string{
	"TITLE", "PRICE", "CONDITION", "DESCRIPTION", "CATEGORY",
	"OFFER", "SHIPPING", "NEW", "USED", "LIKE", "GOOD", "FAIR",
	"YES", "NO", "EXPORT", "IMPORT", "EDITOR", "PREVIEW",
	"XLSX", "CSV", "JSON", "SQL", "FACEBOOK", "TEMPLATE",
	"DOWNLOAD", "UPLOAD", "HEADERS", "ONLY", "WITH", "SAMPLE",
	"DATA", "REQUIRED", "COLUMN", "NEXT", "STEPS", "NEED",
	"DIFFERENT", "FORMAT", "SWITCH", "OTHER", "TABS", "EACH",
	"OWN", "BUTTON", "MARKETPLACE", "BULK",
}

// capsRun matches runs of six or more capitals, the shortest string two
// vocabulary words can glue into.
var capsRun = regexp.MustCompile(`\b[A-Z]{6,}\b`)

// vocabPatterns holds one pattern per vocabulary word, longest word
// first so longer words win over their substrings.
var vocabPatterns = buildVocabPatterns()

func buildVocabPatterns() []*regexp.Regexp {
	words := make([]string, len(capsVocabulary))
	copy(words, capsVocabulary)
	sort.SliceStable(words, func(i, j int) bool {
		return len(words[i]) > len(words[j])
	})

	patterns := make([]*regexp.Regexp, len(words))
	for i, w := range words {
		// re2 has no lookahead, so the capital that follows the word is
		// captured and re-emitted after the inserted space.
		patterns[i] = regexp.MustCompile("(" + w + ")([A-Z])")
	}
	return patterns
}

// splitCapsRun segments one all-caps run using the vocabulary.
func splitCapsRun(run string) string {
	result := run
	for _, re := range vocabPatterns {
		// Repeat until settled: consuming the trailing capital can hide
		// an immediately following occurrence of the same word.
		for {
			next := re.ReplaceAllString(result, "${1} ${2}")
			if next == result {
				break
			}
			result = next
		}
	}
	return strings.TrimSpace(result)
}

var vocabSplitRule = rule{
	name: "vocab-split",
	apply: func(s string) string {
		return capsRun.ReplaceAllStringFunc(s, splitCapsRun)
	},
}

// substitutionRules is the ordered confusion table. Entries earlier in
// the list see text before entries later in the list.
var substitutionRules = []rule{
	// Spacing errors
	rx("split-file", `\bfi le\b`, "file"),
	rx("split-files", `\bfi les\b`, "files"),
	rx("csv", `\bCsV\b`, "CSV"),
	rx("json", `\bJsON\b`, "JSON"),
	rx("xlsx-mixed", `\bXLsx\b`, "XLSX"),
	rx("xlsx-caps", `\bXLSx\b`, "XLSX"),
	rx("xlsx-lower", `\bxlsx\b`, "xlsx"),
	rx("upload-clip", `\bplo\b`, "upload"),

	// Stray capitals glued onto words by layout artifacts
	rx("di-prefix", `\bDI([A-Z][a-z]+)`, "${1}"), // "DINeed" -> "Need"
	rx("od-prefix", `\bOD([A-Z][a-z]+)`, "${1}"), // "ODNext" -> "Next"
	rx("v-prefix", `\bV([A-Z][a-z]+)`, "${1}"),   // "VTemplate" -> "Template"

	// Character confusions
	rx("zero-cap", `\b0([A-Z])`, "O${1}"),          // "0PTION" -> "OPTION"
	rx("ell-cap", `\bl([A-Z])`, "I${1}"),           // "lNFO" -> "INFO"
	rx("trailing-zero", `\b([A-Z][a-z]+)0\b`, "${1}O"), // "Hell0" -> "HellO"

	// Number and letter confusions in prices
	rx("price-ocap", `\$\s*O(\d)`, "$${1}"),           // "$O50" -> "$50"
	rx("price-zero", `\$\s*0(\d)`, "$${1}"),           // "$050" -> "$50"
	rx("digit-o-digit", `(\d)\s*O\s*(\d)`, "${1}O${2}"), // "1 O 5" -> "1O5"

	// Field label misreads
	rx("title-lower", `\btitIe\b`, "title"),
	rx("title-upper", `\bTITIE\b`, "TITLE"),
	rx("price-lower", `\bprlce\b`, "price"),
	rx("price-upper", `\bPRIGE\b`, "PRICE"),
	rx("condition-lower", `\bconditlon\b`, "condition"),
	rx("condition-upper", `\bGONDITION\b`, "CONDITION"),
	rx("description-lower", `\bdescriptlon\b`, "description"),
	rx("description-upper", `\bDESGRIPTION\b`, "DESCRIPTION"),
	rx("category-lower", `\bcategOry\b`, "category"),
	rx("category-upper", `\bGATEGORY\b`, "CATEGORY"),
	rx("shipping-lower", `\bshlpping\b`, "shipping"),
	rx("shipping-upper", `\bSHIPPING\b`, "SHIPPING"),

	// "rn" read as "m" and "l1" read as "h"
	rx("rn-m", `\brn\b`, "m"),
	rx("from", `\bfrorn\b`, "from"),
	rx("the", `\btl1e\b`, "the"),
	rx("this", `\btl1is\b`, "this"),
	rx("that", `\btl1at\b`, "that"),
	rx("with", `\bwitl1\b`, "with"),
	rx("which", `\bwl1ich\b`, "which"),
	rx("where", `\bwl1ere\b`, "where"),
	rx("when", `\bwl1en\b`, "when"),
	rx("what", `\bwl1at\b`, "what"),
	rx("who", `\bwl1o\b`, "who"),

	// Price formatting
	rx("currency-gap", `\$\s+(\d)`, "$${1}"),             // "$ 100" -> "$100"
	rx("decimal-gap", `(\d)\s+\.\s+(\d{2})`, "${1}.${2}"), // "100 . 00" -> "100.00"
	rx("thousands-gap", `(\d),\s*(\d{3})`, "${1},${2}"),   // "1, 000" -> "1,000"

	// Adjacent all-caps words that survived vocabulary splitting
	rx("glued-caps", `([A-Z]{3,})([A-Z]{3,})`, "${1} ${2}"),
}

// pipeline is every rule in application order.
var pipeline = buildPipeline()

func buildPipeline() []rule {
	out := make([]rule, 0, len(rejoinRules)+1+len(substitutionRules))
	out = append(out, rejoinRules...)
	out = append(out, vocabSplitRule)
	out = append(out, substitutionRules...)
	return out
}

// Correct applies every correction rule to a line of recognized text.
func Correct(text string) string {
	for _, r := range pipeline {
		text = r.apply(text)
	}
	return text
}

// ApplyRule runs a single rule by name. The second return value reports
// whether the rule exists.
func ApplyRule(text, name string) (string, bool) {
	for _, r := range pipeline {
		if r.name == name {
			return r.apply(text), true
		}
	}
	return text, false
}

// RuleNames returns the rule names in application order.
func RuleNames() []string {
	names := make([]string, len(pipeline))
	for i, r := range pipeline {
		names[i] = r.name
	}
	return names
}
