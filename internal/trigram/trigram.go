// Package trigram scores string similarity by shared three-character
// substrings, tolerant of small edits. Scoring matches the classic
// trigram-index semantics: words are padded with two leading and one
// trailing space before extraction, and similarity is the Jaccard ratio
// of the two trigram sets.
package trigram

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripDiacritics decomposes to NFD, drops combining marks, and recomposes.
var stripDiacritics = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Stroked letters do not decompose into base + combining mark, so NFD
// stripping misses them. Polish titles make ł the case that matters.
var strokeReplacer = strings.NewReplacer(
	"ł", "l", "Ł", "L",
	"ø", "o", "Ø", "O",
	"đ", "d", "Đ", "D",
)

// Normalize case-folds and strips diacritics: "Wypalenie Zawodowe" and
// "wypalenie zawodowe" normalize identically, "rekrutacja" survives "ó"→"o"
// style accent drift.
func Normalize(s string) string {
	folded, _, err := transform.String(stripDiacritics, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strokeReplacer.Replace(folded))
}

// Extract returns the trigram set of an already-normalized string.
// Words are runs of letters and digits; each word is padded to "  word "
// so that word boundaries weigh into the score.
func Extract(s string) map[string]struct{} {
	grams := make(map[string]struct{})

	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	for _, w := range words {
		padded := []rune("  " + w + " ")
		for i := 0; i+3 <= len(padded); i++ {
			grams[string(padded[i:i+3])] = struct{}{}
		}
	}

	return grams
}

// Similarity returns the Jaccard similarity of the trigram sets of two
// already-normalized strings, in [0, 1]. Two empty strings score 0.
func Similarity(a, b string) float64 {
	ga := Extract(a)
	gb := Extract(b)
	if len(ga) == 0 || len(gb) == 0 {
		return 0
	}

	shared := 0
	for g := range ga {
		if _, ok := gb[g]; ok {
			shared++
		}
	}

	union := len(ga) + len(gb) - shared
	return float64(shared) / float64(union)
}
