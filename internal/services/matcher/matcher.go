// Package matcher decides whether a normalized keyword occurs in a normalized
// document text, falling back to a Ratcliff/Obershelp similarity ratio.
package matcher

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"kwscan/internal/domain/models"
)

// Match reports whether keyword is found in text. Both inputs must already be
// normalized with the same options. An empty keyword always matches.
func Match(keyword, text string, opts models.MatchOptions) models.MatchResult {
	if strings.Contains(text, keyword) {
		return models.ExactMatch()
	}
	return Fuzzy(keyword, text, opts)
}

// Fuzzy is the fallback applied once the exact check has failed. The ratio is
// taken against the whole text, not a best-matching window.
func Fuzzy(keyword, text string, opts models.MatchOptions) models.MatchResult {
	if !opts.Fuzzy {
		return models.NoMatch()
	}

	ratio := similarity(keyword, text, opts.AutoJunk)
	return models.FuzzyResult(ratio >= opts.Threshold/100.0, ratio)
}

// Ratio returns 2*M/T where M is the total size of the matching blocks found
// by recursively taking the longest common substring and recursing on both
// flanks, and T is len(a)+len(b). Two empty strings have ratio 1.
func Ratio(a, b string) float64 {
	return similarity(a, b, false)
}

func similarity(a, b string, autoJunk bool) float64 {
	m := difflib.NewMatcherWithJunk(elements(a), elements(b), autoJunk, nil)
	return m.Ratio()
}

// elements splits s into one element per rune.
func elements(s string) []string {
	return strings.Split(s, "")
}
