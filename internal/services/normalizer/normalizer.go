// Package normalizer canonicalizes keywords and document text into comparable forms.
package normalizer

import (
	"strings"

	"kwscan/internal/domain/models"
)

// Transliterator folds accented characters to their closest ASCII form.
// Characters it does not know pass through unchanged.
type Transliterator interface {
	Fold(s string) string
}

type Normalizer struct {
	folder Transliterator
}

func New(folder Transliterator) *Normalizer {
	if folder == nil {
		folder = UnidecodeFolder{}
	}
	return &Normalizer{folder: folder}
}

// Normalize lower-cases (IgnoreCase), folds accents (IgnoreAccents) and then
// drops every character that is not an ASCII letter or digit. Whitespace is
// dropped too, so multi-word phrases collapse into a single run.
func (n *Normalizer) Normalize(text string, opts models.NormalizationOptions) string {
	if opts.IgnoreCase {
		text = strings.ToLower(text)
	}
	if opts.IgnoreAccents {
		text = n.folder.Fold(text)
	}
	return StripNonAlnum(text)
}

// NormalizeAll normalizes every keyword with the same options, keeping order.
func (n *Normalizer) NormalizeAll(keywords []string, opts models.NormalizationOptions) []string {
	out := make([]string, len(keywords))
	for i, keyword := range keywords {
		out[i] = n.Normalize(keyword, opts)
	}
	return out
}

// StripNonAlnum keeps only [A-Za-z0-9]. Bytes of multi-byte UTF-8 sequences
// are all >= 0x80, so scanning bytes never splits an ASCII match.
func StripNonAlnum(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for i := 0; i < len(text); i++ {
		c := text[i]
		if isAlnum(c) {
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isAlnum(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
