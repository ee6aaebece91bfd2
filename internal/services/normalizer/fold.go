package normalizer

import (
	"errors"
	"fmt"
	"unicode"

	"github.com/gosimple/unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	FoldingUnidecode = "unidecode"
	FoldingMarks     = "marks"
)

var ErrUnknownFolding = errors.New("unknown accent folding")

// UnidecodeFolder transliterates any Unicode text to ASCII ("ß" -> "ss", "Ø" -> "O").
type UnidecodeFolder struct{}

func (UnidecodeFolder) Fold(s string) string {
	return unidecode.Unidecode(s)
}

// MarkFolder only removes combining marks after canonical decomposition.
// Letters without a decomposition ("ß", "Ø") are kept and later stripped.
type MarkFolder struct{}

func (MarkFolder) Fold(s string) string {
	// transform.Chain keeps state, so each call builds its own chain.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

// NewFolder returns the transliterator registered under name.
func NewFolder(name string) (Transliterator, error) {
	switch name {
	case "", FoldingUnidecode:
		return UnidecodeFolder{}, nil
	case FoldingMarks:
		return MarkFolder{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFolding, name)
	}
}
