package matcher

import (
	aho "github.com/petar-dambovaliev/aho-corasick"
)

// ExactScanner answers the exact-substring check for a whole keyword set in a
// single pass over the text. It is read-only after construction and safe for
// concurrent use.
type ExactScanner struct {
	automaton aho.AhoCorasick
	// owners maps a pattern index to the keyword positions sharing that pattern.
	owners   [][]int
	empty    []int
	keywords int
	built    bool
}

// NewExactScanner compiles normalized keywords into an Aho-Corasick automaton.
func NewExactScanner(keywords []string) *ExactScanner {
	s := &ExactScanner{keywords: len(keywords)}

	patternIndex := make(map[string]int, len(keywords))
	var patterns []string
	for i, keyword := range keywords {
		if keyword == "" {
			s.empty = append(s.empty, i)
			continue
		}
		idx, ok := patternIndex[keyword]
		if !ok {
			idx = len(patterns)
			patternIndex[keyword] = idx
			patterns = append(patterns, keyword)
			s.owners = append(s.owners, nil)
		}
		s.owners[idx] = append(s.owners[idx], i)
	}

	if len(patterns) > 0 {
		builder := aho.NewAhoCorasickBuilder(aho.Opts{
			DFA: true,
		})
		s.automaton = builder.Build(patterns)
		s.built = true
	}

	return s
}

// Scan returns, per keyword position, whether the keyword occurs in text.
// Overlapping occurrences are all reported, so "abc" and "bcd" both hit "abcd".
func (s *ExactScanner) Scan(text string) []bool {
	hits := make([]bool, s.keywords)
	for _, i := range s.empty {
		hits[i] = true
	}
	if !s.built {
		return hits
	}

	remaining := len(s.owners)
	seen := make([]bool, len(s.owners))
	iter := s.automaton.IterOverlappingByte([]byte(text))
	for next := iter.Next(); next != nil; next = iter.Next() {
		pattern := next.Pattern()
		if seen[pattern] {
			continue
		}
		seen[pattern] = true
		for _, i := range s.owners[pattern] {
			hits[i] = true
		}
		remaining--
		if remaining == 0 {
			break
		}
	}

	return hits
}
