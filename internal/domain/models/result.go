package models

import (
	"github.com/shopspring/decimal"
)

// MatchResult is the verdict for one (keyword, document) pair.
// Similarity is set only when the fuzzy fallback was evaluated.
type MatchResult struct {
	Matched    bool     `json:"matched"`
	Similarity *float64 `json:"similarity,omitempty"`
}

func ExactMatch() MatchResult {
	return MatchResult{Matched: true}
}

func NoMatch() MatchResult {
	return MatchResult{}
}

func FuzzyResult(matched bool, ratio float64) MatchResult {
	return MatchResult{Matched: matched, Similarity: &ratio}
}

type RowKind int

const (
	RowExact RowKind = iota
	RowSimilarity
)

const similaritySuffix = " (similarity)"

// RowKey identifies a row of the result table.
type RowKey struct {
	Keyword string
	Kind    RowKind
}

// Label renders the row header used in exported tables.
func (k RowKey) Label() string {
	if k.Kind == RowSimilarity {
		return k.Keyword + similaritySuffix
	}
	return k.Keyword
}

// ResultTable holds one MatchResult per keyword per document.
// Results is indexed [keyword][document].
type ResultTable struct {
	Keywords  []string
	Documents []string
	Results   [][]MatchResult

	index map[string]int
}

func NewResultTable(keywords []string, documents []string) *ResultTable {
	results := make([][]MatchResult, len(keywords))
	index := make(map[string]int, len(keywords))
	for i, keyword := range keywords {
		results[i] = make([]MatchResult, len(documents))
		index[keyword] = i
	}

	return &ResultTable{
		Keywords:  keywords,
		Documents: documents,
		Results:   results,
		index:     index,
	}
}

func (t *ResultTable) Set(keyword, document int, result MatchResult) {
	t.Results[keyword][document] = result
}

func (t *ResultTable) Result(keyword, document int) MatchResult {
	return t.Results[keyword][document]
}

// Rows returns the table rows in keyword order. A similarity row follows its
// keyword row when at least one document needed a fuzzy evaluation.
func (t *ResultTable) Rows() []RowKey {
	rows := make([]RowKey, 0, len(t.Keywords)*2)
	for i, keyword := range t.Keywords {
		rows = append(rows, RowKey{Keyword: keyword, Kind: RowExact})
		for _, result := range t.Results[i] {
			if result.Similarity != nil {
				rows = append(rows, RowKey{Keyword: keyword, Kind: RowSimilarity})
				break
			}
		}
	}
	return rows
}

// Value returns the cell content: a bool for exact rows, a formatted ratio
// for similarity rows and nil where no similarity was computed.
func (t *ResultTable) Value(row RowKey, document int) any {
	i, ok := t.index[row.Keyword]
	if !ok {
		return nil
	}

	result := t.Results[i][document]
	if row.Kind == RowExact {
		return result.Matched
	}
	if result.Similarity == nil {
		return nil
	}
	return FormatSimilarity(*result.Similarity)
}

// FormatSimilarity renders a ratio with four decimals, rounding half to even
// on the float's binary value.
func FormatSimilarity(ratio float64) string {
	return decimal.NewFromFloatWithExponent(ratio, -30).StringFixedBank(4)
}

type UnmatchedEntry struct {
	Keyword   string   `json:"keyword"`
	Documents []string `json:"documents"`
}

// UnmatchedReport lists, per keyword and in keyword order, the documents
// where the keyword was not matched.
type UnmatchedReport struct {
	Entries []UnmatchedEntry `json:"entries"`
}

func (r UnmatchedReport) Documents(keyword string) []string {
	for _, entry := range r.Entries {
		if entry.Keyword == keyword {
			return entry.Documents
		}
	}
	return nil
}
