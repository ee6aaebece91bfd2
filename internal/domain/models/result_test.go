package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSimilarity(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{ratio: 0, want: "0.0000"},
		{ratio: 1, want: "1.0000"},
		{ratio: 2.0 / 3.0, want: "0.6667"},
		{ratio: 0.03125, want: "0.0312"}, // exact tie rounds to even
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSimilarity(tt.ratio))
		})
	}
}

func TestResultTableRows(t *testing.T) {
	table := NewResultTable([]string{"alpha", "beta"}, []string{"a.pdf", "b.pdf"})
	table.Set(0, 0, ExactMatch())
	table.Set(0, 1, NoMatch())
	table.Set(1, 0, ExactMatch())
	table.Set(1, 1, FuzzyResult(false, 0.25))

	rows := table.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, RowKey{Keyword: "alpha", Kind: RowExact}, rows[0])
	assert.Equal(t, RowKey{Keyword: "beta", Kind: RowExact}, rows[1])
	assert.Equal(t, RowKey{Keyword: "beta", Kind: RowSimilarity}, rows[2])
	assert.Equal(t, "beta (similarity)", rows[2].Label())

	assert.Equal(t, true, table.Value(rows[1], 0))
	assert.Equal(t, false, table.Value(rows[1], 1))
	assert.Nil(t, table.Value(rows[2], 0))
	assert.Equal(t, "0.2500", table.Value(rows[2], 1))
}

func TestRowKeyDoesNotCollideWithLiteralSuffix(t *testing.T) {
	table := NewResultTable([]string{"x", "x (similarity)"}, []string{"doc"})
	table.Set(0, 0, FuzzyResult(false, 0.5))
	table.Set(1, 0, ExactMatch())

	assert.Equal(t, "0.5000", table.Value(RowKey{Keyword: "x", Kind: RowSimilarity}, 0))
	assert.Equal(t, true, table.Value(RowKey{Keyword: "x (similarity)", Kind: RowExact}, 0))
}

func TestErrorsUnwrap(t *testing.T) {
	cause := errors.New("broken xref")
	err := error(&BatchError{
		Stage: StageExtraction,
		Cause: &ExtractionError{Document: "a.pdf", Err: cause},
	})

	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, "a.pdf", extractionErr.Document)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "extraction")
}
