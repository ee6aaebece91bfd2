package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kwscan/internal/domain/models"
)

func TestNormalize(t *testing.T) {
	n := New(nil)

	tests := []struct {
		name string
		text string
		opts models.NormalizationOptions
		want string
	}{
		{
			name: "strip only",
			text: "Hello, World! 42",
			want: "HelloWorld42",
		},
		{
			name: "ignore case",
			text: "Hello, World!",
			opts: models.NormalizationOptions{IgnoreCase: true},
			want: "helloworld",
		},
		{
			name: "accents kept are stripped",
			text: "Café Crème",
			want: "CafCrme",
		},
		{
			name: "ignore accents",
			text: "Café Crème",
			opts: models.NormalizationOptions{IgnoreAccents: true},
			want: "CafeCreme",
		},
		{
			name: "case then accents",
			text: "ÉLAN Straße",
			opts: models.NormalizationOptions{IgnoreCase: true, IgnoreAccents: true},
			want: "elanstrasse",
		},
		{
			name: "phrase collapses",
			text: "This is a cafe test document",
			opts: models.NormalizationOptions{IgnoreCase: true},
			want: "thisisacafetestdocument",
		},
		{
			name: "empty",
			text: "",
			want: "",
		},
		{
			name: "punctuation only",
			text: " -- ,.; ",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.text, tt.opts))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Café Crème brûlée",
		"ÉLAN Straße 12",
		"Ærøskøbing, Łódź — São Paulo",
		"北京 Tokyo",
		"  mixed\tWHITE\nspace ",
	}
	options := []models.NormalizationOptions{
		{},
		{IgnoreCase: true},
		{IgnoreAccents: true},
		{IgnoreCase: true, IgnoreAccents: true},
	}

	for _, folder := range []Transliterator{UnidecodeFolder{}, MarkFolder{}} {
		n := New(folder)
		for _, input := range inputs {
			for _, opts := range options {
				once := n.Normalize(input, opts)
				assert.Equal(t, once, n.Normalize(once, opts), "input %q opts %+v", input, opts)
			}
		}
	}
}

func TestNormalizeAll(t *testing.T) {
	n := New(nil)
	got := n.NormalizeAll([]string{"Café", "Test"}, models.NormalizationOptions{IgnoreCase: true, IgnoreAccents: true})
	assert.Equal(t, []string{"cafe", "test"}, got)
}

func TestFolders(t *testing.T) {
	assert.Equal(t, "Creme brulee", UnidecodeFolder{}.Fold("Crème brûlée"))
	assert.Equal(t, "Creme brulee", MarkFolder{}.Fold("Crème brûlée"))
	assert.Equal(t, "ss", UnidecodeFolder{}.Fold("ß"))
	assert.Equal(t, "ß", MarkFolder{}.Fold("ß"))
}

func TestNewFolder(t *testing.T) {
	folder, err := NewFolder("")
	require.NoError(t, err)
	assert.IsType(t, UnidecodeFolder{}, folder)

	folder, err = NewFolder(FoldingMarks)
	require.NoError(t, err)
	assert.IsType(t, MarkFolder{}, folder)

	_, err = NewFolder("ascii")
	assert.ErrorIs(t, err, ErrUnknownFolding)
}
