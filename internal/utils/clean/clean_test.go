package clean

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywords(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{raw: "Café, Test", want: []string{"Café", "Test"}},
		{raw: "  one  ,two,, three ,", want: []string{"one", "two", "three"}},
		{raw: "multi word phrase", want: []string{"multi word phrase"}},
		{raw: " , ", want: []string{}},
		{raw: "", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Keywords(tt.raw))
		})
	}
}
