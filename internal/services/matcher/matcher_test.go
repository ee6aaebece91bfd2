package matcher

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kwscan/internal/domain/models"
)

func TestMatchExact(t *testing.T) {
	tests := []struct {
		keyword string
		text    string
		want    bool
	}{
		{keyword: "cafe", text: "thisisacafetestdocument", want: true},
		{keyword: "test", text: "thisisacafetestdocument", want: true},
		{keyword: "banana", text: "appleorange", want: false},
		{keyword: "", text: "anything", want: true},
		{keyword: "", text: "", want: true},
		{keyword: "a", text: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.keyword+"/"+tt.text, func(t *testing.T) {
			result := Match(tt.keyword, tt.text, models.MatchOptions{})
			assert.Equal(t, tt.want, result.Matched)
			assert.Nil(t, result.Similarity)
		})
	}
}

func TestMatchExactSkipsSimilarity(t *testing.T) {
	result := Match("cafe", "acafe", models.MatchOptions{Fuzzy: true, Threshold: 100})
	assert.True(t, result.Matched)
	assert.Nil(t, result.Similarity)
}

func TestMatchFuzzy(t *testing.T) {
	// Longest common block of "Banana" and "appleorange" is "an"; no further
	// blocks on either flank, so M=2 and T=6+11.
	want := 4.0 / 17.0

	result := Match("Banana", "appleorange", models.MatchOptions{Fuzzy: true, Threshold: 10})
	require.NotNil(t, result.Similarity)
	assert.Equal(t, want, *result.Similarity)
	assert.True(t, result.Matched)
	assert.Equal(t, "0.2353", models.FormatSimilarity(*result.Similarity))

	result = Match("Banana", "appleorange", models.MatchOptions{Fuzzy: true, Threshold: 80})
	require.NotNil(t, result.Similarity)
	assert.False(t, result.Matched)

	result = Match("Banana", "appleorange", models.MatchOptions{})
	assert.False(t, result.Matched)
	assert.Nil(t, result.Similarity)
}

func TestMatchFuzzyEmptyText(t *testing.T) {
	result := Match("keyword", "", models.MatchOptions{Fuzzy: true, Threshold: 0})
	require.NotNil(t, result.Similarity)
	assert.Equal(t, 0.0, *result.Similarity)
	assert.True(t, result.Matched, "threshold 0 accepts ratio 0")
}

func TestRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{a: "abc", b: "abc", want: 1},
		{a: "", b: "", want: 1},
		{a: "abc", b: "", want: 0},
		{a: "abcd", b: "bcde", want: 0.75},
		{a: "abc", b: "xyz", want: 0},
		// "ab" then "d" on the right flank: M=3, T=8.
		{a: "abxd", b: "abyd", want: 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.InDelta(t, tt.want, Ratio(tt.a, tt.b), 1e-12)
		})
	}
}

func TestRatioWholeTextWithoutAutoJunk(t *testing.T) {
	text := strings.Repeat("abc", 100)

	plain := Fuzzy("xabc", text, models.MatchOptions{Fuzzy: true})
	require.NotNil(t, plain.Similarity)
	assert.InDelta(t, 6.0/304.0, *plain.Similarity, 1e-12)

	// Every character of text is "popular", so the heuristic discards them all.
	junked := Fuzzy("xabc", text, models.MatchOptions{Fuzzy: true, AutoJunk: true})
	require.NotNil(t, junked.Similarity)
	assert.Equal(t, 0.0, *junked.Similarity)
}

func TestRatioProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		a := randomString(rng, rng.Intn(12))
		b := randomString(rng, rng.Intn(40))

		ratio := Ratio(a, b)
		assert.GreaterOrEqual(t, ratio, 0.0)
		assert.LessOrEqual(t, ratio, 1.0)

		if a != "" {
			assert.Equal(t, 1.0, Ratio(a, a))
		}

		result := Match(a, b, models.MatchOptions{})
		assert.Equal(t, strings.Contains(b, a), result.Matched, "a=%q b=%q", a, b)
	}
}

func randomString(rng *rand.Rand, n int) string {
	const alphabet = "abcd01"
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = alphabet[rng.Intn(len(alphabet))]
	}
	return string(buf)
}
