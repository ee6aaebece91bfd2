package batch

import (
	"kwscan/internal/domain/models"
	"kwscan/internal/services/matcher"
	"kwscan/internal/services/normalizer"
)

// Aggregator evaluates one keyword set against many documents. Keywords are
// normalized once at construction; Evaluate only reads shared state, so
// columns for different documents may be computed concurrently and merged
// afterwards with Collect.
type Aggregator struct {
	normalizer *normalizer.Normalizer
	normOpts   models.NormalizationOptions
	matchOpts  models.MatchOptions
	keywords   []string
	normalized []string
	scanner    *matcher.ExactScanner
}

func NewAggregator(
	n *normalizer.Normalizer,
	keywords []string,
	normOpts models.NormalizationOptions,
	matchOpts models.MatchOptions,
) *Aggregator {
	normalized := n.NormalizeAll(keywords, normOpts)

	return &Aggregator{
		normalizer: n,
		normOpts:   normOpts,
		matchOpts:  matchOpts,
		keywords:   keywords,
		normalized: normalized,
		scanner:    matcher.NewExactScanner(normalized),
	}
}

func (a *Aggregator) Keywords() []string {
	return a.keywords
}

// Evaluate normalizes a document text once and returns the results of every
// keyword against it, in keyword order.
func (a *Aggregator) Evaluate(text string) []models.MatchResult {
	normalizedText := a.normalizer.Normalize(text, a.normOpts)
	hits := a.scanner.Scan(normalizedText)

	column := make([]models.MatchResult, len(a.keywords))
	for i, keyword := range a.normalized {
		if hits[i] {
			column[i] = models.ExactMatch()
			continue
		}
		column[i] = matcher.Fuzzy(keyword, normalizedText, a.matchOpts)
	}
	return column
}

// Collect merges per-document columns, given in document order, into the
// result table and derives the unmatched report from it.
func (a *Aggregator) Collect(documents []string, columns [][]models.MatchResult) (*models.ResultTable, models.UnmatchedReport) {
	table := models.NewResultTable(a.keywords, documents)
	for d, column := range columns {
		for k, result := range column {
			table.Set(k, d, result)
		}
	}
	return table, Unmatched(table)
}

// Unmatched lists, for every keyword, the documents whose result is unmatched.
// Similarity rows never contribute.
func Unmatched(table *models.ResultTable) models.UnmatchedReport {
	report := models.UnmatchedReport{
		Entries: make([]models.UnmatchedEntry, 0, len(table.Keywords)),
	}

	for k, keyword := range table.Keywords {
		documents := make([]string, 0)
		for d, document := range table.Documents {
			if !table.Result(k, d).Matched {
				documents = append(documents, document)
			}
		}
		report.Entries = append(report.Entries, models.UnmatchedEntry{
			Keyword:   keyword,
			Documents: documents,
		})
	}

	return report
}

// Aggregate runs the whole cross product sequentially.
func Aggregate(
	n *normalizer.Normalizer,
	keywords []string,
	documents []models.Document,
	normOpts models.NormalizationOptions,
	matchOpts models.MatchOptions,
) (*models.ResultTable, models.UnmatchedReport) {
	aggregator := NewAggregator(n, keywords, normOpts, matchOpts)

	names := make([]string, len(documents))
	columns := make([][]models.MatchResult, len(documents))
	for i, document := range documents {
		names[i] = document.Name
		columns[i] = aggregator.Evaluate(document.Text)
	}

	return aggregator.Collect(names, columns)
}
