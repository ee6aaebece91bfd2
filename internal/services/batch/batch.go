// Package batch matches a keyword set against a batch of documents and
// exports the outcome.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kwscan/internal/domain/models"
	"kwscan/internal/lib/logger/sl"
	"kwscan/internal/services/extractor"
	"kwscan/internal/services/normalizer"
	"kwscan/internal/services/report"
	"kwscan/internal/utils"
	"kwscan/internal/utils/metrics"
	"kwscan/internal/workers"
)

// Exporter renders a finished batch.
type Exporter interface {
	Export(table *models.ResultTable, unmatched models.UnmatchedReport) (*report.Bundle, error)
}

type Request struct {
	Keywords      []string
	Documents     []models.RawDocument
	Normalization models.NormalizationOptions
	Match         models.MatchOptions
}

type Result struct {
	Table     *models.ResultTable
	Unmatched models.UnmatchedReport
	Bundle    *report.Bundle
	Elapsed   time.Duration
}

type Service struct {
	log        *slog.Logger
	extractor  extractor.TextExtractor
	normalizer *normalizer.Normalizer
	exporter   Exporter
	workers    int
	metrics    *metrics.Metrics
}

func New(
	log *slog.Logger,
	textExtractor extractor.TextExtractor,
	n *normalizer.Normalizer,
	exporter Exporter,
	workersCount int,
) *Service {
	return &Service{
		log:        log,
		extractor:  textExtractor,
		normalizer: n,
		exporter:   exporter,
		workers:    workersCount,
		metrics:    &metrics.Metrics{},
	}
}

func (s *Service) Metrics() *metrics.Metrics {
	return s.metrics
}

// Run extracts every document, evaluates all keywords against it and exports
// the bundle. Any failure aborts the batch with a *models.BatchError.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	const op = "batch.Run"

	log := s.log.With(slog.String("op", op))
	start := time.Now()

	keywords := Dedupe(req.Keywords)
	if len(keywords) == 0 {
		return nil, &models.BatchError{
			Stage: models.StageInput,
			Cause: &models.InvalidInputError{Reason: "no keywords provided"},
		}
	}
	if len(req.Documents) == 0 {
		return nil, &models.BatchError{
			Stage: models.StageInput,
			Cause: &models.InvalidInputError{Reason: "no documents provided"},
		}
	}
	if len(keywords) != len(req.Keywords) {
		log.Debug("duplicate keywords dropped", "given", len(req.Keywords), "kept", len(keywords))
	}

	aggregator := NewAggregator(s.normalizer, keywords, req.Normalization, req.Match)

	jobs := make([]workers.Job[[]models.MatchResult], len(req.Documents))
	names := make([]string, len(req.Documents))
	for i, document := range req.Documents {
		document := document // per-iteration copy for the closure (go < 1.22 loop semantics)
		names[i] = document.Name
		jobs[i] = workers.Job[[]models.MatchResult]{
			Description: workers.NewDescriptor(document.Name, "extract"),
			ExecFn: func(ctx context.Context) ([]models.MatchResult, error) {
				text, err := s.extractor.Extract(ctx, document.Name, document.Data)
				if err != nil {
					return nil, err
				}
				return aggregator.Evaluate(text), nil
			},
		}
	}

	results, err := workers.New[[]models.MatchResult](s.workers).Run(ctx, jobs)
	s.record(results)
	if err != nil {
		log.Error("batch aborted", sl.Err(err))
		return nil, &models.BatchError{Stage: models.StageExtraction, Cause: err}
	}

	columns := make([][]models.MatchResult, len(results))
	for i, result := range results {
		columns[i] = result.Value
	}
	table, unmatched := aggregator.Collect(names, columns)

	bundle, err := s.exporter.Export(table, unmatched)
	if err != nil {
		log.Error("export failed", sl.Err(err))
		return nil, &models.BatchError{Stage: models.StageExport, Cause: fmt.Errorf("%s: %w", op, err)}
	}

	elapsed := time.Since(start)
	s.metrics.RecordBatch()
	log.Info("batch processed",
		"keywords", len(keywords),
		"documents", len(names),
		"elapsed", utils.FormatDuration(elapsed),
	)
	s.metrics.PrintMetrics(log)

	return &Result{
		Table:     table,
		Unmatched: unmatched,
		Bundle:    bundle,
		Elapsed:   elapsed,
	}, nil
}

func (s *Service) record(results []workers.Result[[]models.MatchResult]) {
	for _, result := range results {
		if result.Description.ID == "" {
			continue // never started
		}
		if result.Err != nil {
			s.metrics.RecordFailure(result.Duration)
			continue
		}
		s.metrics.RecordSuccess(result.Duration)
	}
}

// Dedupe keeps the first occurrence of every keyword, in input order.
func Dedupe(keywords []string) []string {
	seen := make(map[string]struct{}, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		if _, ok := seen[keyword]; ok {
			continue
		}
		seen[keyword] = struct{}{}
		out = append(out, keyword)
	}
	return out
}
