package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"kwscan/config"
	"kwscan/internal/app"
	"kwscan/internal/domain/models"
	"kwscan/internal/services/batch"
	"kwscan/internal/services/loader"
	"kwscan/internal/services/report"
	"kwscan/internal/utils/clean"
)

var (
	runKeywords      string
	runIgnoreCase    bool
	runIgnoreAccents bool
	runFuzzy         bool
	runThreshold     float64
	runOutput        string
	runFormat        string
)

var runCmd = &cobra.Command{
	Use:   "run [flags] <document>...",
	Short: "Match keywords against local documents and write the result archive",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBatch,
}

func init() {
	runCmd.Flags().StringVarP(&runKeywords, "keywords", "k", "", "comma separated keywords")
	runCmd.Flags().BoolVar(&runIgnoreCase, "ignore-case", false, "lowercase text and keywords before matching")
	runCmd.Flags().BoolVar(&runIgnoreAccents, "ignore-accents", false, "fold accented characters before matching")
	runCmd.Flags().BoolVar(&runFuzzy, "fuzzy", false, "fall back to a similarity ratio when no exact match is found")
	runCmd.Flags().Float64Var(&runThreshold, "threshold", 0, "similarity threshold in percent (default from config)")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", report.ArchiveFile, "archive path")
	runCmd.Flags().StringVar(&runFormat, "format", "", "table format, xlsx or csv (default from config)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if runFormat != "" {
		cfg.Export.Format = runFormat
	}

	threshold := cfg.Matching.Threshold
	if cmd.Flags().Changed("threshold") {
		if runThreshold < 0 || runThreshold > 100 {
			return fmt.Errorf("threshold must be within [0,100], got %v", runThreshold)
		}
		threshold = runThreshold
	}

	log := setupLogger(cfg.Env, os.Stderr)

	service, err := app.NewBatchService(log, cfg)
	if err != nil {
		return err
	}

	documents, err := loader.NewLoader(log).LoadDocuments(cmd.Context(), args)
	if err != nil {
		return err
	}

	result, err := service.Run(cmd.Context(), batch.Request{
		Keywords:  clean.Keywords(runKeywords),
		Documents: documents,
		Normalization: models.NormalizationOptions{
			IgnoreCase:    runIgnoreCase,
			IgnoreAccents: runIgnoreAccents,
		},
		Match: models.MatchOptions{
			Fuzzy:     runFuzzy,
			Threshold: threshold,
			AutoJunk:  cfg.Matching.AutoJunk,
		},
	})
	if err != nil {
		return err
	}

	if err := os.WriteFile(runOutput, result.Bundle.Archive, 0o644); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), formatSummary(result.Table, result.Unmatched))
	fmt.Fprintf(cmd.OutOrStdout(), "\n%s written in %s\n", runOutput, result.Elapsed.Round(time.Millisecond))
	return nil
}

// formatSummary renders one aligned line per keyword with its match count
// and the documents it was not found in.
func formatSummary(table *models.ResultTable, unmatched models.UnmatchedReport) string {
	header := []string{"KEYWORD", "MATCHED", "MISSING FROM"}
	rows := make([][]string, 0, len(table.Keywords))
	for i, keyword := range table.Keywords {
		matched := 0
		for j := range table.Documents {
			if table.Result(i, j).Matched {
				matched++
			}
		}

		missing := "-"
		if docs := unmatched.Documents(keyword); len(docs) > 0 {
			missing = strings.Join(docs, ", ")
		}

		rows = append(rows, []string{keyword, fmt.Sprintf("%d/%d", matched, len(table.Documents)), missing})
	}

	widths := make([]int, len(header))
	for i, cell := range header {
		widths[i] = runewidth.StringWidth(cell)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	for _, row := range append([][]string{header}, rows...) {
		for i, cell := range row {
			if i == len(row)-1 {
				b.WriteString(cell)
				break
			}
			b.WriteString(runewidth.FillRight(cell, widths[i]))
			b.WriteString("  ")
		}
		b.WriteString("\n")
	}
	return b.String()
}
