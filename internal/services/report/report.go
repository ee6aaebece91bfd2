// Package report renders a result table and an unmatched report into
// downloadable artifacts packed in a single zip archive.
package report

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"kwscan/internal/domain/models"
)

const (
	TableFileXLSX = "result.xlsx"
	TableFileCSV  = "result.csv"
	ReportFile    = "unmatched_report.txt"
	ArchiveFile   = "result_report.zip"
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

var ErrUnknownFormat = errors.New("unknown export format")

type Artifact struct {
	Name string
	Data []byte
}

// Bundle holds the rendered artifacts and the archive that packs them.
type Bundle struct {
	Name      string
	Artifacts []Artifact
	Archive   []byte
}

type Exporter struct {
	format Format
}

func New(format Format) (*Exporter, error) {
	switch format {
	case "":
		format = FormatXLSX
	case FormatXLSX, FormatCSV:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return &Exporter{format: format}, nil
}

func (e *Exporter) Export(table *models.ResultTable, unmatched models.UnmatchedReport) (*Bundle, error) {
	const op = "report.Export"

	tableArtifact, err := e.renderTable(table)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	artifacts := []Artifact{
		tableArtifact,
		{Name: ReportFile, Data: RenderText(unmatched)},
	}

	archive, err := Archive(artifacts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Bundle{
		Name:      ArchiveFile,
		Artifacts: artifacts,
		Archive:   archive,
	}, nil
}

func (e *Exporter) renderTable(table *models.ResultTable) (Artifact, error) {
	if e.format == FormatCSV {
		data, err := RenderCSV(table)
		return Artifact{Name: TableFileCSV, Data: data}, err
	}
	data, err := RenderXLSX(table)
	return Artifact{Name: TableFileXLSX, Data: data}, err
}

// tableRows lays out the table with the row label in the first column and a
// header row of document names.
func tableRows(table *models.ResultTable) [][]any {
	header := make([]any, 0, len(table.Documents)+1)
	header = append(header, "")
	for _, document := range table.Documents {
		header = append(header, document)
	}

	rows := [][]any{header}
	for _, row := range table.Rows() {
		line := make([]any, 0, len(table.Documents)+1)
		line = append(line, row.Label())
		for d := range table.Documents {
			line = append(line, table.Value(row, d))
		}
		rows = append(rows, line)
	}
	return rows
}

func RenderXLSX(table *models.ResultTable) ([]byte, error) {
	const op = "report.RenderXLSX"

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range tableRows(table) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return buf.Bytes(), nil
}

func RenderCSV(table *models.ResultTable) ([]byte, error) {
	const op = "report.RenderCSV"

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range tableRows(table) {
		record := make([]string, len(row))
		for i, value := range row {
			record[i] = formatCell(value)
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return buf.Bytes(), nil
}

func formatCell(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case bool:
		if v {
			return "True"
		}
		return "False"
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// RenderText lists each keyword that has unmatched documents, followed by
// those documents, with a blank line after each keyword block.
func RenderText(unmatched models.UnmatchedReport) []byte {
	var b strings.Builder
	for _, entry := range unmatched.Entries {
		if len(entry.Documents) == 0 {
			continue
		}
		fmt.Fprintf(&b, "Keyword: %s\n", entry.Keyword)
		b.WriteString("Documents without match:\n")
		for _, document := range entry.Documents {
			fmt.Fprintf(&b, "- %s\n", document)
		}
		b.WriteString("\n")
	}
	return []byte(b.String())
}

func Archive(artifacts []Artifact) ([]byte, error) {
	const op = "report.Archive"

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, artifact := range artifacts {
		w, err := zw.Create(artifact.Name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if _, err := w.Write(artifact.Data); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return buf.Bytes(), nil
}
