// Package extractor turns raw document bytes into plain text.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gabriel-vasile/mimetype"

	"kwscan/internal/domain/models"
)

const (
	MIMEPDF   = "application/pdf"
	MIMEPlain = "text/plain"
)

var (
	ErrUnsupportedType = errors.New("unsupported document type")
	ErrEmptyDocument   = errors.New("document is empty")
)

// TextExtractor extracts the text of a single document.
type TextExtractor interface {
	Extract(ctx context.Context, name string, data []byte) (string, error)
}

type entry struct {
	mime      string
	extractor TextExtractor
}

// Registry picks an extractor from the sniffed MIME type of the content.
type Registry struct {
	log     *slog.Logger
	entries []entry
}

// NewRegistry returns a registry that handles PDF and plain text documents.
func NewRegistry(log *slog.Logger) *Registry {
	r := &Registry{log: log}
	r.Register(MIMEPDF, PDFExtractor{})
	r.Register(MIMEPlain, PlainTextExtractor{})
	return r
}

func (r *Registry) Register(mime string, extractor TextExtractor) {
	r.entries = append(r.entries, entry{mime: mime, extractor: extractor})
}

// Extract detects the document type and delegates. Every failure is returned
// as *models.ExtractionError carrying the document name.
func (r *Registry) Extract(ctx context.Context, name string, data []byte) (string, error) {
	const op = "extractor.Registry.Extract"

	if err := ctx.Err(); err != nil {
		return "", &models.ExtractionError{Document: name, Err: err}
	}
	if len(data) == 0 {
		return "", &models.ExtractionError{Document: name, Err: ErrEmptyDocument}
	}

	detected := mimetype.Detect(data)
	extractor := r.lookup(detected)
	if extractor == nil {
		return "", &models.ExtractionError{
			Document: name,
			Err:      fmt.Errorf("%s: %w: %s", op, ErrUnsupportedType, detected.String()),
		}
	}

	r.log.Debug("extracting text", "document", name, "mime", detected.String(), "size", len(data))

	text, err := extractor.Extract(ctx, name, data)
	if err != nil {
		var extractionErr *models.ExtractionError
		if errors.As(err, &extractionErr) {
			return "", err
		}
		return "", &models.ExtractionError{Document: name, Err: fmt.Errorf("%s: %w", op, err)}
	}

	return text, nil
}

// lookup walks the detected type and its parents ("text/x-go" -> "text/plain").
func (r *Registry) lookup(detected *mimetype.MIME) TextExtractor {
	for m := detected; m != nil; m = m.Parent() {
		for _, e := range r.entries {
			if m.Is(e.mime) {
				return e.extractor
			}
		}
	}
	return nil
}

// PlainTextExtractor returns the content as is.
type PlainTextExtractor struct{}

func (PlainTextExtractor) Extract(_ context.Context, _ string, data []byte) (string, error) {
	return string(data), nil
}
