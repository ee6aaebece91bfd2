package loader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"kwscan/internal/domain/models"
	"kwscan/internal/lib/logger/sl"
)

// Loader reads local files into raw documents for a batch run.
type Loader struct {
	log *slog.Logger
}

func NewLoader(log *slog.Logger) *Loader {
	return &Loader{
		log: log,
	}
}

// LoadDocuments reads every path in order. Documents are named after the
// file's base name, like uploaded files are named after their filename.
func (l *Loader) LoadDocuments(ctx context.Context, paths []string) ([]models.RawDocument, error) {
	const op = "loader.LoadDocuments"

	documents := make([]models.RawDocument, 0, len(paths))
	for _, path := range paths {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%s: %w", op, ctx.Err())
		default:
		}

		data, err := l.readFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		documents = append(documents, models.RawDocument{
			Name: filepath.Base(path),
			Data: data,
		})
		l.log.Debug("document loaded", "path", path, "size", len(data))
	}

	return documents, nil
}

func (l *Loader) readFile(path string) (data []byte, err error) {
	f, err := os.Open(path)
	if err != nil {
		l.log.Error("Failed to open file", "path", path, sl.Err(err))
		return nil, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			l.log.Error("Failed to close file", "path", path, sl.Err(closeErr))
		}
	}()

	return io.ReadAll(f)
}
