package loader

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDocuments(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.txt")
	second := filepath.Join(dir, "second.pdf")
	require.NoError(t, os.WriteFile(first, []byte("one"), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("two"), 0o644))

	l := NewLoader(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	documents, err := l.LoadDocuments(context.Background(), []string{second, first})
	require.NoError(t, err)
	require.Len(t, documents, 2)
	assert.Equal(t, "second.pdf", documents[0].Name)
	assert.Equal(t, []byte("two"), documents[0].Data)
	assert.Equal(t, "first.txt", documents[1].Name)
}

func TestLoadDocumentsMissingFile(t *testing.T) {
	l := NewLoader(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	_, err := l.LoadDocuments(context.Background(), []string{filepath.Join(t.TempDir(), "missing.pdf")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadDocumentsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := NewLoader(slog.New(slog.NewTextHandler(os.Stdout, nil)))
	_, err := l.LoadDocuments(ctx, []string{"whatever"})
	assert.ErrorIs(t, err, context.Canceled)
}
