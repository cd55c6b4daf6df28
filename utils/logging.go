package utils

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	slogmulti "github.com/samber/slog-multi"
)

// Journal message and status values, shared by the writer and ParseLogFile.
const (
	JournalMsg = "NGS-WRAP"

	StatusStarted   = "STARTED"
	StatusCompleted = "COMPLETED"
	StatusSkipped   = "SKIPPED"
	StatusFailed    = "FAILED"
)

// NewLogger writes human readable records to stderr and, when journal is
// non-nil, JSON records tagged with runID to the journal.
func NewLogger(stderr io.Writer, journal io.Writer, runID string) *slog.Logger {
	handlers := []slog.Handler{
		slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelInfo}),
	}
	if journal != nil {
		jsonHandler := slog.NewJSONHandler(journal, &slog.HandlerOptions{Level: slog.LevelInfo})
		handlers = append(handlers, jsonHandler.WithAttrs([]slog.Attr{slog.String("RUN", runID)}))
	}
	return slog.New(slogmulti.Fanout(handlers...))
}

func OpenJournal(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrapf(err, "creating journal directory for %s", path)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, errors.Wrapf(err, "opening journal %s", path)
	}
	return f, nil
}
