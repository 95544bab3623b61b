package logging

import (
	"io"
	"log/slog"
	"os"
)

// New creates a configured application logger.
// It writes to Stderr (stdout is reserved for wizard UI output) and
// normalizes key spellings so a draft can be traced across subsystems:
// "error" becomes "err" and "draftId" becomes "draft_id".
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: normalizeKeys,
	}))
}

func normalizeKeys(groups []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case "error":
		a.Key = "err"
	case "draftId":
		a.Key = "draft_id"
	}
	return a
}

// ForComponent tags a logger with the emitting subsystem ("engine",
// "store", "analytics", "http"), so interleaved session and transport
// lines stay attributable.
func ForComponent(logger *slog.Logger, name string) *slog.Logger {
	return logger.With("component", name)
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
