package service

import (
	"log/slog"

	"reelhub/internal/observability"
)

// serviceLogger falls back to the process-wide logger, which bootstrap points
// at the request-aware handler.
func serviceLogger(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return observability.GlobalLogger.Logger
}
