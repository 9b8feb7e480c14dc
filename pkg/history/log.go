// Package history stores the audit trail of committed application changes.
package history

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/model"
)

// LogRecorder writes history entries to the structured log. Used when no
// MongoDB is configured.
type LogRecorder struct {
	logger *zap.Logger
}

func NewLogRecorder(logger *zap.Logger) *LogRecorder {
	return &LogRecorder{logger: logger.Named("history")}
}

func (r *LogRecorder) Record(ctx context.Context, entry model.HistoryEntry) error {
	at := entry.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	fields := []zap.Field{
		zap.String("action", entry.Action),
		zap.String("application_id", entry.ApplicationID),
		zap.String("event_id", entry.EventID),
		zap.String("volunteer_id", entry.VolunteerID),
		zap.String("to", string(entry.To)),
		zap.Time("at", at),
	}
	if entry.From != "" {
		fields = append(fields, zap.String("from", string(entry.From)))
	}

	r.logger.Info("Application history", fields...)
	return nil
}
