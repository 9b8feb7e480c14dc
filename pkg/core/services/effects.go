package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/model"
)

// Notifier delivers a notification to its recipient
type Notifier interface {
	Notify(ctx context.Context, n *model.Notification) error
}

// Recorder stores a history entry for a committed application change
type Recorder interface {
	Record(ctx context.Context, entry model.HistoryEntry) error
}

const defaultEffectTimeout = 10 * time.Second

// Effects fans committed changes out to the notification and history sinks.
// Deliveries run in the background with their own timeout; failures are
// logged and never reach the caller. A nil *Effects discards everything.
type Effects struct {
	notifier Notifier
	recorder Recorder
	logger   *zap.Logger
	timeout  time.Duration
	wg       sync.WaitGroup
}

// NewEffects creates an Effects. Either sink may be nil.
func NewEffects(notifier Notifier, recorder Recorder, logger *zap.Logger, timeout time.Duration) *Effects {
	if timeout <= 0 {
		timeout = defaultEffectTimeout
	}
	return &Effects{
		notifier: notifier,
		recorder: recorder,
		logger:   logger,
		timeout:  timeout,
	}
}

// Notify sends n in the background, filling in id and created_at if empty
func (e *Effects) Notify(n *model.Notification) {
	if e == nil || e.notifier == nil || n.RecipientID == "" {
		return
	}
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	e.run(func(ctx context.Context) {
		if err := e.notifier.Notify(ctx, n); err != nil {
			e.logger.Warn("Failed to deliver notification",
				zap.String("recipient_id", n.RecipientID),
				zap.String("title", n.Title),
				zap.Error(err))
		}
	})
}

// Record stores entry in the background
func (e *Effects) Record(entry model.HistoryEntry) {
	if e == nil || e.recorder == nil {
		return
	}

	e.run(func(ctx context.Context) {
		if err := e.recorder.Record(ctx, entry); err != nil {
			e.logger.Warn("Failed to record history",
				zap.String("application_id", entry.ApplicationID),
				zap.String("action", entry.Action),
				zap.Error(err))
		}
	})
}

// Wait blocks until all in-flight deliveries have finished
func (e *Effects) Wait() {
	if e == nil {
		return
	}
	e.wg.Wait()
}

func (e *Effects) run(fn func(ctx context.Context)) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		// Detached from the request context: the request may finish first
		ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
		defer cancel()
		fn(ctx)
	}()
}
