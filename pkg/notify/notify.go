// Package notify delivers notifications produced by committed changes.
package notify

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/model"
)

// Sink delivers a single notification
type Sink interface {
	Notify(ctx context.Context, n *model.Notification) error
}

// NotificationWriter is the storage needed by StoreSink
type NotificationWriter interface {
	InsertNotification(ctx context.Context, n *model.Notification) error
}

// StoreSink keeps notifications at rest for the recipient to list later
type StoreSink struct {
	store NotificationWriter
}

func NewStoreSink(store NotificationWriter) *StoreSink {
	return &StoreSink{store: store}
}

func (s *StoreSink) Notify(ctx context.Context, n *model.Notification) error {
	if err := s.store.InsertNotification(ctx, n); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}
	return nil
}

// Multi delivers to every sink in order. A failing sink does not stop the
// rest; all failures are returned together.
type Multi []Sink

func (m Multi) Notify(ctx context.Context, n *model.Notification) error {
	var err error
	for _, sink := range m {
		err = multierr.Append(err, sink.Notify(ctx, n))
	}
	return err
}
