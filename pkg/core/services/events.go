package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/model"
)

// EventStatusStore defines the database operations needed to change an event's status
type EventStatusStore interface {
	UpdateEventStatus(ctx context.Context, id string, status model.EventStatus, updatedAt time.Time) error
	GetEvent(ctx context.Context, id string) (*model.Event, error)
}

// UpdateEventStatus sets an event's lifecycle status. Only Planned and
// InProgress events accept new applications.
func UpdateEventStatus(ctx context.Context, store EventStatusStore, logger *zap.Logger, eventID, status string) (*model.Event, error) {
	if strings.TrimSpace(eventID) == "" {
		return nil, model.Validation("Event ID is required")
	}
	newStatus, err := model.ParseEventStatus(status)
	if err != nil {
		return nil, model.Validation(err.Error())
	}

	notFound := model.NewError(model.KindEventNotFound, model.MsgEventNotFound)
	if err := store.UpdateEventStatus(ctx, eventID, newStatus, time.Now().UTC()); err != nil {
		return nil, storeError(err, notFound)
	}

	logger.Info("Event status changed", zap.String("event_id", eventID), zap.String("status", string(newStatus)))

	event, err := store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, storeError(err, notFound)
	}
	return event, nil
}

// EventReader defines the database operations needed to read events
type EventReader interface {
	ListEvents(ctx context.Context, filter model.EventFilter) ([]*model.Event, error)
	GetEvent(ctx context.Context, id string) (*model.Event, error)
}

// ListEvents returns events matching filter ordered by start date
func ListEvents(ctx context.Context, store EventReader, logger *zap.Logger, filter model.EventFilter) ([]*model.Event, error) {
	events, err := store.ListEvents(ctx, filter)
	if err != nil {
		return nil, storeError(err, nil)
	}
	logger.Debug("Listed events", zap.Int("count", len(events)))
	return events, nil
}

// GetEvent returns a single event
func GetEvent(ctx context.Context, store EventReader, eventID string) (*model.Event, error) {
	event, err := store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, storeError(err, model.NewError(model.KindEventNotFound, model.MsgEventNotFound))
	}
	return event, nil
}
