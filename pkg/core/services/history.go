package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/model"
	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/db"
)

// ApplicationReader defines the database operations needed to read applications
type ApplicationReader interface {
	ListApplicationsByVolunteer(ctx context.Context, volunteerID string) ([]*model.Application, error)
	ListApplicationsByEvent(ctx context.Context, eventID string) ([]*model.Application, error)
	GetEvent(ctx context.Context, id string) (*model.Event, error)
}

// HistoryRecord is an application together with the event it is for
type HistoryRecord struct {
	*model.Application
	Event *model.Event `json:"event,omitempty"`
}

// VolunteerHistory returns a volunteer's applications, newest first, with event details
func VolunteerHistory(ctx context.Context, store ApplicationReader, logger *zap.Logger, volunteerID string) ([]HistoryRecord, error) {
	if strings.TrimSpace(volunteerID) == "" {
		return nil, model.Validation("User ID is required")
	}

	apps, err := store.ListApplicationsByVolunteer(ctx, volunteerID)
	if err != nil {
		return nil, storeError(err, nil)
	}

	events := make(map[string]*model.Event)
	records := make([]HistoryRecord, 0, len(apps))
	for _, app := range apps {
		event, seen := events[app.EventID]
		if !seen {
			event, err = store.GetEvent(ctx, app.EventID)
			if err != nil && !errors.Is(err, db.ErrNotFound) {
				return nil, storeError(err, nil)
			}
			events[app.EventID] = event
		}
		records = append(records, HistoryRecord{Application: app, Event: event})
	}

	logger.Debug("Loaded volunteer history",
		zap.String("volunteer_id", volunteerID),
		zap.Int("applications", len(records)))

	return records, nil
}

// EventVolunteers returns every application made to an event, oldest first
func EventVolunteers(ctx context.Context, store ApplicationReader, logger *zap.Logger, eventID string) ([]*model.Application, error) {
	if strings.TrimSpace(eventID) == "" {
		return nil, model.Validation("Event ID is required")
	}

	if _, err := store.GetEvent(ctx, eventID); err != nil {
		return nil, storeError(err, model.NewError(model.KindEventNotFound, model.MsgEventNotFound))
	}

	apps, err := store.ListApplicationsByEvent(ctx, eventID)
	if err != nil {
		return nil, storeError(err, nil)
	}

	logger.Debug("Loaded event volunteers", zap.String("event_id", eventID), zap.Int("applications", len(apps)))
	return apps, nil
}
