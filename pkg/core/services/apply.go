package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/model"
	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/db"
)

// Apply enrolls a volunteer in an event. The duplicate check, event checks,
// capacity reservation and application insert run under the event lock and
// commit together, so concurrent applications can never overfill an event.
func Apply(ctx context.Context, store db.EnrollmentStore, effects *Effects, logger *zap.Logger, volunteerID, eventID string) (*model.Application, error) {
	if strings.TrimSpace(volunteerID) == "" || strings.TrimSpace(eventID) == "" {
		return nil, model.Validation(model.MsgApplyIDsRequired)
	}

	logger.Debug("Applying for event", zap.String("volunteer_id", volunteerID), zap.String("event_id", eventID))

	var app *model.Application
	var event *model.Event

	err := store.WithEventLock(ctx, eventID, func(tx db.Tx) error {
		existing, err := tx.FindActiveApplication(ctx, volunteerID, eventID)
		if err != nil {
			return storeError(err, nil)
		}
		if existing != nil {
			return model.AlreadyApplied(existing.Status)
		}

		event, err = tx.GetEvent(ctx, eventID)
		if err != nil {
			return storeError(err, model.NewError(model.KindEventNotFound, model.MsgEventNotFound))
		}
		if !event.Status.AcceptsVolunteers() {
			return model.NewError(model.KindEventClosed, model.MsgEventClosed)
		}
		if event.Full() {
			return model.NewError(model.KindEventFull, model.MsgEventFull)
		}

		reserved, err := tx.ReserveSlot(ctx, eventID)
		if err != nil {
			return storeError(err, model.NewError(model.KindEventNotFound, model.MsgEventNotFound))
		}
		if !reserved {
			return model.NewError(model.KindEventFull, model.MsgEventFull)
		}

		now := time.Now().UTC()
		app = &model.Application{
			ID:           uuid.New().String(),
			VolunteerID:  volunteerID,
			EventID:      eventID,
			Status:       model.StatusApplied,
			SlotReserved: true,
			AppliedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.InsertApplication(ctx, app); err != nil {
			// Only reachable if a row was written outside the event lock
			if errors.Is(err, db.ErrConflict) {
				return model.AlreadyApplied(model.StatusApplied)
			}
			return storeError(err, nil)
		}
		return nil
	})
	if err != nil {
		logger.Debug("Application rejected",
			zap.String("volunteer_id", volunteerID),
			zap.String("event_id", eventID),
			zap.String("kind", string(model.KindOf(err))),
			zap.Error(err))
		return nil, storeError(err, nil)
	}

	logger.Info("Volunteer applied for event",
		zap.String("application_id", app.ID),
		zap.String("volunteer_id", volunteerID),
		zap.String("event_id", eventID))

	effects.Notify(&model.Notification{
		RecipientID: event.CreatedBy,
		Title:       "New volunteer application",
		Message:     fmt.Sprintf("A volunteer has applied for %s", event.Title),
		Link:        "/events/" + event.ID,
	})
	effects.Record(model.HistoryEntry{
		ApplicationID: app.ID,
		EventID:       app.EventID,
		VolunteerID:   app.VolunteerID,
		Action:        "apply",
		To:            app.Status,
		At:            app.AppliedAt,
	})

	return app, nil
}
