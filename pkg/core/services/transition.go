package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/model"
	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/db"
)

// TransitionPayload carries the data some transitions require
type TransitionPayload struct {
	HoursLogged *float64 `json:"hours_logged,omitempty"`
}

// Transition moves an application to newStatus. Declined, Canceled and NoShow
// give back the capacity slot reserved at Apply time.
func Transition(
	ctx context.Context,
	store db.EnrollmentStore,
	effects *Effects,
	logger *zap.Logger,
	appID string,
	newStatus model.ApplicationStatus,
	payload TransitionPayload,
) (*model.Application, error) {
	if strings.TrimSpace(appID) == "" {
		return nil, model.Validation(model.MsgApplicationIDReq)
	}
	if newStatus == "" {
		return nil, model.Validation(model.MsgStatusRequired)
	}
	if !newStatus.IsValid() {
		_, err := model.ParseApplicationStatus(string(newStatus))
		return nil, model.Validation(err.Error())
	}

	logger.Debug("Transitioning application",
		zap.String("application_id", appID),
		zap.String("to", string(newStatus)))

	var app *model.Application
	var from model.ApplicationStatus
	var eventTitle string

	err := store.WithApplicationLock(ctx, appID, func(tx db.Tx) error {
		var err error
		app, err = tx.GetApplication(ctx, appID)
		if err != nil {
			return storeError(err, model.NewError(model.KindApplicationNotFound, model.MsgApplicationNotFound))
		}
		from = app.Status

		if !from.CanTransition(newStatus) {
			return model.InvalidTransition(from, newStatus)
		}

		if newStatus == model.StatusParticipated {
			hours, ok := validHours(payload.HoursLogged)
			if !ok {
				return model.NewError(model.KindInvalidHours, model.MsgInvalidHours)
			}
			app.HoursLogged = &hours
		}

		if newStatus.ReleasesSlot() && app.SlotReserved {
			if err := tx.ReleaseSlot(ctx, app.EventID); err != nil {
				return storeError(err, nil)
			}
			app.SlotReserved = false
		}

		app.Status = newStatus
		app.UpdatedAt = time.Now().UTC()
		if err := tx.UpdateApplication(ctx, app); err != nil {
			return storeError(err, model.NewError(model.KindApplicationNotFound, model.MsgApplicationNotFound))
		}

		if event, err := tx.GetEvent(ctx, app.EventID); err == nil {
			eventTitle = event.Title
		}
		return nil
	})
	if err != nil {
		logger.Debug("Transition rejected",
			zap.String("application_id", appID),
			zap.String("to", string(newStatus)),
			zap.Error(err))
		return nil, storeError(err, nil)
	}

	logger.Info("Application status changed",
		zap.String("application_id", app.ID),
		zap.String("from", string(from)),
		zap.String("to", string(newStatus)))

	if n := volunteerNotice(app, eventTitle); n != nil {
		effects.Notify(n)
	}
	effects.Record(model.HistoryEntry{
		ApplicationID: app.ID,
		EventID:       app.EventID,
		VolunteerID:   app.VolunteerID,
		Action:        "transition",
		From:          from,
		To:            app.Status,
		At:            app.UpdatedAt,
	})

	return app, nil
}

func validHours(h *float64) (float64, bool) {
	if h == nil || math.IsNaN(*h) || math.IsInf(*h, 0) || *h <= 0 {
		return 0, false
	}
	return *h, true
}

// volunteerNotice builds the message sent to the volunteer when the
// organization accepts or declines them
func volunteerNotice(app *model.Application, eventTitle string) *model.Notification {
	if eventTitle == "" {
		eventTitle = "the event"
	}
	switch app.Status {
	case model.StatusAccepted:
		return &model.Notification{
			RecipientID: app.VolunteerID,
			Title:       "Application accepted",
			Message:     fmt.Sprintf("You have been accepted for %s", eventTitle),
			Link:        "/events/" + app.EventID,
		}
	case model.StatusDeclined:
		return &model.Notification{
			RecipientID: app.VolunteerID,
			Title:       "Application declined",
			Message:     fmt.Sprintf("Your application for %s was declined", eventTitle),
			Link:        "/events/" + app.EventID,
		}
	}
	return nil
}
