package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/model"
	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/db"
)

// AttachFeedback stores the volunteer's feedback and rating on a participated
// application. Calling it again replaces the previous feedback.
func AttachFeedback(ctx context.Context, store db.EnrollmentStore, effects *Effects, logger *zap.Logger, appID, feedback string, rating int) (*model.Application, error) {
	if strings.TrimSpace(appID) == "" {
		return nil, model.Validation(model.MsgApplicationIDReq)
	}
	text := sanitizeText(feedback)
	if text == "" {
		return nil, model.Validation(model.MsgFeedbackRequired)
	}
	if rating < 1 || rating > 5 {
		return nil, model.NewError(model.KindInvalidRating, model.MsgInvalidRating)
	}

	var app *model.Application
	err := store.WithApplicationLock(ctx, appID, func(tx db.Tx) error {
		var err error
		app, err = tx.GetApplication(ctx, appID)
		if err != nil {
			return storeError(err, model.NewError(model.KindApplicationNotFound, model.MsgApplicationNotFound))
		}
		if app.Status != model.StatusParticipated {
			return model.NewError(model.KindInvalidTransition, model.MsgFeedbackNotAllowed)
		}

		app.Feedback = &text
		app.Rating = &rating
		app.UpdatedAt = time.Now().UTC()
		if err := tx.UpdateApplication(ctx, app); err != nil {
			return storeError(err, model.NewError(model.KindApplicationNotFound, model.MsgApplicationNotFound))
		}
		return nil
	})
	if err != nil {
		return nil, storeError(err, nil)
	}

	logger.Info("Feedback recorded", zap.String("application_id", appID), zap.Int("rating", rating))

	effects.Record(model.HistoryEntry{
		ApplicationID: app.ID,
		EventID:       app.EventID,
		VolunteerID:   app.VolunteerID,
		Action:        "feedback",
		From:          app.Status,
		To:            app.Status,
		At:            app.UpdatedAt,
	})

	return app, nil
}
