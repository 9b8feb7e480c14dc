package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/matching"
	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/model"
	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/db"
)

// RankEventsStore defines the database operations needed to rank events
type RankEventsStore interface {
	GetProfile(ctx context.Context, id string) (*model.VolunteerProfile, error)
	ListEvents(ctx context.Context, filter model.EventFilter) ([]*model.Event, error)
}

// RankEvents scores every open event for the volunteer and returns them best match first.
// Candidates are loaded in start order so equal scores list the soonest event first.
// A volunteer without a saved profile is ranked on urgency and proximity alone.
func RankEvents(ctx context.Context, store RankEventsStore, logger *zap.Logger, volunteerID string, now time.Time) ([]matching.RankedEvent, error) {
	if strings.TrimSpace(volunteerID) == "" {
		return nil, model.Validation("User ID is required")
	}

	logger.Debug("Ranking events", zap.String("volunteer_id", volunteerID))

	var profile *model.VolunteerProfile
	var events []*model.Event

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := store.GetProfile(gctx, volunteerID)
		if errors.Is(err, db.ErrNotFound) {
			logger.Debug("No profile saved, ranking without skills or preferences", zap.String("volunteer_id", volunteerID))
			p, err = &model.VolunteerProfile{ID: volunteerID}, nil
		}
		if err != nil {
			return storeError(err, nil)
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		e, err := store.ListEvents(gctx, model.EventFilter{
			Statuses: []model.EventStatus{model.EventPlanned, model.EventInProgress},
		})
		if err != nil {
			return storeError(err, nil)
		}
		events = e
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ranked := matching.Rank(profile, events, now)

	logger.Debug("Ranked events",
		zap.String("volunteer_id", volunteerID),
		zap.Int("candidates", len(events)),
		zap.Int("ranked", len(ranked)))

	return ranked, nil
}
