package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/model"
	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/db"
)

// mockRankStore implements RankEventsStore
type mockRankStore struct {
	profile    *model.VolunteerProfile
	events     []*model.Event
	profileErr error
	eventsErr  error
	lastFilter model.EventFilter
}

func (m *mockRankStore) GetProfile(ctx context.Context, id string) (*model.VolunteerProfile, error) {
	if m.profileErr != nil {
		return nil, m.profileErr
	}
	return m.profile, nil
}

func (m *mockRankStore) ListEvents(ctx context.Context, filter model.EventFilter) ([]*model.Event, error) {
	m.lastFilter = filter
	if m.eventsErr != nil {
		return nil, m.eventsErr
	}
	return m.events, nil
}

func TestRankEvents_ScoresAndOrders(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	store := &mockRankStore{
		profile: &model.VolunteerProfile{
			ID:     "vol-1",
			Skills: []model.Skill{{Name: "Teaching", Proficiency: "Expert"}},
		},
		events: []*model.Event{
			{ID: "later", Urgency: model.UrgencyLow, Start: now.Add(40 * 24 * time.Hour), Status: model.EventPlanned},
			{ID: "reading", RequiredSkills: []string{"Teaching"}, Urgency: model.UrgencyHigh, Start: now.Add(2 * 24 * time.Hour), Status: model.EventPlanned},
		},
	}

	ranked, err := RankEvents(context.Background(), store, zap.NewNop(), "vol-1", now)
	require.NoError(t, err)
	require.Len(t, ranked, 2)

	assert.Equal(t, "reading", ranked[0].Event.ID)
	assert.Equal(t, 9, ranked[0].Score)
	assert.Equal(t, "later", ranked[1].Event.ID)
	assert.Equal(t, 1, ranked[1].Score)

	assert.ElementsMatch(t, []model.EventStatus{model.EventPlanned, model.EventInProgress}, store.lastFilter.Statuses)
}

func TestRankEvents_WithMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryDB()
	now := time.Now().UTC()

	require.NoError(t, store.UpsertProfile(ctx, &model.VolunteerProfile{ID: "vol-1", Preferences: []string{"animals"}}))
	require.NoError(t, store.InsertEvents(ctx, []*model.Event{
		{ID: "shelter", Description: "Walk the ANIMALS", Urgency: model.UrgencyMedium, Start: now.Add(10 * 24 * time.Hour), Status: model.EventInProgress},
		{ID: "closed", Description: "animals", Urgency: model.UrgencyHigh, Start: now.Add(24 * time.Hour), Status: model.EventCompleted},
	}))

	ranked, err := RankEvents(ctx, store, zap.NewNop(), "vol-1", now)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, "shelter", ranked[0].Event.ID)
	assert.Equal(t, 1+2+2, ranked[0].Score)
}

func TestRankEvents_Errors(t *testing.T) {
	_, err := RankEvents(context.Background(), &mockRankStore{}, zap.NewNop(), " ", time.Now())
	assert.True(t, model.IsKind(err, model.KindValidation))

	_, err = RankEvents(context.Background(), &mockRankStore{profileErr: errors.New("connection reset")}, zap.NewNop(), "vol-1", time.Now())
	assert.True(t, model.Retryable(err))

	_, err = RankEvents(context.Background(), &mockRankStore{
		profile:   &model.VolunteerProfile{ID: "vol-1"},
		eventsErr: errors.New("connection reset"),
	}, zap.NewNop(), "vol-1", time.Now())
	assert.True(t, model.Retryable(err))
}

func TestRankEvents_WithoutProfile(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	store := db.NewMemoryDB()
	require.NoError(t, store.InsertEvent(ctx, &model.Event{
		ID: "soup-kitchen", RequiredSkills: []string{"Cooking"}, Urgency: model.UrgencyHigh,
		Start: now.Add(2 * 24 * time.Hour), Status: model.EventPlanned,
	}))

	ranked, err := RankEvents(ctx, store, zap.NewNop(), "vol-without-profile", now)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, "soup-kitchen", ranked[0].Event.ID)
	assert.Equal(t, 3+4, ranked[0].Score)
}
