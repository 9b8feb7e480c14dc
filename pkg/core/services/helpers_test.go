package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/model"
	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/db"
)

// recordingNotifier implements Notifier
type recordingNotifier struct {
	mu   sync.Mutex
	sent []*model.Notification
	err  error
}

func (r *recordingNotifier) Notify(ctx context.Context, n *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return r.err
}

func (r *recordingNotifier) notifications() []*model.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*model.Notification(nil), r.sent...)
}

// recordingRecorder implements Recorder
type recordingRecorder struct {
	mu      sync.Mutex
	entries []model.HistoryEntry
}

func (r *recordingRecorder) Record(ctx context.Context, entry model.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *recordingRecorder) history() []model.HistoryEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.HistoryEntry(nil), r.entries...)
}

// unavailableStore implements db.EnrollmentStore and fails every call
type unavailableStore struct{}

func (unavailableStore) WithEventLock(ctx context.Context, eventID string, fn func(tx db.Tx) error) error {
	return db.ErrUnavailable
}

func (unavailableStore) WithApplicationLock(ctx context.Context, appID string, fn func(tx db.Tx) error) error {
	return db.ErrUnavailable
}

type fixture struct {
	store    *db.MemoryDB
	notifier *recordingNotifier
	recorder *recordingRecorder
	effects  *Effects
	logger   *zap.Logger
}

func newFixture() *fixture {
	notifier := &recordingNotifier{}
	recorder := &recordingRecorder{}
	logger := zap.NewNop()
	return &fixture{
		store:    db.NewMemoryDB(),
		notifier: notifier,
		recorder: recorder,
		effects:  NewEffects(notifier, recorder, logger, time.Second),
		logger:   logger,
	}
}

func (f *fixture) now() time.Time { return time.Now().UTC() }

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

// addEvent stores a Planned event starting in a week
func (f *fixture) addEvent(t *testing.T, id string, limit *int) {
	t.Helper()
	start := time.Now().UTC().Add(7 * 24 * time.Hour)
	require.NoError(t, f.store.InsertEvent(context.Background(), &model.Event{
		ID:            id,
		Title:         "Event " + id,
		Description:   "Helping out",
		Location:      "Community hall",
		Urgency:       model.UrgencyMedium,
		Start:         start,
		End:           start.Add(3 * time.Hour),
		Status:        model.EventPlanned,
		MaxVolunteers: limit,
		CreatedBy:     "org-1",
	}))
}

func (f *fixture) currentVolunteers(t *testing.T, eventID string) int {
	t.Helper()
	e, err := f.store.GetEvent(context.Background(), eventID)
	require.NoError(t, err)
	return e.CurrentVolunteers
}

func (f *fixture) apply(t *testing.T, volunteerID, eventID string) *model.Application {
	t.Helper()
	app, err := Apply(context.Background(), f.store, f.effects, f.logger, volunteerID, eventID)
	require.NoError(t, err)
	return app
}

func (f *fixture) transition(t *testing.T, appID string, status model.ApplicationStatus, hours *float64) *model.Application {
	t.Helper()
	app, err := Transition(context.Background(), f.store, f.effects, f.logger, appID, status, TransitionPayload{HoursLogged: hours})
	require.NoError(t, err)
	return app
}
