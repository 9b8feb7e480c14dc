package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/model"
)

func TestApply_CreatesApplicationAndReservesSlot(t *testing.T) {
	f := newFixture()
	f.addEvent(t, "e1", intPtr(3))

	app := f.apply(t, "vol-1", "e1")

	assert.NotEmpty(t, app.ID)
	assert.Equal(t, model.StatusApplied, app.Status)
	assert.Equal(t, "vol-1", app.VolunteerID)
	assert.Equal(t, "e1", app.EventID)
	assert.False(t, app.AppliedAt.IsZero())
	assert.Equal(t, 1, f.currentVolunteers(t, "e1"))

	f.effects.Wait()
	sent := f.notifier.notifications()
	require.Len(t, sent, 1)
	assert.Equal(t, "org-1", sent[0].RecipientID)
	assert.Equal(t, "New volunteer application", sent[0].Title)
	assert.Equal(t, "/events/e1", sent[0].Link)

	history := f.recorder.history()
	require.Len(t, history, 1)
	assert.Equal(t, "apply", history[0].Action)
	assert.Equal(t, model.StatusApplied, history[0].To)
}

func TestApply_UnboundedEventAlwaysAdmits(t *testing.T) {
	f := newFixture()
	f.addEvent(t, "e1", nil)

	for i := 0; i < 10; i++ {
		f.apply(t, fmt.Sprintf("vol-%d", i), "e1")
	}
	assert.Equal(t, 10, f.currentVolunteers(t, "e1"))
}

func TestApply_SecondApplicationIsRejected(t *testing.T) {
	f := newFixture()
	f.addEvent(t, "e1", intPtr(5))

	f.apply(t, "vol-1", "e1")

	_, err := Apply(context.Background(), f.store, f.effects, f.logger, "vol-1", "e1")
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindAlreadyApplied))
	assert.Equal(t, "You have already applied for this event (Status: Applied)", err.Error())
	assert.Equal(t, 1, f.currentVolunteers(t, "e1"))
}

func TestApply_AllowedAgainAfterCancel(t *testing.T) {
	f := newFixture()
	f.addEvent(t, "e1", intPtr(1))

	first := f.apply(t, "vol-1", "e1")
	f.transition(t, first.ID, model.StatusCanceled, nil)
	assert.Equal(t, 0, f.currentVolunteers(t, "e1"))

	second := f.apply(t, "vol-1", "e1")
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 1, f.currentVolunteers(t, "e1"))
}

func TestApply_Rejections(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(t *testing.T, f *fixture)
		volunteerID string
		eventID     string
		kind        model.Kind
		message     string
	}{
		{
			name:        "missing ids",
			setup:       func(t *testing.T, f *fixture) {},
			volunteerID: "vol-1",
			eventID:     "  ",
			kind:        model.KindValidation,
			message:     "User ID and Event ID are required",
		},
		{
			name:        "unknown event",
			setup:       func(t *testing.T, f *fixture) {},
			volunteerID: "vol-1",
			eventID:     "missing",
			kind:        model.KindEventNotFound,
			message:     "Event not found",
		},
		{
			name: "completed event",
			setup: func(t *testing.T, f *fixture) {
				f.addEvent(t, "e1", nil)
				require.NoError(t, f.store.UpdateEventStatus(context.Background(), "e1", model.EventCompleted, f.now()))
			},
			volunteerID: "vol-1",
			eventID:     "e1",
			kind:        model.KindEventClosed,
			message:     "Event is no longer accepting volunteers",
		},
		{
			name: "cancelled event",
			setup: func(t *testing.T, f *fixture) {
				f.addEvent(t, "e1", nil)
				require.NoError(t, f.store.UpdateEventStatus(context.Background(), "e1", model.EventCancelled, f.now()))
			},
			volunteerID: "vol-1",
			eventID:     "e1",
			kind:        model.KindEventClosed,
			message:     "Event is no longer accepting volunteers",
		},
		{
			name: "full event",
			setup: func(t *testing.T, f *fixture) {
				f.addEvent(t, "e1", intPtr(1))
				f.apply(t, "vol-0", "e1")
			},
			volunteerID: "vol-1",
			eventID:     "e1",
			kind:        model.KindEventFull,
			message:     "Event has reached maximum volunteer capacity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setup(t, f)

			app, err := Apply(context.Background(), f.store, f.effects, f.logger, tt.volunteerID, tt.eventID)
			require.Error(t, err)
			assert.Nil(t, app)
			assert.Equal(t, tt.kind, model.KindOf(err))
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestApply_DuplicateCheckedBeforeEventStatus(t *testing.T) {
	f := newFixture()
	f.addEvent(t, "e1", intPtr(1))
	f.apply(t, "vol-1", "e1")
	require.NoError(t, f.store.UpdateEventStatus(context.Background(), "e1", model.EventCompleted, f.now()))

	_, err := Apply(context.Background(), f.store, f.effects, f.logger, "vol-1", "e1")
	assert.True(t, model.IsKind(err, model.KindAlreadyApplied))
}

func TestApply_FullEventLeavesNoTrace(t *testing.T) {
	f := newFixture()
	f.addEvent(t, "e1", intPtr(1))
	f.apply(t, "vol-0", "e1")

	_, err := Apply(context.Background(), f.store, f.effects, f.logger, "vol-1", "e1")
	require.Error(t, err)

	apps, err := f.store.ListApplicationsByEvent(context.Background(), "e1")
	require.NoError(t, err)
	assert.Len(t, apps, 1)
	assert.Equal(t, 1, f.currentVolunteers(t, "e1"))
}

func TestApply_StorageUnavailable(t *testing.T) {
	f := newFixture()

	_, err := Apply(context.Background(), unavailableStore{}, f.effects, f.logger, "vol-1", "e1")
	require.Error(t, err)
	assert.True(t, model.Retryable(err))
	assert.Equal(t, model.KindStorageUnavailable, model.KindOf(err))
}

func TestApply_NotificationFailureDoesNotFailApply(t *testing.T) {
	f := newFixture()
	f.notifier.err = fmt.Errorf("smtp down")
	f.addEvent(t, "e1", intPtr(1))

	app := f.apply(t, "vol-1", "e1")
	f.effects.Wait()

	assert.Equal(t, model.StatusApplied, app.Status)
	assert.Equal(t, 1, f.currentVolunteers(t, "e1"))
}

func TestApply_ConcurrentLastSlot(t *testing.T) {
	f := newFixture()
	f.addEvent(t, "e1", intPtr(1))

	var wg sync.WaitGroup
	start := make(chan struct{})
	results := make([]error, 2)
	apps := make([]*model.Application, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			apps[i], results[i] = Apply(context.Background(), f.store, f.effects, f.logger, fmt.Sprintf("vol-%d", i), "e1")
		}(i)
	}
	close(start)
	wg.Wait()

	successes, full := 0, 0
	for i, err := range results {
		switch {
		case err == nil:
			successes++
			assert.Equal(t, model.StatusApplied, apps[i].Status)
		case model.IsKind(err, model.KindEventFull):
			full++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, full)
	assert.Equal(t, 1, f.currentVolunteers(t, "e1"))
}

func TestApply_CapacityInvariantUnderLoad(t *testing.T) {
	const capacity = 5
	const volunteers = 60

	f := newFixture()
	f.addEvent(t, "e1", intPtr(capacity))

	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0
	start := make(chan struct{})
	for i := 0; i < volunteers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, err := Apply(context.Background(), f.store, f.effects, f.logger, fmt.Sprintf("vol-%d", i), "e1")
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
				return
			}
			assert.True(t, model.IsKind(err, model.KindEventFull), "unexpected error: %v", err)
		}(i)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, capacity, successes)
	assert.Equal(t, capacity, f.currentVolunteers(t, "e1"))

	apps, err := f.store.ListApplicationsByEvent(context.Background(), "e1")
	require.NoError(t, err)
	assert.Len(t, apps, capacity)
}

func TestApply_SameVolunteerConcurrently(t *testing.T) {
	f := newFixture()
	f.addEvent(t, "e1", intPtr(10))

	var wg sync.WaitGroup
	var mu sync.Mutex
	successes, duplicates := 0, 0
	start := make(chan struct{})
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := Apply(context.Background(), f.store, f.effects, f.logger, "vol-1", "e1")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if model.IsKind(err, model.KindAlreadyApplied) {
				duplicates++
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 19, duplicates)
	assert.Equal(t, 1, f.currentVolunteers(t, "e1"))
}
