package db

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/model"
)

func seedEvent(t *testing.T, m *MemoryDB, id string, limit *int) {
	t.Helper()
	start := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, m.InsertEvent(context.Background(), &model.Event{
		ID:            id,
		Title:         "Event " + id,
		Start:         start,
		End:           start.Add(2 * time.Hour),
		Status:        model.EventPlanned,
		Urgency:       model.UrgencyMedium,
		MaxVolunteers: limit,
	}))
}

func intPtr(v int) *int { return &v }

func TestMemoryDB_ReserveSlot_RespectsCapacity(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryDB()
	seedEvent(t, m, "e1", intPtr(1))

	var first, second bool
	err := m.WithEventLock(ctx, "e1", func(tx Tx) error {
		var err error
		first, err = tx.ReserveSlot(ctx, "e1")
		if err != nil {
			return err
		}
		second, err = tx.ReserveSlot(ctx, "e1")
		return err
	})
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)

	e, err := m.GetEvent(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, 1, e.CurrentVolunteers)
}

func TestMemoryDB_ReleaseSlot_FloorsAtZero(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryDB()
	seedEvent(t, m, "e1", intPtr(3))

	err := m.WithEventLock(ctx, "e1", func(tx Tx) error {
		return tx.ReleaseSlot(ctx, "e1")
	})
	require.NoError(t, err)

	e, err := m.GetEvent(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, 0, e.CurrentVolunteers)
}

func TestMemoryDB_FailedLockedFunctionRollsBack(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryDB()
	seedEvent(t, m, "e1", intPtr(2))

	boom := errors.New("boom")
	err := m.WithEventLock(ctx, "e1", func(tx Tx) error {
		if _, err := tx.ReserveSlot(ctx, "e1"); err != nil {
			return err
		}
		if err := tx.InsertApplication(ctx, &model.Application{ID: "a1", VolunteerID: "v1", EventID: "e1", Status: model.StatusApplied}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	e, err := m.GetEvent(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, 0, e.CurrentVolunteers)

	apps, err := m.ListApplicationsByEvent(ctx, "e1")
	require.NoError(t, err)
	assert.Empty(t, apps)
}

func TestMemoryDB_UpdateApplicationRollsBack(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryDB()
	seedEvent(t, m, "e1", nil)

	require.NoError(t, m.WithEventLock(ctx, "e1", func(tx Tx) error {
		return tx.InsertApplication(ctx, &model.Application{ID: "a1", VolunteerID: "v1", EventID: "e1", Status: model.StatusApplied})
	}))

	err := m.WithApplicationLock(ctx, "a1", func(tx Tx) error {
		app, err := tx.GetApplication(ctx, "a1")
		if err != nil {
			return err
		}
		app.Status = model.StatusAccepted
		if err := tx.UpdateApplication(ctx, app); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.Error(t, err)

	require.NoError(t, m.WithApplicationLock(ctx, "a1", func(tx Tx) error {
		app, err := tx.GetApplication(ctx, "a1")
		require.NoError(t, err)
		assert.Equal(t, model.StatusApplied, app.Status)
		return nil
	}))
}

func TestMemoryDB_InsertApplication_RejectsSecondActive(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryDB()
	seedEvent(t, m, "e1", nil)

	insert := func(id string, status model.ApplicationStatus) error {
		return m.WithEventLock(ctx, "e1", func(tx Tx) error {
			return tx.InsertApplication(ctx, &model.Application{ID: id, VolunteerID: "v1", EventID: "e1", Status: status})
		})
	}

	require.NoError(t, insert("a1", model.StatusCanceled))
	require.NoError(t, insert("a2", model.StatusApplied))
	assert.ErrorIs(t, insert("a3", model.StatusApplied), ErrConflict)

	require.NoError(t, m.WithEventLock(ctx, "e1", func(tx Tx) error {
		active, err := tx.FindActiveApplication(ctx, "v1", "e1")
		require.NoError(t, err)
		require.NotNil(t, active)
		assert.Equal(t, "a2", active.ID)

		none, err := tx.FindActiveApplication(ctx, "v2", "e1")
		require.NoError(t, err)
		assert.Nil(t, none)
		return nil
	}))
}

func TestMemoryDB_WithEventLock_SerializesPerKey(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryDB()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.WithEventLock(ctx, "e1", func(tx Tx) error {
				n := atomic.AddInt32(&inside, 1)
				for {
					cur := atomic.LoadInt32(&maxInside)
					if n <= cur || atomic.CompareAndSwapInt32(&maxInside, cur, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&inside, -1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
	assert.Empty(t, m.eventLocks.locks)
}

func TestMemoryDB_WithEventLock_HonoursContext(t *testing.T) {
	m := NewMemoryDB()
	held := make(chan struct{})
	done := make(chan struct{})

	go func() {
		_ = m.WithEventLock(context.Background(), "e1", func(tx Tx) error {
			close(held)
			<-done
			return nil
		})
	}()
	<-held

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := m.WithEventLock(ctx, "e1", func(tx Tx) error { return nil })
	close(done)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMemoryDB_ListEvents_OrderedByStart(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryDB()
	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, m.InsertEvents(ctx, []*model.Event{
		{ID: "late", Start: base.Add(48 * time.Hour), Status: model.EventPlanned},
		{ID: "early", Start: base, Status: model.EventPlanned},
		{ID: "done", Start: base.Add(time.Hour), Status: model.EventCompleted},
	}))

	events, err := m.ListEvents(ctx, model.EventFilter{Statuses: []model.EventStatus{model.EventPlanned}})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "early", events[0].ID)
	assert.Equal(t, "late", events[1].ID)

	assert.ErrorIs(t, m.InsertEvent(ctx, &model.Event{ID: "early"}), ErrConflict)
}

func TestMemoryDB_Notifications(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryDB()

	require.NoError(t, m.InsertNotification(ctx, &model.Notification{ID: "n1", RecipientID: "u1", Title: "first"}))
	require.NoError(t, m.InsertNotification(ctx, &model.Notification{ID: "n2", RecipientID: "u1", Title: "second"}))
	require.NoError(t, m.InsertNotification(ctx, &model.Notification{ID: "n3", RecipientID: "u2", Title: "other"}))

	require.NoError(t, m.MarkNotificationRead(ctx, "n2"))
	assert.ErrorIs(t, m.MarkNotificationRead(ctx, "missing"), ErrNotFound)

	all, err := m.ListNotifications(ctx, "u1", false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "n2", all[0].ID)
	assert.True(t, all[0].Read)

	unread, err := m.ListNotifications(ctx, "u1", true)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "n1", unread[0].ID)

	changed, err := m.MarkAllNotificationsRead(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	unread, err = m.ListNotifications(ctx, "u1", true)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestMemoryDB_GetReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryDB()
	seedEvent(t, m, "e1", intPtr(5))

	e, err := m.GetEvent(ctx, "e1")
	require.NoError(t, err)
	*e.MaxVolunteers = 1
	e.CurrentVolunteers = 99

	again, err := m.GetEvent(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, 5, *again.MaxVolunteers)
	assert.Equal(t, 0, again.CurrentVolunteers)

	_, err = m.GetProfile(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}
