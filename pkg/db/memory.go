package db

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/model"
)

// MemoryDB is an in-process Database. Capacity and status changes are
// serialized with per-event and per-application locks; plain reads and
// writes are guarded by a single RWMutex.
type MemoryDB struct {
	mu            sync.RWMutex
	events        map[string]*model.Event
	profiles      map[string]*model.VolunteerProfile
	applications  []*model.Application
	notifications []*model.Notification

	eventLocks *keyedMutex
	appLocks   *keyedMutex
}

// NewMemoryDB creates an empty in-memory database
func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		events:     make(map[string]*model.Event),
		profiles:   make(map[string]*model.VolunteerProfile),
		eventLocks: newKeyedMutex(),
		appLocks:   newKeyedMutex(),
	}
}

func (m *MemoryDB) Ping(ctx context.Context) error { return nil }

func (m *MemoryDB) Close() {}

// --- events ---

func (m *MemoryDB) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneEvent(e), nil
}

func (m *MemoryDB) InsertEvent(ctx context.Context, event *model.Event) error {
	return m.InsertEvents(ctx, []*model.Event{event})
}

// InsertEvents inserts all events or none of them
func (m *MemoryDB) InsertEvents(ctx context.Context, events []*model.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range events {
		if _, exists := m.events[e.ID]; exists {
			return fmt.Errorf("event %s: %w", e.ID, ErrConflict)
		}
	}
	for _, e := range events {
		m.events[e.ID] = cloneEvent(e)
	}
	return nil
}

func (m *MemoryDB) ListEvents(ctx context.Context, filter model.EventFilter) ([]*model.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*model.Event, 0, len(m.events))
	for _, e := range m.events {
		if filter.Matches(e) {
			result = append(result, cloneEvent(e))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Start.Equal(result[j].Start) {
			return result[i].Start.Before(result[j].Start)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *MemoryDB) UpdateEventStatus(ctx context.Context, id string, status model.EventStatus, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.events[id]
	if !ok {
		return ErrNotFound
	}
	e.Status = status
	e.UpdatedAt = updatedAt
	return nil
}

// --- profiles ---

func (m *MemoryDB) GetProfile(ctx context.Context, id string) (*model.VolunteerProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneProfile(p), nil
}

func (m *MemoryDB) UpsertProfile(ctx context.Context, profile *model.VolunteerProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.profiles[profile.ID] = cloneProfile(profile)
	return nil
}

// --- applications ---

func (m *MemoryDB) ListApplicationsByVolunteer(ctx context.Context, volunteerID string) ([]*model.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*model.Application
	for i := len(m.applications) - 1; i >= 0; i-- {
		if a := m.applications[i]; a.VolunteerID == volunteerID {
			result = append(result, cloneApplication(a))
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].AppliedAt.After(result[j].AppliedAt)
	})
	return result, nil
}

func (m *MemoryDB) ListApplicationsByEvent(ctx context.Context, eventID string) ([]*model.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*model.Application
	for _, a := range m.applications {
		if a.EventID == eventID {
			result = append(result, cloneApplication(a))
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].AppliedAt.Before(result[j].AppliedAt)
	})
	return result, nil
}

// WithEventLock runs fn holding the lock for eventID
func (m *MemoryDB) WithEventLock(ctx context.Context, eventID string, fn func(tx Tx) error) error {
	return m.withLock(ctx, m.eventLocks, eventID, fn)
}

// WithApplicationLock runs fn holding the lock for appID
func (m *MemoryDB) WithApplicationLock(ctx context.Context, appID string, fn func(tx Tx) error) error {
	return m.withLock(ctx, m.appLocks, appID, fn)
}

func (m *MemoryDB) withLock(ctx context.Context, locks *keyedMutex, key string, fn func(tx Tx) error) error {
	unlock, err := locks.lock(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to acquire lock for %s: %w", key, err)
	}
	defer unlock()

	tx := &memTx{db: m}
	if err := fn(tx); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

// --- notifications ---

func (m *MemoryDB) InsertNotification(ctx context.Context, n *model.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.notifications {
		if existing.ID == n.ID {
			return fmt.Errorf("notification %s: %w", n.ID, ErrConflict)
		}
	}
	c := *n
	m.notifications = append(m.notifications, &c)
	return nil
}

func (m *MemoryDB) ListNotifications(ctx context.Context, recipientID string, unreadOnly bool) ([]*model.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*model.Notification
	for i := len(m.notifications) - 1; i >= 0; i-- {
		n := m.notifications[i]
		if n.RecipientID != recipientID || (unreadOnly && n.Read) {
			continue
		}
		c := *n
		result = append(result, &c)
	}
	return result, nil
}

func (m *MemoryDB) MarkNotificationRead(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, n := range m.notifications {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryDB) MarkAllNotificationsRead(ctx context.Context, recipientID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	changed := 0
	for _, n := range m.notifications {
		if n.RecipientID == recipientID && !n.Read {
			n.Read = true
			changed++
		}
	}
	return changed, nil
}

// memTx applies writes immediately and keeps an undo log so a failed
// locked function leaves no trace
type memTx struct {
	db   *MemoryDB
	undo []func()
}

func (t *memTx) rollback() {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

func (t *memTx) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	return t.db.GetEvent(ctx, id)
}

func (t *memTx) GetApplication(ctx context.Context, id string) (*model.Application, error) {
	t.db.mu.RLock()
	defer t.db.mu.RUnlock()

	if _, a := t.db.findApplication(id); a != nil {
		return cloneApplication(a), nil
	}
	return nil, ErrNotFound
}

func (t *memTx) FindActiveApplication(ctx context.Context, volunteerID, eventID string) (*model.Application, error) {
	t.db.mu.RLock()
	defer t.db.mu.RUnlock()

	if a := t.db.findActive(volunteerID, eventID); a != nil {
		return cloneApplication(a), nil
	}
	return nil, nil
}

func (t *memTx) InsertApplication(ctx context.Context, app *model.Application) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	if _, existing := t.db.findApplication(app.ID); existing != nil {
		return fmt.Errorf("application %s: %w", app.ID, ErrConflict)
	}
	if app.Active() && t.db.findActive(app.VolunteerID, app.EventID) != nil {
		return fmt.Errorf("active application for volunteer %s and event %s: %w", app.VolunteerID, app.EventID, ErrConflict)
	}

	t.db.applications = append(t.db.applications, cloneApplication(app))
	id := app.ID
	t.undo = append(t.undo, func() {
		if i, _ := t.db.findApplication(id); i >= 0 {
			t.db.applications = append(t.db.applications[:i], t.db.applications[i+1:]...)
		}
	})
	return nil
}

func (t *memTx) UpdateApplication(ctx context.Context, app *model.Application) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	i, existing := t.db.findApplication(app.ID)
	if existing == nil {
		return ErrNotFound
	}

	t.db.applications[i] = cloneApplication(app)
	t.undo = append(t.undo, func() {
		if j, _ := t.db.findApplication(existing.ID); j >= 0 {
			t.db.applications[j] = existing
		}
	})
	return nil
}

func (t *memTx) ReserveSlot(ctx context.Context, eventID string) (bool, error) {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	e, ok := t.db.events[eventID]
	if !ok {
		return false, ErrNotFound
	}
	if e.Full() {
		return false, nil
	}

	e.CurrentVolunteers++
	t.undo = append(t.undo, func() {
		if e.CurrentVolunteers > 0 {
			e.CurrentVolunteers--
		}
	})
	return true, nil
}

func (t *memTx) ReleaseSlot(ctx context.Context, eventID string) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	e, ok := t.db.events[eventID]
	if !ok {
		return ErrNotFound
	}
	if e.CurrentVolunteers == 0 {
		return nil
	}

	e.CurrentVolunteers--
	t.undo = append(t.undo, func() { e.CurrentVolunteers++ })
	return nil
}

// findApplication must be called with mu held
func (m *MemoryDB) findApplication(id string) (int, *model.Application) {
	for i, a := range m.applications {
		if a.ID == id {
			return i, a
		}
	}
	return -1, nil
}

// findActive must be called with mu held
func (m *MemoryDB) findActive(volunteerID, eventID string) *model.Application {
	for _, a := range m.applications {
		if a.VolunteerID == volunteerID && a.EventID == eventID && a.Active() {
			return a
		}
	}
	return nil
}

func cloneEvent(e *model.Event) *model.Event {
	c := *e
	c.RequiredSkills = append([]string(nil), e.RequiredSkills...)
	if e.MaxVolunteers != nil {
		limit := *e.MaxVolunteers
		c.MaxVolunteers = &limit
	}
	return &c
}

func cloneProfile(p *model.VolunteerProfile) *model.VolunteerProfile {
	c := *p
	c.Skills = append([]model.Skill(nil), p.Skills...)
	c.Preferences = append([]string(nil), p.Preferences...)
	return &c
}

func cloneApplication(a *model.Application) *model.Application {
	c := *a
	if a.HoursLogged != nil {
		h := *a.HoursLogged
		c.HoursLogged = &h
	}
	if a.Feedback != nil {
		f := *a.Feedback
		c.Feedback = &f
	}
	if a.Rating != nil {
		r := *a.Rating
		c.Rating = &r
	}
	return &c
}
