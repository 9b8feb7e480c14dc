package db

import (
	"context"
	"errors"
	"time"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/model"
)

var (
	// ErrNotFound is returned when a record does not exist
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write violates a uniqueness constraint
	ErrConflict = errors.New("conflicting record exists")
	// ErrUnavailable wraps failures to reach the datastore
	ErrUnavailable = errors.New("datastore unavailable")
)

// Tx is the set of operations available while holding an event or application lock.
// All writes made through a Tx are committed together when the locked function
// returns nil and discarded when it returns an error.
type Tx interface {
	GetEvent(ctx context.Context, id string) (*model.Event, error)
	GetApplication(ctx context.Context, id string) (*model.Application, error)
	// FindActiveApplication returns the non-canceled application for the pair, or nil if there is none
	FindActiveApplication(ctx context.Context, volunteerID, eventID string) (*model.Application, error)
	InsertApplication(ctx context.Context, app *model.Application) error
	UpdateApplication(ctx context.Context, app *model.Application) error
	// ReserveSlot increments current_volunteers unless the event is at capacity.
	// It reports false, leaving the counter untouched, when no slot is free.
	ReserveSlot(ctx context.Context, eventID string) (bool, error)
	// ReleaseSlot decrements current_volunteers, never below zero
	ReleaseSlot(ctx context.Context, eventID string) error
}

// EnrollmentStore serializes capacity and status changes per key
type EnrollmentStore interface {
	// WithEventLock runs fn while no other WithEventLock call for eventID is running
	WithEventLock(ctx context.Context, eventID string, fn func(tx Tx) error) error
	// WithApplicationLock runs fn while no other WithApplicationLock call for appID is running
	WithApplicationLock(ctx context.Context, appID string, fn func(tx Tx) error) error
}

// EventStore defines the interface for event database operations
type EventStore interface {
	GetEvent(ctx context.Context, id string) (*model.Event, error)
	InsertEvent(ctx context.Context, event *model.Event) error
	InsertEvents(ctx context.Context, events []*model.Event) error
	// ListEvents returns matching events ordered by start, then id
	ListEvents(ctx context.Context, filter model.EventFilter) ([]*model.Event, error)
	UpdateEventStatus(ctx context.Context, id string, status model.EventStatus, updatedAt time.Time) error
}

// ProfileStore defines the interface for volunteer profile operations
type ProfileStore interface {
	GetProfile(ctx context.Context, id string) (*model.VolunteerProfile, error)
	UpsertProfile(ctx context.Context, profile *model.VolunteerProfile) error
}

// ApplicationStore defines the interface for application reads and locked writes
type ApplicationStore interface {
	EnrollmentStore
	// ListApplicationsByVolunteer returns the volunteer's applications, newest first
	ListApplicationsByVolunteer(ctx context.Context, volunteerID string) ([]*model.Application, error)
	// ListApplicationsByEvent returns the event's applications, oldest first
	ListApplicationsByEvent(ctx context.Context, eventID string) ([]*model.Application, error)
}

// NotificationStore defines the interface for at-rest notifications
type NotificationStore interface {
	InsertNotification(ctx context.Context, n *model.Notification) error
	// ListNotifications returns the recipient's notifications, newest first
	ListNotifications(ctx context.Context, recipientID string, unreadOnly bool) ([]*model.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	// MarkAllNotificationsRead flags every unread notification for the recipient and returns how many changed
	MarkAllNotificationsRead(ctx context.Context, recipientID string) (int, error)
}

// Database defines the interface for all database operations.
// Both the in-memory MemoryDB and postgres.DB implement this interface.
type Database interface {
	EventStore
	ProfileStore
	ApplicationStore
	NotificationStore
	Ping(ctx context.Context) error
	Close()
}
