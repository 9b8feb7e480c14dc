package model

import (
	"fmt"
	"strings"
	"time"
)

type ApplicationStatus string

const (
	StatusApplied      ApplicationStatus = "Applied"
	StatusAccepted     ApplicationStatus = "Accepted"
	StatusDeclined     ApplicationStatus = "Declined"
	StatusParticipated ApplicationStatus = "Participated"
	StatusNoShow       ApplicationStatus = "NoShow"
	StatusCanceled     ApplicationStatus = "Canceled"
)

// transitions is the adjacency list of legal status changes.
// Statuses absent from the map are terminal.
var transitions = map[ApplicationStatus][]ApplicationStatus{
	StatusApplied:  {StatusAccepted, StatusDeclined, StatusCanceled},
	StatusAccepted: {StatusParticipated, StatusNoShow, StatusCanceled},
}

var allStatuses = []ApplicationStatus{
	StatusApplied, StatusAccepted, StatusDeclined, StatusParticipated, StatusNoShow, StatusCanceled,
}

func (s ApplicationStatus) IsValid() bool {
	for _, v := range allStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are legal from s
func (s ApplicationStatus) Terminal() bool {
	return len(transitions[s]) == 0
}

// CanTransition reports whether moving from s to next is legal
func (s ApplicationStatus) CanTransition(next ApplicationStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ReleasesSlot reports whether entering s gives a reserved capacity slot back
func (s ApplicationStatus) ReleasesSlot() bool {
	return s == StatusDeclined || s == StatusCanceled || s == StatusNoShow
}

// ParseApplicationStatus rejects values outside the closed status set
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	status := ApplicationStatus(strings.TrimSpace(s))
	if !status.IsValid() {
		names := make([]string, len(allStatuses))
		for i, v := range allStatuses {
			names[i] = string(v)
		}
		return "", fmt.Errorf("Status must be one of: %s", strings.Join(names, ", "))
	}
	return status, nil
}

// Application is a volunteer's request to participate in an event
type Application struct {
	ID           string            `json:"id"`
	VolunteerID  string            `json:"volunteer_id"`
	EventID      string            `json:"event_id"`
	Status       ApplicationStatus `json:"status"`
	SlotReserved bool              `json:"-"`
	AppliedAt    time.Time         `json:"applied_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	HoursLogged  *float64          `json:"hours_logged,omitempty"`
	Feedback     *string           `json:"feedback,omitempty"`
	Rating       *int              `json:"rating,omitempty"`
}

// Active reports whether the application still counts towards the
// one-application-per-event rule
func (a *Application) Active() bool {
	return a.Status != StatusCanceled
}
