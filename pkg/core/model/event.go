package model

import (
	"errors"
	"strings"
	"time"
)

type Urgency string

const (
	UrgencyLow    Urgency = "Low"
	UrgencyMedium Urgency = "Medium"
	UrgencyHigh   Urgency = "High"
)

// ParseUrgency accepts any capitalisation of Low, Medium or High
func ParseUrgency(s string) (Urgency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return UrgencyLow, nil
	case "medium":
		return UrgencyMedium, nil
	case "high":
		return UrgencyHigh, nil
	}
	return "", errors.New("Urgency must be Low, Medium, or High")
}

type EventStatus string

const (
	EventPlanned    EventStatus = "Planned"
	EventInProgress EventStatus = "InProgress"
	EventCompleted  EventStatus = "Completed"
	EventCancelled  EventStatus = "Cancelled"
)

func (s EventStatus) IsValid() bool {
	switch s {
	case EventPlanned, EventInProgress, EventCompleted, EventCancelled:
		return true
	}
	return false
}

// AcceptsVolunteers reports whether applications may be made to an event in this status
func (s EventStatus) AcceptsVolunteers() bool {
	return s == EventPlanned || s == EventInProgress
}

// ParseEventStatus rejects anything outside the closed set of event statuses
func ParseEventStatus(s string) (EventStatus, error) {
	status := EventStatus(strings.TrimSpace(s))
	if !status.IsValid() {
		return "", errors.New("Invalid status value")
	}
	return status, nil
}

// Event is a volunteering opportunity
type Event struct {
	ID                string      `json:"id"`
	Title             string      `json:"event_name"`
	Description       string      `json:"description"`
	Location          string      `json:"location"`
	RequiredSkills    []string    `json:"required_skills"`
	Urgency           Urgency     `json:"urgency"`
	Start             time.Time   `json:"start_date"`
	End               time.Time   `json:"end_date"`
	Status            EventStatus `json:"status"`
	MaxVolunteers     *int        `json:"max_volunteers,omitempty"` // nil means unlimited
	CurrentVolunteers int         `json:"current_volunteers"`
	SeriesID          string      `json:"series_id,omitempty"`
	CreatedBy         string      `json:"created_by"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// Bounded reports whether the event has a capacity limit
func (e *Event) Bounded() bool {
	return e.MaxVolunteers != nil
}

// Full reports whether a bounded event has no remaining slots
func (e *Event) Full() bool {
	return e.Bounded() && e.CurrentVolunteers >= *e.MaxVolunteers
}

// EventFilter narrows ListEvents results. Zero values mean "no filter".
type EventFilter struct {
	Statuses    []EventStatus
	Urgency     Urgency
	Skill       string
	StartsAfter time.Time // start >= StartsAfter
	EndsBefore  time.Time // end <= EndsBefore
	CreatedBy   string
}

// Matches applies the filter to a single event
func (f EventFilter) Matches(e *Event) bool {
	if len(f.Statuses) > 0 {
		ok := false
		for _, s := range f.Statuses {
			if e.Status == s {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if f.Urgency != "" && e.Urgency != f.Urgency {
		return false
	}
	if f.Skill != "" {
		found := false
		for _, s := range e.RequiredSkills {
			if s == f.Skill {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if !f.StartsAfter.IsZero() && e.Start.Before(f.StartsAfter) {
		return false
	}
	if !f.EndsBefore.IsZero() && e.End.After(f.EndsBefore) {
		return false
	}
	if f.CreatedBy != "" && e.CreatedBy != f.CreatedBy {
		return false
	}
	return true
}
