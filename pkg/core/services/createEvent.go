package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/model"
)

// DefaultMaxOccurrences bounds series expansion when the caller gives no limit
const DefaultMaxOccurrences = 52

// EventWriter defines the database operations needed to create events
type EventWriter interface {
	InsertEvent(ctx context.Context, event *model.Event) error
	InsertEvents(ctx context.Context, events []*model.Event) error
}

// CreateEventInput is the organization-supplied description of a new event
type CreateEventInput struct {
	Title          string    `json:"event_name" validate:"required,max=100"`
	Description    string    `json:"description" validate:"required"`
	Location       string    `json:"location" validate:"required"`
	RequiredSkills []string  `json:"required_skills"`
	Urgency        string    `json:"urgency" validate:"required"`
	Start          time.Time `json:"start_date" validate:"required"`
	End            time.Time `json:"end_date" validate:"required"`
	MaxVolunteers  *int      `json:"max_volunteers,omitempty" validate:"omitempty,min=1"`
	CreatedBy      string    `json:"created_by" validate:"required"`
}

// CreateEvent validates input and stores a new Planned event with no volunteers
func CreateEvent(ctx context.Context, store EventWriter, effects *Effects, logger *zap.Logger, input CreateEventInput) (*model.Event, error) {
	now := time.Now().UTC()
	event, err := buildEvent(input, now)
	if err != nil {
		return nil, err
	}

	logger.Debug("Creating event", zap.String("id", event.ID), zap.String("title", event.Title))

	if err := store.InsertEvent(ctx, event); err != nil {
		return nil, storeError(err, nil)
	}

	logger.Info("Event created",
		zap.String("id", event.ID),
		zap.String("created_by", event.CreatedBy),
		zap.Time("start", event.Start))

	effects.Notify(&model.Notification{
		RecipientID: event.CreatedBy,
		Title:       "Event created",
		Message:     fmt.Sprintf("%s has been created", event.Title),
		Link:        "/events/" + event.ID,
	})

	return event, nil
}

// CreateEventSeriesInput describes a recurring event. Template.Start and
// Template.End define the first occurrence; RRule (RFC 5545, without DTSTART)
// generates the rest.
type CreateEventSeriesInput struct {
	Template       CreateEventInput `json:"template"`
	RRule          string           `json:"rrule" validate:"required"`
	MaxOccurrences int              `json:"max_occurrences,omitempty" validate:"omitempty,min=1"`
}

// CreateEventSeries expands the recurrence rule into one Planned event per
// occurrence, each with the template's duration, and stores them together
func CreateEventSeries(ctx context.Context, store EventWriter, effects *Effects, logger *zap.Logger, input CreateEventSeriesInput) ([]*model.Event, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	first, err := buildEvent(input.Template, now)
	if err != nil {
		return nil, err
	}

	rule, err := rrule.StrToRRule(strings.TrimSpace(input.RRule))
	if err != nil {
		return nil, model.Validation(fmt.Sprintf("Invalid recurrence rule: %v", err))
	}
	rule.DTStart(first.Start)

	limit := input.MaxOccurrences
	if limit <= 0 {
		limit = DefaultMaxOccurrences
	}

	seriesID := uuid.New().String()
	duration := first.End.Sub(first.Start)

	var events []*model.Event
	next := rule.Iterator()
	for len(events) < limit {
		start, ok := next()
		if !ok {
			break
		}
		e := *first
		e.ID = uuid.New().String()
		e.Start = start.UTC()
		e.End = e.Start.Add(duration)
		e.SeriesID = seriesID
		e.RequiredSkills = append([]string(nil), first.RequiredSkills...)
		events = append(events, &e)
	}

	if len(events) == 0 {
		return nil, model.Validation("Recurrence rule produces no occurrences")
	}

	logger.Debug("Expanded event series",
		zap.String("series_id", seriesID),
		zap.String("rrule", input.RRule),
		zap.Int("occurrences", len(events)))

	if err := store.InsertEvents(ctx, events); err != nil {
		return nil, storeError(err, nil)
	}

	logger.Info("Event series created",
		zap.String("series_id", seriesID),
		zap.Int("count", len(events)))

	effects.Notify(&model.Notification{
		RecipientID: first.CreatedBy,
		Title:       "Event series created",
		Message:     fmt.Sprintf("%d occurrences of %s have been created", len(events), first.Title),
		Link:        "/events?series=" + seriesID,
	})

	return events, nil
}

// buildEvent sanitizes and validates input, returning the event to store
func buildEvent(input CreateEventInput, now time.Time) (*model.Event, error) {
	input.Title = sanitizeText(input.Title)
	input.Description = sanitizeText(input.Description)
	input.Location = sanitizeText(input.Location)
	input.CreatedBy = strings.TrimSpace(input.CreatedBy)

	if err := validateInput(input); err != nil {
		return nil, err
	}

	if !input.Start.Before(input.End) {
		return nil, model.Validation("End date must be after start date")
	}
	if !input.Start.After(now) {
		return nil, model.Validation("Start date must be in the future")
	}

	urgency, err := model.ParseUrgency(input.Urgency)
	if err != nil {
		return nil, model.Validation(err.Error())
	}

	skills := model.NormalizeSkills(skillsFromNames(input.RequiredSkills))
	required := make([]string, len(skills))
	for i, s := range skills {
		required[i] = s.Name
	}

	var limit *int
	if input.MaxVolunteers != nil {
		v := *input.MaxVolunteers
		limit = &v
	}

	return &model.Event{
		ID:             uuid.New().String(),
		Title:          input.Title,
		Description:    input.Description,
		Location:       input.Location,
		RequiredSkills: required,
		Urgency:        urgency,
		Start:          input.Start.UTC(),
		End:            input.End.UTC(),
		Status:         model.EventPlanned,
		MaxVolunteers:  limit,
		CreatedBy:      input.CreatedBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func skillsFromNames(names []string) []model.Skill {
	skills := make([]model.Skill, len(names))
	for i, n := range names {
		skills[i] = model.Skill{Name: n}
	}
	return skills
}
