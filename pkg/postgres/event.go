package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/model"
	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/db"
)

const eventColumns = `id, title, description, location, required_skills, urgency, start_at, end_at,
	status, max_volunteers, current_volunteers, series_id, created_by, created_at, updated_at`

func scanEvent(row pgx.Row) (*model.Event, error) {
	var e model.Event
	var urgency, status string
	var seriesID *string
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Location, &e.RequiredSkills, &urgency,
		&e.Start, &e.End, &status, &e.MaxVolunteers, &e.CurrentVolunteers, &seriesID,
		&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.Urgency = model.Urgency(urgency)
	e.Status = model.EventStatus(status)
	if seriesID != nil {
		e.SeriesID = *seriesID
	}
	return &e, nil
}

func getEvent(ctx context.Context, q querier, id string) (*model.Event, error) {
	e, err := scanEvent(q.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get event %s: %w", id, classify(err))
	}
	return e, nil
}

// GetEvent retrieves a single event by id
func (d *DB) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	return getEvent(ctx, d.pool, id)
}

// InsertEvent inserts a new event record
func (d *DB) InsertEvent(ctx context.Context, event *model.Event) error {
	return d.InsertEvents(ctx, []*model.Event{event})
}

// InsertEvents inserts multiple event records in a single transaction
func (d *DB) InsertEvents(ctx context.Context, events []*model.Event) error {
	if len(events) == 0 {
		return nil
	}

	return d.inTx(ctx, func(tx pgx.Tx) error {
		for _, e := range events {
			var seriesID *string
			if e.SeriesID != "" {
				seriesID = &e.SeriesID
			}
			skills := e.RequiredSkills
			if skills == nil {
				skills = []string{}
			}

			_, err := tx.Exec(ctx, `
				INSERT INTO events (`+eventColumns+`)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			`, e.ID, e.Title, e.Description, e.Location, skills, string(e.Urgency),
				e.Start.UTC(), e.End.UTC(), string(e.Status), e.MaxVolunteers, e.CurrentVolunteers, seriesID,
				e.CreatedBy, e.CreatedAt.UTC(), e.UpdatedAt.UTC())
			if err != nil {
				return fmt.Errorf("failed to insert event %s: %w", e.ID, classify(err))
			}
		}
		return nil
	})
}

// ListEvents retrieves events matching the filter, ordered by start date
func (d *DB) ListEvents(ctx context.Context, filter model.EventFilter) ([]*model.Event, error) {
	var where []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		where = append(where, "status = ANY("+arg(statuses)+")")
	}
	if filter.Urgency != "" {
		where = append(where, "urgency = "+arg(string(filter.Urgency)))
	}
	if filter.Skill != "" {
		where = append(where, arg(filter.Skill)+" = ANY(required_skills)")
	}
	if !filter.StartsAfter.IsZero() {
		where = append(where, "start_at >= "+arg(filter.StartsAfter.UTC()))
	}
	if !filter.EndsBefore.IsZero() {
		where = append(where, "end_at <= "+arg(filter.EndsBefore.UTC()))
	}
	if filter.CreatedBy != "" {
		where = append(where, "created_by = "+arg(filter.CreatedBy))
	}

	query := `SELECT ` + eventColumns + ` FROM events`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY start_at, id"

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", classify(err))
	}
	defer rows.Close()

	var events []*model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", classify(err))
	}

	return events, nil
}

// UpdateEventStatus sets the lifecycle status of an event
func (d *DB) UpdateEventStatus(ctx context.Context, id string, status model.EventStatus, updatedAt time.Time) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE events SET status = $2, updated_at = $3 WHERE id = $1
	`, id, string(status), updatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to update event status: %w", classify(err))
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}
