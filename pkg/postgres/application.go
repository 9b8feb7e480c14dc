package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/model"
	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/db"
)

const applicationColumns = `id, volunteer_id, event_id, status, slot_reserved, applied_at, updated_at,
	hours_logged, feedback, rating`

func scanApplication(row pgx.Row) (*model.Application, error) {
	var a model.Application
	var status string
	err := row.Scan(&a.ID, &a.VolunteerID, &a.EventID, &status, &a.SlotReserved, &a.AppliedAt, &a.UpdatedAt,
		&a.HoursLogged, &a.Feedback, &a.Rating)
	if err != nil {
		return nil, err
	}
	a.Status = model.ApplicationStatus(status)
	return &a, nil
}

func (d *DB) listApplications(ctx context.Context, query string, arg string) ([]*model.Application, error) {
	rows, err := d.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query applications: %w", classify(err))
	}
	defer rows.Close()

	var apps []*model.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating applications: %w", classify(err))
	}

	return apps, nil
}

// ListApplicationsByVolunteer retrieves a volunteer's applications, newest first
func (d *DB) ListApplicationsByVolunteer(ctx context.Context, volunteerID string) ([]*model.Application, error) {
	return d.listApplications(ctx, `
		SELECT `+applicationColumns+`
		FROM applications
		WHERE volunteer_id = $1
		ORDER BY applied_at DESC, id
	`, volunteerID)
}

// ListApplicationsByEvent retrieves an event's applications, oldest first
func (d *DB) ListApplicationsByEvent(ctx context.Context, eventID string) ([]*model.Application, error) {
	return d.listApplications(ctx, `
		SELECT `+applicationColumns+`
		FROM applications
		WHERE event_id = $1
		ORDER BY applied_at, id
	`, eventID)
}

// WithEventLock runs fn in a transaction holding a row lock on the event
func (d *DB) WithEventLock(ctx context.Context, eventID string, fn func(tx db.Tx) error) error {
	return d.inTx(ctx, func(tx pgx.Tx) error {
		// A missing event takes no lock; fn sees ErrNotFound from GetEvent
		var locked string
		err := tx.QueryRow(ctx, `SELECT id FROM events WHERE id = $1 FOR UPDATE`, eventID).Scan(&locked)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("failed to lock event %s: %w", eventID, classify(err))
		}
		return fn(&pgTx{tx: tx})
	})
}

// WithApplicationLock runs fn in a transaction holding a row lock on the application
func (d *DB) WithApplicationLock(ctx context.Context, appID string, fn func(tx db.Tx) error) error {
	return d.inTx(ctx, func(tx pgx.Tx) error {
		var locked string
		err := tx.QueryRow(ctx, `SELECT id FROM applications WHERE id = $1 FOR UPDATE`, appID).Scan(&locked)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("failed to lock application %s: %w", appID, classify(err))
		}
		return fn(&pgTx{tx: tx})
	})
}

// pgTx implements db.Tx on an open transaction
type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	return getEvent(ctx, t.tx, id)
}

func (t *pgTx) GetApplication(ctx context.Context, id string) (*model.Application, error) {
	a, err := scanApplication(t.tx.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get application %s: %w", id, classify(err))
	}
	return a, nil
}

func (t *pgTx) FindActiveApplication(ctx context.Context, volunteerID, eventID string) (*model.Application, error) {
	a, err := scanApplication(t.tx.QueryRow(ctx, `
		SELECT `+applicationColumns+`
		FROM applications
		WHERE volunteer_id = $1 AND event_id = $2 AND status <> 'Canceled'
	`, volunteerID, eventID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find active application: %w", classify(err))
	}
	return a, nil
}

func (t *pgTx) InsertApplication(ctx context.Context, app *model.Application) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO applications (`+applicationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, app.ID, app.VolunteerID, app.EventID, string(app.Status), app.SlotReserved,
		app.AppliedAt.UTC(), app.UpdatedAt.UTC(), app.HoursLogged, app.Feedback, app.Rating)
	if err != nil {
		return fmt.Errorf("failed to insert application: %w", classify(err))
	}
	return nil
}

func (t *pgTx) UpdateApplication(ctx context.Context, app *model.Application) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE applications
		SET status = $2, slot_reserved = $3, updated_at = $4, hours_logged = $5, feedback = $6, rating = $7
		WHERE id = $1
	`, app.ID, string(app.Status), app.SlotReserved, app.UpdatedAt.UTC(), app.HoursLogged, app.Feedback, app.Rating)
	if err != nil {
		return fmt.Errorf("failed to update application: %w", classify(err))
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// ReserveSlot increments the counter only while the event has room. The
// capacity guard lives in the WHERE clause so the check and the increment
// are one statement.
func (t *pgTx) ReserveSlot(ctx context.Context, eventID string) (bool, error) {
	tag, err := t.tx.Exec(ctx, `
		UPDATE events
		SET current_volunteers = current_volunteers + 1, updated_at = NOW()
		WHERE id = $1 AND (max_volunteers IS NULL OR current_volunteers < max_volunteers)
	`, eventID)
	if err != nil {
		return false, fmt.Errorf("failed to reserve slot: %w", classify(err))
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}

	var exists bool
	if err := t.tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, eventID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check event: %w", classify(err))
	}
	if !exists {
		return false, db.ErrNotFound
	}
	return false, nil
}

func (t *pgTx) ReleaseSlot(ctx context.Context, eventID string) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE events
		SET current_volunteers = GREATEST(current_volunteers - 1, 0), updated_at = NOW()
		WHERE id = $1
	`, eventID)
	if err != nil {
		return fmt.Errorf("failed to release slot: %w", classify(err))
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}
