package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/model"
)

// GetProfile retrieves a volunteer profile with its skills
func (d *DB) GetProfile(ctx context.Context, id string) (*model.VolunteerProfile, error) {
	var p model.VolunteerProfile
	var role string
	err := d.pool.QueryRow(ctx, `
		SELECT id, full_name, email, role, preferences, updated_at
		FROM volunteer_profiles
		WHERE id = $1
	`, id).Scan(&p.ID, &p.FullName, &p.Email, &role, &p.Preferences, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile %s: %w", id, classify(err))
	}
	p.Role = model.Role(role)

	rows, err := d.pool.Query(ctx, `
		SELECT skill_name, proficiency
		FROM volunteer_skills
		WHERE volunteer_id = $1
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query skills: %w", classify(err))
	}
	defer rows.Close()

	for rows.Next() {
		var s model.Skill
		if err := rows.Scan(&s.Name, &s.Proficiency); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		p.Skills = append(p.Skills, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating skills: %w", classify(err))
	}

	return &p, nil
}

// UpsertProfile creates or replaces a profile and its skills
func (d *DB) UpsertProfile(ctx context.Context, profile *model.VolunteerProfile) error {
	prefs := profile.Preferences
	if prefs == nil {
		prefs = []string{}
	}

	return d.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO volunteer_profiles (id, full_name, email, role, preferences, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET
				full_name = EXCLUDED.full_name,
				email = EXCLUDED.email,
				role = EXCLUDED.role,
				preferences = EXCLUDED.preferences,
				updated_at = EXCLUDED.updated_at
		`, profile.ID, profile.FullName, profile.Email, string(profile.Role), prefs, profile.UpdatedAt.UTC())
		if err != nil {
			return fmt.Errorf("failed to upsert profile: %w", classify(err))
		}

		if _, err := tx.Exec(ctx, `DELETE FROM volunteer_skills WHERE volunteer_id = $1`, profile.ID); err != nil {
			return fmt.Errorf("failed to clear skills: %w", classify(err))
		}

		for i, s := range profile.Skills {
			_, err := tx.Exec(ctx, `
				INSERT INTO volunteer_skills (volunteer_id, skill_name, proficiency, position)
				VALUES ($1, $2, $3, $4)
			`, profile.ID, s.Name, s.Proficiency, i)
			if err != nil {
				return fmt.Errorf("failed to insert skill %q: %w", s.Name, classify(err))
			}
		}
		return nil
	})
}
