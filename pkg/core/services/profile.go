package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/model"
)

// ProfileInput is a volunteer's profile as submitted. Skills may arrive as
// plain strings or as {name, proficiency} objects.
type ProfileInput struct {
	ID          string        `json:"id" validate:"required"`
	FullName    string        `json:"full_name" validate:"required,max=50"`
	Email       string        `json:"email" validate:"omitempty,email"`
	Role        model.Role    `json:"role" validate:"omitempty,oneof=volunteer organization"`
	Skills      []model.Skill `json:"skills"`
	Preferences []string      `json:"preferences"`
}

// ProfileStore defines the database operations needed for profiles
type ProfileStore interface {
	GetProfile(ctx context.Context, id string) (*model.VolunteerProfile, error)
	UpsertProfile(ctx context.Context, profile *model.VolunteerProfile) error
}

// SaveProfile normalizes and stores a volunteer profile
func SaveProfile(ctx context.Context, store ProfileStore, logger *zap.Logger, input ProfileInput) (*model.VolunteerProfile, error) {
	input.ID = strings.TrimSpace(input.ID)
	input.FullName = sanitizeText(input.FullName)
	input.Email = strings.TrimSpace(input.Email)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = model.RoleVolunteer
	}

	prefs := make([]string, len(input.Preferences))
	for i, p := range input.Preferences {
		prefs[i] = sanitizeText(p)
	}

	profile := &model.VolunteerProfile{
		ID:          input.ID,
		FullName:    input.FullName,
		Email:       input.Email,
		Role:        role,
		Skills:      model.NormalizeSkills(input.Skills),
		Preferences: model.NormalizePreferences(prefs),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := store.UpsertProfile(ctx, profile); err != nil {
		return nil, storeError(err, nil)
	}

	logger.Info("Profile saved",
		zap.String("id", profile.ID),
		zap.Int("skills", len(profile.Skills)),
		zap.Int("preferences", len(profile.Preferences)))

	return profile, nil
}

// GetProfile returns a stored volunteer profile
func GetProfile(ctx context.Context, store ProfileStore, id string) (*model.VolunteerProfile, error) {
	profile, err := store.GetProfile(ctx, id)
	if err != nil {
		return nil, storeError(err, model.NewError(model.KindProfileNotFound, model.MsgProfileNotFound))
	}
	return profile, nil
}
