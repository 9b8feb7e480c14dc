package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/model"
	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/db"
)

// EmailSender sends a plain text email
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// RecipientLookup resolves a recipient id to a profile with an email address
type RecipientLookup interface {
	GetProfile(ctx context.Context, id string) (*model.VolunteerProfile, error)
}

// EmailSink emails notifications to recipients whose profile has an address.
// Recipients without one are skipped.
type EmailSink struct {
	sender   EmailSender
	profiles RecipientLookup
	linkBase string
	logger   *zap.Logger
}

// NewEmailSink creates an EmailSink. linkBase is prepended to notification
// links in the email body.
func NewEmailSink(sender EmailSender, profiles RecipientLookup, linkBase string, logger *zap.Logger) *EmailSink {
	return &EmailSink{
		sender:   sender,
		profiles: profiles,
		linkBase: strings.TrimRight(linkBase, "/"),
		logger:   logger,
	}
}

func (s *EmailSink) Notify(ctx context.Context, n *model.Notification) error {
	profile, err := s.profiles.GetProfile(ctx, n.RecipientID)
	if errors.Is(err, db.ErrNotFound) {
		s.logger.Debug("Skipping email for unknown recipient", zap.String("recipient_id", n.RecipientID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up recipient %s: %w", n.RecipientID, err)
	}
	if profile.Email == "" {
		s.logger.Debug("Skipping email, recipient has no address", zap.String("recipient_id", n.RecipientID))
		return nil
	}

	if err := s.sender.SendEmail(ctx, profile.Email, n.Title, s.body(n)); err != nil {
		return err
	}

	s.logger.Debug("Emailed notification",
		zap.String("recipient_id", n.RecipientID),
		zap.String("title", n.Title))
	return nil
}

func (s *EmailSink) body(n *model.Notification) string {
	if n.Link == "" {
		return n.Message
	}
	return n.Message + "\r\n\r\n" + s.linkBase + n.Link
}
