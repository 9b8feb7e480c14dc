package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/model"
	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/db"
)

// ListNotifications returns a user's notifications, newest first
func ListNotifications(ctx context.Context, store db.NotificationStore, recipientID string, unreadOnly bool) ([]*model.Notification, error) {
	if strings.TrimSpace(recipientID) == "" {
		return nil, model.Validation("Recipient ID is required")
	}
	notifications, err := store.ListNotifications(ctx, recipientID, unreadOnly)
	if err != nil {
		return nil, storeError(err, nil)
	}
	return notifications, nil
}

// MarkNotificationRead flags a single notification as read
func MarkNotificationRead(ctx context.Context, store db.NotificationStore, logger *zap.Logger, id string) error {
	if strings.TrimSpace(id) == "" {
		return model.Validation("Notification ID is required")
	}
	if err := store.MarkNotificationRead(ctx, id); err != nil {
		return storeError(err, model.NewError(model.KindNotificationNotFound, model.MsgNotificationMissing))
	}
	logger.Debug("Notification marked read", zap.String("id", id))
	return nil
}

// MarkAllNotificationsRead flags all of a user's notifications as read
func MarkAllNotificationsRead(ctx context.Context, store db.NotificationStore, logger *zap.Logger, recipientID string) (int, error) {
	if strings.TrimSpace(recipientID) == "" {
		return 0, model.Validation("Recipient ID is required")
	}
	changed, err := store.MarkAllNotificationsRead(ctx, recipientID)
	if err != nil {
		return 0, storeError(err, nil)
	}
	logger.Debug("Notifications marked read", zap.String("recipient_id", recipientID), zap.Int("count", changed))
	return changed, nil
}
