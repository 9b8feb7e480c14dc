package postgres

import (
	"context"
	"fmt"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/model"
	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/db"
)

// InsertNotification inserts a new notification record
func (d *DB) InsertNotification(ctx context.Context, n *model.Notification) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO notifications (id, recipient_id, title, message, link, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, n.ID, n.RecipientID, n.Title, n.Message, n.Link, n.Read, n.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", classify(err))
	}
	return nil
}

// ListNotifications retrieves a recipient's notifications, newest first
func (d *DB) ListNotifications(ctx context.Context, recipientID string, unreadOnly bool) ([]*model.Notification, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, recipient_id, title, message, link, is_read, created_at
		FROM notifications
		WHERE recipient_id = $1 AND (NOT $2 OR NOT is_read)
		ORDER BY created_at DESC, id
	`, recipientID, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", classify(err))
	}
	defer rows.Close()

	var notifications []*model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Title, &n.Message, &n.Link, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notifications: %w", classify(err))
	}

	return notifications, nil
}

// MarkNotificationRead flags a notification as read
func (d *DB) MarkNotificationRead(ctx context.Context, id string) error {
	tag, err := d.pool.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", classify(err))
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// MarkAllNotificationsRead flags all of a recipient's unread notifications as read
func (d *DB) MarkAllNotificationsRead(ctx context.Context, recipientID string) (int, error) {
	tag, err := d.pool.Exec(ctx, `
		UPDATE notifications SET is_read = TRUE WHERE recipient_id = $1 AND NOT is_read
	`, recipientID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", classify(err))
	}
	return int(tag.RowsAffected()), nil
}
