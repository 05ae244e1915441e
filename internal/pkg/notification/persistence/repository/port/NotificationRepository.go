package repository

import (
	"context"

	notification "go-courier/internal/pkg/notification/application/domain"
)

// NotificationRepository defines persistence operations for notifications.
type NotificationRepository interface {
	Save(ctx context.Context, n notification.Notification) (notification.Notification, error)
	// ListByUser returns the user's notifications, newest first.
	ListByUser(ctx context.Context, userID int64) ([]notification.Notification, error)
	// MarkRead flips one notification owned by userID. A notification that
	// does not exist or belongs to someone else yields
	// notification.ErrNotificationNotFound.
	MarkRead(ctx context.Context, id, userID int64) error
	// MarkAllRead returns how many notifications changed.
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	// DeleteAll returns how many notifications were removed.
	DeleteAll(ctx context.Context, userID int64) (int64, error)
}
