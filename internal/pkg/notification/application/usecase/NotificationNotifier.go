package usecase

import (
	"context"

	notification "go-courier/internal/pkg/notification/application/domain"
)

// NotificationNotifier pushes a committed notification to its owner's live
// connection. Implementations swallow delivery errors.
type NotificationNotifier interface {
	NotifyNewNotification(ctx context.Context, n notification.Notification)
}

type noopNotifier struct{}

func (noopNotifier) NotifyNewNotification(context.Context, notification.Notification) {}
