package usecase

import (
	"context"
	"fmt"
	"time"

	notification "go-courier/internal/pkg/notification/application/domain"
	repository "go-courier/internal/pkg/notification/persistence/repository/port"
)

// CreateNotificationInput describes a notification raised for a user.
type CreateNotificationInput struct {
	UserID  int64
	Type    string
	Message string
	Data    map[string]any
}

// CreateNotificationUseCase persists a notification and then pushes it to the
// owner if they are online.
type CreateNotificationUseCase struct {
	Repo     repository.NotificationRepository
	Notifier NotificationNotifier
	Now      func() time.Time
}

func NewCreateNotificationUseCase(repo repository.NotificationRepository, notifier NotificationNotifier) *CreateNotificationUseCase {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &CreateNotificationUseCase{Repo: repo, Notifier: notifier, Now: time.Now}
}

func (uc *CreateNotificationUseCase) Execute(ctx context.Context, in CreateNotificationInput) (*notification.Notification, error) {
	n, err := notification.New(in.UserID, in.Type, in.Message, in.Data, uc.Now())
	if err != nil {
		return nil, err
	}
	stored, err := uc.Repo.Save(ctx, *n)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	uc.Notifier.NotifyNewNotification(context.WithoutCancel(ctx), stored)
	return &stored, nil
}
