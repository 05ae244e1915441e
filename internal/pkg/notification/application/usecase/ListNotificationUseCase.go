package usecase

import (
	"context"
	"fmt"

	notification "go-courier/internal/pkg/notification/application/domain"
	repository "go-courier/internal/pkg/notification/persistence/repository/port"
)

// ListNotificationUseCase returns a user's notifications, newest first.
type ListNotificationUseCase struct {
	Repo repository.NotificationRepository
}

func NewListNotificationUseCase(repo repository.NotificationRepository) *ListNotificationUseCase {
	return &ListNotificationUseCase{Repo: repo}
}

func (uc *ListNotificationUseCase) Execute(ctx context.Context, userID int64) ([]notification.Notification, error) {
	if userID <= 0 {
		return nil, notification.ErrInvalidUser
	}
	list, err := uc.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return list, nil
}
