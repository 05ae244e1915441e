package usecase

import (
	"context"
	"fmt"

	repository "go-courier/internal/pkg/notification/persistence/repository/port"
)

// ClearNotificationUseCase deletes every notification of a user.
type ClearNotificationUseCase struct {
	Repo repository.NotificationRepository
}

func NewClearNotificationUseCase(repo repository.NotificationRepository) *ClearNotificationUseCase {
	return &ClearNotificationUseCase{Repo: repo}
}

func (uc *ClearNotificationUseCase) Execute(ctx context.Context, userID int64) (int64, error) {
	n, err := uc.Repo.DeleteAll(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return n, nil
}
