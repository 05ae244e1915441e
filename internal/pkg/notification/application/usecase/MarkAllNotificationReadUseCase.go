package usecase

import (
	"context"
	"fmt"

	repository "go-courier/internal/pkg/notification/persistence/repository/port"
)

// MarkAllNotificationReadUseCase flips every unread notification of a user.
type MarkAllNotificationReadUseCase struct {
	Repo repository.NotificationRepository
}

func NewMarkAllNotificationReadUseCase(repo repository.NotificationRepository) *MarkAllNotificationReadUseCase {
	return &MarkAllNotificationReadUseCase{Repo: repo}
}

// Execute returns the number of notifications that changed.
func (uc *MarkAllNotificationReadUseCase) Execute(ctx context.Context, userID int64) (int64, error) {
	n, err := uc.Repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return n, nil
}
