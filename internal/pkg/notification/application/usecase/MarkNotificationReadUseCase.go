package usecase

import (
	"context"
	"errors"
	"fmt"

	notification "go-courier/internal/pkg/notification/application/domain"
	repository "go-courier/internal/pkg/notification/persistence/repository/port"
)

// MarkNotificationReadInput identifies the notification and its owner.
type MarkNotificationReadInput struct {
	NotificationID int64
	UserID         int64
}

// MarkNotificationReadUseCase flips one notification to read. Marking it again
// is not an error.
type MarkNotificationReadUseCase struct {
	Repo repository.NotificationRepository
}

func NewMarkNotificationReadUseCase(repo repository.NotificationRepository) *MarkNotificationReadUseCase {
	return &MarkNotificationReadUseCase{Repo: repo}
}

func (uc *MarkNotificationReadUseCase) Execute(ctx context.Context, in MarkNotificationReadInput) error {
	if in.NotificationID <= 0 {
		return notification.ErrNotificationNotFound
	}
	if err := uc.Repo.MarkRead(ctx, in.NotificationID, in.UserID); err != nil {
		if errors.Is(err, notification.ErrNotificationNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
