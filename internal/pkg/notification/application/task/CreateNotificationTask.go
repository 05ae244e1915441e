package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	qport "go-courier/internal/infrastructure/queue/port"
	notification "go-courier/internal/pkg/notification/application/domain"
	"go-courier/internal/pkg/notification/application/usecase"
)

// CreateNotificationTaskType is the queue task name for raising a notification.
const CreateNotificationTaskType = "notification:create"

// NotificationQueue is the queue the task is enqueued on.
const NotificationQueue = "notifications"

// CreateNotificationTaskPayload is the JSON payload transported via the queue.
type CreateNotificationTaskPayload struct {
	UserID  int64          `json:"user_id"`
	Type    string         `json:"type"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// EnqueueCreateNotification schedules the creation of a notification and
// returns the task id.
func EnqueueCreateNotification(ctx context.Context, client qport.Client, p CreateNotificationTaskPayload) (string, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return client.Enqueue(ctx, qport.Task{Type: CreateNotificationTaskType, Payload: payload}, qport.EnqueueOption{
		Queue:    NotificationQueue,
		MaxRetry: 5,
	})
}

// RegisterCreateNotificationTask binds the task handler to srv. The handler
// persists the notification and pushes it to the owner.
func RegisterCreateNotificationTask(srv qport.Server, uc *usecase.CreateNotificationUseCase, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv.Register(CreateNotificationTaskType, func(ctx context.Context, t qport.Task) error {
		return handleCreateNotification(ctx, uc, logger, t)
	})
}

func handleCreateNotification(ctx context.Context, uc *usecase.CreateNotificationUseCase, logger *zap.Logger, t qport.Task) error {
	var p CreateNotificationTaskPayload
	if err := json.Unmarshal(t.Payload, &p); err != nil {
		return fmt.Errorf("decode %s payload: %v: %w", t.Type, err, qport.ErrSkipRetry)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	n, err := uc.Execute(ctx, usecase.CreateNotificationInput{
		UserID:  p.UserID,
		Type:    p.Type,
		Message: p.Message,
		Data:    p.Data,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrPersistence) {
			return err
		}
		// validation failures will fail the same way on every attempt
		return fmt.Errorf("%w: %w", err, qport.ErrSkipRetry)
	}

	logger.Debug("Notification created",
		zap.Int64("notificationID", n.ID),
		zap.Int64("userID", n.UserID),
		zap.String("type", n.Type),
	)
	return nil
}

// Validate reports whether p would be accepted by the handler, so callers can
// reject bad input before enqueueing.
func (p CreateNotificationTaskPayload) Validate() error {
	_, err := notification.New(p.UserID, p.Type, p.Message, p.Data, time.Now())
	return err
}
