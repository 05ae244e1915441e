package usecase

import (
	"context"

	chat "go-courier/internal/pkg/chat/application/domain"
)

// MessageNotifier pushes a committed message to the other participant's live
// connection. Implementations swallow delivery errors.
type MessageNotifier interface {
	NotifyNewMessage(ctx context.Context, conv chat.Conversation, msg chat.Message)
}

type noopNotifier struct{}

func (noopNotifier) NotifyNewMessage(context.Context, chat.Conversation, chat.Message) {}
