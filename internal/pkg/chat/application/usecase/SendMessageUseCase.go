package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	chat "go-courier/internal/pkg/chat/application/domain"
	repository "go-courier/internal/pkg/chat/persistence/repository/port"
)

// SendMessageInput carries the data needed to send a new message
type SendMessageInput struct {
	ConversationID int64
	SenderID       int64
	Content        string
}

// SendMessageUseCase persists a message and then hands it to the notifier.
// The push happens only after the write commits and its outcome never reaches
// the caller. Writes to the same conversation are serialised so pushes leave
// in commit order.
type SendMessageUseCase struct {
	Repo     repository.ChatRepository
	Notifier MessageNotifier
	Now      func() time.Time

	locks *conversationLocks
}

func NewSendMessageUseCase(repo repository.ChatRepository, notifier MessageNotifier) *SendMessageUseCase {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &SendMessageUseCase{
		Repo:     repo,
		Notifier: notifier,
		Now:      time.Now,
		locks:    newConversationLocks(defaultLockStripes),
	}
}

func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*chat.Message, error) {
	conv, err := loadForParticipant(ctx, uc.Repo, in.ConversationID, in.SenderID)
	if err != nil {
		return nil, err
	}

	unlock := uc.locks.lock(conv.ID)
	defer unlock()

	msg, err := chat.NewMessage(conv.ID, in.SenderID, in.Content, uc.Now())
	if err != nil {
		return nil, err
	}

	stored, err := uc.Repo.SaveMessage(ctx, *msg)
	if err != nil {
		if errors.Is(err, chat.ErrConversationNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	// the write is durable from here on; delivery is best effort
	uc.Notifier.NotifyNewMessage(context.WithoutCancel(ctx), *conv, stored)
	return &stored, nil
}
