package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "go-courier/internal/pkg/chat/application/domain"
	repository "go-courier/internal/pkg/chat/persistence/repository/port"
)

// DeleteConversationInput identifies the conversation and the caller.
type DeleteConversationInput struct {
	ConversationID int64
	UserID         int64
}

// DeleteConversationUseCase removes a conversation with all of its messages.
// Either participant may delete it.
type DeleteConversationUseCase struct {
	Repo repository.ChatRepository
}

func NewDeleteConversationUseCase(repo repository.ChatRepository) *DeleteConversationUseCase {
	return &DeleteConversationUseCase{Repo: repo}
}

func (uc *DeleteConversationUseCase) Execute(ctx context.Context, in DeleteConversationInput) error {
	conv, err := loadForParticipant(ctx, uc.Repo, in.ConversationID, in.UserID)
	if err != nil {
		return err
	}
	if err := uc.Repo.DeleteConversation(ctx, *conv); err != nil {
		if errors.Is(err, chat.ErrConversationNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
