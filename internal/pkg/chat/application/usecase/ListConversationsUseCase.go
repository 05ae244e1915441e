package usecase

import (
	"context"
	"fmt"

	chat "go-courier/internal/pkg/chat/application/domain"
	repository "go-courier/internal/pkg/chat/persistence/repository/port"
)

// ListConversationsUseCase returns a user's conversations, most recently
// updated first, each with its last message and unread count.
type ListConversationsUseCase struct {
	Repo repository.ChatRepository
}

func NewListConversationsUseCase(repo repository.ChatRepository) *ListConversationsUseCase {
	return &ListConversationsUseCase{Repo: repo}
}

func (uc *ListConversationsUseCase) Execute(ctx context.Context, userID int64) ([]chat.ConversationSummary, error) {
	if userID <= 0 {
		return nil, chat.ErrInvalidParticipant
	}
	list, err := uc.Repo.ListConversations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return list, nil
}
