package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "go-courier/internal/pkg/chat/application/domain"
	repository "go-courier/internal/pkg/chat/persistence/repository/port"
)

// loadForParticipant returns the conversation when userID takes part in it.
// A missing conversation and a non-participant caller are both reported as
// not found by the controllers.
func loadForParticipant(ctx context.Context, repo repository.ChatRepository, conversationID, userID int64) (*chat.Conversation, error) {
	if conversationID <= 0 {
		return nil, chat.ErrConversationNotFound
	}
	conv, err := repo.GetConversation(ctx, conversationID)
	if err != nil {
		if errors.Is(err, chat.ErrConversationNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !conv.HasParticipant(userID) {
		return nil, chat.ErrNotParticipant
	}
	return conv, nil
}
