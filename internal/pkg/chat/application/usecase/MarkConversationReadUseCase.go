package usecase

import (
	"context"
	"fmt"

	repository "go-courier/internal/pkg/chat/persistence/repository/port"
)

// MarkConversationReadInput identifies the conversation and the reader.
type MarkConversationReadInput struct {
	ConversationID int64
	ReaderID       int64
}

// MarkConversationReadUseCase flips every unread message the reader did not
// author. Running it again changes nothing.
type MarkConversationReadUseCase struct {
	Repo repository.ChatRepository
}

func NewMarkConversationReadUseCase(repo repository.ChatRepository) *MarkConversationReadUseCase {
	return &MarkConversationReadUseCase{Repo: repo}
}

// Execute returns the number of messages that changed.
func (uc *MarkConversationReadUseCase) Execute(ctx context.Context, in MarkConversationReadInput) (int64, error) {
	if _, err := loadForParticipant(ctx, uc.Repo, in.ConversationID, in.ReaderID); err != nil {
		return 0, err
	}
	n, err := uc.Repo.MarkConversationRead(ctx, in.ConversationID, in.ReaderID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return n, nil
}
