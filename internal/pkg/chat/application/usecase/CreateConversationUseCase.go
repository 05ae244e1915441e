package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	chat "go-courier/internal/pkg/chat/application/domain"
	repository "go-courier/internal/pkg/chat/persistence/repository/port"
)

// CreateConversationInput carries the caller and the user they want to talk to.
type CreateConversationInput struct {
	CreatorID     int64
	ParticipantID int64
}

// CreateConversationOutput reports whether the conversation is new or an
// existing one for the same pair.
type CreateConversationOutput struct {
	Conversation chat.Conversation
	Created      bool
}

// CreateConversationUseCase opens the conversation between two users. The
// operation is idempotent on the unordered pair.
type CreateConversationUseCase struct {
	Repo repository.ChatRepository
	Now  func() time.Time
}

func NewCreateConversationUseCase(repo repository.ChatRepository) *CreateConversationUseCase {
	return &CreateConversationUseCase{Repo: repo, Now: time.Now}
}

func (uc *CreateConversationUseCase) Execute(ctx context.Context, in CreateConversationInput) (*CreateConversationOutput, error) {
	conv, err := chat.NewConversation(in.CreatorID, in.ParticipantID, uc.Now())
	if err != nil {
		return nil, err
	}

	existing, err := uc.Repo.FindConversationByPair(ctx, conv.Pair())
	switch {
	case err == nil:
		return &CreateConversationOutput{Conversation: *existing}, nil
	case !errors.Is(err, chat.ErrConversationNotFound):
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	stored, created, err := uc.Repo.CreateConversation(ctx, conv)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return &CreateConversationOutput{Conversation: stored, Created: created}, nil
}
