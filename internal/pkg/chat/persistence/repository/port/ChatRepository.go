package repository

import (
	"context"

	chat "go-courier/internal/pkg/chat/application/domain"
)

// ChatRepository defines persistence operations for conversations and messages.
// Lookups of a missing conversation return chat.ErrConversationNotFound; any
// other error is an infrastructure failure.
type ChatRepository interface {
	// CreateConversation stores c unless a conversation already exists for the
	// same unordered pair, in which case the existing one is returned with
	// created=false.
	CreateConversation(ctx context.Context, c chat.Conversation) (conv chat.Conversation, created bool, err error)
	GetConversation(ctx context.Context, id int64) (*chat.Conversation, error)
	FindConversationByPair(ctx context.Context, pair chat.PairKey) (*chat.Conversation, error)
	// ListConversations returns userID's conversations, most recently updated first.
	ListConversations(ctx context.Context, userID int64) ([]chat.ConversationSummary, error)
	// DeleteConversation removes the conversation and all of its messages atomically.
	DeleteConversation(ctx context.Context, c chat.Conversation) error

	// SaveMessage persists m and advances the conversation's updated_at in one
	// transaction, returning the stored message.
	SaveMessage(ctx context.Context, m chat.Message) (chat.Message, error)
	// GetMessagesByConversation returns messages oldest first. limit <= 0 means no limit.
	GetMessagesByConversation(ctx context.Context, conversationID int64, limit int, offset int) ([]chat.Message, error)
	// MarkConversationRead flips unread messages not authored by readerID and
	// returns how many changed.
	MarkConversationRead(ctx context.Context, conversationID int64, readerID int64) (int64, error)
}
