package chat

import "errors"

// Domain-level errors for chat behaviors
var (
	ErrConversationNotFound = errors.New("chat: conversation not found")
	ErrNotParticipant       = errors.New("chat: user is not a participant in the conversation")
	ErrSelfConversation     = errors.New("chat: cannot open a conversation with yourself")
	ErrInvalidParticipant   = errors.New("chat: participant id must be positive")
	ErrEmptyMessage         = errors.New("chat: empty message")
	ErrMessageTooLong       = errors.New("chat: message exceeds maximum length")
)
