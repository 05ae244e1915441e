package chat

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxMessageLength bounds message content in runes.
const MaxMessageLength = 10000

// Message is authored by one participant of a conversation. Only Read changes
// after creation.
type Message struct {
	ID             int64     `db:"id" json:"id"`
	ConversationID int64     `db:"conversation_id" json:"conversation_id"`
	SenderID       int64     `db:"sender_id" json:"sender_id"`
	Content        string    `db:"content" json:"content"`
	Read           bool      `db:"read" json:"read"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// NewMessage trims and validates content and returns an unread, unsaved message.
func NewMessage(conversationID, senderID int64, content string, now time.Time) (*Message, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(trimmed) > MaxMessageLength {
		return nil, ErrMessageTooLong
	}
	if now.IsZero() {
		now = time.Now()
	}
	return &Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        trimmed,
		CreatedAt:      now.UTC(),
	}, nil
}
