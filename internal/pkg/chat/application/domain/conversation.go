package chat

import "time"

// Conversation is a 1:1 thread between two distinct users. The pair is
// unordered: (a,b) and (b,a) name the same conversation.
type Conversation struct {
	ID        int64     `db:"id" json:"id"`
	User1ID   int64     `db:"user1_id" json:"user1_id"`
	User2ID   int64     `db:"user2_id" json:"user2_id"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NewConversation validates the pair and returns an unsaved conversation.
func NewConversation(creatorID, participantID int64, now time.Time) (Conversation, error) {
	if creatorID <= 0 || participantID <= 0 {
		return Conversation{}, ErrInvalidParticipant
	}
	if creatorID == participantID {
		return Conversation{}, ErrSelfConversation
	}
	return Conversation{User1ID: creatorID, User2ID: participantID, UpdatedAt: now.UTC()}, nil
}

// HasParticipant tells whether userID is one of the two users.
func (c Conversation) HasParticipant(userID int64) bool {
	return userID != 0 && (c.User1ID == userID || c.User2ID == userID)
}

// Other returns the participant that is not userID, or false when userID is
// not in the conversation.
func (c Conversation) Other(userID int64) (int64, bool) {
	switch userID {
	case c.User1ID:
		return c.User2ID, true
	case c.User2ID:
		return c.User1ID, true
	default:
		return 0, false
	}
}

// Pair returns the conversation's participants in canonical order.
func (c Conversation) Pair() PairKey {
	return NewPairKey(c.User1ID, c.User2ID)
}

// PairKey is the canonical (low, high) form of an unordered user pair.
type PairKey struct {
	Low  int64
	High int64
}

func NewPairKey(a, b int64) PairKey {
	if a > b {
		a, b = b, a
	}
	return PairKey{Low: a, High: b}
}

// ConversationSummary is a conversation as listed to one of its participants.
type ConversationSummary struct {
	Conversation
	LastMessage *Message `json:"last_message"`
	UnreadCount int      `json:"unread_count"`
}
