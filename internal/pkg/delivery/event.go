// Package delivery turns committed writes into best-effort pushes over the
// connection registry.
package delivery

import (
	"encoding/json"

	chat "go-courier/internal/pkg/chat/application/domain"
	notification "go-courier/internal/pkg/notification/application/domain"
)

// Event type tags. Clients ignore tags they do not know.
const (
	EventNewMessage   = "new_message"
	EventNotification = "notification"
	EventPresence     = "presence"
	EventConnected    = "connected"
	EventPong         = "pong"
	EventError        = "error"
)

// Event is the frame pushed to a client. Build it, then Encode it once at the
// transport boundary.
type Event struct {
	Type           string                     `json:"type"`
	ConversationID int64                      `json:"conversation_id,omitempty"`
	Message        *chat.Message              `json:"message,omitempty"`
	Notification   *notification.Notification `json:"notification,omitempty"`
	UserID         int64                      `json:"user_id,omitempty"`
	Online         *bool                      `json:"online,omitempty"`
	Error          string                     `json:"error,omitempty"`
}

func NewMessageEvent(conv chat.Conversation, msg chat.Message) Event {
	return Event{Type: EventNewMessage, ConversationID: conv.ID, Message: &msg}
}

func NotificationEvent(n notification.Notification) Event {
	return Event{Type: EventNotification, Notification: &n}
}

func PresenceEvent(userID int64, online bool) Event {
	return Event{Type: EventPresence, UserID: userID, Online: &online}
}

func ErrorEvent(msg string) Event {
	return Event{Type: EventError, Error: msg}
}

// Encode serialises e for the wire.
func Encode(e Event) ([]byte, error) {
	return json.Marshal(e)
}
