package notification

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// Column limits of the notifications table.
const (
	MaxTypeLength    = 50
	MaxMessageLength = 255
)

var (
	ErrNotificationNotFound = errors.New("notification: not found")
	ErrInvalidUser          = errors.New("notification: user id must be positive")
	ErrInvalidType          = errors.New("notification: type must be 1-50 characters")
	ErrInvalidMessage       = errors.New("notification: message must be 1-255 characters")
)

// Notification belongs to one user. Only Read changes after creation.
type Notification struct {
	ID        int64          `db:"id" json:"id"`
	UserID    int64          `db:"user_id" json:"user_id"`
	Type      string         `db:"type" json:"type"`
	Message   string         `db:"message" json:"message"`
	Data      map[string]any `db:"data" json:"data"`
	Read      bool           `db:"read" json:"read"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// New validates the fields and returns an unread, unsaved notification.
func New(userID int64, typ, message string, data map[string]any, now time.Time) (*Notification, error) {
	if userID <= 0 {
		return nil, ErrInvalidUser
	}
	typ = strings.TrimSpace(typ)
	if typ == "" || utf8.RuneCountInString(typ) > MaxTypeLength {
		return nil, ErrInvalidType
	}
	message = strings.TrimSpace(message)
	if message == "" || utf8.RuneCountInString(message) > MaxMessageLength {
		return nil, ErrInvalidMessage
	}
	if now.IsZero() {
		now = time.Now()
	}
	return &Notification{
		UserID:    userID,
		Type:      typ,
		Message:   message,
		Data:      data,
		CreatedAt: now.UTC(),
	}, nil
}
