package delivery

import (
	"context"

	"go.uber.org/zap"

	chat "go-courier/internal/pkg/chat/application/domain"
	notification "go-courier/internal/pkg/notification/application/domain"
)

// Pusher is the slice of the connection registry the notifier needs.
type Pusher interface {
	Unicast(userID int64, payload []byte) bool
	BroadcastExcept(payload []byte, userID int64) int
}

// Notifier is the delivery core. It is called after a write has committed and
// never reports failure to its caller: an offline recipient or a broken
// socket is logged and dropped.
type Notifier struct {
	pusher Pusher
	logger *zap.Logger
}

func NewNotifier(pusher Pusher, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{pusher: pusher, logger: logger.Named("delivery")}
}

// NotifyNewMessage pushes msg to the participant who did not send it.
func (n *Notifier) NotifyNewMessage(_ context.Context, conv chat.Conversation, msg chat.Message) {
	recipient, ok := conv.Other(msg.SenderID)
	if !ok {
		n.logger.Warn("Sender is not a participant, message not pushed",
			zap.Int64("conversationID", conv.ID),
			zap.Int64("senderID", msg.SenderID),
		)
		return
	}
	n.unicast(recipient, NewMessageEvent(conv, msg))
}

// NotifyNewNotification pushes nt to its owner.
func (n *Notifier) NotifyNewNotification(_ context.Context, nt notification.Notification) {
	n.unicast(nt.UserID, NotificationEvent(nt))
}

// NotifyPresence tells every other online user that userID came or went.
func (n *Notifier) NotifyPresence(_ context.Context, userID int64, online bool) {
	payload, err := Encode(PresenceEvent(userID, online))
	if err != nil {
		n.logger.Error("Encode presence event", zap.Error(err))
		return
	}
	n.pusher.BroadcastExcept(payload, userID)
}

func (n *Notifier) unicast(userID int64, e Event) {
	payload, err := Encode(e)
	if err != nil {
		n.logger.Error("Encode event", zap.String("eventType", e.Type), zap.Error(err))
		return
	}
	if !n.pusher.Unicast(userID, payload) {
		n.logger.Debug("Recipient offline or unreachable, event dropped",
			zap.String("eventType", e.Type),
			zap.Int64("userID", userID),
		)
	}
}
