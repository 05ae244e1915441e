package v1

import (
	"time"

	"go-courier/internal/infrastructure/auth"
	qport "go-courier/internal/infrastructure/queue/port"
	chatusecase "go-courier/internal/pkg/chat/application/usecase"
	chatrepo "go-courier/internal/pkg/chat/persistence/repository/port"
	chatHandler "go-courier/internal/pkg/chat/presentation/http"
	socket "go-courier/internal/pkg/delivery/presentation/controller"
	deliveryHandler "go-courier/internal/pkg/delivery/presentation/http"
	notificationusecase "go-courier/internal/pkg/notification/application/usecase"
	notificationrepo "go-courier/internal/pkg/notification/persistence/repository/port"
	notificationHandler "go-courier/internal/pkg/notification/presentation/http"

	"github.com/gin-gonic/gin"
)

// Deps are the collaborators the v1 routes are built from.
type Deps struct {
	Auth          auth.Authenticator
	Chats         chatrepo.ChatRepository
	Notifications notificationrepo.NotificationRepository
	// Notifier pushes new messages and notifications to live sockets.
	Notifier interface {
		chatusecase.MessageNotifier
		notificationusecase.NotificationNotifier
	}
	Socket *socket.SocketController
	// Queue may be nil; notifications are then created inline.
	Queue qport.Client
	// ServiceToken lets backends raise notifications for any user.
	ServiceToken string
	Timeout      time.Duration
}

// RegisterRoutes mounts all version 1 API routes under /api/v1
func RegisterRoutes(r *gin.Engine, deps Deps) {
	v1 := r.Group("/api/v1")

	// the socket authenticates itself (query token for browsers)
	deliveryHandler.RegisterRoutes(v1, deps.Socket)

	authed := v1.Group("", auth.Middleware(deps.Auth))
	chatHandler.RegisterRoutes(authed, deps.Chats, deps.Notifier, deps.Timeout)
	notificationHandler.RegisterRoutes(authed, deps.Notifications, deps.Notifier, deps.Queue, deps.ServiceToken, deps.Timeout)
}
