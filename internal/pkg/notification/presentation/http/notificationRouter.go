package http

import (
	"time"

	queueport "go-courier/internal/infrastructure/queue/port"
	"go-courier/internal/pkg/notification/application/usecase"
	repository "go-courier/internal/pkg/notification/persistence/repository/port"
	"go-courier/internal/pkg/notification/presentation/controller"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers notification endpoints under the given router group.
// client may be nil, in which case POST /notifications creates inline.
// serviceToken lets trusted backends raise notifications for any user.
func RegisterRoutes(g *gin.RouterGroup, repo repository.NotificationRepository, notifier usecase.NotificationNotifier, client queueport.Client, serviceToken string, timeout time.Duration) {
	listCtl := controller.NewListNotificationController(usecase.NewListNotificationUseCase(repo), timeout)
	readCtl := controller.NewMarkNotificationReadController(usecase.NewMarkNotificationReadUseCase(repo), timeout)
	readAllCtl := controller.NewMarkAllNotificationReadController(usecase.NewMarkAllNotificationReadUseCase(repo), timeout)
	clearCtl := controller.NewClearNotificationController(usecase.NewClearNotificationUseCase(repo), timeout)
	createCtl := controller.NewCreateNotificationController(usecase.NewCreateNotificationUseCase(repo, notifier), client, serviceToken, timeout)

	// GET /api/v1/notifications -> caller's notifications, newest first
	g.GET("/notifications", listCtl.Handle())

	// POST /api/v1/notifications/read-all -> mark all read
	g.POST("/notifications/read-all", readAllCtl.Handle())

	// POST /api/v1/notifications/:notificationId/read -> mark one read
	g.POST("/notifications/:notificationId/read", readCtl.Handle())

	// DELETE /api/v1/notifications -> clear all
	g.DELETE("/notifications", clearCtl.Handle())

	// POST /api/v1/notifications -> raise a notification (own user, or any with the service token)
	g.POST("/notifications", createCtl.Handle())
}
