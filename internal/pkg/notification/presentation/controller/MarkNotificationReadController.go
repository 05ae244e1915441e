package controller

import (
	"context"
	"net/http"
	"time"

	"go-courier/internal/pkg/notification/application/usecase"

	"github.com/gin-gonic/gin"
)

// MarkNotificationReadController marks one of the caller's notifications read
type MarkNotificationReadController struct {
	UC      *usecase.MarkNotificationReadUseCase
	Timeout time.Duration
}

func NewMarkNotificationReadController(uc *usecase.MarkNotificationReadUseCase, timeout time.Duration) *MarkNotificationReadController {
	return &MarkNotificationReadController{UC: uc, Timeout: timeoutOrDefault(timeout)}
}

func (h *MarkNotificationReadController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		id, ok := notificationID(c)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
		defer cancel()
		if err := h.UC.Execute(ctx, usecase.MarkNotificationReadInput{NotificationID: id, UserID: userID}); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
	}
}
