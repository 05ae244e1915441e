package controller

import (
	"context"
	"net/http"
	"time"

	"go-courier/internal/pkg/notification/application/usecase"

	"github.com/gin-gonic/gin"
)

// MarkAllNotificationReadController marks every caller notification read
type MarkAllNotificationReadController struct {
	UC      *usecase.MarkAllNotificationReadUseCase
	Timeout time.Duration
}

func NewMarkAllNotificationReadController(uc *usecase.MarkAllNotificationReadUseCase, timeout time.Duration) *MarkAllNotificationReadController {
	return &MarkAllNotificationReadController{UC: uc, Timeout: timeoutOrDefault(timeout)}
}

func (h *MarkAllNotificationReadController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
		defer cancel()
		n, err := h.UC.Execute(ctx, userID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read", "updated": n})
	}
}
