package controller

import (
	"context"
	"net/http"
	"time"

	"go-courier/internal/pkg/notification/application/usecase"

	"github.com/gin-gonic/gin"
)

// ClearNotificationController deletes every caller notification
type ClearNotificationController struct {
	UC      *usecase.ClearNotificationUseCase
	Timeout time.Duration
}

func NewClearNotificationController(uc *usecase.ClearNotificationUseCase, timeout time.Duration) *ClearNotificationController {
	return &ClearNotificationController{UC: uc, Timeout: timeoutOrDefault(timeout)}
}

func (h *ClearNotificationController) Handle() gin.HandlerFunc {
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
		c.JSON(http.StatusOK, gin.H{"message": "All notifications cleared", "deleted": n})
	}
}
