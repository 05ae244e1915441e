package controller

import (
	"context"
	"net/http"
	"time"

	"go-courier/internal/pkg/notification/application/usecase"

	"github.com/gin-gonic/gin"
)

// ListNotificationController lists the caller's notifications, newest first
type ListNotificationController struct {
	UC      *usecase.ListNotificationUseCase
	Timeout time.Duration
}

func NewListNotificationController(uc *usecase.ListNotificationUseCase, timeout time.Duration) *ListNotificationController {
	return &ListNotificationController{UC: uc, Timeout: timeoutOrDefault(timeout)}
}

func (h *ListNotificationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
		defer cancel()
		list, err := h.UC.Execute(ctx, userID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}
