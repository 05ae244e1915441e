package controller

import (
	"context"
	"net/http"
	"time"

	"go-courier/internal/pkg/chat/application/usecase"

	"github.com/gin-gonic/gin"
)

// ListConversationController lists the caller's conversations
type ListConversationController struct {
	UC      *usecase.ListConversationsUseCase
	Timeout time.Duration
}

func NewListConversationController(uc *usecase.ListConversationsUseCase, timeout time.Duration) *ListConversationController {
	return &ListConversationController{UC: uc, Timeout: timeoutOrDefault(timeout)}
}

func (h *ListConversationController) Handle() gin.HandlerFunc {
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
