package controller

import (
	"context"
	"net/http"
	"time"

	"go-courier/internal/pkg/chat/application/usecase"

	"github.com/gin-gonic/gin"
)

// DeleteConversationController deletes a conversation and its messages
type DeleteConversationController struct {
	UC      *usecase.DeleteConversationUseCase
	Timeout time.Duration
}

func NewDeleteConversationController(uc *usecase.DeleteConversationUseCase, timeout time.Duration) *DeleteConversationController {
	return &DeleteConversationController{UC: uc, Timeout: timeoutOrDefault(timeout)}
}

func (h *DeleteConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		convID, ok := conversationID(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
		defer cancel()
		if err := h.UC.Execute(ctx, usecase.DeleteConversationInput{ConversationID: convID, UserID: userID}); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Conversation deleted"})
	}
}
