package controller

import (
	"context"
	"net/http"
	"time"

	"go-courier/internal/pkg/chat/application/usecase"

	"github.com/gin-gonic/gin"
)

// MarkConversationReadController marks the other participant's messages read
type MarkConversationReadController struct {
	UC      *usecase.MarkConversationReadUseCase
	Timeout time.Duration
}

func NewMarkConversationReadController(uc *usecase.MarkConversationReadUseCase, timeout time.Duration) *MarkConversationReadController {
	return &MarkConversationReadController{UC: uc, Timeout: timeoutOrDefault(timeout)}
}

func (h *MarkConversationReadController) Handle() gin.HandlerFunc {
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
		n, err := h.UC.Execute(ctx, usecase.MarkConversationReadInput{ConversationID: convID, ReaderID: userID})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Conversation marked as read",
			"updated": n,
		})
	}
}
