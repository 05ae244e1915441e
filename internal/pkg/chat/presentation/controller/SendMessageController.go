package controller

import (
	"context"
	"net/http"
	"time"

	"go-courier/internal/pkg/chat/application/usecase"

	"github.com/gin-gonic/gin"
)

// SendMessageController handles the send-message endpoint only (one controller per endpoint)
type SendMessageController struct {
	UC      *usecase.SendMessageUseCase
	Timeout time.Duration
}

func NewSendMessageController(uc *usecase.SendMessageUseCase, timeout time.Duration) *SendMessageController {
	return &SendMessageController{UC: uc, Timeout: timeoutOrDefault(timeout)}
}

// sendMessageRequest is the DTO for the HTTP request body
type sendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// Handle persists the message and answers 201 whether or not the recipient
// was online.
func (h *SendMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		convID, ok := conversationID(c)
		if !ok {
			return
		}

		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
		defer cancel()
		msg, err := h.UC.Execute(ctx, usecase.SendMessageInput{
			ConversationID: convID,
			SenderID:       userID,
			Content:        req.Content,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, msg)
	}
}
