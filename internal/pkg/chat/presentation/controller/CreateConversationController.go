package controller

import (
	"context"
	"net/http"
	"time"

	"go-courier/internal/pkg/chat/application/usecase"

	"github.com/gin-gonic/gin"
)

// CreateConversationController opens (or returns) the conversation with another user
type CreateConversationController struct {
	UC      *usecase.CreateConversationUseCase
	Timeout time.Duration
}

func NewCreateConversationController(uc *usecase.CreateConversationUseCase, timeout time.Duration) *CreateConversationController {
	return &CreateConversationController{UC: uc, Timeout: timeoutOrDefault(timeout)}
}

type createConversationRequest struct {
	ParticipantID int64 `json:"participant_id" binding:"required"`
}

// Handle answers 201 for a new conversation and 200 when the pair already had one.
func (h *CreateConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}

		var req createConversationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
		defer cancel()
		out, err := h.UC.Execute(ctx, usecase.CreateConversationInput{CreatorID: userID, ParticipantID: req.ParticipantID})
		if err != nil {
			writeError(c, err)
			return
		}

		status := http.StatusOK
		if out.Created {
			status = http.StatusCreated
		}
		c.JSON(status, out.Conversation)
	}
}
