package controller

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"go-courier/internal/pkg/chat/application/usecase"

	"github.com/gin-gonic/gin"
)

// GetMessageController lists a conversation's messages, oldest first
type GetMessageController struct {
	UC      *usecase.GetMessageUseCase
	Timeout time.Duration
}

func NewGetMessageController(uc *usecase.GetMessageUseCase, timeout time.Duration) *GetMessageController {
	return &GetMessageController{UC: uc, Timeout: timeoutOrDefault(timeout)}
}

// Handle accepts optional limit and offset query parameters; without limit
// the whole conversation is returned.
func (h *GetMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		convID, ok := conversationID(c)
		if !ok {
			return
		}

		limit, offset := 0, 0
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}
		if v := c.Query("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				offset = n
			}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
		defer cancel()
		msgs, err := h.UC.Execute(ctx, usecase.GetMessageInput{
			ConversationID: convID,
			UserID:         userID,
			Limit:          limit,
			Offset:         offset,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, msgs)
	}
}
