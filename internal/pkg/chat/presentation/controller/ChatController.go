package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"go-courier/internal/infrastructure/auth"
	chat "go-courier/internal/pkg/chat/application/domain"
	"go-courier/internal/pkg/chat/application/usecase"

	"github.com/gin-gonic/gin"
)

// DefaultTimeout bounds the use case call of every chat endpoint.
const DefaultTimeout = 3 * time.Second

func timeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultTimeout
	}
	return d
}

// callerID returns the authenticated user or answers 401.
func callerID(c *gin.Context) (int64, bool) {
	id, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": auth.ErrMissingToken.Error()})
		return 0, false
	}
	return id, true
}

// conversationID parses :conversationId or answers 400.
func conversationID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("conversationId"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "conversationId must be a positive integer"})
		return 0, false
	}
	return id, true
}

// writeError maps use case errors to HTTP statuses.
func writeError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	msg := err.Error()
	switch {
	case errors.Is(err, chat.ErrConversationNotFound), errors.Is(err, chat.ErrNotParticipant):
		status = http.StatusNotFound
		msg = "Conversation not found"
	case errors.Is(err, usecase.ErrPersistence):
		status = http.StatusInternalServerError
		msg = "unexpected persistence error"
	}
	c.JSON(status, gin.H{"error": msg})
}
