package controller

import (
	"context"
	"net/http"
	"time"

	"go-courier/internal/infrastructure/auth"
	queueport "go-courier/internal/infrastructure/queue/port"
	"go-courier/internal/pkg/notification/application/task"
	"go-courier/internal/pkg/notification/application/usecase"

	"github.com/gin-gonic/gin"
)

// CreateNotificationController raises a notification for a user. With a queue
// client the work is handed to the worker; otherwise it runs inline.
// Users may only notify themselves; callers presenting ServiceToken may target
// anyone.
type CreateNotificationController struct {
	UC           *usecase.CreateNotificationUseCase
	Q            queueport.Client
	ServiceToken string
	Timeout      time.Duration
}

func NewCreateNotificationController(uc *usecase.CreateNotificationUseCase, client queueport.Client, serviceToken string, timeout time.Duration) *CreateNotificationController {
	return &CreateNotificationController{UC: uc, Q: client, ServiceToken: serviceToken, Timeout: timeoutOrDefault(timeout)}
}

// createNotificationRequest is the DTO for the HTTP request body
type createNotificationRequest struct {
	UserID  int64          `json:"user_id" binding:"required"`
	Type    string         `json:"type" binding:"required"`
	Message string         `json:"message" binding:"required"`
	Data    map[string]any `json:"data"`
}

func (h *CreateNotificationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}

		var req createNotificationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.UserID != userID && !auth.IsService(c.Request, h.ServiceToken) {
			c.JSON(http.StatusForbidden, gin.H{"error": "cannot raise notifications for another user"})
			return
		}
		payload := task.CreateNotificationTaskPayload{
			UserID:  req.UserID,
			Type:    req.Type,
			Message: req.Message,
			Data:    req.Data,
		}
		if err := payload.Validate(); err != nil {
			writeError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
		defer cancel()

		if h.Q != nil {
			id, err := task.EnqueueCreateNotification(ctx, h.Q, payload)
			if err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to enqueue notification"})
				return
			}
			c.JSON(http.StatusAccepted, gin.H{
				"status":  "queued",
				"task_id": id,
				"user_id": req.UserID,
			})
			return
		}

		n, err := h.UC.Execute(ctx, usecase.CreateNotificationInput{
			UserID:  req.UserID,
			Type:    req.Type,
			Message: req.Message,
			Data:    req.Data,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, n)
	}
}
