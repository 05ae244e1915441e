package http

import (
	"time"

	"go-courier/internal/pkg/chat/application/usecase"
	repository "go-courier/internal/pkg/chat/persistence/repository/port"
	"go-courier/internal/pkg/chat/presentation/controller"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers chat-related HTTP endpoints under the given router group.
// The group is expected to carry the auth middleware.
func RegisterRoutes(g *gin.RouterGroup, repo repository.ChatRepository, notifier usecase.MessageNotifier, timeout time.Duration) {
	listCtl := controller.NewListConversationController(usecase.NewListConversationsUseCase(repo), timeout)
	createCtl := controller.NewCreateConversationController(usecase.NewCreateConversationUseCase(repo), timeout)
	getMsgCtl := controller.NewGetMessageController(usecase.NewGetMessageUseCase(repo), timeout)
	sendMsgCtl := controller.NewSendMessageController(usecase.NewSendMessageUseCase(repo, notifier), timeout)
	readCtl := controller.NewMarkConversationReadController(usecase.NewMarkConversationReadUseCase(repo), timeout)
	deleteCtl := controller.NewDeleteConversationController(usecase.NewDeleteConversationUseCase(repo), timeout)

	// GET /api/v1/conversations -> caller's conversations, most recent first
	g.GET("/conversations", listCtl.Handle())

	// POST /api/v1/conversations -> open (or return) a conversation
	g.POST("/conversations", createCtl.Handle())

	// GET /api/v1/conversations/:conversationId/messages -> messages, oldest first
	g.GET("/conversations/:conversationId/messages", getMsgCtl.Handle())

	// POST /api/v1/conversations/:conversationId/messages -> send a message
	g.POST("/conversations/:conversationId/messages", sendMsgCtl.Handle())

	// POST /api/v1/conversations/:conversationId/read -> mark messages read
	g.POST("/conversations/:conversationId/read", readCtl.Handle())

	// DELETE /api/v1/conversations/:conversationId -> delete with its messages
	g.DELETE("/conversations/:conversationId", deleteCtl.Handle())
}
