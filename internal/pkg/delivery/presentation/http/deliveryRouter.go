package http

import (
	"go-courier/internal/pkg/delivery/presentation/controller"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes binds the realtime endpoint. The socket authenticates itself
// so browsers can pass the token in the query string.
func RegisterRoutes(g *gin.RouterGroup, socketCtl *controller.SocketController) {
	// GET /api/v1/ws -> websocket carrying pushes for the caller
	g.GET("/ws", socketCtl.Handle())
}
