package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"go-courier/internal/infrastructure/auth"
	"go-courier/internal/infrastructure/realtime"
	"go-courier/internal/pkg/delivery"
)

// PresenceNotifier announces users coming online and going offline.
type PresenceNotifier interface {
	NotifyPresence(ctx context.Context, userID int64, online bool)
}

// SocketOptions tunes accepted sockets.
type SocketOptions struct {
	Connection     realtime.ConnectionOptions
	PongWait       time.Duration
	ReadLimit      int64
	CloseDisplaced bool
	Presence       bool
	InboundRate    float64
	InboundBurst   int
	CheckOrigin    func(r *http.Request) bool
}

// SocketController accepts the websocket that carries pushes to a user.
type SocketController struct {
	registry *realtime.Registry
	auth     auth.Authenticator
	presence PresenceNotifier
	opts     SocketOptions
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewSocketController(registry *realtime.Registry, authenticator auth.Authenticator, presence PresenceNotifier, opts SocketOptions, logger *zap.Logger) *SocketController {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.PongWait <= 0 {
		opts.PongWait = 60 * time.Second
	}
	if opts.ReadLimit <= 0 {
		opts.ReadLimit = 1 << 20
	}
	// pings must go out before the peer's read deadline passes
	if opts.Connection.PingPeriod <= 0 || opts.Connection.PingPeriod >= opts.PongWait {
		opts.Connection.PingPeriod = opts.PongWait * 9 / 10
	}
	checkOrigin := opts.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &SocketController{
		registry: registry,
		auth:     authenticator,
		presence: presence,
		opts:     opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		logger: logger.Named("socket"),
	}
}

type inboundFrame struct {
	Type string `json:"type"`
}

// Handle authenticates the caller, upgrades the request and keeps the socket
// registered until it closes.
func (ctl *SocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := ctl.auth.Authenticate(c.Request.Context(), auth.TokenFromRequest(c.Request))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		if declared := c.Query("user_id"); declared != "" {
			id, err := strconv.ParseInt(declared, 10, 64)
			if err != nil || id != userID {
				c.JSON(http.StatusForbidden, gin.H{"error": "user_id does not match the authenticated user"})
				return
			}
		}

		ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response
			ctl.logger.Debug("Upgrade failed", zap.Int64("userID", userID), zap.Error(err))
			return
		}

		ctl.serve(userID, ws)
	}
}

func (ctl *SocketController) serve(userID int64, ws *websocket.Conn) {
	conn := realtime.NewConnection(userID, ws, ctl.opts.Connection)
	conn.Start()
	log := ctl.logger.With(zap.Int64("userID", userID), zap.String("connectionID", conn.ID))

	displaced := ctl.registry.Register(userID, conn)
	if displaced != nil && ctl.opts.CloseDisplaced {
		if closer, ok := displaced.(interface{ Close(int, string) }); ok {
			closer.Close(realtime.CloseSessionReplaced, "session replaced")
		}
	}
	// a client that has seen "connected" is reachable through the registry
	ctl.reply(conn, delivery.Event{Type: delivery.EventConnected, UserID: userID})
	if displaced == nil && ctl.opts.Presence && ctl.presence != nil {
		ctl.presence.NotifyPresence(context.Background(), userID, true)
	}
	log.Info("Socket connected", zap.Bool("replaced", displaced != nil))

	var once sync.Once
	teardown := func(code int, reason string) {
		once.Do(func() {
			ctl.registry.Unregister(conn)
			conn.Close(code, reason)
			if ctl.opts.Presence && ctl.presence != nil && !ctl.registry.Online(userID) {
				ctl.presence.NotifyPresence(context.Background(), userID, false)
			}
			log.Info("Socket disconnected")
		})
	}
	defer teardown(websocket.CloseNormalClosure, "")

	ws.SetReadLimit(ctl.opts.ReadLimit)
	_ = ws.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))
	})

	limiter := ctl.newLimiter()
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) &&
				!errors.Is(err, websocket.ErrCloseSent) {
				log.Debug("Read failed", zap.Error(err))
			}
			return
		}
		_ = ws.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))

		if limiter != nil && !limiter.Allow() {
			ctl.reply(conn, delivery.ErrorEvent("rate limited"))
			continue
		}

		var frame inboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			ctl.reply(conn, delivery.ErrorEvent("invalid payload"))
			continue
		}
		switch frame.Type {
		case "ping":
			ctl.reply(conn, delivery.Event{Type: delivery.EventPong})
		default:
			// unknown frame types are ignored
		}
	}
}

func (ctl *SocketController) newLimiter() *rate.Limiter {
	if ctl.opts.InboundRate <= 0 {
		return nil
	}
	burst := ctl.opts.InboundBurst
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(ctl.opts.InboundRate), burst)
}

func (ctl *SocketController) reply(conn *realtime.Connection, e delivery.Event) {
	payload, err := delivery.Encode(e)
	if err != nil {
		return
	}
	_ = conn.Send(payload)
}
