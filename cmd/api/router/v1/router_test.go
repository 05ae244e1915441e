package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-courier/internal/infrastructure/auth"
	"go-courier/internal/infrastructure/realtime"
	chatadapter "go-courier/internal/pkg/chat/persistence/repository/adapter"
	"go-courier/internal/pkg/delivery"
	socket "go-courier/internal/pkg/delivery/presentation/controller"
	notificationadapter "go-courier/internal/pkg/notification/persistence/repository/adapter"
)

func newTestEngine(t *testing.T) (*gin.Engine, *auth.JWTAuthenticator) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	authenticator, err := auth.NewJWTAuthenticator(auth.JWTConfig{Secret: "router-secret"})
	require.NoError(t, err)

	registry := realtime.NewRegistry(nil, nil)
	notifier := delivery.NewNotifier(registry, nil)

	r := gin.New()
	RegisterRoutes(r, Deps{
		Auth:          authenticator,
		Chats:         chatadapter.NewMemoryChatRepository(),
		Notifications: notificationadapter.NewMemoryNotificationRepository(),
		Notifier:      notifier,
		Socket:        socket.NewSocketController(registry, authenticator, notifier, socket.SocketOptions{}, nil),
		Timeout:       time.Second,
	})
	return r, authenticator
}

func do(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterRoutes(t *testing.T) {
	r, authenticator := newTestEngine(t)

	token, err := authenticator.IssueToken(1, time.Hour)
	require.NoError(t, err)

	t.Run("Should reject unauthenticated API calls", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do(t, r, http.MethodGet, "/api/v1/conversations", "", nil).Code)
		assert.Equal(t, http.StatusUnauthorized, do(t, r, http.MethodGet, "/api/v1/notifications", "", nil).Code)
	})

	t.Run("Should reject a socket without a token before upgrading", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do(t, r, http.MethodGet, "/api/v1/ws", "", nil).Code)
	})

	t.Run("Should serve chat routes to an authenticated caller", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/api/v1/conversations", token, gin.H{"participant_id": 2})
		require.Equal(t, http.StatusCreated, w.Code)

		var conv struct {
			ID int64 `json:"id"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &conv))

		w = do(t, r, http.MethodPost, "/api/v1/conversations/"+strconv.FormatInt(conv.ID, 10)+"/messages", token, gin.H{"content": "hello"})
		assert.Equal(t, http.StatusCreated, w.Code)

		w = do(t, r, http.MethodGet, "/api/v1/conversations", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "hello")
	})

	t.Run("Should serve notification routes to an authenticated caller", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/api/v1/notifications", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})
}
