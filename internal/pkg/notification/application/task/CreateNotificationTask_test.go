package task

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qport "go-courier/internal/infrastructure/queue/port"
	notification "go-courier/internal/pkg/notification/application/domain"
	"go-courier/internal/pkg/notification/application/usecase"
	"go-courier/internal/pkg/notification/persistence/repository/adapter"
)

type fakeServer struct {
	handlers map[string]qport.Handler
}

func (s *fakeServer) Register(taskType string, h qport.Handler) {
	if s.handlers == nil {
		s.handlers = make(map[string]qport.Handler)
	}
	s.handlers[taskType] = h
}
func (s *fakeServer) Run(context.Context) error  { return nil }
func (s *fakeServer) Stop(context.Context) error { return nil }

type fakeClient struct {
	mu    sync.Mutex
	tasks []qport.Task
	opts  []qport.EnqueueOption
}

func (c *fakeClient) Enqueue(_ context.Context, t qport.Task, opts ...qport.EnqueueOption) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks = append(c.tasks, t)
	c.opts = append(c.opts, opts...)
	return "task-1", nil
}
func (c *fakeClient) Close() error { return nil }

type pushed struct {
	mu    sync.Mutex
	items []notification.Notification
}

func (p *pushed) NotifyNewNotification(_ context.Context, n notification.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = append(p.items, n)
}

func TestCreateNotificationTask(t *testing.T) {
	ctx := context.Background()
	repo := adapter.NewMemoryNotificationRepository()
	notifier := &pushed{}
	uc := usecase.NewCreateNotificationUseCase(repo, notifier)

	srv := &fakeServer{}
	RegisterCreateNotificationTask(srv, uc, nil)
	handler, ok := srv.handlers[CreateNotificationTaskType]
	require.True(t, ok)

	t.Run("Should round trip through the client and handler", func(t *testing.T) {
		client := &fakeClient{}
		id, err := EnqueueCreateNotification(ctx, client, CreateNotificationTaskPayload{UserID: 3, Type: "like", Message: "Someone liked your post"})
		require.NoError(t, err)
		assert.Equal(t, "task-1", id)
		require.Len(t, client.tasks, 1)
		assert.Equal(t, NotificationQueue, client.opts[0].Queue)

		require.NoError(t, handler(ctx, client.tasks[0]))

		list, err := repo.ListByUser(ctx, 3)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "like", list[0].Type)
		require.Len(t, notifier.items, 1)
		assert.Equal(t, int64(3), notifier.items[0].UserID)
	})

	t.Run("Should not retry malformed or invalid payloads", func(t *testing.T) {
		err := handler(ctx, qport.Task{Type: CreateNotificationTaskType, Payload: []byte("{")})
		assert.ErrorIs(t, err, qport.ErrSkipRetry)

		payload, _ := json.Marshal(CreateNotificationTaskPayload{UserID: 3, Type: "", Message: "m"})
		err = handler(ctx, qport.Task{Type: CreateNotificationTaskType, Payload: payload})
		assert.ErrorIs(t, err, qport.ErrSkipRetry)
		assert.ErrorIs(t, err, notification.ErrInvalidType)
	})
}

func TestCreateNotificationTaskPayload_Validate(t *testing.T) {
	assert.NoError(t, CreateNotificationTaskPayload{UserID: 1, Type: "t", Message: "m"}.Validate())
	assert.ErrorIs(t, CreateNotificationTaskPayload{UserID: 0, Type: "t", Message: "m"}.Validate(), notification.ErrInvalidUser)
}
