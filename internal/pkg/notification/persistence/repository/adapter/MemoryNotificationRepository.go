package adapter

import (
	"context"
	"sort"
	"sync"

	notification "go-courier/internal/pkg/notification/application/domain"
	repository "go-courier/internal/pkg/notification/persistence/repository/port"
)

// MemoryNotificationRepository keeps notifications in process memory.
type MemoryNotificationRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]notification.Notification
}

var _ repository.NotificationRepository = (*MemoryNotificationRepository)(nil)

func NewMemoryNotificationRepository() *MemoryNotificationRepository {
	return &MemoryNotificationRepository{items: make(map[int64]notification.Notification)}
}

func (r *MemoryNotificationRepository) Save(_ context.Context, n notification.Notification) (notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	n.ID = r.nextID
	r.items[n.ID] = n
	return n, nil
}

func (r *MemoryNotificationRepository) ListByUser(_ context.Context, userID int64) ([]notification.Notification, error) {
	r.mu.RLock()
	out := make([]notification.Notification, 0)
	for _, n := range r.items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *MemoryNotificationRepository) MarkRead(_ context.Context, id, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok || n.UserID != userID {
		return notification.ErrNotificationNotFound
	}
	n.Read = true
	r.items[id] = n
	return nil
}

func (r *MemoryNotificationRepository) MarkAllRead(_ context.Context, userID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var changed int64
	for id, n := range r.items {
		if n.UserID == userID && !n.Read {
			n.Read = true
			r.items[id] = n
			changed++
		}
	}
	return changed, nil
}

func (r *MemoryNotificationRepository) DeleteAll(_ context.Context, userID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for id, n := range r.items {
		if n.UserID == userID {
			delete(r.items, id)
			removed++
		}
	}
	return removed, nil
}
