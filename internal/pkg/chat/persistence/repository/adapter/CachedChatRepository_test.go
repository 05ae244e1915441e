package adapter

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cacheport "go-courier/internal/infrastructure/cache/port"
	chat "go-courier/internal/pkg/chat/application/domain"
)

type fakeCache struct {
	mu      sync.Mutex
	data    map[string]string
	getErr  error
	gets    int
	deletes int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.getErr != nil {
		return "", f.getErr
	}
	v, ok := f.data[key]
	if !ok {
		return "", cacheport.ErrMiss
	}
	return v, nil
}

func (f *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return nil
}

func (f *fakeCache) Del(_ context.Context, keys ...string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			n++
		}
		delete(f.data, k)
	}
	f.deletes++
	return n, nil
}

func (f *fakeCache) Ping(context.Context) error { return nil }
func (f *fakeCache) Close() error               { return nil }

func (f *fakeCache) value(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

// countingRepo counts pair lookups that reach the backing store.
type countingRepo struct {
	*MemoryChatRepository
	pairLookups int
}

func (r *countingRepo) FindConversationByPair(ctx context.Context, pair chat.PairKey) (*chat.Conversation, error) {
	r.pairLookups++
	return r.MemoryChatRepository.FindConversationByPair(ctx, pair)
}

func TestCachedChatRepository(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("Should populate the cache on create and serve pair lookups from it", func(t *testing.T) {
		inner := &countingRepo{MemoryChatRepository: NewMemoryChatRepository()}
		cache := newFakeCache()
		repo := NewCachedChatRepository(inner, cache, time.Minute, nil)

		c, created, err := repo.CreateConversation(ctx, chat.Conversation{User1ID: 2, User2ID: 1, UpdatedAt: now})
		require.NoError(t, err)
		assert.True(t, created)

		v, ok := cache.value("chat:pair:1:2")
		require.True(t, ok)
		assert.Equal(t, "1", v)

		got, err := repo.FindConversationByPair(ctx, chat.NewPairKey(1, 2))
		require.NoError(t, err)
		assert.Equal(t, c.ID, got.ID)
		assert.Equal(t, 0, inner.pairLookups)
	})

	t.Run("Should fall back to the store on a miss and remember the result", func(t *testing.T) {
		inner := &countingRepo{MemoryChatRepository: NewMemoryChatRepository()}
		_, _, err := inner.CreateConversation(ctx, chat.Conversation{User1ID: 3, User2ID: 4, UpdatedAt: now})
		require.NoError(t, err)

		cache := newFakeCache()
		repo := NewCachedChatRepository(inner, cache, time.Minute, nil)

		_, err = repo.FindConversationByPair(ctx, chat.NewPairKey(4, 3))
		require.NoError(t, err)
		assert.Equal(t, 1, inner.pairLookups)

		_, ok := cache.value("chat:pair:3:4")
		assert.True(t, ok)
	})

	t.Run("Should drop stale entries after delete", func(t *testing.T) {
		inner := NewMemoryChatRepository()
		cache := newFakeCache()
		repo := NewCachedChatRepository(inner, cache, time.Minute, nil)

		c, _, err := repo.CreateConversation(ctx, chat.Conversation{User1ID: 5, User2ID: 6, UpdatedAt: now})
		require.NoError(t, err)
		require.NoError(t, repo.DeleteConversation(ctx, c))

		_, ok := cache.value("chat:pair:5:6")
		assert.False(t, ok)

		_, err = repo.FindConversationByPair(ctx, chat.NewPairKey(5, 6))
		assert.ErrorIs(t, err, chat.ErrConversationNotFound)
	})

	t.Run("Should ignore a cached id that no longer matches", func(t *testing.T) {
		inner := NewMemoryChatRepository()
		cache := newFakeCache()
		cache.data["chat:pair:7:8"] = "999"
		repo := NewCachedChatRepository(inner, cache, time.Minute, nil)

		_, err := repo.FindConversationByPair(ctx, chat.NewPairKey(7, 8))
		assert.ErrorIs(t, err, chat.ErrConversationNotFound)

		_, ok := cache.value("chat:pair:7:8")
		assert.False(t, ok)
	})

	t.Run("Should keep working when the cache is down", func(t *testing.T) {
		inner := NewMemoryChatRepository()
		_, _, err := inner.CreateConversation(ctx, chat.Conversation{User1ID: 9, User2ID: 10, UpdatedAt: now})
		require.NoError(t, err)

		cache := newFakeCache()
		cache.getErr = errors.New("connection refused")
		repo := NewCachedChatRepository(inner, cache, time.Minute, nil)

		got, err := repo.FindConversationByPair(ctx, chat.NewPairKey(9, 10))
		require.NoError(t, err)
		assert.Equal(t, int64(9), got.User1ID)
	})
}
