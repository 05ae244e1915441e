package adapter

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	cacheport "go-courier/internal/infrastructure/cache/port"
	chat "go-courier/internal/pkg/chat/application/domain"
	repository "go-courier/internal/pkg/chat/persistence/repository/port"
)

// CachedChatRepository memoises unordered-pair -> conversation id lookups in
// the cache. Cache failures degrade to the wrapped repository.
type CachedChatRepository struct {
	repository.ChatRepository

	cache  cacheport.Cache
	ttl    time.Duration
	logger *zap.Logger
}

var _ repository.ChatRepository = (*CachedChatRepository)(nil)

func NewCachedChatRepository(inner repository.ChatRepository, cache cacheport.Cache, ttl time.Duration, logger *zap.Logger) *CachedChatRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedChatRepository{
		ChatRepository: inner,
		cache:          cache,
		ttl:            ttl,
		logger:         logger.Named("chat-cache"),
	}
}

func pairCacheKey(p chat.PairKey) string {
	return fmt.Sprintf("chat:pair:%d:%d", p.Low, p.High)
}

func (r *CachedChatRepository) FindConversationByPair(ctx context.Context, pair chat.PairKey) (*chat.Conversation, error) {
	key := pairCacheKey(pair)
	raw, err := r.cache.Get(ctx, key)
	switch {
	case err == nil:
		if id, perr := strconv.ParseInt(raw, 10, 64); perr == nil {
			c, gerr := r.ChatRepository.GetConversation(ctx, id)
			if gerr == nil && c.Pair() == pair {
				return c, nil
			}
			if gerr != nil && !errors.Is(gerr, chat.ErrConversationNotFound) {
				return nil, gerr
			}
		}
		r.forget(ctx, key)
	case !errors.Is(err, cacheport.ErrMiss):
		r.logger.Warn("Pair cache read failed", zap.String("key", key), zap.Error(err))
	}

	c, err := r.ChatRepository.FindConversationByPair(ctx, pair)
	if err != nil {
		return nil, err
	}
	r.remember(ctx, *c)
	return c, nil
}

func (r *CachedChatRepository) CreateConversation(ctx context.Context, c chat.Conversation) (chat.Conversation, bool, error) {
	out, created, err := r.ChatRepository.CreateConversation(ctx, c)
	if err != nil {
		return out, created, err
	}
	r.remember(ctx, out)
	return out, created, nil
}

func (r *CachedChatRepository) DeleteConversation(ctx context.Context, c chat.Conversation) error {
	if err := r.ChatRepository.DeleteConversation(ctx, c); err != nil {
		return err
	}
	r.forget(ctx, pairCacheKey(c.Pair()))
	return nil
}

func (r *CachedChatRepository) remember(ctx context.Context, c chat.Conversation) {
	key := pairCacheKey(c.Pair())
	if err := r.cache.Set(ctx, key, strconv.FormatInt(c.ID, 10), r.ttl); err != nil {
		r.logger.Warn("Pair cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (r *CachedChatRepository) forget(ctx context.Context, key string) {
	if _, err := r.cache.Del(ctx, key); err != nil {
		r.logger.Warn("Pair cache delete failed", zap.String("key", key), zap.Error(err))
	}
}
