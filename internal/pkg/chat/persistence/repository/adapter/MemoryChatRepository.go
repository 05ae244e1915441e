package adapter

import (
	"context"
	"sort"
	"sync"

	chat "go-courier/internal/pkg/chat/application/domain"
	repository "go-courier/internal/pkg/chat/persistence/repository/port"
)

// MemoryChatRepository keeps conversations and messages in process memory.
// Used by tests and by the memory storage driver.
type MemoryChatRepository struct {
	mu            sync.RWMutex
	nextConvID    int64
	nextMsgID     int64
	conversations map[int64]chat.Conversation
	pairs         map[chat.PairKey]int64
	messages      map[int64][]chat.Message // conversationID -> messages in insertion order
}

var _ repository.ChatRepository = (*MemoryChatRepository)(nil)

func NewMemoryChatRepository() *MemoryChatRepository {
	return &MemoryChatRepository{
		conversations: make(map[int64]chat.Conversation),
		pairs:         make(map[chat.PairKey]int64),
		messages:      make(map[int64][]chat.Message),
	}
}

func (r *MemoryChatRepository) CreateConversation(_ context.Context, c chat.Conversation) (chat.Conversation, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.pairs[c.Pair()]; ok {
		return r.conversations[id], false, nil
	}
	r.nextConvID++
	c.ID = r.nextConvID
	r.conversations[c.ID] = c
	r.pairs[c.Pair()] = c.ID
	return c, true, nil
}

func (r *MemoryChatRepository) GetConversation(_ context.Context, id int64) (*chat.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.conversations[id]
	if !ok {
		return nil, chat.ErrConversationNotFound
	}
	return &c, nil
}

func (r *MemoryChatRepository) FindConversationByPair(_ context.Context, pair chat.PairKey) (*chat.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.pairs[pair]
	if !ok {
		return nil, chat.ErrConversationNotFound
	}
	c := r.conversations[id]
	return &c, nil
}

func (r *MemoryChatRepository) ListConversations(_ context.Context, userID int64) ([]chat.ConversationSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]chat.ConversationSummary, 0)
	for _, c := range r.conversations {
		if !c.HasParticipant(userID) {
			continue
		}
		s := chat.ConversationSummary{Conversation: c}
		msgs := r.messages[c.ID]
		for i := range msgs {
			m := msgs[i]
			if m.SenderID != userID && !m.Read {
				s.UnreadCount++
			}
			if s.LastMessage == nil || newer(m, *s.LastMessage) {
				last := m
				s.LastMessage = &last
			}
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func newer(a, b chat.Message) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

func (r *MemoryChatRepository) DeleteConversation(_ context.Context, c chat.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.conversations[c.ID]
	if !ok {
		return chat.ErrConversationNotFound
	}
	delete(r.messages, c.ID)
	delete(r.pairs, stored.Pair())
	delete(r.conversations, c.ID)
	return nil
}

func (r *MemoryChatRepository) SaveMessage(_ context.Context, m chat.Message) (chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.conversations[m.ConversationID]
	if !ok {
		return chat.Message{}, chat.ErrConversationNotFound
	}
	r.nextMsgID++
	m.ID = r.nextMsgID
	r.messages[m.ConversationID] = append(r.messages[m.ConversationID], m)
	if m.CreatedAt.After(c.UpdatedAt) {
		c.UpdatedAt = m.CreatedAt
		r.conversations[c.ID] = c
	}
	return m, nil
}

func (r *MemoryChatRepository) GetMessagesByConversation(_ context.Context, conversationID int64, limit int, offset int) ([]chat.Message, error) {
	r.mu.RLock()
	msgs := append([]chat.Message(nil), r.messages[conversationID]...)
	r.mu.RUnlock()

	sort.SliceStable(msgs, func(i, j int) bool { return newer(msgs[j], msgs[i]) })

	if offset < 0 {
		offset = 0
	}
	if offset >= len(msgs) {
		return []chat.Message{}, nil
	}
	msgs = msgs[offset:]
	if limit > 0 && limit < len(msgs) {
		msgs = msgs[:limit]
	}
	return msgs, nil
}

func (r *MemoryChatRepository) MarkConversationRead(_ context.Context, conversationID int64, readerID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var changed int64
	msgs := r.messages[conversationID]
	for i := range msgs {
		if msgs[i].SenderID != readerID && !msgs[i].Read {
			msgs[i].Read = true
			changed++
		}
	}
	return changed, nil
}
