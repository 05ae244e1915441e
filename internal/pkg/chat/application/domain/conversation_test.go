package chat

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConversation(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Should build a conversation between two users", func(t *testing.T) {
		c, err := NewConversation(1, 2, now)
		require.NoError(t, err)
		assert.Equal(t, int64(1), c.User1ID)
		assert.Equal(t, int64(2), c.User2ID)
		assert.Equal(t, now, c.UpdatedAt)
	})

	t.Run("Should reject self conversations and bad ids", func(t *testing.T) {
		_, err := NewConversation(3, 3, now)
		assert.ErrorIs(t, err, ErrSelfConversation)

		_, err = NewConversation(0, 3, now)
		assert.ErrorIs(t, err, ErrInvalidParticipant)
	})
}

func TestConversation_Other(t *testing.T) {
	c := Conversation{ID: 1, User1ID: 10, User2ID: 20}

	other, ok := c.Other(10)
	assert.True(t, ok)
	assert.Equal(t, int64(20), other)

	other, ok = c.Other(20)
	assert.True(t, ok)
	assert.Equal(t, int64(10), other)

	_, ok = c.Other(30)
	assert.False(t, ok)
	assert.False(t, c.HasParticipant(30))
	assert.False(t, c.HasParticipant(0))
}

func TestPairKey_IsSymmetric(t *testing.T) {
	assert.Equal(t, NewPairKey(1, 2), NewPairKey(2, 1))
	assert.Equal(t, PairKey{Low: 1, High: 2}, Conversation{User1ID: 2, User2ID: 1}.Pair())
}

func TestNewMessage(t *testing.T) {
	now := time.Now()

	t.Run("Should trim content and start unread", func(t *testing.T) {
		m, err := NewMessage(1, 2, "  hello  ", now)
		require.NoError(t, err)
		assert.Equal(t, "hello", m.Content)
		assert.False(t, m.Read)
		assert.Equal(t, now.UTC(), m.CreatedAt)
	})

	t.Run("Should reject blank and oversized content", func(t *testing.T) {
		_, err := NewMessage(1, 2, " \n\t", now)
		assert.ErrorIs(t, err, ErrEmptyMessage)

		_, err = NewMessage(1, 2, strings.Repeat("x", MaxMessageLength+1), now)
		assert.ErrorIs(t, err, ErrMessageTooLong)
	})
}
