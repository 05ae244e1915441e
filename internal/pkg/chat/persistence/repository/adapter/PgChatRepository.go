package adapter

import (
	"context"
	"errors"
	"time"

	chat "go-courier/internal/pkg/chat/application/domain"
	repository "go-courier/internal/pkg/chat/persistence/repository/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgChatRepository struct {
	pool *pgxpool.Pool
}

var _ repository.ChatRepository = (*PgChatRepository)(nil)

func NewPgChatRepository(pool *pgxpool.Pool) *PgChatRepository {
	return &PgChatRepository{pool: pool}
}

var errNilPool = errors.New("PgChatRepository: nil pool")

const conversationColumns = "id, user1_id, user2_id, updated_at"

func (r *PgChatRepository) CreateConversation(ctx context.Context, c chat.Conversation) (chat.Conversation, bool, error) {
	if r == nil || r.pool == nil {
		return chat.Conversation{}, false, errNilPool
	}
	var out chat.Conversation
	err := r.pool.QueryRow(ctx, `
		INSERT INTO conversations (user1_id, user2_id, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT ((LEAST(user1_id, user2_id)), (GREATEST(user1_id, user2_id))) DO NOTHING
		RETURNING `+conversationColumns,
		c.User1ID, c.User2ID, c.UpdatedAt,
	).Scan(&out.ID, &out.User1ID, &out.User2ID, &out.UpdatedAt)
	if err == nil {
		return out, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return chat.Conversation{}, false, err
	}

	// lost the race (or the pair already existed): return the stored row
	existing, err := r.FindConversationByPair(ctx, c.Pair())
	if err != nil {
		return chat.Conversation{}, false, err
	}
	return *existing, false, nil
}

func (r *PgChatRepository) GetConversation(ctx context.Context, id int64) (*chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errNilPool
	}
	return r.scanConversation(r.pool.QueryRow(ctx,
		"SELECT "+conversationColumns+" FROM conversations WHERE id = $1", id))
}

func (r *PgChatRepository) FindConversationByPair(ctx context.Context, pair chat.PairKey) (*chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errNilPool
	}
	return r.scanConversation(r.pool.QueryRow(ctx, `
		SELECT `+conversationColumns+`
		FROM conversations
		WHERE LEAST(user1_id, user2_id) = $1 AND GREATEST(user1_id, user2_id) = $2
	`, pair.Low, pair.High))
}

func (r *PgChatRepository) scanConversation(row pgx.Row) (*chat.Conversation, error) {
	var c chat.Conversation
	if err := row.Scan(&c.ID, &c.User1ID, &c.User2ID, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, chat.ErrConversationNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *PgChatRepository) ListConversations(ctx context.Context, userID int64) ([]chat.ConversationSummary, error) {
	if r == nil || r.pool == nil {
		return nil, errNilPool
	}
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.user1_id, c.user2_id, c.updated_at,
		       lm.id, lm.sender_id, lm.content, lm.read, lm.created_at,
		       (SELECT count(*) FROM messages u
		         WHERE u.conversation_id = c.id AND u.sender_id <> $1 AND NOT u.read) AS unread
		FROM conversations c
		LEFT JOIN LATERAL (
			SELECT m.id, m.sender_id, m.content, m.read, m.created_at
			FROM messages m
			WHERE m.conversation_id = c.id
			ORDER BY m.created_at DESC, m.id DESC
			LIMIT 1
		) lm ON TRUE
		WHERE c.user1_id = $1 OR c.user2_id = $1
		ORDER BY c.updated_at DESC, c.id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]chat.ConversationSummary, 0)
	for rows.Next() {
		var (
			s         chat.ConversationSummary
			msgID     *int64
			senderID  *int64
			content   *string
			read      *bool
			createdAt *time.Time
		)
		if err := rows.Scan(&s.ID, &s.User1ID, &s.User2ID, &s.UpdatedAt,
			&msgID, &senderID, &content, &read, &createdAt, &s.UnreadCount); err != nil {
			return nil, err
		}
		if msgID != nil {
			s.LastMessage = &chat.Message{
				ID:             *msgID,
				ConversationID: s.ID,
				SenderID:       *senderID,
				Content:        *content,
				Read:           *read,
				CreatedAt:      *createdAt,
			}
		}
		out = append(out, s)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func (r *PgChatRepository) DeleteConversation(ctx context.Context, c chat.Conversation) error {
	if r == nil || r.pool == nil {
		return errNilPool
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DELETE FROM messages WHERE conversation_id = $1", c.ID); err != nil {
			return err
		}
		ct, err := tx.Exec(ctx, "DELETE FROM conversations WHERE id = $1", c.ID)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return chat.ErrConversationNotFound
		}
		return nil
	})
}

func (r *PgChatRepository) SaveMessage(ctx context.Context, m chat.Message) (chat.Message, error) {
	if r == nil || r.pool == nil {
		return chat.Message{}, errNilPool
	}
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, `
			UPDATE conversations SET updated_at = GREATEST(updated_at, $2) WHERE id = $1
		`, m.ConversationID, m.CreatedAt)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return chat.ErrConversationNotFound
		}
		return tx.QueryRow(ctx, `
			INSERT INTO messages (conversation_id, sender_id, content, read, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, m.ConversationID, m.SenderID, m.Content, m.Read, m.CreatedAt).Scan(&m.ID)
	})
	if err != nil {
		return chat.Message{}, err
	}
	return m, nil
}

func (r *PgChatRepository) GetMessagesByConversation(ctx context.Context, conversationID int64, limit int, offset int) ([]chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errNilPool
	}
	if offset < 0 {
		offset = 0
	}
	var lim *int
	if limit > 0 {
		lim = &limit
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, conversation_id, sender_id, content, read, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2 OFFSET $3
	`, conversationID, lim, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := make([]chat.Message, 0)
	for rows.Next() {
		var msg chat.Message
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.SenderID, &msg.Content, &msg.Read, &msg.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return msgs, nil
}

func (r *PgChatRepository) MarkConversationRead(ctx context.Context, conversationID int64, readerID int64) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errNilPool
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE messages
		SET read = TRUE
		WHERE conversation_id = $1 AND sender_id <> $2 AND NOT read
	`, conversationID, readerID)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}
