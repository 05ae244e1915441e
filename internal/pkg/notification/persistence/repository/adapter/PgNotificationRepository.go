package adapter

import (
	"context"
	"errors"

	notification "go-courier/internal/pkg/notification/application/domain"
	repository "go-courier/internal/pkg/notification/persistence/repository/port"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PgNotificationRepository struct {
	pool *pgxpool.Pool
}

var _ repository.NotificationRepository = (*PgNotificationRepository)(nil)

func NewPgNotificationRepository(pool *pgxpool.Pool) *PgNotificationRepository {
	return &PgNotificationRepository{pool: pool}
}

var errNilPool = errors.New("PgNotificationRepository: nil pool")

func (r *PgNotificationRepository) Save(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	if r == nil || r.pool == nil {
		return notification.Notification{}, errNilPool
	}
	// data is JSONB; pgx encodes the map as JSON
	err := r.pool.QueryRow(ctx, `
		INSERT INTO notifications (user_id, type, message, data, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, n.UserID, n.Type, n.Message, n.Data, n.Read, n.CreatedAt).Scan(&n.ID)
	if err != nil {
		return notification.Notification{}, err
	}
	return n, nil
}

func (r *PgNotificationRepository) ListByUser(ctx context.Context, userID int64) ([]notification.Notification, error) {
	if r == nil || r.pool == nil {
		return nil, errNilPool
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, type, message, data, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]notification.Notification, 0)
	for rows.Next() {
		var n notification.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &n.Data, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func (r *PgNotificationRepository) MarkRead(ctx context.Context, id, userID int64) error {
	if r == nil || r.pool == nil {
		return errNilPool
	}
	ct, err := r.pool.Exec(ctx,
		"UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return notification.ErrNotificationNotFound
	}
	return nil
}

func (r *PgNotificationRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errNilPool
	}
	ct, err := r.pool.Exec(ctx,
		"UPDATE notifications SET read = TRUE WHERE user_id = $1 AND NOT read", userID)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func (r *PgNotificationRepository) DeleteAll(ctx context.Context, userID int64) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errNilPool
	}
	ct, err := r.pool.Exec(ctx, "DELETE FROM notifications WHERE user_id = $1", userID)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}
