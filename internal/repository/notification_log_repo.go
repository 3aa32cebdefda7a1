package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"leadbox/internal/model"
)

type NotificationLogRepository struct {
	db *pgxpool.Pool
}

func NewNotificationLogRepository(db *pgxpool.Pool) *NotificationLogRepository {
	return &NotificationLogRepository{db: db}
}

// Insert appends one audit row for a classified email event.
func (r *NotificationLogRepository) Insert(ctx context.Context, log *model.NotificationLog) error {
	query := `
        INSERT INTO notification_log (user_id, email_id, message, created_at)
        VALUES ($1, $2, $3, NOW())
        RETURNING id, created_at
    `
	return r.db.QueryRow(ctx, query,
		log.OwnerID,
		log.EmailID,
		log.Message,
	).Scan(&log.ID, &log.CreatedAt)
}
