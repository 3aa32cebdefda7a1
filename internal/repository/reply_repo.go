package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"leadbox/internal/model"
)

type ReplyRepository struct {
	db *pgxpool.Pool
}

func NewReplyRepository(db *pgxpool.Pool) *ReplyRepository {
	return &ReplyRepository{db: db}
}

// Insert appends a new suggested reply. Rows are never updated or
// deleted, so repeated generation for one email accumulates suggestions.
func (r *ReplyRepository) Insert(ctx context.Context, reply *model.SuggestedReply) error {
	query := `
        INSERT INTO suggested_replies (id, email_id, suggested_text, confidence_score, created_at)
        VALUES ($1, $2, $3, $4, NOW())
        RETURNING created_at
    `
	return r.db.QueryRow(ctx, query,
		reply.ID,
		reply.EmailID,
		reply.Text,
		reply.Confidence,
	).Scan(&reply.CreatedAt)
}
