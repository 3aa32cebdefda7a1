package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"leadbox/internal/model"
)

type ContextRepository struct {
	db *pgxpool.Pool
}

func NewContextRepository(db *pgxpool.Pool) *ContextRepository {
	return &ContextRepository{db: db}
}

// ListByOwner returns up to limit context facts for an owner in storage
// order.
func (r *ContextRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]model.ContextFact, error) {
	query := `
        SELECT id, user_id, context_type, content
        FROM product_context
        WHERE user_id = $1
        ORDER BY created_at ASC
        LIMIT $2
    `

	rows, err := r.db.Query(ctx, query, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	facts := []model.ContextFact{}
	for rows.Next() {
		var f model.ContextFact
		if err := rows.Scan(&f.ID, &f.OwnerID, &f.Type, &f.Content); err != nil {
			return nil, err
		}
		facts = append(facts, f)
	}

	return facts, rows.Err()
}
