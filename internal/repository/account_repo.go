package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"leadbox/internal/model"
)

type AccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

// ListActive returns all accounts with is_active = true.
func (r *AccountRepository) ListActive(ctx context.Context) ([]model.Account, error) {
	query := `
        SELECT id, user_id, email, imap_host, imap_port, imap_username, imap_password,
               is_active, last_sync_at, created_at
        FROM email_accounts
        WHERE is_active = true
        ORDER BY created_at ASC
    `

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := []model.Account{}
	for rows.Next() {
		var a model.Account
		err := rows.Scan(
			&a.ID,
			&a.OwnerID,
			&a.Email,
			&a.IMAPHost,
			&a.IMAPPort,
			&a.Username,
			&a.Password,
			&a.IsActive,
			&a.LastSyncAt,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}

	return accounts, rows.Err()
}

// FindByID returns one account by id.
func (r *AccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	query := `
        SELECT id, user_id, email, imap_host, imap_port, imap_username, imap_password,
               is_active, last_sync_at, created_at
        FROM email_accounts
        WHERE id = $1
    `

	var a model.Account
	err := r.db.QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.OwnerID,
		&a.Email,
		&a.IMAPHost,
		&a.IMAPPort,
		&a.Username,
		&a.Password,
		&a.IsActive,
		&a.LastSyncAt,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateLastSyncAt advances the account checkpoint after a sync cycle.
func (r *AccountRepository) UpdateLastSyncAt(ctx context.Context, id uuid.UUID, t time.Time) error {
	query := `
        UPDATE email_accounts
        SET last_sync_at = $1
        WHERE id = $2
    `
	_, err := r.db.Exec(ctx, query, t, id)
	return err
}
