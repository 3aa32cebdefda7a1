package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"leadbox/internal/model"
)

type EmailRepository struct {
	db *pgxpool.Pool
}

func NewEmailRepository(db *pgxpool.Pool) *EmailRepository {
	return &EmailRepository{db: db}
}

// ExistsByMessageID reports whether an email with the given external
// message identifier is already stored for the account.
func (r *EmailRepository) ExistsByMessageID(ctx context.Context, accountID uuid.UUID, messageID string) (bool, error) {
	query := `
        SELECT EXISTS (
            SELECT 1 FROM emails
            WHERE account_id = $1 AND message_id = $2
        )
    `
	var exists bool
	err := r.db.QueryRow(ctx, query, accountID, messageID).Scan(&exists)
	return exists, err
}

// Insert stores a new email. The emails table carries a unique index on
// (account_id, message_id), so a concurrent duplicate insert fails at
// the database even if the existence check raced.
func (r *EmailRepository) Insert(ctx context.Context, e *model.Email) error {
	query := `
        INSERT INTO emails (id, account_id, message_id, from_address, to_address,
                            subject, body_text, body_html, folder, received_at, is_read, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, false, NOW())
        RETURNING created_at
    `
	return r.db.QueryRow(ctx, query,
		e.ID,
		e.AccountID,
		e.MessageID,
		e.FromAddress,
		e.ToAddress,
		e.Subject,
		e.BodyText,
		e.BodyHTML,
		e.Folder,
		e.ReceivedAt,
	).Scan(&e.CreatedAt)
}

// FindByID returns one email by id.
func (r *EmailRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Email, error) {
	query := `
        SELECT id, account_id, message_id, from_address, to_address,
               subject, body_text, body_html, folder, received_at, is_read, ai_category, created_at
        FROM emails
        WHERE id = $1
    `
	var e model.Email
	err := r.db.QueryRow(ctx, query, id).Scan(
		&e.ID,
		&e.AccountID,
		&e.MessageID,
		&e.FromAddress,
		&e.ToAddress,
		&e.Subject,
		&e.BodyText,
		&e.BodyHTML,
		&e.Folder,
		&e.ReceivedAt,
		&e.IsRead,
		&e.Category,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// UpdateCategory writes the classification result onto the email.
func (r *EmailRepository) UpdateCategory(ctx context.Context, id uuid.UUID, category model.Category) error {
	query := `
        UPDATE emails
        SET ai_category = $1
        WHERE id = $2
    `
	_, err := r.db.Exec(ctx, query, category, id)
	return err
}

// ListByOwner returns the emails of all accounts owned by ownerID,
// newest first.
func (r *EmailRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Email, error) {
	query := `
        SELECT e.id, e.account_id, e.message_id, e.from_address, e.to_address,
               e.subject, e.body_text, e.body_html, e.folder, e.received_at, e.is_read,
               e.ai_category, e.created_at
        FROM emails e
        JOIN email_accounts a ON e.account_id = a.id
        WHERE a.user_id = $1
        ORDER BY e.received_at DESC
    `

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	emails := []model.Email{}
	for rows.Next() {
		var e model.Email
		err := rows.Scan(
			&e.ID,
			&e.AccountID,
			&e.MessageID,
			&e.FromAddress,
			&e.ToAddress,
			&e.Subject,
			&e.BodyText,
			&e.BodyHTML,
			&e.Folder,
			&e.ReceivedAt,
			&e.IsRead,
			&e.Category,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		emails = append(emails, e)
	}

	return emails, rows.Err()
}
