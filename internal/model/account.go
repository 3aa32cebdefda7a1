package model

import (
	"time"

	"github.com/google/uuid"
)

// Account is a configured mailbox the system ingests from. Connection
// parameters are opaque to the pipeline and only consumed by the IMAP
// source. Accounts are created and deleted by the management surface,
// the pipeline only reads them and advances LastSyncAt.
type Account struct {
	ID         uuid.UUID
	OwnerID    uuid.UUID
	Email      string
	IMAPHost   string
	IMAPPort   int
	Username   string
	Password   string
	IsActive   bool
	LastSyncAt *time.Time
	CreatedAt  time.Time
}
