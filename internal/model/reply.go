package model

import (
	"time"

	"github.com/google/uuid"
)

// SuggestedReply is an append-only generated reply suggestion for one
// email. Repeated generation appends further rows; none are ever mutated.
type SuggestedReply struct {
	ID         uuid.UUID
	EmailID    uuid.UUID
	Text       string
	Confidence float64 // in [0,1]
	CreatedAt  time.Time
}
