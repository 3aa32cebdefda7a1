package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"leadbox/internal/model"
)

// Store interfaces are satisfied by the pgx repositories and by
// in-memory fakes in tests.

type AccountStore interface {
	ListActive(ctx context.Context) ([]model.Account, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
	UpdateLastSyncAt(ctx context.Context, id uuid.UUID, t time.Time) error
}

type EmailStore interface {
	ExistsByMessageID(ctx context.Context, accountID uuid.UUID, messageID string) (bool, error)
	Insert(ctx context.Context, e *model.Email) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Email, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, category model.Category) error
}

type ReplyStore interface {
	Insert(ctx context.Context, reply *model.SuggestedReply) error
}

type ContextStore interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]model.ContextFact, error)
}

// Completer is the text generation capability behind classification and
// reply generation.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Notifier fans a classified email out to the notification sinks.
type Notifier interface {
	Notify(ctx context.Context, email *model.Email, category model.Category)
}

// EventPublisher emits pipeline events on the side channel. Publish
// failures are logged by callers and never escalate.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

// AccountLocker serializes sync cycles per account.
type AccountLocker interface {
	Acquire(ctx context.Context, accountID string) bool
	Release(ctx context.Context, accountID string)
}

// Classifier is what the orchestrator invokes per newly stored email.
type Classifier interface {
	ClassifyEmail(ctx context.Context, emailID uuid.UUID) (model.Category, error)
}

// ConfidenceScorer assigns the confidence score stored with a suggested
// reply. The default is a fixed placeholder; the interface exists so a
// real signal can be swapped in without touching the pipeline.
type ConfidenceScorer interface {
	Score(email *model.Email, facts []model.ContextFact) float64
}

// FixedScorer always returns the same confidence.
type FixedScorer struct {
	Value float64
}

func (s FixedScorer) Score(*model.Email, []model.ContextFact) float64 {
	return s.Value
}
