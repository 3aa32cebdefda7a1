package source

import (
	"context"
	"errors"
	"time"

	"leadbox/internal/model"
)

// ErrUnavailable reports that the mail server could not be reached or
// refused the session. The orchestrator isolates it per account.
var ErrUnavailable = errors.New("mail source unavailable")

// RawMessage is one inbound message as produced by a mailbox source,
// before persistence.
type RawMessage struct {
	MessageID   string
	FromAddress string
	ToAddress   string
	Subject     string
	BodyText    string
	BodyHTML    string
	Folder      string
	ReceivedAt  time.Time
}

// Source produces the finite sequence of messages newly available for
// one account since the checkpoint. An empty slice is the success case
// for "no new messages"; a nil checkpoint means "fetch everything".
type Source interface {
	Fetch(ctx context.Context, account *model.Account, checkpoint *time.Time) ([]RawMessage, error)
}
