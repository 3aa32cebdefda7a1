package source

import (
	"context"
	"time"

	"leadbox/internal/model"
)

// FixtureSource serves canned messages, for local runs and tests. It
// returns every configured message regardless of checkpoint; the dedup
// store is what keeps re-syncs idempotent.
type FixtureSource struct {
	Messages []RawMessage
	Err      error
}

func NewFixtureSource(messages ...RawMessage) *FixtureSource {
	return &FixtureSource{Messages: messages}
}

func (s *FixtureSource) Fetch(ctx context.Context, account *model.Account, checkpoint *time.Time) ([]RawMessage, error) {
	if s.Err != nil {
		return nil, s.Err
	}

	out := make([]RawMessage, len(s.Messages))
	for i, m := range s.Messages {
		if m.ToAddress == "" {
			m.ToAddress = account.Email
		}
		out[i] = m
	}
	return out, nil
}
