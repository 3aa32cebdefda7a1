package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"leadbox/internal/model"
)

// errNotFound stands in for the driver's no-rows error in tests.
var errNotFound = errors.New("not found")

type fakeAccountStore struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*model.Account
	syncedAt map[uuid.UUID]time.Time
	listErr  error
}

func newFakeAccountStore(accounts ...*model.Account) *fakeAccountStore {
	s := &fakeAccountStore{
		accounts: map[uuid.UUID]*model.Account{},
		syncedAt: map[uuid.UUID]time.Time{},
	}
	for _, a := range accounts {
		s.accounts[a.ID] = a
	}
	return s
}

func (s *fakeAccountStore) ListActive(ctx context.Context) ([]model.Account, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Account
	for _, a := range s.accounts {
		if a.IsActive {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *fakeAccountStore) FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, errNotFound
	}
	copied := *a
	return &copied, nil
}

func (s *fakeAccountStore) UpdateLastSyncAt(ctx context.Context, id uuid.UUID, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncedAt[id] = t
	if a, ok := s.accounts[id]; ok {
		a.LastSyncAt = &t
	}
	return nil
}

type fakeEmailStore struct {
	mu        sync.Mutex
	emails    map[uuid.UUID]*model.Email
	insertErr error
}

func newFakeEmailStore(emails ...*model.Email) *fakeEmailStore {
	s := &fakeEmailStore{emails: map[uuid.UUID]*model.Email{}}
	for _, e := range emails {
		s.emails[e.ID] = e
	}
	return s
}

func (s *fakeEmailStore) ExistsByMessageID(ctx context.Context, accountID uuid.UUID, messageID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.emails {
		if e.AccountID == accountID && e.MessageID == messageID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeEmailStore) Insert(ctx context.Context, e *model.Email) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *e
	s.emails[e.ID] = &copied
	return nil
}

func (s *fakeEmailStore) FindByID(ctx context.Context, id uuid.UUID) (*model.Email, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.emails[id]
	if !ok {
		return nil, errNotFound
	}
	copied := *e
	return &copied, nil
}

func (s *fakeEmailStore) UpdateCategory(ctx context.Context, id uuid.UUID, category model.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.emails[id]
	if !ok {
		return errNotFound
	}
	e.Category = &category
	return nil
}

func (s *fakeEmailStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.emails)
}

type fakeReplyStore struct {
	mu        sync.Mutex
	replies   []*model.SuggestedReply
	insertErr error
}

func (s *fakeReplyStore) Insert(ctx context.Context, reply *model.SuggestedReply) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *reply
	s.replies = append(s.replies, &copied)
	return nil
}

type fakeContextStore struct {
	facts   []model.ContextFact
	listErr error
}

func (s *fakeContextStore) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]model.ContextFact, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []model.ContextFact
	for _, f := range s.facts {
		if f.OwnerID == ownerID {
			out = append(out, f)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// fakeCompleter returns canned responses and records the prompts it saw.
type fakeCompleter struct {
	response string
	err      error
	systems  []string
	prompts  []string
}

func (c *fakeCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	c.systems = append(c.systems, system)
	c.prompts = append(c.prompts, user)
	if c.err != nil {
		return "", c.err
	}
	return c.response, nil
}

type notifyCall struct {
	emailID  uuid.UUID
	category model.Category
}

type fakeNotifier struct {
	calls []notifyCall
}

func (n *fakeNotifier) Notify(ctx context.Context, email *model.Email, category model.Category) {
	n.calls = append(n.calls, notifyCall{emailID: email.ID, category: category})
}

type publishedEvent struct {
	routingKey string
	payload    any
}

type fakePublisher struct {
	events []publishedEvent
	err    error
}

func (p *fakePublisher) Publish(routingKey string, payload any) error {
	p.events = append(p.events, publishedEvent{routingKey: routingKey, payload: payload})
	return p.err
}

// fakeLocker grants every acquire unless denied, and records releases.
type fakeLocker struct {
	denied   map[string]bool
	acquired []string
	released []string
}

func (l *fakeLocker) Acquire(ctx context.Context, accountID string) bool {
	if l.denied[accountID] {
		return false
	}
	l.acquired = append(l.acquired, accountID)
	return true
}

func (l *fakeLocker) Release(ctx context.Context, accountID string) {
	l.released = append(l.released, accountID)
}
