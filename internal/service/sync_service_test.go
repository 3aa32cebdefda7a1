package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	mqcontracts "leadbox/contracts/mq"
	"leadbox/internal/model"
	"leadbox/internal/source"
)

// fakeClassifier records the email IDs it was asked to classify.
type fakeClassifier struct {
	classified []uuid.UUID
	err        error
}

func (c *fakeClassifier) ClassifyEmail(ctx context.Context, emailID uuid.UUID) (model.Category, error) {
	c.classified = append(c.classified, emailID)
	if c.err != nil {
		return "", c.err
	}
	return model.CategoryInterested, nil
}

func newSyncFixtures() (*model.Account, []source.RawMessage) {
	account := &model.Account{
		ID:       uuid.New(),
		OwnerID:  uuid.New(),
		Email:    "owner@example.com",
		IsActive: true,
	}
	messages := []source.RawMessage{
		{
			MessageID:   "<a@example.com>",
			FromAddress: "alice@example.com",
			Subject:     "Interested in a demo",
			BodyText:    "Can we talk?",
			ReceivedAt:  time.Now().Add(-time.Hour),
		},
		{
			MessageID:   "<b@example.com>",
			FromAddress: "bob@example.com",
			Subject:     "Re: pricing",
			BodyText:    "Following up.",
			ReceivedAt:  time.Now().Add(-time.Minute),
		},
	}
	return account, messages
}

func TestSyncAll_IngestsAndClassifies(t *testing.T) {
	account, messages := newSyncFixtures()

	accounts := newFakeAccountStore(account)
	emails := newFakeEmailStore()
	classifier := &fakeClassifier{}
	lock := &fakeLocker{}
	publisher := &fakePublisher{}

	svc := NewSyncService(accounts, emails, source.NewFixtureSource(messages...), classifier, lock, publisher, zap.NewNop())

	count, err := svc.SyncAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.Equal(t, 2, emails.count())
	assert.Len(t, classifier.classified, 2)

	// lock was taken and released for the account
	assert.Equal(t, []string{account.ID.String()}, lock.acquired)
	assert.Equal(t, []string{account.ID.String()}, lock.released)

	// checkpoint advanced
	_, ok := accounts.syncedAt[account.ID]
	assert.True(t, ok)

	// one received event per new email
	var received int
	for _, ev := range publisher.events {
		if ev.routingKey == mqcontracts.RoutingKeyEmailReceived {
			received++
		}
	}
	assert.Equal(t, 2, received)
}

func TestSyncAll_SecondRunSkipsDuplicates(t *testing.T) {
	account, messages := newSyncFixtures()

	accounts := newFakeAccountStore(account)
	emails := newFakeEmailStore()
	classifier := &fakeClassifier{}
	svc := NewSyncService(accounts, emails, source.NewFixtureSource(messages...), classifier, &fakeLocker{}, &fakePublisher{}, zap.NewNop())

	_, err := svc.SyncAll(context.Background())
	require.NoError(t, err)
	_, err = svc.SyncAll(context.Background())
	require.NoError(t, err)

	// same messages arrive again; nothing new is stored or classified
	assert.Equal(t, 2, emails.count())
	assert.Len(t, classifier.classified, 2)
}

func TestSyncAll_CheckpointAdvancesWithNoNewMail(t *testing.T) {
	account := &model.Account{ID: uuid.New(), OwnerID: uuid.New(), IsActive: true}
	accounts := newFakeAccountStore(account)

	svc := NewSyncService(accounts, newFakeEmailStore(), source.NewFixtureSource(), &fakeClassifier{}, &fakeLocker{}, &fakePublisher{}, zap.NewNop())

	before := time.Now()
	_, err := svc.SyncAll(context.Background())
	require.NoError(t, err)

	checkpoint, ok := accounts.syncedAt[account.ID]
	require.True(t, ok)
	assert.False(t, checkpoint.Before(before))
}

func TestSyncAll_LockedAccountIsSkipped(t *testing.T) {
	account, messages := newSyncFixtures()

	accounts := newFakeAccountStore(account)
	emails := newFakeEmailStore()
	lock := &fakeLocker{denied: map[string]bool{account.ID.String(): true}}

	svc := NewSyncService(accounts, emails, source.NewFixtureSource(messages...), &fakeClassifier{}, lock, &fakePublisher{}, zap.NewNop())

	count, err := svc.SyncAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// a held lock means another cycle is running; nothing is ingested here
	assert.Equal(t, 0, emails.count())
	_, ok := accounts.syncedAt[account.ID]
	assert.False(t, ok)
}

func TestSyncAll_SourceFailureIsolatedPerAccount(t *testing.T) {
	accountA := &model.Account{ID: uuid.New(), OwnerID: uuid.New(), Email: "a@example.com", IsActive: true}
	accountB := &model.Account{ID: uuid.New(), OwnerID: uuid.New(), Email: "b@example.com", IsActive: true}

	accounts := newFakeAccountStore(accountA, accountB)
	emails := newFakeEmailStore()

	// the source fails for one account and serves the other
	src := &selectiveSource{
		failFor: accountA.ID,
		messages: []source.RawMessage{
			{MessageID: "<ok@example.com>", FromAddress: "c@example.com", Subject: "hi", ReceivedAt: time.Now()},
		},
	}

	svc := NewSyncService(accounts, emails, src, &fakeClassifier{}, &fakeLocker{}, &fakePublisher{}, zap.NewNop())

	count, err := svc.SyncAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 1, emails.count())

	// only the healthy account's checkpoint moved
	_, okA := accounts.syncedAt[accountA.ID]
	_, okB := accounts.syncedAt[accountB.ID]
	assert.False(t, okA)
	assert.True(t, okB)
}

func TestSyncAll_ClassificationFailureLeavesEmailStored(t *testing.T) {
	account, messages := newSyncFixtures()

	emails := newFakeEmailStore()
	classifier := &fakeClassifier{err: ErrCapabilityUnavailable}
	svc := NewSyncService(newFakeAccountStore(account), emails, source.NewFixtureSource(messages...), classifier, &fakeLocker{}, &fakePublisher{}, zap.NewNop())

	_, err := svc.SyncAll(context.Background())
	require.NoError(t, err)

	// emails persist unclassified; the cycle is not aborted
	assert.Equal(t, 2, emails.count())
	assert.Len(t, classifier.classified, 2)
}

type selectiveSource struct {
	failFor  uuid.UUID
	messages []source.RawMessage
}

func (s *selectiveSource) Fetch(ctx context.Context, account *model.Account, checkpoint *time.Time) ([]source.RawMessage, error) {
	if account.ID == s.failFor {
		return nil, source.ErrUnavailable
	}
	return s.messages, nil
}
