package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	mqcontracts "leadbox/contracts/mq"
	"leadbox/internal/model"
)

func newTestEmail(accountID uuid.UUID) *model.Email {
	return &model.Email{
		ID:          uuid.New(),
		AccountID:   accountID,
		MessageID:   "<msg-1@example.com>",
		FromAddress: "lead@example.com",
		Subject:     "Pricing question",
		BodyText:    "I'd love to learn more about your product.",
	}
}

func TestClassifyEmail_Success(t *testing.T) {
	account := &model.Account{ID: uuid.New(), OwnerID: uuid.New(), IsActive: true}
	email := newTestEmail(account.ID)

	emails := newFakeEmailStore(email)
	accounts := newFakeAccountStore(account)
	completer := &fakeCompleter{response: "interested"}
	notifier := &fakeNotifier{}
	publisher := &fakePublisher{}

	svc := NewClassifyService(emails, accounts, completer, notifier, publisher, zap.NewNop())

	category, err := svc.ClassifyEmail(context.Background(), email.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CategoryInterested, category)

	stored, err := emails.FindByID(context.Background(), email.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Category)
	assert.Equal(t, model.CategoryInterested, *stored.Category)

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, email.ID, notifier.calls[0].emailID)
	assert.Equal(t, model.CategoryInterested, notifier.calls[0].category)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, mqcontracts.RoutingKeyEmailClassified, publisher.events[0].routingKey)
	payload, ok := publisher.events[0].payload.(mqcontracts.EmailClassifiedPayload)
	require.True(t, ok)
	assert.Equal(t, account.OwnerID, payload.OwnerID)
	assert.Equal(t, "interested", payload.Category)
}

func TestClassifyEmail_NormalizesResponse(t *testing.T) {
	account := &model.Account{ID: uuid.New(), IsActive: true}
	email := newTestEmail(account.ID)

	emails := newFakeEmailStore(email)
	completer := &fakeCompleter{response: "  Meeting_Booked \n"}
	svc := NewClassifyService(emails, newFakeAccountStore(account), completer, &fakeNotifier{}, &fakePublisher{}, zap.NewNop())

	category, err := svc.ClassifyEmail(context.Background(), email.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CategoryMeetingBooked, category)
}

func TestClassifyEmail_UnrecognizedCategory(t *testing.T) {
	account := &model.Account{ID: uuid.New(), IsActive: true}
	email := newTestEmail(account.ID)

	emails := newFakeEmailStore(email)
	completer := &fakeCompleter{response: "banana"}
	notifier := &fakeNotifier{}
	publisher := &fakePublisher{}
	svc := NewClassifyService(emails, newFakeAccountStore(account), completer, notifier, publisher, zap.NewNop())

	_, err := svc.ClassifyEmail(context.Background(), email.ID)
	assert.ErrorIs(t, err, ErrUnrecognizedCategory)

	// no write, no side effects
	stored, findErr := emails.FindByID(context.Background(), email.ID)
	require.NoError(t, findErr)
	assert.Nil(t, stored.Category)
	assert.Empty(t, notifier.calls)
	assert.Empty(t, publisher.events)
}

func TestClassifyEmail_CompleterFailure(t *testing.T) {
	account := &model.Account{ID: uuid.New(), IsActive: true}
	email := newTestEmail(account.ID)

	emails := newFakeEmailStore(email)
	completer := &fakeCompleter{err: errors.New("endpoint down")}
	svc := NewClassifyService(emails, newFakeAccountStore(account), completer, &fakeNotifier{}, &fakePublisher{}, zap.NewNop())

	_, err := svc.ClassifyEmail(context.Background(), email.ID)
	assert.ErrorIs(t, err, ErrCapabilityUnavailable)

	stored, findErr := emails.FindByID(context.Background(), email.ID)
	require.NoError(t, findErr)
	assert.Nil(t, stored.Category)
}

func TestClassifyEmail_NotFound(t *testing.T) {
	svc := NewClassifyService(newFakeEmailStore(), newFakeAccountStore(), &fakeCompleter{}, &fakeNotifier{}, &fakePublisher{}, zap.NewNop())

	_, err := svc.ClassifyEmail(context.Background(), uuid.New())
	assert.Error(t, err)
}

func TestClassifyEmail_NonInterestedStillNotifies(t *testing.T) {
	// the dispatcher owns the interested-only policy; the service hands
	// every successful classification over
	account := &model.Account{ID: uuid.New(), IsActive: true}
	email := newTestEmail(account.ID)

	notifier := &fakeNotifier{}
	svc := NewClassifyService(newFakeEmailStore(email), newFakeAccountStore(account), &fakeCompleter{response: "spam"}, notifier, &fakePublisher{}, zap.NewNop())

	category, err := svc.ClassifyEmail(context.Background(), email.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CategorySpam, category)
	require.Len(t, notifier.calls, 1)
	assert.Equal(t, model.CategorySpam, notifier.calls[0].category)
}

func TestClassifyEmail_PublishFailureDoesNotEscalate(t *testing.T) {
	account := &model.Account{ID: uuid.New(), IsActive: true}
	email := newTestEmail(account.ID)

	publisher := &fakePublisher{err: errors.New("broker down")}
	svc := NewClassifyService(newFakeEmailStore(email), newFakeAccountStore(account), &fakeCompleter{response: "interested"}, &fakeNotifier{}, publisher, zap.NewNop())

	category, err := svc.ClassifyEmail(context.Background(), email.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CategoryInterested, category)
}

func TestClassifyPromptContainsSubjectAndBody(t *testing.T) {
	account := &model.Account{ID: uuid.New(), IsActive: true}
	email := newTestEmail(account.ID)
	email.BodyText = ""
	email.BodyHTML = "<p>html only body</p>"

	completer := &fakeCompleter{response: "interested"}
	svc := NewClassifyService(newFakeEmailStore(email), newFakeAccountStore(account), completer, &fakeNotifier{}, &fakePublisher{}, zap.NewNop())

	_, err := svc.ClassifyEmail(context.Background(), email.ID)
	require.NoError(t, err)

	require.Len(t, completer.prompts, 1)
	assert.Contains(t, completer.prompts[0], email.Subject)
	assert.Contains(t, completer.prompts[0], "<p>html only body</p>")
	assert.Equal(t, classifySystemPrompt, completer.systems[0])
}
