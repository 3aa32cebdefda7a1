package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	mqcontracts "leadbox/contracts/mq"
	"leadbox/internal/model"
	"leadbox/pkg/metrics"
)

const classifySystemPrompt = "You are an email classification expert. Respond only with the category name."

const classifyPromptTemplate = `Analyze this email and categorize it into ONE of these categories:
- interested: The sender is interested in your product/service
- meeting_booked: The sender has booked or confirmed a meeting
- not_interested: The sender is not interested
- spam: This is spam or unwanted email
- out_of_office: This is an out-of-office auto-reply

Email Subject: %s
Email Body: %s

Respond with ONLY the category name (lowercase, underscore-separated).`

// ClassifyService assigns a category to a stored email via the text
// classification capability and triggers the notification fan-out when
// the category crosses the notify policy.
type ClassifyService struct {
	emails    EmailStore
	accounts  AccountStore
	completer Completer
	notifier  Notifier
	events    EventPublisher
	logger    *zap.Logger
}

func NewClassifyService(
	emails EmailStore,
	accounts AccountStore,
	completer Completer,
	notifier Notifier,
	events EventPublisher,
	logger *zap.Logger,
) *ClassifyService {
	return &ClassifyService{
		emails:    emails,
		accounts:  accounts,
		completer: completer,
		notifier:  notifier,
		events:    events,
		logger:    logger,
	}
}

// ClassifyEmail classifies one email and writes the category back. The
// capability response is normalized (trim + lowercase) before mapping;
// a response outside the closed category set surfaces as
// ErrUnrecognizedCategory and leaves the email unclassified.
func (s *ClassifyService) ClassifyEmail(ctx context.Context, emailID uuid.UUID) (model.Category, error) {
	email, err := s.emails.FindByID(ctx, emailID)
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(classifyPromptTemplate, email.Subject, email.BestBody())

	raw, err := s.completer.Complete(ctx, classifySystemPrompt, prompt)
	if err != nil {
		metrics.RecordClassification("error")
		return "", fmt.Errorf("%w: %v", ErrCapabilityUnavailable, err)
	}

	category, err := model.ParseCategory(raw)
	if err != nil {
		metrics.RecordClassification("unrecognized")
		s.logger.Error("Classifier response outside category set, leaving email unclassified",
			zap.String("email_id", emailID.String()),
			zap.String("response", raw),
		)
		return "", fmt.Errorf("%w: %v", ErrUnrecognizedCategory, err)
	}

	if err := s.emails.UpdateCategory(ctx, emailID, category); err != nil {
		return "", err
	}
	metrics.RecordClassification(string(category))

	s.logger.Info("Email classified",
		zap.String("email_id", emailID.String()),
		zap.String("category", string(category)),
	)

	// side effects below never fail the classification
	s.notifier.Notify(ctx, email, category)
	s.publishClassified(email, category)

	return category, nil
}

func (s *ClassifyService) publishClassified(email *model.Email, category model.Category) {
	var ownerID uuid.UUID
	if account, err := s.accounts.FindByID(context.Background(), email.AccountID); err == nil {
		ownerID = account.OwnerID
	}

	payload := mqcontracts.EmailClassifiedPayload{
		EmailID:      email.ID,
		AccountID:    email.AccountID,
		OwnerID:      ownerID,
		From:         email.FromAddress,
		Subject:      email.Subject,
		Category:     string(category),
		ClassifiedAt: time.Now(),
	}
	if err := s.events.Publish(mqcontracts.RoutingKeyEmailClassified, payload); err != nil {
		s.logger.Warn("Failed to publish email.classified event",
			zap.String("email_id", email.ID.String()),
			zap.Error(err),
		)
	}
}
