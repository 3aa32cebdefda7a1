package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	mqcontracts "leadbox/contracts/mq"
	"leadbox/internal/model"
)

const replySystemPrompt = "You are a professional email assistant. Generate helpful, personalized email replies based on the provided context."

const maxContextFacts = 5

// defaultContextBlock is used verbatim when the owner has stored no
// context facts.
const defaultContextBlock = `- I am a job seeker applying for positions
- If a lead is interested, share the meeting booking link: https://cal.com/example
- Be professional and enthusiastic`

const replyPromptTemplate = `Based on the following context and the received email, generate a professional reply.

%s

Received Email:
From: %s
Subject: %s
Body: %s

Generate a professional, personalized reply that:
1. Addresses their interests/questions
2. References relevant product/service information from the context
3. Includes any appropriate links (like booking links)
4. Is warm and professional

Reply:`

// ReplyService produces reply suggestions grounded on the owner's
// stored context facts. The operation is all-or-nothing: on any failure
// no SuggestedReply row is persisted. Repeated calls append independent
// suggestions.
type ReplyService struct {
	emails    EmailStore
	accounts  AccountStore
	contexts  ContextStore
	replies   ReplyStore
	completer Completer
	scorer    ConfidenceScorer
	events    EventPublisher
	logger    *zap.Logger
}

func NewReplyService(
	emails EmailStore,
	accounts AccountStore,
	contexts ContextStore,
	replies ReplyStore,
	completer Completer,
	scorer ConfidenceScorer,
	events EventPublisher,
	logger *zap.Logger,
) *ReplyService {
	return &ReplyService{
		emails:    emails,
		accounts:  accounts,
		contexts:  contexts,
		replies:   replies,
		completer: completer,
		scorer:    scorer,
		events:    events,
		logger:    logger,
	}
}

// GenerateReply generates and persists one suggested reply for an
// email. The caller must own the account that owns the email.
func (s *ReplyService) GenerateReply(ctx context.Context, emailID, callerOwnerID uuid.UUID) (*model.SuggestedReply, error) {
	email, err := s.emails.FindByID(ctx, emailID)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.FindByID(ctx, email.AccountID)
	if err != nil {
		return nil, err
	}
	if account.OwnerID != callerOwnerID {
		return nil, ErrUnauthorized
	}

	facts, err := s.contexts.ListByOwner(ctx, account.OwnerID, maxContextFacts)
	if err != nil {
		return nil, err
	}
	contextBlock := buildContextBlock(facts)

	prompt := fmt.Sprintf(replyPromptTemplate,
		contextBlock,
		email.FromAddress,
		email.Subject,
		email.BestBody(),
	)

	raw, err := s.completer.Complete(ctx, replySystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCapabilityUnavailable, err)
	}

	reply := &model.SuggestedReply{
		ID:         uuid.New(),
		EmailID:    email.ID,
		Text:       strings.TrimSpace(raw),
		Confidence: s.scorer.Score(email, facts),
	}
	if err := s.replies.Insert(ctx, reply); err != nil {
		return nil, err
	}

	s.logger.Info("Generated reply suggestion",
		zap.String("email_id", email.ID.String()),
		zap.String("reply_id", reply.ID.String()),
		zap.Float64("confidence", reply.Confidence),
	)

	s.publishGenerated(reply)

	return reply, nil
}

// buildContextBlock renders the owner's context facts as one
// "type: content" line each, in storage order, falling back to the
// default block when none exist.
func buildContextBlock(facts []model.ContextFact) string {
	var b strings.Builder
	b.WriteString("Product/Service Context:\n")

	if len(facts) == 0 {
		b.WriteString(defaultContextBlock)
		return b.String()
	}

	lines := make([]string, len(facts))
	for i, f := range facts {
		lines[i] = fmt.Sprintf("%s: %s", f.Type, f.Content)
	}
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}

func (s *ReplyService) publishGenerated(reply *model.SuggestedReply) {
	payload := mqcontracts.ReplyGeneratedPayload{
		ReplyID:    reply.ID,
		EmailID:    reply.EmailID,
		Confidence: reply.Confidence,
		CreatedAt:  time.Now(),
	}
	if err := s.events.Publish(mqcontracts.RoutingKeyReplyGenerated, payload); err != nil {
		s.logger.Warn("Failed to publish reply.generated event",
			zap.String("reply_id", reply.ID.String()),
			zap.Error(err),
		)
	}
}
