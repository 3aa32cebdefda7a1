package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	mqcontracts "leadbox/contracts/mq"
	"leadbox/internal/model"
	"leadbox/internal/source"
	"leadbox/pkg/metrics"
)

// SyncService drives one full ingestion run: for every active account it
// pulls new messages from the mailbox source, dedups against the store,
// persists what is new, classifies each new email synchronously and
// advances the account checkpoint. Failures are isolated per account
// and never abort the batch.
type SyncService struct {
	accounts   AccountStore
	emails     EmailStore
	src        source.Source
	classifier Classifier
	lock       AccountLocker
	events     EventPublisher
	logger     *zap.Logger
}

func NewSyncService(
	accounts AccountStore,
	emails EmailStore,
	src source.Source,
	classifier Classifier,
	lock AccountLocker,
	events EventPublisher,
	logger *zap.Logger,
) *SyncService {
	return &SyncService{
		accounts:   accounts,
		emails:     emails,
		src:        src,
		classifier: classifier,
		lock:       lock,
		events:     events,
		logger:     logger,
	}
}

// SyncAll processes all active accounts sequentially and returns how
// many were processed. A per-account failure is logged and the run
// continues with the next account.
func (s *SyncService) SyncAll(ctx context.Context) (int, error) {
	accounts, err := s.accounts.ListActive(ctx)
	if err != nil {
		return 0, err
	}

	s.logger.Info("Starting sync run", zap.Int("accounts", len(accounts)))

	for i := range accounts {
		account := &accounts[i]
		if err := s.syncAccount(ctx, account); err != nil {
			metrics.RecordSyncCycle("failed")
			s.logger.Error("Account sync failed",
				zap.String("account_id", account.ID.String()),
				zap.String("email", account.Email),
				zap.Error(err),
			)
			continue
		}
	}

	s.logger.Info("Sync run complete", zap.Int("accounts", len(accounts)))
	return len(accounts), nil
}

func (s *SyncService) syncAccount(ctx context.Context, account *model.Account) error {
	accountID := account.ID.String()
	if !s.lock.Acquire(ctx, accountID) {
		metrics.RecordSyncCycle("locked")
		return nil
	}
	defer s.lock.Release(ctx, accountID)

	raws, err := s.src.Fetch(ctx, account, account.LastSyncAt)
	if err != nil {
		return err
	}

	for i := range raws {
		if err := s.ingestMessage(ctx, account, &raws[i]); err != nil {
			return err
		}
	}

	// the checkpoint advances even when nothing new arrived
	if err := s.accounts.UpdateLastSyncAt(ctx, account.ID, time.Now()); err != nil {
		return err
	}

	metrics.RecordSyncCycle("success")
	return nil
}

// ingestMessage dedups, persists and classifies one raw message. A
// duplicate is skipped silently; a classification failure leaves the
// email unclassified without blocking the rest of the cycle.
func (s *SyncService) ingestMessage(ctx context.Context, account *model.Account, raw *source.RawMessage) error {
	exists, err := s.emails.ExistsByMessageID(ctx, account.ID, raw.MessageID)
	if err != nil {
		return err
	}
	if exists {
		metrics.RecordEmailIngested("duplicate")
		return nil
	}

	email := &model.Email{
		ID:          uuid.New(),
		AccountID:   account.ID,
		MessageID:   raw.MessageID,
		FromAddress: raw.FromAddress,
		ToAddress:   raw.ToAddress,
		Subject:     raw.Subject,
		BodyText:    raw.BodyText,
		BodyHTML:    raw.BodyHTML,
		Folder:      raw.Folder,
		ReceivedAt:  raw.ReceivedAt,
	}
	if err := s.emails.Insert(ctx, email); err != nil {
		return err
	}
	metrics.RecordEmailIngested("inserted")

	s.logger.Info("Inserted new email",
		zap.String("email_id", email.ID.String()),
		zap.String("account_id", account.ID.String()),
		zap.String("subject", email.Subject),
	)

	s.publishReceived(account, email)

	if _, err := s.classifier.ClassifyEmail(ctx, email.ID); err != nil {
		s.logger.Error("Classification failed, email left unclassified",
			zap.String("email_id", email.ID.String()),
			zap.Error(err),
		)
	}

	return nil
}

func (s *SyncService) publishReceived(account *model.Account, email *model.Email) {
	payload := mqcontracts.EmailReceivedPayload{
		EmailID:    email.ID,
		AccountID:  account.ID,
		OwnerID:    account.OwnerID,
		From:       email.FromAddress,
		Subject:    email.Subject,
		ReceivedAt: email.ReceivedAt,
	}
	if err := s.events.Publish(mqcontracts.RoutingKeyEmailReceived, payload); err != nil {
		s.logger.Warn("Failed to publish email.received event",
			zap.String("email_id", email.ID.String()),
			zap.Error(err),
		)
	}
}
