// Package mqhandler holds the worker-side consumers for the pipeline
// event stream.
package mqhandler

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	mqcontracts "leadbox/contracts/mq"
	"leadbox/internal/model"
	"leadbox/pkg/util"
)

const (
	handlerName = "notify-log"
	maxRetries  = 3
)

// NotificationLogStore is satisfied by the pgx repository.
type NotificationLogStore interface {
	Insert(ctx context.Context, log *model.NotificationLog) error
}

// DeadLetterPublisher parks messages that will never succeed.
type DeadLetterPublisher interface {
	PublishToDLQ(routingKey string, body []byte, reason string) error
}

// Deduper suppresses re-processing of redelivered events.
type Deduper interface {
	AcquireOnce(ctx context.Context, handler, emailID string) bool
}

// RetryCounter tracks how many times a delivery has been attempted.
type RetryCounter interface {
	IncrementAndGet(ctx context.Context, key string) (int64, error)
	Reset(ctx context.Context, key string) error
}

// ClassifiedHandler consumes email.classified events and appends an
// audit row per classification to the notification log.
type ClassifiedHandler struct {
	logs    NotificationLogStore
	deduper Deduper
	retries RetryCounter
	dlq     DeadLetterPublisher
	logger  *zap.Logger
}

func NewClassifiedHandler(
	logs NotificationLogStore,
	deduper Deduper,
	retries RetryCounter,
	dlq DeadLetterPublisher,
	logger *zap.Logger,
) *ClassifiedHandler {
	return &ClassifiedHandler{
		logs:    logs,
		deduper: deduper,
		retries: retries,
		dlq:     dlq,
		logger:  logger,
	}
}

// Handle processes one delivery. Returning nil acks the message;
// returning an error nacks it for redelivery. Poison messages and
// exhausted retries go to the DLQ and are acked.
func (h *ClassifiedHandler) Handle(ctx context.Context, data json.RawMessage) error {
	var payload mqcontracts.EmailClassifiedPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		h.logger.Error("Undecodable email.classified payload, sending to DLQ",
			zap.Error(err),
		)
		h.deadLetter(data, fmt.Sprintf("json decode: %v", err))
		return nil
	}

	emailID := payload.EmailID.String()
	if !h.deduper.AcquireOnce(ctx, handlerName, emailID) {
		return nil
	}

	entry := &model.NotificationLog{
		OwnerID: payload.OwnerID,
		EmailID: payload.EmailID,
		Message: fmt.Sprintf("Email from %s classified as %s", payload.From, payload.Category),
	}
	if err := h.logs.Insert(ctx, entry); err != nil {
		return h.handleFailure(ctx, data, emailID, err)
	}

	retryKey := util.FormatRetryKey(handlerName, emailID)
	if err := h.retries.Reset(ctx, retryKey); err != nil {
		h.logger.Warn("Failed to reset retry counter",
			zap.String("email_id", emailID),
			zap.Error(err),
		)
	}

	h.logger.Info("Notification log entry written",
		zap.String("email_id", emailID),
		zap.String("category", payload.Category),
	)
	return nil
}

// handleFailure decides between redelivery and the DLQ for one failed
// insert.
func (h *ClassifiedHandler) handleFailure(ctx context.Context, data json.RawMessage, emailID string, cause error) error {
	retryable, errType := util.IsRetryableError(cause)
	if !retryable {
		h.logger.Error("Non-retryable failure, sending to DLQ",
			zap.String("email_id", emailID),
			zap.String("error_type", errType),
			zap.Error(cause),
		)
		h.deadLetter(data, fmt.Sprintf("%s: %v", errType, cause))
		return nil
	}

	retryKey := util.FormatRetryKey(handlerName, emailID)
	count, err := h.retries.IncrementAndGet(ctx, retryKey)
	if err != nil {
		h.logger.Warn("Retry counter unavailable, requeueing anyway",
			zap.String("email_id", emailID),
			zap.Error(err),
		)
		return cause
	}

	if !util.ShouldRetry(count, maxRetries, retryable) {
		h.logger.Error("Retry budget exhausted, sending to DLQ",
			zap.String("email_id", emailID),
			zap.Int64("retry_count", count),
			zap.Error(cause),
		)
		h.deadLetter(data, fmt.Sprintf("retries exhausted after %d attempts: %v", count, cause))
		return nil
	}

	h.logger.Warn("Retryable failure, requeueing",
		zap.String("email_id", emailID),
		zap.String("error_type", errType),
		zap.Int64("retry_count", count),
	)
	return cause
}

func (h *ClassifiedHandler) deadLetter(data json.RawMessage, reason string) {
	if err := h.dlq.PublishToDLQ(mqcontracts.RoutingKeyEmailClassified, data, reason); err != nil {
		h.logger.Error("Failed to publish to DLQ, message will be lost on ack",
			zap.Error(err),
		)
	}
}
