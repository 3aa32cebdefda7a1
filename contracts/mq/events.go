// Package mq holds the event payload contracts shared by the server and
// the worker. Events are a best-effort side channel: the pipeline never
// depends on their delivery.
package mq

import (
	"time"

	"github.com/google/uuid"
)

// Routing keys on the events exchange.
const (
	RoutingKeyEmailReceived   = "email.received"
	RoutingKeyEmailClassified = "email.classified"
	RoutingKeyReplyGenerated  = "reply.generated"
)

type EmailReceivedPayload struct {
	EmailID    uuid.UUID `json:"email_id"`
	AccountID  uuid.UUID `json:"account_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	From       string    `json:"from"`
	Subject    string    `json:"subject"`
	ReceivedAt time.Time `json:"received_at"`
}

type EmailClassifiedPayload struct {
	EmailID      uuid.UUID `json:"email_id"`
	AccountID    uuid.UUID `json:"account_id"`
	OwnerID      uuid.UUID `json:"owner_id"`
	From         string    `json:"from"`
	Subject      string    `json:"subject"`
	Category     string    `json:"category"`
	ClassifiedAt time.Time `json:"classified_at"`
}

type ReplyGeneratedPayload struct {
	ReplyID    uuid.UUID `json:"reply_id"`
	EmailID    uuid.UUID `json:"email_id"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
}
