package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"leadbox/internal/model"
)

// EventWebhookSink posts the structured interested_email event to a
// generic HTTP webhook.
type EventWebhookSink struct {
	url        string
	httpClient *http.Client
}

func NewEventWebhookSink(url string, timeout time.Duration) *EventWebhookSink {
	return &EventWebhookSink{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (s *EventWebhookSink) Name() string { return "event_webhook" }

type interestedEmailEvent struct {
	Event string             `json:"event"`
	Email interestedEmailRef `json:"email"`
}

type interestedEmailRef struct {
	ID         string    `json:"id"`
	From       string    `json:"from"`
	Subject    string    `json:"subject"`
	ReceivedAt time.Time `json:"received_at"`
}

func (s *EventWebhookSink) Send(ctx context.Context, email *model.Email) error {
	payload, err := json.Marshal(interestedEmailEvent{
		Event: "interested_email",
		Email: interestedEmailRef{
			ID:         email.ID.String(),
			From:       email.FromAddress,
			Subject:    email.Subject,
			ReceivedAt: email.ReceivedAt,
		},
	})
	if err != nil {
		return err
	}

	return post(ctx, s.httpClient, s.url, payload)
}
