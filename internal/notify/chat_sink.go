package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"leadbox/internal/model"
)

const bodyExcerptLen = 200

// ChatSink posts a human-readable summary to a Slack-style incoming
// webhook that accepts a single text field.
type ChatSink struct {
	url        string
	httpClient *http.Client
}

func NewChatSink(url string, timeout time.Duration) *ChatSink {
	return &ChatSink{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (s *ChatSink) Name() string { return "chat" }

func (s *ChatSink) Send(ctx context.Context, email *model.Email) error {
	excerpt := email.BestBody()
	if len(excerpt) > bodyExcerptLen {
		excerpt = excerpt[:bodyExcerptLen]
	}

	text := fmt.Sprintf(
		"🎉 New Interested Lead!\n\nFrom: %s\nSubject: %s\n\nEmail: %s...",
		email.FromAddress,
		email.Subject,
		excerpt,
	)

	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return err
	}

	return post(ctx, s.httpClient, s.url, payload)
}

func post(ctx context.Context, client *http.Client, url string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
