package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"leadbox/config"
	"leadbox/pkg/circuitbreaker"
	"leadbox/pkg/metrics"
)

// ErrUnavailable reports that the AI endpoint is unreachable,
// misconfigured or shedding load. Callers surface it without writing
// partial results.
var ErrUnavailable = errors.New("ai capability unavailable")

// Client calls an OpenAI-compatible chat completions endpoint. All calls
// go through a circuit breaker so a dead endpoint fails fast instead of
// stalling every sync cycle on timeouts.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
	logger     *zap.Logger
}

func NewClient(cfg config.AIConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		breaker: circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig()),
		logger:  logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one system + user prompt pair and returns the raw text
// of the first choice.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	var content string

	start := time.Now()
	err := c.breaker.Execute(func() error {
		var callErr error
		content, callErr = c.complete(ctx, system, user)
		return callErr
	})

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordAICallLatency("chat_completion", status, time.Since(start))

	if errors.Is(err, circuitbreaker.ErrCircuitBreakerOpen) {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return content, err
}

func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error("AI API error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", detail),
		)
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", ErrUnavailable)
	}

	return parsed.Choices[0].Message.Content, nil
}
