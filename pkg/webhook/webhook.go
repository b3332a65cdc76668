// Package webhook posts engine events to an external HTTP endpoint. It backs
// the Notifier contract: delivery is fire-and-forget and a lost event never
// blocks a conversation.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Config struct {
	URL     string        `split_words:"true" required:"true"`
	Token   string        `split_words:"true"`
	Timeout time.Duration `split_words:"true" default:"10s"`
}

type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	endpoint := strings.TrimSpace(cfg.URL)
	if endpoint == "" {
		return nil, errors.New("webhook url is required")
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		token:    strings.TrimSpace(cfg.Token),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func MustNew(cfg Config) *Client {
	client, err := NewClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

type envelope struct {
	Event   string    `json:"event"`
	Payload any       `json:"payload,omitempty"`
	SentAt  time.Time `json:"sent_at"`
}

// Publish posts one event as a JSON envelope. Any non-2xx status is an error;
// the caller decides whether that is worth more than a log line.
func (c *Client) Publish(ctx context.Context, event string, payload any) error {
	body, err := json.Marshal(envelope{
		Event:   event,
		Payload: payload,
		SentAt:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal webhook event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
