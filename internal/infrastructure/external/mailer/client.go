// Package mailer implements outbound email on the Resend HTTP API:
// board member invitations, password resets, and admin-composed messages.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/onemoreday/scholarship-hub/internal/application/command"
	"github.com/onemoreday/scholarship-hub/internal/domain/shared"
	"github.com/onemoreday/scholarship-hub/pkg/circuitbreaker"
	"github.com/onemoreday/scholarship-hub/pkg/retry"
)

// DefaultBaseURL is the Resend API endpoint.
const DefaultBaseURL = "https://api.resend.com"

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// ClientConfig contains configuration for the Resend client.
type ClientConfig struct {
	// BaseURL is the API base URL; tests point it at a local server.
	BaseURL string

	// APIKey authenticates against the Resend API.
	APIKey string

	// From is the sender address, e.g. "Review Board <board@example.org>".
	From string

	// AppURL is the public URL of the review hub, linked from emails.
	AppURL string

	// Timeout is the HTTP request timeout.
	Timeout time.Duration

	// Logger for structured logging.
	Logger *slog.Logger
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(apiKey, from string) ClientConfig {
	return ClientConfig{
		BaseURL: DefaultBaseURL,
		APIKey:  apiKey,
		From:    from,
		Timeout: 15 * time.Second,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client is the Resend API client. Transient failures (429 and 5xx) are
// retried with backoff; 4xx responses are permanent. A circuit breaker
// wraps each delivery attempt as a whole, counting the outcome after
// retries are exhausted.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	retrier    *retry.Retrier
	breaker    *circuitbreaker.CircuitBreaker
	logger     *slog.Logger
}

var _ command.Mailer = (*Client)(nil)

// NewClient creates a new Resend client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	c := &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		retrier:    retry.MailerRetrier(),
		logger:     cfg.Logger,
	}
	c.breaker = circuitbreaker.MailerBreaker(func(name string, from, to circuitbreaker.State) {
		c.logger.Warn("mailer circuit state changed",
			"breaker", name, "from", from.String(), "to", to.String())
	})
	return c
}

// sendRequest is the Resend /emails payload.
type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// errorResponse is the Resend error body.
type errorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Send delivers an ad-hoc message.
func (c *Client) Send(ctx context.Context, to []string, subject, html, text string) error {
	return c.send(ctx, sendRequest{
		From:    c.config.From,
		To:      to,
		Subject: subject,
		HTML:    html,
		Text:    text,
	})
}

// SendWelcome delivers the invitation with the temporary password.
func (c *Client) SendWelcome(ctx context.Context, to shared.Email, name, tempPassword string) error {
	html, err := renderWelcome(name, to.String(), tempPassword, c.config.AppURL)
	if err != nil {
		return fmt.Errorf("render welcome email: %w", err)
	}
	return c.send(ctx, sendRequest{
		From:    c.config.From,
		To:      []string{to.String()},
		Subject: "Welcome to the Scholarship Review Board",
		HTML:    html,
	})
}

// SendPasswordReset delivers a fresh temporary password.
func (c *Client) SendPasswordReset(ctx context.Context, to shared.Email, name, tempPassword string) error {
	html, err := renderPasswordReset(name, tempPassword, c.config.AppURL)
	if err != nil {
		return fmt.Errorf("render reset email: %w", err)
	}
	return c.send(ctx, sendRequest{
		From:    c.config.From,
		To:      []string{to.String()},
		Subject: "Your review board password was reset",
		HTML:    html,
	})
}

func (c *Client) send(ctx context.Context, req sendRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	return c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.deliver(ctx, req, body)
	})
}

func (c *Client) deliver(ctx context.Context, req sendRequest, body []byte) error {
	return c.retrier.Do(ctx, func(ctx context.Context) error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/emails", bytes.NewReader(body))
		if err != nil {
			return retry.Permanent(err)
		}
		httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return retry.Retryable(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}

		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr errorResponse
		_ = json.Unmarshal(respBody, &apiErr)
		msg := apiErr.Message
		if msg == "" {
			msg = string(respBody)
		}

		err = fmt.Errorf("resend API status %d: %s", resp.StatusCode, msg)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			c.logger.Warn("email delivery failed, may retry",
				"status", resp.StatusCode,
				"subject", req.Subject,
			)
			return retry.Retryable(err)
		}
		return retry.Permanent(err)
	})
}
