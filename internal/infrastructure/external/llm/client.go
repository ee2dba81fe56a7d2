// Package llm implements the language-model boundary on Google's Gemini
// API: applicant search, per-applicant chat, and meeting summaries.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/onemoreday/scholarship-hub/internal/application/query"
	"github.com/onemoreday/scholarship-hub/internal/domain/applicant"
	"github.com/onemoreday/scholarship-hub/internal/domain/shared"
	"github.com/onemoreday/scholarship-hub/pkg/circuitbreaker"
)

// DefaultModel is the model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// ClientConfig contains configuration for the assistant client.
type ClientConfig struct {
	// APIKey authenticates against the Gemini API.
	APIKey string

	// Model is the model name (e.g. "gemini-2.0-flash").
	Model string

	// Logger for structured logging.
	Logger *slog.Logger
}

// Client implements query.Assistant on the Gemini API. A circuit breaker
// guards every model call: when the API keeps failing, calls fail fast
// instead of stalling reviewers on timeouts.
type Client struct {
	genai   *genai.Client
	model   string
	logger  *slog.Logger
	breaker *circuitbreaker.CircuitBreaker
}

var _ query.Assistant = (*Client)(nil)

// NewClient creates the assistant client.
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("llm: failed to create client: %w", err)
	}

	c := &Client{genai: gc, model: cfg.Model, logger: cfg.Logger}
	c.breaker = circuitbreaker.AssistantBreaker(func(name string, from, to circuitbreaker.State) {
		c.logger.Warn("assistant circuit state changed",
			"breaker", name, "from", from.String(), "to", to.String())
	})
	return c, nil
}

// generate runs one model call through the circuit breaker.
func (c *Client) generate(ctx context.Context, contents []*genai.Content, genCfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	var resp *genai.GenerateContentResponse
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		var callErr error
		resp, callErr = c.genai.Models.GenerateContent(ctx, c.model, contents, genCfg)
		return callErr
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SEARCH
// ══════════════════════════════════════════════════════════════════════════════

// searchResponse is the JSON shape the search prompt demands.
type searchResponse struct {
	Matches []query.Match `json:"matches"`
}

// MatchApplicants returns the applicants matching a free-form question. A
// reply that cannot be parsed as the expected JSON yields zero matches.
func (c *Client) MatchApplicants(ctx context.Context, question string, applicants []*applicant.Applicant) ([]query.Match, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(searchPrompt(question, applicants), genai.RoleUser),
	}

	resp, err := c.generate(ctx, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, shared.WrapError("assistant", "Search", shared.ErrServiceUnavailable, "model request failed", err)
	}

	matches, ok := parseMatches(resp.Text())
	if !ok {
		c.logger.Warn("assistant search reply was not valid JSON, returning zero matches")
		return nil, nil
	}

	// Drop matches pointing at applicants the model was never shown.
	known := make(map[string]bool, len(applicants))
	for _, a := range applicants {
		known[a.ID] = true
	}
	out := matches[:0]
	for _, m := range matches {
		if known[m.ApplicantID] {
			out = append(out, m)
		}
	}
	return out, nil
}

// parseMatches extracts the matches array from a model reply, tolerating
// markdown code fences around the JSON.
func parseMatches(text string) ([]query.Match, bool) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var parsed searchResponse
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, false
	}
	return parsed.Matches, true
}

// ══════════════════════════════════════════════════════════════════════════════
// CHAT
// ══════════════════════════════════════════════════════════════════════════════

// Chat answers one message about a single applicant.
func (c *Client) Chat(ctx context.Context, a *applicant.Applicant, history []query.ChatMessage, message string) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		var role genai.Role = genai.RoleUser
		if turn.Role == "assistant" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Content, role))
	}
	contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))

	resp, err := c.generate(ctx, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(chatSystemPrompt(a), genai.RoleUser),
	})
	if err != nil {
		return "", shared.WrapError("assistant", "Chat", shared.ErrServiceUnavailable, "model request failed", err)
	}

	reply := strings.TrimSpace(resp.Text())
	if reply == "" {
		return "", shared.NewDomainError("assistant", "Chat", shared.ErrServiceUnavailable, "model returned an empty reply")
	}
	return reply, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SUMMARIES
// ══════════════════════════════════════════════════════════════════════════════

// Summarize produces a short bullet summary of one applicant.
func (c *Client) Summarize(ctx context.Context, a *applicant.Applicant) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(summaryPrompt(a), genai.RoleUser),
	}

	resp, err := c.generate(ctx, contents, nil)
	if err != nil {
		return "", shared.WrapError("assistant", "Summarize", shared.ErrServiceUnavailable, "model request failed", err)
	}

	return strings.TrimSpace(resp.Text()), nil
}
