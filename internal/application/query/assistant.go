// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
// Each query is a self-contained use case with its own request/response types.
package query

import (
	"context"

	"github.com/onemoreday/scholarship-hub/internal/domain/applicant"
)

// ══════════════════════════════════════════════════════════════════════════════
// ASSISTANT PORT
// The language-model boundary used by search, chat, and the meeting export.
// Implemented in infrastructure/external/llm. Calls are single-shot: no
// retry, no backoff - a failed call degrades per use case (zero matches for
// search, fallback text for summaries, an error for chat).
// ══════════════════════════════════════════════════════════════════════════════

// Match is one applicant the model judged relevant to a search question.
type Match struct {
	ApplicantID string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Reason      string `json:"reason"`
}

// ChatMessage is one turn of an assistant conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Assistant answers natural-language questions over applicant text.
type Assistant interface {
	// MatchApplicants returns the applicants matching a free-form question.
	// A model reply that is not the expected JSON shape yields zero
	// matches, not an error.
	MatchApplicants(ctx context.Context, question string, applicants []*applicant.Applicant) ([]Match, error)

	// Chat answers one message about a single applicant, grounded in the
	// profile plus the running conversation history.
	Chat(ctx context.Context, a *applicant.Applicant, history []ChatMessage, message string) (string, error)

	// Summarize produces a short bullet summary of one applicant for the
	// meeting overview document.
	Summarize(ctx context.Context, a *applicant.Applicant) (string, error)
}
