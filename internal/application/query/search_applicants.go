package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/onemoreday/scholarship-hub/internal/domain/applicant"
	"github.com/onemoreday/scholarship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEARCH APPLICANTS QUERY
// Natural-language search over applicant essays. The whole applicant corpus
// is handed to the model with a fixed prompt asking for a JSON matches
// object; an unusable model reply means zero matches, reported as success.
// ══════════════════════════════════════════════════════════════════════════════

// SearchApplicantsQuery contains a free-form question from a reviewer.
type SearchApplicantsQuery struct {
	Question string
}

// Validate checks the query parameters.
func (q *SearchApplicantsQuery) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return shared.WrapError("assistant", "Search", shared.ErrEmptyValue, "question is required", nil)
	}
	return nil
}

// SearchApplicantsResult holds the model's matches. Matches is never nil.
type SearchApplicantsResult struct {
	Matches []Match `json:"matches"`
}

// SearchApplicantsHandler handles assistant search queries.
type SearchApplicantsHandler struct {
	applicants applicant.Repository
	assistant  Assistant
}

// NewSearchApplicantsHandler creates the handler.
func NewSearchApplicantsHandler(applicants applicant.Repository, assistant Assistant) *SearchApplicantsHandler {
	return &SearchApplicantsHandler{applicants: applicants, assistant: assistant}
}

// Handle executes the query.
func (h *SearchApplicantsHandler) Handle(ctx context.Context, q SearchApplicantsQuery) (*SearchApplicantsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	apps, err := h.applicants.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load applicants: %w", err)
	}
	if len(apps) == 0 {
		return &SearchApplicantsResult{Matches: []Match{}}, nil
	}

	matches, err := h.assistant.MatchApplicants(ctx, q.Question, apps)
	if err != nil {
		// The search surface never exposes model failures as errors:
		// an unreachable or misbehaving model reads as "no matches".
		return &SearchApplicantsResult{Matches: []Match{}}, nil
	}
	if matches == nil {
		matches = []Match{}
	}

	return &SearchApplicantsResult{Matches: matches}, nil
}
