package query

import (
	"context"
	"strings"

	"github.com/onemoreday/scholarship-hub/internal/domain/applicant"
	"github.com/onemoreday/scholarship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CHAT WITH APPLICANT QUERY
// Per-applicant assistant chat: the model sees exactly one profile plus the
// conversation history and is instructed to answer only from that profile.
// Unlike search, a model failure here surfaces as an error - the reviewer
// asked a direct question and silence would be misleading.
// ══════════════════════════════════════════════════════════════════════════════

// ChatWithApplicantQuery contains one chat turn.
type ChatWithApplicantQuery struct {
	ApplicantID string
	Message     string
	History     []ChatMessage
}

// Validate checks the query parameters.
func (q *ChatWithApplicantQuery) Validate() error {
	if strings.TrimSpace(q.ApplicantID) == "" {
		return shared.ErrInvalidApplicantID
	}
	if strings.TrimSpace(q.Message) == "" {
		return shared.WrapError("assistant", "Chat", shared.ErrEmptyValue, "message is required", nil)
	}
	return nil
}

// ChatWithApplicantResult holds the assistant's reply.
type ChatWithApplicantResult struct {
	Response string `json:"response"`
}

// ChatWithApplicantHandler handles assistant chat queries.
type ChatWithApplicantHandler struct {
	applicants applicant.Repository
	assistant  Assistant
}

// NewChatWithApplicantHandler creates the handler.
func NewChatWithApplicantHandler(applicants applicant.Repository, assistant Assistant) *ChatWithApplicantHandler {
	return &ChatWithApplicantHandler{applicants: applicants, assistant: assistant}
}

// Handle executes the query.
func (h *ChatWithApplicantHandler) Handle(ctx context.Context, q ChatWithApplicantQuery) (*ChatWithApplicantResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	a, err := h.applicants.GetByID(ctx, q.ApplicantID)
	if err != nil {
		return nil, err
	}

	reply, err := h.assistant.Chat(ctx, a, q.History, q.Message)
	if err != nil {
		return nil, shared.WrapError("assistant", "Chat", shared.ErrServiceUnavailable, "chat request failed", err)
	}

	return &ChatWithApplicantResult{Response: reply}, nil
}
