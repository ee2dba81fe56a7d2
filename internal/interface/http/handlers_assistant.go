package http

import (
	"net/http"

	"github.com/onemoreday/scholarship-hub/internal/application/query"

	"github.com/onemoreday/scholarship-hub/config"
)

// ══════════════════════════════════════════════════════════════════════════════
// ASSISTANT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type assistantSearchRequest struct {
	Question string `json:"question"`
}

// handleAssistantSearch handles POST /api/assistant/search.
func (s *Server) handleAssistantSearch(w http.ResponseWriter, r *http.Request) {
	if s.deps.SearchApplicants == nil {
		notImplemented(w, "assistant")
		return
	}
	if !s.featureEnabled(config.FeatureAssistantSearch, sessionFrom(r.Context())) {
		featureDisabled(w)
		return
	}

	var req assistantSearchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := s.deps.SearchApplicants.Handle(r.Context(), query.SearchApplicantsQuery{
		Question: req.Question,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type assistantChatRequest struct {
	ApplicantID string              `json:"applicantId"`
	Message     string              `json:"message"`
	History     []query.ChatMessage `json:"history"`
}

// handleAssistantChat handles POST /api/assistant/chat.
func (s *Server) handleAssistantChat(w http.ResponseWriter, r *http.Request) {
	if s.deps.ChatWithApplicant == nil {
		notImplemented(w, "assistant")
		return
	}
	if !s.featureEnabled(config.FeatureAssistantChat, sessionFrom(r.Context())) {
		featureDisabled(w)
		return
	}

	var req assistantChatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := s.deps.ChatWithApplicant.Handle(r.Context(), query.ChatWithApplicantQuery{
		ApplicantID: req.ApplicantID,
		Message:     req.Message,
		History:     req.History,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
