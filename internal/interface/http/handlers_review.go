package http

import (
	"net/http"

	"github.com/onemoreday/scholarship-hub/internal/application/command"
	"github.com/onemoreday/scholarship-hub/internal/application/query"
)

// ══════════════════════════════════════════════════════════════════════════════
// REVIEW BOARD HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetReviewBoard handles GET /api/review/board.
func (s *Server) handleGetReviewBoard(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetReviewBoard == nil {
		notImplemented(w, "review board")
		return
	}

	sess := sessionFrom(r.Context())
	result, err := s.deps.GetReviewBoard.Handle(r.Context(), query.GetReviewBoardQuery{
		ReviewerEmail:      string(sess.Email),
		PreviewAllComplete: sess.PreviewAllComplete,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type castVoteRequest struct {
	ApplicantID string `json:"applicantId"`
	Score       int    `json:"score"`
}

type castVoteResponse struct {
	ApplicantID string `json:"applicantId"`
	Score       int    `json:"score"`
	AlreadyCast bool   `json:"alreadyCast"`
}

// handleCastVote handles PUT /api/review/votes.
func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	if s.deps.CastVote == nil {
		notImplemented(w, "voting")
		return
	}

	var req castVoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	sess := sessionFrom(r.Context())
	result, err := s.deps.CastVote.Handle(r.Context(), command.CastVoteCommand{
		ApplicantID:   req.ApplicantID,
		ReviewerEmail: string(sess.Email),
		ReviewerName:  sess.Name,
		Score:         req.Score,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, castVoteResponse{
		ApplicantID: result.Vote.ApplicantID,
		Score:       result.Vote.Score.Int(),
		AlreadyCast: result.AlreadyCast,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// NOTE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type addNoteRequest struct {
	Content string `json:"content"`
}

// handleAddNote handles POST /api/review/applicants/{id}/notes.
func (s *Server) handleAddNote(w http.ResponseWriter, r *http.Request) {
	if s.deps.AddNote == nil {
		notImplemented(w, "notes")
		return
	}

	var req addNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	sess := sessionFrom(r.Context())
	n, err := s.deps.AddNote.Handle(r.Context(), command.AddNoteCommand{
		ApplicantID: r.PathValue("id"),
		AuthorEmail: string(sess.Email),
		AuthorName:  sess.Name,
		Content:     req.Content,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, query.NoteDTO{
		ID:               n.ID,
		ApplicantID:      n.ApplicantID,
		BoardMemberEmail: n.BoardMemberEmail.String(),
		BoardMemberName:  n.BoardMemberName,
		Content:          n.Content,
		CreatedAt:        n.CreatedAt,
	})
}

// handleDeleteNote handles DELETE /api/review/notes/{id}.
func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	if s.deps.DeleteNote == nil {
		notImplemented(w, "notes")
		return
	}

	sess := sessionFrom(r.Context())
	err := s.deps.DeleteNote.Handle(r.Context(), command.DeleteNoteCommand{
		NoteID:         r.PathValue("id"),
		RequestedBy:    string(sess.Email),
		RequesterAdmin: sess.IsAdmin,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
