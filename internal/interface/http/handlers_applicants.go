package http

import (
	"net/http"
	"strings"

	"github.com/onemoreday/scholarship-hub/internal/application/command"
)

// ══════════════════════════════════════════════════════════════════════════════
// APPLICANT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleAddApplicant handles POST /api/applicants.
//
// Deliberately unauthenticated: this is the webhook target for the public
// application form.
func (s *Server) handleAddApplicant(w http.ResponseWriter, r *http.Request) {
	if s.deps.AddApplicant == nil {
		notImplemented(w, "applicant intake")
		return
	}

	var cmd command.AddApplicantCommand
	if err := decodeJSON(r, &cmd); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	a, err := s.deps.AddApplicant.Handle(r.Context(), cmd)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"applicantId": a.ID,
		"email":       a.Email.String(),
	})
}

// handleImportApplicants handles POST /api/applicants/import.
//
// Accepts either a multipart form with a "file" field or a raw CSV body.
func (s *Server) handleImportApplicants(w http.ResponseWriter, r *http.Request) {
	if s.deps.ImportApplicants == nil {
		notImplemented(w, "applicant import")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)

	source := r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", "missing \"file\" form field")
			return
		}
		defer file.Close()
		source = file
	}

	result, err := s.deps.ImportApplicants.Handle(r.Context(), source)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleRemoveApplicant handles DELETE /api/applicants/{id}.
func (s *Server) handleRemoveApplicant(w http.ResponseWriter, r *http.Request) {
	if s.deps.RemoveApplicant == nil {
		notImplemented(w, "applicant removal")
		return
	}

	err := s.deps.RemoveApplicant.Handle(r.Context(), command.RemoveApplicantCommand{
		ApplicantID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
