package http

import (
	"errors"
	"net/http"

	"github.com/onemoreday/scholarship-hub/internal/application/command"
	"github.com/onemoreday/scholarship-hub/internal/domain/shared"

	"github.com/onemoreday/scholarship-hub/config"
)

// ══════════════════════════════════════════════════════════════════════════════
// BOARD ADMINISTRATION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetMembers handles GET /api/admin/members.
func (s *Server) handleGetMembers(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetBoardMembers == nil {
		notImplemented(w, "board management")
		return
	}

	result, err := s.deps.GetBoardMembers.Handle(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type inviteMemberRequest struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"isAdmin"`
}

type inviteMemberResponse struct {
	Member memberView `json:"member"`

	// MailDelivered is false when the member was created but the welcome
	// email bounced; the admin can resend credentials via password reset.
	MailDelivered bool `json:"mailDelivered"`
}

// handleInviteMember handles POST /api/admin/members.
func (s *Server) handleInviteMember(w http.ResponseWriter, r *http.Request) {
	if s.deps.InviteMember == nil {
		notImplemented(w, "board management")
		return
	}

	var req inviteMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	member, err := s.deps.InviteMember.Handle(r.Context(), command.InviteMemberCommand{
		Email:   req.Email,
		Name:    req.Name,
		IsAdmin: req.IsAdmin,
	})
	if err != nil && !(member != nil && errors.Is(err, shared.ErrExternalService)) {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, inviteMemberResponse{
		Member: memberView{
			Email:   member.Email.String(),
			Name:    member.Name,
			IsAdmin: member.IsAdmin,
		},
		MailDelivered: err == nil,
	})
}

// handleRemoveMember handles DELETE /api/admin/members/{email}.
func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	if s.deps.RemoveMember == nil {
		notImplemented(w, "board management")
		return
	}

	email := r.PathValue("email")
	sess := sessionFrom(r.Context())
	if shared.NormalizeEmail(email) == shared.NormalizeEmail(string(sess.Email)) {
		writeJSONError(w, http.StatusConflict, "invalid_state", "You cannot remove your own account")
		return
	}

	if err := s.deps.RemoveMember.Handle(r.Context(), command.RemoveMemberCommand{Email: email}); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

type setAdminRequest struct {
	IsAdmin bool `json:"isAdmin"`
}

// handleSetMemberAdmin handles PUT /api/admin/members/{email}/admin.
func (s *Server) handleSetMemberAdmin(w http.ResponseWriter, r *http.Request) {
	if s.deps.SetMemberAdmin == nil {
		notImplemented(w, "board management")
		return
	}

	var req setAdminRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	email := r.PathValue("email")
	sess := sessionFrom(r.Context())
	if !req.IsAdmin && shared.NormalizeEmail(email) == shared.NormalizeEmail(string(sess.Email)) {
		writeJSONError(w, http.StatusConflict, "invalid_state", "You cannot revoke your own admin access")
		return
	}

	err := s.deps.SetMemberAdmin.Handle(r.Context(), command.SetMemberAdminCommand{
		Email:   email,
		IsAdmin: req.IsAdmin,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// handleResetMemberPassword handles POST /api/admin/members/{email}/reset-password.
func (s *Server) handleResetMemberPassword(w http.ResponseWriter, r *http.Request) {
	if s.deps.ResetMemberPassword == nil {
		notImplemented(w, "board management")
		return
	}

	err := s.deps.ResetMemberPassword.Handle(r.Context(), command.ResetMemberPasswordCommand{
		Email: r.PathValue("email"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

type testingToggleRequest struct {
	PreviewAllComplete bool `json:"previewAllComplete"`
}

// handleTestingToggle handles PUT /api/admin/testing.
//
// The toggle lives on the admin's own session, so previewing the
// all-votes-complete state never affects other reviewers.
func (s *Server) handleTestingToggle(w http.ResponseWriter, r *http.Request) {
	var req testingToggleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	sess := sessionFrom(r.Context())
	token := sessionTokenFrom(r.Context())

	sess.PreviewAllComplete = req.PreviewAllComplete
	if err := s.deps.Sessions.Update(r.Context(), token, sess); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"previewAllComplete": sess.PreviewAllComplete})
}

// ══════════════════════════════════════════════════════════════════════════════
// EXPORT & COMMUNICATION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleExportResults handles GET /api/admin/export/results.csv.
func (s *Server) handleExportResults(w http.ResponseWriter, r *http.Request) {
	if s.deps.ExportResults == nil {
		notImplemented(w, "results export")
		return
	}

	result, err := s.deps.ExportResults.Handle(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Content)
}

// handleExportOverview handles GET /api/admin/export/overview.html.
func (s *Server) handleExportOverview(w http.ResponseWriter, r *http.Request) {
	if s.deps.ExportOverview == nil {
		notImplemented(w, "overview export")
		return
	}
	if !s.featureEnabled(config.FeatureExportOverview, sessionFrom(r.Context())) {
		featureDisabled(w)
		return
	}

	result, err := s.deps.ExportOverview.Handle(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.HTML)
}

type sendEmailRequest struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text"`
}

// handleSendEmail handles POST /api/admin/email.
func (s *Server) handleSendEmail(w http.ResponseWriter, r *http.Request) {
	if s.deps.SendEmail == nil {
		notImplemented(w, "email sending")
		return
	}
	if !s.featureEnabled(config.FeatureMailerAdminSend, sessionFrom(r.Context())) {
		featureDisabled(w)
		return
	}

	var req sendEmailRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	cmd := command.SendEmailCommand{
		To:      req.To,
		Subject: req.Subject,
		HTML:    req.HTML,
		Text:    req.Text,
	}
	if err := s.deps.SendEmail.Handle(r.Context(), cmd); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}
