package http

import (
	"net/http"
	"time"

	"github.com/onemoreday/scholarship-hub/internal/application/command"
	"github.com/onemoreday/scholarship-hub/internal/infrastructure/persistence/redis"
)

// ══════════════════════════════════════════════════════════════════════════════
// AUTHENTICATION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type memberView struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"isAdmin"`
}

type loginResponse struct {
	Member                 *memberView `json:"member,omitempty"`
	Token                  string      `json:"token,omitempty"`
	PasswordChangeRequired bool        `json:"passwordChangeRequired"`
}

// handleLogin handles POST /api/auth/login.
//
// A sign-in with a temporary password succeeds without creating a session:
// the response carries passwordChangeRequired=true and the client must set
// a permanent password before signing in again.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.deps.SignIn == nil || s.deps.Sessions == nil {
		notImplemented(w, "authentication")
		return
	}

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := s.deps.SignIn.Handle(r.Context(), command.SignInCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	resp := loginResponse{
		Member: &memberView{
			Email:   result.Member.Email.String(),
			Name:    result.Member.Name,
			IsAdmin: result.Member.IsAdmin,
		},
		PasswordChangeRequired: result.PasswordChangeRequired,
	}

	if result.PasswordChangeRequired {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	token, err := s.deps.Sessions.Create(r.Context(), &redis.Session{
		Email:     result.Member.Email,
		Name:      result.Member.Name,
		IsAdmin:   result.Member.IsAdmin,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	resp.Token = token
	s.setSessionCookie(w, token, redis.SessionTTL)
	writeJSON(w, http.StatusOK, resp)
}

// handleLogout handles POST /api/auth/logout.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := sessionTokenFrom(r.Context())
	if token != "" {
		// A session that is already gone is still a successful logout.
		_ = s.deps.Sessions.Delete(r.Context(), token)
	}

	s.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

type changePasswordRequest struct {
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// handleChangePassword handles POST /api/auth/change-password.
//
// No session is required: the current password (typically the temporary
// one from the invitation email) authenticates the request. A signed-in
// caller may omit the email and change their own password.
func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	if s.deps.ChangePassword == nil {
		notImplemented(w, "authentication")
		return
	}

	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	email := req.Email
	if email == "" {
		if token := sessionToken(r); token != "" && s.deps.Sessions != nil {
			if sess, err := s.deps.Sessions.Get(r.Context(), token); err == nil {
				email = string(sess.Email)
			}
		}
	}

	err := s.deps.ChangePassword.Handle(r.Context(), command.ChangePasswordCommand{
		Email:           email,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "password_changed"})
}

// handleMe handles GET /api/auth/me.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"email":              sess.Email,
		"name":               sess.Name,
		"isAdmin":            sess.IsAdmin,
		"previewAllComplete": sess.PreviewAllComplete,
	})
}
