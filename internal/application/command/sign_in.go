package command

import (
	"context"
	"errors"

	"github.com/onemoreday/scholarship-hub/internal/domain/board"
	"github.com/onemoreday/scholarship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SIGN IN COMMAND
// Authenticates a board member. A temporary password authenticates but the
// result demands a password change before a session may be opened; the HTTP
// layer turns that into a dedicated response.
// ══════════════════════════════════════════════════════════════════════════════

// SignInCommand contains the credentials.
type SignInCommand struct {
	Email    string
	Password string
}

// SignInResult describes the outcome of an authentication attempt.
type SignInResult struct {
	// Member is the authenticated board member.
	Member *board.Member

	// PasswordChangeRequired is true when the member signed in with a
	// temporary password and must set a permanent one.
	PasswordChangeRequired bool
}

// SignInHandler handles authentication.
type SignInHandler struct {
	members  board.Repository
	identity board.IdentityProvider
}

// NewSignInHandler creates the handler.
func NewSignInHandler(members board.Repository, identity board.IdentityProvider) *SignInHandler {
	return &SignInHandler{members: members, identity: identity}
}

// Handle executes the command.
func (h *SignInHandler) Handle(ctx context.Context, cmd SignInCommand) (*SignInResult, error) {
	email := shared.NormalizeEmail(cmd.Email)
	if !email.IsValid() || cmd.Password == "" {
		return nil, shared.ErrInvalidCredentials
	}

	changeRequired := false
	if err := h.identity.Authenticate(ctx, email, cmd.Password); err != nil {
		if errors.Is(err, shared.ErrInvalidState) {
			changeRequired = true
		} else if errors.Is(err, shared.ErrNotFound) {
			// Do not reveal whether the account exists.
			return nil, shared.ErrInvalidCredentials
		} else {
			return nil, err
		}
	}

	m, err := h.members.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}

	return &SignInResult{Member: m, PasswordChangeRequired: changeRequired}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// CHANGE PASSWORD COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// ChangePasswordCommand sets a permanent password after verifying the
// current (possibly temporary) one.
type ChangePasswordCommand struct {
	Email           string
	CurrentPassword string
	NewPassword     string
}

// ChangePasswordHandler handles password changes.
type ChangePasswordHandler struct {
	identity board.IdentityProvider
}

// NewChangePasswordHandler creates the handler.
func NewChangePasswordHandler(identity board.IdentityProvider) *ChangePasswordHandler {
	return &ChangePasswordHandler{identity: identity}
}

// Handle executes the command.
func (h *ChangePasswordHandler) Handle(ctx context.Context, cmd ChangePasswordCommand) error {
	email := shared.NormalizeEmail(cmd.Email)
	if !email.IsValid() {
		return shared.ErrInvalidCredentials
	}

	if err := h.identity.Authenticate(ctx, email, cmd.CurrentPassword); err != nil {
		// A temporary password is exactly what this flow expects.
		if !errors.Is(err, shared.ErrInvalidState) {
			return err
		}
	}

	return h.identity.SetPassword(ctx, email, cmd.NewPassword)
}
