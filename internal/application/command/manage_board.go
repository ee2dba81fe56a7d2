package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/onemoreday/scholarship-hub/internal/domain/board"
	"github.com/onemoreday/scholarship-hub/internal/domain/review"
	"github.com/onemoreday/scholarship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAILER PORT
// Outbound email boundary, implemented in infrastructure/external/mailer.
// ══════════════════════════════════════════════════════════════════════════════

// Mailer sends board communications.
type Mailer interface {
	// SendWelcome delivers the invitation with the temporary password.
	SendWelcome(ctx context.Context, to shared.Email, name, tempPassword string) error

	// SendPasswordReset delivers a fresh temporary password.
	SendPasswordReset(ctx context.Context, to shared.Email, name, tempPassword string) error

	// Send delivers an ad-hoc message; html may be empty, then text is used.
	Send(ctx context.Context, to []string, subject, html, text string) error
}

// ══════════════════════════════════════════════════════════════════════════════
// INVITE BOARD MEMBER COMMAND
// Creates the sign-in account, stores the member record, and emails the
// temporary password. The account comes first: a member record without an
// account is a locked-out reviewer, the reverse is merely an orphan account
// the delete flow tolerates.
// ══════════════════════════════════════════════════════════════════════════════

// InviteMemberCommand contains the parameters for inviting a member.
type InviteMemberCommand struct {
	Email   string
	Name    string
	IsAdmin bool
}

// InviteMemberHandler handles board member invitations.
type InviteMemberHandler struct {
	members  board.Repository
	identity board.IdentityProvider
	mailer   Mailer
	now      func() time.Time
}

// NewInviteMemberHandler creates the handler.
func NewInviteMemberHandler(members board.Repository, identity board.IdentityProvider, mailer Mailer) *InviteMemberHandler {
	return &InviteMemberHandler{
		members:  members,
		identity: identity,
		mailer:   mailer,
		now:      time.Now,
	}
}

// Handle executes the command.
func (h *InviteMemberHandler) Handle(ctx context.Context, cmd InviteMemberCommand) (*board.Member, error) {
	m, err := board.NewMember(cmd.Email, cmd.Name, cmd.IsAdmin)
	if err != nil {
		return nil, err
	}
	m.CreatedAt = h.now().UTC()

	if _, err := h.members.GetByEmail(ctx, m.Email); err == nil {
		return nil, shared.ErrMemberAlreadyExists
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("check existing member: %w", err)
	}

	tempPassword, err := h.identity.CreateAccount(ctx, m.Email)
	if err != nil {
		return nil, fmt.Errorf("create account for %s: %w", m.Email, err)
	}

	if err := h.members.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("store member: %w", err)
	}

	if err := h.mailer.SendWelcome(ctx, m.Email, m.Name, tempPassword); err != nil {
		// The member exists and can be re-invited via password reset;
		// surface the delivery failure without rolling back.
		return m, shared.WrapError("board", "Invite", shared.ErrExternalService, "welcome email failed", err)
	}

	return m, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// REMOVE BOARD MEMBER COMMAND
// Deletes the account (tolerating one that is already gone), the member
// record, and the member's votes so averages no longer include them.
// ══════════════════════════════════════════════════════════════════════════════

// RemoveMemberCommand contains the parameters for removing a member.
type RemoveMemberCommand struct {
	Email string
}

// RemoveMemberHandler handles board member removal.
type RemoveMemberHandler struct {
	members  board.Repository
	votes    review.VoteRepository
	identity board.IdentityProvider
}

// NewRemoveMemberHandler creates the handler.
func NewRemoveMemberHandler(members board.Repository, votes review.VoteRepository, identity board.IdentityProvider) *RemoveMemberHandler {
	return &RemoveMemberHandler{
		members:  members,
		votes:    votes,
		identity: identity,
	}
}

// Handle executes the command.
func (h *RemoveMemberHandler) Handle(ctx context.Context, cmd RemoveMemberCommand) error {
	email := shared.NormalizeEmail(cmd.Email)
	if !email.IsValid() {
		return shared.ErrInvalidEmail
	}

	if _, err := h.members.GetByEmail(ctx, email); err != nil {
		return err
	}

	if err := h.identity.DeleteAccount(ctx, email); err != nil && !errors.Is(err, shared.ErrNotFound) {
		return fmt.Errorf("delete account for %s: %w", email, err)
	}
	if err := h.votes.DeleteByMember(ctx, email); err != nil {
		return fmt.Errorf("delete votes for %s: %w", email, err)
	}
	if err := h.members.Delete(ctx, email); err != nil {
		return fmt.Errorf("delete member %s: %w", email, err)
	}

	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SET MEMBER ADMIN COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// SetMemberAdminCommand flips the admin flag on a member.
type SetMemberAdminCommand struct {
	Email   string
	IsAdmin bool
}

// SetMemberAdminHandler handles admin flag changes.
type SetMemberAdminHandler struct {
	members board.Repository
}

// NewSetMemberAdminHandler creates the handler.
func NewSetMemberAdminHandler(members board.Repository) *SetMemberAdminHandler {
	return &SetMemberAdminHandler{members: members}
}

// Handle executes the command.
func (h *SetMemberAdminHandler) Handle(ctx context.Context, cmd SetMemberAdminCommand) error {
	email := shared.NormalizeEmail(cmd.Email)
	if !email.IsValid() {
		return shared.ErrInvalidEmail
	}
	if _, err := h.members.GetByEmail(ctx, email); err != nil {
		return err
	}
	return h.members.SetAdmin(ctx, email, cmd.IsAdmin)
}

// ══════════════════════════════════════════════════════════════════════════════
// RESET MEMBER PASSWORD COMMAND
// Generates a fresh temporary password and emails it to the member.
// ══════════════════════════════════════════════════════════════════════════════

// ResetMemberPasswordCommand contains the parameters for a reset.
type ResetMemberPasswordCommand struct {
	Email string
}

// ResetMemberPasswordHandler handles admin-driven password resets.
type ResetMemberPasswordHandler struct {
	members  board.Repository
	identity board.IdentityProvider
	mailer   Mailer
}

// NewResetMemberPasswordHandler creates the handler.
func NewResetMemberPasswordHandler(members board.Repository, identity board.IdentityProvider, mailer Mailer) *ResetMemberPasswordHandler {
	return &ResetMemberPasswordHandler{
		members:  members,
		identity: identity,
		mailer:   mailer,
	}
}

// Handle executes the command.
func (h *ResetMemberPasswordHandler) Handle(ctx context.Context, cmd ResetMemberPasswordCommand) error {
	email := shared.NormalizeEmail(cmd.Email)
	if !email.IsValid() {
		return shared.ErrInvalidEmail
	}

	m, err := h.members.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	tempPassword, err := h.identity.ResetPassword(ctx, email)
	if err != nil {
		return fmt.Errorf("reset password for %s: %w", email, err)
	}

	if err := h.mailer.SendPasswordReset(ctx, email, m.Name, tempPassword); err != nil {
		return shared.WrapError("board", "ResetPassword", shared.ErrExternalService, "reset email failed", err)
	}
	return nil
}
