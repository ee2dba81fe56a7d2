package board

import (
	"context"

	"github.com/onemoreday/scholarship-hub/internal/domain/shared"
)

// Repository defines the storage contract for board members. Lookups are
// case-insensitive: implementations normalize the email before using it as
// a key.
type Repository interface {
	// Create stores a new member.
	// Returns shared.ErrMemberAlreadyExists when the email is taken.
	Create(ctx context.Context, m *Member) error

	// GetByEmail returns one member, looked up case-insensitively.
	// Returns shared.ErrMemberNotFound when missing.
	GetByEmail(ctx context.Context, email shared.Email) (*Member, error)

	// GetAll returns every member, unordered.
	GetAll(ctx context.Context) ([]*Member, error)

	// SetAdmin flips the admin flag on an existing member.
	SetAdmin(ctx context.Context, email shared.Email, isAdmin bool) error

	// Delete removes a member record.
	Delete(ctx context.Context, email shared.Email) error
}

// ══════════════════════════════════════════════════════════════════════════════
// IDENTITY PROVIDER
// ══════════════════════════════════════════════════════════════════════════════

// IdentityProvider manages sign-in accounts for board members. It is the
// boundary the original deployment delegated to a hosted user pool: account
// creation with a generated temporary password, admin-driven resets, and
// removal tolerant of accounts that are already gone.
type IdentityProvider interface {
	// CreateAccount provisions an account and returns the generated
	// temporary password. The member must change it on first sign-in.
	CreateAccount(ctx context.Context, email shared.Email) (tempPassword string, err error)

	// Authenticate verifies credentials. Returns
	// shared.ErrInvalidCredentials on mismatch and
	// shared.ErrPasswordChangeNeed when a temporary password was used.
	Authenticate(ctx context.Context, email shared.Email, password string) error

	// SetPassword replaces the password and clears the temporary flag.
	SetPassword(ctx context.Context, email shared.Email, password string) error

	// ResetPassword generates and stores a fresh temporary password.
	ResetPassword(ctx context.Context, email shared.Email) (tempPassword string, err error)

	// DeleteAccount removes the account. Deleting a missing account is not
	// an error: board cleanup must proceed even if the account is gone.
	DeleteAccount(ctx context.Context, email shared.Email) error
}
