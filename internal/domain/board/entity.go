// Package board contains the board member domain model. A board member is
// an authenticated reviewer; an admin is a board member with elevated
// privileges (membership management, exports, email, resets). Members are
// unique by email, compared case-insensitively.
package board

import (
	"time"

	"github.com/onemoreday/scholarship-hub/internal/domain/shared"
)

// Member is one board member record.
type Member struct {
	// Email is the member's identity, always stored normalized (lowercase).
	Email shared.Email

	Name      string
	IsAdmin   bool
	CreatedAt time.Time
}

// NewMember builds a member with the email normalized.
func NewMember(email, name string, isAdmin bool) (*Member, error) {
	normalized := shared.NormalizeEmail(email)
	if !normalized.IsValid() {
		return nil, shared.ErrInvalidEmail
	}
	if name == "" {
		return nil, shared.WrapError("board", "NewMember", shared.ErrEmptyValue, "member name is required", nil)
	}
	return &Member{
		Email:   normalized,
		Name:    name,
		IsAdmin: isAdmin,
	}, nil
}

// Validate checks the invariants required before persisting a member.
func (m *Member) Validate() error {
	if !m.Email.IsValid() {
		return shared.ErrInvalidEmail
	}
	if m.Email != shared.NormalizeEmail(m.Email.String()) {
		return shared.WrapError("board", "Validate", shared.ErrInvalidFormat, "member email must be normalized", nil)
	}
	if m.Name == "" {
		return shared.WrapError("board", "Validate", shared.ErrEmptyValue, "member name is required", nil)
	}
	return nil
}
