// Package note contains shared annotations board members leave on
// applicant profiles. Notes are visible to the whole board; only the author
// or an admin may delete one.
package note

import (
	"strings"
	"time"

	"github.com/onemoreday/scholarship-hub/internal/domain/shared"
)

// Note is one free-text annotation on an applicant.
type Note struct {
	ID               string
	ApplicantID      string
	BoardMemberEmail shared.Email
	BoardMemberName  string
	Content          string
	CreatedAt        time.Time
}

// Validate checks the invariants required before persisting a note.
func (n *Note) Validate() error {
	if strings.TrimSpace(n.ID) == "" {
		return shared.WrapError("note", "Validate", shared.ErrInvalidID, "note ID is required", nil)
	}
	if strings.TrimSpace(n.ApplicantID) == "" {
		return shared.ErrInvalidApplicantID
	}
	if !n.BoardMemberEmail.IsValid() {
		return shared.ErrInvalidEmail
	}
	if strings.TrimSpace(n.Content) == "" {
		return shared.ErrEmptyNote
	}
	return nil
}

// CanBeDeletedBy reports whether the given member may delete this note.
func (n *Note) CanBeDeletedBy(email shared.Email, isAdmin bool) bool {
	if isAdmin {
		return true
	}
	return n.BoardMemberEmail.Equal(email)
}
