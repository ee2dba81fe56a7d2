package note

import "context"

// Repository defines the storage contract for notes.
type Repository interface {
	// Create stores a new note.
	Create(ctx context.Context, n *Note) error

	// GetByID returns one note.
	// Returns shared.ErrNoteNotFound when missing.
	GetByID(ctx context.Context, id string) (*Note, error)

	// GetByApplicant returns all notes for one applicant, oldest first.
	GetByApplicant(ctx context.Context, applicantID string) ([]*Note, error)

	// Delete removes a note. Authorization is checked by the command layer.
	Delete(ctx context.Context, id string) error

	// DeleteByApplicant removes all notes for an applicant. Used by the
	// cascading applicant delete.
	DeleteByApplicant(ctx context.Context, applicantID string) error
}
