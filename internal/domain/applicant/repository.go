package applicant

import (
	"context"

	"github.com/onemoreday/scholarship-hub/internal/domain/shared"
)

// Repository defines the storage contract for applicants. Implementations
// live in infrastructure/persistence. Listing carries no ordering guarantee;
// derived statistics are always recomputed by the caller.
type Repository interface {
	// Create stores a new applicant.
	// Returns shared.ErrApplicantAlreadyExists on an ID collision.
	Create(ctx context.Context, a *Applicant) error

	// GetByID returns one applicant.
	// Returns shared.ErrApplicantNotFound when missing.
	GetByID(ctx context.Context, id string) (*Applicant, error)

	// GetAll returns every applicant, unordered.
	GetAll(ctx context.Context) ([]*Applicant, error)

	// Delete removes an applicant record. Cascading cleanup of votes and
	// notes is the command layer's responsibility, not the repository's.
	Delete(ctx context.Context, id string) error

	// Count returns the number of applicants.
	Count(ctx context.Context) (int, error)
}

// VideoRepository defines the storage contract for video submissions.
type VideoRepository interface {
	// GetAll returns every video submission, unordered.
	GetAll(ctx context.Context) ([]*VideoSubmission, error)

	// GetByEmail returns the submission for one applicant email.
	// Returns shared.ErrNotFound (wrapped) when the applicant has no video.
	GetByEmail(ctx context.Context, email shared.Email) (*VideoSubmission, error)
}
