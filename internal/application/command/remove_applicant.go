package command

import (
	"context"
	"fmt"

	"github.com/onemoreday/scholarship-hub/internal/domain/applicant"
	"github.com/onemoreday/scholarship-hub/internal/domain/note"
	"github.com/onemoreday/scholarship-hub/internal/domain/review"
	"github.com/onemoreday/scholarship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REMOVE APPLICANT COMMAND
// Admin-only. Deleting an applicant must also delete their votes and notes;
// the cascade lives here, not in the repositories. Votes and notes go first
// so a failure midway never leaves orphaned records pointing at a missing
// applicant.
// ══════════════════════════════════════════════════════════════════════════════

// RemoveApplicantCommand contains the parameters for removing an applicant.
type RemoveApplicantCommand struct {
	ApplicantID string
}

// RemoveApplicantHandler handles the cascading applicant delete.
type RemoveApplicantHandler struct {
	applicants applicant.Repository
	votes      review.VoteRepository
	notes      note.Repository
}

// NewRemoveApplicantHandler creates the handler.
func NewRemoveApplicantHandler(applicants applicant.Repository, votes review.VoteRepository, notes note.Repository) *RemoveApplicantHandler {
	return &RemoveApplicantHandler{
		applicants: applicants,
		votes:      votes,
		notes:      notes,
	}
}

// Handle executes the command.
func (h *RemoveApplicantHandler) Handle(ctx context.Context, cmd RemoveApplicantCommand) error {
	if cmd.ApplicantID == "" {
		return shared.ErrInvalidApplicantID
	}

	if _, err := h.applicants.GetByID(ctx, cmd.ApplicantID); err != nil {
		return err
	}

	if err := h.votes.DeleteByApplicant(ctx, cmd.ApplicantID); err != nil {
		return fmt.Errorf("delete votes for applicant %s: %w", cmd.ApplicantID, err)
	}
	if err := h.notes.DeleteByApplicant(ctx, cmd.ApplicantID); err != nil {
		return fmt.Errorf("delete notes for applicant %s: %w", cmd.ApplicantID, err)
	}
	if err := h.applicants.Delete(ctx, cmd.ApplicantID); err != nil {
		return fmt.Errorf("delete applicant %s: %w", cmd.ApplicantID, err)
	}

	return nil
}
