package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/onemoreday/scholarship-hub/internal/domain/applicant"
	"github.com/onemoreday/scholarship-hub/internal/domain/note"
	"github.com/onemoreday/scholarship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADD NOTE COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// AddNoteCommand contains the parameters for adding a note.
type AddNoteCommand struct {
	ApplicantID string
	AuthorEmail string
	AuthorName  string
	Content     string
}

// Validate checks the command parameters.
func (c *AddNoteCommand) Validate() error {
	if c.ApplicantID == "" {
		return shared.ErrInvalidApplicantID
	}
	if !shared.NormalizeEmail(c.AuthorEmail).IsValid() {
		return shared.ErrInvalidEmail
	}
	if strings.TrimSpace(c.Content) == "" {
		return shared.ErrEmptyNote
	}
	return nil
}

// AddNoteHandler handles note creation.
type AddNoteHandler struct {
	applicants applicant.Repository
	notes      note.Repository
	now        func() time.Time
}

// NewAddNoteHandler creates the handler.
func NewAddNoteHandler(applicants applicant.Repository, notes note.Repository) *AddNoteHandler {
	return &AddNoteHandler{
		applicants: applicants,
		notes:      notes,
		now:        time.Now,
	}
}

// Handle executes the command.
func (h *AddNoteHandler) Handle(ctx context.Context, cmd AddNoteCommand) (*note.Note, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if _, err := h.applicants.GetByID(ctx, cmd.ApplicantID); err != nil {
		return nil, err
	}

	n := &note.Note{
		ID:               uuid.NewString(),
		ApplicantID:      cmd.ApplicantID,
		BoardMemberEmail: shared.NormalizeEmail(cmd.AuthorEmail),
		BoardMemberName:  cmd.AuthorName,
		Content:          strings.TrimSpace(cmd.Content),
		CreatedAt:        h.now().UTC(),
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	if err := h.notes.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("store note: %w", err)
	}

	return n, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DELETE NOTE COMMAND
// Only the author or an admin may delete a note.
// ══════════════════════════════════════════════════════════════════════════════

// DeleteNoteCommand contains the parameters for deleting a note.
type DeleteNoteCommand struct {
	NoteID         string
	RequestedBy    string
	RequesterAdmin bool
}

// DeleteNoteHandler handles note deletion.
type DeleteNoteHandler struct {
	notes note.Repository
}

// NewDeleteNoteHandler creates the handler.
func NewDeleteNoteHandler(notes note.Repository) *DeleteNoteHandler {
	return &DeleteNoteHandler{notes: notes}
}

// Handle executes the command.
func (h *DeleteNoteHandler) Handle(ctx context.Context, cmd DeleteNoteCommand) error {
	if cmd.NoteID == "" {
		return shared.WrapError("note", "Delete", shared.ErrInvalidID, "note ID is required", nil)
	}

	n, err := h.notes.GetByID(ctx, cmd.NoteID)
	if err != nil {
		return err
	}

	if !n.CanBeDeletedBy(shared.NormalizeEmail(cmd.RequestedBy), cmd.RequesterAdmin) {
		return shared.ErrNotNoteAuthor
	}

	if err := h.notes.Delete(ctx, cmd.NoteID); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}
