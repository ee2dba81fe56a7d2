package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/onemoreday/scholarship-hub/internal/domain/note"
	"github.com/onemoreday/scholarship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// NOTE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// NoteRepository implements note.Repository for PostgreSQL.
type NoteRepository struct {
	conn *Connection
}

// NewNoteRepository creates a new NoteRepository.
func NewNoteRepository(conn *Connection) *NoteRepository {
	return &NoteRepository{conn: conn}
}

// Create stores a new note.
func (r *NoteRepository) Create(ctx context.Context, n *note.Note) error {
	query := `
		INSERT INTO notes (id, applicant_id, board_member_email, board_member_name, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.conn.Exec(ctx, query,
		n.ID,
		n.ApplicantID,
		n.BoardMemberEmail.String(),
		n.BoardMemberName,
		n.Content,
		n.CreatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return shared.ErrApplicantNotFound
		}
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

// GetByID returns one note.
func (r *NoteRepository) GetByID(ctx context.Context, id string) (*note.Note, error) {
	query := `
		SELECT id, applicant_id, board_member_email, board_member_name, content, created_at
		FROM notes
		WHERE id = $1
	`
	return scanNote(r.conn.QueryRow(ctx, query, id))
}

// GetByApplicant returns all notes for one applicant, oldest first.
func (r *NoteRepository) GetByApplicant(ctx context.Context, applicantID string) ([]*note.Note, error) {
	query := `
		SELECT id, applicant_id, board_member_email, board_member_name, content, created_at
		FROM notes
		WHERE applicant_id = $1
		ORDER BY created_at
	`

	rows, err := r.conn.Query(ctx, query, applicantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	var out []*note.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Delete removes a note.
func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNoteNotFound
	}
	return nil
}

// DeleteByApplicant removes all notes for an applicant.
func (r *NoteRepository) DeleteByApplicant(ctx context.Context, applicantID string) error {
	if _, err := r.conn.Exec(ctx, `DELETE FROM notes WHERE applicant_id = $1`, applicantID); err != nil {
		return fmt.Errorf("failed to delete notes by applicant: %w", err)
	}
	return nil
}

func scanNote(row pgx.Row) (*note.Note, error) {
	var n note.Note
	var email string

	if err := row.Scan(&n.ID, &n.ApplicantID, &email, &n.BoardMemberName, &n.Content, &n.CreatedAt); err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to scan note: %w", err)
	}

	n.BoardMemberEmail = shared.Email(email)
	return &n, nil
}
