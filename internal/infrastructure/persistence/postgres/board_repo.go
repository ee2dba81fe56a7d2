package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/onemoreday/scholarship-hub/internal/domain/board"
	"github.com/onemoreday/scholarship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// BOARD MEMBER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// BoardRepository implements board.Repository for PostgreSQL. Emails are
// stored normalized, so lookups are a plain equality match.
type BoardRepository struct {
	conn *Connection
}

// NewBoardRepository creates a new BoardRepository.
func NewBoardRepository(conn *Connection) *BoardRepository {
	return &BoardRepository{conn: conn}
}

// Create stores a new member.
func (r *BoardRepository) Create(ctx context.Context, m *board.Member) error {
	query := `
		INSERT INTO board_members (email, name, is_admin, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.conn.Exec(ctx, query,
		shared.NormalizeEmail(m.Email.String()).String(),
		m.Name,
		m.IsAdmin,
		m.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrMemberAlreadyExists
		}
		return fmt.Errorf("failed to create board member: %w", err)
	}
	return nil
}

// GetByEmail returns one member, looked up case-insensitively.
func (r *BoardRepository) GetByEmail(ctx context.Context, email shared.Email) (*board.Member, error) {
	query := `
		SELECT email, name, is_admin, created_at
		FROM board_members
		WHERE email = $1
	`
	return scanMember(r.conn.QueryRow(ctx, query, shared.NormalizeEmail(email.String()).String()))
}

// GetAll returns every member, unordered.
func (r *BoardRepository) GetAll(ctx context.Context) ([]*board.Member, error) {
	rows, err := r.conn.Query(ctx, `SELECT email, name, is_admin, created_at FROM board_members`)
	if err != nil {
		return nil, fmt.Errorf("failed to query board members: %w", err)
	}
	defer rows.Close()

	var out []*board.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// SetAdmin flips the admin flag on an existing member.
func (r *BoardRepository) SetAdmin(ctx context.Context, email shared.Email, isAdmin bool) error {
	query := `UPDATE board_members SET is_admin = $2 WHERE email = $1`

	tag, err := r.conn.Exec(ctx, query, shared.NormalizeEmail(email.String()).String(), isAdmin)
	if err != nil {
		return fmt.Errorf("failed to set admin flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrMemberNotFound
	}
	return nil
}

// Delete removes a member record.
func (r *BoardRepository) Delete(ctx context.Context, email shared.Email) error {
	query := `DELETE FROM board_members WHERE email = $1`
	if _, err := r.conn.Exec(ctx, query, shared.NormalizeEmail(email.String()).String()); err != nil {
		return fmt.Errorf("failed to delete board member: %w", err)
	}
	return nil
}

func scanMember(row pgx.Row) (*board.Member, error) {
	var m board.Member
	var email string
	var createdAt time.Time

	if err := row.Scan(&email, &m.Name, &m.IsAdmin, &createdAt); err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to scan board member: %w", err)
	}

	m.Email = shared.Email(email)
	m.CreatedAt = createdAt
	return &m, nil
}
