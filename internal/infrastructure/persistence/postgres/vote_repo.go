package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/onemoreday/scholarship-hub/internal/domain/review"
	"github.com/onemoreday/scholarship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VOTE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// VoteRepository implements review.VoteRepository for PostgreSQL. The
// (applicant_id, board_member_email) pair is the primary key; Put relies on
// ON CONFLICT to stay an upsert, and voted_at keeps its original value on
// overwrite.
type VoteRepository struct {
	conn *Connection
}

// NewVoteRepository creates a new VoteRepository.
func NewVoteRepository(conn *Connection) *VoteRepository {
	return &VoteRepository{conn: conn}
}

// Put upserts a vote keyed by (ApplicantID, BoardMemberEmail).
func (r *VoteRepository) Put(ctx context.Context, v *review.Vote) error {
	query := `
		INSERT INTO votes (applicant_id, board_member_email, board_member_name, score, voted_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (applicant_id, board_member_email)
		DO UPDATE SET score = EXCLUDED.score, board_member_name = EXCLUDED.board_member_name
	`

	key := v.Key()
	_, err := r.conn.Exec(ctx, query,
		key.ApplicantID,
		key.BoardMemberEmail.String(),
		v.BoardMemberName,
		v.Score.Int(),
		v.VotedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return shared.ErrApplicantNotFound
		}
		return fmt.Errorf("failed to put vote: %w", err)
	}
	return nil
}

// Get returns the vote for one pair.
func (r *VoteRepository) Get(ctx context.Context, applicantID string, member shared.Email) (*review.Vote, error) {
	query := `
		SELECT applicant_id, board_member_email, board_member_name, score, voted_at
		FROM votes
		WHERE applicant_id = $1 AND board_member_email = $2
	`

	row := r.conn.QueryRow(ctx, query, applicantID, shared.NormalizeEmail(member.String()).String())
	v, err := scanVote(row)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// GetAll returns every vote, unordered.
func (r *VoteRepository) GetAll(ctx context.Context) ([]review.Vote, error) {
	query := `
		SELECT applicant_id, board_member_email, board_member_name, score, voted_at
		FROM votes
	`
	return r.queryVotes(ctx, query)
}

// GetByApplicant returns all votes for one applicant.
func (r *VoteRepository) GetByApplicant(ctx context.Context, applicantID string) ([]review.Vote, error) {
	query := `
		SELECT applicant_id, board_member_email, board_member_name, score, voted_at
		FROM votes
		WHERE applicant_id = $1
	`
	return r.queryVotes(ctx, query, applicantID)
}

// DeleteByApplicant removes all votes for an applicant.
func (r *VoteRepository) DeleteByApplicant(ctx context.Context, applicantID string) error {
	if _, err := r.conn.Exec(ctx, `DELETE FROM votes WHERE applicant_id = $1`, applicantID); err != nil {
		return fmt.Errorf("failed to delete votes by applicant: %w", err)
	}
	return nil
}

// DeleteByMember removes all votes cast by one board member.
func (r *VoteRepository) DeleteByMember(ctx context.Context, member shared.Email) error {
	email := shared.NormalizeEmail(member.String()).String()
	if _, err := r.conn.Exec(ctx, `DELETE FROM votes WHERE board_member_email = $1`, email); err != nil {
		return fmt.Errorf("failed to delete votes by member: %w", err)
	}
	return nil
}

func (r *VoteRepository) queryVotes(ctx context.Context, query string, args ...interface{}) ([]review.Vote, error) {
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	var out []review.Vote
	for rows.Next() {
		v, err := scanVote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

func scanVote(row pgx.Row) (*review.Vote, error) {
	var v review.Vote
	var email string
	var score int

	if err := row.Scan(&v.ApplicantID, &email, &v.BoardMemberName, &score, &v.VotedAt); err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrVoteNotFound
		}
		return nil, fmt.Errorf("failed to scan vote: %w", err)
	}

	v.BoardMemberEmail = shared.Email(email)
	v.Score = review.Score(score)
	return &v, nil
}
