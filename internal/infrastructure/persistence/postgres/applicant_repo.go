package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/onemoreday/scholarship-hub/internal/domain/applicant"
	"github.com/onemoreday/scholarship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// APPLICANT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ApplicantRepository implements applicant.Repository for PostgreSQL.
type ApplicantRepository struct {
	conn *Connection
}

// NewApplicantRepository creates a new ApplicantRepository.
func NewApplicantRepository(conn *Connection) *ApplicantRepository {
	return &ApplicantRepository{conn: conn}
}

const applicantColumns = `
	id, first_name, last_name, email, phone, address, city, state, zip_code,
	country, about_yourself, why_apply, challenge_or_obstacle, inspiration,
	wish_for_yourself, anything_else, contact_preference, how_did_you_hear,
	how_did_you_hear_other, date_applied, application_url, status, created_at
`

// Create stores a new applicant.
func (r *ApplicantRepository) Create(ctx context.Context, a *applicant.Applicant) error {
	query := `
		INSERT INTO applicants (` + applicantColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23)
	`

	_, err := r.conn.Exec(ctx, query,
		a.ID,
		a.FirstName,
		a.LastName,
		a.Email.String(),
		a.Phone,
		a.Address,
		a.City,
		a.State,
		a.ZipCode,
		a.Country,
		a.AboutYourself,
		a.WhyApply,
		a.ChallengeOrObstacle,
		a.Inspiration,
		a.WishForYourself,
		a.AnythingElse,
		a.ContactPreference,
		a.HowDidYouHear,
		a.HowDidYouHearOther,
		a.DateApplied,
		a.ApplicationURL,
		string(a.Status),
		a.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrApplicantAlreadyExists
		}
		return fmt.Errorf("failed to create applicant: %w", err)
	}

	return nil
}

// GetByID returns one applicant.
func (r *ApplicantRepository) GetByID(ctx context.Context, id string) (*applicant.Applicant, error) {
	query := `SELECT ` + applicantColumns + ` FROM applicants WHERE id = $1`
	return r.scanApplicant(r.conn.QueryRow(ctx, query, id))
}

// GetAll returns every applicant, unordered.
func (r *ApplicantRepository) GetAll(ctx context.Context) ([]*applicant.Applicant, error) {
	query := `SELECT ` + applicantColumns + ` FROM applicants`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query applicants: %w", err)
	}
	defer rows.Close()

	var out []*applicant.Applicant
	for rows.Next() {
		a, err := r.scanApplicant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Delete removes an applicant record.
func (r *ApplicantRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM applicants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete applicant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrApplicantNotFound
	}
	return nil
}

// Count returns the number of applicants.
func (r *ApplicantRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM applicants`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count applicants: %w", err)
	}
	return n, nil
}

func (r *ApplicantRepository) scanApplicant(row pgx.Row) (*applicant.Applicant, error) {
	var a applicant.Applicant
	var email, status string

	err := row.Scan(
		&a.ID,
		&a.FirstName,
		&a.LastName,
		&email,
		&a.Phone,
		&a.Address,
		&a.City,
		&a.State,
		&a.ZipCode,
		&a.Country,
		&a.AboutYourself,
		&a.WhyApply,
		&a.ChallengeOrObstacle,
		&a.Inspiration,
		&a.WishForYourself,
		&a.AnythingElse,
		&a.ContactPreference,
		&a.HowDidYouHear,
		&a.HowDidYouHearOther,
		&a.DateApplied,
		&a.ApplicationURL,
		&status,
		&a.CreatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrApplicantNotFound
		}
		return nil, fmt.Errorf("failed to scan applicant: %w", err)
	}

	a.Email = shared.Email(email)
	a.Status = applicant.Status(status)
	return &a, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// VIDEO SUBMISSION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// VideoRepository implements applicant.VideoRepository for PostgreSQL.
type VideoRepository struct {
	conn *Connection
}

// NewVideoRepository creates a new VideoRepository.
func NewVideoRepository(conn *Connection) *VideoRepository {
	return &VideoRepository{conn: conn}
}

const videoColumns = `id, email, name, video_url, message, storage_key, uploaded_at`

// GetAll returns every video submission, unordered.
func (r *VideoRepository) GetAll(ctx context.Context) ([]*applicant.VideoSubmission, error) {
	rows, err := r.conn.Query(ctx, `SELECT `+videoColumns+` FROM video_submissions`)
	if err != nil {
		return nil, fmt.Errorf("failed to query video submissions: %w", err)
	}
	defer rows.Close()

	var out []*applicant.VideoSubmission
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// GetByEmail returns the submission for one applicant email.
func (r *VideoRepository) GetByEmail(ctx context.Context, email shared.Email) (*applicant.VideoSubmission, error) {
	query := `SELECT ` + videoColumns + ` FROM video_submissions WHERE lower(email) = $1 LIMIT 1`
	v, err := scanVideo(r.conn.QueryRow(ctx, query, shared.NormalizeEmail(email.String()).String()))
	if err != nil {
		return nil, err
	}
	return v, nil
}

func scanVideo(row pgx.Row) (*applicant.VideoSubmission, error) {
	var v applicant.VideoSubmission
	var email string

	err := row.Scan(&v.ID, &email, &v.Name, &v.VideoURL, &v.Message, &v.StorageKey, &v.UploadedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.WrapError("applicant", "FindVideo", shared.ErrNotFound, "no video submission", nil)
		}
		return nil, fmt.Errorf("failed to scan video submission: %w", err)
	}

	v.Email = shared.Email(email)
	return &v, nil
}
