package postgres

import (
	"context"
	"fmt"

	"github.com/onemoreday/scholarship-hub/internal/domain/shared"
	"github.com/onemoreday/scholarship-hub/internal/infrastructure/identity"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACCOUNT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// AccountRepository implements identity.Store for PostgreSQL.
type AccountRepository struct {
	conn *Connection
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(conn *Connection) *AccountRepository {
	return &AccountRepository{conn: conn}
}

// Save upserts an account keyed by email.
func (r *AccountRepository) Save(ctx context.Context, a *identity.Account) error {
	query := `
		INSERT INTO accounts (email, password_hash, temporary, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email)
		DO UPDATE SET password_hash = EXCLUDED.password_hash,
			temporary = EXCLUDED.temporary,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.conn.Exec(ctx, query,
		a.Email.String(),
		a.PasswordHash,
		a.Temporary,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}
	return nil
}

// Get returns one account.
func (r *AccountRepository) Get(ctx context.Context, email shared.Email) (*identity.Account, error) {
	query := `
		SELECT email, password_hash, temporary, created_at, updated_at
		FROM accounts
		WHERE email = $1
	`

	var a identity.Account
	var emailCol string
	err := r.conn.QueryRow(ctx, query, email.String()).Scan(
		&emailCol,
		&a.PasswordHash,
		&a.Temporary,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}

	a.Email = shared.Email(emailCol)
	return &a, nil
}

// Delete removes an account.
func (r *AccountRepository) Delete(ctx context.Context, email shared.Email) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM accounts WHERE email = $1`, email.String())
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrAccountNotFound
	}
	return nil
}
