// Package identity implements the sign-in account boundary for board
// members: bcrypt password hashing, generated temporary passwords, and the
// forced change on first sign-in.
package identity

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/onemoreday/scholarship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACCOUNT STORE
// ══════════════════════════════════════════════════════════════════════════════

// Account is one stored sign-in account. The email is the key and is kept
// normalized.
type Account struct {
	Email        shared.Email
	PasswordHash []byte
	Temporary    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Store persists accounts. The PostgreSQL implementation lives in
// persistence/postgres.
type Store interface {
	// Save upserts an account keyed by email.
	Save(ctx context.Context, a *Account) error

	// Get returns one account.
	// Returns shared.ErrAccountNotFound when missing.
	Get(ctx context.Context, email shared.Email) (*Account, error)

	// Delete removes an account.
	// Returns shared.ErrAccountNotFound when missing.
	Delete(ctx context.Context, email shared.Email) error
}

// ══════════════════════════════════════════════════════════════════════════════
// BCRYPT PROVIDER
// ══════════════════════════════════════════════════════════════════════════════

// MinPasswordLength is the shortest permanent password accepted.
const MinPasswordLength = 8

// tempPasswordLength balances typability against guessability; temporary
// passwords live only until the first sign-in.
const tempPasswordLength = 12

// Letters and digits that are hard to misread in an email client.
const tempPasswordAlphabet = "abcdefghjkmnpqrstuvwxyzABCDEFGHJKMNPQRSTUVWXYZ23456789"

// Provider implements board.IdentityProvider on top of bcrypt and a Store.
type Provider struct {
	store Store
	cost  int
	now   func() time.Time
}

// NewProvider creates a provider using the default bcrypt cost.
func NewProvider(store Store) *Provider {
	return &Provider{
		store: store,
		cost:  bcrypt.DefaultCost,
		now:   time.Now,
	}
}

// CreateAccount provisions an account and returns the generated temporary
// password.
func (p *Provider) CreateAccount(ctx context.Context, email shared.Email) (string, error) {
	email = shared.NormalizeEmail(email.String())
	if !email.IsValid() {
		return "", shared.ErrInvalidEmail
	}

	temp, err := generateTempPassword()
	if err != nil {
		return "", fmt.Errorf("generate temporary password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(temp), p.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	now := p.now().UTC()
	a := &Account{
		Email:        email,
		PasswordHash: hash,
		Temporary:    true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := p.store.Save(ctx, a); err != nil {
		return "", fmt.Errorf("save account: %w", err)
	}

	return temp, nil
}

// Authenticate verifies credentials.
func (p *Provider) Authenticate(ctx context.Context, email shared.Email, password string) error {
	a, err := p.store.Get(ctx, shared.NormalizeEmail(email.String()))
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return shared.ErrInvalidCredentials
		}
		return fmt.Errorf("compare password: %w", err)
	}

	if a.Temporary {
		return shared.ErrPasswordChangeNeed
	}
	return nil
}

// SetPassword replaces the password and clears the temporary flag.
func (p *Provider) SetPassword(ctx context.Context, email shared.Email, password string) error {
	if len(password) < MinPasswordLength {
		return shared.ErrWeakPassword
	}

	a, err := p.store.Get(ctx, shared.NormalizeEmail(email.String()))
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	a.PasswordHash = hash
	a.Temporary = false
	a.UpdatedAt = p.now().UTC()
	if err := p.store.Save(ctx, a); err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	return nil
}

// ResetPassword generates and stores a fresh temporary password.
func (p *Provider) ResetPassword(ctx context.Context, email shared.Email) (string, error) {
	a, err := p.store.Get(ctx, shared.NormalizeEmail(email.String()))
	if err != nil {
		return "", err
	}

	temp, err := generateTempPassword()
	if err != nil {
		return "", fmt.Errorf("generate temporary password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(temp), p.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	a.PasswordHash = hash
	a.Temporary = true
	a.UpdatedAt = p.now().UTC()
	if err := p.store.Save(ctx, a); err != nil {
		return "", fmt.Errorf("save account: %w", err)
	}
	return temp, nil
}

// DeleteAccount removes the account. Deleting a missing account is not an
// error.
func (p *Provider) DeleteAccount(ctx context.Context, email shared.Email) error {
	err := p.store.Delete(ctx, shared.NormalizeEmail(email.String()))
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	return nil
}

func generateTempPassword() (string, error) {
	out := make([]byte, tempPasswordLength)
	max := big.NewInt(int64(len(tempPasswordAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = tempPasswordAlphabet[n.Int64()]
	}
	return string(out), nil
}
