// Package shared contains common domain types, errors, and value objects
// that are used across all domain packages.
package shared

import (
	"regexp"
	"strings"
)

// ═══════════════════════════════════════════════════════════════════════════
// Email Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Email represents a normalized email address. Board members sign in with a
// lowercased username, so every comparison and storage key must go through
// NormalizeEmail first.
type Email string

// Deliberately permissive: the real gatekeeper is the upstream form and the
// identity provider; this only rejects obviously broken values.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(raw string) Email {
	return Email(strings.ToLower(strings.TrimSpace(raw)))
}

// IsValid checks if the email has a plausible format.
func (e Email) IsValid() bool {
	return emailRegex.MatchString(string(e))
}

// String returns the string representation.
func (e Email) String() string {
	return string(e)
}

// Equal compares two emails case-insensitively.
func (e Email) Equal(other Email) bool {
	return strings.EqualFold(string(e), string(other))
}
