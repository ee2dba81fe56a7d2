// Package applicant contains the applicant domain model for the Scholarship
// Review Hub. Applicants are imported from the application-form CSV export or
// submitted through the public intake endpoint; their profiles are immutable
// once created and only an administrative action may remove them.
package applicant

import (
	"strings"
	"time"

	"github.com/onemoreday/scholarship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Status reflects where an application sits in the intake pipeline.
type Status string

const (
	// StatusPending - received through the intake endpoint, not yet reviewed.
	StatusPending Status = "pending"
	// StatusSubmitted - imported from the form export.
	StatusSubmitted Status = "submitted"
	// StatusFinalist - selected for a finalist interview.
	StatusFinalist Status = "finalist"
)

// IsValid checks that the status is one of the known values.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusSubmitted, StatusFinalist:
		return true
	default:
		return false
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: APPLICANT
// ══════════════════════════════════════════════════════════════════════════════

// Applicant is one scholarship application. The essay fields carry the
// answers from the application form verbatim; empty strings mean the
// applicant skipped the question.
type Applicant struct {
	// ID is the opaque unique identifier (UUID in string form).
	ID string

	// Contact details.
	FirstName string
	LastName  string
	Email     shared.Email
	Phone     string
	Address   string
	City      string
	State     string
	ZipCode   string
	Country   string

	// Essay answers.
	AboutYourself       string
	WhyApply            string
	ChallengeOrObstacle string
	Inspiration         string
	WishForYourself     string
	AnythingElse        string

	// Form metadata.
	ContactPreference string
	HowDidYouHear     string
	HowDidYouHearOther string
	DateApplied       string
	ApplicationURL    string

	Status    Status
	CreatedAt time.Time
}

// FullName returns "First Last" for display and prompts.
func (a *Applicant) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// Location returns "City, State" for display; either part may be empty.
func (a *Applicant) Location() string {
	switch {
	case a.City != "" && a.State != "":
		return a.City + ", " + a.State
	case a.City != "":
		return a.City
	default:
		return a.State
	}
}

// Validate checks the invariants required before persisting an applicant.
func (a *Applicant) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return shared.ErrInvalidApplicantID
	}
	if a.FirstName == "" || a.LastName == "" {
		return shared.WrapError("applicant", "Validate", shared.ErrEmptyValue, "first and last name are required", nil)
	}
	if !a.Email.IsValid() {
		return shared.ErrInvalidEmail
	}
	if a.Status != "" && !a.Status.IsValid() {
		return shared.WrapError("applicant", "Validate", shared.ErrInvalidInput, "unknown status "+string(a.Status), nil)
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// VIDEO SUBMISSIONS
// ══════════════════════════════════════════════════════════════════════════════

// VideoSubmission is an optional video uploaded separately from the written
// application, matched to an applicant by email.
type VideoSubmission struct {
	ID         string
	Email      shared.Email
	Name       string
	VideoURL   string
	Message    string
	StorageKey string
	UploadedAt time.Time
}
