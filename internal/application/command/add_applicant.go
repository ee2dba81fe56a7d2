package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/onemoreday/scholarship-hub/internal/domain/applicant"
	"github.com/onemoreday/scholarship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADD APPLICANT COMMAND
// Single-applicant intake, used by the public submission endpoint that the
// application form posts to. Stricter than bulk import: the form
// guarantees first name, last name, email, phone, and address, so missing
// ones are rejected outright.
// ══════════════════════════════════════════════════════════════════════════════

// AddApplicantCommand carries one submitted application.
type AddApplicantCommand struct {
	FirstName           string `json:"firstName"`
	LastName            string `json:"lastName"`
	Email               string `json:"email"`
	Phone               string `json:"phone"`
	Address             string `json:"address"`
	City                string `json:"city"`
	State               string `json:"state"`
	ZipCode             string `json:"zipCode"`
	Country             string `json:"country"`
	AboutYourself       string `json:"aboutYourself"`
	WhyApply            string `json:"whyApply"`
	ChallengeOrObstacle string `json:"challengeOrObstacle"`
	Inspiration         string `json:"inspiration"`
	WishForYourself     string `json:"wishForYourself"`
	AnythingElse        string `json:"anythingElse"`
	ContactPreference   string `json:"contactPreference"`
	HowDidYouHear       string `json:"howDidYouHear"`
	HowDidYouHearOther  string `json:"howDidYouHearOther"`
	DateApplied         string `json:"dateApplied"`
}

// Validate checks the required form fields.
func (c *AddApplicantCommand) Validate() error {
	missing := []string{}
	for _, f := range []struct{ name, value string }{
		{"firstName", c.FirstName},
		{"lastName", c.LastName},
		{"email", c.Email},
		{"phone", c.Phone},
		{"address", c.Address},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return shared.WrapError("applicant", "Add", shared.ErrEmptyValue,
			fmt.Sprintf("missing required fields: %v", missing), nil)
	}
	if !shared.NormalizeEmail(c.Email).IsValid() {
		return shared.ErrInvalidEmail
	}
	return nil
}

// AddApplicantHandler handles single-applicant intake.
type AddApplicantHandler struct {
	applicants applicant.Repository
	now        func() time.Time
}

// NewAddApplicantHandler creates the handler.
func NewAddApplicantHandler(applicants applicant.Repository) *AddApplicantHandler {
	return &AddApplicantHandler{
		applicants: applicants,
		now:        time.Now,
	}
}

// Handle executes the command and returns the stored applicant.
func (h *AddApplicantHandler) Handle(ctx context.Context, cmd AddApplicantCommand) (*applicant.Applicant, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	a := &applicant.Applicant{
		ID:                  uuid.NewString(),
		FirstName:           cmd.FirstName,
		LastName:            cmd.LastName,
		Email:               shared.NormalizeEmail(cmd.Email),
		Phone:               cmd.Phone,
		Address:             cmd.Address,
		City:                cmd.City,
		State:               cmd.State,
		ZipCode:             cmd.ZipCode,
		Country:             cmd.Country,
		AboutYourself:       cmd.AboutYourself,
		WhyApply:            cmd.WhyApply,
		ChallengeOrObstacle: cmd.ChallengeOrObstacle,
		Inspiration:         cmd.Inspiration,
		WishForYourself:     cmd.WishForYourself,
		AnythingElse:        cmd.AnythingElse,
		ContactPreference:   cmd.ContactPreference,
		HowDidYouHear:       cmd.HowDidYouHear,
		HowDidYouHearOther:  cmd.HowDidYouHearOther,
		DateApplied:         cmd.DateApplied,
		Status:              applicant.StatusPending,
		CreatedAt:           h.now().UTC(),
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := h.applicants.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("store applicant: %w", err)
	}

	return a, nil
}
