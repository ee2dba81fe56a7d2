package command

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/onemoreday/scholarship-hub/internal/domain/applicant"
	"github.com/onemoreday/scholarship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// IMPORT APPLICANTS COMMAND
// Bulk import from the application-form CSV export. The export uses the
// full question text as column headers; they are mapped to profile fields
// here. Per-row failures are collected and reported individually - a
// malformed row never aborts the batch, and the caller always gets the
// success count plus every failure.
// ══════════════════════════════════════════════════════════════════════════════

// Column headers as they appear in the form export.
const (
	colFirstName   = "First Name"
	colLastName    = "Last Name"
	colEmail       = "Email"
	colAddress     = "Address"
	colCity        = "City"
	colState       = "State"
	colZipCode     = "Zip Code"
	colCountry     = "Country"
	colPhone       = "Phone"
	colStatus      = "Status"
	colDateApplied = "Date Applied"
	colApplication = "Application URL"
	colAbout       = "Tell us about yourself."
	colWhyApply    = "What drew you to apply for this scholarship?"
	colChallenge   = "What is a challenge or obstacle that you have faced, or are currently facing, and how might time on the trail help you to better meet this challenge?"
	colInspiration = "Where do you find inspiration when faced with challenges and obstacles? When has your courage surprised you?"
	colWish        = "At the end of your hike (whether or not you complete the entire 2,190 miles), what do you wish for yourself?"
	colAnything    = "Is there anything else you would like to share or that we should consider as we are making our decision?"
	colContact     = "If you are selected as a finalist, you will be contacted by one of the review team members for an interview. Please indicate how you would like to be contacted (phone, email, text)."
	colHowHeard    = "How did you hear about this scholarship?"
	colHowHeardOther = `If you answered "other" above, please share how you learned about this scholarship opportunity.`
)

// RowFailure describes one CSV row that could not be imported.
type RowFailure struct {
	// Row is the 1-based data row number (excluding the header).
	Row int `json:"row"`

	// Email helps identify the row; may be empty when the row was
	// malformed before the email could be read.
	Email string `json:"email,omitempty"`

	// Reason is the human-readable failure description.
	Reason string `json:"reason"`
}

// ImportResult reports the outcome of a bulk import.
type ImportResult struct {
	Imported int          `json:"imported"`
	Failures []RowFailure `json:"failures"`
}

// ImportApplicantsHandler handles CSV bulk import.
type ImportApplicantsHandler struct {
	applicants applicant.Repository
	now        func() time.Time
}

// NewImportApplicantsHandler creates the handler.
func NewImportApplicantsHandler(applicants applicant.Repository) *ImportApplicantsHandler {
	return &ImportApplicantsHandler{
		applicants: applicants,
		now:        time.Now,
	}
}

// Handle reads the CSV stream and imports every parseable row. Only a
// broken header or an unreadable stream is a hard error; everything else is
// reported per row in the result.
func (h *ImportApplicantsHandler) Handle(ctx context.Context, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, shared.WrapError("applicant", "Import", shared.ErrInvalidFormat, "cannot read CSV header", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colFirstName, colLastName, colEmail} {
		if _, ok := index[required]; !ok {
			return nil, shared.WrapError("applicant", "Import", shared.ErrInvalidFormat,
				fmt.Sprintf("CSV header is missing column %q", required), nil)
		}
	}

	field := func(record []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	result := &ImportResult{Failures: []RowFailure{}}
	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Failures = append(result.Failures, RowFailure{Row: row, Reason: "unparseable row: " + err.Error()})
			continue
		}

		email := shared.NormalizeEmail(field(record, colEmail))
		a := &applicant.Applicant{
			ID:                  uuid.NewString(),
			FirstName:           field(record, colFirstName),
			LastName:            field(record, colLastName),
			Email:               email,
			Phone:               field(record, colPhone),
			Address:             field(record, colAddress),
			City:                field(record, colCity),
			State:               field(record, colState),
			ZipCode:             field(record, colZipCode),
			Country:             field(record, colCountry),
			AboutYourself:       field(record, colAbout),
			WhyApply:            field(record, colWhyApply),
			ChallengeOrObstacle: field(record, colChallenge),
			Inspiration:         field(record, colInspiration),
			WishForYourself:     field(record, colWish),
			AnythingElse:        field(record, colAnything),
			ContactPreference:   field(record, colContact),
			HowDidYouHear:       field(record, colHowHeard),
			HowDidYouHearOther:  field(record, colHowHeardOther),
			DateApplied:         field(record, colDateApplied),
			ApplicationURL:      field(record, colApplication),
			Status:              applicant.StatusSubmitted,
			CreatedAt:           h.now().UTC(),
		}
		if s := field(record, colStatus); s != "" {
			a.Status = applicant.Status(strings.ToLower(s))
			if !a.Status.IsValid() {
				a.Status = applicant.StatusSubmitted
			}
		}

		if err := a.Validate(); err != nil {
			result.Failures = append(result.Failures, RowFailure{Row: row, Email: email.String(), Reason: err.Error()})
			continue
		}
		if err := h.applicants.Create(ctx, a); err != nil {
			result.Failures = append(result.Failures, RowFailure{Row: row, Email: email.String(), Reason: err.Error()})
			continue
		}
		result.Imported++
	}

	return result, nil
}
