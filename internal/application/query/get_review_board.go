package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/onemoreday/scholarship-hub/internal/domain/applicant"
	"github.com/onemoreday/scholarship-hub/internal/domain/note"
	"github.com/onemoreday/scholarship-hub/internal/domain/review"
	"github.com/onemoreday/scholarship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET REVIEW BOARD QUERY
// The central read path: one fetch-then-compute cycle that loads the full
// applicant and vote collections, recomputes statistics from scratch for
// the requesting reviewer, and splits the result into a ranked list (voted
// and scored) and an unvoted list. Nothing here is cached - every refresh
// recomputes (deliberate at this data scale).
// ══════════════════════════════════════════════════════════════════════════════

// GetReviewBoardQuery contains the parameters for a review board load.
type GetReviewBoardQuery struct {
	// ReviewerEmail identifies whose votes and view this is.
	ReviewerEmail string

	// PreviewAllComplete is the admin testing override: when set, the
	// completion state reports done regardless of actual counts.
	PreviewAllComplete bool
}

// Validate checks the query parameters.
func (q *GetReviewBoardQuery) Validate() error {
	if !shared.NormalizeEmail(q.ReviewerEmail).IsValid() {
		return shared.ErrInvalidEmail
	}
	return nil
}

// NoteDTO is a note as returned to the UI.
type NoteDTO struct {
	ID               string    `json:"id"`
	ApplicantID      string    `json:"applicantId"`
	BoardMemberEmail string    `json:"boardMemberEmail"`
	BoardMemberName  string    `json:"boardMemberName"`
	Content          string    `json:"content"`
	CreatedAt        time.Time `json:"createdAt"`
}

// ApplicantDTO is an applicant profile as returned to the UI.
type ApplicantDTO struct {
	ID                  string `json:"applicantId"`
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
	ApplicationURL      string `json:"applicationUrl"`
	Status              string `json:"status"`
}

// ApplicantStatsDTO is the per-applicant derived view for one reviewer.
// AverageScore is a pointer: nil means unscored, which the UI must keep
// distinct from a legitimate 0.0 average.
type ApplicantStatsDTO struct {
	Applicant    ApplicantDTO `json:"applicant"`
	AverageScore *float64     `json:"averageScore,omitempty"`
	TotalVotes   int          `json:"totalVotes"`
	UserHasVoted bool         `json:"userHasVoted"`
	UserScore    *int         `json:"userScore,omitempty"`
	HasVideo     bool         `json:"hasVideo"`
	VideoURL     string       `json:"videoUrl,omitempty"`
	Notes        []NoteDTO    `json:"notes"`
}

// GetReviewBoardResult is the assembled review board view.
type GetReviewBoardResult struct {
	// Applicants holds every applicant with stats, in storage order.
	Applicants []ApplicantStatsDTO `json:"applicants"`

	// Ranked holds the applicants the reviewer has voted on, ordered by
	// average score descending (ties by vote count). Unscored applicants
	// never appear here.
	Ranked []ApplicantStatsDTO `json:"ranked"`

	// Unvoted holds the applicants the reviewer has not voted on yet.
	Unvoted []ApplicantStatsDTO `json:"unvoted"`

	TotalApplicants  int  `json:"totalApplicants"`
	VotedCount       int  `json:"votedCount"`
	AllVotesComplete bool `json:"allVotesComplete"`
}

// GetReviewBoardHandler handles review board queries.
type GetReviewBoardHandler struct {
	applicants applicant.Repository
	votes      review.VoteRepository
	notes      note.Repository
	videos     applicant.VideoRepository
}

// NewGetReviewBoardHandler creates the handler.
func NewGetReviewBoardHandler(
	applicants applicant.Repository,
	votes review.VoteRepository,
	notes note.Repository,
	videos applicant.VideoRepository,
) *GetReviewBoardHandler {
	return &GetReviewBoardHandler{
		applicants: applicants,
		votes:      votes,
		notes:      notes,
		videos:     videos,
	}
}

// Handle executes the query.
func (h *GetReviewBoardHandler) Handle(ctx context.Context, q GetReviewBoardQuery) (*GetReviewBoardResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	reviewer := shared.NormalizeEmail(q.ReviewerEmail)

	apps, err := h.applicants.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load applicants: %w", err)
	}

	votes, err := h.votes.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load votes: %w", err)
	}

	stats, err := review.ComputeStats(apps, votes, reviewer)
	if err != nil {
		return nil, err
	}

	// Video submissions are optional decoration: a failure to load them
	// must not take down the review board.
	videoByEmail := make(map[shared.Email]*applicant.VideoSubmission)
	if h.videos != nil {
		if subs, verr := h.videos.GetAll(ctx); verr == nil {
			for _, v := range subs {
				videoByEmail[shared.NormalizeEmail(v.Email.String())] = v
			}
		}
	}

	result := &GetReviewBoardResult{
		Applicants:      make([]ApplicantStatsDTO, 0, len(stats)),
		TotalApplicants: len(stats),
		VotedCount:      review.VotedCount(stats),
	}
	result.AllVotesComplete = review.IsReviewComplete(stats, q.PreviewAllComplete)

	// Each DTO is assembled exactly once; the ranked slice reuses them so
	// the note lists are fetched a single time per applicant.
	dtoByID := make(map[string]ApplicantStatsDTO, len(stats))
	for _, s := range stats {
		dto, err := h.toDTO(ctx, s, videoByEmail)
		if err != nil {
			return nil, err
		}
		dtoByID[s.Applicant.ID] = dto
		result.Applicants = append(result.Applicants, dto)
		if !s.UserHasVoted {
			result.Unvoted = append(result.Unvoted, dto)
		}
	}

	votedAndScored := make([]review.ApplicantStats, 0, len(stats))
	for _, s := range stats {
		if s.UserHasVoted {
			votedAndScored = append(votedAndScored, s)
		}
	}
	for _, s := range review.Rank(votedAndScored) {
		result.Ranked = append(result.Ranked, dtoByID[s.Applicant.ID])
	}

	return result, nil
}

func (h *GetReviewBoardHandler) toDTO(ctx context.Context, s review.ApplicantStats, videos map[shared.Email]*applicant.VideoSubmission) (ApplicantStatsDTO, error) {
	dto := ApplicantStatsDTO{
		Applicant:  toApplicantDTO(s.Applicant),
		TotalVotes: s.TotalVotes,
		Notes:      []NoteDTO{},
	}

	if mean, ok := s.Average.Mean(); ok {
		dto.AverageScore = &mean
	}
	if s.UserHasVoted && s.UserVote != nil {
		dto.UserHasVoted = true
		score := s.UserVote.Score.Int()
		dto.UserScore = &score
	}
	if v, ok := videos[shared.NormalizeEmail(s.Applicant.Email.String())]; ok {
		dto.HasVideo = true
		dto.VideoURL = v.VideoURL
	}

	notes, err := h.notes.GetByApplicant(ctx, s.Applicant.ID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return dto, fmt.Errorf("load notes for %s: %w", s.Applicant.ID, err)
	}
	for _, n := range notes {
		dto.Notes = append(dto.Notes, toNoteDTO(n))
	}

	return dto, nil
}

func toApplicantDTO(a *applicant.Applicant) ApplicantDTO {
	return ApplicantDTO{
		ID:                  a.ID,
		FirstName:           a.FirstName,
		LastName:            a.LastName,
		Email:               a.Email.String(),
		Phone:               a.Phone,
		Address:             a.Address,
		City:                a.City,
		State:               a.State,
		ZipCode:             a.ZipCode,
		Country:             a.Country,
		AboutYourself:       a.AboutYourself,
		WhyApply:            a.WhyApply,
		ChallengeOrObstacle: a.ChallengeOrObstacle,
		Inspiration:         a.Inspiration,
		WishForYourself:     a.WishForYourself,
		AnythingElse:        a.AnythingElse,
		ContactPreference:   a.ContactPreference,
		HowDidYouHear:       a.HowDidYouHear,
		HowDidYouHearOther:  a.HowDidYouHearOther,
		DateApplied:         a.DateApplied,
		ApplicationURL:      a.ApplicationURL,
		Status:              string(a.Status),
	}
}

func toNoteDTO(n *note.Note) NoteDTO {
	return NoteDTO{
		ID:               n.ID,
		ApplicantID:      n.ApplicantID,
		BoardMemberEmail: n.BoardMemberEmail.String(),
		BoardMemberName:  n.BoardMemberName,
		Content:          n.Content,
		CreatedAt:        n.CreatedAt,
	}
}
