// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/onemoreday/scholarship-hub/internal/domain/applicant"
	"github.com/onemoreday/scholarship-hub/internal/domain/review"
	"github.com/onemoreday/scholarship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CAST VOTE COMMAND
// One board member scores one applicant. The store keys votes by the
// (applicant, member) pair, so the write itself can never duplicate.
// Policy: a vote, once cast, cannot be changed - resubmitting the same
// score is a no-op success (the write stays idempotent), resubmitting a
// different score is rejected. VotedAt is set on the first cast only.
// ══════════════════════════════════════════════════════════════════════════════

// CastVoteCommand contains the parameters for casting a vote.
type CastVoteCommand struct {
	ApplicantID   string
	ReviewerEmail string
	ReviewerName  string
	Score         int
}

// Validate checks the command parameters.
func (c *CastVoteCommand) Validate() error {
	if c.ApplicantID == "" {
		return shared.ErrInvalidApplicantID
	}
	if !shared.NormalizeEmail(c.ReviewerEmail).IsValid() {
		return shared.ErrInvalidEmail
	}
	if !review.Score(c.Score).IsValid() {
		return shared.ErrScoreOutOfRange
	}
	return nil
}

// CastVoteResult describes the stored vote.
type CastVoteResult struct {
	Vote review.Vote
	// AlreadyCast is true when the identical vote already existed and the
	// command was a no-op.
	AlreadyCast bool
}

// CastVoteHandler handles vote casting.
type CastVoteHandler struct {
	applicants applicant.Repository
	votes      review.VoteRepository
	now        func() time.Time
}

// NewCastVoteHandler creates the handler.
func NewCastVoteHandler(applicants applicant.Repository, votes review.VoteRepository) *CastVoteHandler {
	return &CastVoteHandler{
		applicants: applicants,
		votes:      votes,
		now:        time.Now,
	}
}

// Handle executes the command.
func (h *CastVoteHandler) Handle(ctx context.Context, cmd CastVoteCommand) (*CastVoteResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	reviewer := shared.NormalizeEmail(cmd.ReviewerEmail)

	if _, err := h.applicants.GetByID(ctx, cmd.ApplicantID); err != nil {
		return nil, err
	}

	existing, err := h.votes.Get(ctx, cmd.ApplicantID, reviewer)
	switch {
	case err == nil:
		if existing.Score.Int() == cmd.Score {
			return &CastVoteResult{Vote: *existing, AlreadyCast: true}, nil
		}
		return nil, shared.ErrAlreadyVoted
	case errors.Is(err, shared.ErrNotFound):
		// First vote for this pair.
	default:
		return nil, fmt.Errorf("check existing vote: %w", err)
	}

	v := &review.Vote{
		ApplicantID:      cmd.ApplicantID,
		BoardMemberEmail: reviewer,
		BoardMemberName:  cmd.ReviewerName,
		Score:            review.Score(cmd.Score),
		VotedAt:          h.now().UTC(),
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if err := h.votes.Put(ctx, v); err != nil {
		return nil, fmt.Errorf("store vote: %w", err)
	}

	return &CastVoteResult{Vote: *v}, nil
}
