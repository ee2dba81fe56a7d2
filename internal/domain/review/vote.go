// Package review contains the vote aggregation and ranking core of the
// Scholarship Review Hub. Everything in this package is pure computation:
// the aggregator performs no I/O and is deterministic for a given snapshot
// of applicants and votes.
package review

import (
	"strings"
	"time"

	"github.com/onemoreday/scholarship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Score is an integer rating from 0 to 10 assigned by one board member to
// one applicant. 0 is a legitimate low score, distinct from "unscored".
type Score int

// MaxScore is the highest score a board member may assign.
const MaxScore Score = 10

// IsValid checks that the score lies within [0, 10].
func (s Score) IsValid() bool {
	return s >= 0 && s <= MaxScore
}

// Int returns the underlying int value.
func (s Score) Int() int {
	return int(s)
}

// ══════════════════════════════════════════════════════════════════════════════
// VOTE
// ══════════════════════════════════════════════════════════════════════════════

// Vote is the fact that one board member scored one applicant. At most one
// vote exists per (applicant, member) pair; the storage layer enforces the
// pair as a composite key and a resubmission overwrites rather than
// duplicates. VotedAt is set when the vote is first cast and survives
// overwrites.
type Vote struct {
	ApplicantID      string
	BoardMemberEmail shared.Email
	BoardMemberName  string
	Score            Score
	VotedAt          time.Time
}

// Key identifies the (applicant, member) pair a vote belongs to.
type Key struct {
	ApplicantID      string
	BoardMemberEmail shared.Email
}

// Key returns the vote's identity pair with the member email normalized.
func (v *Vote) Key() Key {
	return Key{
		ApplicantID:      v.ApplicantID,
		BoardMemberEmail: shared.NormalizeEmail(v.BoardMemberEmail.String()),
	}
}

// Validate checks the invariants required before persisting a vote.
func (v *Vote) Validate() error {
	if strings.TrimSpace(v.ApplicantID) == "" {
		return shared.ErrInvalidApplicantID
	}
	if !v.BoardMemberEmail.IsValid() {
		return shared.ErrInvalidEmail
	}
	if !v.Score.IsValid() {
		return shared.ErrScoreOutOfRange
	}
	return nil
}
