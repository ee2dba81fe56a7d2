package review

import (
	"context"

	"github.com/onemoreday/scholarship-hub/internal/domain/shared"
)

// VoteRepository defines the storage contract for votes. The store keys
// votes by the (applicant, member) pair, so Put is an idempotent upsert:
// putting the same vote twice leaves exactly one record. On overwrite the
// score is replaced and the original VotedAt is preserved.
type VoteRepository interface {
	// Put upserts a vote keyed by (ApplicantID, BoardMemberEmail).
	Put(ctx context.Context, v *Vote) error

	// Get returns the vote for one pair.
	// Returns shared.ErrVoteNotFound when the member has not voted.
	Get(ctx context.Context, applicantID string, member shared.Email) (*Vote, error)

	// GetAll returns every vote, unordered.
	GetAll(ctx context.Context) ([]Vote, error)

	// GetByApplicant returns all votes for one applicant.
	GetByApplicant(ctx context.Context, applicantID string) ([]Vote, error)

	// DeleteByApplicant removes all votes for an applicant. Used by the
	// cascading applicant delete.
	DeleteByApplicant(ctx context.Context, applicantID string) error

	// DeleteByMember removes all votes cast by one board member. Used when
	// a member is removed from the board.
	DeleteByMember(ctx context.Context, member shared.Email) error
}
