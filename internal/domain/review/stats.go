package review

import (
	"fmt"
	"sort"
	"strings"

	"github.com/onemoreday/scholarship-hub/internal/domain/applicant"
	"github.com/onemoreday/scholarship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// AVERAGE
// ══════════════════════════════════════════════════════════════════════════════

// Average is the mean score of an applicant, or the explicit absence of one.
// An applicant with zero votes is Unscored, never "scored zero": the two
// states must stay structurally distinct so a 0.0 average can only mean that
// every board member actually voted 0.
type Average struct {
	scored bool
	mean   float64
}

// Unscored returns the average of an applicant with no votes.
func Unscored() Average {
	return Average{}
}

// NewAverage returns a defined average.
func NewAverage(mean float64) Average {
	return Average{scored: true, mean: mean}
}

// Scored reports whether the average is defined.
func (a Average) Scored() bool {
	return a.scored
}

// Mean returns the mean score and whether it is defined.
func (a Average) Mean() (float64, bool) {
	return a.mean, a.scored
}

// String formats the average to one decimal place, or "unscored".
func (a Average) String() string {
	if !a.scored {
		return "unscored"
	}
	return fmt.Sprintf("%.1f", a.mean)
}

// ══════════════════════════════════════════════════════════════════════════════
// APPLICANT STATS
// ══════════════════════════════════════════════════════════════════════════════

// ApplicantStats is the derived per-applicant view for one reviewer. It is
// computed fresh on every load and never persisted.
type ApplicantStats struct {
	Applicant    *applicant.Applicant
	Average      Average
	TotalVotes   int
	UserHasVoted bool
	UserVote     *Vote

	// Votes holds the deduplicated votes the average was computed from,
	// so consumers rendering per-member detail never disagree with it.
	Votes []Vote
}

// ══════════════════════════════════════════════════════════════════════════════
// AGGREGATION
// ══════════════════════════════════════════════════════════════════════════════

// ComputeStats turns a snapshot of applicants and votes into per-applicant
// statistics from the point of view of one reviewer. The output preserves
// the input applicant order.
//
// Votes are defensively deduplicated by (applicant, member) pair, keeping
// the one with the latest VotedAt, so a store-layer inconsistency can never
// inflate totals. Malformed input - a duplicate or empty applicant ID, a
// score outside [0, 10], or a vote pointing at an unknown applicant - is a
// contract violation and returns a descriptive error instead of being
// silently coerced.
func ComputeStats(applicants []*applicant.Applicant, votes []Vote, reviewerEmail shared.Email) ([]ApplicantStats, error) {
	reviewer := shared.NormalizeEmail(reviewerEmail.String())

	known := make(map[string]struct{}, len(applicants))
	for _, a := range applicants {
		if a == nil || strings.TrimSpace(a.ID) == "" {
			return nil, shared.WrapError("review", "ComputeStats", shared.ErrContractViolation,
				"applicant with empty ID", nil)
		}
		if _, dup := known[a.ID]; dup {
			return nil, shared.WrapError("review", "ComputeStats", shared.ErrContractViolation,
				"duplicate applicant ID "+a.ID, nil)
		}
		known[a.ID] = struct{}{}
	}

	// Deduplicate by pair, keeping the latest VotedAt.
	latest := make(map[Key]Vote, len(votes))
	for _, v := range votes {
		if strings.TrimSpace(v.ApplicantID) == "" {
			return nil, shared.WrapError("review", "ComputeStats", shared.ErrContractViolation,
				"vote with empty applicant ID", nil)
		}
		if !v.Score.IsValid() {
			return nil, shared.WrapError("review", "ComputeStats", shared.ErrContractViolation,
				fmt.Sprintf("vote for applicant %s has score %d outside [0,10]", v.ApplicantID, v.Score), nil)
		}
		if _, ok := known[v.ApplicantID]; !ok {
			return nil, shared.WrapError("review", "ComputeStats", shared.ErrContractViolation,
				"vote references unknown applicant "+v.ApplicantID, nil)
		}
		key := v.Key()
		if prev, ok := latest[key]; !ok || v.VotedAt.After(prev.VotedAt) {
			latest[key] = v
		}
	}

	byApplicant := make(map[string][]Vote, len(applicants))
	for _, v := range latest {
		byApplicant[v.ApplicantID] = append(byApplicant[v.ApplicantID], v)
	}

	stats := make([]ApplicantStats, 0, len(applicants))
	for _, a := range applicants {
		applicantVotes := byApplicant[a.ID]

		s := ApplicantStats{
			Applicant:  a,
			Average:    Unscored(),
			TotalVotes: len(applicantVotes),
			Votes:      applicantVotes,
		}

		if len(applicantVotes) > 0 {
			sum := 0
			for _, v := range applicantVotes {
				sum += v.Score.Int()
			}
			s.Average = NewAverage(float64(sum) / float64(len(applicantVotes)))
		}

		for i := range applicantVotes {
			if applicantVotes[i].Key().BoardMemberEmail == reviewer {
				v := applicantVotes[i]
				s.UserVote = &v
				s.UserHasVoted = true
				break
			}
		}

		stats = append(stats, s)
	}

	return stats, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// RANKING
// ══════════════════════════════════════════════════════════════════════════════

// Rank orders applicants by average score descending, tie-broken by vote
// count descending. Unscored applicants are excluded entirely - they are
// shown in a separate "unvoted" list, never interleaved at the bottom with
// a sentinel score. The sort is stable: fully tied applicants keep their
// input order.
func Rank(stats []ApplicantStats) []ApplicantStats {
	ranked := make([]ApplicantStats, 0, len(stats))
	for _, s := range stats {
		if s.Average.Scored() {
			ranked = append(ranked, s)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		mi, _ := ranked[i].Average.Mean()
		mj, _ := ranked[j].Average.Mean()
		if mi != mj {
			return mi > mj
		}
		return ranked[i].TotalVotes > ranked[j].TotalVotes
	})

	return ranked
}

// VotedCount returns how many applicants the reviewer has voted on.
func VotedCount(stats []ApplicantStats) int {
	count := 0
	for _, s := range stats {
		if s.UserHasVoted {
			count++
		}
	}
	return count
}

// IsReviewComplete reports whether the reviewer has voted on every
// applicant. The override flag lets an admin preview the "all done" view
// without actually voting; when set, completion is reported regardless of
// the counts. The result is derived on every refresh and never persisted.
func IsReviewComplete(stats []ApplicantStats, override bool) bool {
	if override {
		return true
	}
	return VotedCount(stats) == len(stats)
}
