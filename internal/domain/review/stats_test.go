package review

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onemoreday/scholarship-hub/internal/domain/applicant"
	"github.com/onemoreday/scholarship-hub/internal/domain/shared"
)

func applicants(ids ...string) []*applicant.Applicant {
	out := make([]*applicant.Applicant, 0, len(ids))
	for _, id := range ids {
		out = append(out, &applicant.Applicant{ID: id, FirstName: "A", LastName: id})
	}
	return out
}

func vote(applicantID, email string, score int) Vote {
	return Vote{
		ApplicantID:      applicantID,
		BoardMemberEmail: shared.Email(email),
		Score:            Score(score),
		VotedAt:          time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestComputeStats_ZeroVotesIsUnscored(t *testing.T) {
	stats, err := ComputeStats(applicants("a1"), nil, "x@example.com")
	require.NoError(t, err)
	require.Len(t, stats, 1)

	assert.False(t, stats[0].Average.Scored())
	assert.Equal(t, 0, stats[0].TotalVotes)
	assert.False(t, stats[0].UserHasVoted)
	assert.Nil(t, stats[0].UserVote)
	assert.Equal(t, "unscored", stats[0].Average.String())
}

func TestComputeStats_AverageAndUserVote(t *testing.T) {
	apps := applicants("1", "2")
	votes := []Vote{
		vote("1", "x@e", 8),
		vote("1", "y@e", 6),
		vote("2", "x@e", 10),
	}

	stats, err := ComputeStats(apps, votes, "x@e")
	require.NoError(t, err)
	require.Len(t, stats, 2)

	a := stats[0]
	mean, ok := a.Average.Mean()
	require.True(t, ok)
	assert.InDelta(t, 7.0, mean, 1e-9)
	assert.Equal(t, 2, a.TotalVotes)
	assert.True(t, a.UserHasVoted)
	require.NotNil(t, a.UserVote)
	assert.Equal(t, Score(8), a.UserVote.Score)

	b := stats[1]
	mean, ok = b.Average.Mean()
	require.True(t, ok)
	assert.InDelta(t, 10.0, mean, 1e-9)
	assert.Equal(t, 1, b.TotalVotes)
	assert.True(t, b.UserHasVoted)
}

func TestComputeStats_ZeroScoreIsNotUnscored(t *testing.T) {
	stats, err := ComputeStats(applicants("a1"), []Vote{vote("a1", "x@e", 0)}, "x@e")
	require.NoError(t, err)

	mean, ok := stats[0].Average.Mean()
	require.True(t, ok, "an applicant scored 0 must be distinguishable from an unscored one")
	assert.Equal(t, 0.0, mean)
	assert.Equal(t, 1, stats[0].TotalVotes)
}

func TestComputeStats_ReviewerEmailIsCaseInsensitive(t *testing.T) {
	stats, err := ComputeStats(applicants("a1"), []Vote{vote("a1", "X@Example.COM", 5)}, "x@example.com")
	require.NoError(t, err)

	assert.True(t, stats[0].UserHasVoted)
	require.NotNil(t, stats[0].UserVote)
}

func TestComputeStats_DeduplicatesByPairKeepingLatest(t *testing.T) {
	older := vote("a1", "x@e", 3)
	older.VotedAt = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	newer := vote("a1", "x@e", 9)
	newer.VotedAt = time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)

	stats, err := ComputeStats(applicants("a1"), []Vote{older, newer}, "x@e")
	require.NoError(t, err)

	assert.Equal(t, 1, stats[0].TotalVotes, "duplicate pair must collapse to one vote")
	mean, _ := stats[0].Average.Mean()
	assert.InDelta(t, 9.0, mean, 1e-9, "the latest VotedAt wins")
}

func TestComputeStats_ContractViolations(t *testing.T) {
	t.Run("score out of range", func(t *testing.T) {
		_, err := ComputeStats(applicants("a1"), []Vote{vote("a1", "x@e", 11)}, "x@e")
		require.Error(t, err)
		assert.True(t, shared.IsContractViolation(err))
	})

	t.Run("negative score", func(t *testing.T) {
		_, err := ComputeStats(applicants("a1"), []Vote{vote("a1", "x@e", -1)}, "x@e")
		require.Error(t, err)
		assert.True(t, shared.IsContractViolation(err))
	})

	t.Run("vote for unknown applicant", func(t *testing.T) {
		_, err := ComputeStats(applicants("a1"), []Vote{vote("ghost", "x@e", 5)}, "x@e")
		require.Error(t, err)
		assert.True(t, shared.IsContractViolation(err))
	})

	t.Run("empty applicant ID on vote", func(t *testing.T) {
		_, err := ComputeStats(applicants("a1"), []Vote{vote("", "x@e", 5)}, "x@e")
		require.Error(t, err)
		assert.True(t, shared.IsContractViolation(err))
	})

	t.Run("duplicate applicant ID", func(t *testing.T) {
		_, err := ComputeStats(applicants("a1", "a1"), nil, "x@e")
		require.Error(t, err)
		assert.True(t, shared.IsContractViolation(err))
	})
}

func TestRank_OrderingAndExclusion(t *testing.T) {
	apps := applicants("1", "2", "3")
	votes := []Vote{
		vote("1", "x@e", 8),
		vote("1", "y@e", 6),
		vote("2", "x@e", 10),
	}

	stats, err := ComputeStats(apps, votes, "x@e")
	require.NoError(t, err)

	ranked := Rank(stats)
	require.Len(t, ranked, 2, "the unscored applicant must not appear")
	assert.Equal(t, "2", ranked[0].Applicant.ID)
	assert.Equal(t, "1", ranked[1].Applicant.ID)
}

func TestRank_TieBrokenByVoteCount(t *testing.T) {
	apps := applicants("few", "many")
	votes := []Vote{
		vote("few", "x@e", 8),
		vote("many", "x@e", 8),
		vote("many", "y@e", 8),
	}

	stats, err := ComputeStats(apps, votes, "x@e")
	require.NoError(t, err)

	ranked := Rank(stats)
	require.Len(t, ranked, 2)
	assert.Equal(t, "many", ranked[0].Applicant.ID, "equal averages rank the higher vote count first")
}

func TestRank_StableForFullTies(t *testing.T) {
	apps := applicants("first", "second", "third")
	votes := []Vote{
		vote("first", "x@e", 7),
		vote("second", "x@e", 7),
		vote("third", "x@e", 7),
	}

	stats, err := ComputeStats(apps, votes, "x@e")
	require.NoError(t, err)

	ranked := Rank(stats)
	require.Len(t, ranked, 3)
	assert.Equal(t, "first", ranked[0].Applicant.ID)
	assert.Equal(t, "second", ranked[1].Applicant.ID)
	assert.Equal(t, "third", ranked[2].Applicant.ID)
}

func TestIsReviewComplete(t *testing.T) {
	apps := applicants("1", "2")
	votes := []Vote{vote("1", "x@e", 5)}

	stats, err := ComputeStats(apps, votes, "x@e")
	require.NoError(t, err)

	assert.Equal(t, 1, VotedCount(stats))
	assert.False(t, IsReviewComplete(stats, false))
	assert.True(t, IsReviewComplete(stats, true), "the override reports completion regardless of counts")

	stats, err = ComputeStats(apps, append(votes, vote("2", "x@e", 9)), "x@e")
	require.NoError(t, err)
	assert.True(t, IsReviewComplete(stats, false))
}

func TestComputeStats_ScenarioFromReviewBoard(t *testing.T) {
	// Applicants A(1), B(2); votes (1,x,8) (1,y,6) (2,x,10); reviewer x.
	apps := applicants("1", "2")
	votes := []Vote{
		vote("1", "x@e", 8),
		vote("1", "y@e", 6),
		vote("2", "x@e", 10),
	}

	stats, err := ComputeStats(apps, votes, "x@e")
	require.NoError(t, err)

	assert.Equal(t, "7.0", stats[0].Average.String())
	assert.Equal(t, "10.0", stats[1].Average.String())

	ranked := Rank(stats)
	require.Len(t, ranked, 2)
	assert.Equal(t, "2", ranked[0].Applicant.ID)
	assert.Equal(t, "1", ranked[1].Applicant.ID)
}
