package matching

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/serendiblabs/mangala-backend/internal/profile"
)

func scoredWith(userID int64, total float64) *ScoredCandidate {
	return &ScoredCandidate{
		UserID:  userID,
		Profile: &profile.Profile{UserID: userID},
		Scores:  &ScoreBreakdown{Total: total},
	}
}

func TestRankOrdersByTotalDescending(t *testing.T) {
	ranked := Rank([]*ScoredCandidate{
		scoredWith(1, 61.5),
		scoredWith(2, 88.0),
		scoredWith(3, 74.25),
	}, 10)

	require.Len(t, ranked, 3)
	require.Equal(t, int64(2), ranked[0].UserID)
	require.Equal(t, int64(3), ranked[1].UserID)
	require.Equal(t, int64(1), ranked[2].UserID)

	require.Equal(t, 1, ranked[0].Rank)
	require.Equal(t, 2, ranked[1].Rank)
	require.Equal(t, 3, ranked[2].Rank)
}

func TestRankTruncatesToLimit(t *testing.T) {
	ranked := Rank([]*ScoredCandidate{
		scoredWith(1, 10),
		scoredWith(2, 30),
		scoredWith(3, 20),
		scoredWith(4, 40),
	}, 2)

	require.Len(t, ranked, 2)
	require.Equal(t, int64(4), ranked[0].UserID)
	require.Equal(t, int64(2), ranked[1].UserID)
}

func TestRankDropsIncompleteEntries(t *testing.T) {
	ranked := Rank([]*ScoredCandidate{
		scoredWith(1, 55),
		{UserID: 2, Scores: &ScoreBreakdown{Total: 99}},   // no profile
		{UserID: 3, Profile: &profile.Profile{UserID: 3}}, // no scores
		nil,
	}, 10)

	require.Len(t, ranked, 1)
	require.Equal(t, int64(1), ranked[0].UserID)
}

func TestRankStableForEqualScores(t *testing.T) {
	ranked := Rank([]*ScoredCandidate{
		scoredWith(1, 50),
		scoredWith(2, 50),
		scoredWith(3, 50),
	}, 10)

	require.Equal(t, int64(1), ranked[0].UserID)
	require.Equal(t, int64(2), ranked[1].UserID)
	require.Equal(t, int64(3), ranked[2].UserID)
}
