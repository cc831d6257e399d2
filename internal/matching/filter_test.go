package matching

import (
	"strings"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/serendiblabs/mangala-backend/internal/profile"
)

func clauseExprs(f *CandidateFilter) []string {
	exprs := make([]string, 0, len(f.Clauses))
	for _, c := range f.Clauses {
		exprs = append(exprs, c.Expr)
	}
	return exprs
}

func hasClause(f *CandidateFilter, fragment string) bool {
	for _, c := range f.Clauses {
		if strings.Contains(c.Expr, fragment) {
			return true
		}
	}
	return false
}

func TestBuildCandidateFilterBaseline(t *testing.T) {
	p := &profile.Profile{UserID: 7, Gender: "female"}
	pref := &profile.Preference{
		AcceptWithChildren:         true,
		AcceptPhysicallyChallenged: true,
	}

	f := BuildCandidateFilter(p, pref, 10, 3)

	require.Equal(t, 30, f.Limit)
	require.Equal(t, []string{
		"u.is_premium DESC",
		"u.last_active_at DESC NULLS LAST",
		"u.created_at DESC",
	}, f.OrderBy)

	exprs := clauseExprs(f)
	require.Contains(t, exprs, "p.user_id <> ?")
	require.Contains(t, exprs, "u.status = 'active'")
	require.Contains(t, exprs, "p.profile_status = 'approved'")

	// Opposite gender by default
	require.Contains(t, exprs, "u.gender <> ?")
	require.True(t, hasClause(f, "NOT EXISTS"))
}

func TestBuildCandidateFilterPreferenceClauses(t *testing.T) {
	p := &profile.Profile{UserID: 7, Gender: "male"}
	pref := &profile.Preference{
		MinAge:                   25,
		MaxAge:                   32,
		MinHeightCM:              intPtr(155),
		PreferredReligions:       pq.StringArray{"Buddhist", "Hindu"},
		PreferredDiets:           pq.StringArray{"vegetarian"},
		ShowOnlyVerifiedProfiles: true,
	}

	f := BuildCandidateFilter(p, pref, 10, 3)

	require.True(t, hasClause(f, "u.birth_date <= ?"))
	require.True(t, hasClause(f, "u.birth_date >= ?"))
	require.True(t, hasClause(f, "p.height_cm >= ?"))
	require.True(t, hasClause(f, "p.religion = ANY(?)"))
	require.True(t, hasClause(f, "p.diet = ANY(?)"))
	require.True(t, hasClause(f, "p.profile_verified = TRUE"))

	// Unset Accept* flags exclude children and physically challenged
	require.True(t, hasClause(f, "p.have_children = FALSE"))
	require.True(t, hasClause(f, "p.physically_challenged = FALSE"))
}

func TestBuildCandidateFilterGenderOverride(t *testing.T) {
	p := &profile.Profile{UserID: 7, Gender: "female"}
	pref := &profile.Preference{
		PreferredGenders: pq.StringArray{"female", "non_binary"},
	}

	f := BuildCandidateFilter(p, pref, 10, 3)

	require.True(t, hasClause(f, "u.gender = ANY(?)"))
	require.False(t, hasClause(f, "u.gender <> ?"))
}

func TestBuildCandidateFilterExcludesExistingRecords(t *testing.T) {
	p := &profile.Profile{UserID: 42, Gender: "male"}
	pref := &profile.Preference{
		AcceptWithChildren:         true,
		AcceptPhysicallyChallenged: true,
	}

	f := BuildCandidateFilter(p, pref, 5, 3)

	var exclusion *Clause
	for i := range f.Clauses {
		if strings.Contains(f.Clauses[i].Expr, "NOT EXISTS") {
			exclusion = &f.Clauses[i]
			break
		}
	}
	require.NotNil(t, exclusion)
	require.Equal(t, []interface{}{int64(42), int64(42)}, exclusion.Args)
}
