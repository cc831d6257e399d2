package matching

import (
	"time"

	"github.com/lib/pq"
	"github.com/serendiblabs/mangala-backend/internal/profile"
)

// Clause is one predicate of a candidate query. Expr uses `?`
// placeholders; the repository rebinds them for the target driver.
type Clause struct {
	Expr string
	Args []interface{}
}

// CandidateFilter is a declarative candidate query: an AND-joined
// clause list plus ordering and limit. It keeps the eligibility rules
// independent of any particular persistence technology.
type CandidateFilter struct {
	Clauses []Clause
	OrderBy []string
	Limit   int
}

func (f *CandidateFilter) where(expr string, args ...interface{}) {
	f.Clauses = append(f.Clauses, Clause{Expr: expr, Args: args})
}

// BuildCandidateFilter derives the eligibility query for a requester
// from their profile and stated preferences. The limit is over-fetched
// by overFetch to absorb post-filtering losses.
func BuildCandidateFilter(p *profile.Profile, pref *profile.Preference, limit, overFetch int) *CandidateFilter {
	f := &CandidateFilter{
		OrderBy: []string{
			"u.is_premium DESC",
			"u.last_active_at DESC NULLS LAST",
			"u.created_at DESC",
		},
		Limit: limit * overFetch,
	}

	now := time.Now()

	f.where("p.user_id <> ?", p.UserID)
	f.where("u.status = 'active'")
	f.where("p.profile_status = 'approved'")

	// Age bounds translate to birth-date bounds
	if pref.MinAge > 0 {
		f.where("u.birth_date <= ?", now.AddDate(-pref.MinAge, 0, 0))
	}
	if pref.MaxAge > 0 {
		f.where("u.birth_date >= ?", now.AddDate(-pref.MaxAge-1, 0, 1))
	}

	if pref.MinHeightCM != nil {
		f.where("p.height_cm >= ?", *pref.MinHeightCM)
	}
	if pref.MaxHeightCM != nil {
		f.where("p.height_cm <= ?", *pref.MaxHeightCM)
	}

	if len(pref.PreferredCountries) > 0 {
		f.where("p.current_country = ANY(?)", pq.Array([]string(pref.PreferredCountries)))
	}
	if len(pref.PreferredReligions) > 0 {
		f.where("p.religion = ANY(?)", pq.Array([]string(pref.PreferredReligions)))
	}
	if len(pref.PreferredEducationLevels) > 0 {
		f.where("p.education_level = ANY(?)", pq.Array([]string(pref.PreferredEducationLevels)))
	}
	if len(pref.PreferredMaritalStatus) > 0 {
		f.where("p.marital_status = ANY(?)", pq.Array([]string(pref.PreferredMaritalStatus)))
	}
	if len(pref.PreferredDiets) > 0 {
		f.where("p.diet = ANY(?)", pq.Array([]string(pref.PreferredDiets)))
	}
	if len(pref.PreferredSmoking) > 0 {
		f.where("p.smoking = ANY(?)", pq.Array([]string(pref.PreferredSmoking)))
	}
	if len(pref.PreferredDrinking) > 0 {
		f.where("p.drinking = ANY(?)", pq.Array([]string(pref.PreferredDrinking)))
	}

	if !pref.AcceptWithChildren {
		f.where("p.have_children = FALSE")
	}
	if !pref.AcceptPhysicallyChallenged {
		f.where("p.physically_challenged = FALSE")
	}
	if pref.ShowOnlyVerifiedProfiles {
		f.where("p.profile_verified = TRUE")
	}

	if pref.MinIncomeUSD != nil {
		f.where("p.annual_income_usd >= ?", *pref.MinIncomeUSD)
	}

	// Opposite gender by default; an explicit preferred-genders list
	// overrides the default rule.
	if len(pref.PreferredGenders) > 0 {
		f.where("u.gender = ANY(?)", pq.Array([]string(pref.PreferredGenders)))
	} else {
		f.where("u.gender <> ?", p.Gender)
	}

	// No existing match record in either direction
	f.where(
		`NOT EXISTS (
            SELECT 1 FROM match_records mr
            WHERE (mr.user_id = ? AND mr.matched_user_id = p.user_id)
               OR (mr.user_id = p.user_id AND mr.matched_user_id = ?)
        )`,
		p.UserID, p.UserID,
	)

	return f
}
