package matching

import (
	"context"
	"time"

	"github.com/serendiblabs/mangala-backend/internal/profile"
)

// Recorder persists ranked candidates as pending match records with an
// expiry horizon. Duplicate (user, candidate) pairs are skipped
// silently at the persistence layer.
type Recorder struct {
	repo       Repository
	expiryDays int
}

func NewRecorder(repo Repository, expiryDays int) *Recorder {
	return &Recorder{repo: repo, expiryDays: expiryDays}
}

// Record batch-inserts one pending record per ranked candidate
func (r *Recorder) Record(ctx context.Context, userID int64, ranked []*ScoredCandidate, matchType MatchType) error {
	if len(ranked) == 0 {
		return nil
	}

	expiresAt := time.Now().AddDate(0, 0, r.expiryDays)
	records := make([]*MatchRecord, 0, len(ranked))

	for _, c := range ranked {
		records = append(records, &MatchRecord{
			UserID:             userID,
			MatchedUserID:      c.UserID,
			MatchType:          matchType,
			Status:             StatusPending,
			UserAction:         ActionNone,
			MatchedUserAction:  ActionNone,
			CompatibilityScore: c.Scores.Total,
			ProfileScore:       c.Scores.ProfileScore,
			PreferenceScore:    c.Scores.PreferenceScore,
			HoroscopeScore:     c.Scores.HoroscopeScore,
			ActivityScore:      c.Scores.ActivityScore,
			MatchingFactors:    c.Factors,
			ExpiresAt:          &expiresAt,
		})
	}

	return r.repo.CreateRecords(ctx, records)
}

// DeriveMatchingFactors produces the informational tag list for a
// requester/candidate pair. Tags are descriptive only and never feed
// back into scoring.
func DeriveMatchingFactors(requester, candidate *profile.Profile) MatchingFactors {
	var factors MatchingFactors

	if requester.CurrentCountry != "" && requester.CurrentCountry == candidate.CurrentCountry {
		factors = append(factors, "same_country")
		if requester.CurrentCity != nil && candidate.CurrentCity != nil &&
			*requester.CurrentCity == *candidate.CurrentCity {
			factors = append(factors, "same_city")
		}
	}

	if requester.Religion != "" && requester.Religion == candidate.Religion {
		factors = append(factors, "same_religion")
		if requester.Caste != nil && candidate.Caste != nil && *requester.Caste == *candidate.Caste {
			factors = append(factors, "same_caste")
		}
	}

	if requester.EducationLevel != "" && requester.EducationLevel == candidate.EducationLevel {
		factors = append(factors, "similar_education")
	}

	if commonLanguages(requester.LanguagesKnown, candidate.LanguagesKnown) {
		factors = append(factors, "common_languages")
	}

	if requester.Diet != "" && requester.Diet == candidate.Diet {
		factors = append(factors, "same_diet")
	}

	if requester.Smoking != "" && requester.Smoking == candidate.Smoking {
		factors = append(factors, "same_smoking_habits")
	}

	if requester.FamilyType != nil && candidate.FamilyType != nil &&
		*requester.FamilyType == *candidate.FamilyType {
		factors = append(factors, "similar_family_background")
	}

	return factors
}

func commonLanguages(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	known := make(map[string]bool, len(a))
	for _, lang := range a {
		known[lang] = true
	}
	for _, lang := range b {
		if known[lang] {
			return true
		}
	}
	return false
}
