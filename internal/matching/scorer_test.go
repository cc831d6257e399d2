package matching

import (
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/serendiblabs/mangala-backend/internal/profile"
)

func strPtr(s string) *string        { return &s }
func intPtr(n int) *int              { return &n }
func timePtr(t time.Time) *time.Time { return &t }

func fullyMatchedPair(now time.Time) (*Requester, *Candidate) {
	base := profile.Profile{
		DisplayName:    "Asha",
		CurrentCountry: "India",
		CurrentCity:    strPtr("Pune"),
		Religion:       "Hindu",
		Caste:          strPtr("Maratha"),
		LanguagesKnown: pq.StringArray{"Marathi", "English"},
		EducationLevel: "masters",
		Diet:           "vegetarian",
		Smoking:        "never",
		Drinking:       "never",
		MaritalStatus:  "never_married",
		FamilyType:     strPtr("nuclear"),
		HeightCM:       intPtr(165),
		BirthDate:      now.AddDate(-28, 0, 0),
	}

	requesterProfile := base
	requesterProfile.UserID = 1

	candidateProfile := base
	candidateProfile.UserID = 2
	candidateProfile.CompletionScore = 100
	candidateProfile.ApprovedPhotoCount = 1
	candidateProfile.LastActiveAt = timePtr(now)

	req := &Requester{
		Profile: &requesterProfile,
		Preference: &profile.Preference{
			PreferredReligions:         pq.StringArray{"Hindu"},
			PreferredDiets:             pq.StringArray{"vegetarian"},
			AcceptWithChildren:         true,
			AcceptPhysicallyChallenged: true,
		},
		Horoscope: &profile.Horoscope{GunaMilanScore: intPtr(36)},
	}

	return req, &Candidate{
		Profile:   &candidateProfile,
		Horoscope: &profile.Horoscope{},
	}
}

func TestScoreFullyMatchedPair(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	req, cand := fullyMatchedPair(now)

	b := NewScorer().scoreAt(req, cand, now)

	require.Equal(t, 100.0, b.ProfileScore)
	require.Equal(t, 100.0, b.PreferenceScore)
	require.Equal(t, 100.0, b.HoroscopeScore)
	require.Equal(t, 100.0, b.ActivityScore)
	require.Equal(t, 100.0, b.Total)
}

func TestFinalScorePremiumBonusCanExceed100(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	req, cand := fullyMatchedPair(now)
	cand.Profile.IsPremium = true

	b := NewScorer().scoreAt(req, cand, now)

	require.Equal(t, 105.0, b.Total)
}

func TestHoroscopeScoreNeutralWhenMissing(t *testing.T) {
	s := NewScorer()

	require.Equal(t, 50.0, s.HoroscopeScore(nil, &profile.Horoscope{}))
	require.Equal(t, 50.0, s.HoroscopeScore(&profile.Horoscope{}, nil))
	require.Equal(t, 50.0, s.HoroscopeScore(nil, nil))
}

func TestHoroscopeScoreGunaMilanWins(t *testing.T) {
	s := NewScorer()

	req := &profile.Horoscope{GunaMilanScore: intPtr(18), ZodiacSign: "leo"}
	cand := &profile.Horoscope{ZodiacSign: "leo"}

	// 18/36 scaled, ignoring the additive factors
	require.Equal(t, 50.0, s.HoroscopeScore(req, cand))

	req.GunaMilanScore = intPtr(27)
	require.Equal(t, 75.0, s.HoroscopeScore(req, cand))
}

func TestHoroscopeScoreManglikMismatchPenalty(t *testing.T) {
	s := NewScorer()

	req := &profile.Horoscope{ZodiacSign: "leo", MoonSign: "aries", Manglik: true}
	cand := &profile.Horoscope{ZodiacSign: "leo", MoonSign: "taurus", Manglik: false}

	// 50 + 15 shared zodiac - 20 manglik mismatch
	require.Equal(t, 45.0, s.HoroscopeScore(req, cand))
}

func TestHoroscopeScoreAdditiveFactors(t *testing.T) {
	s := NewScorer()

	req := &profile.Horoscope{
		ZodiacSign: "leo",
		MoonSign:   "aries",
		Nakshatra:  strPtr("rohini"),
	}
	cand := &profile.Horoscope{
		ZodiacSign: "leo",
		MoonSign:   "leo", // compatible with aries
		Nakshatra:  strPtr("rohini"),
	}

	// 50 + 15 zodiac + 20 moon sign + 15 manglik agreement + 10 nakshatra, clamped
	require.Equal(t, 100.0, s.HoroscopeScore(req, cand))
}

func TestActivityScoreStaleWhenNeverActive(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	p := &profile.Profile{}

	// Missing last-active counts as fully stale: (100-50)*0.6
	require.Equal(t, 30.0, NewScorer().activityScoreAt(p, now))
}

func TestActivityScoreRecencyDecay(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	s := NewScorer()

	active := &profile.Profile{
		LastActiveAt:       timePtr(now.AddDate(0, 0, -5)),
		CompletionScore:    80,
		ApprovedPhotoCount: 2,
	}
	// (100-10)*0.6 + 80*0.3 + 10
	require.Equal(t, 88.0, s.activityScoreAt(active, now))

	dormant := &profile.Profile{
		LastActiveAt:    timePtr(now.AddDate(0, 0, -60)),
		CompletionScore: 80,
	}
	// decay caps at 50: (100-50)*0.6 + 80*0.3
	require.Equal(t, 54.0, s.activityScoreAt(dormant, now))
}

func TestQuickScoreNilSafe(t *testing.T) {
	s := NewScorer()

	require.Equal(t, 0.0, s.QuickScore(nil, &profile.Profile{}))
	require.Equal(t, 0.0, s.QuickScore(&profile.Profile{}, nil))
}

func TestScoreRoundsToTwoDecimals(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	req, cand := fullyMatchedPair(now)
	cand.Profile.CompletionScore = 77.7

	b := NewScorer().scoreAt(req, cand, now)

	// activity = 60 + 77.7*0.3 + 10 = 93.31, total = 99.331 rounded
	require.Equal(t, 99.33, b.Total)
}
