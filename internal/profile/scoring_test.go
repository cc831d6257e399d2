package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string   { return &s }
func intPtr(n int) *int         { return &n }
func fltPtr(f float64) *float64 { return &f }

func sampleProfile() *Profile {
	return &Profile{
		UserID:             1,
		DisplayName:        "Anjali",
		AboutMe:            strPtr("hello"),
		HeightCM:           intPtr(165),
		BodyType:           strPtr("average"),
		CurrentCountry:     "India",
		CurrentCity:        strPtr("Pune"),
		Religion:           "hindu",
		Caste:              strPtr("maratha"),
		LanguagesKnown:     []string{"marathi", "english"},
		EducationLevel:     "masters",
		Occupation:         strPtr("engineer"),
		AnnualIncomeUSD:    fltPtr(40000),
		Diet:               "vegetarian",
		Smoking:            "never",
		Drinking:           "never",
		MaritalStatus:      "never_married",
		FamilyType:         strPtr("nuclear"),
		BirthDate:          time.Now().AddDate(-30, 0, 0),
		ApprovedPhotoCount: 1,
	}
}

func TestCompatibilityScoreIdenticalProfilesClampsAt100(t *testing.T) {
	a := sampleProfile()
	b := sampleProfile()
	b.UserID = 2

	// Every component matches; the raw sum exceeds 100 and is clamped.
	require.Equal(t, 100.0, a.CompatibilityScore(b))
}

func TestCompatibilityScoreNilOther(t *testing.T) {
	require.Equal(t, 0.0, sampleProfile().CompatibilityScore(nil))
}

func TestCompatibilityScoreCasteBonusRequiresSameReligion(t *testing.T) {
	a := sampleProfile()
	b := sampleProfile()
	b.Religion = "christian"

	withCaste := a.CompatibilityScore(b)

	b.Caste = nil
	withoutCaste := a.CompatibilityScore(b)

	// A shared caste earns nothing across different religions.
	require.Equal(t, withoutCaste, withCaste)
}

// sparseProfile sums below the clamp when paired with itself, so
// component deltas stay observable in the final score.
func sparseProfile() *Profile {
	p := sampleProfile()
	p.LanguagesKnown = nil
	p.FamilyType = nil
	return p
}

func TestCompatibilityScoreEducationDistance(t *testing.T) {
	a := sparseProfile()

	base := a.CompatibilityScore(sparseProfile())
	require.Equal(t, 90.0, base)

	oneApart := sparseProfile()
	oneApart.EducationLevel = "bachelors"
	require.Equal(t, base-5, a.CompatibilityScore(oneApart))

	twoApart := sparseProfile()
	twoApart.EducationLevel = "diploma"
	require.Equal(t, base-10, a.CompatibilityScore(twoApart))
}

func TestCompatibilityScoreHeightProximity(t *testing.T) {
	a := sparseProfile()

	near := sparseProfile()
	near.HeightCM = intPtr(172)
	nearScore := a.CompatibilityScore(near)
	require.Equal(t, 90.0, nearScore)

	mid := sparseProfile()
	mid.HeightCM = intPtr(182)
	require.Equal(t, nearScore-5, a.CompatibilityScore(mid))

	far := sparseProfile()
	far.HeightCM = intPtr(190)
	require.Equal(t, nearScore-10, a.CompatibilityScore(far))
}

func openPreference() *Preference {
	return &Preference{
		AcceptWithChildren:         true,
		AcceptPhysicallyChallenged: true,
	}
}

func TestMatchScoreNoCriteriaIsNeutral(t *testing.T) {
	require.Equal(t, 50.0, openPreference().MatchScore(sampleProfile()))
}

func TestMatchScoreNilCandidate(t *testing.T) {
	require.Equal(t, 0.0, openPreference().MatchScore(nil))
}

func TestMatchScoreAgeBand(t *testing.T) {
	pref := openPreference()
	pref.MinAge = 25
	pref.MaxAge = 35

	inBand := sampleProfile() // 30 years old
	require.Equal(t, 100.0, pref.MatchScore(inBand))

	tooOld := sampleProfile()
	tooOld.BirthDate = time.Now().AddDate(-40, 0, 0)
	require.Equal(t, 0.0, pref.MatchScore(tooOld))
}

func TestMatchScoreOpenEndedMaxAge(t *testing.T) {
	pref := openPreference()
	pref.MinAge = 25

	older := sampleProfile()
	older.BirthDate = time.Now().AddDate(-55, 0, 0)
	require.Equal(t, 100.0, pref.MatchScore(older))
}

func TestMatchScorePartiallyMetCriteria(t *testing.T) {
	pref := openPreference()
	pref.PreferredReligions = []string{"hindu"}
	pref.PreferredDiets = []string{"vegan"}

	// Religion matches, diet does not: 1 of 2 criteria met.
	require.Equal(t, 50.0, pref.MatchScore(sampleProfile()))
}

func TestMatchScoreChildrenNotAccepted(t *testing.T) {
	pref := openPreference()
	pref.AcceptWithChildren = false

	withKids := sampleProfile()
	withKids.HaveChildren = true
	require.Equal(t, 0.0, pref.MatchScore(withKids))

	require.Equal(t, 100.0, pref.MatchScore(sampleProfile()))
}

func TestMatchScoreVerifiedOnly(t *testing.T) {
	pref := openPreference()
	pref.ShowOnlyVerifiedProfiles = true

	require.Equal(t, 0.0, pref.MatchScore(sampleProfile()))

	verified := sampleProfile()
	verified.ProfileVerified = true
	require.Equal(t, 100.0, pref.MatchScore(verified))
}

func TestMatchScoreHeightBoundsRequireKnownHeight(t *testing.T) {
	pref := openPreference()
	pref.MinHeightCM = intPtr(160)

	unknown := sampleProfile()
	unknown.HeightCM = nil
	require.Equal(t, 0.0, pref.MatchScore(unknown))
}

func TestComputeCompletion(t *testing.T) {
	require.Equal(t, 100.0, sampleProfile().ComputeCompletion())
	require.Equal(t, 0.0, (&Profile{}).ComputeCompletion())
}
