package matching

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/serendiblabs/mangala-backend/internal/profile"
)

func TestDeriveMatchingFactorsFullOverlap(t *testing.T) {
	requester := &profile.Profile{
		CurrentCountry: "India",
		CurrentCity:    strPtr("Chennai"),
		Religion:       "Hindu",
		Caste:          strPtr("Iyer"),
		EducationLevel: "masters",
		LanguagesKnown: pq.StringArray{"Tamil", "English"},
		Diet:           "vegetarian",
		Smoking:        "never",
		FamilyType:     strPtr("joint"),
	}
	candidate := &profile.Profile{
		CurrentCountry: "India",
		CurrentCity:    strPtr("Chennai"),
		Religion:       "Hindu",
		Caste:          strPtr("Iyer"),
		EducationLevel: "masters",
		LanguagesKnown: pq.StringArray{"Tamil"},
		Diet:           "vegetarian",
		Smoking:        "never",
		FamilyType:     strPtr("joint"),
	}

	factors := DeriveMatchingFactors(requester, candidate)

	require.Equal(t, MatchingFactors{
		"same_country",
		"same_city",
		"same_religion",
		"same_caste",
		"similar_education",
		"common_languages",
		"same_diet",
		"same_smoking_habits",
		"similar_family_background",
	}, factors)
}

func TestDeriveMatchingFactorsNoOverlap(t *testing.T) {
	requester := &profile.Profile{
		CurrentCountry: "India",
		Religion:       "Hindu",
		EducationLevel: "masters",
		Diet:           "vegetarian",
		Smoking:        "never",
	}
	candidate := &profile.Profile{
		CurrentCountry: "Nepal",
		Religion:       "Buddhist",
		EducationLevel: "bachelors",
		Diet:           "non_vegetarian",
		Smoking:        "occasionally",
	}

	require.Empty(t, DeriveMatchingFactors(requester, candidate))
}

func TestDeriveMatchingFactorsCasteNeedsReligion(t *testing.T) {
	// Same caste string but different religions must not tag same_caste
	requester := &profile.Profile{Religion: "Hindu", Caste: strPtr("X")}
	candidate := &profile.Profile{Religion: "Jain", Caste: strPtr("X")}

	factors := DeriveMatchingFactors(requester, candidate)
	require.NotContains(t, []string(factors), "same_caste")
}

func TestDeriveMatchingFactorsEmptyFieldsIgnored(t *testing.T) {
	// Two empty profiles share nothing even though fields compare equal
	factors := DeriveMatchingFactors(&profile.Profile{}, &profile.Profile{})
	require.Empty(t, factors)
}
