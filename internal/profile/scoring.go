package profile

// Attribute-similarity scoring between two profiles, and preference
// fit of a candidate against a stated Preference. Both return values
// in [0, 100] and are consumed by the matching engine as sub-scores.

// educationRank orders education levels so "one level apart" can earn
// partial credit instead of nothing.
var educationRank = map[string]int{
	"high_school": 0,
	"diploma":     1,
	"bachelors":   2,
	"masters":     3,
	"doctorate":   4,
}

// CompatibilityScore measures attribute similarity between two
// profiles. Component weights sum to 100.
func (p *Profile) CompatibilityScore(other *Profile) float64 {
	if other == nil {
		return 0
	}

	score := 0.0

	// Religion and caste (30)
	if p.Religion != "" && p.Religion == other.Religion {
		score += 20
		if p.Caste != nil && other.Caste != nil && *p.Caste == *other.Caste {
			score += 10
		}
	}

	// Education distance (15)
	if r1, ok := educationRank[p.EducationLevel]; ok {
		if r2, ok := educationRank[other.EducationLevel]; ok {
			switch diff := absInt(r1 - r2); {
			case diff == 0:
				score += 15
			case diff == 1:
				score += 10
			default:
				score += 5
			}
		}
	}

	// Lifestyle (20)
	if p.Diet != "" && p.Diet == other.Diet {
		score += 10
	}
	if p.Smoking != "" && p.Smoking == other.Smoking {
		score += 5
	}
	if p.Drinking != "" && p.Drinking == other.Drinking {
		score += 5
	}

	// Height proximity (10)
	if p.HeightCM != nil && other.HeightCM != nil {
		switch diff := absInt(*p.HeightCM - *other.HeightCM); {
		case diff <= 10:
			score += 10
		case diff <= 20:
			score += 5
		}
	}

	// Shared languages (10)
	if hasCommonString(p.LanguagesKnown, other.LanguagesKnown) {
		score += 10
	}

	// Location (15)
	if p.CurrentCountry != "" && p.CurrentCountry == other.CurrentCountry {
		score += 10
		if p.CurrentCity != nil && other.CurrentCity != nil && *p.CurrentCity == *other.CurrentCity {
			score += 5
		}
	}

	// Family background (10)
	if p.FamilyType != nil && other.FamilyType != nil && *p.FamilyType == *other.FamilyType {
		score += 10
	}

	return clampScore(score)
}

// MatchScore measures how well a candidate satisfies this preference
// set: the share of stated criteria the candidate meets, scaled to
// [0, 100]. With no criteria stated the result is a neutral 50.
func (pref *Preference) MatchScore(candidate *Profile) float64 {
	if candidate == nil {
		return 0
	}

	checked := 0
	met := 0

	check := func(ok bool) {
		checked++
		if ok {
			met++
		}
	}

	if pref.MinAge > 0 || pref.MaxAge > 0 {
		age := candidate.Age()
		check(age >= pref.MinAge && (pref.MaxAge == 0 || age <= pref.MaxAge))
	}

	if pref.MinHeightCM != nil || pref.MaxHeightCM != nil {
		ok := candidate.HeightCM != nil
		if ok && pref.MinHeightCM != nil {
			ok = *candidate.HeightCM >= *pref.MinHeightCM
		}
		if ok && pref.MaxHeightCM != nil {
			ok = *candidate.HeightCM <= *pref.MaxHeightCM
		}
		check(ok)
	}

	if len(pref.PreferredCountries) > 0 {
		check(containsString(pref.PreferredCountries, candidate.CurrentCountry))
	}
	if len(pref.PreferredReligions) > 0 {
		check(containsString(pref.PreferredReligions, candidate.Religion))
	}
	if len(pref.PreferredCastes) > 0 {
		check(candidate.Caste != nil && containsString(pref.PreferredCastes, *candidate.Caste))
	}
	if len(pref.PreferredEducationLevels) > 0 {
		check(containsString(pref.PreferredEducationLevels, candidate.EducationLevel))
	}
	if len(pref.PreferredMaritalStatus) > 0 {
		check(containsString(pref.PreferredMaritalStatus, candidate.MaritalStatus))
	}
	if len(pref.PreferredDiets) > 0 {
		check(containsString(pref.PreferredDiets, candidate.Diet))
	}
	if len(pref.PreferredSmoking) > 0 {
		check(containsString(pref.PreferredSmoking, candidate.Smoking))
	}
	if len(pref.PreferredDrinking) > 0 {
		check(containsString(pref.PreferredDrinking, candidate.Drinking))
	}

	if pref.MinIncomeUSD != nil {
		check(candidate.AnnualIncomeUSD != nil && *candidate.AnnualIncomeUSD >= *pref.MinIncomeUSD)
	}

	if !pref.AcceptWithChildren {
		check(!candidate.HaveChildren)
	}
	if !pref.AcceptPhysicallyChallenged {
		check(!candidate.PhysicallyChallenged)
	}
	if pref.ShowOnlyVerifiedProfiles {
		check(candidate.ProfileVerified)
	}

	if checked == 0 {
		return 50
	}

	return clampScore(float64(met) / float64(checked) * 100)
}

// ComputeCompletion recalculates the profile completion percentage
// from which optional attributes are filled in.
func (p *Profile) ComputeCompletion() float64 {
	fields := []bool{
		p.DisplayName != "",
		p.AboutMe != nil && *p.AboutMe != "",
		p.HeightCM != nil,
		p.BodyType != nil,
		p.CurrentCountry != "",
		p.CurrentCity != nil,
		p.Religion != "",
		p.Caste != nil,
		len(p.LanguagesKnown) > 0,
		p.EducationLevel != "",
		p.Occupation != nil,
		p.AnnualIncomeUSD != nil,
		p.Diet != "",
		p.Smoking != "",
		p.Drinking != "",
		p.MaritalStatus != "",
		p.FamilyType != nil,
		p.ApprovedPhotoCount > 0,
	}

	filled := 0
	for _, ok := range fields {
		if ok {
			filled++
		}
	}

	return float64(filled) / float64(len(fields)) * 100
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

func hasCommonString(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, item := range a {
		set[item] = true
	}
	for _, item := range b {
		if set[item] {
			return true
		}
	}
	return false
}
