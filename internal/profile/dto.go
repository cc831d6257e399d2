package profile

// DTOs for profile, preference and horoscope edits

type UpdateProfileDTO struct {
	DisplayName          string   `json:"display_name" validate:"required,min=2,max=100"`
	AboutMe              string   `json:"about_me,omitempty" validate:"omitempty,max=2000"`
	HeightCM             *int     `json:"height_cm,omitempty" validate:"omitempty,gte=100,lte=250"`
	BodyType             string   `json:"body_type,omitempty"`
	CurrentCountry       string   `json:"current_country" validate:"required"`
	CurrentCity          string   `json:"current_city,omitempty"`
	Religion             string   `json:"religion" validate:"required"`
	Caste                string   `json:"caste,omitempty"`
	LanguagesKnown       []string `json:"languages_known,omitempty"`
	EducationLevel       string   `json:"education_level" validate:"required,oneof=high_school diploma bachelors masters doctorate"`
	Occupation           string   `json:"occupation,omitempty"`
	AnnualIncomeUSD      *float64 `json:"annual_income_usd,omitempty" validate:"omitempty,gte=0"`
	Diet                 string   `json:"diet" validate:"required,oneof=vegetarian non_vegetarian vegan eggetarian"`
	Smoking              string   `json:"smoking" validate:"required,oneof=never occasionally regularly"`
	Drinking             string   `json:"drinking" validate:"required,oneof=never occasionally regularly"`
	MaritalStatus        string   `json:"marital_status" validate:"required,oneof=never_married divorced widowed separated"`
	HaveChildren         bool     `json:"have_children"`
	FamilyType           string   `json:"family_type,omitempty" validate:"omitempty,oneof=nuclear joint extended"`
	PhysicallyChallenged bool     `json:"physically_challenged"`
}

type UpdatePreferenceDTO struct {
	MinAge int `json:"min_age" validate:"required,gte=18,lte=80"`
	MaxAge int `json:"max_age" validate:"required,gtefield=MinAge,lte=80"`

	MinHeightCM *int `json:"min_height_cm,omitempty" validate:"omitempty,gte=100,lte=250"`
	MaxHeightCM *int `json:"max_height_cm,omitempty" validate:"omitempty,gte=100,lte=250"`

	PreferredCountries       []string `json:"preferred_countries,omitempty"`
	PreferredReligions       []string `json:"preferred_religions,omitempty"`
	PreferredCastes          []string `json:"preferred_castes,omitempty"`
	PreferredEducationLevels []string `json:"preferred_education_levels,omitempty"`
	PreferredMaritalStatus   []string `json:"preferred_marital_status,omitempty"`
	PreferredDiets           []string `json:"preferred_diets,omitempty"`
	PreferredSmoking         []string `json:"preferred_smoking,omitempty"`
	PreferredDrinking        []string `json:"preferred_drinking,omitempty"`
	PreferredGenders         []string `json:"preferred_genders,omitempty"`

	MinIncomeUSD *float64 `json:"min_income_usd,omitempty" validate:"omitempty,gte=0"`

	AcceptWithChildren         bool `json:"accept_with_children"`
	AcceptPhysicallyChallenged bool `json:"accept_physically_challenged"`
	ShowOnlyVerifiedProfiles   bool `json:"show_only_verified_profiles"`
}

type UpdateHoroscopeDTO struct {
	ZodiacSign     string `json:"zodiac_sign" validate:"required"`
	MoonSign       string `json:"moon_sign" validate:"required"`
	Nakshatra      string `json:"nakshatra,omitempty"`
	Manglik        bool   `json:"manglik"`
	GunaMilanScore *int   `json:"guna_milan_score,omitempty" validate:"omitempty,gte=0,lte=36"`
}

func (dto *UpdateProfileDTO) toProfile(userID int64) *Profile {
	p := &Profile{
		UserID:               userID,
		DisplayName:          dto.DisplayName,
		CurrentCountry:       dto.CurrentCountry,
		Religion:             dto.Religion,
		LanguagesKnown:       dto.LanguagesKnown,
		EducationLevel:       dto.EducationLevel,
		AnnualIncomeUSD:      dto.AnnualIncomeUSD,
		Diet:                 dto.Diet,
		Smoking:              dto.Smoking,
		Drinking:             dto.Drinking,
		MaritalStatus:        dto.MaritalStatus,
		HaveChildren:         dto.HaveChildren,
		PhysicallyChallenged: dto.PhysicallyChallenged,
		HeightCM:             dto.HeightCM,
	}

	if dto.AboutMe != "" {
		p.AboutMe = &dto.AboutMe
	}
	if dto.BodyType != "" {
		p.BodyType = &dto.BodyType
	}
	if dto.CurrentCity != "" {
		p.CurrentCity = &dto.CurrentCity
	}
	if dto.Caste != "" {
		p.Caste = &dto.Caste
	}
	if dto.Occupation != "" {
		p.Occupation = &dto.Occupation
	}
	if dto.FamilyType != "" {
		p.FamilyType = &dto.FamilyType
	}

	return p
}

func (dto *UpdatePreferenceDTO) toPreference(userID int64) *Preference {
	return &Preference{
		UserID:                     userID,
		MinAge:                     dto.MinAge,
		MaxAge:                     dto.MaxAge,
		MinHeightCM:                dto.MinHeightCM,
		MaxHeightCM:                dto.MaxHeightCM,
		PreferredCountries:         dto.PreferredCountries,
		PreferredReligions:         dto.PreferredReligions,
		PreferredCastes:            dto.PreferredCastes,
		PreferredEducationLevels:   dto.PreferredEducationLevels,
		PreferredMaritalStatus:     dto.PreferredMaritalStatus,
		PreferredDiets:             dto.PreferredDiets,
		PreferredSmoking:           dto.PreferredSmoking,
		PreferredDrinking:          dto.PreferredDrinking,
		PreferredGenders:           dto.PreferredGenders,
		MinIncomeUSD:               dto.MinIncomeUSD,
		AcceptWithChildren:         dto.AcceptWithChildren,
		AcceptPhysicallyChallenged: dto.AcceptPhysicallyChallenged,
		ShowOnlyVerifiedProfiles:   dto.ShowOnlyVerifiedProfiles,
	}
}

func (dto *UpdateHoroscopeDTO) toHoroscope(userID int64) *Horoscope {
	h := &Horoscope{
		UserID:         userID,
		ZodiacSign:     dto.ZodiacSign,
		MoonSign:       dto.MoonSign,
		Manglik:        dto.Manglik,
		GunaMilanScore: dto.GunaMilanScore,
	}
	if dto.Nakshatra != "" {
		h.Nakshatra = &dto.Nakshatra
	}
	return h
}
