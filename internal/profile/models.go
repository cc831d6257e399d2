package profile

import (
	"time"

	"github.com/lib/pq"
)

// Profile holds a user's own matrimonial attributes. The matching core
// treats it as read-only; edits come through the profile endpoints.
type Profile struct {
	UserID      int64   `json:"user_id" db:"user_id"`
	DisplayName string  `json:"display_name" db:"display_name"`
	AboutMe     *string `json:"about_me,omitempty" db:"about_me"`

	// Physical
	HeightCM *int    `json:"height_cm,omitempty" db:"height_cm"`
	BodyType *string `json:"body_type,omitempty" db:"body_type"`

	// Location
	CurrentCountry string  `json:"current_country" db:"current_country"`
	CurrentCity    *string `json:"current_city,omitempty" db:"current_city"`

	// Community
	Religion       string         `json:"religion" db:"religion"`
	Caste          *string        `json:"caste,omitempty" db:"caste"`
	LanguagesKnown pq.StringArray `json:"languages_known" db:"languages_known"`

	// Education & career
	EducationLevel  string   `json:"education_level" db:"education_level"`
	Occupation      *string  `json:"occupation,omitempty" db:"occupation"`
	AnnualIncomeUSD *float64 `json:"annual_income_usd,omitempty" db:"annual_income_usd"`

	// Lifestyle
	Diet     string `json:"diet" db:"diet"`
	Smoking  string `json:"smoking" db:"smoking"`
	Drinking string `json:"drinking" db:"drinking"`

	// Family
	MaritalStatus        string  `json:"marital_status" db:"marital_status"`
	HaveChildren         bool    `json:"have_children" db:"have_children"`
	FamilyType           *string `json:"family_type,omitempty" db:"family_type"`
	PhysicallyChallenged bool    `json:"physically_challenged" db:"physically_challenged"`

	// Moderation & quality
	ProfileStatus      string  `json:"profile_status" db:"profile_status"`
	ProfileVerified    bool    `json:"profile_verified" db:"profile_verified"`
	CompletionScore    float64 `json:"completion_score" db:"completion_score"`
	ApprovedPhotoCount int     `json:"approved_photo_count" db:"approved_photo_count"`

	// Joined from the users table for matching
	Gender        string     `json:"gender" db:"gender"`
	BirthDate     time.Time  `json:"birth_date" db:"birth_date"`
	AccountStatus string     `json:"account_status" db:"account_status"`
	IsPremium     bool       `json:"is_premium" db:"is_premium"`
	LastActiveAt  *time.Time `json:"last_active_at,omitempty" db:"last_active_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Preference holds a user's stated partner criteria. Empty lists and
// nil bounds mean "no preference" for that attribute.
type Preference struct {
	UserID int64 `json:"user_id" db:"user_id"`

	MinAge int `json:"min_age" db:"min_age"`
	MaxAge int `json:"max_age" db:"max_age"`

	MinHeightCM *int `json:"min_height_cm,omitempty" db:"min_height_cm"`
	MaxHeightCM *int `json:"max_height_cm,omitempty" db:"max_height_cm"`

	PreferredCountries       pq.StringArray `json:"preferred_countries" db:"preferred_countries"`
	PreferredReligions       pq.StringArray `json:"preferred_religions" db:"preferred_religions"`
	PreferredCastes          pq.StringArray `json:"preferred_castes" db:"preferred_castes"`
	PreferredEducationLevels pq.StringArray `json:"preferred_education_levels" db:"preferred_education_levels"`
	PreferredMaritalStatus   pq.StringArray `json:"preferred_marital_status" db:"preferred_marital_status"`
	PreferredDiets           pq.StringArray `json:"preferred_diets" db:"preferred_diets"`
	PreferredSmoking         pq.StringArray `json:"preferred_smoking" db:"preferred_smoking"`
	PreferredDrinking        pq.StringArray `json:"preferred_drinking" db:"preferred_drinking"`
	PreferredGenders         pq.StringArray `json:"preferred_genders" db:"preferred_genders"`

	MinIncomeUSD *float64 `json:"min_income_usd,omitempty" db:"min_income_usd"`

	AcceptWithChildren         bool `json:"accept_with_children" db:"accept_with_children"`
	AcceptPhysicallyChallenged bool `json:"accept_physically_challenged" db:"accept_physically_challenged"`
	ShowOnlyVerifiedProfiles   bool `json:"show_only_verified_profiles" db:"show_only_verified_profiles"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Horoscope is optional per user; absence forces a neutral horoscope
// contribution during compatibility scoring.
type Horoscope struct {
	UserID         int64   `json:"user_id" db:"user_id"`
	ZodiacSign     string  `json:"zodiac_sign" db:"zodiac_sign"`
	MoonSign       string  `json:"moon_sign" db:"moon_sign"`
	Nakshatra      *string `json:"nakshatra,omitempty" db:"nakshatra"`
	Manglik        bool    `json:"manglik" db:"manglik"`
	GunaMilanScore *int    `json:"guna_milan_score,omitempty" db:"guna_milan_score"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Photo is a profile photo pending or past moderation
type Photo struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	URL       string    `json:"url" db:"url"`
	IsPrimary bool      `json:"is_primary" db:"is_primary"`
	Status    string    `json:"status" db:"status"` // pending / approved / rejected
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Age derives the user's age in whole years from the birth date
func (p *Profile) Age() int {
	return ageAt(p.BirthDate, time.Now())
}

func ageAt(birthDate, now time.Time) int {
	years := now.Year() - birthDate.Year()
	if now.YearDay() < birthDate.YearDay() {
		years--
	}
	return years
}
