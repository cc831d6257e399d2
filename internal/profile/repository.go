package profile

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrPreferenceNotFound = errors.New("preference not found")
	ErrHoroscopeNotFound  = errors.New("horoscope not found")
)

type Repository interface {
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
	UpsertProfile(ctx context.Context, p *Profile) error

	GetPreference(ctx context.Context, userID int64) (*Preference, error)
	UpsertPreference(ctx context.Context, pref *Preference) error

	GetHoroscope(ctx context.Context, userID int64) (*Horoscope, error)
	UpsertHoroscope(ctx context.Context, h *Horoscope) error

	AddPhoto(ctx context.Context, photo *Photo) error
	ListPhotos(ctx context.Context, userID int64) ([]*Photo, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// profileSelect joins the account columns the matching engine needs
// alongside the profile attributes.
const profileSelect = `
    SELECT p.*,
           u.gender, u.birth_date, u.status AS account_status,
           u.is_premium, u.last_active_at,
           (SELECT COUNT(*) FROM profile_photos ph
             WHERE ph.user_id = p.user_id AND ph.status = 'approved') AS approved_photo_count
    FROM profiles p
    JOIN users u ON u.id = p.user_id
`

func (r *postgresRepository) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	var p Profile
	err := r.db.GetContext(ctx, &p, profileSelect+` WHERE p.user_id = $1`, userID)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepository) UpsertProfile(ctx context.Context, p *Profile) error {
	query := `
        INSERT INTO profiles (
            user_id, display_name, about_me, height_cm, body_type,
            current_country, current_city, religion, caste, languages_known,
            education_level, occupation, annual_income_usd,
            diet, smoking, drinking,
            marital_status, have_children, family_type, physically_challenged,
            completion_score
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
        ON CONFLICT (user_id) DO UPDATE SET
            display_name = EXCLUDED.display_name,
            about_me = EXCLUDED.about_me,
            height_cm = EXCLUDED.height_cm,
            body_type = EXCLUDED.body_type,
            current_country = EXCLUDED.current_country,
            current_city = EXCLUDED.current_city,
            religion = EXCLUDED.religion,
            caste = EXCLUDED.caste,
            languages_known = EXCLUDED.languages_known,
            education_level = EXCLUDED.education_level,
            occupation = EXCLUDED.occupation,
            annual_income_usd = EXCLUDED.annual_income_usd,
            diet = EXCLUDED.diet,
            smoking = EXCLUDED.smoking,
            drinking = EXCLUDED.drinking,
            marital_status = EXCLUDED.marital_status,
            have_children = EXCLUDED.have_children,
            family_type = EXCLUDED.family_type,
            physically_challenged = EXCLUDED.physically_challenged,
            completion_score = EXCLUDED.completion_score,
            updated_at = NOW()
        RETURNING created_at, updated_at
    `

	return r.db.QueryRowxContext(
		ctx, query,
		p.UserID, p.DisplayName, p.AboutMe, p.HeightCM, p.BodyType,
		p.CurrentCountry, p.CurrentCity, p.Religion, p.Caste, p.LanguagesKnown,
		p.EducationLevel, p.Occupation, p.AnnualIncomeUSD,
		p.Diet, p.Smoking, p.Drinking,
		p.MaritalStatus, p.HaveChildren, p.FamilyType, p.PhysicallyChallenged,
		p.CompletionScore,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *postgresRepository) GetPreference(ctx context.Context, userID int64) (*Preference, error) {
	var pref Preference
	err := r.db.GetContext(ctx, &pref, `SELECT * FROM preferences WHERE user_id = $1`, userID)
	if err == sql.ErrNoRows {
		return nil, ErrPreferenceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

func (r *postgresRepository) UpsertPreference(ctx context.Context, pref *Preference) error {
	query := `
        INSERT INTO preferences (
            user_id, min_age, max_age, min_height_cm, max_height_cm,
            preferred_countries, preferred_religions, preferred_castes,
            preferred_education_levels, preferred_marital_status,
            preferred_diets, preferred_smoking, preferred_drinking, preferred_genders,
            min_income_usd, accept_with_children, accept_physically_challenged,
            show_only_verified_profiles
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
        ON CONFLICT (user_id) DO UPDATE SET
            min_age = EXCLUDED.min_age,
            max_age = EXCLUDED.max_age,
            min_height_cm = EXCLUDED.min_height_cm,
            max_height_cm = EXCLUDED.max_height_cm,
            preferred_countries = EXCLUDED.preferred_countries,
            preferred_religions = EXCLUDED.preferred_religions,
            preferred_castes = EXCLUDED.preferred_castes,
            preferred_education_levels = EXCLUDED.preferred_education_levels,
            preferred_marital_status = EXCLUDED.preferred_marital_status,
            preferred_diets = EXCLUDED.preferred_diets,
            preferred_smoking = EXCLUDED.preferred_smoking,
            preferred_drinking = EXCLUDED.preferred_drinking,
            preferred_genders = EXCLUDED.preferred_genders,
            min_income_usd = EXCLUDED.min_income_usd,
            accept_with_children = EXCLUDED.accept_with_children,
            accept_physically_challenged = EXCLUDED.accept_physically_challenged,
            show_only_verified_profiles = EXCLUDED.show_only_verified_profiles,
            updated_at = NOW()
        RETURNING created_at, updated_at
    `

	return r.db.QueryRowxContext(
		ctx, query,
		pref.UserID, pref.MinAge, pref.MaxAge, pref.MinHeightCM, pref.MaxHeightCM,
		pref.PreferredCountries, pref.PreferredReligions, pref.PreferredCastes,
		pref.PreferredEducationLevels, pref.PreferredMaritalStatus,
		pref.PreferredDiets, pref.PreferredSmoking, pref.PreferredDrinking, pref.PreferredGenders,
		pref.MinIncomeUSD, pref.AcceptWithChildren, pref.AcceptPhysicallyChallenged,
		pref.ShowOnlyVerifiedProfiles,
	).Scan(&pref.CreatedAt, &pref.UpdatedAt)
}

func (r *postgresRepository) GetHoroscope(ctx context.Context, userID int64) (*Horoscope, error) {
	var h Horoscope
	err := r.db.GetContext(ctx, &h, `SELECT * FROM horoscopes WHERE user_id = $1`, userID)
	if err == sql.ErrNoRows {
		return nil, ErrHoroscopeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *postgresRepository) UpsertHoroscope(ctx context.Context, h *Horoscope) error {
	query := `
        INSERT INTO horoscopes (
            user_id, zodiac_sign, moon_sign, nakshatra, manglik, guna_milan_score
        ) VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (user_id) DO UPDATE SET
            zodiac_sign = EXCLUDED.zodiac_sign,
            moon_sign = EXCLUDED.moon_sign,
            nakshatra = EXCLUDED.nakshatra,
            manglik = EXCLUDED.manglik,
            guna_milan_score = EXCLUDED.guna_milan_score,
            updated_at = NOW()
        RETURNING created_at, updated_at
    `

	return r.db.QueryRowxContext(
		ctx, query,
		h.UserID, h.ZodiacSign, h.MoonSign, h.Nakshatra, h.Manglik, h.GunaMilanScore,
	).Scan(&h.CreatedAt, &h.UpdatedAt)
}

func (r *postgresRepository) AddPhoto(ctx context.Context, photo *Photo) error {
	query := `
        INSERT INTO profile_photos (user_id, url, is_primary, status)
        VALUES ($1, $2, $3, 'pending')
        RETURNING id, status, created_at
    `

	return r.db.QueryRowxContext(
		ctx, query, photo.UserID, photo.URL, photo.IsPrimary,
	).Scan(&photo.ID, &photo.Status, &photo.CreatedAt)
}

func (r *postgresRepository) ListPhotos(ctx context.Context, userID int64) ([]*Photo, error) {
	var photos []*Photo
	err := r.db.SelectContext(ctx, &photos,
		`SELECT * FROM profile_photos WHERE user_id = $1 ORDER BY is_primary DESC, created_at DESC`,
		userID)
	return photos, err
}
