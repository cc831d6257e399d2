package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/jmoiron/sqlx"
)

// runMigrations creates the schema if it does not exist yet
func runMigrations(db *sqlx.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			phone VARCHAR(20) UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			gender VARCHAR(20) NOT NULL,
			birth_date DATE NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'active',
			is_premium BOOLEAN NOT NULL DEFAULT FALSE,
			last_active_at TIMESTAMP WITH TIME ZONE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS profiles (
			user_id BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			display_name VARCHAR(100) NOT NULL DEFAULT '',
			about_me TEXT,
			height_cm INTEGER,
			body_type VARCHAR(50),
			current_country VARCHAR(100) NOT NULL DEFAULT '',
			current_city VARCHAR(100),
			religion VARCHAR(50) NOT NULL DEFAULT '',
			caste VARCHAR(100),
			languages_known TEXT[] NOT NULL DEFAULT '{}',
			education_level VARCHAR(50) NOT NULL DEFAULT '',
			occupation VARCHAR(100),
			annual_income_usd NUMERIC,
			diet VARCHAR(30) NOT NULL DEFAULT '',
			smoking VARCHAR(30) NOT NULL DEFAULT '',
			drinking VARCHAR(30) NOT NULL DEFAULT '',
			marital_status VARCHAR(30) NOT NULL DEFAULT 'never_married',
			have_children BOOLEAN NOT NULL DEFAULT FALSE,
			family_type VARCHAR(30),
			physically_challenged BOOLEAN NOT NULL DEFAULT FALSE,
			profile_status VARCHAR(20) NOT NULL DEFAULT 'pending',
			profile_verified BOOLEAN NOT NULL DEFAULT FALSE,
			completion_score NUMERIC NOT NULL DEFAULT 0,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS preferences (
			user_id BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			min_age INTEGER NOT NULL DEFAULT 0,
			max_age INTEGER NOT NULL DEFAULT 0,
			min_height_cm INTEGER,
			max_height_cm INTEGER,
			preferred_countries TEXT[] NOT NULL DEFAULT '{}',
			preferred_religions TEXT[] NOT NULL DEFAULT '{}',
			preferred_castes TEXT[] NOT NULL DEFAULT '{}',
			preferred_education_levels TEXT[] NOT NULL DEFAULT '{}',
			preferred_marital_status TEXT[] NOT NULL DEFAULT '{}',
			preferred_diets TEXT[] NOT NULL DEFAULT '{}',
			preferred_smoking TEXT[] NOT NULL DEFAULT '{}',
			preferred_drinking TEXT[] NOT NULL DEFAULT '{}',
			preferred_genders TEXT[] NOT NULL DEFAULT '{}',
			min_income_usd NUMERIC,
			accept_with_children BOOLEAN NOT NULL DEFAULT TRUE,
			accept_physically_challenged BOOLEAN NOT NULL DEFAULT TRUE,
			show_only_verified_profiles BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS horoscopes (
			user_id BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			zodiac_sign VARCHAR(30) NOT NULL DEFAULT '',
			moon_sign VARCHAR(30) NOT NULL DEFAULT '',
			nakshatra VARCHAR(50),
			manglik BOOLEAN NOT NULL DEFAULT FALSE,
			guna_milan_score INTEGER,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS profile_photos (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			url TEXT NOT NULL,
			is_primary BOOLEAN NOT NULL DEFAULT FALSE,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS match_records (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			matched_user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			match_type VARCHAR(30) NOT NULL DEFAULT 'ai_suggestion',
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			user_action VARCHAR(20) NOT NULL DEFAULT 'none',
			user_action_at TIMESTAMP WITH TIME ZONE,
			matched_user_action VARCHAR(20) NOT NULL DEFAULT 'none',
			matched_user_action_at TIMESTAMP WITH TIME ZONE,
			compatibility_score NUMERIC NOT NULL DEFAULT 0,
			profile_score NUMERIC NOT NULL DEFAULT 0,
			preference_score NUMERIC NOT NULL DEFAULT 0,
			horoscope_score NUMERIC NOT NULL DEFAULT 0,
			activity_score NUMERIC NOT NULL DEFAULT 0,
			matching_factors JSONB NOT NULL DEFAULT '[]',
			conversation_id BIGINT,
			can_communicate BOOLEAN NOT NULL DEFAULT FALSE,
			communication_started_at TIMESTAMP WITH TIME ZONE,
			expires_at TIMESTAMP WITH TIME ZONE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT unique_match_pair UNIQUE(user_id, matched_user_id),
			CONSTRAINT no_self_match CHECK (user_id <> matched_user_id)
		)`,

		`CREATE TABLE IF NOT EXISTS conversations (
			id BIGSERIAL PRIMARY KEY,
			user1_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			user2_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			last_message_at TIMESTAMP WITH TIME ZONE,
			last_message_preview TEXT,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT unique_conversation_pair UNIQUE(user1_id, user2_id),
			CONSTRAINT ordered_conversation_pair CHECK (user1_id < user2_id)
		)`,

		`CREATE TABLE IF NOT EXISTS messages (
			id BIGSERIAL PRIMARY KEY,
			conversation_id BIGINT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
			sender_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			content TEXT NOT NULL,
			message_type VARCHAR(20) NOT NULL DEFAULT 'text',
			is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
			read_at TIMESTAMP WITH TIME ZONE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS notifications (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			type VARCHAR(30) NOT NULL,
			title VARCHAR(200) NOT NULL,
			body TEXT NOT NULL,
			is_read BOOLEAN NOT NULL DEFAULT FALSE,
			read_at TIMESTAMP WITH TIME ZONE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS device_tokens (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			token TEXT NOT NULL UNIQUE,
			platform VARCHAR(20) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS audit_logs (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL,
			target_user_id BIGINT NOT NULL,
			action VARCHAR(30) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_users_status_active ON users(status, last_active_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_profiles_filter ON profiles(profile_status, religion, current_country)`,
		`CREATE INDEX IF NOT EXISTS idx_profile_photos_user ON profile_photos(user_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_match_records_user ON match_records(user_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_match_records_target ON match_records(matched_user_id, user_action)`,
		`CREATE INDEX IF NOT EXISTS idx_match_records_expiry ON match_records(status, expires_at)`,
		`CREATE INDEX IF NOT EXISTS idx_conversations_users ON conversations(user1_id, user2_id)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, id DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, is_read, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_logs_user ON audit_logs(user_id, created_at DESC)`,
	}

	for i, migration := range migrations {
		log.Printf("   - Running migration %d/%d...", i+1, len(migrations))
		if _, err := db.Exec(migration); err != nil {
			if !strings.Contains(err.Error(), "already exists") {
				return fmt.Errorf("migration %d failed: %w", i+1, err)
			}
			log.Printf("   - Migration %d skipped (already exists)", i+1)
		}
	}

	log.Println("   ✅ All migrations executed successfully")
	return nil
}
