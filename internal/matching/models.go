package matching

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/serendiblabs/mangala-backend/internal/profile"
)

// MatchStatus is the lifecycle state of a directed match record
type MatchStatus string

const (
	StatusPending    MatchStatus = "pending"
	StatusLiked      MatchStatus = "liked"
	StatusSuperLiked MatchStatus = "super_liked"
	StatusDisliked   MatchStatus = "disliked"
	StatusBlocked    MatchStatus = "blocked"
	StatusMutual     MatchStatus = "mutual"
	StatusExpired    MatchStatus = "expired"
)

// MatchAction is a party's recorded action on a match record
type MatchAction string

const (
	ActionNone       MatchAction = "none"
	ActionLiked      MatchAction = "liked"
	ActionSuperLiked MatchAction = "super_liked"
	ActionDisliked   MatchAction = "disliked"
	ActionBlocked    MatchAction = "blocked"
)

// IsPositive reports whether the action counts toward reciprocity
func (a MatchAction) IsPositive() bool {
	return a == ActionLiked || a == ActionSuperLiked
}

// MatchType tags the context a record was created in
type MatchType string

const (
	TypeAISuggestion      MatchType = "ai_suggestion"
	TypeSearchResult      MatchType = "search_result"
	TypeMutualInterest    MatchType = "mutual_interest"
	TypePremiumSuggestion MatchType = "premium_suggestion"
)

// MatchingFactors is the informational tag list stored alongside a
// record; it plays no part in scoring.
type MatchingFactors []string

// Value implements driver.Valuer so factors persist as JSONB
func (f MatchingFactors) Value() (driver.Value, error) {
	if f == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(f)
}

// Scan implements sql.Scanner
func (f *MatchingFactors) Scan(value interface{}) error {
	if value == nil {
		*f = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, f)
}

// MatchRecord is the directed (initiator, candidate) pair row. The two
// rows A→B and B→A jointly represent one relationship; both flip to
// mutual together when reciprocity is detected.
type MatchRecord struct {
	ID            int64       `json:"id" db:"id"`
	UserID        int64       `json:"user_id" db:"user_id"`
	MatchedUserID int64       `json:"matched_user_id" db:"matched_user_id"`
	MatchType     MatchType   `json:"match_type" db:"match_type"`
	Status        MatchStatus `json:"status" db:"status"`

	UserAction          MatchAction `json:"user_action" db:"user_action"`
	UserActionAt        *time.Time  `json:"user_action_at,omitempty" db:"user_action_at"`
	MatchedUserAction   MatchAction `json:"matched_user_action" db:"matched_user_action"`
	MatchedUserActionAt *time.Time  `json:"matched_user_action_at,omitempty" db:"matched_user_action_at"`

	CompatibilityScore float64 `json:"compatibility_score" db:"compatibility_score"`
	ProfileScore       float64 `json:"profile_score" db:"profile_score"`
	PreferenceScore    float64 `json:"preference_score" db:"preference_score"`
	HoroscopeScore     float64 `json:"horoscope_score" db:"horoscope_score"`
	ActivityScore      float64 `json:"activity_score" db:"activity_score"`

	MatchingFactors MatchingFactors `json:"matching_factors" db:"matching_factors"`

	ConversationID         *int64     `json:"conversation_id,omitempty" db:"conversation_id"`
	CanCommunicate         bool       `json:"can_communicate" db:"can_communicate"`
	CommunicationStartedAt *time.Time `json:"communication_started_at,omitempty" db:"communication_started_at"`

	ExpiresAt *time.Time `json:"expires_at,omitempty" db:"expires_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`

	// Joined candidate profile for listing endpoints
	MatchedProfile *profile.Profile `json:"matched_profile,omitempty"`
}

// ScoreBreakdown carries the four sub-scores and the weighted total
type ScoreBreakdown struct {
	ProfileScore    float64 `json:"profile_score"`
	PreferenceScore float64 `json:"preference_score"`
	HoroscopeScore  float64 `json:"horoscope_score"`
	ActivityScore   float64 `json:"activity_score"`
	Total           float64 `json:"total"`
}

// Candidate is a filtered profile plus its optional horoscope, ready
// for scoring
type Candidate struct {
	Profile   *profile.Profile
	Horoscope *profile.Horoscope
}

// ScoredCandidate is a ranked candidate returned to the caller
type ScoredCandidate struct {
	Rank    int              `json:"rank"`
	UserID  int64            `json:"user_id"`
	Profile *profile.Profile `json:"profile"`
	Scores  *ScoreBreakdown  `json:"scores"`
	Factors MatchingFactors  `json:"factors"`
}
