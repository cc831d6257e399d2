package matching

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/serendiblabs/mangala-backend/internal/profile"
)

var ErrRecordNotFound = errors.New("match record not found")

type Repository interface {
	FindCandidates(ctx context.Context, f *CandidateFilter) ([]*profile.Profile, error)
	GetProfiles(ctx context.Context, userIDs []int64) (map[int64]*profile.Profile, error)
	GetHoroscopes(ctx context.Context, userIDs []int64) (map[int64]*profile.Horoscope, error)

	CreateRecords(ctx context.Context, records []*MatchRecord) error
	GetRecord(ctx context.Context, userID, matchedUserID int64) (*MatchRecord, error)
	GetMutualMatches(ctx context.Context, userID int64) ([]*MatchRecord, error)
	GetWhoLikedMe(ctx context.Context, userID int64) ([]*MatchRecord, error)
	CanCommunicate(ctx context.Context, userID, otherID int64) (bool, error)

	ExpirePending(ctx context.Context, cutoff time.Time) (int64, error)
	GetActiveUserIDs(ctx context.Context, activeSince time.Time) ([]int64, error)

	// WithTx runs fn inside a transaction; the like/mutual state
	// machine uses it to hold row locks across the reciprocity check.
	WithTx(ctx context.Context, fn func(tx MatchTx) error) error
}

// MatchTx is the transactional surface of the like/mutual flow
type MatchTx interface {
	LockPair(ctx context.Context, userID, otherID int64) (forward, reverse *MatchRecord, err error)
	CreateRecord(ctx context.Context, rec *MatchRecord) error
	UpdateRecordActions(ctx context.Context, rec *MatchRecord) error
	MarkMutual(ctx context.Context, userID, otherID, conversationID int64, at time.Time) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// candidateSelect mirrors the profile store's joined shape so filter
// results scan straight into profile.Profile.
const candidateSelect = `
    SELECT p.*,
           u.gender, u.birth_date, u.status AS account_status,
           u.is_premium, u.last_active_at,
           (SELECT COUNT(*) FROM profile_photos ph
             WHERE ph.user_id = p.user_id AND ph.status = 'approved') AS approved_photo_count
    FROM profiles p
    JOIN users u ON u.id = p.user_id
`

func (r *postgresRepository) FindCandidates(ctx context.Context, f *CandidateFilter) ([]*profile.Profile, error) {
	var (
		predicates []string
		args       []interface{}
	)
	for _, clause := range f.Clauses {
		predicates = append(predicates, clause.Expr)
		args = append(args, clause.Args...)
	}

	query := candidateSelect
	if len(predicates) > 0 {
		query += " WHERE " + strings.Join(predicates, " AND ")
	}
	if len(f.OrderBy) > 0 {
		query += " ORDER BY " + strings.Join(f.OrderBy, ", ")
	}
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	query = sqlx.Rebind(sqlx.DOLLAR, query)

	var candidates []*profile.Profile
	if err := r.db.SelectContext(ctx, &candidates, query, args...); err != nil {
		return nil, err
	}
	return candidates, nil
}

func (r *postgresRepository) GetProfiles(ctx context.Context, userIDs []int64) (map[int64]*profile.Profile, error) {
	result := make(map[int64]*profile.Profile, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	var profiles []*profile.Profile
	err := r.db.SelectContext(ctx, &profiles,
		candidateSelect+` WHERE p.user_id = ANY($1)`, pq.Array(userIDs))
	if err != nil {
		return nil, err
	}

	for _, p := range profiles {
		result[p.UserID] = p
	}
	return result, nil
}

func (r *postgresRepository) GetHoroscopes(ctx context.Context, userIDs []int64) (map[int64]*profile.Horoscope, error) {
	result := make(map[int64]*profile.Horoscope, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	var horoscopes []*profile.Horoscope
	err := r.db.SelectContext(ctx, &horoscopes,
		`SELECT * FROM horoscopes WHERE user_id = ANY($1)`, pq.Array(userIDs))
	if err != nil {
		return nil, err
	}

	for _, h := range horoscopes {
		result[h.UserID] = h
	}
	return result, nil
}

const insertRecord = `
    INSERT INTO match_records (
        user_id, matched_user_id, match_type, status,
        user_action, user_action_at, matched_user_action, matched_user_action_at,
        compatibility_score, profile_score, preference_score, horoscope_score, activity_score,
        matching_factors, expires_at
    ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
`

func (r *postgresRepository) CreateRecords(ctx context.Context, records []*MatchRecord) error {
	// Duplicates are skipped rather than surfaced; the filter stage is
	// expected to have excluded existing pairs already.
	query := insertRecord + ` ON CONFLICT (user_id, matched_user_id) DO NOTHING`

	for _, rec := range records {
		_, err := r.db.ExecContext(
			ctx, query,
			rec.UserID, rec.MatchedUserID, rec.MatchType, rec.Status,
			rec.UserAction, rec.UserActionAt, rec.MatchedUserAction, rec.MatchedUserActionAt,
			rec.CompatibilityScore, rec.ProfileScore, rec.PreferenceScore, rec.HoroscopeScore, rec.ActivityScore,
			rec.MatchingFactors, rec.ExpiresAt,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresRepository) GetRecord(ctx context.Context, userID, matchedUserID int64) (*MatchRecord, error) {
	var rec MatchRecord
	err := r.db.GetContext(ctx, &rec,
		`SELECT * FROM match_records WHERE user_id = $1 AND matched_user_id = $2`,
		userID, matchedUserID)
	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *postgresRepository) GetMutualMatches(ctx context.Context, userID int64) ([]*MatchRecord, error) {
	var records []*MatchRecord
	err := r.db.SelectContext(ctx, &records, `
        SELECT * FROM match_records
        WHERE user_id = $1 AND status = 'mutual'
        ORDER BY communication_started_at DESC NULLS LAST, updated_at DESC
    `, userID)
	return records, err
}

func (r *postgresRepository) GetWhoLikedMe(ctx context.Context, userID int64) ([]*MatchRecord, error) {
	var records []*MatchRecord
	err := r.db.SelectContext(ctx, &records, `
        SELECT * FROM match_records
        WHERE matched_user_id = $1
          AND user_action IN ('liked', 'super_liked')
          AND status <> 'mutual'
        ORDER BY user_action_at DESC
    `, userID)
	return records, err
}

func (r *postgresRepository) CanCommunicate(ctx context.Context, userID, otherID int64) (bool, error) {
	var can bool
	err := r.db.GetContext(ctx, &can, `
        SELECT can_communicate FROM match_records
        WHERE user_id = $1 AND matched_user_id = $2
    `, userID, otherID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return can, nil
}

func (r *postgresRepository) ExpirePending(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
        UPDATE match_records
        SET status = 'expired', updated_at = NOW()
        WHERE status = 'pending' AND expires_at < $1
    `, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *postgresRepository) GetActiveUserIDs(ctx context.Context, activeSince time.Time) ([]int64, error) {
	var ids []int64
	err := r.db.SelectContext(ctx, &ids, `
        SELECT id FROM users
        WHERE status = 'active' AND last_active_at >= $1
        ORDER BY last_active_at DESC
    `, activeSince)
	return ids, err
}

func (r *postgresRepository) WithTx(ctx context.Context, fn func(tx MatchTx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(&matchTx{tx: tx}); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

type matchTx struct {
	tx *sqlx.Tx
}

// LockPair serializes the two directed rows of an unordered user pair.
// The advisory lock covers the case where neither row exists yet: a
// FOR UPDATE over an empty result set acquires nothing, so without it
// two first-contact reciprocal likes can each insert their own row and
// neither sees the other's.
func (t *matchTx) LockPair(ctx context.Context, userID, otherID int64) (*MatchRecord, *MatchRecord, error) {
	_, err := t.tx.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(least($1, $2)::int, greatest($1, $2)::int)`,
		userID, otherID)
	if err != nil {
		return nil, nil, err
	}

	var rows []*MatchRecord
	err = t.tx.SelectContext(ctx, &rows, `
        SELECT * FROM match_records
        WHERE (user_id = $1 AND matched_user_id = $2)
           OR (user_id = $2 AND matched_user_id = $1)
        ORDER BY user_id
        FOR UPDATE
    `, userID, otherID)
	if err != nil {
		return nil, nil, err
	}

	var forward, reverse *MatchRecord
	for _, rec := range rows {
		if rec.UserID == userID {
			forward = rec
		} else {
			reverse = rec
		}
	}
	return forward, reverse, nil
}

func (t *matchTx) CreateRecord(ctx context.Context, rec *MatchRecord) error {
	query := insertRecord + ` RETURNING id, created_at, updated_at`

	return t.tx.QueryRowxContext(
		ctx, query,
		rec.UserID, rec.MatchedUserID, rec.MatchType, rec.Status,
		rec.UserAction, rec.UserActionAt, rec.MatchedUserAction, rec.MatchedUserActionAt,
		rec.CompatibilityScore, rec.ProfileScore, rec.PreferenceScore, rec.HoroscopeScore, rec.ActivityScore,
		rec.MatchingFactors, rec.ExpiresAt,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
}

func (t *matchTx) UpdateRecordActions(ctx context.Context, rec *MatchRecord) error {
	_, err := t.tx.ExecContext(ctx, `
        UPDATE match_records
        SET status = $2,
            user_action = $3, user_action_at = $4,
            matched_user_action = $5, matched_user_action_at = $6,
            updated_at = NOW()
        WHERE id = $1
    `, rec.ID, rec.Status,
		rec.UserAction, rec.UserActionAt,
		rec.MatchedUserAction, rec.MatchedUserActionAt)
	return err
}

// MarkMutual flips both directed rows in one statement so the pair
// can never be observed half-mutual.
func (t *matchTx) MarkMutual(ctx context.Context, userID, otherID, conversationID int64, at time.Time) error {
	_, err := t.tx.ExecContext(ctx, `
        UPDATE match_records
        SET status = 'mutual',
            can_communicate = TRUE,
            communication_started_at = $3,
            conversation_id = $4,
            updated_at = NOW()
        WHERE (user_id = $1 AND matched_user_id = $2)
           OR (user_id = $2 AND matched_user_id = $1)
    `, userID, otherID, at, conversationID)
	return err
}
