package audit

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// Entry is one immutable audit row. Entries are written for match
// actions and never updated or deleted.
type Entry struct {
	ID           int64     `json:"id" db:"id"`
	UserID       int64     `json:"user_id" db:"user_id"`
	TargetUserID int64     `json:"target_user_id" db:"target_user_id"`
	Action       string    `json:"action" db:"action"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type Repository interface {
	Insert(ctx context.Context, entry *Entry) error
	ListForUser(ctx context.Context, userID int64, limit int) ([]*Entry, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Insert(ctx context.Context, entry *Entry) error {
	return r.db.GetContext(ctx, entry, `
		INSERT INTO audit_logs (user_id, target_user_id, action)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, target_user_id, action, created_at`,
		entry.UserID, entry.TargetUserID, entry.Action,
	)
}

func (r *postgresRepository) ListForUser(ctx context.Context, userID int64, limit int) ([]*Entry, error) {
	entries := []*Entry{}
	err := r.db.SelectContext(ctx, &entries, `
		SELECT id, user_id, target_user_id, action, created_at
		FROM audit_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		userID, limit,
	)
	return entries, err
}

// Service records match-state transitions
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) RecordAction(ctx context.Context, userID, targetID int64, action string) error {
	return s.repo.Insert(ctx, &Entry{
		UserID:       userID,
		TargetUserID: targetID,
		Action:       action,
	})
}

func (s *Service) GetHistory(ctx context.Context, userID int64, limit int) ([]*Entry, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	return s.repo.ListForUser(ctx, userID, limit)
}
