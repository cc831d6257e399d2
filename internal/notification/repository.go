package notification

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrContactNotFound = errors.New("user contact not found")

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ListForUser(ctx context.Context, userID int64, limit int) ([]*Notification, error)
	MarkRead(ctx context.Context, userID, notificationID int64) error
	CountUnread(ctx context.Context, userID int64) (int, error)

	GetContact(ctx context.Context, userID int64) (*Contact, error)
	RegisterDeviceToken(ctx context.Context, token *DeviceToken) error
	GetDeviceTokens(ctx context.Context, userID int64) ([]string, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, n *Notification) error {
	return r.db.GetContext(ctx, n, `
		INSERT INTO notifications (user_id, type, title, body)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, type, title, body, is_read, read_at, created_at`,
		n.UserID, n.Type, n.Title, n.Body,
	)
}

func (r *postgresRepository) ListForUser(ctx context.Context, userID int64, limit int) ([]*Notification, error) {
	notifications := []*Notification{}
	err := r.db.SelectContext(ctx, &notifications, `
		SELECT id, user_id, type, title, body, is_read, read_at, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		userID, limit,
	)
	return notifications, err
}

func (r *postgresRepository) MarkRead(ctx context.Context, userID, notificationID int64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE notifications
		SET is_read = TRUE, read_at = $1
		WHERE id = $2 AND user_id = $3`,
		time.Now(), notificationID, userID,
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *postgresRepository) CountUnread(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM notifications
		WHERE user_id = $1 AND is_read = FALSE`,
		userID,
	)
	return count, err
}

func (r *postgresRepository) GetContact(ctx context.Context, userID int64) (*Contact, error) {
	var contact Contact
	err := r.db.GetContext(ctx, &contact, `
		SELECT u.id AS user_id, u.email, u.phone,
		       COALESCE(p.display_name, '') AS display_name
		FROM users u
		LEFT JOIN profiles p ON p.user_id = u.id
		WHERE u.id = $1`,
		userID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrContactNotFound
	}
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *postgresRepository) RegisterDeviceToken(ctx context.Context, token *DeviceToken) error {
	return r.db.GetContext(ctx, token, `
		INSERT INTO device_tokens (user_id, token, platform)
		VALUES ($1, $2, $3)
		ON CONFLICT (token) DO UPDATE SET user_id = $1, platform = $3
		RETURNING id, user_id, token, platform, created_at`,
		token.UserID, token.Token, token.Platform,
	)
}

func (r *postgresRepository) GetDeviceTokens(ctx context.Context, userID int64) ([]string, error) {
	tokens := []string{}
	err := r.db.SelectContext(ctx, &tokens, `
		SELECT token FROM device_tokens WHERE user_id = $1`,
		userID,
	)
	return tokens, err
}
