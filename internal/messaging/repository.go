package messaging

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrConversationNotFound = errors.New("conversation not found")

type Repository interface {
	GetOrCreateConversation(ctx context.Context, user1ID, user2ID int64) (*Conversation, error)
	GetConversation(ctx context.Context, id int64) (*Conversation, error)
	ListConversations(ctx context.Context, userID int64) ([]*Conversation, error)

	CreateMessage(ctx context.Context, msg *Message) error
	ListMessages(ctx context.Context, conversationID int64, beforeID int64, limit int) ([]*Message, error)
	MarkRead(ctx context.Context, conversationID, readerID int64, at time.Time) error
	DeleteMessage(ctx context.Context, messageID, senderID int64) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetOrCreateConversation(ctx context.Context, user1ID, user2ID int64) (*Conversation, error) {
	low, high := orderPair(user1ID, user2ID)

	var conv Conversation
	err := r.db.GetContext(ctx, &conv, `
		INSERT INTO conversations (user1_id, user2_id)
		VALUES ($1, $2)
		ON CONFLICT (user1_id, user2_id) DO UPDATE SET updated_at = NOW()
		RETURNING id, user1_id, user2_id, is_active, last_message_at,
		          last_message_preview, created_at, updated_at, 0 AS unread_count`,
		low, high,
	)
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *postgresRepository) GetConversation(ctx context.Context, id int64) (*Conversation, error) {
	var conv Conversation
	err := r.db.GetContext(ctx, &conv, `
		SELECT id, user1_id, user2_id, is_active, last_message_at,
		       last_message_preview, created_at, updated_at, 0 AS unread_count
		FROM conversations
		WHERE id = $1`,
		id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *postgresRepository) ListConversations(ctx context.Context, userID int64) ([]*Conversation, error) {
	conversations := []*Conversation{}
	err := r.db.SelectContext(ctx, &conversations, `
		SELECT c.id, c.user1_id, c.user2_id, c.is_active, c.last_message_at,
		       c.last_message_preview, c.created_at, c.updated_at,
		       (SELECT COUNT(*) FROM messages m
		        WHERE m.conversation_id = c.id
		          AND m.sender_id <> $1
		          AND m.read_at IS NULL
		          AND m.is_deleted = FALSE) AS unread_count
		FROM conversations c
		WHERE (c.user1_id = $1 OR c.user2_id = $1) AND c.is_active = TRUE
		ORDER BY c.last_message_at DESC NULLS LAST, c.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	return conversations, nil
}

func (r *postgresRepository) CreateMessage(ctx context.Context, msg *Message) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.GetContext(ctx, msg, `
		INSERT INTO messages (conversation_id, sender_id, content, message_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, conversation_id, sender_id, content, message_type,
		          is_deleted, read_at, created_at`,
		msg.ConversationID, msg.SenderID, msg.Content, msg.MessageType,
	)
	if err != nil {
		return err
	}

	preview := msg.Content
	if len(preview) > 100 {
		preview = preview[:100]
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE conversations
		SET last_message_at = $1, last_message_preview = $2, updated_at = $1
		WHERE id = $3`,
		msg.CreatedAt, preview, msg.ConversationID,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *postgresRepository) ListMessages(ctx context.Context, conversationID int64, beforeID int64, limit int) ([]*Message, error) {
	messages := []*Message{}

	query := `
		SELECT id, conversation_id, sender_id, content, message_type,
		       is_deleted, read_at, created_at
		FROM messages
		WHERE conversation_id = $1 AND is_deleted = FALSE`
	args := []interface{}{conversationID}

	if beforeID > 0 {
		query += ` AND id < $2 ORDER BY id DESC LIMIT $3`
		args = append(args, beforeID, limit)
	} else {
		query += ` ORDER BY id DESC LIMIT $2`
		args = append(args, limit)
	}

	if err := r.db.SelectContext(ctx, &messages, query, args...); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *postgresRepository) MarkRead(ctx context.Context, conversationID, readerID int64, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE messages
		SET read_at = $1
		WHERE conversation_id = $2 AND sender_id <> $3 AND read_at IS NULL`,
		at, conversationID, readerID,
	)
	return err
}

func (r *postgresRepository) DeleteMessage(ctx context.Context, messageID, senderID int64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE messages
		SET is_deleted = TRUE
		WHERE id = $1 AND sender_id = $2`,
		messageID, senderID,
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
