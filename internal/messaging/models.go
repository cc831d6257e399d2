package messaging

import "time"

// Conversation is a direct channel between two mutually matched users.
// The pair is stored ordered (user1_id < user2_id) so each pair has
// exactly one row.
type Conversation struct {
	ID                 int64      `json:"id" db:"id"`
	User1ID            int64      `json:"user1_id" db:"user1_id"`
	User2ID            int64      `json:"user2_id" db:"user2_id"`
	IsActive           bool       `json:"is_active" db:"is_active"`
	LastMessageAt      *time.Time `json:"last_message_at,omitempty" db:"last_message_at"`
	LastMessagePreview *string    `json:"last_message_preview,omitempty" db:"last_message_preview"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`

	// Computed for the requesting user
	OtherUserID int64 `json:"other_user_id,omitempty" db:"-"`
	UnreadCount int   `json:"unread_count" db:"unread_count"`
}

// OtherParty returns the counterpart of userID in this conversation
func (c *Conversation) OtherParty(userID int64) int64 {
	if c.User1ID == userID {
		return c.User2ID
	}
	return c.User1ID
}

// Involves reports whether userID is one of the two participants
func (c *Conversation) Involves(userID int64) bool {
	return c.User1ID == userID || c.User2ID == userID
}

// Message is one chat message inside a conversation
type Message struct {
	ID             int64      `json:"id" db:"id"`
	ConversationID int64      `json:"conversation_id" db:"conversation_id"`
	SenderID       int64      `json:"sender_id" db:"sender_id"`
	Content        string     `json:"content" db:"content"`
	MessageType    string     `json:"message_type" db:"message_type"`
	IsDeleted      bool       `json:"is_deleted" db:"is_deleted"`
	ReadAt         *time.Time `json:"read_at,omitempty" db:"read_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// orderPair normalizes a user pair to (low, high)
func orderPair(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}
