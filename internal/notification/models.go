package notification

import "time"

// Notification is a stored in-app notification
type Notification struct {
	ID        int64      `json:"id" db:"id"`
	UserID    int64      `json:"user_id" db:"user_id"`
	Type      string     `json:"type" db:"type"`
	Title     string     `json:"title" db:"title"`
	Body      string     `json:"body" db:"body"`
	IsRead    bool       `json:"is_read" db:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty" db:"read_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// Notification types
const (
	TypeMutualMatch  = "mutual_match"
	TypeLikeReceived = "like_received"
	TypeDailyMatches = "daily_matches"
)

// DeviceToken is a registered push target for a user
type DeviceToken struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Token     string    `json:"token" db:"token"`
	Platform  string    `json:"platform" db:"platform"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Contact is the delivery surface looked up per user
type Contact struct {
	UserID      int64   `db:"user_id"`
	Email       string  `db:"email"`
	Phone       *string `db:"phone"`
	DisplayName string  `db:"display_name"`
}

// EmailNotification is one outbound email
type EmailNotification struct {
	To      string
	Subject string
	Body    string
	HTML    string
}

// SMSNotification is one outbound SMS
type SMSNotification struct {
	To      string
	Message string
}

// PushNotification is one outbound push to a set of device tokens
type PushNotification struct {
	Tokens []string
	Title  string
	Body   string
	Data   map[string]string
}
