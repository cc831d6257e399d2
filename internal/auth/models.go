package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is the account record backing authentication
type User struct {
	ID           int64      `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	Phone        *string    `json:"phone,omitempty" db:"phone"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Gender       string     `json:"gender" db:"gender"`
	BirthDate    time.Time  `json:"birth_date" db:"birth_date"`
	Status       string     `json:"status" db:"status"`
	IsPremium    bool       `json:"is_premium" db:"is_premium"`
	LastActiveAt *time.Time `json:"last_active_at,omitempty" db:"last_active_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// Claims are the JWT claims issued for access tokens
type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,e164"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	Gender    string `json:"gender" validate:"required,oneof=male female other"`
	BirthDate string `json:"birth_date" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        *User     `json:"user"`
}
