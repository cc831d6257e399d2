package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

type Config struct {
	JWTSecret         string
	AccessTokenExpiry time.Duration
	BCryptCost        int
}

type Service interface {
	Register(ctx context.Context, req *RegisterRequest) (*TokenResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*TokenResponse, error)
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
	TouchLastActive(ctx context.Context, userID int64) error
}

type service struct {
	repo   Repository
	config *Config
}

func NewService(repo Repository, config *Config) Service {
	return &service{repo: repo, config: config}
}

func (s *service) Register(ctx context.Context, req *RegisterRequest) (*TokenResponse, error) {
	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		return nil, errors.New("birth date must be in YYYY-MM-DD format")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BCryptCost)
	if err != nil {
		return nil, err
	}

	user := &User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Gender:       req.Gender,
		BirthDate:    birthDate,
	}
	if req.Phone != "" {
		user.Phone = &req.Phone
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return s.issueToken(user)
}

func (s *service) Login(ctx context.Context, req *LoginRequest) (*TokenResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.repo.TouchLastActive(ctx, user.ID); err != nil {
		// Login still succeeds if the activity timestamp update fails
		return s.issueToken(user)
	}

	return s.issueToken(user)
}

func (s *service) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *service) TouchLastActive(ctx context.Context, userID int64) error {
	return s.repo.TouchLastActive(ctx, userID)
}

func (s *service) issueToken(user *User) (*TokenResponse, error) {
	expiresAt := time.Now().Add(s.config.AccessTokenExpiry)

	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Type:   "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &TokenResponse{
		AccessToken: signed,
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}
