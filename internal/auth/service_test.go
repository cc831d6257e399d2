package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	users  map[string]*User
	nextID int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{users: make(map[string]*User), nextID: 1}
}

func (f *fakeRepository) CreateUser(ctx context.Context, user *User) error {
	if _, exists := f.users[user.Email]; exists {
		return ErrEmailTaken
	}
	user.ID = f.nextID
	f.nextID++
	user.Status = "active"
	user.CreatedAt = time.Now()
	f.users[user.Email] = user
	return nil
}

func (f *fakeRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (f *fakeRepository) GetUserByID(ctx context.Context, id int64) (*User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, ErrUserNotFound
}

func (f *fakeRepository) TouchLastActive(ctx context.Context, userID int64) error {
	return nil
}

func newTestService() (Service, *fakeRepository) {
	repo := newFakeRepository()
	svc := NewService(repo, &Config{
		JWTSecret:         "test-secret",
		AccessTokenExpiry: time.Hour,
		BCryptCost:        4,
	})
	return svc, repo
}

func registerRequest() *RegisterRequest {
	return &RegisterRequest{
		Email:     "anjali@example.com",
		Password:  "s3cret-pass",
		Gender:    "female",
		BirthDate: "1995-04-12",
	}
}

func TestRegisterIssuesValidToken(t *testing.T) {
	svc, _ := newTestService()

	resp, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.Equal(t, "anjali@example.com", resp.User.Email)

	claims, err := svc.ValidateToken(context.Background(), resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, claims.UserID)
	require.Equal(t, "anjali@example.com", claims.Email)
}

func TestRegisterRejectsBadBirthDate(t *testing.T) {
	svc, _ := newTestService()

	req := registerRequest()
	req.BirthDate = "12-04-1995"

	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerRequest())
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginWithCorrectPassword(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "anjali@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
}

func TestLoginWithWrongPassword(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &LoginRequest{
		Email:    "anjali@example.com",
		Password: "wrong",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.ValidateToken(context.Background(), "not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	svc, _ := newTestService()

	other := NewService(newFakeRepository(), &Config{
		JWTSecret:         "different-secret",
		AccessTokenExpiry: time.Hour,
		BCryptCost:        4,
	})

	resp, err := other.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), resp.AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}
