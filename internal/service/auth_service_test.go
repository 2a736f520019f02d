package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/AD-Archer/Student-interaction-sub000/internal/models"
	appErrors "github.com/AD-Archer/Student-interaction-sub000/pkg/errors"
)

type authRepoStub struct {
	users   map[string]*models.User
	tokens  map[string]*models.RefreshToken
	revoked []string
}

func newAuthRepoStub() *authRepoStub {
	return &authRepoStub{users: map[string]*models.User{}, tokens: map[string]*models.RefreshToken{}}
}

func (s *authRepoStub) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *authRepoStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (s *authRepoStub) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	return nil
}

func (s *authRepoStub) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	if user, ok := s.users[id]; ok {
		user.PasswordHash = passwordHash
	}
	return nil
}

func (s *authRepoStub) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	s.revoked = append(s.revoked, userID)
	return nil
}

func (s *authRepoStub) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	s.tokens[token.Token] = token
	return nil
}

func (s *authRepoStub) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if stored, ok := s.tokens[token]; ok {
		return stored, nil
	}
	return nil, sql.ErrNoRows
}

func (s *authRepoStub) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	for _, token := range s.tokens {
		if token.ID == id {
			token.Revoked = true
		}
	}
	return nil
}

func testAuthConfig() AuthConfig {
	return AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "interaction-tracker",
	}
}

func seedUser(t *testing.T, repo *authRepoStub, password string, active bool) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		ID:           "usr-1",
		Email:        "staff@example.com",
		PasswordHash: string(hash),
		FullName:     "Staff Member",
		Role:         models.RoleStaff,
		Active:       active,
	}
	repo.users[user.ID] = user
	return user
}

func TestAuthServiceLogin(t *testing.T) {
	repo := newAuthRepoStub()
	seedUser(t, repo, "correct horse", true)
	service := NewAuthService(repo, validator.New(), nil, testAuthConfig())

	resp, err := service.Login(context.Background(), models.LoginRequest{
		Email:    "staff@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "usr-1", resp.User.ID)

	claims, err := service.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "usr-1", claims.UserID)
	assert.Equal(t, models.RoleStaff, claims.Role)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	repo := newAuthRepoStub()
	seedUser(t, repo, "correct horse", true)
	service := NewAuthService(repo, validator.New(), nil, testAuthConfig())

	_, err := service.Login(context.Background(), models.LoginRequest{
		Email:    "staff@example.com",
		Password: "wrong",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	repo := newAuthRepoStub()
	seedUser(t, repo, "correct horse", false)
	service := NewAuthService(repo, validator.New(), nil, testAuthConfig())

	_, err := service.Login(context.Background(), models.LoginRequest{
		Email:    "staff@example.com",
		Password: "correct horse",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceRefreshRotatesToken(t *testing.T) {
	repo := newAuthRepoStub()
	seedUser(t, repo, "correct horse", true)
	service := NewAuthService(repo, validator.New(), nil, testAuthConfig())

	login, err := service.Login(context.Background(), models.LoginRequest{
		Email:    "staff@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)

	refreshed, err := service.RefreshToken(context.Background(), models.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
	assert.True(t, repo.tokens[login.RefreshToken].Revoked)

	// The consumed token cannot be replayed.
	_, err = service.RefreshToken(context.Background(), models.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateTokenRejectsTampered(t *testing.T) {
	repo := newAuthRepoStub()
	seedUser(t, repo, "correct horse", true)
	service := NewAuthService(repo, validator.New(), nil, testAuthConfig())

	login, err := service.Login(context.Background(), models.LoginRequest{
		Email:    "staff@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)

	other := NewAuthService(repo, validator.New(), nil, AuthConfig{
		AccessTokenSecret: "different-secret",
		AccessTokenExpiry: time.Minute,
	})
	_, err = other.ValidateToken(login.AccessToken)
	require.Error(t, err)
}
