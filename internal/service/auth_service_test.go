package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/discora/label-admin-api/internal/models"
	appErrors "github.com/discora/label-admin-api/pkg/errors"
)

type mockAuthRepo struct {
	users  map[string]models.User
	tokens map[string]models.RefreshToken
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return &u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) Create(ctx context.Context, user *models.User) error {
	if m.users == nil {
		m.users = make(map[string]models.User)
	}
	if user.ID == "" {
		user.ID = "generated"
	}
	m.users[user.ID] = *user
	return nil
}

func (m *mockAuthRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	if u, ok := m.users[id]; ok {
		u.LastLogin = &ts
		m.users[id] = u
	}
	return nil
}

func (m *mockAuthRepo) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	for id, tok := range m.tokens {
		if tok.UserID == userID {
			tok.Revoked = true
			m.tokens[id] = tok
		}
	}
	return nil
}

func (m *mockAuthRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if m.tokens == nil {
		m.tokens = make(map[string]models.RefreshToken)
	}
	m.tokens[token.ID] = *token
	return nil
}

func (m *mockAuthRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	for _, tok := range m.tokens {
		if tok.Token == token {
			found := tok
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	if tok, ok := m.tokens[id]; ok {
		tok.Revoked = true
		tok.RevokedAt = &revokedAt
		m.tokens[id] = tok
	}
	return nil
}

func newAuthFixture(t *testing.T) (*mockAuthRepo, *AuthService) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &mockAuthRepo{users: map[string]models.User{
		"u1": {ID: "u1", Name: "Usuario 1", Email: "u1@label.test", PasswordHash: string(hash), Role: models.RoleAdmin, Active: true},
	}}
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "label-admin-api",
	})
	return repo, svc
}

func TestAuthServiceLoginIssuesTokens(t *testing.T) {
	repo, svc := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "u1@label.test", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "u1", resp.User.ID)
	assert.Len(t, repo.tokens, 1)
	require.NotNil(t, repo.users["u1"].LastLogin)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	_, svc := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "u1@label.test", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	repo, svc := newAuthFixture(t)
	u := repo.users["u1"]
	u.Active = false
	repo.users["u1"] = u

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "u1@label.test", Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceRefreshRotatesToken(t *testing.T) {
	repo, svc := newAuthFixture(t)
	login, err := svc.Login(context.Background(), models.LoginRequest{Email: "u1@label.test", Password: "secret1"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// The used token is revoked, so a second exchange must fail.
	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err)
	assert.Len(t, repo.tokens, 2)
}

func TestAuthServiceLogoutChecksOwnership(t *testing.T) {
	_, svc := newAuthFixture(t)
	login, err := svc.Login(context.Background(), models.LoginRequest{Email: "u1@label.test", Password: "secret1"})
	require.NoError(t, err)

	err = svc.Logout(context.Background(), login.RefreshToken, "someone-else")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	require.NoError(t, svc.Logout(context.Background(), login.RefreshToken, "u1"))
}

func TestAuthServiceRegisterDefaultsToViewer(t *testing.T) {
	repo, svc := newAuthFixture(t)

	user, err := svc.Register(context.Background(), models.RegisterRequest{Name: "Nuevo", Email: "nuevo@label.test", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleViewer, user.Role)
	assert.True(t, user.Active)
	assert.Len(t, repo.users, 2)
}

func TestAuthServiceValidateTokenRejectsTampered(t *testing.T) {
	_, svc := newAuthFixture(t)
	login, err := svc.Login(context.Background(), models.LoginRequest{Email: "u1@label.test", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(login.AccessToken + "x")
	require.Error(t, err)
}
