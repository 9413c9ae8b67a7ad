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

type mockUserRepo struct {
	users map[string]models.User
}

func (m *mockUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, len(out), nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return &u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.users == nil {
		m.users = make(map[string]models.User)
	}
	if user.ID == "" {
		user.ID = "generated"
	}
	m.users[user.ID] = *user
	return nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	m.users[user.ID] = *user
	return nil
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	if u, ok := m.users[id]; ok {
		u.PasswordHash = passwordHash
		m.users[id] = u
	}
	return nil
}

func (m *mockUserRepo) SetActive(ctx context.Context, id string, active bool) error {
	if u, ok := m.users[id]; ok {
		u.Active = active
		m.users[id] = u
	}
	return nil
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newUserFixture(t *testing.T) *mockUserRepo {
	return &mockUserRepo{users: map[string]models.User{
		"admin": {ID: "admin", Name: "Usuario 1", Email: "admin@label.test", PasswordHash: hashFor(t, "admin-secret"), Role: models.RoleAdmin, Active: true},
		"u2":    {ID: "u2", Name: "Usuario 2", Email: "u2@label.test", PasswordHash: hashFor(t, "other"), Role: models.RoleViewer, Active: true},
	}}
}

func TestUserServiceCreateHashesPassword(t *testing.T) {
	repo := &mockUserRepo{}
	svc := NewUserService(repo, NewPasswordAuthorizer(repo), validator.New(), zap.NewNop())

	user, err := svc.Create(context.Background(), CreateUserRequest{Name: "New", Email: "new@label.test", Password: "secret1", Role: models.RoleManager})
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")))
}

func TestUserServiceDeactivateRequiresConfirmation(t *testing.T) {
	repo := newUserFixture(t)
	svc := NewUserService(repo, NewPasswordAuthorizer(repo), validator.New(), zap.NewNop())

	err := svc.Deactivate(context.Background(), "admin", "u2", DeleteUserRequest{ConfirmPassword: "wrong"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConfirmationFailed.Code, appErr.Code)
	assert.True(t, repo.users["u2"].Active, "failed confirmation must leave the record untouched")

	require.NoError(t, svc.Deactivate(context.Background(), "admin", "u2", DeleteUserRequest{ConfirmPassword: "admin-secret"}))
	assert.False(t, repo.users["u2"].Active)
}

func TestUserServiceUpdateRequiresConfirmation(t *testing.T) {
	repo := newUserFixture(t)
	svc := NewUserService(repo, NewPasswordAuthorizer(repo), validator.New(), zap.NewNop())

	_, err := svc.Update(context.Background(), "admin", "u2", UpdateUserRequest{Name: "Renamed", Email: "u2@label.test", Role: models.RoleViewer, ConfirmPassword: "wrong"})
	require.Error(t, err)
	assert.Equal(t, "Usuario 2", repo.users["u2"].Name)

	updated, err := svc.Update(context.Background(), "admin", "u2", UpdateUserRequest{Name: "Renamed", Email: "u2@label.test", Role: models.RoleManager, ConfirmPassword: "admin-secret"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, models.RoleManager, updated.Role)
}

func TestUserServiceSoftDeleteRoundTrip(t *testing.T) {
	repo := newUserFixture(t)
	svc := NewUserService(repo, NewPasswordAuthorizer(repo), validator.New(), zap.NewNop())

	before := repo.users["u2"]
	require.NoError(t, svc.Deactivate(context.Background(), "admin", "u2", DeleteUserRequest{ConfirmPassword: "admin-secret"}))
	require.NoError(t, svc.Restore(context.Background(), "u2"))
	after := repo.users["u2"]
	assert.Equal(t, before, after)
}

func TestUserServiceCreateDuplicateEmail(t *testing.T) {
	repo := newUserFixture(t)
	svc := NewUserService(repo, NewPasswordAuthorizer(repo), validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateUserRequest{Name: "X", Email: "admin@label.test", Password: "secret1", Role: models.RoleViewer})
	require.Error(t, err)
}
