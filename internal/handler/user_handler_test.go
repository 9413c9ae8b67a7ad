package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/discora/label-admin-api/internal/middleware"
	"github.com/discora/label-admin-api/internal/models"
	"github.com/discora/label-admin-api/internal/service"
)

type userRepoMock struct {
	users map[string]models.User
}

func (m *userRepoMock) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, len(out), nil
}

func (m *userRepoMock) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return &u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *userRepoMock) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *userRepoMock) Create(ctx context.Context, user *models.User) error {
	if m.users == nil {
		m.users = make(map[string]models.User)
	}
	if user.ID == "" {
		user.ID = "generated"
	}
	m.users[user.ID] = *user
	return nil
}

func (m *userRepoMock) Update(ctx context.Context, user *models.User) error {
	m.users[user.ID] = *user
	return nil
}

func (m *userRepoMock) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	if u, ok := m.users[id]; ok {
		u.PasswordHash = passwordHash
		m.users[id] = u
	}
	return nil
}

func (m *userRepoMock) SetActive(ctx context.Context, id string, active bool) error {
	if u, ok := m.users[id]; ok {
		u.Active = active
		m.users[id] = u
	}
	return nil
}

func newUserHandlerFixture(t *testing.T) (*userRepoMock, *UserHandler) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("admin-secret"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &userRepoMock{users: map[string]models.User{
		"admin": {ID: "admin", Name: "Usuario 1", Email: "admin@label.test", PasswordHash: string(hash), Role: models.RoleAdmin, Active: true},
		"u2":    {ID: "u2", Name: "Usuario 2", Email: "u2@label.test", Role: models.RoleViewer, Active: true},
	}}
	svc := service.NewUserService(repo, service.NewPasswordAuthorizer(repo), nil, nil)
	return repo, NewUserHandler(svc, nil)
}

func adminContext(w *httptest.ResponseRecorder) (*gin.Context, func(req *http.Request)) {
	c, _ := gin.CreateTestContext(w)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})
	return c, func(req *http.Request) { c.Request = req }
}

func TestUserHandlerDeleteWrongConfirmation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo, h := newUserHandlerFixture(t)

	body, _ := json.Marshal(service.DeleteUserRequest{ConfirmPassword: "wrong"})
	w := httptest.NewRecorder()
	c, setReq := adminContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/users/u2", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	setReq(req)
	c.Params = gin.Params{{Key: "id", Value: "u2"}}

	h.Delete(c)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.True(t, repo.users["u2"].Active, "record must survive a failed confirmation")
}

func TestUserHandlerDeleteConfirmed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo, h := newUserHandlerFixture(t)

	body, _ := json.Marshal(service.DeleteUserRequest{ConfirmPassword: "admin-secret"})
	w := httptest.NewRecorder()
	c, setReq := adminContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/users/u2", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	setReq(req)
	c.Params = gin.Params{{Key: "id", Value: "u2"}}

	h.Delete(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.False(t, repo.users["u2"].Active)
}

func TestUserHandlerUpdateWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, h := newUserHandlerFixture(t)

	body, _ := json.Marshal(service.UpdateUserRequest{Name: "X", Email: "x@label.test", Role: models.RoleViewer, ConfirmPassword: "admin-secret"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/users/u2", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "u2"}}

	h.Update(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserHandlerUpdateConfirmed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo, h := newUserHandlerFixture(t)

	body, _ := json.Marshal(service.UpdateUserRequest{Name: "Renombrado", Email: "u2@label.test", Role: models.RoleManager, ConfirmPassword: "admin-secret"})
	w := httptest.NewRecorder()
	c, setReq := adminContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/users/u2", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	setReq(req)
	c.Params = gin.Params{{Key: "id", Value: "u2"}}

	h.Update(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Renombrado", repo.users["u2"].Name)
	assert.Equal(t, models.RoleManager, repo.users["u2"].Role)
}
