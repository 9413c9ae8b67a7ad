package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/discora/label-admin-api/internal/models"
)

func performWithClaims(t *testing.T, claims *models.JWTClaims, path string, mw gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if claims != nil {
			c.Set(ContextUserKey, claims)
		}
	})
	r.DELETE("/users/:id", mw, func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestRequireRolesAllowsListedRole(t *testing.T) {
	w := performWithClaims(t, &models.JWTClaims{UserID: "u1", Role: models.RoleAdmin}, "/users/u2", AdminOnly())
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRequireRolesRejectsOtherRole(t *testing.T) {
	w := performWithClaims(t, &models.JWTClaims{UserID: "u1", Role: models.RoleViewer}, "/users/u2", StaffOnly())
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRolesRejectsMissingClaims(t *testing.T) {
	w := performWithClaims(t, nil, "/users/u2", AdminOnly())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRolesSelfAccess(t *testing.T) {
	mw := RequireRoles(string(models.RoleAdmin), "SELF")
	w := performWithClaims(t, &models.JWTClaims{UserID: "u2", Role: models.RoleViewer}, "/users/u2", mw)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = performWithClaims(t, &models.JWTClaims{UserID: "u3", Role: models.RoleViewer}, "/users/u2", mw)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
