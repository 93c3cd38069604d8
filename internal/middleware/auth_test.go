package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"project-service/internal/tenancy"
	"project-service/pkg/jwtutil"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invokeAuth(t *testing.T, mutate func(*http.Request)) (tenancy.CallerContext, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	mutate(req)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var caller tenancy.CallerContext
	err := AuthMiddleware(func(c echo.Context) error {
		caller, _ = tenancy.CallerFromEcho(c)
		return c.JSON(http.StatusOK, echo.Map{"ok": true})
	})(c)
	require.NoError(t, err)
	return caller, rec
}

func TestAuthMiddlewareBuildsCallerFromClaims(t *testing.T) {
	token, err := jwtutil.GenerateToken("member@example.com", 7, uintPtr(3), "acme", "member")
	require.NoError(t, err)

	caller, rec := invokeAuth(t, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(7), caller.UserID)
	assert.Equal(t, "member", caller.Role)
	require.NotNil(t, caller.EffectiveTenantID)
	assert.Equal(t, uint(3), *caller.EffectiveTenantID)
}

func TestAuthMiddlewareSuperuserHasNoTenantByDefault(t *testing.T) {
	token, err := jwtutil.GenerateToken("admin@example.com", 1, nil, "", tenancy.RoleSuperuser)
	require.NoError(t, err)

	caller, rec := invokeAuth(t, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, caller.IsSuperuser())
	assert.Nil(t, caller.EffectiveTenantID)
}

func TestAuthMiddlewareSuperuserTenantOverride(t *testing.T) {
	token, err := jwtutil.GenerateToken("admin@example.com", 1, nil, "", tenancy.RoleSuperuser)
	require.NoError(t, err)

	caller, _ := invokeAuth(t, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set(TenantOverrideHeader, "5")
	})

	require.NotNil(t, caller.EffectiveTenantID)
	assert.Equal(t, uint(5), *caller.EffectiveTenantID)
}

func TestAuthMiddlewareOverrideIgnoredForMembers(t *testing.T) {
	token, err := jwtutil.GenerateToken("member@example.com", 7, uintPtr(3), "acme", "member")
	require.NoError(t, err)

	caller, _ := invokeAuth(t, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set(TenantOverrideHeader, "5")
	})

	require.NotNil(t, caller.EffectiveTenantID)
	assert.Equal(t, uint(3), *caller.EffectiveTenantID)
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := AuthMiddleware(func(c echo.Context) error {
		t.Fatal("handler should not be reached")
		return nil
	})(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
