package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"project-service/internal/tenancy"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint {
	return &v
}

func newGateContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

func TestRequireTenantContextOffPassesThrough(t *testing.T) {
	reporter := tenancy.NewReporter(tenancy.ModeOff, "X-Tenancy-Warning", nil)
	c, rec := newGateContext(t)

	// No caller context at all - with enforcement off the gate is inert
	err := RequireTenantContext(reporter)(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireTenantContextStrictRejectsMissingTenant(t *testing.T) {
	reporter := tenancy.NewReporter(tenancy.ModeStrict, "X-Tenancy-Warning", nil)
	c, rec := newGateContext(t)
	tenancy.SetCaller(c, tenancy.CallerContext{UserID: 1, Role: "member"})

	err := RequireTenantContext(reporter)(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), tenancy.CodeNoTenantContext)
}

func TestRequireTenantContextSoftWarnsAndContinues(t *testing.T) {
	reporter := tenancy.NewReporter(tenancy.ModeSoft, "X-Tenancy-Warning", nil)
	c, rec := newGateContext(t)
	tenancy.SetCaller(c, tenancy.CallerContext{UserID: 1, Role: "member"})

	err := RequireTenantContext(reporter)(okHandler)(c)
	require.NoError(t, err)

	// The request proceeds with a warning header, no 403
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Tenancy-Warning"))
}

func TestRequireTenantContextSuperuserPassesThrough(t *testing.T) {
	reporter := tenancy.NewReporter(tenancy.ModeStrict, "X-Tenancy-Warning", nil)
	c, rec := newGateContext(t)
	tenancy.SetCaller(c, tenancy.CallerContext{UserID: 1, Role: tenancy.RoleSuperuser})

	err := RequireTenantContext(reporter)(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Tenancy-Warning"))
}

func TestRequireTenantContextMemberWithTenantPassesThrough(t *testing.T) {
	reporter := tenancy.NewReporter(tenancy.ModeStrict, "X-Tenancy-Warning", nil)
	c, rec := newGateContext(t)
	tenancy.SetCaller(c, tenancy.CallerContext{UserID: 1, Role: "member", EffectiveTenantID: uintPtr(3)})

	err := RequireTenantContext(reporter)(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Tenancy-Warning"))
}
