package tenancy

import "github.com/labstack/echo/v4"

// RoleSuperuser is the cross-tenant administrative role. Superusers carry no
// effective tenant unless they explicitly override one per request.
const RoleSuperuser = "superuser"

const callerContextKey = "caller_context"

// CallerContext is the authenticated caller's identity as seen by the
// tenancy gate. It is constructed once at the pipeline boundary (auth
// middleware) so validators never inspect raw request state.
type CallerContext struct {
	UserID            uint
	Email             string
	Role              string
	EffectiveTenantID *uint
}

// IsSuperuser reports whether the caller holds the cross-tenant admin role
func (c CallerContext) IsSuperuser() bool {
	return c.Role == RoleSuperuser
}

// SetCaller stores the caller context on the request
func SetCaller(c echo.Context, caller CallerContext) {
	c.Set(callerContextKey, caller)
}

// CallerFromEcho retrieves the caller context set by the auth middleware
func CallerFromEcho(c echo.Context) (CallerContext, bool) {
	caller, ok := c.Get(callerContextKey).(CallerContext)
	return caller, ok
}
