package middleware

import (
	"project-service/internal/tenancy"
	"project-service/pkg/logger"
	"project-service/prometheus"

	"github.com/labstack/echo/v4"
)

// RequireTenantContext gates routes that categorically require tenant
// scoping. With enforcement off the gate is inert. Superusers pass through:
// they operate across tenants by design, with the write guards still
// applying per operation. Everyone else needs a resolvable effective tenant;
// strict mode rejects without one, soft mode warns and continues.
func RequireTenantContext(reporter *tenancy.Reporter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !reporter.Mode.IsActive() {
				return next(c)
			}

			caller, ok := tenancy.CallerFromEcho(c)
			if ok && caller.IsSuperuser() {
				return next(c)
			}

			if !ok || caller.EffectiveTenantID == nil {
				if reporter.Mode.IsStrict() {
					logger.FromContext(c).Warn("Rejecting request with no tenant context")
					prometheus.TenantContextMissingCounter.Inc()
					return reporter.RejectNoTenantContext(c)
				}
				reporter.WarnMissingContext(c, "Request has no tenant context")
				return next(c)
			}

			return next(c)
		}
	}
}
