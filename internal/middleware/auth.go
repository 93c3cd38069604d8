package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"project-service/internal/tenancy"
	"project-service/pkg/jwtutil"
	"project-service/pkg/logger"
	"project-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// TenantOverrideHeader lets a superuser act as a specific tenant for one
// request. Ignored for every other role.
const TenantOverrideHeader = "X-Tenant-Override"

// AuthMiddleware validates the JWT token from the Authorization header and
// constructs the typed caller context consumed by the tenancy gate.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		// Get the Authorization header
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Warn("Missing Authorization header")
			prometheus.RecordAuthError("missing_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		// Check if it's a Bearer token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warn("Invalid Authorization header format")
			prometheus.RecordAuthError("invalid_auth_format")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
		}

		// Validate the token
		claims, err := jwtutil.ValidateToken(parts[1])
		if err != nil {
			log.Warn("Invalid JWT token", zap.Error(err))
			prometheus.RecordAuthError("invalid_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		caller := tenancy.CallerContext{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   claims.Role,
		}

		// Resolve the effective tenant. An ordinary member acts as their home
		// tenant from the token. A superuser has no tenant unless they
		// explicitly override one for this request.
		if caller.IsSuperuser() {
			if raw := c.Request().Header.Get(TenantOverrideHeader); raw != "" {
				if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
					override := uint(id)
					caller.EffectiveTenantID = &override
				} else {
					log.Warn("Ignoring malformed tenant override header", zap.String("value", raw))
				}
			}
		} else {
			caller.EffectiveTenantID = claims.TenantID
		}

		tenancy.SetCaller(c, caller)

		// Store user info in context for later use
		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)

		// Update logger with caller information
		log = log.With(
			zap.Uint("user_id", claims.UserID),
			zap.String("email", claims.Email),
		)
		if caller.EffectiveTenantID != nil {
			log = log.With(zap.Uint("tenant_id", *caller.EffectiveTenantID))
		}
		if caller.Role != "" {
			log = log.With(zap.String("role", caller.Role))
		}
		c.Set("logger", log)

		// Token is valid, proceed with the request
		return next(c)
	}
}
