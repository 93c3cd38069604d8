package tenancy

import (
	"context"
	"net/http"

	"project-service/pkg/healthtracker"
	"project-service/pkg/logger"
	"project-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Error codes surfaced to callers on policy rejections. These are expected,
// user-facing outcomes, not bugs.
const (
	CodeTenantViolation = "TENANT_VIOLATION"
	CodeNoTenantContext = "NO_TENANT_CONTEXT"
)

// WarningRecorder is the outbound contract to the health tracker
type WarningRecorder interface {
	RecordWarning(ctx context.Context, warning healthtracker.Warning) error
}

// Reporter translates validator verdicts into HTTP rejections, response
// header annotations, structured logs, prometheus counters and best-effort
// health-tracker forwards. Telemetry failures are absorbed here: nothing in
// the reporting path may change the HTTP outcome of the triggering request.
type Reporter struct {
	Mode          Mode
	WarningHeader string
	Tracker       WarningRecorder
}

// NewReporter creates a reporter for the given enforcement mode
func NewReporter(mode Mode, warningHeader string, tracker WarningRecorder) *Reporter {
	if warningHeader == "" {
		warningHeader = "X-Tenancy-Warning"
	}
	return &Reporter{Mode: mode, WarningHeader: warningHeader, Tracker: tracker}
}

// HandleReadValidation applies an ownership verdict to the request. It
// returns true when the read was rejected; the accompanying error is the
// already-written 403 response.
func (r *Reporter) HandleReadValidation(c echo.Context, res ValidationResult, resourceType, resourceID string) (bool, error) {
	log := logger.FromContext(c)

	if !res.Valid {
		caller, _ := CallerFromEcho(c)
		log.Warn("Tenant ownership check rejected read",
			zap.String("resource_type", resourceType),
			zap.String("resource_id", resourceID),
			zap.Uint("actor_user_id", caller.UserID),
			zap.String("warning", res.Warning))
		prometheus.RecordTenancyViolation(resourceType, "read")
		r.forward(c, healthtracker.WarnTypeMismatch, resourceID, res.Warning)
		return true, c.JSON(http.StatusForbidden, echo.Map{
			"code":    CodeTenantViolation,
			"message": res.Warning,
		})
	}

	if res.Warning != "" {
		r.annotateWarning(c, res.Warning)
		prometheus.RecordTenancyWarning(healthtracker.WarnTypeMissingTenantID)
		r.forward(c, healthtracker.WarnTypeMissingTenantID, resourceID, res.Warning)
	}

	return false, nil
}

// HandleWriteValidation applies a write-guard verdict to the request. It
// returns true when the mutation must not be executed; the accompanying
// error is the already-written 403 response. Block-vs-allow is decided by
// the verdict alone, before any telemetry is attempted.
func (r *Reporter) HandleWriteValidation(c echo.Context, res WriteResult, resourceType, resourceID string) (bool, error) {
	log := logger.FromContext(c)

	if res.Blocked {
		caller, _ := CallerFromEcho(c)
		log.Warn("Tenant write guard blocked operation",
			zap.String("resource_type", resourceType),
			zap.String("resource_id", resourceID),
			zap.Uint("actor_user_id", caller.UserID),
			zap.String("error", res.Err))
		prometheus.RecordTenancyViolation(resourceType, "write")
		r.forward(c, healthtracker.WarnTypeMismatch, resourceID, res.Err)
		return true, c.JSON(http.StatusForbidden, echo.Map{
			"code":    CodeTenantViolation,
			"message": res.Err,
		})
	}

	if res.Warning != "" {
		r.annotateWarning(c, res.Warning)
		prometheus.RecordTenancyWarning(healthtracker.WarnTypeMissingTenantID)
		r.forward(c, healthtracker.WarnTypeMissingTenantID, resourceID, res.Warning)
	}

	return false, nil
}

// RejectNoTenantContext writes the strict-mode 403 for requests with no
// resolvable tenant context.
func (r *Reporter) RejectNoTenantContext(c echo.Context) error {
	return c.JSON(http.StatusForbidden, echo.Map{
		"code":    CodeNoTenantContext,
		"message": "Tenant context required. Select a tenant before accessing this resource",
	})
}

// WarnMissingContext records a soft-mode missing-tenant-context event
// without blocking the request.
func (r *Reporter) WarnMissingContext(c echo.Context, message string) {
	logger.FromContext(c).Warn("Request has no tenant context", zap.String("warning", message))
	r.annotateWarning(c, message)
	prometheus.TenantContextMissingCounter.Inc()
	r.forward(c, healthtracker.WarnTypeMissingTenantID, "", message)
}

// annotateWarning logs the warning and appends it to the response warning
// header. Repeated warnings on one request accumulate semicolon-joined
// rather than overwrite.
func (r *Reporter) annotateWarning(c echo.Context, warning string) {
	logger.FromContext(c).Warn("Tenancy warning", zap.String("warning", warning))

	header := c.Response().Header()
	if existing := header.Get(r.WarningHeader); existing != "" {
		header.Set(r.WarningHeader, existing+"; "+warning)
		return
	}
	header.Set(r.WarningHeader, warning)
}

// forward sends a warning record to the health tracker. Only soft mode
// forwards: off has nothing to report and strict already blocked the caller.
// The forward is fire-and-forget; the response never waits on it and any
// failure is logged and counted, never propagated.
func (r *Reporter) forward(c echo.Context, warnType, resourceID, notes string) {
	if r.Mode != ModeSoft || r.Tracker == nil {
		return
	}

	caller, _ := CallerFromEcho(c)
	warning := healthtracker.Warning{
		Route:             c.Path(),
		Method:            c.Request().Method,
		WarnType:          warnType,
		ActorUserID:       caller.UserID,
		EffectiveTenantID: caller.EffectiveTenantID,
		ResourceID:        resourceID,
		Notes:             notes,
	}

	log := logger.FromContext(c)
	go func() {
		// The request context is done once the response is written, so the
		// forward runs against a fresh context bounded by the client timeout.
		if err := r.Tracker.RecordWarning(context.Background(), warning); err != nil {
			prometheus.RecordWarningForwardError()
			log.Warn("Failed to forward tenancy warning to health tracker", zap.Error(err))
		}
	}()
}
