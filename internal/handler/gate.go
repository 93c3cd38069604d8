package handler

import (
	"project-service/internal/tenancy"

	"gorm.io/gorm"
)

// gate is the tenancy reporter shared by all handlers, set once at startup
var gate *tenancy.Reporter

// Initialize wires the tenancy reporter into the handlers
func Initialize(reporter *tenancy.Reporter) {
	gate = reporter
}

// tenantScope narrows a list query to the caller's tenant. Strict mode sees
// only rows stamped with the caller's tenant; soft mode additionally
// tolerates legacy rows with no tenant id; with enforcement off, or for a
// caller with no effective tenant, the query is left unscoped (legacy
// behavior, and superusers operate across tenants by design).
func tenantScope(caller tenancy.CallerContext, db *gorm.DB) *gorm.DB {
	if !gate.Mode.IsActive() || caller.EffectiveTenantID == nil {
		return db
	}
	if gate.Mode.IsStrict() {
		return db.Where("tenant_id = ?", *caller.EffectiveTenantID)
	}
	return db.Where("tenant_id = ? OR tenant_id IS NULL", *caller.EffectiveTenantID)
}
