package tenancy

import "fmt"

// ValidationResult is the verdict for a read-path ownership check.
// ShouldFallback signals "ownership was not strictly verified; continue, but
// the record may be pre-migration" - callers use it to skip tenant scoping
// on follow-up queries.
type ValidationResult struct {
	Valid          bool
	ShouldFallback bool
	Warning        string
}

// ValidateOwnership decides whether a read of a tenant-scoped resource is
// permitted. resourceTenantID is the tenant id stored on the row (nil for
// legacy rows); effectiveTenantID is the tenant the caller acts as (nil when
// no tenant context was resolved). Branches are evaluated in order, first
// match wins.
func ValidateOwnership(mode Mode, resourceTenantID, effectiveTenantID *uint, resourceType, resourceID string) ValidationResult {
	// Enforcement disabled: legacy behavior untouched
	if !mode.IsActive() {
		return ValidationResult{Valid: true, ShouldFallback: true}
	}

	// Caller has no tenant context at all
	if effectiveTenantID == nil {
		if mode.IsStrict() {
			return ValidationResult{
				Valid:   false,
				Warning: fmt.Sprintf("No tenant context for %s access", resourceType),
			}
		}
		return ValidationResult{
			Valid:          true,
			ShouldFallback: true,
			Warning:        fmt.Sprintf("No tenant context for %s:%s", resourceType, resourceID),
		}
	}

	// Orphan row created before tenant scoping existed
	if resourceTenantID == nil {
		if mode.IsStrict() {
			return ValidationResult{
				Valid:   false,
				Warning: fmt.Sprintf("%s:%s has no tenantId (strict mode)", resourceType, resourceID),
			}
		}
		return ValidationResult{
			Valid:          true,
			ShouldFallback: true,
			Warning:        fmt.Sprintf("%s:%s has legacy null tenantId", resourceType, resourceID),
		}
	}

	// A true cross-tenant mismatch is rejected in both soft and strict:
	// mode only changes how null-tenant cases are tolerated.
	if *resourceTenantID != *effectiveTenantID {
		return ValidationResult{
			Valid:   false,
			Warning: fmt.Sprintf("Cross-tenant access denied for %s:%s", resourceType, resourceID),
		}
	}

	return ValidationResult{Valid: true}
}
