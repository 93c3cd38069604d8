package tenancy

import "fmt"

// WriteResult is the verdict for a mutation. Blocked is stronger than
// !Valid: it means the operation must not be executed, as opposed to a soft
// warning that still allows execution.
type WriteResult struct {
	Valid   bool
	Blocked bool
	Err     string
	Warning string
}

// ValidateInsert decides whether a create may proceed. Unlike the orphan
// read case, creating data under a foreign tenant id is never tolerated in
// any active mode.
func ValidateInsert(mode Mode, insertTenantID, effectiveTenantID *uint, resourceType string) WriteResult {
	if !mode.IsActive() {
		return WriteResult{Valid: true}
	}

	if effectiveTenantID == nil {
		if mode.IsStrict() {
			return WriteResult{
				Blocked: true,
				Err:     fmt.Sprintf("Cannot create %s: no tenant context", resourceType),
			}
		}
		return WriteResult{
			Valid:   true,
			Warning: fmt.Sprintf("Creating %s with no tenant context", resourceType),
		}
	}

	if insertTenantID == nil {
		if mode.IsStrict() {
			return WriteResult{
				Blocked: true,
				Err:     fmt.Sprintf("Cannot create %s: tenantId required in strict mode", resourceType),
			}
		}
		return WriteResult{
			Valid:   true,
			Warning: fmt.Sprintf("Creating %s with no tenantId", resourceType),
		}
	}

	if *insertTenantID != *effectiveTenantID {
		return WriteResult{
			Blocked: true,
			Err:     fmt.Sprintf("Cannot create %s under a different tenant", resourceType),
		}
	}

	return WriteResult{Valid: true}
}

// ValidateUpdate decides whether a modification of an existing row may
// proceed. The branch structure mirrors ValidateOwnership; null-tenant cases
// that warn on read also warn here, while a cross-tenant mismatch always
// blocks once any tenant context exists.
func ValidateUpdate(mode Mode, existingTenantID, effectiveTenantID *uint, resourceType, resourceID string) WriteResult {
	if !mode.IsActive() {
		return WriteResult{Valid: true}
	}

	if effectiveTenantID == nil {
		if mode.IsStrict() {
			return WriteResult{
				Blocked: true,
				Err:     fmt.Sprintf("Cannot modify %s:%s: no tenant context", resourceType, resourceID),
			}
		}
		return WriteResult{
			Valid:   true,
			Warning: fmt.Sprintf("Modifying %s:%s with no tenant context", resourceType, resourceID),
		}
	}

	if existingTenantID == nil {
		if mode.IsStrict() {
			return WriteResult{
				Blocked: true,
				Err:     fmt.Sprintf("Cannot modify %s:%s: row has no tenantId (strict mode)", resourceType, resourceID),
			}
		}
		return WriteResult{
			Valid:   true,
			Warning: fmt.Sprintf("Modifying %s:%s with legacy null tenantId", resourceType, resourceID),
		}
	}

	if *existingTenantID != *effectiveTenantID {
		return WriteResult{
			Blocked: true,
			Err:     fmt.Sprintf("Cross-tenant modification denied for %s:%s", resourceType, resourceID),
		}
	}

	return WriteResult{Valid: true}
}

// ValidateDelete delegates to ValidateUpdate: deletion has identical
// ownership semantics to modification.
func ValidateDelete(mode Mode, existingTenantID, effectiveTenantID *uint, resourceType, resourceID string) WriteResult {
	return ValidateUpdate(mode, existingTenantID, effectiveTenantID, resourceType, resourceID)
}

// EnsureInsertTenantID resolves the tenant id to stamp on a new row: an
// explicitly supplied value wins, otherwise the caller's effective tenant is
// inherited, otherwise nil.
func EnsureInsertTenantID(candidateTenantID, effectiveTenantID *uint) *uint {
	if candidateTenantID != nil {
		return candidateTenantID
	}
	return effectiveTenantID
}
