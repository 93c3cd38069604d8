package tenancy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint) *uint {
	return &v
}

func TestValidateOwnershipOffIsNoOp(t *testing.T) {
	// With enforcement off, every input combination passes with fallback
	// and no warning.
	inputs := []struct {
		resource  *uint
		effective *uint
	}{
		{nil, nil},
		{uintPtr(1), nil},
		{nil, uintPtr(1)},
		{uintPtr(1), uintPtr(2)},
		{uintPtr(1), uintPtr(1)},
	}

	for _, in := range inputs {
		res := ValidateOwnership(ModeOff, in.resource, in.effective, "task", "123")
		assert.True(t, res.Valid)
		assert.True(t, res.ShouldFallback)
		assert.Empty(t, res.Warning)
	}
}

func TestValidateOwnershipMismatchIsUnconditional(t *testing.T) {
	// A true cross-tenant mismatch rejects in both soft and strict.
	for _, mode := range []Mode{ModeSoft, ModeStrict} {
		res := ValidateOwnership(mode, uintPtr(1), uintPtr(2), "task", "123")
		assert.False(t, res.Valid, "mode %s", mode)
		assert.Equal(t, "Cross-tenant access denied for task:123", res.Warning)
	}
}

func TestValidateOwnershipNoTenantContext(t *testing.T) {
	strict := ValidateOwnership(ModeStrict, uintPtr(1), nil, "task", "123")
	assert.False(t, strict.Valid)
	assert.Equal(t, "No tenant context for task access", strict.Warning)

	soft := ValidateOwnership(ModeSoft, uintPtr(1), nil, "task", "123")
	assert.True(t, soft.Valid)
	assert.True(t, soft.ShouldFallback)
	assert.Equal(t, "No tenant context for task:123", soft.Warning)
}

func TestValidateOwnershipLegacyToleranceDiffersByMode(t *testing.T) {
	strict := ValidateOwnership(ModeStrict, nil, uintPtr(1), "task", "123")
	assert.False(t, strict.Valid)
	assert.Equal(t, "task:123 has no tenantId (strict mode)", strict.Warning)

	soft := ValidateOwnership(ModeSoft, nil, uintPtr(1), "task", "123")
	assert.True(t, soft.Valid)
	assert.True(t, soft.ShouldFallback)
	assert.Equal(t, "task:123 has legacy null tenantId", soft.Warning)
}

func TestValidateOwnershipCleanMatch(t *testing.T) {
	for _, mode := range []Mode{ModeSoft, ModeStrict} {
		res := ValidateOwnership(mode, uintPtr(7), uintPtr(7), "project", "42")
		assert.True(t, res.Valid, "mode %s", mode)
		assert.False(t, res.ShouldFallback, "mode %s", mode)
		assert.Empty(t, res.Warning, "mode %s", mode)
	}
}

func TestValidateOwnershipStrictCrossTenantScenario(t *testing.T) {
	// strict mode, resource tenant t1, effective tenant t2
	res := ValidateOwnership(ModeStrict, uintPtr(1), uintPtr(2), "task", "123")
	assert.False(t, res.Valid)
	assert.Equal(t, "Cross-tenant access denied for task:123", res.Warning)
}

func TestValidateOwnershipSoftLegacyScenario(t *testing.T) {
	// soft mode, legacy row with no tenant id
	res := ValidateOwnership(ModeSoft, nil, uintPtr(1), "task", "123")
	assert.True(t, res.Valid)
	assert.True(t, res.ShouldFallback)
	assert.Equal(t, "task:123 has legacy null tenantId", res.Warning)
}
