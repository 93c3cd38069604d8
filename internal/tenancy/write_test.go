package tenancy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateInsertOffIsNoOp(t *testing.T) {
	inputs := []struct {
		insert    *uint
		effective *uint
	}{
		{nil, nil},
		{uintPtr(1), nil},
		{nil, uintPtr(1)},
		{uintPtr(1), uintPtr(2)},
	}

	for _, in := range inputs {
		res := ValidateInsert(ModeOff, in.insert, in.effective, "project")
		assert.True(t, res.Valid)
		assert.False(t, res.Blocked)
		assert.Empty(t, res.Warning)
		assert.Empty(t, res.Err)
	}
}

func TestValidateInsertNoTenantContext(t *testing.T) {
	strict := ValidateInsert(ModeStrict, uintPtr(1), nil, "project")
	assert.True(t, strict.Blocked)
	assert.False(t, strict.Valid)
	assert.Equal(t, "Cannot create project: no tenant context", strict.Err)

	soft := ValidateInsert(ModeSoft, uintPtr(1), nil, "project")
	assert.False(t, soft.Blocked)
	assert.True(t, soft.Valid)
	assert.NotEmpty(t, soft.Warning)
}

func TestValidateInsertMissingTenantID(t *testing.T) {
	strict := ValidateInsert(ModeStrict, nil, uintPtr(1), "project")
	assert.True(t, strict.Blocked)
	assert.Equal(t, "Cannot create project: tenantId required in strict mode", strict.Err)

	soft := ValidateInsert(ModeSoft, nil, uintPtr(1), "project")
	assert.False(t, soft.Blocked)
	assert.True(t, soft.Valid)
	assert.NotEmpty(t, soft.Warning)
}

func TestValidateInsertForeignTenantBlockedInAnyActiveMode(t *testing.T) {
	// Creating data under a foreign tenant id is never tolerated, unlike
	// the orphan-read case.
	for _, mode := range []Mode{ModeSoft, ModeStrict} {
		res := ValidateInsert(mode, uintPtr(1), uintPtr(2), "project")
		assert.True(t, res.Blocked, "mode %s", mode)
		assert.False(t, res.Valid, "mode %s", mode)
		assert.Equal(t, "Cannot create project under a different tenant", res.Err)
	}
}

func TestValidateInsertCleanMatch(t *testing.T) {
	for _, mode := range []Mode{ModeSoft, ModeStrict} {
		res := ValidateInsert(mode, uintPtr(3), uintPtr(3), "project")
		assert.True(t, res.Valid, "mode %s", mode)
		assert.False(t, res.Blocked, "mode %s", mode)
		assert.Empty(t, res.Warning, "mode %s", mode)
	}
}

func TestValidateUpdateMismatchAlwaysBlocks(t *testing.T) {
	for _, mode := range []Mode{ModeSoft, ModeStrict} {
		res := ValidateUpdate(mode, uintPtr(1), uintPtr(2), "task", "5")
		assert.True(t, res.Blocked, "mode %s", mode)
		assert.Equal(t, "Cross-tenant modification denied for task:5", res.Err)
	}
}

func TestValidateUpdateLegacyRow(t *testing.T) {
	strict := ValidateUpdate(ModeStrict, nil, uintPtr(1), "task", "5")
	assert.True(t, strict.Blocked)

	soft := ValidateUpdate(ModeSoft, nil, uintPtr(1), "task", "5")
	assert.False(t, soft.Blocked)
	assert.True(t, soft.Valid)
	assert.Equal(t, "Modifying task:5 with legacy null tenantId", soft.Warning)
}

func TestValidateUpdateNoTenantContext(t *testing.T) {
	strict := ValidateUpdate(ModeStrict, uintPtr(1), nil, "task", "5")
	assert.True(t, strict.Blocked)
	assert.Equal(t, "Cannot modify task:5: no tenant context", strict.Err)

	soft := ValidateUpdate(ModeSoft, uintPtr(1), nil, "task", "5")
	assert.False(t, soft.Blocked)
	assert.True(t, soft.Valid)
	assert.NotEmpty(t, soft.Warning)
}

func TestValidateDeleteMirrorsUpdate(t *testing.T) {
	// Deletion has identical ownership semantics to modification.
	inputs := []struct {
		existing  *uint
		effective *uint
	}{
		{nil, nil},
		{uintPtr(1), nil},
		{nil, uintPtr(1)},
		{uintPtr(1), uintPtr(2)},
		{uintPtr(1), uintPtr(1)},
	}

	for _, mode := range []Mode{ModeOff, ModeSoft, ModeStrict} {
		for _, in := range inputs {
			update := ValidateUpdate(mode, in.existing, in.effective, "task", "9")
			del := ValidateDelete(mode, in.existing, in.effective, "task", "9")
			assert.Equal(t, update, del, "mode %s, existing %v, effective %v",
				mode, in.existing, in.effective)
		}
	}
}

func TestEnsureInsertTenantID(t *testing.T) {
	candidate := uintPtr(1)
	effective := uintPtr(2)

	// Explicitly supplied value wins
	assert.Equal(t, candidate, EnsureInsertTenantID(candidate, effective))

	// Caller's effective tenant is inherited when no candidate is supplied
	assert.Equal(t, effective, EnsureInsertTenantID(nil, effective))

	// Nothing to inherit
	assert.Nil(t, EnsureInsertTenantID(nil, nil))
}
