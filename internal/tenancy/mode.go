package tenancy

import "strings"

// Mode is the tenancy enforcement mode for the process. It is resolved once
// at startup and passed explicitly into validators and middleware so that
// every decision function stays pure.
type Mode string

const (
	// ModeOff disables all tenancy checks (legacy single-tenant behavior)
	ModeOff Mode = "off"
	// ModeSoft observes and reports violations without blocking,
	// except true cross-tenant mismatches which are always rejected
	ModeSoft Mode = "soft"
	// ModeStrict blocks every detected violation
	ModeStrict Mode = "strict"
)

// ResolveMode classifies a raw configuration value into an enforcement mode.
// Resolution never fails: unset or unrecognized values collapse to off, so a
// configuration typo degrades to the pre-rollout behavior instead of an
// outage.
func ResolveMode(raw string) Mode {
	switch strings.ToLower(raw) {
	case "strict":
		return ModeStrict
	case "soft":
		return ModeSoft
	default:
		return ModeOff
	}
}

// IsStrict reports whether violations must block
func (m Mode) IsStrict() bool {
	return m == ModeStrict
}

// IsActive reports whether enforcement is observing or blocking (soft or strict)
func (m Mode) IsActive() bool {
	return m == ModeSoft || m == ModeStrict
}
