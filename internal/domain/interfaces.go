package domain

import "time"

// ─── Service Interfaces ─────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; application engines depend on them.

// Clock supplies wall-clock time. All time-based transitions (stake maturity,
// voting deadlines, scheduled execution) are pull-based comparisons against
// Now(), never scheduled callbacks.
type Clock interface {
	Now() time.Time
}

// RealClock is the production Clock.
type RealClock struct{}

// Now returns the current UTC time.
func (RealClock) Now() time.Time { return time.Now().UTC() }

// Authorizer answers identity capability checks. The reference compares
// caller identity strings directly; engines instead consult an injected
// predicate so tests can substitute policies.
type Authorizer interface {
	// IsAdmin reports whether the identity holds the administrative role.
	IsAdmin(identity string) bool
}

// StaticAuthorizer grants the admin capability to a fixed identity set.
type StaticAuthorizer struct {
	Admins map[string]bool
}

// NewStaticAuthorizer builds an authorizer from a list of admin identities.
func NewStaticAuthorizer(admins ...string) *StaticAuthorizer {
	m := make(map[string]bool, len(admins))
	for _, a := range admins {
		m[a] = true
	}
	return &StaticAuthorizer{Admins: m}
}

// IsAdmin reports membership in the admin set.
func (a *StaticAuthorizer) IsAdmin(identity string) bool {
	return a != nil && a.Admins[identity]
}

// EventSink receives events published by committed invocations.
type EventSink interface {
	Publish(events []Event)
}
