// Package state holds the in-process runtime state shared between the
// pipeline and the background sweeps. It is owned by the top-level process,
// cleared on restart, and pruned by its own sweep; nothing here is persisted.
package state

import (
	"sync"
	"time"
)

// PendingConsent is a storage request awaiting the target's approval in DM.
type PendingConsent struct {
	InitiatorID string
	TargetID    string
	Hours       int
	Purpose     string
	RequestedAt time.Time
}

// Runtime tracks transient per-process state.
type Runtime struct {
	mu            sync.Mutex
	lastActive    map[string]time.Time
	consents      map[string]PendingConsent // keyed by target ID
	consentTTL    time.Duration
	activeHorizon time.Duration
}

// NewRuntime builds an empty runtime state.
func NewRuntime() *Runtime {
	return &Runtime{
		lastActive:    make(map[string]time.Time),
		consents:      make(map[string]PendingConsent),
		consentTTL:    30 * time.Minute,
		activeHorizon: 15 * time.Minute,
	}
}

// MarkActive records that a user spoke at the given instant. The battery
// drain sweep only drains drones active within the horizon.
func (r *Runtime) MarkActive(userID string, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastActive[userID] = now
}

// ActiveSince reports whether the user spoke within the drain horizon.
func (r *Runtime) ActiveSince(userID string, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.lastActive[userID]
	return ok && now.Sub(t) <= r.activeHorizon
}

// PutConsent records a storage request awaiting the target's approval,
// replacing any earlier request for the same target.
func (r *Runtime) PutConsent(c PendingConsent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.consents[c.TargetID] = c
}

// TakeConsent removes and returns the pending request for a target.
func (r *Runtime) TakeConsent(targetID string, now time.Time) (PendingConsent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.consents[targetID]
	if !ok {
		return PendingConsent{}, false
	}
	delete(r.consents, targetID)
	if now.Sub(c.RequestedAt) > r.consentTTL {
		return PendingConsent{}, false
	}
	return c, true
}

// Prune drops stale activity marks and expired consent requests.
func (r *Runtime) Prune(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.lastActive {
		if now.Sub(t) > 24*time.Hour {
			delete(r.lastActive, id)
		}
	}
	for id, c := range r.consents {
		if now.Sub(c.RequestedAt) > r.consentTTL {
			delete(r.consents, id)
		}
	}
}
