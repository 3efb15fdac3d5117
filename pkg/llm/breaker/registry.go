package breaker

import (
	"sync"
	"time"
)

// Registry tracks per-provider cooldown state. It is a best-effort breaker:
// last-write-wins is enough, a stray request slipping through during a race
// is acceptable because the provider call itself is still guarded.
type Registry interface {
	IsAvailable(provider string) bool
	RecordFailure(provider string)
	RecordSuccess(provider string)
}

type registry struct {
	mu          sync.Mutex
	lastFailure map[string]time.Time
	cooldown    time.Duration
	now         func() time.Time
}

// New creates a Registry with the given cooldown window.
func New(cooldown time.Duration) Registry {
	return NewWithClock(cooldown, time.Now)
}

// NewWithClock allows tests to inject a fake clock.
func NewWithClock(cooldown time.Duration, now func() time.Time) Registry {
	return &registry{
		lastFailure: make(map[string]time.Time),
		cooldown:    cooldown,
		now:         now,
	}
}

// IsAvailable reports whether the provider may be tried. Providers never
// seen before are always available.
func (r *registry) IsAvailable(provider string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	failedAt, found := r.lastFailure[provider]
	if !found {
		return true
	}
	return r.now().Sub(failedAt) >= r.cooldown
}

func (r *registry) RecordFailure(provider string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFailure[provider] = r.now()
}

// RecordSuccess clears any active cooldown immediately. A provider that has
// proven healthy should not sit out the rest of its window.
func (r *registry) RecordSuccess(provider string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.lastFailure, provider)
}
