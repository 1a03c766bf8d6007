package service

import (
	"sync"
	"time"
)

// InteractionGate coalesces map-interaction signals (pan/zoom/touch storms)
// into at most one auto-follow suppression event per debounce window. After
// the resume delay passes without new signals, auto-follow resumes.
type InteractionGate struct {
	mu          sync.Mutex
	debounce    time.Duration
	resumeDelay time.Duration
	lastEvent   time.Time
	lastSignal  time.Time
}

// NewInteractionGate creates a gate with the given debounce window and
// follow-resume delay.
func NewInteractionGate(debounce, resumeDelay time.Duration) *InteractionGate {
	return &InteractionGate{
		debounce:    debounce,
		resumeDelay: resumeDelay,
	}
}

// Signal records one interaction. It returns true when the signal produced a
// suppression event, false when it was coalesced into the current window.
func (g *InteractionGate) Signal(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.lastSignal = now
	if !g.lastEvent.IsZero() && now.Sub(g.lastEvent) < g.debounce {
		return false
	}
	g.lastEvent = now
	return true
}

// Suppressed reports whether auto-follow is currently suppressed.
func (g *InteractionGate) Suppressed(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.lastSignal.IsZero() {
		return false
	}
	return now.Sub(g.lastSignal) < g.resumeDelay
}
