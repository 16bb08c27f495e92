package services

import (
	"sync"

	"github.com/WayfinderHQ/location-kit/client"
)

// Mode identifies the execution context a client is being resolved for.
type Mode string

const (
	ModeLive    Mode = "live"
	ModeTest    Mode = "test"
	ModePreview Mode = "preview"
)

// Selector resolves which capability client is active for an execution
// context. Consumers never pick an adapter directly: production code resolves
// ModeLive and gets the live adapter, tests resolve ModeTest and get a fresh
// failing client unless the test installed an override.
type Selector struct {
	mu        sync.RWMutex
	live      *client.Client
	overrides map[Mode]*client.Client
}

// NewSelector creates a selector backed by the given live client.
func NewSelector(live *client.Client) *Selector {
	return &Selector{
		live:      live,
		overrides: make(map[Mode]*client.Client),
	}
}

// Resolve returns the client for mode. Test and preview contexts get a fresh
// unimplemented client per call, so slot overrides made on one resolved value
// never bleed into another.
func (s *Selector) Resolve(mode Mode) *client.Client {
	s.mu.RLock()
	override, ok := s.overrides[mode]
	s.mu.RUnlock()
	if ok {
		return override
	}

	if mode == ModeLive {
		return s.live
	}
	return NewUnimplementedClient()
}

// Override pins the client returned for mode until ClearOverride.
func (s *Selector) Override(mode Mode, c *client.Client) {
	s.mu.Lock()
	s.overrides[mode] = c
	s.mu.Unlock()
}

// ClearOverride removes a pinned client for mode.
func (s *Selector) ClearOverride(mode Mode) {
	s.mu.Lock()
	delete(s.overrides, mode)
	s.mu.Unlock()
}
