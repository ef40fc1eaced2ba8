package visit

import (
	"errors"
	"sync"
)

// ErrMutationInFlight is returned when a mutation is attempted for an
// entity that already has one outstanding.
var ErrMutationInFlight = errors.New("another update for this entity is still in flight")

// Registry enforces at most one in-flight mutation per entity id. It
// replaces the upstream client's disabled-button convention with an
// explicit lock that holds regardless of which surface (TUI, CLI)
// triggers the mutation.
type Registry struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{held: make(map[string]struct{})}
}

// Acquire claims the slot for id, failing with ErrMutationInFlight if
// it is already taken.
func (r *Registry) Acquire(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.held[id]; taken {
		return ErrMutationInFlight
	}
	r.held[id] = struct{}{}
	return nil
}

// Release frees the slot for id. Releasing an unheld id is a no-op.
func (r *Registry) Release(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.held, id)
}

// Held reports whether id currently has a mutation in flight.
func (r *Registry) Held(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, taken := r.held[id]
	return taken
}
