package hook

import (
	"fmt"
	"sort"
)

// factory constructs a Handler. New hooks are added in exactly one
// place — the builtinHooks list in internal/cli/deps.go, passed to
// RegisterAll — so `list`, `test`, and `run` dispatch stay in lockstep.
type factory func() Handler

type registration struct {
	id      string
	factory factory
}

// registrations is the closed set of hook IDs this engine knows about.
// It is filled by RegisterAll (registry_builtins.go) from the explicit
// list in internal/cli/deps.go; no blank-import side effects are used.
var registrations []registration

// register is called from RegisterAll.
func register(id string, f factory) {
	registrations = append(registrations, registration{id: id, factory: f})
}

// Registry is the closed, compile-time dispatch table from hook ID to
// handler instance.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry builds a Registry containing every built-in hook.
func NewRegistry() *Registry {
	r := &Registry{handlers: make(map[string]Handler, len(registrations))}
	for _, reg := range registrations {
		r.handlers[reg.id] = reg.factory()
	}
	return r
}

// ErrUnknownHook is returned by Lookup for an unrecognized hook ID.
type ErrUnknownHook struct{ ID string }

func (e *ErrUnknownHook) Error() string {
	return fmt.Sprintf("hook: unknown hook id %q", e.ID)
}

// Lookup returns the handler for id, or ErrUnknownHook.
func (r *Registry) Lookup(id string) (Handler, error) {
	h, ok := r.handlers[id]
	if !ok {
		return nil, &ErrUnknownHook{ID: id}
	}
	return h, nil
}

// IDs returns every registered hook ID, sorted for stable listing.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.handlers))
	for id := range r.handlers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Descriptors returns every registered hook's descriptor, sorted by ID.
func (r *Registry) Descriptors() []Descriptor {
	ids := r.IDs()
	out := make([]Descriptor, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.handlers[id].Descriptor())
	}
	return out
}
