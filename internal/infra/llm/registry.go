// Registry maps model identifiers to provider adapters. It is built once at
// startup and never mutated afterwards, so lookups need no locking.
package llm

import "sort"

// Registry resolves a model identifier to its Provider.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry creates a Registry with the given identifier → adapter table.
// The map is copied so the caller cannot mutate the internal state.
func NewRegistry(providers map[string]Provider) *Registry {
	ps := make(map[string]Provider, len(providers))
	for k, v := range providers {
		ps[k] = v
	}
	return &Registry{providers: ps}
}

// Resolve returns the adapter registered for the exact identifier.
// A miss is not an error: an unknown model is a normal outcome that the
// caller turns into a user-visible "not implemented" answer.
func (r *Registry) Resolve(identifier string) (Provider, bool) {
	p, ok := r.providers[identifier]
	return p, ok
}

// Identifiers returns the registered model identifiers, sorted.
func (r *Registry) Identifiers() []string {
	out := make([]string, 0, len(r.providers))
	for k := range r.providers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
