package oauth

import (
	"github.com/caloria-app/caloria-backend/internal/domain"
)

// Registry maps provider names to their adapters. The registry is populated
// once at startup and read-only afterwards.
type Registry struct {
	providers map[string]domain.OAuthProvider
}

// NewRegistry creates a Registry with the given providers.
func NewRegistry(providers ...domain.OAuthProvider) *Registry {
	r := &Registry{providers: make(map[string]domain.OAuthProvider, len(providers))}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

// Get returns the adapter for the provider name, or ErrUnsupportedProvider.
func (r *Registry) Get(name string) (domain.OAuthProvider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, domain.ErrUnsupportedProvider
	}
	return p, nil
}
