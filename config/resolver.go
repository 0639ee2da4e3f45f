package config

import (
	"fmt"
	"sync"

	"github.com/MKhiriev/go-cloud-sync/models"
)

// Resolver maps a type tag to the destination its documents are stored at.
// Registrations are write-once: a destination is constant for a given type
// for the process lifetime, so no object can be re-routed mid-sync.
//
// Resolver is safe for concurrent use.
type Resolver struct {
	mu           sync.RWMutex
	destinations map[string]models.Destination
}

func NewResolver() *Resolver {
	return &Resolver{
		destinations: make(map[string]models.Destination),
	}
}

// Register binds typeTag to dst. Returns [ErrInvalidDestination] when the
// tag or the collection is empty and [ErrDuplicateRegistration] when the
// tag is already bound.
func (r *Resolver) Register(typeTag string, dst models.Destination) error {
	if typeTag == "" {
		return fmt.Errorf("%w: empty type tag", ErrInvalidDestination)
	}
	if dst.Collection == "" {
		return fmt.Errorf("%w: empty collection for type %q", ErrInvalidDestination, typeTag)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.destinations[typeTag]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateRegistration, typeTag)
	}

	r.destinations[typeTag] = dst
	return nil
}

// MustRegister is Register that panics on error. Intended for package-level
// wiring at process start, where a failed registration is unrecoverable.
func (r *Resolver) MustRegister(typeTag string, dst models.Destination) {
	if err := r.Register(typeTag, dst); err != nil {
		panic(err)
	}
}

// DestinationFor resolves the destination registered for typeTag. Returns
// [ErrMissingConfiguration] when the type was never registered.
func (r *Resolver) DestinationFor(typeTag string) (models.Destination, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dst, ok := r.destinations[typeTag]
	if !ok {
		return models.Destination{}, fmt.Errorf("%w: %q", ErrMissingConfiguration, typeTag)
	}

	return dst, nil
}

// NewResolverFromConfig builds a resolver from cfg.Collections, binding
// every type tag to its collection with the shared credentials handle.
func NewResolverFromConfig(cfg *Config, creds models.Credentials) (*Resolver, error) {
	r := NewResolver()
	for typeTag, collection := range cfg.Collections {
		err := r.Register(typeTag, models.Destination{Collection: collection, Credentials: creds})
		if err != nil {
			return nil, fmt.Errorf("register collection for %q: %w", typeTag, err)
		}
	}

	return r, nil
}
