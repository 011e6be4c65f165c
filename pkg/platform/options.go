package platform

import (
	"log/slog"

	"github.com/atunesdelpacifico/storefront/pkg/localstore"
)

// Option customizes platform assembly.
type Option func(*Platform)

// WithStore injects a persistence store, overriding the configured driver.
// Tests use this to run against the in-memory store.
func WithStore(store localstore.Store) Option {
	return func(p *Platform) {
		p.store = store
	}
}

// WithLogger sets the logger used by all components.
func WithLogger(log *slog.Logger) Option {
	return func(p *Platform) {
		p.log = log
	}
}

// WithVersion sets the build version reported by the probe endpoints.
func WithVersion(version string) Option {
	return func(p *Platform) {
		p.version = version
	}
}
