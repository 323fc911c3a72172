// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"
	"time"
)

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	New() string
}

// Metrics records engine-level counters. Implementations must be safe for
// concurrent use.
type Metrics interface {
	// ResolvedDefault counts one resolved default value. shared is true when
	// the value came from a shared-generator group.
	ResolvedDefault(resource string, shared bool)

	// GeneratorFailure counts a default generator error during a write.
	GeneratorFailure(resource, attribute string)

	// ResourceCompiled counts one resource definition compile attempt.
	ResourceCompiled(resource string, ok bool)
}

// -----------------------------------------------------------------------------
// Data Store Ports
// -----------------------------------------------------------------------------

// ResourceSnapshot is a persisted compiled resource definition.
type ResourceSnapshot struct {
	Name      string
	Source    string // original YAML definition
	Compiled  []byte // compiled descriptor, JSON-encoded
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ResourceStore persists compiled resource definitions.
type ResourceStore interface {
	// Save stores or replaces a snapshot by resource name.
	Save(ctx context.Context, snap ResourceSnapshot) error

	// Get retrieves a snapshot by resource name.
	Get(ctx context.Context, name string) (ResourceSnapshot, error)

	// List returns all snapshots ordered by name.
	List(ctx context.Context) ([]ResourceSnapshot, error)

	// Delete removes a snapshot.
	Delete(ctx context.Context, name string) error
}
