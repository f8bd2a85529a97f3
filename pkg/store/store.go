// Package store provides the public API for Satchel storage backends.
// It exposes factory functions and the full backend surface while keeping
// implementation details internal.
package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/satchel/internal/sqlite"
	"github.com/mesh-intelligence/satchel/pkg/collection"
	"github.com/mesh-intelligence/satchel/pkg/types"
)

// Store is the full surface of a Satchel backend: the types.Store lifecycle
// and loader contract, plus collection construction, flushing, association
// discovery, and JSONL dump/load.
type Store interface {
	types.Store

	// Collection returns a lazy collection bound to this store for the
	// given owner and association name.
	Collection(owner types.Owner, name string) *collection.Collection

	// Flush persists the collection's current contents and clears its
	// dirty flag.
	Flush(c *collection.Collection) error

	// Associations returns the association names stored for an owner.
	Associations(ownerID string) ([]string, error)

	// ExportJSONL dumps every stored element to a JSONL file.
	ExportJSONL(path string) error

	// ImportJSONL loads elements from a JSONL file transactionally.
	ImportJSONL(path string) error
}

// Option configures a backend at construction.
type Option = sqlite.Option

// WithLogger routes backend diagnostics to log. The default is a nop logger.
func WithLogger(log *zap.Logger) Option { return sqlite.WithLogger(log) }

// WithMetrics registers load/flush counters with reg.
func WithMetrics(reg prometheus.Registerer) Option { return sqlite.WithMetrics(reg) }

// NewSQLite creates a new SQLite-backed store.
// The store is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	s := store.NewSQLite()
//	err := s.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".satchel-db",
//	})
//	defer s.Detach()
//	comments := s.Collection(post, "comments")
func NewSQLite(opts ...Option) Store {
	return sqlite.NewStore(opts...)
}
