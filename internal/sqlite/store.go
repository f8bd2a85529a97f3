// Package sqlite implements the SQLite unit-of-work store for Satchel
// collections. The store acts as the Loader for lazy collections and
// persists dirty collections back to a database file under DataDir.
package sqlite

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/satchel/pkg/collection"
	"github.com/mesh-intelligence/satchel/pkg/types"
)

//go:embed schema.sql
var schemaSQL string

// dbFileName is the database file created under DataDir.
const dbFileName = "satchel.db"

// Store implements types.Store. Unlike the collections it serves, the store
// is shared across callers and synchronizes internally.
type Store struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB

	log     *zap.Logger
	metrics *storeMetrics
}

// Compile-time interface check.
var _ types.Store = (*Store)(nil)

// Option configures a Store at construction.
type Option func(*Store)

// WithLogger routes store diagnostics to log. The default is a nop logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMetrics registers load/flush counters with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(s *Store) {
		s.metrics = newStoreMetrics(reg)
	}
}

// NewStore creates a new SQLite store instance.
// The store is not attached; call Attach with a Config to initialize.
func NewStore(opts ...Option) *Store {
	s := &Store{log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Attach initializes the store with the given configuration. Creates DataDir
// if it does not exist, opens the database, and applies the schema. Existing
// data is kept: the database is the source of truth across attachments.
// Returns ErrAlreadyAttached if already attached.
func (s *Store) Attach(config types.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	dbPath := filepath.Join(dataDir, dbFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return fmt.Errorf("applying schema: %w", err)
	}

	s.db = db
	s.config = config
	s.attached = true
	s.log.Debug("store attached", zap.String("data_dir", dataDir))

	return nil
}

// Detach releases the database connection. Idempotent: multiple calls
// succeed. After Detach, loads and flushes return ErrStoreDetached.
func (s *Store) Detach() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return nil // idempotent
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return err
		}
		s.db = nil
	}

	s.attached = false
	s.log.Debug("store detached")

	return nil
}

// Collection returns a lazy collection bound to this store for the given
// owner and association name. Nothing is read until the collection's first
// read access.
func (s *Store) Collection(owner types.Owner, name string) *collection.Collection {
	assoc := types.Association{Name: name}
	if ref, ok := owner.(types.OwnerRef); ok {
		assoc.OwnerKind = ref.Kind
	}
	return collection.New(s, owner, assoc)
}

// LoadInto implements types.Loader. It resolves the collection's owner and
// association, selects the stored elements in position order, and hydrates
// the decoded values under their persisted keys. JSON null round-trips to a
// Go nil element.
func (s *Store) LoadInto(c types.Hydrator) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return types.ErrStoreDetached
	}

	owner, ok := c.Owner().(types.Owner)
	if !ok {
		return types.ErrUnknownOwner
	}
	assoc := c.Association()

	rows, err := s.db.Query(
		"SELECT k, value FROM elements WHERE owner_id = ? AND association = ? ORDER BY position",
		owner.EntityID(), assoc.Name,
	)
	if err != nil {
		return fmt.Errorf("querying elements: %w", err)
	}
	defer rows.Close()

	loaded := 0
	for rows.Next() {
		var key int
		var raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return fmt.Errorf("scanning element: %w", err)
		}
		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			return fmt.Errorf("decoding element value: %w", err)
		}
		c.HydrateSet(key, value)
		loaded++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating elements: %w", err)
	}

	s.metrics.observeLoad(loaded)
	s.log.Debug("collection loaded",
		zap.String("owner", owner.EntityID()),
		zap.String("association", assoc.Name),
		zap.Int("elements", loaded))

	return nil
}

// Flush persists the collection's current contents, replacing the stored
// rows for its owner and association in one transaction, then snapshots the
// collection and clears its dirty flag. The collection is initialized first
// so pre-load additions are reconciled before anything is written.
func (s *Store) Flush(c *collection.Collection) error {
	// Initialization may call back into LoadInto, so it runs before the
	// store lock is taken.
	if err := c.Initialize(); err != nil {
		return err
	}
	pairs, err := c.ToArray()
	if err != nil {
		return err
	}

	owner, ok := c.Owner().(types.Owner)
	if !ok {
		return types.ErrUnknownOwner
	}
	assoc := c.Association()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return types.ErrStoreDetached
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning flush transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"DELETE FROM elements WHERE owner_id = ? AND association = ?",
		owner.EntityID(), assoc.Name,
	); err != nil {
		return fmt.Errorf("clearing stale elements: %w", err)
	}

	stmt, err := tx.Prepare(
		"INSERT INTO elements (element_id, owner_id, association, k, position, value, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("preparing element insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for position, pair := range pairs {
		raw, err := json.Marshal(pair.Value)
		if err != nil {
			return fmt.Errorf("encoding element %d: %w", pair.Key, err)
		}
		if _, err := stmt.Exec(
			newUUID(), owner.EntityID(), assoc.Name, pair.Key, position, string(raw), now,
		); err != nil {
			return fmt.Errorf("inserting element %d: %w", pair.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing flush transaction: %w", err)
	}

	c.TakeSnapshot()
	c.SetDirty(false)

	s.metrics.observeFlush(len(pairs))
	s.log.Debug("collection flushed",
		zap.String("owner", owner.EntityID()),
		zap.String("association", assoc.Name),
		zap.Int("elements", len(pairs)))

	return nil
}

// Associations returns the distinct association names stored for an owner,
// in name order.
func (s *Store) Associations(ownerID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return nil, types.ErrStoreDetached
	}

	rows, err := s.db.Query(
		"SELECT DISTINCT association FROM elements WHERE owner_id = ? ORDER BY association",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying associations: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning association: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating associations: %w", err)
	}

	return names, nil
}

// newUUID generates a UUID v7 string for element row IDs.
func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails.
		return uuid.New().String()
	}
	return id.String()
}
