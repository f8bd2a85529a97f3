package types

import "errors"

// Association describes the owner-side association a collection belongs to.
// The collection does not interpret it; it is stored at construction and
// handed back to the loader unchanged.
type Association struct {
	Name      string `json:"name" yaml:"name"`             // association name, e.g. "comments"
	OwnerKind string `json:"owner_kind" yaml:"owner_kind"` // owning entity kind, e.g. "post"
}

// Owner is implemented by entities that can own persisted collections.
// The entity holds its collections; a collection keeps only this non-owning
// back-reference so the loader can resolve what to fetch.
type Owner interface {
	// EntityID returns the stable identifier of the owning entity.
	EntityID() string
}

// OwnerRef is a minimal Owner implementation for callers that track owning
// entities by ID alone, such as the CLI.
type OwnerRef struct {
	ID   string
	Kind string
}

// EntityID returns the referenced entity ID.
func (o OwnerRef) EntityID() string { return o.ID }

// Hydrator is the surface a Loader uses to append persisted elements into a
// collection during initialization. Hydration bypasses the collection's
// dirty tracking: loaded elements are by definition already persisted.
type Hydrator interface {
	// HydrateAdd appends value under the next sequential key.
	HydrateAdd(value any)

	// HydrateSet stores value under an explicit key.
	HydrateSet(key int, value any)

	// Owner returns the owning entity reference, or nil.
	Owner() any

	// Association returns the association descriptor given at construction.
	Association() Association
}

// Loader populates a collection with its persisted elements. LoadInto is
// invoked at most once per collection lifetime, synchronously on the
// goroutine that triggered initialization. Elements are appended through the
// hydration surface in persisted order. A returned error aborts
// initialization; the collection then keeps its pre-load contents and stays
// uninitialized.
type Loader interface {
	LoadInto(c Hydrator) error
}

// Loader errors.
var (
	ErrUnknownOwner = errors.New("collection owner does not implement Owner")
)
