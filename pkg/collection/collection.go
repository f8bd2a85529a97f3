package collection

import (
	"fmt"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

// Initialization states. A collection starts uninitialized, passes through
// the transient initializing state while the loader runs, and ends
// initialized. Clear never resets the state; only re-creation does.
type initState int

const (
	stateUninitialized initState = iota
	stateInitializing
	stateInitialized
)

// Pair is one keyed element of a collection, in insertion order.
type Pair struct {
	Key   int
	Value any
}

// Collection is an insertion-ordered, integer-keyed container of arbitrary
// values, including nil. Keys are sequential unless assigned explicitly with
// Set. Read accessors trigger loading on first use; mutators never do.
//
// Not safe for concurrent use.
type Collection struct {
	entries []Pair
	index   map[int]int // key -> position in entries
	nextKey int
	pos     int // cursor position

	state initState
	dirty bool

	snapshot []any

	loader types.Loader
	owner  any
	assoc  types.Association
}

// Compile-time check: Collection is a valid hydration target for loaders.
var _ types.Hydrator = (*Collection)(nil)

// New returns an empty, uninitialized collection. The loader is invoked on
// the first read access; a nil loader makes initialization an empty load.
// The owner reference and association descriptor are kept opaque and handed
// back to the loader through the Hydrator surface.
func New(loader types.Loader, owner any, assoc types.Association) *Collection {
	return &Collection{
		index:  make(map[int]int),
		loader: loader,
		owner:  owner,
		assoc:  assoc,
	}
}

// Owner returns the owning entity reference, or nil.
func (c *Collection) Owner() any { return c.owner }

// Association returns the association descriptor given at construction.
func (c *Collection) Association() types.Association { return c.assoc }

// IsInitialized reports whether the loader has completed for this collection.
func (c *Collection) IsInitialized() bool { return c.state == stateInitialized }

// IsDirty reports whether the collection holds changes the store has not
// seen: pre-load additions before initialization, any surviving additions
// after it, or post-initialization mutations.
func (c *Collection) IsDirty() bool { return c.dirty }

// SetDirty overrides the dirty flag. Unit-of-work code clears it after a
// successful flush.
func (c *Collection) SetDirty(dirty bool) { c.dirty = dirty }

// SetInitialized overrides the initialization state without invoking the
// loader. Unit-of-work code uses it to mark hydrated collections as
// initialized, or to put a collection wrapping pre-existing elements back
// into lazy state.
func (c *Collection) SetInitialized(initialized bool) {
	if initialized {
		c.state = stateInitialized
	} else {
		c.state = stateUninitialized
	}
}

// Initialize loads the persisted elements exactly once and reconciles them
// with any pre-load additions. Loaded elements come first, in loader order;
// every pre-load addition that is not identical to a loaded element follows,
// in its original relative order and with its original key when that key is
// still free. The collection ends dirty only when at least one pre-load
// addition survived de-duplication, since only then does it hold elements
// the store has never seen.
//
// On loader failure nothing is committed: contents, key sequence, and dirty
// flag are restored and the collection stays uninitialized. Calling
// Initialize on an initialized collection is a no-op.
func (c *Collection) Initialize() error {
	if c.state != stateUninitialized {
		return nil
	}

	preload := c.entries
	preNextKey := c.nextKey
	preDirty := c.dirty

	c.entries = nil
	c.index = make(map[int]int)
	c.nextKey = 0
	c.state = stateInitializing

	if c.loader != nil {
		if err := c.loader.LoadInto(c); err != nil {
			c.entries = preload
			c.index = indexFor(preload)
			c.nextKey = preNextKey
			c.dirty = preDirty
			c.state = stateUninitialized
			return fmt.Errorf("loading collection %q: %w", c.assoc.Name, err)
		}
	}

	survived := 0
	for _, e := range preload {
		if c.containsIdentical(e.Value) {
			continue
		}
		if _, taken := c.index[e.Key]; taken {
			c.append(c.nextKey, e.Value)
		} else {
			c.append(e.Key, e.Value)
		}
		survived++
	}

	c.dirty = survived > 0
	c.state = stateInitialized
	c.pos = 0
	c.TakeSnapshot()
	return nil
}

// Add appends value under the next sequential key. Adding never triggers the
// loader; an element added before initialization is a pre-load addition that
// gets reconciled when the loader runs. Add always marks the collection
// dirty.
func (c *Collection) Add(value any) {
	c.append(c.nextKey, value)
	c.dirty = true
}

// Set stores value under an explicit key, overwriting any existing entry.
// Explicit keys bypass sequential generation and never renumber other
// entries. Set never triggers the loader.
func (c *Collection) Set(key int, value any) {
	if pos, ok := c.index[key]; ok {
		c.entries[pos].Value = value
	} else {
		c.append(key, value)
	}
	if c.state == stateInitialized {
		c.dirty = true
	}
}

// Get returns the value stored under key, initializing the collection first.
// Absent keys yield ok == false rather than an error; a stored nil comes back
// as nil with ok == true.
func (c *Collection) Get(key int) (value any, ok bool, err error) {
	if err := c.Initialize(); err != nil {
		return nil, false, err
	}
	pos, ok := c.index[key]
	if !ok {
		return nil, false, nil
	}
	return c.entries[pos].Value, true, nil
}

// Remove deletes the entry under key and returns its value. The collection
// is initialized first, since the removed value must come from the full
// contents. Absent keys yield ok == false.
func (c *Collection) Remove(key int) (value any, ok bool, err error) {
	if err := c.Initialize(); err != nil {
		return nil, false, err
	}
	pos, ok := c.index[key]
	if !ok {
		return nil, false, nil
	}
	v := c.entries[pos].Value
	c.removeAt(pos)
	c.dirty = true
	return v, true, nil
}

// RemoveElement removes the first element identical to value together with
// its key, leaving no gap in enumeration. It never triggers the loader:
// before initialization it only affects pre-load additions. Returns true
// when an element was removed.
func (c *Collection) RemoveElement(value any) bool {
	for pos, e := range c.entries {
		if identical(e.Value, value) {
			c.removeAt(pos)
			if c.state == stateInitialized {
				c.dirty = true
			}
			return true
		}
	}
	return false
}

// Clear removes every element and resets the key sequence, so the next Add
// receives key 0. Clear does not reset the initialization state and never
// triggers the loader.
func (c *Collection) Clear() {
	c.entries = nil
	c.index = make(map[int]int)
	c.nextKey = 0
	c.pos = 0
	if c.state == stateInitialized {
		c.dirty = true
	}
}

// Count returns the number of elements, initializing the collection first.
func (c *Collection) Count() (int, error) {
	if err := c.Initialize(); err != nil {
		return 0, err
	}
	return len(c.entries), nil
}

// IsEmpty reports whether the collection has no elements. It initializes
// first: emptiness is only meaningful against the full contents.
func (c *Collection) IsEmpty() (bool, error) {
	n, err := c.Count()
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// ToArray returns the keyed contents in insertion order, initializing the
// collection first. The returned slice is a copy.
func (c *Collection) ToArray() ([]Pair, error) {
	if err := c.Initialize(); err != nil {
		return nil, err
	}
	out := make([]Pair, len(c.entries))
	copy(out, c.entries)
	return out, nil
}

// Values returns the values in insertion order, initializing first.
func (c *Collection) Values() ([]any, error) {
	if err := c.Initialize(); err != nil {
		return nil, err
	}
	out := make([]any, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Value
	}
	return out, nil
}

// Keys returns the keys in insertion order, initializing first.
func (c *Collection) Keys() ([]int, error) {
	if err := c.Initialize(); err != nil {
		return nil, err
	}
	out := make([]int, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Key
	}
	return out, nil
}

// Contains reports whether an element identical to value is present,
// initializing the collection first.
func (c *Collection) Contains(value any) (bool, error) {
	if err := c.Initialize(); err != nil {
		return false, err
	}
	return c.containsIdentical(value), nil
}

// IndexOf returns the key of the first element identical to value,
// initializing the collection first. Absent values yield ok == false.
func (c *Collection) IndexOf(value any) (key int, ok bool, err error) {
	if err := c.Initialize(); err != nil {
		return 0, false, err
	}
	for _, e := range c.entries {
		if identical(e.Value, value) {
			return e.Key, true, nil
		}
	}
	return 0, false, nil
}

// Slice returns up to length values starting at the given position (not
// key), initializing the collection first. Out-of-range requests are
// truncated rather than failing.
func (c *Collection) Slice(offset, length int) ([]any, error) {
	if err := c.Initialize(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(c.entries) || length <= 0 {
		return nil, nil
	}
	end := offset + length
	if end > len(c.entries) {
		end = len(c.entries)
	}
	out := make([]any, 0, end-offset)
	for _, e := range c.entries[offset:end] {
		out = append(out, e.Value)
	}
	return out, nil
}

// Each calls fn for every key/value pair in insertion order, initializing
// the collection first. Iteration stops early when fn returns false.
func (c *Collection) Each(fn func(key int, value any) bool) error {
	if err := c.Initialize(); err != nil {
		return err
	}
	for _, e := range c.entries {
		if !fn(e.Key, e.Value) {
			return nil
		}
	}
	return nil
}

// HydrateAdd appends value under the next sequential key without touching
// the dirty flag. Loaders use it while the collection is initializing.
func (c *Collection) HydrateAdd(value any) {
	c.append(c.nextKey, value)
}

// HydrateSet stores value under an explicit key without touching the dirty
// flag. Loaders use it to restore persisted keys.
func (c *Collection) HydrateSet(key int, value any) {
	if pos, ok := c.index[key]; ok {
		c.entries[pos].Value = value
		return
	}
	c.append(key, value)
}

// append stores value under key at the end of the entry list and keeps the
// sequential generator ahead of every key seen so far.
func (c *Collection) append(key int, value any) {
	c.index[key] = len(c.entries)
	c.entries = append(c.entries, Pair{Key: key, Value: value})
	if key >= c.nextKey {
		c.nextKey = key + 1
	}
}

// removeAt deletes the entry at position pos, drops its key, and reindexes
// the entries that shifted down.
func (c *Collection) removeAt(pos int) {
	key := c.entries[pos].Key
	c.entries = append(c.entries[:pos], c.entries[pos+1:]...)
	delete(c.index, key)
	for i := pos; i < len(c.entries); i++ {
		c.index[c.entries[i].Key] = i
	}
	if c.pos > pos {
		c.pos--
	}
}

// containsIdentical reports whether any entry holds a value identical to v.
func (c *Collection) containsIdentical(v any) bool {
	for _, e := range c.entries {
		if identical(e.Value, v) {
			return true
		}
	}
	return false
}

// indexFor rebuilds the key index for a restored entry list.
func indexFor(entries []Pair) map[int]int {
	idx := make(map[int]int, len(entries))
	for i, e := range entries {
		idx[e.Key] = i
	}
	return idx
}
