// Package collection implements a lazy-loading, insertion-ordered collection
// of arbitrary values. A Collection defers loading its persisted elements
// until the first read access, reconciles elements added before loading with
// the loaded ones, and tracks whether it holds unsaved changes.
//
// Collections follow a single-goroutine cooperative model: they perform no
// internal locking, and the loader runs synchronously on the goroutine that
// triggered initialization.
package collection
