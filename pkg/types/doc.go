// Package types defines the Loader, Hydrator, and Store interfaces, the
// association descriptor, configuration, and standard error types for the
// Satchel collection system.
package types
