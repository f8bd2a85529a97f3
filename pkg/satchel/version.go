// Package satchel exposes module-level metadata.
package satchel

// Version is the current Satchel release.
const Version = "0.1.0"
