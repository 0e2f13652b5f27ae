// Package cpt provides fluent builders for registering and extending
// content types and taxonomies against a host content-management platform.
//
// A builder accumulates an options map through chained setters and performs
// the actual registration in a single Register call (or deferred to the
// host's init phase via Schedule). The host itself is abstracted behind the
// Platform interface so the package never touches global state; see
// internal/platform/memory for a complete in-memory host.
package cpt
