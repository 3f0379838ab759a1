// Package host declares the ports through which the importer talks to a
// digital audio workstation.
//
// The workstation's arrangement API, media loader and preference store are
// opaque external collaborators: the importer never learns how tracks or
// items are represented, only what it may do to them. Shipped adapters:
//
//   - internal/session: an in-memory project used by the CLI and tests
//   - internal/media: an ffprobe-backed SourceLoader
//   - internal/store: a SQLite-backed StateStore
//
// Interfaces are kept narrow: an adapter for a live host only has to cover
// what the importer actually calls.
package host
