package host

import (
	"context"
	"errors"
)

// ErrPickCancelled reports that the user backed out of a folder selection.
// Callers treat it as a silent abort.
var ErrPickCancelled = errors.New("folder selection cancelled")

// Source is a loaded media file ready to back a take.
type Source interface {
	// Path returns the file the source was loaded from.
	Path() string
	// Duration returns the playable length in seconds.
	Duration() float64
}

// SourceLoader resolves a file on disk into a Source. Loading may shell out
// to an external prober, so it honors ctx.
type SourceLoader interface {
	Load(ctx context.Context, path string) (Source, error)
}

// Take is one playable lane of an item.
type Take interface {
	SetName(name string) error
}

// Item is a timeline object on a track.
type Item interface {
	// AddTake attaches src as a new take and returns it.
	AddTake(src Source) (Take, error)
}

// Track is a project track handle.
type Track interface {
	SetName(name string) error
	// AddItem creates an item on the track at start seconds with the given
	// length in seconds.
	AddItem(start, length float64) (Item, error)
}

// Project is the host arrangement the importer mutates.
type Project interface {
	// TrackCount returns the number of tracks currently in the project.
	TrackCount() int
	// TrackAt returns the track at a zero-based project position.
	TrackAt(index int) (Track, error)
	// InsertTrackAt creates a track at a zero-based project position,
	// shifting later tracks down.
	InsertTrackAt(index int) (Track, error)
	// BeginUndoBlock opens an undo scope; every mutation until the matching
	// EndUndoBlock collapses into one user-visible undo step.
	BeginUndoBlock()
	// EndUndoBlock closes the scope under the given label.
	EndUndoBlock(label string)
	// Refresh asks the host to redraw its timeline after a batch of edits.
	Refresh()
}

// StateStore persists small key/value preferences across runs, namespaced
// by section.
type StateStore interface {
	// Get returns the stored value and whether the key exists.
	Get(section, key string) (string, bool, error)
	Set(section, key, value string) error
}

// RootPicker asks the user for a directory, starting from defaultPath.
// Implementations return ErrPickCancelled when the user backs out.
type RootPicker interface {
	PickFolder(ctx context.Context, title, defaultPath string) (string, error)
}
