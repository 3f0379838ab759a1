// Package session provides an in-memory host implementation plus a
// serializable manifest of the resulting arrangement.
//
// The CLI runs imports against this project model; tests use it as the host
// double. Entities carry UUID GUIDs so manifests stay stable references for
// downstream tooling.
package session

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/zjrosen/zoomport/internal/host"
)

// Project is an in-memory host arrangement.
type Project struct {
	mu     sync.Mutex
	tracks []*Track

	undoDepth int
	undoEdits int
	undoDone  []string

	refreshes int
}

var _ host.Project = (*Project)(nil)

// NewProject returns an empty project.
func NewProject() *Project {
	return &Project{}
}

// TrackCount returns the number of tracks in the project.
func (p *Project) TrackCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tracks)
}

// TrackAt returns the track at a zero-based position.
func (p *Project) TrackAt(index int) (host.Track, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if index < 0 || index >= len(p.tracks) {
		return nil, fmt.Errorf("track index %d out of range (have %d)", index, len(p.tracks))
	}
	return p.tracks[index], nil
}

// InsertTrackAt creates a track at a zero-based position, shifting later
// tracks down. index may equal the current track count to append.
func (p *Project) InsertTrackAt(index int) (host.Track, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if index < 0 || index > len(p.tracks) {
		return nil, fmt.Errorf("insert index %d out of range (have %d)", index, len(p.tracks))
	}
	t := &Track{p: p, guid: uuid.NewString()}
	p.tracks = append(p.tracks, nil)
	copy(p.tracks[index+1:], p.tracks[index:])
	p.tracks[index] = t
	p.undoEdits++
	return t, nil
}

// BeginUndoBlock opens an undo scope. Blocks nest; only the outermost pair
// records a label.
func (p *Project) BeginUndoBlock() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.undoDepth == 0 {
		p.undoEdits = 0
	}
	p.undoDepth++
}

// EndUndoBlock closes the scope. An outermost block that saw no edits is
// discarded, matching host behavior for empty undo points.
func (p *Project) EndUndoBlock(label string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.undoDepth == 0 {
		return
	}
	p.undoDepth--
	if p.undoDepth == 0 && p.undoEdits > 0 {
		p.undoDone = append(p.undoDone, label)
	}
}

// Refresh records a timeline redraw request.
func (p *Project) Refresh() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refreshes++
}

// UndoLabels returns the labels of completed, non-empty undo blocks.
func (p *Project) UndoLabels() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.undoDone))
	copy(out, p.undoDone)
	return out
}

// Refreshes returns how many timeline redraws were requested.
func (p *Project) Refreshes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.refreshes
}

// Tracks returns the tracks in project order.
func (p *Project) Tracks() []*Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Track, len(p.tracks))
	copy(out, p.tracks)
	return out
}

// Track is an in-memory project track.
type Track struct {
	p     *Project
	guid  string
	name  string
	items []*Item
}

var _ host.Track = (*Track)(nil)

// GUID returns the track's stable identifier.
func (t *Track) GUID() string { return t.guid }

// Name returns the track's display name.
func (t *Track) Name() string {
	t.p.mu.Lock()
	defer t.p.mu.Unlock()
	return t.name
}

// SetName renames the track.
func (t *Track) SetName(name string) error {
	t.p.mu.Lock()
	defer t.p.mu.Unlock()
	t.name = name
	t.p.undoEdits++
	return nil
}

// AddItem creates an item on the track. start and length are seconds;
// neither may be negative.
func (t *Track) AddItem(start, length float64) (host.Item, error) {
	if start < 0 || length < 0 {
		return nil, fmt.Errorf("item bounds must be non-negative (start %.3f, length %.3f)", start, length)
	}
	t.p.mu.Lock()
	defer t.p.mu.Unlock()
	it := &Item{p: t.p, guid: uuid.NewString(), start: start, length: length}
	t.items = append(t.items, it)
	t.p.undoEdits++
	return it, nil
}

// Items returns the track's items in creation order.
func (t *Track) Items() []*Item {
	t.p.mu.Lock()
	defer t.p.mu.Unlock()
	out := make([]*Item, len(t.items))
	copy(out, t.items)
	return out
}

// Item is an in-memory timeline object.
type Item struct {
	p      *Project
	guid   string
	start  float64
	length float64
	takes  []*Take
}

var _ host.Item = (*Item)(nil)

// GUID returns the item's stable identifier.
func (i *Item) GUID() string { return i.guid }

// Start returns the item's timeline position in seconds.
func (i *Item) Start() float64 {
	i.p.mu.Lock()
	defer i.p.mu.Unlock()
	return i.start
}

// Length returns the item's length in seconds.
func (i *Item) Length() float64 {
	i.p.mu.Lock()
	defer i.p.mu.Unlock()
	return i.length
}

// AddTake attaches src as a new take.
func (i *Item) AddTake(src host.Source) (host.Take, error) {
	if src == nil {
		return nil, fmt.Errorf("take requires a source")
	}
	i.p.mu.Lock()
	defer i.p.mu.Unlock()
	tk := &Take{p: i.p, guid: uuid.NewString(), source: src}
	i.takes = append(i.takes, tk)
	i.p.undoEdits++
	return tk, nil
}

// Takes returns the item's takes in creation order.
func (i *Item) Takes() []*Take {
	i.p.mu.Lock()
	defer i.p.mu.Unlock()
	out := make([]*Take, len(i.takes))
	copy(out, i.takes)
	return out
}

// Take is an in-memory item take.
type Take struct {
	p      *Project
	guid   string
	name   string
	source host.Source
}

var _ host.Take = (*Take)(nil)

// GUID returns the take's stable identifier.
func (t *Take) GUID() string { return t.guid }

// Name returns the take's label.
func (t *Take) Name() string {
	t.p.mu.Lock()
	defer t.p.mu.Unlock()
	return t.name
}

// SetName labels the take.
func (t *Take) SetName(name string) error {
	t.p.mu.Lock()
	defer t.p.mu.Unlock()
	t.name = name
	t.p.undoEdits++
	return nil
}

// Source returns the media backing the take.
func (t *Take) Source() host.Source { return t.source }
