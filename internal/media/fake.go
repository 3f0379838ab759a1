package media

import (
	"context"
	"fmt"
	"sync"

	"github.com/zjrosen/zoomport/internal/host"
)

// FakeLoader is a scripted SourceLoader for tests and dry runs. Durations
// and failures are keyed by exact path.
type FakeLoader struct {
	mu        sync.Mutex
	durations map[string]float64
	failures  map[string]error
	loaded    []string
}

var _ host.SourceLoader = (*FakeLoader)(nil)

// NewFakeLoader returns an empty fake. Unscripted paths load with duration 0.
func NewFakeLoader() *FakeLoader {
	return &FakeLoader{
		durations: make(map[string]float64),
		failures:  make(map[string]error),
	}
}

// SetDuration scripts a successful load for path.
func (f *FakeLoader) SetDuration(path string, seconds float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.durations[path] = seconds
}

// FailWith scripts a load failure for path.
func (f *FakeLoader) FailWith(path string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[path] = err
}

// Load returns the scripted result for path and records the call.
func (f *FakeLoader) Load(_ context.Context, path string) (host.Source, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loaded = append(f.loaded, path)
	if err, ok := f.failures[path]; ok {
		return nil, fmt.Errorf("load %q: %w", path, err)
	}
	return &Source{path: path, info: ProbeResult{Duration: f.durations[path]}}, nil
}

// Loaded returns every path passed to Load, in call order.
func (f *FakeLoader) Loaded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.loaded))
	copy(out, f.loaded)
	return out
}
