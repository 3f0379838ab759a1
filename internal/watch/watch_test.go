package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/zoomport/internal/host"
	"github.com/zjrosen/zoomport/internal/importer"
	"github.com/zjrosen/zoomport/internal/media"
	"github.com/zjrosen/zoomport/internal/scan"
	"github.com/zjrosen/zoomport/internal/session"
)

type memState struct {
	m map[string]string
}

func (s *memState) Get(section, key string) (string, bool, error) {
	v, ok := s.m[section+"/"+key]
	return v, ok, nil
}

func (s *memState) Set(section, key, value string) error {
	if s.m == nil {
		s.m = make(map[string]string)
	}
	s.m[section+"/"+key] = value
	return nil
}

type nopPicker struct{}

func (nopPicker) PickFolder(context.Context, string, string) (string, error) {
	return "", host.ErrPickCancelled
}

type failingRunner struct{}

func (failingRunner) Batch(context.Context, string, []scan.FolderScan) (*importer.Result, error) {
	return nil, errors.New("project unavailable")
}

func newTestEngine(t *testing.T, loader *media.FakeLoader) *importer.Engine {
	t.Helper()

	eng, err := importer.New(importer.Deps{
		Project: session.NewProject(),
		Loader:  loader,
		State:   &memState{},
		Picker:  nopPicker{},
	}, importer.Options{})
	require.NoError(t, err)
	return eng
}

func waitResult(t *testing.T, results <-chan *importer.Result) *importer.Result {
	t.Helper()

	select {
	case res := <-results:
		return res
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for a batch result")
		return nil
	}
}

func TestWatcher_ImportsNewTakesAsTheyAppear(t *testing.T) {
	root := t.TempDir()
	loader := media.NewFakeLoader()
	eng := newTestEngine(t, loader)

	results := make(chan *importer.Result, 8)
	w, err := New(root, nil, 40*time.Millisecond, eng, func(res *importer.Result, err error) {
		if err == nil {
			results <- res
		}
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Let the watcher register before producing events.
	time.Sleep(100 * time.Millisecond)

	dir1 := filepath.Join(root, "ZOOM0001")
	file1 := filepath.Join(dir1, "251101_000000_Tr1.WAV")
	loader.SetDuration(file1, 3.5)
	require.NoError(t, os.Mkdir(dir1, 0o755))
	require.NoError(t, os.WriteFile(file1, []byte("wav"), 0o644))

	res := waitResult(t, results)
	assert.Equal(t, 1, res.Folders, "first batch imports the new folder")
	assert.Equal(t, 1, res.Items)
	assert.InDelta(t, 3.5, res.Cursor, 1e-9)
	assert.True(t, eng.Imported("ZOOM0001"))

	dir2 := filepath.Join(root, "ZOOM0002")
	file2 := filepath.Join(dir2, "251101_000100_Tr2.WAV")
	loader.SetDuration(file2, 2.0)
	require.NoError(t, os.Mkdir(dir2, 0o755))
	require.NoError(t, os.WriteFile(file2, []byte("wav"), 0o644))

	res = waitResult(t, results)
	assert.Equal(t, 1, res.Folders, "second batch imports only the new folder")
	assert.InDelta(t, 5.5, res.Cursor, 1e-9, "cursor accumulates across batches")
	assert.True(t, eng.Imported("ZOOM0002"))

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestWatcher_IgnoresUnrelatedEntries(t *testing.T) {
	root := t.TempDir()
	loader := media.NewFakeLoader()
	eng := newTestEngine(t, loader)

	results := make(chan *importer.Result, 8)
	w, err := New(root, nil, 40*time.Millisecond, eng, func(res *importer.Result, err error) {
		if err == nil {
			results <- res
		}
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.Mkdir(filepath.Join(root, "extras"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644))

	select {
	case res := <-results:
		t.Fatalf("unexpected batch for unrelated entries: %+v", res)
	case <-time.After(400 * time.Millisecond):
	}
	assert.Zero(t, eng.Cursor(), "nothing should have been imported")
}

func TestWatcher_ReportsBatchFailures(t *testing.T) {
	root := t.TempDir()

	errs := make(chan error, 1)
	w, err := New(root, nil, 40*time.Millisecond, failingRunner{}, func(res *importer.Result, err error) {
		if err != nil {
			errs <- err
		}
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.Mkdir(filepath.Join(root, "ZOOM0009"), 0o755))

	select {
	case err := <-errs:
		assert.Contains(t, err.Error(), "project unavailable")
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for the batch failure")
	}
}

func TestNew_Validation(t *testing.T) {
	loader := media.NewFakeLoader()
	eng := newTestEngine(t, loader)

	_, err := New("", nil, time.Second, eng, nil)
	require.Error(t, err, "root is required")

	_, err = New(t.TempDir(), nil, time.Second, nil, nil)
	require.Error(t, err, "runner is required")

	w, err := New(t.TempDir(), nil, 0, eng, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, w.debounce, "non-positive debounce falls back to the default")
}
