// Package watch keeps an import session open and pulls in new take folders
// as the recorder card is copied over. Events only arm a debounce timer; when
// it fires the root is rescanned from disk, so a missed or coalesced event
// can never lose a file.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/zoomport/internal/importer"
	"github.com/zjrosen/zoomport/internal/log"
	"github.com/zjrosen/zoomport/internal/scan"
	"github.com/zjrosen/zoomport/internal/zoom"
)

// DefaultDebounce is used when no debounce is configured.
const DefaultDebounce = 2 * time.Second

// Runner imports one batch of scanned folders. *importer.Engine satisfies it.
type Runner interface {
	Batch(ctx context.Context, root string, folders []scan.FolderScan) (*importer.Result, error)
}

// Watcher observes a root folder and runs incremental imports.
type Watcher struct {
	root     string
	channels []zoom.Channel
	debounce time.Duration
	runner   Runner
	onBatch  func(*importer.Result, error)
}

// New builds a Watcher. onBatch is called after every non-empty batch and on
// every batch failure; it may be nil.
func New(root string, channels []zoom.Channel, debounce time.Duration, runner Runner, onBatch func(*importer.Result, error)) (*Watcher, error) {
	if root == "" {
		return nil, fmt.Errorf("watch: root is required")
	}
	if runner == nil {
		return nil, fmt.Errorf("watch: runner is required")
	}
	if channels == nil {
		channels = zoom.DefaultChannels()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if onBatch == nil {
		onBatch = func(*importer.Result, error) {}
	}

	return &Watcher{
		root:     root,
		channels: channels,
		debounce: debounce,
		runner:   runner,
		onBatch:  onBatch,
	}, nil
}

// Run watches until the context is cancelled. It returns the context error
// on cancellation and an infrastructure error if the watch cannot start.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create filesystem watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.root, err)
	}

	// Files land inside take folders, and watches are not recursive.
	folders, err := scan.Discover(w.root)
	if err != nil {
		return err
	}
	for _, name := range folders {
		if err := fsw.Add(filepath.Join(w.root, name)); err != nil {
			log.ErrorErr(log.CatWatch, "Failed to watch take folder", err, "folder", name)
		}
	}

	log.Info(log.CatWatch, "Watching for new takes", "root", w.root, "debounce", w.debounce)

	// Timer starts disarmed; events arm it.
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(fsw, ev) {
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.ErrorErr(log.CatWatch, "Filesystem watcher error", err)

		case <-timer.C:
			w.runBatch(ctx)
		}
	}
}

// relevant reports whether ev should arm the debounce timer, and registers a
// watch on any newly created take folder.
func (w *Watcher) relevant(fsw *fsnotify.Watcher, ev fsnotify.Event) bool {
	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Rename) {
		return false
	}

	if ev.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if zoom.IsTakeFolder(filepath.Base(ev.Name)) {
				if err := fsw.Add(ev.Name); err != nil {
					log.ErrorErr(log.CatWatch, "Failed to watch new take folder", err, "folder", ev.Name)
				}
			} else {
				return false
			}
		}
	}

	log.Debug(log.CatWatch, "Filesystem event", "op", ev.Op.String(), "path", ev.Name)
	return true
}

// runBatch rescans the root and imports whatever is new.
func (w *Watcher) runBatch(ctx context.Context) {
	survey, err := scan.Prescan(w.root, w.channels)
	if err != nil {
		w.onBatch(nil, err)
		return
	}

	res, err := w.runner.Batch(ctx, w.root, survey.Folders)
	if err != nil {
		w.onBatch(nil, err)
		return
	}
	if res.Items == 0 && res.Failures == 0 {
		log.Debug(log.CatWatch, "Nothing new after rescan", "root", w.root)
		return
	}
	w.onBatch(res, nil)
}
