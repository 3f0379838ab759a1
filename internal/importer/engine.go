package importer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/zoomport/internal/host"
	"github.com/zjrosen/zoomport/internal/log"
	"github.com/zjrosen/zoomport/internal/scan"
	"github.com/zjrosen/zoomport/internal/store"
	"github.com/zjrosen/zoomport/internal/zoom"
)

// DefaultUndoLabel names the single undo step a run produces.
const DefaultUndoLabel = "Import ZOOM folders"

// PickerTitle is the caption shown by folder selection UIs.
const PickerTitle = "Select the folder containing ZOOM subfolders"

// Sentinel outcomes. Reportable but never fatal to the process.
var (
	// ErrNoFolders means the root had no take folders.
	ErrNoFolders = errors.New("no ZOOM folders found")
	// ErrNoActiveChannels means no folder resolved a single channel file.
	ErrNoActiveChannels = errors.New("no channel files found")
)

var tracer = otel.Tracer("github.com/zjrosen/zoomport/internal/importer")

// Console receives user-facing status and warning lines. The debug log is
// separate; this is the channel the user reads.
type Console interface {
	Statusf(format string, args ...any)
	Warnf(format string, args ...any)
}

type noopConsole struct{}

func (noopConsole) Statusf(string, ...any) {}
func (noopConsole) Warnf(string, ...any)   {}

// Deps are the collaborators an Engine needs. All are required except
// Console, which defaults to a no-op.
type Deps struct {
	Project host.Project
	Loader  host.SourceLoader
	State   host.StateStore
	Picker  host.RootPicker
	Console Console
}

// Options tune a run without changing its semantics.
type Options struct {
	// Root, when non-empty, is used directly and no picker runs.
	Root string
	// FallbackRoot seeds the picker default when no preference is stored.
	FallbackRoot string
	// Channels overrides the recorder layout. Nil means zoom.DefaultChannels.
	Channels []zoom.Channel
	// DryRun scans and probes but never touches the project.
	DryRun bool
	// UndoLabel overrides DefaultUndoLabel.
	UndoLabel string
}

// TrackSummary is one provisioned track's activity during a run.
type TrackSummary struct {
	Channel string
	Slot    int
	Items   int
	Length  float64
}

// PlanEntry is one file placement (or would-be placement in a dry run).
type PlanEntry struct {
	Folder  string
	Channel string
	Slot    int
	Path    string
	Start   float64
	Length  float64
	Failed  bool
}

// Result summarizes a run or batch.
type Result struct {
	Root     string
	Folders  int
	Items    int
	Failures int
	// Cursor is the timeline cursor after the run, i.e. the total length of
	// everything imported so far.
	Cursor  float64
	Elapsed time.Duration
	DryRun  bool
	Tracks  []TrackSummary
	Plan    []PlanEntry
}

// Engine drives imports. It accumulates state across batches: bound tracks,
// the timeline cursor, and the set of folders already imported.
type Engine struct {
	project host.Project
	loader  host.SourceLoader
	state   host.StateStore
	picker  host.RootPicker
	console Console

	channels  []zoom.Channel
	root      string
	fallback  string
	dryRun    bool
	undoLabel string

	cursor   float64
	lastRoot string
	slots    map[int]int        // channel index → track slot
	bound    map[int]host.Track // channel index → track handle
	imported map[string]bool    // folder name → done
}

// New validates deps and builds an Engine.
func New(deps Deps, opts Options) (*Engine, error) {
	if deps.Project == nil {
		return nil, fmt.Errorf("importer: Project is required")
	}
	if deps.Loader == nil {
		return nil, fmt.Errorf("importer: Loader is required")
	}
	if deps.State == nil {
		return nil, fmt.Errorf("importer: State is required")
	}
	if deps.Picker == nil {
		return nil, fmt.Errorf("importer: Picker is required")
	}
	if deps.Console == nil {
		deps.Console = noopConsole{}
	}

	channels := opts.Channels
	if channels == nil {
		channels = zoom.DefaultChannels()
	}
	undoLabel := opts.UndoLabel
	if undoLabel == "" {
		undoLabel = DefaultUndoLabel
	}

	return &Engine{
		project:   deps.Project,
		loader:    deps.Loader,
		state:     deps.State,
		picker:    deps.Picker,
		console:   deps.Console,
		channels:  channels,
		root:      opts.Root,
		fallback:  opts.FallbackRoot,
		dryRun:    opts.DryRun,
		undoLabel: undoLabel,
		slots:     make(map[int]int),
		bound:     make(map[int]host.Track),
		imported:  make(map[string]bool),
	}, nil
}

// Cursor returns the current timeline cursor in seconds.
func (e *Engine) Cursor() float64 { return e.cursor }

// Root returns the root selected by the most recent Run, even when that run
// ended in a reportable no-op like ErrNoFolders.
func (e *Engine) Root() string { return e.lastRoot }

// Imported reports whether the named folder was already imported.
func (e *Engine) Imported(folder string) bool { return e.imported[folder] }

// Run executes the full pipeline once. It returns host.ErrPickCancelled
// when the user backs out, ErrNoFolders / ErrNoActiveChannels when the root
// has nothing to import, and a plain error on infrastructure failure.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "import.run")
	defer span.End()

	// One undo block spans the whole run. An aborted run leaves it empty
	// and the host discards it.
	e.project.BeginUndoBlock()
	defer e.project.EndUndoBlock(e.undoLabel)

	root, err := e.selectRoot(ctx)
	if err != nil {
		return nil, err
	}
	e.lastRoot = root
	log.Info(log.CatImport, "Import root selected", "root", root, "dry_run", e.dryRun)

	survey, err := scan.Prescan(root, e.channels)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("folders", len(survey.Folders)),
		attribute.Int("active_channels", len(survey.Active)),
	)

	if len(survey.Folders) == 0 {
		e.console.Statusf("No ZOOM folders found under %s", root)
		return nil, ErrNoFolders
	}
	if len(survey.Active) == 0 {
		e.console.Statusf("Found %d ZOOM folders but no channel files in %s", len(survey.Folders), root)
		return nil, ErrNoActiveChannels
	}

	res, err := e.importScanned(ctx, survey.Folders)
	if err != nil {
		return nil, err
	}

	if !e.dryRun {
		e.project.Refresh()
	}

	res.Root = root
	res.Elapsed = time.Since(start)
	span.SetAttributes(attribute.Int("items", res.Items), attribute.Int("failures", res.Failures))
	return res, nil
}

// Batch imports pre-resolved folders incrementally, skipping any the engine
// already imported. An empty or fully-imported batch is a successful no-op.
func (e *Engine) Batch(ctx context.Context, root string, folders []scan.FolderScan) (*Result, error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "import.batch")
	defer span.End()

	e.project.BeginUndoBlock()
	defer e.project.EndUndoBlock(e.undoLabel)

	res, err := e.importScanned(ctx, folders)
	if err != nil {
		return nil, err
	}
	if !e.dryRun && res.Folders > 0 {
		e.project.Refresh()
	}

	res.Root = root
	res.Elapsed = time.Since(start)
	span.SetAttributes(attribute.Int("folders", res.Folders), attribute.Int("items", res.Items))
	return res, nil
}

// selectRoot resolves the import root: the explicit option when set,
// otherwise the picker seeded with the stored preference (falling back to
// FallbackRoot). The chosen root is persisted for the next run.
func (e *Engine) selectRoot(ctx context.Context) (string, error) {
	ctx, span := tracer.Start(ctx, "import.select_root")
	defer span.End()

	if e.root != "" {
		root := NormalizePath(e.root)
		e.persistRoot(root)
		return root, nil
	}

	def := e.fallback
	if v, ok, err := e.state.Get(store.SectionZoomport, store.KeyLastRoot); err != nil {
		log.ErrorErr(log.CatImport, "Failed to read stored root preference", err)
	} else if ok && v != "" {
		def = v
	}

	picked, err := e.picker.PickFolder(ctx, PickerTitle, def)
	if err != nil {
		return "", err
	}

	root := NormalizePath(picked)
	e.persistRoot(root)
	return root, nil
}

// persistRoot stores the preference; failures are logged, never fatal.
func (e *Engine) persistRoot(root string) {
	if err := e.state.Set(store.SectionZoomport, store.KeyLastRoot, root); err != nil {
		log.ErrorErr(log.CatImport, "Failed to persist root preference", err, "root", root)
	}
}

// importScanned is the shared core of Run and Batch: provision tracks for
// newly active channels, then place every pending folder.
func (e *Engine) importScanned(ctx context.Context, folders []scan.FolderScan) (*Result, error) {
	res := &Result{DryRun: e.dryRun}

	var pending []scan.FolderScan
	for _, f := range folders {
		if !e.imported[f.Name] {
			pending = append(pending, f)
		}
	}
	res.Folders = len(pending)
	res.Cursor = e.cursor
	if len(pending) == 0 {
		return res, nil
	}

	if err := e.provision(pending); err != nil {
		return nil, err
	}

	perTrack := make(map[int]*TrackSummary)
	for _, f := range pending {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := e.placeFolder(ctx, f, res, perTrack); err != nil {
			return nil, err
		}
		// A folder that resolved no files stays pending: in watch mode its
		// takes may still be mid-copy, and re-placing nothing is free.
		if len(f.Files) > 0 {
			e.imported[f.Name] = true
		}
	}

	// Summaries in slot order.
	for i := range e.channels {
		if ts, ok := perTrack[i]; ok {
			res.Tracks = append(res.Tracks, *ts)
		}
	}
	res.Cursor = e.cursor
	return res, nil
}

// provision binds a track to every channel that has files in the pending
// folders and no slot yet. Slots are contiguous from zero in channel
// definition order; an existing track at a slot is reused and renamed.
func (e *Engine) provision(pending []scan.FolderScan) error {
	for i, ch := range e.channels {
		if _, ok := e.slots[i]; ok {
			continue
		}
		active := false
		for _, f := range pending {
			if _, ok := f.Files[i]; ok {
				active = true
				break
			}
		}
		if !active {
			continue
		}

		slot := len(e.slots)
		e.slots[i] = slot
		if e.dryRun {
			continue
		}

		var track host.Track
		var err error
		if slot < e.project.TrackCount() {
			track, err = e.project.TrackAt(slot)
		} else {
			track, err = e.project.InsertTrackAt(slot)
		}
		if err != nil {
			return fmt.Errorf("provisioning track for %s: %w", ch.Name, err)
		}
		if err := track.SetName(ch.Name); err != nil {
			return fmt.Errorf("naming track for %s: %w", ch.Name, err)
		}
		e.bound[i] = track
		log.Debug(log.CatImport, "Track provisioned", "channel", ch.Name, "slot", slot)
	}
	return nil
}

// placeFolder places every resolved file of one folder at the current
// cursor, then advances the cursor by the folder's longest item.
func (e *Engine) placeFolder(ctx context.Context, f scan.FolderScan, res *Result, perTrack map[int]*TrackSummary) error {
	ctx, span := tracer.Start(ctx, "import.place_folder")
	span.SetAttributes(attribute.String("folder", f.Name))
	defer span.End()

	folderMax := 0.0
	for i, ch := range e.channels {
		path, ok := f.Files[i]
		if !ok {
			continue
		}
		slot := e.slots[i]
		entry := PlanEntry{Folder: f.Name, Channel: ch.Name, Slot: slot, Path: path, Start: e.cursor}

		src, err := e.loader.Load(ctx, path)
		if err != nil {
			// A file the host cannot load costs a warning and nothing else;
			// it contributes zero seconds to the folder.
			e.console.Warnf("Could not load %s", path)
			log.ErrorErr(log.CatImport, "Source load failed", err, "path", path)
			entry.Failed = true
			res.Failures++
			res.Plan = append(res.Plan, entry)
			continue
		}

		dur := src.Duration()
		entry.Length = dur
		res.Plan = append(res.Plan, entry)

		if !e.dryRun {
			if err := e.place(e.bound[i], src, e.cursor, dur); err != nil {
				return fmt.Errorf("placing %s: %w", path, err)
			}
		}

		res.Items++
		ts, ok := perTrack[i]
		if !ok {
			ts = &TrackSummary{Channel: ch.Name, Slot: slot}
			perTrack[i] = ts
		}
		ts.Items++
		ts.Length += dur

		if dur > folderMax {
			folderMax = dur
		}
	}

	log.Debug(log.CatImport, "Folder placed",
		"folder", f.Name, "start", e.cursor, "advance", folderMax)
	e.cursor += folderMax
	return nil
}

// place creates one item with one named take.
func (e *Engine) place(track host.Track, src host.Source, start, length float64) error {
	item, err := track.AddItem(start, length)
	if err != nil {
		return err
	}
	take, err := item.AddTake(src)
	if err != nil {
		return err
	}
	if name := zoom.TakeName(src.Path()); name != "" {
		if err := take.SetName(name); err != nil {
			return err
		}
	}
	return nil
}

// NormalizePath cleans a user-supplied path and normalizes separators to
// forward slashes, matching how roots are stored and compared.
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, `\`, `/`)
	return filepath.ToSlash(filepath.Clean(p))
}
