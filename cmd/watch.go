package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/zoomport/internal/importer"
	"github.com/zjrosen/zoomport/internal/session"
	"github.com/zjrosen/zoomport/internal/store"
	"github.com/zjrosen/zoomport/internal/ui/styles"
	"github.com/zjrosen/zoomport/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Import new ZOOM folders as they appear",
	Long: `Run a full import, then keep watching the root: when a new ZOOM subfolder
(or a late file in a known one) settles, import just the new material at the
current cursor. Stop with ctrl+c.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&importRoot, "root", "r", "", "root folder containing ZOOM subfolders (skips the picker)")
	watchCmd.Flags().StringVar(&importManifest, "manifest", "", "keep the session manifest at this path up to date")
	watchCmd.Flags().BoolVar(&importNoInput, "no-input", false, "fail instead of prompting when no root is known")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	console := styles.NewConsole(os.Stdout, cfg.Color)
	ctx := cmd.Context()

	dbPath, err := statePath()
	if err != nil {
		return err
	}
	db, err := store.NewDB(dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	project := session.NewProject()
	eng, err := newEngine(db, project, console, importer.Options{
		Root:         importRoot,
		FallbackRoot: fallbackRoot(db),
	})
	if err != nil {
		return err
	}

	res, err := eng.Run(ctx)
	switch {
	case err == nil:
		printRunSummary(console, res)
		rec := store.RunRecord{
			Root:        res.Root,
			Folders:     res.Folders,
			Items:       res.Items,
			TotalLength: res.Cursor,
			Elapsed:     res.Elapsed,
		}
		if recErr := db.Runs().Record(&rec); recErr != nil {
			console.Warnf("Could not record run history: %v", recErr)
		}
		updateManifest(console, project, res.Root)
	case errors.Is(err, importer.ErrNoFolders), errors.Is(err, importer.ErrNoActiveChannels):
		// The root is selected and valid, just not populated yet. That is
		// the normal starting state for a watch.
		console.Statusf("Waiting for takes to arrive...")
	default:
		return err
	}

	root := eng.Root()
	w, err := watch.New(root, nil, cfg.WatchDebounce, eng, func(batch *importer.Result, batchErr error) {
		if batchErr != nil {
			console.Warnf("Import failed, still watching: %v", batchErr)
			return
		}
		console.Successf("Imported %d new item(s) from %d folder(s), cursor at %s",
			batch.Items, batch.Folders, styles.FormatSeconds(batch.Cursor))
		if batch.Failures > 0 {
			console.Warnf("%d file(s) could not be loaded and were skipped", batch.Failures)
		}
		updateManifest(console, project, root)
	})
	if err != nil {
		return err
	}

	console.Statusf("Watching %s (ctrl+c to stop)", root)
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	console.Statusf("Stopped watching")
	return nil
}

// updateManifest rewrites the manifest if one is configured. Watch mode keeps
// going when the write fails; the session itself is intact.
func updateManifest(console *styles.Console, project *session.Project, root string) {
	path := manifestPath()
	if path == "" {
		return
	}
	if err := session.WriteManifest(project.Snapshot(root), path); err != nil {
		console.Warnf("Could not write manifest: %v", err)
	}
}
