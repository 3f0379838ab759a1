package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjrosen/zoomport/internal/importer"
	"github.com/zjrosen/zoomport/internal/log"
	"github.com/zjrosen/zoomport/internal/media"
	"github.com/zjrosen/zoomport/internal/session"
	"github.com/zjrosen/zoomport/internal/store"
	"github.com/zjrosen/zoomport/internal/ui/picker"
	"github.com/zjrosen/zoomport/internal/ui/styles"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import ZOOM take folders once",
	Long: `Scan a root folder for ZOOM subfolders (ZOOM0001, ZOOM0002, ...), lay each
take's channel files out at a shared start position with one track per
channel, and advance the cursor by the longest file of each take.

The root comes from --root, the remembered previous root, or an interactive
folder picker. A take file that cannot be read is skipped with a warning and
the rest of the take still imports.`,
	RunE: runImport,
}

var (
	importRoot     string
	importDryRun   bool
	importManifest string
	importNoInput  bool
)

func init() {
	registerImportFlags(importCmd)
	rootCmd.AddCommand(importCmd)
}

// registerImportFlags binds the import flag set. The root command carries the
// same set so "zoomport --root x" works like "zoomport import --root x".
func registerImportFlags(c *cobra.Command) {
	c.Flags().StringVarP(&importRoot, "root", "r", "", "root folder containing ZOOM subfolders (skips the picker)")
	c.Flags().BoolVarP(&importDryRun, "dry-run", "n", false, "scan and probe but do not create tracks or items")
	c.Flags().StringVar(&importManifest, "manifest", "", "write the session manifest to this path (.yaml/.yml or .json)")
	c.Flags().BoolVar(&importNoInput, "no-input", false, "fail instead of prompting when no root is known")
}

func runImport(cmd *cobra.Command, args []string) error {
	console := styles.NewConsole(os.Stdout, cfg.Color)

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
		DryRun:       importDryRun,
	})
	if err != nil {
		return err
	}

	res, err := eng.Run(cmd.Context())
	if err != nil {
		return err
	}

	printRunSummary(console, res)
	if res.DryRun {
		return nil
	}

	rec := store.RunRecord{
		Root:        res.Root,
		Folders:     res.Folders,
		Items:       res.Items,
		TotalLength: res.Cursor,
		Elapsed:     res.Elapsed,
	}
	if err := db.Runs().Record(&rec); err != nil {
		log.ErrorErr(log.CatStore, "Failed to record run history", err)
	}

	if path := manifestPath(); path != "" {
		if err := session.WriteManifest(project.Snapshot(res.Root), path); err != nil {
			return fmt.Errorf("failed to write manifest: %w", err)
		}
		console.Successf("Manifest written to %s", path)
	}
	return nil
}

// newEngine assembles the importer over the in-memory session project and
// the local infrastructure.
func newEngine(db *store.DB, project *session.Project, console *styles.Console, opts importer.Options) (*importer.Engine, error) {
	return importer.New(importer.Deps{
		Project: project,
		Loader:  media.NewLoader(cfg.FFprobePath, cfg.ProbeCacheTTL),
		State:   db.ExtState(),
		Picker:  picker.New(importNoInput),
		Console: console,
	}, opts)
}

// fallbackRoot seeds the picker default when no preference is stored yet:
// the configured default_root, then the last recorded run's root, then the
// working directory.
func fallbackRoot(db *store.DB) string {
	if cfg.DefaultRoot != "" {
		return cfg.DefaultRoot
	}
	if root, err := db.Runs().LastRoot(); err == nil && root != "" {
		return root
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return ""
}

func manifestPath() string {
	if importManifest != "" {
		return importManifest
	}
	return cfg.ManifestPath
}

func printRunSummary(console *styles.Console, res *importer.Result) {
	if res.DryRun {
		console.Statusf("Dry run: nothing was created")
		printPlan(console, res)
		console.Statusf("Would import %d item(s) from %d ZOOM folder(s), total length %s",
			res.Items, res.Folders, styles.FormatSeconds(res.Cursor))
		return
	}

	console.Successf("Imported %d item(s) from %d ZOOM folder(s)", res.Items, res.Folders)
	if len(res.Tracks) > 0 {
		rows := make([][]string, 0, len(res.Tracks))
		for _, tr := range res.Tracks {
			rows = append(rows, []string{
				tr.Channel,
				strconv.Itoa(tr.Slot),
				strconv.Itoa(tr.Items),
				styles.FormatSeconds(tr.Length),
			})
		}
		console.Print(styles.Table([]string{"TRACK", "SLOT", "ITEMS", "LENGTH"}, rows))
	}
	if res.Failures > 0 {
		console.Warnf("%d file(s) could not be loaded and were skipped", res.Failures)
	}
	console.Statusf("Total length %s, done in %s",
		styles.FormatSeconds(res.Cursor), res.Elapsed.Round(time.Millisecond))
}

func printPlan(console *styles.Console, res *importer.Result) {
	if len(res.Plan) == 0 {
		return
	}
	rows := make([][]string, 0, len(res.Plan))
	for _, p := range res.Plan {
		status := "ok"
		if p.Failed {
			status = "failed"
		}
		rows = append(rows, []string{
			p.Folder,
			p.Channel,
			strconv.Itoa(p.Slot),
			styles.FormatSeconds(p.Start),
			styles.FormatSeconds(p.Length),
			filepath.Base(p.Path),
			status,
		})
	}
	console.Print(styles.Table(
		[]string{"FOLDER", "CHANNEL", "SLOT", "START", "LENGTH", "FILE", "STATUS"},
		rows,
	))
}
