package cmd

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/zjrosen/zoomport/internal/config"
	"github.com/zjrosen/zoomport/internal/doctor"
	"github.com/zjrosen/zoomport/internal/log"
	"github.com/zjrosen/zoomport/internal/paths"
	"github.com/zjrosen/zoomport/internal/store"
	"github.com/zjrosen/zoomport/internal/ui/styles"
)

// doctorConfigErr holds a config load failure so the config check can report
// it instead of the command dying before any diagnosis runs.
var doctorConfigErr error

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that everything an import needs is in place",
	Long: `Doctor verifies the pieces an import depends on: the config file parses,
the state database opens, ffprobe answers, and the remembered root is
readable. It exits non-zero when a required piece is broken.`,
	PersistentPreRunE: doctorPreRun,
	RunE:              runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// doctorPreRun replaces the usual runtime init with a tolerant one: a config
// file that fails to load is exactly what doctor exists to diagnose.
func doctorPreRun(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = loadConfig(cfgFile)
	if err != nil {
		doctorConfigErr = err
		cfg = config.Defaults()
	}

	logCleanup, err = log.Setup(cfg.LogLevel, cfg.LogFile)
	return err
}

func runDoctor(cmd *cobra.Command, args []string) error {
	console := styles.NewConsole(os.Stdout, cfg.Color)

	cfgPath := cfgFile
	if cfgPath == "" {
		if p, err := paths.ConfigFile(); err == nil {
			cfgPath = p
		}
	}

	sp, err := statePath()
	if err != nil {
		return err
	}

	p := doctor.Params{
		ConfigPath:  cfgPath,
		ConfigErr:   doctorConfigErr,
		StatePath:   sp,
		FFprobePath: cfg.FFprobePath,
		Root:        rememberedRoot(sp),
		Interactive: isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd()),
	}

	if !doctor.Run(cmd.Context(), console, p) {
		return exitCodeError{code: 1}
	}
	return nil
}

// rememberedRoot resolves the root a run would default to: the stored
// preference, then the configured default. A database that will not open is
// reported by the state check, not here.
func rememberedRoot(statePath string) string {
	db, err := store.NewDB(statePath)
	if err == nil {
		defer func() { _ = db.Close() }()
		if v, ok, err := db.ExtState().Get(store.SectionZoomport, store.KeyLastRoot); err == nil && ok && v != "" {
			return v
		}
	}
	return cfg.DefaultRoot
}
