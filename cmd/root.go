// Package cmd wires the zoomport command line interface.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/zoomport/internal/config"
	"github.com/zjrosen/zoomport/internal/host"
	"github.com/zjrosen/zoomport/internal/importer"
	"github.com/zjrosen/zoomport/internal/log"
	"github.com/zjrosen/zoomport/internal/paths"
	"github.com/zjrosen/zoomport/internal/telemetry"
)

// Build identity, injected by main from -ldflags.
var (
	version = "dev"
	commit  = "none"
)

var (
	cfg     config.Config
	cfgFile string

	logCleanup    func() error
	traceShutdown func(context.Context) error
)

// exitCodeError carries a specific process exit code through RunE for
// outcomes that were already reported to the user.
type exitCodeError struct {
	code int
}

func (e exitCodeError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

var rootCmd = &cobra.Command{
	Use:   "zoomport",
	Short: "Import ZOOM recorder takes into a project timeline",
	Long: `Zoomport scans a folder of ZOOM handheld recorder takes (ZOOM0001,
ZOOM0002, ...), lays the channel files of each take out on one track per
channel, and writes the resulting session. Running zoomport with no
subcommand imports once, like "zoomport import".`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initRuntime,
	RunE:              runImport,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/zoomport/config.yaml)")

	// The bare "zoomport" invocation behaves exactly like "zoomport import",
	// so the root carries the same flag set.
	registerImportFlags(rootCmd)
}

// Execute runs the CLI and exits the process.
func Execute(v, c string) {
	version = v
	commit = c
	rootCmd.Version = fmt.Sprintf("%s (%s)", v, c)
	os.Exit(execute())
}

func execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)

	if traceShutdown != nil {
		if shutErr := traceShutdown(context.Background()); shutErr != nil {
			log.ErrorErr(log.CatConfig, "Trace shutdown failed", shutErr)
		}
	}
	if logCleanup != nil {
		if closeErr := logCleanup(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "zoomport: closing log file: %v\n", closeErr)
		}
	}

	var exitErr exitCodeError
	switch {
	case err == nil:
		return 0
	case errors.Is(err, host.ErrPickCancelled):
		// The user backed out of folder selection; say nothing.
		return 0
	case errors.Is(err, context.Canceled):
		// Ctrl+c. The terminal already shows the interrupt.
		return 0
	case errors.As(err, &exitErr):
		return exitErr.code
	case errors.Is(err, importer.ErrNoFolders), errors.Is(err, importer.ErrNoActiveChannels):
		// Already reported on the console in plain words.
		return 1
	default:
		fmt.Fprintf(os.Stderr, "zoomport: %v\n", err)
		return 1
	}
}

// initRuntime loads configuration and brings up logging and tracing. It runs
// before every command.
func initRuntime(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = loadConfig(cfgFile)
	if err != nil {
		return err
	}

	logCleanup, err = log.Setup(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}

	if cfg.Trace {
		traceShutdown, err = telemetry.Setup(cmd.Context(), os.Stderr, version, cfg.TraceEndpoint)
		if err != nil {
			return err
		}
	}
	return nil
}

// loadConfig merges defaults, the config file, and ZOOMPORT_* environment
// variables, in increasing precedence.
func loadConfig(path string) (config.Config, error) {
	v := viper.New()

	defs := config.Defaults()
	v.SetDefault("default_root", defs.DefaultRoot)
	v.SetDefault("manifest_path", defs.ManifestPath)
	v.SetDefault("ffprobe_path", defs.FFprobePath)
	v.SetDefault("probe_cache_ttl", defs.ProbeCacheTTL)
	v.SetDefault("watch_debounce", defs.WatchDebounce)
	v.SetDefault("state_path", defs.StatePath)
	v.SetDefault("color", defs.Color)
	v.SetDefault("log_level", defs.LogLevel)
	v.SetDefault("log_file", defs.LogFile)
	v.SetDefault("trace", defs.Trace)
	v.SetDefault("trace_endpoint", defs.TraceEndpoint)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return config.Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if defaultPath, err := paths.ConfigFile(); err == nil {
		v.SetConfigFile(defaultPath)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return config.Config{}, fmt.Errorf("failed to read config %s: %w", defaultPath, err)
		}
	}

	v.SetEnvPrefix("ZOOMPORT")
	v.AutomaticEnv()

	var out config.Config
	if err := v.Unmarshal(&out); err != nil {
		return config.Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := out.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return out, nil
}

// statePath resolves where the state database lives.
func statePath() (string, error) {
	if cfg.StatePath != "" {
		return cfg.StatePath, nil
	}
	return paths.StateFile()
}
