// Package doctor checks that everything zoomport leans on is in place:
// the config file, the state database, ffprobe, the terminal, and the
// remembered root. Informational checks warn; broken requirements fail.
package doctor

import (
	"context"
	"os"

	"github.com/zjrosen/zoomport/internal/media"
	"github.com/zjrosen/zoomport/internal/scan"
	"github.com/zjrosen/zoomport/internal/store"
)

// Reporter is the minimal console surface the checks print to. Defined here
// rather than importing the UI package so doctor stays testable with a fake.
type Reporter interface {
	Statusf(format string, args ...any)
	Successf(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Params carries the resolved environment the checks run against.
type Params struct {
	ConfigPath  string
	ConfigErr   error // a config that exists but does not parse
	StatePath   string
	FFprobePath string
	Root        string // remembered or configured root, may be empty
	Interactive bool
}

// Run executes every check and reports whether a real import could work.
func Run(ctx context.Context, rep Reporter, p Params) bool {
	ok := true

	if !checkConfig(rep, p) {
		ok = false
	}
	if !checkState(rep, p.StatePath) {
		ok = false
	}
	if !checkFFprobe(ctx, rep, p.FFprobePath) {
		ok = false
	}
	checkTerminal(rep, p.Interactive)
	checkRoot(rep, p.Root)

	return ok
}

func checkConfig(rep Reporter, p Params) bool {
	if p.ConfigErr != nil {
		rep.Errorf("config: %s is broken: %v", p.ConfigPath, p.ConfigErr)
		return false
	}
	if p.ConfigPath == "" {
		rep.Statusf("config: using defaults")
		return true
	}
	if _, err := os.Stat(p.ConfigPath); err != nil {
		rep.Statusf("config: %s not created yet (run 'zoomport init')", p.ConfigPath)
		return true
	}
	rep.Successf("config: %s", p.ConfigPath)
	return true
}

func checkState(rep Reporter, statePath string) bool {
	db, err := store.NewDB(statePath)
	if err != nil {
		rep.Errorf("state database: cannot open %s: %v", statePath, err)
		return false
	}
	defer func() { _ = db.Close() }()

	rep.Successf("state database: %s", statePath)
	return true
}

func checkFFprobe(ctx context.Context, rep Reporter, ffprobePath string) bool {
	line, err := media.Version(ctx, ffprobePath)
	if err != nil {
		rep.Errorf("ffprobe: not usable at %q (set ffprobe_path): %v", ffprobePath, err)
		return false
	}
	rep.Successf("ffprobe: %s", line)
	return true
}

func checkTerminal(rep Reporter, interactive bool) {
	if interactive {
		rep.Successf("terminal: interactive, folder browser available")
		return
	}
	rep.Statusf("terminal: not interactive, root comes from flags, config, or piped stdin")
}

func checkRoot(rep Reporter, root string) {
	if root == "" {
		rep.Statusf("root: none remembered yet, first run will ask")
		return
	}
	folders, err := scan.Discover(root)
	if err != nil {
		rep.Warnf("root: remembered %s is not readable: %v", root, err)
		return
	}
	rep.Successf("root: %s (%d ZOOM folders)", root, len(folders))
}
