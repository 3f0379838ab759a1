// Package picker asks the user for the root recordings folder. It chains
// providers by capability: a full-screen folder browser when both ends of
// the terminal are interactive, an inline text prompt when the browser
// cannot run, and a plain line read from stdin as the last resort so piped
// invocations still work.
package picker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/zjrosen/zoomport/internal/host"
	"github.com/zjrosen/zoomport/internal/log"
)

// Picker implements host.RootPicker over the local terminal.
type Picker struct {
	// NoInput disables every provider; selection fails instead of
	// blocking on a terminal that automation does not have.
	NoInput bool

	In  *os.File
	Out *os.File
	Err io.Writer
}

var _ host.RootPicker = (*Picker)(nil)

// New creates a picker bound to the process's standard streams.
func New(noInput bool) *Picker {
	return &Picker{
		NoInput: noInput,
		In:      os.Stdin,
		Out:     os.Stdout,
		Err:     os.Stderr,
	}
}

// PickFolder walks the provider chain until one yields a path or the user
// cancels. Cancellation is host.ErrPickCancelled; provider failures fall
// through to the next provider.
func (p *Picker) PickFolder(ctx context.Context, title, defaultPath string) (string, error) {
	if p.NoInput {
		return "", errors.New("interactive selection disabled, pass a root folder or set default_root")
	}

	def := usableDefault(defaultPath)

	if p.interactive() && os.Getenv("TERM") != "dumb" {
		path, cancelled, err := newFolderModel(title, def).run(p.In, p.Out, tea.WithContext(ctx))
		switch {
		case err == nil && cancelled:
			return "", host.ErrPickCancelled
		case err == nil:
			return expandHome(path)
		case ctx.Err() != nil:
			return "", ctx.Err()
		}
		log.ErrorErr(log.CatUI, "folder browser failed, trying prompt", err)
	}

	if p.interactive() {
		path, cancelled, err := newPromptModel(title, def).run(p.In, p.Out, tea.WithContext(ctx))
		switch {
		case err == nil && cancelled:
			return "", host.ErrPickCancelled
		case err == nil:
			return expandHome(path)
		case ctx.Err() != nil:
			return "", ctx.Err()
		}
		log.ErrorErr(log.CatUI, "prompt failed, trying line input", err)
	}

	return p.readLine(title, def)
}

// interactive reports whether both stdin and stdout are terminals.
func (p *Picker) interactive() bool {
	return isTerminal(p.In) && isTerminal(p.Out)
}

// readLine reads one line from stdin. An empty line accepts the shown
// default; EOF or a cleared default cancels.
func (p *Picker) readLine(title, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.Err, "%s [%s]: ", title, def)
	} else {
		fmt.Fprintf(p.Err, "%s: ", title)
	}

	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && line == "" {
		return "", host.ErrPickCancelled
	}
	line = strings.TrimSpace(line)
	if line == "" {
		if def == "" {
			return "", host.ErrPickCancelled
		}
		return def, nil
	}
	return expandHome(line)
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// usableDefault returns defaultPath when it exists, otherwise the working
// directory. Stale remembered roots should not strand the browser in a
// directory that is gone.
func usableDefault(defaultPath string) string {
	if defaultPath != "" {
		if _, err := os.Stat(defaultPath); err == nil {
			return defaultPath
		}
		log.Debug(log.CatUI, "default root unusable, starting from cwd", "path", defaultPath)
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return string(filepath.Separator)
}

func expandHome(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to expand ~: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
