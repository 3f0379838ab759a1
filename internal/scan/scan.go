// Package scan walks an import root: it discovers take folders and resolves
// each folder's files against the recorder channel layout.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/zjrosen/zoomport/internal/log"
	"github.com/zjrosen/zoomport/internal/zoom"
)

// FolderScan is one take folder's resolution result.
type FolderScan struct {
	// Name is the folder's base name, e.g. "ZOOM0001".
	Name string
	// Files maps channel index to the resolved file's absolute path.
	// Channels with no qualifying file are absent.
	Files map[int]string
}

// Survey is a prescan of an entire root.
type Survey struct {
	// Root is the scanned root directory.
	Root string
	// Folders holds every take folder in ascending name order.
	Folders []FolderScan
	// Active lists channel indices that resolved at least one file in any
	// folder, in channel definition order.
	Active []int
}

// Discover lists the immediate subdirectories of root whose names are take
// folders, sorted ascending.
func Discover(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading root %s: %w", root, err)
	}

	var folders []string
	for _, e := range entries {
		if !e.IsDir() || !zoom.IsTakeFolder(e.Name()) {
			continue
		}
		folders = append(folders, e.Name())
	}
	sort.Strings(folders)

	log.Debug(log.CatScan, "Discovered take folders", "root", root, "count", len(folders))
	return folders, nil
}

// ResolveFolder matches the files of root/folder against channels. The
// listing is taken fresh on every call so watch-mode rescans see new files.
func ResolveFolder(root, folder string, channels []zoom.Channel) (FolderScan, error) {
	dir := filepath.Join(root, folder)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return FolderScan{}, fmt.Errorf("reading folder %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}

	fs := FolderScan{Name: folder, Files: make(map[int]string)}
	for i, ch := range channels {
		name, ok := ch.FirstMatch(names)
		if !ok {
			continue
		}
		fs.Files[i] = filepath.Join(dir, name)
	}

	log.Debug(log.CatScan, "Resolved folder", "folder", folder, "matched", len(fs.Files))
	return fs, nil
}

// Prescan discovers and resolves every take folder under root and reports
// which channels are active anywhere.
func Prescan(root string, channels []zoom.Channel) (Survey, error) {
	folders, err := Discover(root)
	if err != nil {
		return Survey{}, err
	}

	s := Survey{Root: root}
	seen := make(map[int]bool)
	for _, name := range folders {
		fs, err := ResolveFolder(root, name, channels)
		if err != nil {
			return Survey{}, err
		}
		s.Folders = append(s.Folders, fs)
		for idx := range fs.Files {
			seen[idx] = true
		}
	}

	for i := range channels {
		if seen[i] {
			s.Active = append(s.Active, i)
		}
	}

	log.Debug(log.CatScan, "Prescan complete",
		"root", root, "folders", len(s.Folders), "active_channels", len(s.Active))
	return s, nil
}

// FolderNames returns the survey's folder names in order.
func (s Survey) FolderNames() []string {
	out := make([]string, 0, len(s.Folders))
	for _, f := range s.Folders {
		out = append(out, f.Name)
	}
	return out
}

// FileCount returns the total number of resolved files across all folders.
func (s Survey) FileCount() int {
	n := 0
	for _, f := range s.Folders {
		n += len(f.Files)
	}
	return n
}
