package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ManifestVersion is the current schema version for arrangement manifests.
const ManifestVersion = "1.0"

// Manifest is a serializable snapshot of an arrangement. It is zoomport's
// own document format for downstream tooling, not any workstation's project
// format.
type Manifest struct {
	// Version is the schema version for forward compatibility.
	Version string `json:"version" yaml:"version"`

	// GeneratedAt is when the snapshot was taken.
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`

	// Root is the import root the arrangement was built from (if known).
	Root string `json:"root,omitempty" yaml:"root,omitempty"`

	// Tracks is the arrangement in project order.
	Tracks []ManifestTrack `json:"tracks" yaml:"tracks"`
}

// ManifestTrack is one track of the arrangement.
type ManifestTrack struct {
	// GUID is the track's stable identifier.
	GUID string `json:"guid" yaml:"guid"`

	// Name is the track's display name.
	Name string `json:"name" yaml:"name"`

	// Items are the track's timeline objects in creation order.
	Items []ManifestItem `json:"items" yaml:"items"`
}

// ManifestItem is one placed item.
type ManifestItem struct {
	// GUID is the item's stable identifier.
	GUID string `json:"guid" yaml:"guid"`

	// Start is the timeline position in seconds.
	Start float64 `json:"start" yaml:"start"`

	// Length is the item length in seconds.
	Length float64 `json:"length" yaml:"length"`

	// TakeName is the active take's label (empty when unnamed).
	TakeName string `json:"take_name,omitempty" yaml:"take_name,omitempty"`

	// Source is the media file backing the active take.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// Snapshot captures the project's current arrangement.
func (p *Project) Snapshot(root string) Manifest {
	m := Manifest{
		Version:     ManifestVersion,
		GeneratedAt: time.Now().UTC(),
		Root:        root,
		Tracks:      []ManifestTrack{},
	}
	for _, t := range p.Tracks() {
		mt := ManifestTrack{GUID: t.GUID(), Name: t.Name(), Items: []ManifestItem{}}
		for _, it := range t.Items() {
			mi := ManifestItem{GUID: it.GUID(), Start: it.Start(), Length: it.Length()}
			// The importer attaches exactly one take per item; report the
			// first take as the active one.
			if takes := it.Takes(); len(takes) > 0 {
				mi.TakeName = takes[0].Name()
				if src := takes[0].Source(); src != nil {
					mi.Source = src.Path()
				}
			}
			mt.Items = append(mt.Items, mi)
		}
		m.Tracks = append(m.Tracks, mt)
	}
	return m
}

// WriteManifest writes m to path using atomic rename. The encoding follows
// the extension: .yaml/.yml produce YAML, everything else JSON.
func WriteManifest(m Manifest, path string) error {
	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(m)
	default:
		data, err = json.MarshalIndent(m, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}

	// Write to a temporary file in the same directory (required for atomic
	// rename), then rename into place so the file is never half-written.
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, "manifest.*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary manifest file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		_ = os.Remove(tmpPath) // best effort cleanup
		return fmt.Errorf("writing temporary manifest: %w", writeErr)
	}
	if closeErr != nil {
		_ = os.Remove(tmpPath) // best effort cleanup
		return fmt.Errorf("closing temporary manifest: %w", closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath) // best effort cleanup
		return fmt.Errorf("renaming manifest: %w", err)
	}

	return nil
}
