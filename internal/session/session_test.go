package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type stubSource struct {
	path string
	dur  float64
}

func (s stubSource) Path() string      { return s.path }
func (s stubSource) Duration() float64 { return s.dur }

func TestInsertTrackAt(t *testing.T) {
	p := NewProject()

	first, err := p.InsertTrackAt(0)
	require.NoError(t, err)
	require.NoError(t, first.SetName("first"))

	second, err := p.InsertTrackAt(1)
	require.NoError(t, err)
	require.NoError(t, second.SetName("second"))

	// Insert in between shifts the second track down.
	middle, err := p.InsertTrackAt(1)
	require.NoError(t, err)
	require.NoError(t, middle.SetName("middle"))

	require.Equal(t, 3, p.TrackCount())
	names := make([]string, 0, 3)
	for _, tr := range p.Tracks() {
		names = append(names, tr.Name())
	}
	require.Equal(t, []string{"first", "middle", "second"}, names)

	_, err = p.InsertTrackAt(7)
	require.Error(t, err, "insert beyond count+1 should fail")
	_, err = p.InsertTrackAt(-1)
	require.Error(t, err)
}

func TestTrackAt(t *testing.T) {
	p := NewProject()
	_, err := p.TrackAt(0)
	require.Error(t, err, "empty project has no track 0")

	tr, err := p.InsertTrackAt(0)
	require.NoError(t, err)

	got, err := p.TrackAt(0)
	require.NoError(t, err)
	require.Same(t, tr, got)
}

func TestUndoBlockRecordsOnlyNonEmptyBlocks(t *testing.T) {
	p := NewProject()

	// Empty block: discarded.
	p.BeginUndoBlock()
	p.EndUndoBlock("nothing happened")
	require.Empty(t, p.UndoLabels())

	// Block with edits: recorded once under its label.
	p.BeginUndoBlock()
	_, err := p.InsertTrackAt(0)
	require.NoError(t, err)
	p.EndUndoBlock("Import ZOOM folders")
	require.Equal(t, []string{"Import ZOOM folders"}, p.UndoLabels())

	// Unbalanced End is ignored.
	p.EndUndoBlock("stray")
	require.Equal(t, []string{"Import ZOOM folders"}, p.UndoLabels())
}

func TestUndoBlockNesting(t *testing.T) {
	p := NewProject()

	p.BeginUndoBlock()
	p.BeginUndoBlock()
	_, err := p.InsertTrackAt(0)
	require.NoError(t, err)
	p.EndUndoBlock("inner")
	require.Empty(t, p.UndoLabels(), "inner end must not record while outer is open")
	p.EndUndoBlock("outer")
	require.Equal(t, []string{"outer"}, p.UndoLabels())
}

func TestAddItemAndTake(t *testing.T) {
	p := NewProject()
	tr, err := p.InsertTrackAt(0)
	require.NoError(t, err)

	_, err = tr.AddItem(-1, 5)
	require.Error(t, err, "negative start should be rejected")
	_, err = tr.AddItem(0, -5)
	require.Error(t, err, "negative length should be rejected")

	it, err := tr.AddItem(12.5, 3.25)
	require.NoError(t, err)

	_, err = it.AddTake(nil)
	require.Error(t, err, "nil source should be rejected")

	take, err := it.AddTake(stubSource{path: "/music/ZOOM0001/a_tr1.wav", dur: 3.25})
	require.NoError(t, err)
	require.NoError(t, take.SetName("a_tr1"))

	track := p.Tracks()[0]
	items := track.Items()
	require.Len(t, items, 1)
	require.Equal(t, 12.5, items[0].Start())
	require.Equal(t, 3.25, items[0].Length())

	takes := items[0].Takes()
	require.Len(t, takes, 1)
	require.Equal(t, "a_tr1", takes[0].Name())
	require.Equal(t, "/music/ZOOM0001/a_tr1.wav", takes[0].Source().Path())
	require.NotEmpty(t, takes[0].GUID())
}

func TestSnapshot(t *testing.T) {
	p := NewProject()
	tr, err := p.InsertTrackAt(0)
	require.NoError(t, err)
	require.NoError(t, tr.SetName("Tr1"))

	it, err := tr.AddItem(0, 10)
	require.NoError(t, err)
	take, err := it.AddTake(stubSource{path: "/m/ZOOM0001/a_tr1.wav", dur: 10})
	require.NoError(t, err)
	require.NoError(t, take.SetName("a_tr1"))

	m := p.Snapshot("/m")
	require.Equal(t, ManifestVersion, m.Version)
	require.Equal(t, "/m", m.Root)
	require.False(t, m.GeneratedAt.IsZero())
	require.Len(t, m.Tracks, 1)
	require.Equal(t, "Tr1", m.Tracks[0].Name)
	require.Len(t, m.Tracks[0].Items, 1)
	require.Equal(t, 0.0, m.Tracks[0].Items[0].Start)
	require.Equal(t, 10.0, m.Tracks[0].Items[0].Length)
	require.Equal(t, "a_tr1", m.Tracks[0].Items[0].TakeName)
	require.Equal(t, "/m/ZOOM0001/a_tr1.wav", m.Tracks[0].Items[0].Source)
}

func TestWriteManifestJSONAndYAML(t *testing.T) {
	p := NewProject()
	tr, err := p.InsertTrackAt(0)
	require.NoError(t, err)
	require.NoError(t, tr.SetName("Tr2"))
	_, err = tr.AddItem(1.5, 2.5)
	require.NoError(t, err)

	m := p.Snapshot("/m")
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "arrangement.json")
	require.NoError(t, WriteManifest(m, jsonPath))
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var fromJSON Manifest
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	require.Equal(t, "Tr2", fromJSON.Tracks[0].Name)
	require.Equal(t, 1.5, fromJSON.Tracks[0].Items[0].Start)

	yamlPath := filepath.Join(dir, "arrangement.yaml")
	require.NoError(t, WriteManifest(m, yamlPath))
	data, err = os.ReadFile(yamlPath)
	require.NoError(t, err)
	var fromYAML Manifest
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	require.Equal(t, "Tr2", fromYAML.Tracks[0].Name)
	require.Equal(t, 2.5, fromYAML.Tracks[0].Items[0].Length)

	// No stray temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}
