package picker

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/zoomport/internal/host"
)

// loadListing runs the model's init command so the directory listing is
// populated before keys are sent, the way the running program would have
// done asynchronously.
func loadListing(t *testing.T, m folderModel) folderModel {
	t.Helper()

	cmd := m.Init()
	require.NotNil(t, cmd, "expected filepicker init to read the directory")

	updated, _ := m.Update(cmd())
	fm, ok := updated.(folderModel)
	require.True(t, ok, "expected folderModel back from Update")
	return fm
}

func TestFolderModel_EnterSelectsHighlightedDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "ZOOM0001"), 0o755))

	m := newFolderModel("Select folder", root)
	m = loadListing(t, m)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	fm := updated.(folderModel)

	assert.Equal(t, filepath.Join(root, "ZOOM0001"), fm.choice, "expected highlighted directory as choice")
	assert.False(t, fm.cancelled, "selection should not cancel")
	require.NotNil(t, cmd, "expected quit command")
	_, isQuit := cmd().(tea.QuitMsg)
	assert.True(t, isQuit, "expected tea.QuitMsg after selection")
}

func TestFolderModel_DotSelectsCurrentDir(t *testing.T) {
	root := t.TempDir()

	m := newFolderModel("Select folder", root)
	m = loadListing(t, m)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'.'}})
	fm := updated.(folderModel)

	assert.Equal(t, root, fm.choice, "expected the browsed directory itself")
	require.NotNil(t, cmd, "expected quit command")
	_, isQuit := cmd().(tea.QuitMsg)
	assert.True(t, isQuit, "expected tea.QuitMsg")
}

func TestFolderModel_CancelKeys(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
	}{
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}},
		{"q key", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newFolderModel("Select folder", t.TempDir())
			updated, cmd := m.Update(tt.key)
			fm := updated.(folderModel)

			assert.True(t, fm.cancelled, "expected cancellation")
			assert.Empty(t, fm.choice, "cancel must not produce a choice")
			require.NotNil(t, cmd, "expected quit command")
		})
	}
}

func TestFolderModel_ViewShowsTitleListingAndHints(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "ZOOM0042"), 0o755))

	m := newFolderModel("Select the folder containing ZOOM subfolders", root)
	m = loadListing(t, m)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(folderModel)

	view := m.View()
	assert.Contains(t, view, "Select the folder containing ZOOM subfo", "expected title in view")
	assert.Contains(t, view, "ZOOM0042", "expected directory listing")
	assert.Contains(t, view, "esc cancel", "expected key hints")
	assert.Contains(t, view, "╭", "expected titled box border")
}

func TestPromptModel_EnterAcceptsPrefilledDefault(t *testing.T) {
	m := newPromptModel("Select folder", "/takes/session1")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	pm := updated.(promptModel)

	assert.Equal(t, "/takes/session1", pm.choice, "expected prefilled value accepted")
	assert.False(t, pm.cancelled)
	require.NotNil(t, cmd, "expected quit command")
}

func TestPromptModel_TypedTextAppendsToDefault(t *testing.T) {
	m := newPromptModel("Select folder", "/takes/session")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	pm := updated.(promptModel)
	updated, _ = pm.Update(tea.KeyMsg{Type: tea.KeyEnter})
	pm = updated.(promptModel)

	assert.Equal(t, "/takes/session2", pm.choice, "cursor starts at end of prefilled value")
}

func TestPromptModel_EmptyValueCancels(t *testing.T) {
	m := newPromptModel("Select folder", "")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	pm := updated.(promptModel)

	assert.True(t, pm.cancelled, "enter on an empty input should cancel")
}

func TestPromptModel_EscCancels(t *testing.T) {
	m := newPromptModel("Select folder", "/takes")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	pm := updated.(promptModel)

	assert.True(t, pm.cancelled)
	require.NotNil(t, cmd, "expected quit command")
}

func TestPromptModel_ViewShowsTitleAndHint(t *testing.T) {
	m := newPromptModel("Select folder", "/takes")

	view := m.View()
	assert.Contains(t, view, "Select folder")
	assert.Contains(t, view, "/takes")
	assert.Contains(t, view, "esc cancel")
}

func TestPromptProgram_TypeAndAccept(t *testing.T) {
	tm := teatest.NewTestModel(t,
		newPromptModel("Select folder", "/takes"),
		teatest.WithInitialTermSize(80, 24),
	)

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("/takes"))
	}, teatest.WithDuration(3*time.Second))

	tm.Type("/live")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	final, ok := tm.FinalModel(t, teatest.WithFinalTimeout(3*time.Second)).(promptModel)
	require.True(t, ok, "expected promptModel back from the program")
	assert.Equal(t, "/takes/live", final.choice, "typed text should extend the prefilled default")
	assert.False(t, final.cancelled)
}

func TestFolderProgram_EscCancels(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "ZOOM0001"), 0o755))

	tm := teatest.NewTestModel(t,
		newFolderModel("Select folder", root),
		teatest.WithInitialTermSize(80, 24),
	)

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Select folder"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyEsc})

	final, ok := tm.FinalModel(t, teatest.WithFinalTimeout(3*time.Second)).(folderModel)
	require.True(t, ok, "expected folderModel back from the program")
	assert.True(t, final.cancelled, "esc should cancel the program")
	assert.Empty(t, final.choice)
}

// pipePicker builds a Picker whose stdin is the read end of a pipe, which is
// how the chain behaves under redirection: not a terminal, so it falls
// through to the line reader.
func pipePicker(t *testing.T, input string) (*Picker, *strings.Builder) {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	if input != "" {
		_, err = w.WriteString(input)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	var prompt strings.Builder
	return &Picker{In: r, Out: nil, Err: &prompt}, &prompt
}

func TestPickFolder_PipedLineInput(t *testing.T) {
	p, prompt := pipePicker(t, "/my/recordings\n")

	path, err := p.PickFolder(context.Background(), "Select folder", t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, "/my/recordings", path)
	assert.Contains(t, prompt.String(), "Select folder", "prompt should show the title")
}

func TestPickFolder_EmptyLineAcceptsDefault(t *testing.T) {
	def := t.TempDir()
	p, prompt := pipePicker(t, "\n")

	path, err := p.PickFolder(context.Background(), "Select folder", def)

	require.NoError(t, err)
	assert.Equal(t, def, path)
	assert.Contains(t, prompt.String(), def, "prompt should show the default in brackets")
}

func TestPickFolder_EOFCancels(t *testing.T) {
	p, _ := pipePicker(t, "")

	_, err := p.PickFolder(context.Background(), "Select folder", t.TempDir())

	require.ErrorIs(t, err, host.ErrPickCancelled)
}

func TestPickFolder_NoInputFailsWithoutInteraction(t *testing.T) {
	p, prompt := pipePicker(t, "/never/read\n")
	p.NoInput = true

	_, err := p.PickFolder(context.Background(), "Select folder", "")

	require.Error(t, err)
	assert.NotErrorIs(t, err, host.ErrPickCancelled, "no-input failure is reportable, not a cancel")
	assert.Empty(t, prompt.String(), "no provider should have run")
}

func TestReadLine_EmptyLineWithoutDefaultCancels(t *testing.T) {
	p, _ := pipePicker(t, "\n")

	_, err := p.readLine("Select folder", "")

	require.ErrorIs(t, err, host.ErrPickCancelled)
}

func TestReadLine_ExpandsHomePrefix(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	p, _ := pipePicker(t, "~/recordings\n")

	path, err := p.readLine("Select folder", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "recordings"), path)
}

func TestUsableDefault(t *testing.T) {
	existing := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"existing path kept", existing, existing},
		{"missing path falls back to cwd", filepath.Join(existing, "gone"), wd},
		{"empty path falls back to cwd", "", wd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, usableDefault(tt.path))
		})
	}
}
