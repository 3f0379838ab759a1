package picker

import (
	"os"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/zoomport/internal/ui/styles"
)

const (
	// defaultListHeight keeps the listing usable before the first
	// WindowSizeMsg arrives.
	defaultListHeight = 12

	maxBoxWidth = 72
)

// folderModel wraps the Bubbles file picker for choosing a directory.
// Enter selects the highlighted folder, l/right descends into it, and "."
// selects the directory currently being browsed.
type folderModel struct {
	fp        filepicker.Model
	title     string
	width     int
	choice    string
	cancelled bool
}

// newFolderModel creates a folder picker rooted at start.
func newFolderModel(title, start string) folderModel {
	fp := filepicker.New()
	fp.CurrentDirectory = start
	fp.DirAllowed = true
	fp.FileAllowed = false
	fp.ShowPermissions = false
	fp.ShowSize = false
	fp.Height = defaultListHeight

	return folderModel{fp: fp, title: title}
}

// Init returns the initial command.
func (m folderModel) Init() tea.Cmd {
	return m.fp.Init()
}

// Update handles messages.
func (m folderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		// Handled before the file picker sees them: its Back binding
		// also listens for esc.
		switch msg.String() {
		case "esc", "ctrl+c", "q":
			m.cancelled = true
			return m, tea.Quit
		case ".":
			m.choice = m.fp.CurrentDirectory
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.fp, cmd = m.fp.Update(msg)
	if didSelect, path := m.fp.DidSelectFile(msg); didSelect {
		m.choice = path
		return m, tea.Quit
	}
	return m, cmd
}

// View renders the picker inside a titled box with a key hint footer.
func (m folderModel) View() string {
	width := m.width
	if width == 0 {
		width = maxBoxWidth
	}
	if width > maxBoxWidth {
		width = maxBoxWidth
	}

	hint := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).
		Render("enter select · l/→ open · h/← up · . use current dir · esc cancel")

	content := styles.TruncateString(m.fp.CurrentDirectory, width-4) + "\n\n" + m.fp.View()
	return styles.RenderTitleBox(content, m.title, width) + "\n" + hint + "\n"
}

// run executes the folder picker as a standalone program and returns the
// selection.
func (m folderModel) run(in *os.File, out *os.File, opts ...tea.ProgramOption) (string, bool, error) {
	opts = append([]tea.ProgramOption{
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	}, opts...)

	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		return "", false, err
	}
	fm, ok := final.(folderModel)
	if !ok {
		return "", true, nil
	}
	return fm.choice, fm.cancelled || fm.choice == "", nil
}
