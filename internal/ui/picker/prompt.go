package picker

import (
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// promptModel asks for a path with a single prefilled text input. Enter
// accepts the value, esc cancels, and clearing the input before enter
// cancels as well.
type promptModel struct {
	input     textinput.Model
	title     string
	choice    string
	cancelled bool
}

// newPromptModel creates the prompt prefilled with def.
func newPromptModel(title, def string) promptModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "/path/to/recordings"
	ti.SetValue(def)
	ti.Width = 56
	ti.Focus()

	return promptModel{input: ti, title: title}
}

// Init returns the initial command.
func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc", "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			m.choice = strings.TrimSpace(m.input.Value())
			if m.choice == "" {
				m.cancelled = true
			}
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the prompt.
func (m promptModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("enter accept · esc cancel"))
	b.WriteString("\n")
	return b.String()
}

// run executes the prompt as a standalone inline program.
func (m promptModel) run(in *os.File, out *os.File, opts ...tea.ProgramOption) (string, bool, error) {
	opts = append([]tea.ProgramOption{
		tea.WithInput(in),
		tea.WithOutput(out),
	}, opts...)

	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		return "", false, err
	}
	pm, ok := final.(promptModel)
	if !ok {
		return "", true, nil
	}
	return pm.choice, pm.cancelled, nil
}
