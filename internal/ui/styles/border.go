package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Border characters (rounded)
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// Default colors for titled boxes.
var (
	BorderColor = lipgloss.AdaptiveColor{Light: "240", Dark: "238"}
	TitleColor  = lipgloss.AdaptiveColor{Light: "25", Dark: "39"}
)

// RenderTitleBox renders content inside a rounded box with the title embedded
// in the top border. Format: ╭─ Title ──────╮. The box is width cells wide;
// content lines are padded or truncated to fit.
func RenderTitleBox(content, title string, width int) string {
	borderStyle := lipgloss.NewStyle().Foreground(BorderColor)
	titleStyle := lipgloss.NewStyle().Foreground(TitleColor)

	innerWidth := max(width-2, 1)

	var top string
	if title == "" || innerWidth < 5 {
		top = borderStyle.Render(borderTopLeft + strings.Repeat(borderHorizontal, innerWidth) + borderTopRight)
	} else {
		// "─ " before and " ─" after leave innerWidth-4 cells for the title.
		shown := TruncateString(title, innerWidth-4)
		rest := max(innerWidth-3-lipgloss.Width(shown), 0)
		top = borderStyle.Render(borderTopLeft+borderHorizontal+" ") +
			titleStyle.Render(shown) +
			borderStyle.Render(" "+strings.Repeat(borderHorizontal, rest)+borderTopRight)
	}

	bottom := borderStyle.Render(borderBottomLeft + strings.Repeat(borderHorizontal, innerWidth) + borderBottomRight)

	var body strings.Builder
	for _, line := range strings.Split(content, "\n") {
		if lipgloss.Width(line) > innerWidth {
			line = TruncateString(line, innerWidth)
		}
		if pad := innerWidth - lipgloss.Width(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		body.WriteString(borderStyle.Render(borderVertical))
		body.WriteString(line)
		body.WriteString(borderStyle.Render(borderVertical))
		body.WriteString("\n")
	}

	return top + "\n" + body.String() + bottom
}
