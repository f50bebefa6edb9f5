package viewing

import "github.com/charmbracelet/lipgloss"

// Styles for the top view.
var (
	titleStyle        lipgloss.Style
	dimStyle          lipgloss.Style
	labelStyle        lipgloss.Style
	panelStyle        lipgloss.Style
	headerRowStyle    lipgloss.Style
	sortedColumnStyle lipgloss.Style
	hotStyle          lipgloss.Style
	warmStyle         lipgloss.Style
	errorStyle        lipgloss.Style
	pausedStyle       lipgloss.Style
)

func init() {
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12"))

	dimStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	labelStyle = lipgloss.NewStyle().
		Bold(true).
		Width(8)

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)

	headerRowStyle = lipgloss.NewStyle().
		Bold(true)

	sortedColumnStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12"))

	hotStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("9"))

	warmStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	pausedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("11")).
		Bold(true)
}

// usageStyle colours a process percentage. The hot threshold matches the
// web dashboard's highlight.
func usageStyle(pct float64) lipgloss.Style {
	switch {
	case pct > 30:
		return hotStyle
	case pct > 10:
		return warmStyle
	default:
		return lipgloss.NewStyle()
	}
}
