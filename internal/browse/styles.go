package browse

import "github.com/charmbracelet/lipgloss"

// Color palette - lime green accent, matching the rest of this project's
// terminal tooling.
const (
	ColorLime     = "154" // Primary accent (#AFFF00) - bright lime green
	ColorLimeDim  = "106" // Dimmed lime for inactive/borders
	ColorWhite    = "255" // Headers, important text
	ColorGray     = "245" // Secondary text, labels
	ColorDarkGray = "238" // Box borders, separators
	ColorRed      = "196" // Errors
	ColorYellow   = "220" // Warnings
)

// Styles holds all UI styles for the browser.
type Styles struct {
	Header   lipgloss.Style
	Dim      lipgloss.Style
	Error    lipgloss.Style
	Selected lipgloss.Style
	Label    lipgloss.Style
	Breadcrumb lipgloss.Style

	Panel  lipgloss.Style
	Border lipgloss.Style
}

// DefaultStyles returns styled components for color terminals.
func DefaultStyles() Styles {
	return Styles{
		Header:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorLime)),
		Dim:        lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDarkGray)),
		Error:      lipgloss.NewStyle().Foreground(lipgloss.Color(ColorRed)),
		Selected:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorLime)),
		Label:      lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)),
		Breadcrumb: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorLimeDim)),
		Border:     lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDarkGray)),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorDarkGray)).
			Padding(0, 1),
	}
}

// NoColorStyles returns unstyled components for plain terminals.
func NoColorStyles() Styles {
	return Styles{
		Header:     lipgloss.NewStyle(),
		Dim:        lipgloss.NewStyle(),
		Error:      lipgloss.NewStyle(),
		Selected:   lipgloss.NewStyle(),
		Label:      lipgloss.NewStyle(),
		Breadcrumb: lipgloss.NewStyle(),
		Border:     lipgloss.NewStyle(),
		Panel:      lipgloss.NewStyle().Padding(0, 1),
	}
}

// GetStyles picks DefaultStyles or NoColorStyles based on noColor.
func GetStyles(noColor bool) Styles {
	if noColor {
		return NoColorStyles()
	}
	return DefaultStyles()
}
