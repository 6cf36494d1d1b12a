// Package style holds the colors and icons shared by the report renderer and
// the log handler.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Accent = lipgloss.Color("#8B5CF6")
	Muted  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
	Blue   = lipgloss.Color("#2E90FA")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Info    = "i"
	Arrow   = "→"
	Dot     = "●"
)

// Text styles for report sections.
var (
	Heading = lipgloss.NewStyle().Bold(true).Foreground(Accent)
	Subtle  = lipgloss.NewStyle().Foreground(Muted)
	Success = lipgloss.NewStyle().Foreground(Green)
	Failure = lipgloss.NewStyle().Bold(true).Foreground(Red)
	Caution = lipgloss.NewStyle().Foreground(Yellow)
	Note    = lipgloss.NewStyle().Foreground(Blue)
)
