package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	Amber      = lipgloss.Color("#E5A00D")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#10B981")
	Red        = lipgloss.Color("#EF4444")
)

// Borders
var (
	ActiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Amber)

	InactiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Amber)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)
)

// Indexed status characters
const (
	IndexedChar   = "✓"
	UnindexedChar = "●"
)

// Filter styles
var (
	FilterStyle = lipgloss.NewStyle().
			Foreground(Amber)

	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(Amber).
				Bold(true)
)

// Progress bar styles
var (
	ProgressFullStyle = lipgloss.NewStyle().
				Foreground(Amber)

	ProgressEmptyStyle = lipgloss.NewStyle().
				Foreground(DimGray)
)

// Spinner style
var (
	SpinnerStyle = lipgloss.NewStyle().
		Foreground(Amber)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(Amber)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Truncate shortens a string to at most width cells, ending in an
// ellipsis when anything was cut. Rune-aware so filenames with
// multibyte characters don't get split mid-rune.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}

// RenderProgressBar renders a filled/empty bar for the given percent.
func RenderProgressBar(percent float64, width int) string {
	if width < 3 {
		return ""
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(float64(width)*percent/100 + 0.5)
	if filled > width {
		filled = width
	}

	return ProgressFullStyle.Render(strings.Repeat("█", filled)) +
		ProgressEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// RowPart is one colored segment of a list row. A nil Foreground takes
// the row's default color.
type RowPart struct {
	Text       string
	Foreground *lipgloss.Color
}

// RenderListRow joins the parts into one row padded to width, with a
// uniform highlight background when selected. One cell of margin is
// kept on each side so the highlight doesn't touch the border.
func RenderListRow(parts []RowPart, selected bool, width int) string {
	rowBg := lipgloss.NewStyle()
	if selected {
		rowBg = rowBg.Background(SlateLight)
	}

	var b strings.Builder
	used := 0
	for _, part := range parts {
		style := rowBg
		switch {
		case part.Foreground != nil:
			style = style.Foreground(*part.Foreground)
		case selected:
			style = style.Foreground(White)
		default:
			style = style.Foreground(LightGray)
		}
		b.WriteString(style.Render(part.Text))
		used += lipgloss.Width(part.Text)
	}

	if fill := width - used - 2; fill > 0 {
		b.WriteString(rowBg.Render(strings.Repeat(" ", fill)))
	}

	margin := rowBg.Render(" ")
	return margin + b.String() + margin
}
