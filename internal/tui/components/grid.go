package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/fotofindr/internal/domain"
	"github.com/mmcdole/fotofindr/internal/tui/styles"
	"github.com/sahilm/fuzzy"
)

// Layout constants for grid
const (
	// Border adds 1 char on each side
	BorderWidth  = 2
	BorderHeight = 2

	// Padding inside the border
	HorizontalPadding = 2

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2

	// Header line at top of content area
	HeaderLines = 1

	// Extra safety margin for item width calculations
	ItemWidthMargin = 2
)

// Grid is the photo browser component. It renders the collection as a
// scrollable list with indexed-status indicators, an optional remote
// search constraint, and a local fuzzy filename filter.
type Grid struct {
	photos []domain.Photo

	// Remote filter: photo IDs matched by the last search, nil when
	// inactive. Photos without a PhotoID never pass an active filter.
	allowed func(photoID string) bool
	active  bool

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width   int
	height  int
	focused bool

	header string

	// Local filename filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	filteredIdx  []int // indices into visible slice

	// visibleIdx maps display positions to photos, after the remote
	// filter but before the local filter.
	visibleIdx []int
}

// NewGrid creates a new grid component
func NewGrid() Grid {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return Grid{
		filterInput: ti,
	}
}

// SetPhotos replaces the whole collection. The cursor resets and any
// local filter is cleared; the remote filter predicate is reapplied.
func (g *Grid) SetPhotos(photos []domain.Photo) {
	g.photos = photos
	g.cursor = 0
	g.offset = 0
	g.clearFilter()
	g.recalcVisible()
}

// SetRemoteFilter installs the search membership predicate. active
// false means "show all".
func (g *Grid) SetRemoteFilter(allowed func(photoID string) bool, active bool) {
	g.allowed = allowed
	g.active = active
	g.cursor = 0
	g.offset = 0
	g.recalcVisible()
	g.applyFilter()
}

// recalcVisible applies the remote filter predicate.
func (g *Grid) recalcVisible() {
	g.visibleIdx = g.visibleIdx[:0]
	for i, p := range g.photos {
		if g.active && g.allowed != nil && !g.allowed(p.PhotoID) {
			continue
		}
		g.visibleIdx = append(g.visibleIdx, i)
	}
}

// SetSize updates the component dimensions
func (g *Grid) SetSize(width, height int) {
	g.width = width
	g.height = height
	g.recalcMaxVisible()
}

// SetHeader sets the text displayed above the list
func (g *Grid) SetHeader(header string) {
	g.header = header
}

// recalcMaxVisible accounts for header, scroll indicators and filter bar
func (g *Grid) recalcMaxVisible() {
	interiorHeight := g.height - BorderHeight
	g.maxVisible = interiorHeight - ScrollIndicatorLines - HeaderLines
	if g.filterActive {
		g.maxVisible--
	}
	if g.maxVisible < 1 {
		g.maxVisible = 1
	}
}

// SetFocused sets the focus state
func (g *Grid) SetFocused(focused bool) {
	g.focused = focused
}

// IsFocused returns the focus state
func (g Grid) IsFocused() bool {
	return g.focused
}

// Count returns the number of photos currently shown
func (g Grid) Count() int {
	return g.itemCount()
}

// TotalCount returns the collection size before any filtering
func (g Grid) TotalCount() int {
	return len(g.photos)
}

// itemCount returns the number of items (accounting for both filters)
func (g Grid) itemCount() int {
	if g.filteredIdx != nil {
		return len(g.filteredIdx)
	}
	return len(g.visibleIdx)
}

// SelectedPhoto returns the photo under the cursor
func (g Grid) SelectedPhoto() *domain.Photo {
	count := g.itemCount()
	if count == 0 || g.cursor >= count {
		return nil
	}
	idx := g.mapIndex(g.cursor)
	return &g.photos[idx]
}

// mapIndex maps a cursor position through both filters to the photo slice
func (g Grid) mapIndex(i int) int {
	if g.filteredIdx != nil && i < len(g.filteredIdx) {
		return g.visibleIdx[g.filteredIdx[i]]
	}
	return g.visibleIdx[i]
}

// ensureVisible ensures the cursor is visible
func (g *Grid) ensureVisible() {
	if g.cursor < g.offset {
		g.offset = g.cursor
	}
	if g.cursor >= g.offset+g.maxVisible {
		g.offset = g.cursor - g.maxVisible + 1
	}
}

// ToggleFilter activates the local filename filter input
func (g *Grid) ToggleFilter() {
	g.filterActive = true
	g.filterInput.Focus()
	g.recalcMaxVisible()
}

// IsFilterTyping returns true while the filter input captures keys
func (g Grid) IsFilterTyping() bool {
	return g.filterActive && g.filterInput.Focused()
}

// ClearFilter deactivates the local filter
func (g *Grid) ClearFilter() {
	g.clearFilter()
}

func (g *Grid) clearFilter() {
	g.filterActive = false
	g.filterQuery = ""
	g.filteredIdx = nil
	g.filterInput.SetValue("")
	g.filterInput.Blur()
	g.recalcMaxVisible()
}

// applyFilter filters the visible photos by filename
func (g *Grid) applyFilter() {
	query := g.filterInput.Value()
	g.filterQuery = query

	if query == "" {
		g.filteredIdx = nil
		return
	}

	names := make([]string, len(g.visibleIdx))
	for i, idx := range g.visibleIdx {
		names[i] = strings.ToLower(g.photos[idx].DisplayName())
	}

	matches := fuzzy.Find(strings.ToLower(query), names)

	g.filteredIdx = make([]int, len(matches))
	for i, match := range matches {
		g.filteredIdx[i] = match.Index
	}

	g.cursor = 0
	g.offset = 0
}

// Update handles messages
func (g Grid) Update(msg tea.Msg) (Grid, tea.Cmd) {
	if !g.focused {
		return g, nil
	}

	// Filter input captures keys while focused
	if g.filterActive && g.filterInput.Focused() {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			switch msg.String() {
			case "esc":
				g.clearFilter()
				return g, nil
			case "enter":
				g.filterInput.Blur()
				return g, nil
			case "backspace":
				if g.filterInput.Value() == "" {
					g.clearFilter()
					return g, nil
				}
			}
		}

		var cmd tea.Cmd
		g.filterInput, cmd = g.filterInput.Update(msg)
		g.applyFilter()
		return g, cmd
	}

	if g.filterActive {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			switch msg.String() {
			case "esc":
				g.clearFilter()
				return g, nil
			case "/":
				g.filterInput.Focus()
				return g, nil
			}
		}
	}

	count := g.itemCount()
	if count == 0 {
		return g, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if g.cursor < count-1 {
				g.cursor++
				g.ensureVisible()
			}
		case "k", "up":
			if g.cursor > 0 {
				g.cursor--
				g.ensureVisible()
			}
		case "g":
			g.cursor = 0
			g.offset = 0
		case "G":
			g.cursor = count - 1
			g.ensureVisible()
		case "ctrl+d":
			g.cursor += g.maxVisible / 2
			if g.cursor >= count {
				g.cursor = count - 1
			}
			g.ensureVisible()
		case "ctrl+u":
			g.cursor -= g.maxVisible / 2
			if g.cursor < 0 {
				g.cursor = 0
			}
			g.ensureVisible()
		}
	}

	return g, nil
}

// View renders the component
func (g Grid) View() string {
	style := styles.InactiveBorder
	if g.focused {
		style = styles.ActiveBorder
	}

	content := g.renderList()

	frameW, frameH := style.GetFrameSize()

	return style.
		Width(g.width - frameW).
		Height(g.height - frameH).
		Render(content)
}

// renderList renders the list view
func (g Grid) renderList() string {
	itemWidth := g.width - BorderWidth - HorizontalPadding - ItemWidthMargin

	headerLine := " "
	if g.header != "" {
		headerLine = styles.AccentStyle.Render(styles.Truncate(g.header, itemWidth))
	}

	count := g.itemCount()
	if count == 0 {
		emptyMsg := styles.DimStyle.Render("No photos")
		if g.active {
			emptyMsg = styles.DimStyle.Render("No photos match the search")
		}
		if g.filterActive && g.filterQuery != "" {
			emptyMsg = styles.DimStyle.Render("No matches")
		}
		return headerLine + "\n" + " " + "\n" + emptyMsg + "\n" + " "
	}

	var lines []string

	end := g.offset + g.maxVisible
	if end > count {
		end = count
	}

	for i := g.offset; i < end; i++ {
		selected := i == g.cursor
		idx := g.mapIndex(i)
		lines = append(lines, g.renderPhotoItem(g.photos[idx], selected, itemWidth))
	}

	// Reserve space for scroll indicators even when empty to prevent
	// layout shifts.
	header := " "
	if g.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}

	footer := " "
	if end < count {
		footer = styles.DimStyle.Render("↓ more")
	}

	content := strings.Join(lines, "\n")
	content = headerLine + "\n" + header + "\n" + content + "\n" + footer

	if g.filterActive {
		content += "\n" + g.renderFilterBar()
	}

	return content
}

// renderPhotoItem renders one photo row
func (g Grid) renderPhotoItem(photo domain.Photo, selected bool, width int) string {
	var indicatorChar string
	var indicatorFg lipgloss.Color
	if photo.Indexed() {
		indicatorChar = styles.IndexedChar
		indicatorFg = styles.Green
	} else {
		indicatorChar = styles.UnindexedChar
		indicatorFg = styles.Amber
	}

	name := styles.Truncate(photo.DisplayName(), width-14)
	dimGray := styles.DimGray

	badge := ""
	if !photo.Indexed() {
		badge = " pending"
	}

	parts := []styles.RowPart{
		{Text: indicatorChar, Foreground: &indicatorFg},
		{Text: " " + name, Foreground: nil},
		{Text: badge, Foreground: &dimGray},
	}

	return styles.RenderListRow(parts, selected, width)
}

// renderFilterBar renders the local filter input bar
func (g Grid) renderFilterBar() string {
	input := g.filterInput.View()
	countStr := ""
	if g.filterQuery != "" {
		countStr = styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", g.itemCount(), len(g.visibleIdx)))
	}
	return input + countStr
}

// IsEmpty returns true if there are no photos to show
func (g Grid) IsEmpty() bool {
	return g.itemCount() == 0
}
