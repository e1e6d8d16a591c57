package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/fotofindr/internal/domain"
	"github.com/mmcdole/fotofindr/internal/tui/styles"
)

// People lists the backend's face-cluster profiles and lets the user
// assign display names.
type People struct {
	profiles []domain.PersonProfile

	cursor     int
	offset     int
	maxVisible int

	width   int
	height  int
	focused bool

	fromCache bool

	// Name filter
	filterInput  textinput.Model
	filterActive bool
	filteredIdx  []int

	// Rename input
	renameInput  textinput.Model
	renameActive bool
}

// NewPeople creates the people list component
func NewPeople() People {
	fi := textinput.New()
	fi.Placeholder = "filter by name..."
	fi.Prompt = "/ "
	fi.PromptStyle = styles.FilterPromptStyle
	fi.TextStyle = styles.FilterStyle

	ri := textinput.New()
	ri.Placeholder = "person name"
	ri.Prompt = "name: "
	ri.PromptStyle = styles.FilterPromptStyle
	ri.CharLimit = 60

	return People{
		filterInput: fi,
		renameInput: ri,
	}
}

// SetProfiles replaces the profile list
func (p *People) SetProfiles(profiles []domain.PersonProfile, fromCache bool) {
	p.profiles = profiles
	p.fromCache = fromCache
	p.cursor = 0
	p.offset = 0
	p.filteredIdx = nil
	p.filterInput.SetValue("")
	p.filterActive = false
}

// ApplyName updates one profile in place after a successful rename
func (p *People) ApplyName(personID, name string) {
	for i := range p.profiles {
		if p.profiles[i].ID == personID {
			p.profiles[i].Name = name
			return
		}
	}
}

// SetSize updates the component dimensions
func (p *People) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.maxVisible = height - BorderHeight - HeaderLines - 2
	if p.maxVisible < 1 {
		p.maxVisible = 1
	}
}

// SetFocused sets the focus state
func (p *People) SetFocused(focused bool) {
	p.focused = focused
}

// Selected returns the profile under the cursor
func (p People) Selected() *domain.PersonProfile {
	count := p.itemCount()
	if count == 0 || p.cursor >= count {
		return nil
	}
	return &p.profiles[p.mapIndex(p.cursor)]
}

// IsTyping reports whether an input currently captures keys
func (p People) IsTyping() bool {
	return p.filterInput.Focused() || p.renameActive
}

// StartRename opens the rename input primed with the current name
func (p *People) StartRename() {
	sel := p.Selected()
	if sel == nil {
		return
	}
	p.renameActive = true
	p.renameInput.SetValue(sel.Name)
	p.renameInput.Focus()
}

func (p People) itemCount() int {
	if p.filteredIdx != nil {
		return len(p.filteredIdx)
	}
	return len(p.profiles)
}

func (p People) mapIndex(i int) int {
	if p.filteredIdx != nil && i < len(p.filteredIdx) {
		return p.filteredIdx[i]
	}
	return i
}

// applyFilter narrows the list to names fuzzy-matching the query
func (p *People) applyFilter() {
	query := strings.TrimSpace(p.filterInput.Value())
	if query == "" {
		p.filteredIdx = nil
		return
	}

	names := make([]string, len(p.profiles))
	for i, prof := range p.profiles {
		names[i] = prof.DisplayName()
	}

	ranks := fuzzy.RankFindFold(query, names)
	p.filteredIdx = make([]int, len(ranks))
	for i, r := range ranks {
		p.filteredIdx[i] = r.OriginalIndex
	}
	p.cursor = 0
	p.offset = 0
}

// Update handles messages. The returned command, when non-nil, is the
// rename submission for the app to dispatch.
func (p People) Update(msg tea.Msg) (People, *RenameRequest) {
	if !p.focused {
		return p, nil
	}

	if p.renameActive {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			switch msg.String() {
			case "esc":
				p.renameActive = false
				p.renameInput.Blur()
				return p, nil
			case "enter":
				sel := p.Selected()
				name := strings.TrimSpace(p.renameInput.Value())
				p.renameActive = false
				p.renameInput.Blur()
				if sel == nil || name == "" {
					return p, nil
				}
				return p, &RenameRequest{PersonID: sel.ID, Name: name}
			}
		}
		p.renameInput, _ = p.renameInput.Update(msg)
		return p, nil
	}

	if p.filterInput.Focused() {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			switch msg.String() {
			case "esc":
				p.filterInput.SetValue("")
				p.filterInput.Blur()
				p.filterActive = false
				p.filteredIdx = nil
				return p, nil
			case "enter":
				p.filterInput.Blur()
				return p, nil
			}
		}
		p.filterInput, _ = p.filterInput.Update(msg)
		p.applyFilter()
		return p, nil
	}

	count := p.itemCount()

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if p.cursor < count-1 {
				p.cursor++
				p.ensureVisible()
			}
		case "k", "up":
			if p.cursor > 0 {
				p.cursor--
				p.ensureVisible()
			}
		case "/":
			p.filterActive = true
			p.filterInput.Focus()
		case "r":
			p.StartRename()
		}
	}

	return p, nil
}

// RenameRequest is emitted when the user submits a new person name
type RenameRequest struct {
	PersonID string
	Name     string
}

func (p *People) ensureVisible() {
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+p.maxVisible {
		p.offset = p.cursor - p.maxVisible + 1
	}
}

// View renders the component
func (p People) View() string {
	style := styles.InactiveBorder
	if p.focused {
		style = styles.ActiveBorder
	}

	itemWidth := p.width - BorderWidth - HorizontalPadding - ItemWidthMargin

	header := styles.TitleStyle.Render("People")
	if p.fromCache {
		header += styles.DimStyle.Render(" (cached)")
	}

	count := p.itemCount()
	var body string
	if count == 0 {
		body = styles.DimStyle.Render("No people yet — index some photos first")
	} else {
		end := p.offset + p.maxVisible
		if end > count {
			end = count
		}
		var lines []string
		for i := p.offset; i < end; i++ {
			lines = append(lines, p.renderProfile(p.profiles[p.mapIndex(i)], i == p.cursor, itemWidth))
		}
		body = strings.Join(lines, "\n")
	}

	content := header + "\n" + body

	if p.renameActive {
		content += "\n" + p.renameInput.View()
	} else if p.filterActive {
		content += "\n" + p.filterInput.View()
	}

	frameW, frameH := style.GetFrameSize()
	return style.
		Width(p.width - frameW).
		Height(p.height - frameH).
		Render(content)
}

// renderProfile renders one person row
func (p People) renderProfile(prof domain.PersonProfile, selected bool, width int) string {
	var indicatorChar string
	var indicatorFg lipgloss.Color
	if prof.Name != "" {
		indicatorChar = styles.IndexedChar
		indicatorFg = styles.Green
	} else {
		indicatorChar = styles.UnindexedChar
		indicatorFg = styles.Amber
	}

	name := styles.Truncate(prof.DisplayName(), width-16)
	dimGray := styles.DimGray
	badge := fmt.Sprintf(" %d photos", prof.PhotoCount)

	parts := []styles.RowPart{
		{Text: indicatorChar, Foreground: &indicatorFg},
		{Text: " " + name, Foreground: nil},
		{Text: badge, Foreground: &dimGray},
	}

	return styles.RenderListRow(parts, selected, width)
}
