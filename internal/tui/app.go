package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/fotofindr/internal/assets"
	"github.com/mmcdole/fotofindr/internal/domain"
	"github.com/mmcdole/fotofindr/internal/indexer"
	"github.com/mmcdole/fotofindr/internal/search"
	"github.com/mmcdole/fotofindr/internal/tui/components"
	"github.com/mmcdole/fotofindr/internal/tui/styles"
)

// View identifies the active screen
type View int

const (
	ViewGrid View = iota
	ViewPeople
	ViewDetail
)

const statusTimeout = 4 * time.Second

// Model is the root TUI model
type Model struct {
	// Collaborators
	library domain.AssetLibrary
	backend domain.Backend
	store   domain.ReconcileStore
	ix      *indexer.Indexer
	bridge  *search.Bridge
	watcher *assets.Watcher

	// The local photo collection. Replaced wholesale on rescan;
	// individual PhotoIDs set once by upload reconciliation.
	photos []domain.Photo

	// Components
	grid   components.Grid
	people components.People
	detail components.Detail

	searchInput textinput.Model
	searching   bool

	spin spinner.Model

	// Indexing run state
	progress domain.IndexProgress
	indexing bool

	// Persistent error states
	permissionDenied bool
	emptyLibrary     bool

	// Transient status bar message
	status      string
	statusError bool

	// Narration text from the last search, shown under the grid
	narrationText string

	view   View
	width  int
	height int
}

// NewModel creates the root model
func NewModel(
	library domain.AssetLibrary,
	backend domain.Backend,
	store domain.ReconcileStore,
	ix *indexer.Indexer,
	bridge *search.Bridge,
	watcher *assets.Watcher,
) Model {
	si := textinput.New()
	si.Placeholder = "describe what you're looking for..."
	si.Prompt = "search: "
	si.PromptStyle = styles.FilterPromptStyle
	si.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	grid := components.NewGrid()
	grid.SetFocused(true)

	return Model{
		library:     library,
		backend:     backend,
		store:       store,
		ix:          ix,
		bridge:      bridge,
		watcher:     watcher,
		grid:        grid,
		people:      components.NewPeople(),
		detail:      components.NewDetail(),
		searchInput: si,
		spin:        sp,
	}
}

// Init starts the initial library scan
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spin.Tick,
		LoadPhotosCmd(m.library, false),
	}
	if m.watcher != nil {
		cmds = append(cmds, WatchLibraryCmd(m.watcher))
	}
	return tea.Batch(cmds...)
}

// Update routes messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case PermissionDeniedMsg:
		m.permissionDenied = true
		return m, nil

	case PhotosLoadedMsg:
		return m.handlePhotosLoaded(msg)

	case IndexProgressMsg:
		return m.handleIndexProgress(msg)

	case SearchAppliedMsg:
		m.narrationText = msg.Result.NarrationText
		filter := m.bridge.Filter()
		m.grid.SetRemoteFilter(filter.Allows, filter.Active())
		if msg.Query == "" {
			m.setStatus("search cleared", false)
		} else {
			m.setStatus(fmt.Sprintf("%d photos match %q", m.grid.Count(), msg.Query), false)
		}
		return m, ClearStatusCmd(statusTimeout)

	case SearchFailedMsg:
		// The previous filter stays in place.
		m.setStatus("search failed, showing previous results", true)
		return m, ClearStatusCmd(statusTimeout)

	case ProfilesLoadedMsg:
		m.people.SetProfiles(msg.Profiles, msg.FromCache)
		return m, nil

	case ProfileNamedMsg:
		if msg.Err != nil {
			m.setStatus("rename failed", true)
			return m, ClearStatusCmd(statusTimeout)
		}
		m.people.ApplyName(msg.PersonID, msg.Name)
		m.setStatus(fmt.Sprintf("named person %q", msg.Name), false)
		return m, ClearStatusCmd(statusTimeout)

	case LabelsLoadedMsg:
		m.detail.SetLabels(msg.Labels, msg.Err)
		return m, nil

	case NarrationReadyMsg:
		m.detail.SetNarration(msg.URL, msg.Err)
		return m, nil

	case LibraryChangedMsg:
		m.setStatus("library changed, rescanning", false)
		cmds := []tea.Cmd{LoadPhotosCmd(m.library, true), ClearStatusCmd(statusTimeout)}
		if m.watcher != nil {
			cmds = append(cmds, WatchLibraryCmd(m.watcher))
		}
		return m, tea.Batch(cmds...)

	case StatusMsg:
		m.setStatus(msg.Message, msg.IsError)
		return m, ClearStatusCmd(statusTimeout)

	case ClearStatusMsg:
		m.status = ""
		return m, nil

	case ErrMsg:
		m.setStatus(msg.Error(), true)
		return m, ClearStatusCmd(statusTimeout)
	}

	return m, nil
}

// handlePhotosLoaded installs the fresh collection and kicks off an
// indexing run. The UI shows the photos immediately; it is never
// blocked waiting for network activity.
func (m Model) handlePhotosLoaded(msg PhotosLoadedMsg) (tea.Model, tea.Cmd) {
	photos := msg.Photos

	// Restore photo IDs persisted by earlier sessions so previously
	// indexed photos stay searchable.
	if m.store != nil {
		known := m.store.AllPhotoIDs()
		for i := range photos {
			if id, ok := known[photos[i].AssetID]; ok {
				photos[i].PhotoID = id
			}
		}
	}

	m.photos = photos
	m.permissionDenied = false
	m.emptyLibrary = len(photos) == 0
	m.grid.SetPhotos(m.photos)
	m.updateHeader()

	if m.emptyLibrary {
		return m, nil
	}

	// One run at a time: a rescan while a run is in flight just refreshes
	// the collection. Starting a second run would interleave progress and
	// let its clear race the first run's uploads.
	if m.indexing {
		return m, nil
	}
	m.indexing = true
	m.progress = domain.IndexProgress{Stage: domain.StageIdle}
	return m, StartIndexCmd(m.ix, m.photos)
}

// handleIndexProgress advances the run state and reconciles settled
// uploads into the collection.
func (m Model) handleIndexProgress(msg IndexProgressMsg) (tea.Model, tea.Cmd) {
	if msg.Progress != nil {
		m.progress = *msg.Progress
	}
	if len(msg.Results) > 0 {
		m.reconcile(msg.Results)
	}
	if msg.Done {
		m.indexing = false
		if msg.Err != nil {
			m.setStatus("indexing interrupted", true)
			return m, ClearStatusCmd(statusTimeout)
		}
	}

	var cmd tea.Cmd
	if next, ok := msg.NextCmd.(tea.Cmd); ok {
		cmd = next
	}
	return m, cmd
}

// reconcile records server-assigned photo IDs against local assets.
// A photo ID is set at most once; nothing else about the photo changes.
func (m *Model) reconcile(results []domain.UploadResult) {
	for _, r := range results {
		if !r.OK() {
			continue
		}
		for i := range m.photos {
			if m.photos[i].AssetID == r.AssetID && m.photos[i].PhotoID == "" {
				m.photos[i].PhotoID = r.PhotoID
				break
			}
		}
	}
	m.grid.SetPhotos(m.photos)
	filter := m.bridge.Filter()
	m.grid.SetRemoteFilter(filter.Allows, filter.Active())
	m.updateHeader()
}

// handleKeyMsg routes key presses by view and input focus
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global quit, but never while typing a query or a name.
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.searching {
		switch msg.String() {
		case "esc":
			m.searching = false
			m.searchInput.Blur()
			return m, nil
		case "enter":
			query := m.searchInput.Value()
			m.searching = false
			m.searchInput.Blur()
			return m, SearchCmd(m.bridge, query)
		}
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}

	switch m.view {
	case ViewDetail:
		switch msg.String() {
		case "esc", "q":
			m.view = ViewGrid
			m.grid.SetFocused(true)
			return m, nil
		case "n":
			photo := m.detail.Photo()
			if photo != nil && photo.Indexed() {
				m.detail.SetNarrating()
				return m, NarrateCmd(m.backend, photo.PhotoID)
			}
			return m, nil
		}
		return m, nil

	case ViewPeople:
		if !m.people.IsTyping() {
			switch msg.String() {
			case "esc", "q":
				m.view = ViewGrid
				m.people.SetFocused(false)
				m.grid.SetFocused(true)
				return m, nil
			}
		}
		var rename *components.RenameRequest
		m.people, rename = m.people.Update(msg)
		if rename != nil {
			return m, NamePersonCmd(m.backend, rename.PersonID, rename.Name)
		}
		return m, nil
	}

	// Grid view
	if m.grid.IsFilterTyping() {
		var cmd tea.Cmd
		m.grid, cmd = m.grid.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "/":
		m.grid.ToggleFilter()
		return m, textinput.Blink

	case "s":
		m.searching = true
		m.searchInput.Focus()
		return m, textinput.Blink

	case "p":
		m.view = ViewPeople
		m.grid.SetFocused(false)
		m.people.SetFocused(true)
		return m, LoadProfilesCmd(m.backend, m.store)

	case "enter":
		photo := m.grid.SelectedPhoto()
		if photo == nil {
			return m, nil
		}
		m.view = ViewDetail
		m.grid.SetFocused(false)
		m.detail.SetPhoto(photo)
		if photo.Indexed() {
			return m, LoadLabelsCmd(m.backend, photo.PhotoID)
		}
		return m, nil

	case "m":
		if m.indexing || len(m.photos) == 0 {
			return m, nil
		}
		m.indexing = true
		return m, LoadMoreCmd(m.ix, m.photos)

	case "R":
		return m, LoadPhotosCmd(m.library, true)
	}

	var cmd tea.Cmd
	m.grid, cmd = m.grid.Update(msg)
	return m, cmd
}

func (m *Model) updateHeader() {
	indexed := 0
	for _, p := range m.photos {
		if p.Indexed() {
			indexed++
		}
	}
	m.grid.SetHeader(fmt.Sprintf("Camera roll — %d photos, %d indexed", len(m.photos), indexed))
}

func (m *Model) updateLayout() {
	contentHeight := m.height - 4 // title + footer lines
	if contentHeight < 4 {
		contentHeight = 4
	}
	m.grid.SetSize(m.width, contentHeight)
	m.people.SetSize(m.width, contentHeight)
	m.detail.SetSize(m.width, contentHeight)
}

func (m *Model) setStatus(text string, isError bool) {
	m.status = text
	m.statusError = isError
}

// View renders the full screen
func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	if m.permissionDenied {
		return m.renderNotice(
			styles.ErrorStyle.Render("Photo library access denied"),
			"Grant read access to the library directory and press R to retry.",
		)
	}
	if m.emptyLibrary {
		return m.renderNotice(
			styles.TitleStyle.Render("No photos found"),
			"Add photos to the library directory and press R to rescan.",
		)
	}

	title := styles.TitleStyle.Render(" fotofindr ")

	var body string
	switch m.view {
	case ViewPeople:
		body = m.people.View()
	case ViewDetail:
		body = m.detail.View()
	default:
		body = m.grid.View()
	}

	var footer string
	if m.searching {
		footer = m.searchInput.View()
	} else {
		footer = m.renderFooter()
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, body, footer)
}

// renderFooter shows the indexing stage, any transient status, and keys
func (m Model) renderFooter() string {
	var left string
	switch {
	case m.indexing && m.progress.Stage == domain.StageUploading && m.progress.Total > 0:
		percent := float64(m.progress.Done) / float64(m.progress.Total) * 100
		left = fmt.Sprintf("%s %s %s %d/%d",
			m.spin.View(),
			styles.AccentStyle.Render(m.progress.Stage.String()),
			styles.RenderProgressBar(percent, 20),
			m.progress.Done, m.progress.Total)
	case m.indexing:
		left = fmt.Sprintf("%s %s", m.spin.View(), styles.AccentStyle.Render(m.progress.Stage.String()))
	case m.progress.Stage == domain.StageReady:
		left = styles.SuccessStyle.Render(styles.IndexedChar + " " + m.progress.Stage.String())
	}

	if m.status != "" {
		statusStyle := styles.DimStyle
		if m.statusError {
			statusStyle = styles.ErrorStyle
		}
		if left != "" {
			left += "  "
		}
		left += statusStyle.Render(m.status)
	}

	var lines []string
	if m.narrationText != "" && m.view == ViewGrid {
		lines = append(lines, styles.DimStyle.Render(styles.Truncate(m.narrationText, m.width-2)))
	}
	lines = append(lines, left+"  "+m.renderHelp())
	return strings.Join(lines, "\n")
}

// renderHelp shows the key hints for the active view
func (m Model) renderHelp() string {
	var keys [][2]string
	switch m.view {
	case ViewPeople:
		keys = [][2]string{{"r", "rename"}, {"/", "filter"}, {"esc", "back"}}
	case ViewDetail:
		keys = [][2]string{{"n", "narrate"}, {"esc", "back"}}
	default:
		keys = [][2]string{{"s", "search"}, {"/", "filter"}, {"p", "people"}, {"m", "more"}, {"q", "quit"}}
	}

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = styles.HelpKeyStyle.Render(k[0]) + styles.HelpDescStyle.Render(" "+k[1])
	}
	return strings.Join(parts, styles.HelpDescStyle.Render(" · "))
}

// renderNotice renders a full-screen message for persistent states
func (m Model) renderNotice(title, hint string) string {
	content := title + "\n\n" + styles.DimStyle.Render(hint)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
