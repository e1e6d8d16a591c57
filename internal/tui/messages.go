package tui

import (
	"github.com/mmcdole/fotofindr/internal/domain"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// PhotosLoadedMsg signals that the photo library has been scanned
type PhotosLoadedMsg struct {
	Photos []domain.Photo
	Rescan bool // true when triggered by a filesystem change
}

// PermissionDeniedMsg signals the library cannot be read; indexing is
// short-circuited and a persistent message is shown instead.
type PermissionDeniedMsg struct{}

// IndexProgressMsg is sent for each progress update or settled batch
// during an indexing run. NextCmd carries the continuation command that
// reads the next event from the run's channel.
type IndexProgressMsg struct {
	Progress     *domain.IndexProgress // nil when only results are carried
	Results      []domain.UploadResult // settled uploads to reconcile, may be nil
	Done         bool
	Err          error
	NextCmd      interface{} // continuation command (tea.Cmd)
	FromLoadMore bool
}

// SearchAppliedMsg signals that a search completed and the filter was
// replaced (or cleared, for an empty query).
type SearchAppliedMsg struct {
	Query  string
	Result domain.SearchResult
}

// SearchFailedMsg signals a failed search; the previous filter is kept.
type SearchFailedMsg struct {
	Query string
	Err   error
}

// ProfilesLoadedMsg signals that people profiles are available
type ProfilesLoadedMsg struct {
	Profiles  []domain.PersonProfile
	FromCache bool
}

// ProfileNamedMsg signals that a person cluster was renamed
type ProfileNamedMsg struct {
	PersonID string
	Name     string
	Err      error
}

// LabelsLoadedMsg signals that a photo's labels arrived
type LabelsLoadedMsg struct {
	Labels domain.PhotoLabels
	Err    error
}

// NarrationReadyMsg signals that a narration URL was fetched
type NarrationReadyMsg struct {
	PhotoID string
	URL     string
	Err     error
}

// LibraryChangedMsg signals that files changed under the library root
type LibraryChangedMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// TickMsg is a general tick message for animations
type TickMsg struct{}
