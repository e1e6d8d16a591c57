package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/fotofindr/internal/assets"
	"github.com/mmcdole/fotofindr/internal/domain"
	"github.com/mmcdole/fotofindr/internal/indexer"
	"github.com/mmcdole/fotofindr/internal/search"
)

// Command factories for async operations

// LoadPhotosCmd scans the photo library
func LoadPhotosCmd(lib domain.AssetLibrary, rescan bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		photos, err := lib.ListPhotos(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrPermissionDenied) {
				return PermissionDeniedMsg{}
			}
			return ErrMsg{Err: err, Context: "scanning photo library"}
		}
		return PhotosLoadedMsg{Photos: photos, Rescan: rescan}
	}
}

// indexEvent is one progress or result update pumped out of a running
// indexing pass.
type indexEvent struct {
	progress *domain.IndexProgress
	results  []domain.UploadResult
	err      error
	done     bool
}

// StartIndexCmd kicks off a full indexing run and streams its progress
// to the UI using a continuation pattern: each message carries the
// command that reads the next event, so the single-threaded update loop
// observes every stage change and settled batch in order.
func StartIndexCmd(ix *indexer.Indexer, photos []domain.Photo) tea.Cmd {
	return runIndexCmd(photos, false, ix.Run)
}

// LoadMoreCmd runs the reduced pipeline over the next page of
// not-yet-indexed assets.
func LoadMoreCmd(ix *indexer.Indexer, photos []domain.Photo) tea.Cmd {
	return runIndexCmd(photos, true, ix.LoadMore)
}

type indexFunc func(ctx context.Context, photos []domain.Photo, onProgress domain.ProgressFunc, onResult domain.ResultFunc) (domain.IndexProgress, error)

func runIndexCmd(photos []domain.Photo, fromLoadMore bool, run indexFunc) tea.Cmd {
	return func() tea.Msg {
		// Generous ceiling: upload batches plus the 2 minute poll window.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)

		ch := make(chan indexEvent)

		go func() {
			defer cancel()
			defer close(ch)
			_, err := run(ctx, photos,
				func(p domain.IndexProgress) {
					ch <- indexEvent{progress: &p}
				},
				func(results []domain.UploadResult) {
					ch <- indexEvent{results: results}
				},
			)
			ch <- indexEvent{done: true, err: err}
		}()

		return readIndexEvent(ch, fromLoadMore)
	}
}

// readIndexEvent reads one event from the channel and wraps it in an
// IndexProgressMsg with the continuation command embedded.
func readIndexEvent(ch <-chan indexEvent, fromLoadMore bool) tea.Msg {
	ev, ok := <-ch
	if !ok {
		return IndexProgressMsg{Done: true, FromLoadMore: fromLoadMore}
	}

	msg := IndexProgressMsg{
		Progress:     ev.progress,
		Results:      ev.results,
		Done:         ev.done,
		Err:          ev.err,
		FromLoadMore: fromLoadMore,
	}

	if !ev.done {
		msg.NextCmd = listenIndexCmd(ch, fromLoadMore)
	}

	return msg
}

// listenIndexCmd returns a command that reads the next indexing event
func listenIndexCmd(ch <-chan indexEvent, fromLoadMore bool) tea.Cmd {
	return func() tea.Msg {
		return readIndexEvent(ch, fromLoadMore)
	}
}

// SearchCmd submits a free-text query through the bridge
func SearchCmd(bridge *search.Bridge, query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		result, err := bridge.Search(ctx, query)
		if err != nil {
			return SearchFailedMsg{Query: query, Err: err}
		}
		return SearchAppliedMsg{Query: query, Result: result}
	}
}

// LoadProfilesCmd fetches people profiles, falling back to the cached
// copy when the backend is unreachable.
func LoadProfilesCmd(backend domain.ProfileRepository, store domain.ReconcileStore) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		profiles, err := backend.Profiles(ctx)
		if err != nil {
			if store != nil {
				if cached, ok := store.GetProfiles(); ok {
					return ProfilesLoadedMsg{Profiles: cached, FromCache: true}
				}
			}
			return ErrMsg{Err: err, Context: "loading people"}
		}

		if store != nil {
			// Cache refresh is best-effort.
			_ = store.SaveProfiles(profiles)
		}
		return ProfilesLoadedMsg{Profiles: profiles}
	}
}

// NamePersonCmd assigns a display name to a person cluster
func NamePersonCmd(backend domain.ProfileRepository, personID, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		err := backend.NamePerson(ctx, personID, name)
		return ProfileNamedMsg{PersonID: personID, Name: name, Err: err}
	}
}

// LoadLabelsCmd fetches descriptive labels for one indexed photo
func LoadLabelsCmd(backend domain.DetailRepository, photoID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		labels, err := backend.ImageLabels(ctx, photoID)
		return LabelsLoadedMsg{Labels: labels, Err: err}
	}
}

// NarrateCmd fetches a narration audio URL for one indexed photo
func NarrateCmd(backend domain.DetailRepository, photoID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		url, err := backend.Narrate(ctx, photoID)
		return NarrationReadyMsg{PhotoID: photoID, URL: url, Err: err}
	}
}

// WatchLibraryCmd waits for the next debounced filesystem change
func WatchLibraryCmd(w *assets.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Events
		return LibraryChangedMsg{}
	}
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
