package assets

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher notifies when image files appear in or vanish from the
// library root, so the UI can offer a rescan without polling.
type Watcher struct {
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	// Events fires at most once per debounce window.
	Events chan struct{}
}

const debounceWindow = 2 * time.Second

// NewWatcher starts watching the library root. Close releases the
// underlying inotify handle.
func NewWatcher(root string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(root); err != nil {
		fsw.Close()
		return nil, err
	}

	return &Watcher{
		watcher: fsw,
		logger:  logger,
		Events:  make(chan struct{}, 1),
	}, nil
}

// Run pumps debounced change notifications until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isImageEvent(ev) {
				continue
			}
			w.logger.Debug("library change", "op", ev.Op.String(), "path", ev.Name)
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				timerC = timer.C
			} else {
				timer.Reset(debounceWindow)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("library watch error", "error", err)

		case <-timerC:
			timer = nil
			timerC = nil
			select {
			case w.Events <- struct{}{}:
			default:
			}
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func isImageEvent(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	return imageExtensions[strings.ToLower(filepath.Ext(ev.Name))]
}
