package assets

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mmcdole/fotofindr/internal/domain"
)

// imageExtensions are the file types treated as camera-roll photos.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".heic": true,
}

// DirLibrary implements domain.AssetLibrary over a photo directory.
// The asset identifier is the path relative to the library root, which
// stays stable across rescans as long as the file is not moved.
type DirLibrary struct {
	root   string
	logger *slog.Logger
}

// NewDirLibrary creates a library rooted at the given directory.
func NewDirLibrary(root string, logger *slog.Logger) *DirLibrary {
	if logger == nil {
		logger = slog.Default()
	}
	return &DirLibrary{root: root, logger: logger}
}

// Root returns the library root directory.
func (l *DirLibrary) Root() string {
	return l.root
}

// ListPhotos enumerates the library newest-first. An unreadable root
// maps to domain.ErrPermissionDenied, which is the one hard stop for an
// indexing run.
func (l *DirLibrary) ListPhotos(ctx context.Context) ([]domain.Photo, error) {
	if _, err := os.ReadDir(l.root); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, domain.ErrPermissionDenied
		}
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrPermissionDenied
		}
		return nil, err
	}

	var photos []domain.Photo
	err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Skip unreadable subtrees rather than failing the scan.
			l.logger.Warn("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != l.root {
				return fs.SkipDir
			}
			return nil
		}
		if !imageExtensions[strings.ToLower(filepath.Ext(d.Name()))] {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(l.root, path)
		if err != nil {
			return nil
		}

		photos = append(photos, domain.Photo{
			AssetID:  filepath.ToSlash(rel),
			URI:      path,
			Filename: d.Name(),
			AddedAt:  info.ModTime().Unix(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Newest first; asset id as tiebreaker so ordering is deterministic.
	sort.Slice(photos, func(i, j int) bool {
		if photos[i].AddedAt != photos[j].AddedAt {
			return photos[i].AddedAt > photos[j].AddedAt
		}
		return photos[i].AssetID < photos[j].AssetID
	})

	l.logger.Debug("scanned photo library", "root", l.root, "count", len(photos))
	return photos, nil
}
