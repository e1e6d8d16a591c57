package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mmcdole/fotofindr/internal/domain"
)

// Bridge translates free-text queries into the photo-ID filter applied
// to the grid. A failed search leaves the previous filter untouched, so
// the view never loses a working filter to a transient network error.
type Bridge struct {
	backend domain.Searcher
	logger  *slog.Logger
	limit   int

	filter *Filter
	last   domain.SearchResult
}

// NewBridge creates a search bridge. limit caps results per query; a
// non-positive limit lets the backend decide.
func NewBridge(backend domain.Searcher, logger *slog.Logger, limit int) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{
		backend: backend,
		logger:  logger,
		limit:   limit,
		filter:  NewFilter(),
	}
}

// Filter exposes the current filter for the grid's membership checks.
func (b *Bridge) Filter() *Filter {
	return b.filter
}

// LastResult returns the most recent successful search result, for
// narration text display.
func (b *Bridge) LastResult() domain.SearchResult {
	return b.last
}

// Search submits the query and replaces the filter wholesale with the
// matched photo IDs. A trimmed-empty query clears the filter without a
// network call. On error the previous filter is preserved and the error
// is returned for logging only.
func (b *Bridge) Search(ctx context.Context, query string) (domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		b.filter.Clear()
		b.last = domain.SearchResult{}
		b.logger.Debug("empty query, filter cleared")
		return domain.SearchResult{}, nil
	}

	result, err := b.backend.Search(ctx, query, b.limit)
	if err != nil {
		b.logger.Error("search failed, keeping previous filter", "query", query, "error", err)
		return domain.SearchResult{}, err
	}

	b.filter.Replace(result.PhotoIDs())
	b.last = result
	b.logger.Debug("search applied", "query", query, "matches", b.filter.Len())
	return result, nil
}
