package search

// Filter is the set of photo identifiers currently constraining the
// visible grid. An empty filter shows everything. The set is only ever
// replaced wholesale, never merged, so two submissions of the same
// query always yield the same visible set.
type Filter struct {
	ids map[string]struct{}
}

// NewFilter returns an empty (inactive) filter.
func NewFilter() *Filter {
	return &Filter{}
}

// Active reports whether the filter constrains the grid.
func (f *Filter) Active() bool {
	return len(f.ids) > 0
}

// Len returns the number of identifiers in the set.
func (f *Filter) Len() int {
	return len(f.ids)
}

// Replace swaps the whole set for the given identifiers.
func (f *Filter) Replace(photoIDs []string) {
	ids := make(map[string]struct{}, len(photoIDs))
	for _, id := range photoIDs {
		if id == "" {
			continue
		}
		ids[id] = struct{}{}
	}
	f.ids = ids
}

// Clear resets the filter to "show all".
func (f *Filter) Clear() {
	f.ids = nil
}

// Allows reports whether a photo with the given server identifier
// passes the filter. Photos that were never uploaded have an empty
// photoID and never pass an active filter.
func (f *Filter) Allows(photoID string) bool {
	if !f.Active() {
		return true
	}
	if photoID == "" {
		return false
	}
	_, ok := f.ids[photoID]
	return ok
}
