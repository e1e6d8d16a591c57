package domain

import (
	"path/filepath"
	"time"
)

// Photo is one local camera-roll asset. AssetID is the stable local
// identifier (library-relative path); PhotoID is the server-assigned
// identifier, empty until the asset has been uploaded.
type Photo struct {
	AssetID  string
	URI      string
	Filename string
	AddedAt  int64 // unix seconds
	PhotoID  string
}

// Indexed reports whether the photo has a server-side record.
func (p Photo) Indexed() bool {
	return p.PhotoID != ""
}

// DisplayName returns the filename, falling back to the URI base.
func (p Photo) DisplayName() string {
	if p.Filename != "" {
		return p.Filename
	}
	return filepath.Base(p.URI)
}

// Age returns how long ago the photo was added.
func (p Photo) Age() time.Duration {
	return time.Since(time.Unix(p.AddedAt, 0))
}

// PhotoMatch is one backend photo record returned by search.
type PhotoMatch struct {
	ID         string  `json:"id"`
	StorageURL string  `json:"storage_url"`
	Caption    string  `json:"caption"`
	Score      float64 `json:"score"`
}

// SearchResult is the backend's answer to a free-text query.
type SearchResult struct {
	Photos        []PhotoMatch `json:"photos"`
	Narration     string       `json:"narration"`
	NarrationText string       `json:"narration_text"`
	Total         int          `json:"total"`
}

// PhotoIDs returns the matched photo identifiers in result order.
func (r SearchResult) PhotoIDs() []string {
	ids := make([]string, 0, len(r.Photos))
	for _, p := range r.Photos {
		ids = append(ids, p.ID)
	}
	return ids
}

// PersonProfile is one face cluster discovered by the backend.
type PersonProfile struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	FaceURL    string `json:"face_url"`
	PhotoCount int    `json:"photo_count"`
}

// DisplayName returns the assigned name or a placeholder.
func (p PersonProfile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return "Unnamed person"
}

// PhotoLabels holds the descriptive labels for one indexed photo.
type PhotoLabels struct {
	PhotoID string   `json:"image_id"`
	Labels  []string `json:"labels"`
}

// ProcessStatus is the backend pipeline's progress counters.
type ProcessStatus struct {
	Processed int `json:"processed"`
	Total     int `json:"total"`
}

// Complete reports whether every uploaded photo has been processed.
// An empty pipeline is not complete; it means nothing was uploaded yet.
func (s ProcessStatus) Complete() bool {
	return s.Total > 0 && s.Processed >= s.Total
}
