package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhotoIndexed(t *testing.T) {
	assert.False(t, Photo{AssetID: "a.jpg"}.Indexed())
	assert.True(t, Photo{AssetID: "a.jpg", PhotoID: "p1"}.Indexed())
}

func TestPhotoDisplayName(t *testing.T) {
	assert.Equal(t, "beach.jpg", Photo{Filename: "beach.jpg"}.DisplayName())
	assert.Equal(t, "beach.jpg", Photo{URI: "/photos/2024/beach.jpg"}.DisplayName())
}

func TestSearchResultPhotoIDs(t *testing.T) {
	r := SearchResult{Photos: []PhotoMatch{
		{ID: "p1"}, {ID: "p2"}, {ID: "p3"},
	}}
	assert.Equal(t, []string{"p1", "p2", "p3"}, r.PhotoIDs())
	assert.Empty(t, SearchResult{}.PhotoIDs())
}

func TestPersonProfileDisplayName(t *testing.T) {
	assert.Equal(t, "Alice", PersonProfile{ID: "c1", Name: "Alice"}.DisplayName())
	assert.Equal(t, "Unnamed person", PersonProfile{ID: "c1"}.DisplayName())
}

func TestProcessStatusComplete(t *testing.T) {
	assert.True(t, ProcessStatus{Processed: 5, Total: 5}.Complete())
	assert.False(t, ProcessStatus{Processed: 3, Total: 5}.Complete())

	// Zero total means nothing was uploaded, not a finished pipeline.
	assert.False(t, ProcessStatus{}.Complete())
}
