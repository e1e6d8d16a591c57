package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/fotofindr/internal/domain"
	"github.com/mmcdole/fotofindr/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testModel() Model {
	m := NewModel(nil, nil, nil, nil, search.NewBridge(nil, nil, 0), nil)
	m.photos = []domain.Photo{
		{AssetID: "a.jpg"},
		{AssetID: "b.jpg", PhotoID: "photo-b"},
		{AssetID: "c.jpg"},
	}
	return m
}

func TestReconcileSetsPhotoIDs(t *testing.T) {
	m := testModel()

	m.reconcile([]domain.UploadResult{
		{AssetID: "a.jpg", PhotoID: "photo-a"},
		{AssetID: "c.jpg", Err: errors.New("upload rejected")},
	})

	assert.Equal(t, "photo-a", m.photos[0].PhotoID)
	assert.Equal(t, "", m.photos[2].PhotoID)
}

func TestReconcileNeverOverwritesPhotoID(t *testing.T) {
	m := testModel()

	m.reconcile([]domain.UploadResult{
		{AssetID: "b.jpg", PhotoID: "photo-b-duplicate"},
	})

	// An asset keeps its first server ID for the life of the collection.
	assert.Equal(t, "photo-b", m.photos[1].PhotoID)
}

func TestReconcileIgnoresUnknownAssets(t *testing.T) {
	m := testModel()

	m.reconcile([]domain.UploadResult{
		{AssetID: "ghost.jpg", PhotoID: "photo-x"},
	})

	for _, p := range m.photos {
		assert.NotEqual(t, "photo-x", p.PhotoID)
	}
}

func TestIndexProgressDispatchesContinuation(t *testing.T) {
	m := testModel()

	called := false
	next := tea.Cmd(func() tea.Msg {
		called = true
		return nil
	})

	updated, cmd := m.handleIndexProgress(IndexProgressMsg{
		Progress: &domain.IndexProgress{Stage: domain.StageUploading, Done: 3, Total: 7},
		NextCmd:  next,
	})
	require.NotNil(t, cmd)
	cmd()
	assert.True(t, called)

	model := updated.(Model)
	assert.Equal(t, domain.StageUploading, model.progress.Stage)
	assert.Equal(t, 3, model.progress.Done)
}

func TestPhotosLoadedStartsSingleRun(t *testing.T) {
	m := testModel()

	updated, cmd := m.handlePhotosLoaded(PhotosLoadedMsg{
		Photos: []domain.Photo{{AssetID: "a.jpg"}},
	})
	require.NotNil(t, cmd)

	model := updated.(Model)
	require.True(t, model.indexing)

	// A rescan landing mid-run refreshes the collection but must not
	// launch a second concurrent run.
	updated, cmd = model.handlePhotosLoaded(PhotosLoadedMsg{
		Photos: []domain.Photo{{AssetID: "a.jpg"}, {AssetID: "b.jpg"}},
		Rescan: true,
	})
	assert.Nil(t, cmd)

	model = updated.(Model)
	assert.Len(t, model.photos, 2)
	assert.True(t, model.indexing)
}

func TestIndexProgressDoneClearsIndexing(t *testing.T) {
	m := testModel()
	m.indexing = true

	updated, _ := m.handleIndexProgress(IndexProgressMsg{Done: true})

	model := updated.(Model)
	assert.False(t, model.indexing)
}
