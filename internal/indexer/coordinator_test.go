package indexer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mmcdole/fotofindr/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu  sync.Mutex
	ids map[string]string
}

func newMemStore() *memStore {
	return &memStore{ids: make(map[string]string)}
}

func (m *memStore) SavePhotoID(assetID, photoID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids[assetID] = photoID
	return nil
}

func (m *memStore) GetPhotoID(assetID string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.ids[assetID]
	return id, ok
}

func (m *memStore) AllPhotoIDs() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.ids))
	for k, v := range m.ids {
		out[k] = v
	}
	return out
}

func (m *memStore) SaveProfiles(profiles []domain.PersonProfile) error { return nil }
func (m *memStore) GetProfiles() ([]domain.PersonProfile, bool)        { return nil, false }
func (m *memStore) Close() error                                       { return nil }

func TestUploadBatchOneResultPerPhoto(t *testing.T) {
	uploader := &fakeUploader{}
	coord := NewCoordinator(uploader, nil, nil, fastOptions())

	photos := testPhotos(3)
	results := coord.UploadBatch(context.Background(), photos)

	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, photos[i].AssetID, r.AssetID)
		assert.True(t, r.OK())
	}
}

func TestUploadBatchFailureIsIsolated(t *testing.T) {
	uploader := &fakeUploader{failFor: map[string]bool{"asset-0": true}}
	coord := NewCoordinator(uploader, nil, nil, fastOptions())

	results := coord.UploadBatch(context.Background(), testPhotos(3))

	require.Len(t, results, 3)
	assert.False(t, results[0].OK())
	assert.Error(t, results[0].Err)
	assert.True(t, results[1].OK())
	assert.True(t, results[2].OK())
}

func TestUploadBatchPersistsSuccesses(t *testing.T) {
	uploader := &fakeUploader{failFor: map[string]bool{"asset-1": true}}
	store := newMemStore()
	coord := NewCoordinator(uploader, store, nil, fastOptions())

	coord.UploadBatch(context.Background(), testPhotos(3))

	ids := store.AllPhotoIDs()
	assert.Len(t, ids, 2)
	_, failed := ids["asset-1"]
	assert.False(t, failed)
}

func TestUploadBatchEmpty(t *testing.T) {
	uploader := &fakeUploader{}
	coord := NewCoordinator(uploader, nil, nil, fastOptions())

	results := coord.UploadBatch(context.Background(), nil)
	assert.Empty(t, results)
}

// slowUploader blocks until its context is done, to exercise the
// per-asset deadline.
type slowUploader struct{}

func (slowUploader) Upload(ctx context.Context, photo domain.Photo) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestUploadBatchHonorsUploadTimeout(t *testing.T) {
	opts := fastOptions()
	opts.UploadTimeout = 20 * time.Millisecond

	coord := NewCoordinator(slowUploader{}, nil, nil, opts)

	start := time.Now()
	results := coord.UploadBatch(context.Background(), testPhotos(1))
	elapsed := time.Since(start)

	require.Len(t, results, 1)
	assert.False(t, results[0].OK())
	assert.True(t, errors.Is(results[0].Err, context.DeadlineExceeded))
	assert.Less(t, elapsed, time.Second)
}

func TestOptionsWithDefaults(t *testing.T) {
	opts := Options{BatchSize: 5}.withDefaults()

	assert.Equal(t, 5, opts.BatchSize)
	assert.Equal(t, 30, opts.IndexLimit)
	assert.Equal(t, 8*time.Second, opts.UploadTimeout)
	assert.Equal(t, 3*time.Second, opts.ResolveTimeout)
	assert.Equal(t, 3*time.Second, opts.PollInterval)
	assert.Equal(t, 2*time.Minute, opts.PollDeadline)
}
