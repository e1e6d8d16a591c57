package indexer

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/mmcdole/fotofindr/internal/domain"
)

// Options tunes an indexing run. Zero values fall back to the
// defaults.
type Options struct {
	IndexLimit     int           // newest assets selected per run
	BatchSize      int           // concurrent uploads per batch
	UploadTimeout  time.Duration // per-asset upload deadline
	ResolveTimeout time.Duration // asset file resolution deadline
	PollInterval   time.Duration // status poll cadence
	PollDeadline   time.Duration // give up waiting for processing
}

// DefaultOptions returns the standard tuning: 30 newest assets,
// batches of 3, 8s upload timeout, 3s resolve timeout, 3s polls for up
// to 2 minutes.
func DefaultOptions() Options {
	return Options{
		IndexLimit:     30,
		BatchSize:      3,
		UploadTimeout:  8 * time.Second,
		ResolveTimeout: 3 * time.Second,
		PollInterval:   3 * time.Second,
		PollDeadline:   2 * time.Minute,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.IndexLimit <= 0 {
		o.IndexLimit = def.IndexLimit
	}
	if o.BatchSize <= 0 {
		o.BatchSize = def.BatchSize
	}
	if o.UploadTimeout <= 0 {
		o.UploadTimeout = def.UploadTimeout
	}
	if o.ResolveTimeout <= 0 {
		o.ResolveTimeout = def.ResolveTimeout
	}
	if o.PollInterval <= 0 {
		o.PollInterval = def.PollInterval
	}
	if o.PollDeadline <= 0 {
		o.PollDeadline = def.PollDeadline
	}
	return o
}

// Coordinator uploads assets in fixed-size batches. Within a batch all
// uploads run concurrently; batches run strictly sequentially, so peak
// network and file-handle usage stays bounded.
type Coordinator struct {
	uploader domain.Uploader
	store    domain.ReconcileStore
	logger   *slog.Logger
	opts     Options
}

// NewCoordinator creates an upload coordinator. store may be nil when
// reconciliation persistence is not wanted (tests).
func NewCoordinator(uploader domain.Uploader, store domain.ReconcileStore, logger *slog.Logger, opts Options) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		uploader: uploader,
		store:    store,
		logger:   logger,
		opts:     opts.withDefaults(),
	}
}

// UploadBatch uploads every photo in the batch concurrently and waits
// for all of them to settle. One result is returned per input photo;
// a failed upload is a result carrying Err, never a panic or an early
// return, because one bad asset must not block the batch.
func (c *Coordinator) UploadBatch(ctx context.Context, photos []domain.Photo) []domain.UploadResult {
	results := make([]domain.UploadResult, len(photos))

	var wg sync.WaitGroup
	for i, photo := range photos {
		wg.Add(1)
		go func(i int, photo domain.Photo) {
			defer wg.Done()
			results[i] = c.uploadOne(ctx, photo)
		}(i, photo)
	}
	wg.Wait()

	for _, r := range results {
		if !r.OK() {
			c.logger.Warn("upload failed", "assetID", r.AssetID, "error", r.Err)
			continue
		}
		if c.store != nil {
			if err := c.store.SavePhotoID(r.AssetID, r.PhotoID); err != nil {
				c.logger.Error("failed to persist photo id", "assetID", r.AssetID, "error", err)
			}
		}
	}

	return results
}

// uploadOne resolves the asset's file and uploads it under the
// per-asset deadline.
func (c *Coordinator) uploadOne(ctx context.Context, photo domain.Photo) domain.UploadResult {
	photo.URI = c.resolveFile(ctx, photo.URI)

	uctx, cancel := context.WithTimeout(ctx, c.opts.UploadTimeout)
	defer cancel()

	photoID, err := c.uploader.Upload(uctx, photo)
	if err != nil {
		return domain.UploadResult{AssetID: photo.AssetID, Err: err}
	}
	return domain.UploadResult{AssetID: photo.AssetID, PhotoID: photoID}
}

// resolveFile translates the asset reference to a plain file path.
// Library entries can be symlinks into slow or detached volumes, so the
// resolution is time-boxed; on timeout or failure the original URI is
// used as-is rather than failing the upload for this reason alone.
func (c *Coordinator) resolveFile(ctx context.Context, uri string) string {
	rctx, cancel := context.WithTimeout(ctx, c.opts.ResolveTimeout)
	defer cancel()

	type resolved struct {
		path string
		err  error
	}
	ch := make(chan resolved, 1)
	go func() {
		path, err := filepath.EvalSymlinks(uri)
		ch <- resolved{path, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			c.logger.Debug("asset resolution failed, using original uri", "uri", uri, "error", r.err)
			return uri
		}
		return r.path
	case <-rctx.Done():
		c.logger.Debug("asset resolution timed out, using original uri", "uri", uri)
		return uri
	}
}
