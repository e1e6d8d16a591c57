package indexer

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmcdole/fotofindr/internal/domain"
)

// maintenanceTimeout bounds the best-effort clear/reprocess/status
// calls, independently of the run as a whole.
const maintenanceTimeout = 10 * time.Second

// Indexer drives the end-to-end onboarding sequence for a set of local
// photos: clear prior remote state, upload in batches, trigger remote
// reprocessing, and poll until the backend reports completion.
//
// Every remote call in the sequence is best-effort: a failure is logged
// and the run keeps moving forward. The stage only ever advances
//
//	idle -> clearing -> uploading -> processing -> ready
//
// and the only way back is the reset at the start of the next run.
type Indexer struct {
	coord  *Coordinator
	maint  domain.Maintainer
	logger *slog.Logger
	opts   Options
}

// New creates an indexer.
func New(uploader domain.Uploader, maint domain.Maintainer, store domain.ReconcileStore, logger *slog.Logger, opts Options) *Indexer {
	if logger == nil {
		logger = slog.Default()
	}
	opts = opts.withDefaults()
	return &Indexer{
		coord:  NewCoordinator(uploader, store, logger, opts),
		maint:  maint,
		logger: logger,
		opts:   opts,
	}
}

// Run executes one full indexing run over the given photo collection.
// Progress is reported through onProgress after every stage change and
// settled batch; settled upload results flow through onResult so the
// caller can reconcile server-assigned photo IDs. The returned error is
// non-nil only when ctx is cancelled; remote failures never abort the
// run.
func (ix *Indexer) Run(ctx context.Context, photos []domain.Photo, onProgress domain.ProgressFunc, onResult domain.ResultFunc) (domain.IndexProgress, error) {
	progress := domain.IndexProgress{Stage: domain.StageIdle}
	emit(onProgress, progress)

	// Clearing: best-effort wipe of prior remote state, to avoid
	// duplicate remote records when nothing ties local assets to them.
	// Once any photo carries a restored photo ID the remote records are
	// live state: wiping them would leave those IDs dangling and the
	// photos unsearchable, so the wipe is skipped on warm resumes.
	progress.Stage = domain.StageClearing
	emit(onProgress, progress)
	if indexedCount(photos) == 0 {
		ix.clear(ctx)
	} else {
		ix.logger.Info("skipping remote clear, keeping existing records", "indexed", indexedCount(photos))
	}

	if err := ctx.Err(); err != nil {
		return progress, err
	}

	// Uploading: newest not-yet-indexed assets, capped at the index limit.
	pending := ix.selectPending(photos)
	progress.Stage = domain.StageUploading
	progress.Done = 0
	progress.Total = len(pending)
	emit(onProgress, progress)

	var err error
	progress, err = ix.uploadAll(ctx, pending, progress, onProgress, onResult)
	if err != nil {
		return progress, err
	}

	// Processing: trigger the remote pipeline and wait for it, bounded
	// by the poll deadline. A timeout here is a logged condition, not a
	// failure; the run still reaches ready.
	progress.Stage = domain.StageProcessing
	emit(onProgress, progress)
	ix.reprocess(ctx)
	if err := ix.waitForProcessing(ctx); err != nil {
		return progress, err
	}

	progress.Stage = domain.StageReady
	emit(onProgress, progress)
	ix.logger.Info("indexing run complete", "uploaded", progress.Done, "total", progress.Total)
	return progress, nil
}

// LoadMore runs the reduced pipeline for newly paged-in assets: no
// clearing, no status polling, just upload batches plus a reprocess
// trigger. Done/Total stay consistent for the assets it uploads.
func (ix *Indexer) LoadMore(ctx context.Context, photos []domain.Photo, onProgress domain.ProgressFunc, onResult domain.ResultFunc) (domain.IndexProgress, error) {
	pending := ix.selectPending(photos)
	progress := domain.IndexProgress{
		Stage: domain.StageUploading,
		Total: len(pending),
	}
	emit(onProgress, progress)

	progress, err := ix.uploadAll(ctx, pending, progress, onProgress, onResult)
	if err != nil {
		return progress, err
	}

	progress.Stage = domain.StageProcessing
	emit(onProgress, progress)
	ix.reprocess(ctx)

	progress.Stage = domain.StageReady
	emit(onProgress, progress)
	ix.logger.Info("load-more pass complete", "uploaded", progress.Done)
	return progress, nil
}

// indexedCount reports how many photos already hold a server record.
func indexedCount(photos []domain.Photo) int {
	n := 0
	for _, p := range photos {
		if p.Indexed() {
			n++
		}
	}
	return n
}

// selectPending picks the newest assets without a photo ID, capped at
// the index limit. Input is already newest-first from the asset source.
func (ix *Indexer) selectPending(photos []domain.Photo) []domain.Photo {
	pending := make([]domain.Photo, 0, ix.opts.IndexLimit)
	for _, p := range photos {
		if p.Indexed() {
			continue
		}
		pending = append(pending, p)
		if len(pending) >= ix.opts.IndexLimit {
			break
		}
	}
	return pending
}

// uploadAll drives sequential batches through the coordinator. Batch
// N+1 does not start until batch N has fully settled, and Done advances
// by the settled batch size whether or not individual uploads succeed.
func (ix *Indexer) uploadAll(ctx context.Context, pending []domain.Photo, progress domain.IndexProgress, onProgress domain.ProgressFunc, onResult domain.ResultFunc) (domain.IndexProgress, error) {
	for start := 0; start < len(pending); start += ix.opts.BatchSize {
		if err := ctx.Err(); err != nil {
			return progress, err
		}

		end := start + ix.opts.BatchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[start:end]

		results := ix.coord.UploadBatch(ctx, batch)

		progress = domain.ApplyBatch(progress, len(batch))
		emit(onProgress, progress)
		if onResult != nil {
			onResult(results)
		}
	}
	return progress, nil
}

func (ix *Indexer) clear(ctx context.Context) {
	cctx, cancel := context.WithTimeout(ctx, maintenanceTimeout)
	defer cancel()
	if err := ix.maint.Clear(cctx); err != nil {
		ix.logger.Warn("clear failed, continuing", "error", err)
	}
}

func (ix *Indexer) reprocess(ctx context.Context) {
	rctx, cancel := context.WithTimeout(ctx, maintenanceTimeout)
	defer cancel()
	if err := ix.maint.Reprocess(rctx); err != nil {
		ix.logger.Warn("reprocess trigger failed, continuing", "error", err)
	}
}

// waitForProcessing polls the status endpoint at the configured
// interval until the backend reports completion or the deadline
// elapses. The deadline advances the run rather than failing it, so a
// stalled pipeline can never wedge the client in processing.
func (ix *Indexer) waitForProcessing(ctx context.Context) error {
	deadline := time.NewTimer(ix.opts.PollDeadline)
	defer deadline.Stop()
	ticker := time.NewTicker(ix.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-deadline.C:
			ix.logger.Warn("processing wait deadline reached, continuing", "deadline", ix.opts.PollDeadline)
			return nil

		case <-ticker.C:
			sctx, cancel := context.WithTimeout(ctx, maintenanceTimeout)
			status, err := ix.maint.Status(sctx)
			cancel()
			if err != nil {
				ix.logger.Debug("status poll failed", "error", err)
				continue
			}
			ix.logger.Debug("status poll", "processed", status.Processed, "total", status.Total)
			if status.Complete() {
				return nil
			}
		}
	}
}

func emit(fn domain.ProgressFunc, p domain.IndexProgress) {
	if fn != nil {
		fn(p)
	}
}
