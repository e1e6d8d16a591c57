package domain

// IndexStage is the single current stage of an indexing run. Stages
// advance strictly forward; the only way back to StageIdle is a full
// reset at the start of the next run.
type IndexStage int

const (
	StageIdle IndexStage = iota
	StageClearing
	StageUploading
	StageProcessing
	StageReady
)

// String returns a human-readable stage label for the status bar.
func (s IndexStage) String() string {
	switch s {
	case StageIdle:
		return "Idle"
	case StageClearing:
		return "Clearing"
	case StageUploading:
		return "Uploading"
	case StageProcessing:
		return "Processing"
	case StageReady:
		return "Ready"
	default:
		return "Unknown"
	}
}

// IndexProgress is the ephemeral session state for one indexing run.
// Done counts assets whose upload attempt has settled, success or
// failure, and never exceeds Total.
type IndexProgress struct {
	Stage IndexStage
	Done  int
	Total int
}

// ApplyBatch returns the progress after a batch of the given size has
// settled. It is a pure function so the accounting can be tested apart
// from any network code. Done is capped at Total and never decreases.
func ApplyBatch(p IndexProgress, settled int) IndexProgress {
	if settled < 0 {
		settled = 0
	}
	p.Done += settled
	if p.Done > p.Total {
		p.Done = p.Total
	}
	return p
}

// ProgressFunc reports indexing progress to the UI. Called after every
// stage transition and after each settled batch.
type ProgressFunc func(p IndexProgress)

// UploadResult is the explicit outcome of one upload attempt. A failed
// attempt carries Err and an empty PhotoID; callers decide whether to
// ignore the failure, rather than the coordinator swallowing it.
type UploadResult struct {
	AssetID string
	PhotoID string
	Err     error
}

// OK reports whether the upload produced a server-side record.
func (r UploadResult) OK() bool {
	return r.Err == nil && r.PhotoID != ""
}

// ResultFunc delivers settled upload results so the UI can reconcile
// server-assigned photo IDs into the local collection.
type ResultFunc func(results []UploadResult)
