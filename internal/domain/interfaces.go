package domain

import "context"

// Uploader pushes one asset's bytes and metadata to the backend.
// Implemented by the api client; faked in indexer tests.
type Uploader interface {
	// Upload submits the photo as multipart form data and returns the
	// server-assigned photo identifier.
	Upload(ctx context.Context, photo Photo) (string, error)
}

// Maintainer covers the best-effort indexing-run calls. None of these
// failing should ever halt a run.
type Maintainer interface {
	// Clear wipes prior indexed state for the configured user.
	Clear(ctx context.Context) error
	// Reprocess triggers the backend AI pipeline over uploaded photos.
	Reprocess(ctx context.Context) error
	// Status returns the backend pipeline's processed/total counters.
	Status(ctx context.Context) (ProcessStatus, error)
}

// Searcher resolves a free-text query to matched photo records.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) (SearchResult, error)
}

// ProfileRepository lists face clusters and assigns display names.
type ProfileRepository interface {
	Profiles(ctx context.Context) ([]PersonProfile, error)
	NamePerson(ctx context.Context, personID, name string) error
}

// DetailRepository provides per-photo detail data for the detail view.
type DetailRepository interface {
	// ImageLabels returns descriptive labels for one indexed photo.
	ImageLabels(ctx context.Context, photoID string) (PhotoLabels, error)
	// Narrate returns a narration audio URL for one indexed photo.
	Narrate(ctx context.Context, photoID string) (string, error)
}

// Backend combines everything the client needs from the AI backend.
type Backend interface {
	Uploader
	Maintainer
	Searcher
	ProfileRepository
	DetailRepository
}

// AssetLibrary wraps the device photo library. Photos are returned
// newest-first with stable asset identifiers.
type AssetLibrary interface {
	ListPhotos(ctx context.Context) ([]Photo, error)
}

// ReconcileStore persists the assetID -> photoID mapping so photos
// indexed in a previous session stay searchable.
type ReconcileStore interface {
	SavePhotoID(assetID, photoID string) error
	GetPhotoID(assetID string) (string, bool)
	AllPhotoIDs() map[string]string
	SaveProfiles(profiles []PersonProfile) error
	GetProfiles() ([]PersonProfile, bool)
	Close() error
}
