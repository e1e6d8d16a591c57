package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrPermissionDenied indicates the photo library cannot be read.
	// This is the only error that halts an indexing run.
	ErrPermissionDenied = errors.New("photo library access denied")

	// ErrBackendOffline indicates the AI backend is unreachable
	ErrBackendOffline = errors.New("backend is unreachable")

	// ErrPhotoNotFound indicates the requested photo does not exist
	ErrPhotoNotFound = errors.New("photo not found")

	// ErrEmptyLibrary indicates the photo library contains no images
	ErrEmptyLibrary = errors.New("photo library is empty")
)
