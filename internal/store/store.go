package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mmcdole/fotofindr/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketPhotos   = []byte("photos")   // assetID -> photoID
	bucketProfiles = []byte("profiles") // "all" -> []PersonProfile
)

var profilesKey = []byte("all")

// PhotoStore persists the assetID -> photoID reconciliation map and a
// cache of people profiles using BoltDB. With an empty cache dir it
// degrades to memory-only mode (no persistence).
type PhotoStore struct {
	db *bolt.DB
	mu sync.RWMutex

	// In-memory view of the photos bucket, kept in sync on writes so
	// filter predicates never touch disk.
	photoIDs map[string]string
	profiles []domain.PersonProfile
}

// NewPhotoStore opens (or creates) the store under the cache dir.
func NewPhotoStore(cacheDir string) (*PhotoStore, error) {
	s := &PhotoStore{photoIDs: make(map[string]string)}

	if cacheDir == "" {
		// Memory-only mode (no persistence)
		return s, nil
	}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(cacheDir, "fotofindr.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketPhotos, bucketProfiles} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s.db = db
	if err := s.warm(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// warm loads the photos bucket into memory at startup.
func (s *PhotoStore) warm() error {
	return s.db.View(func(tx *bolt.Tx) error {
		if b := tx.Bucket(bucketPhotos); b != nil {
			if err := b.ForEach(func(k, v []byte) error {
				s.photoIDs[string(k)] = string(v)
				return nil
			}); err != nil {
				return err
			}
		}
		if b := tx.Bucket(bucketProfiles); b != nil {
			if data := b.Get(profilesKey); data != nil {
				// A corrupt cache entry is not worth failing startup over.
				_ = json.Unmarshal(data, &s.profiles)
			}
		}
		return nil
	})
}

// Close closes the underlying database.
func (s *PhotoStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SavePhotoID records the server-assigned identifier for an asset.
func (s *PhotoStore) SavePhotoID(assetID, photoID string) error {
	s.mu.Lock()
	s.photoIDs[assetID] = photoID
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPhotos).Put([]byte(assetID), []byte(photoID))
	})
}

// GetPhotoID returns the persisted photo identifier for an asset.
func (s *PhotoStore) GetPhotoID(assetID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.photoIDs[assetID]
	return id, ok
}

// AllPhotoIDs returns a copy of the full reconciliation map.
func (s *PhotoStore) AllPhotoIDs() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.photoIDs))
	for k, v := range s.photoIDs {
		out[k] = v
	}
	return out
}

// SaveProfiles caches the people records for offline display.
func (s *PhotoStore) SaveProfiles(profiles []domain.PersonProfile) error {
	s.mu.Lock()
	s.profiles = profiles
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	data, err := json.Marshal(profiles)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketProfiles).Put(profilesKey, data)
	})
}

// GetProfiles returns the cached people records, if any.
func (s *PhotoStore) GetProfiles() ([]domain.PersonProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profiles == nil {
		return nil, false
	}
	return s.profiles, true
}
