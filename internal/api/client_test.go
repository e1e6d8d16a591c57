package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmcdole/fotofindr/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestAsset(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("jpeg-bytes"), 0644))
	return path
}

func TestUpload(t *testing.T) {
	var gotUserID, gotDeviceURI, gotFilename string
	var gotFileBytes []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/upload/", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotUserID = r.FormValue("user_id")
		gotDeviceURI = r.FormValue("device_uri")

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		gotFilename = header.Filename
		buf := make([]byte, 64)
		n, _ := file.Read(buf)
		gotFileBytes = buf[:n]

		json.NewEncoder(w).Encode(map[string]string{
			"photo_id":    "photo-42",
			"storage_url": "https://cdn/photo-42.jpg",
			"message":     "ok",
		})
	}))
	defer srv.Close()

	path := writeTestAsset(t, "beach.jpg")
	c := NewClient(srv.URL, "user-1", nil)

	photoID, err := c.Upload(context.Background(), domain.Photo{
		AssetID:  "2024/beach.jpg",
		URI:      path,
		Filename: "beach.jpg",
	})
	require.NoError(t, err)

	assert.Equal(t, "photo-42", photoID)
	assert.Equal(t, "user-1", gotUserID)
	assert.Equal(t, path, gotDeviceURI)
	assert.Equal(t, "beach.jpg", gotFilename)
	assert.Equal(t, "jpeg-bytes", string(gotFileBytes))
}

func TestUploadMissingPhotoID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"message": "stored"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "user-1", nil)
	_, err := c.Upload(context.Background(), domain.Photo{
		URI: writeTestAsset(t, "a.jpg"),
	})
	assert.Error(t, err)
}

func TestUploadUnreadableAsset(t *testing.T) {
	c := NewClient("http://localhost:1", "user-1", nil)
	_, err := c.Upload(context.Background(), domain.Photo{URI: "/does/not/exist.jpg"})
	assert.Error(t, err)
}

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/search/", r.URL.Path)

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "sunset at the beach", req["query"])
		assert.Equal(t, "user-1", req["user_id"])
		assert.Equal(t, float64(20), req["limit"])

		json.NewEncoder(w).Encode(domain.SearchResult{
			Photos:        []domain.PhotoMatch{{ID: "p1"}, {ID: "p2"}},
			NarrationText: "Two photos from the beach.",
			Total:         2,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "user-1", nil)
	result, err := c.Search(context.Background(), "sunset at the beach", 20)
	require.NoError(t, err)

	assert.Equal(t, []string{"p1", "p2"}, result.PhotoIDs())
	assert.Equal(t, "Two photos from the beach.", result.NarrationText)
}

func TestStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/status/user-1", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]int{"processed": 5, "total": 8})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "user-1", nil)
	status, err := c.Status(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, status.Processed)
	assert.Equal(t, 8, status.Total)
	assert.False(t, status.Complete())
}

func TestClearAndReprocess(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		paths = append(paths, r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "user-1", nil)
	require.NoError(t, c.Clear(context.Background()))
	require.NoError(t, c.Reprocess(context.Background()))

	assert.Equal(t, []string{"/clear/user-1", "/reprocess/user-1"}, paths)
}

func TestProfilesAndNamePerson(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/profiles/user-1":
			json.NewEncoder(w).Encode([]domain.PersonProfile{
				{ID: "c1", Name: "", PhotoCount: 12},
				{ID: "c2", Name: "Alice", PhotoCount: 4},
			})
		case r.Method == http.MethodPatch && r.URL.Path == "/profiles/c1/name":
			var req map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "Bob", req["name"])
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "user-1", nil)

	profiles, err := c.Profiles(context.Background())
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "Unnamed person", profiles[0].DisplayName())
	assert.Equal(t, "Alice", profiles[1].DisplayName())

	require.NoError(t, c.NamePerson(context.Background(), "c1", "Bob"))
}

func TestNarrate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/narrate/", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "photo-42", r.FormValue("photo_id"))
		assert.Equal(t, "user-1", r.FormValue("user_id"))
		json.NewEncoder(w).Encode(map[string]string{"narration_url": "https://cdn/narration.mp3"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "user-1", nil)
	url, err := c.Narrate(context.Background(), "photo-42")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/narration.mp3", url)
}

func TestImageLabels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/image_labels/", r.URL.Path)
		require.Equal(t, "photo-42", r.URL.Query().Get("image_id"))
		json.NewEncoder(w).Encode(domain.PhotoLabels{
			PhotoID: "photo-42",
			Labels:  []string{"beach", "sunset", "ocean"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "user-1", nil)
	labels, err := c.ImageLabels(context.Background(), "photo-42")
	require.NoError(t, err)
	assert.Equal(t, []string{"beach", "sunset", "ocean"}, labels.Labels)
}

func TestNotFoundMapsToSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "user-1", nil)
	_, err := c.ImageLabels(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrPhotoNotFound)
}

func TestTransportFailureMapsToOffline(t *testing.T) {
	// Closed server: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, "user-1", nil)
	err := c.Clear(context.Background())
	assert.ErrorIs(t, err, domain.ErrBackendOffline)
}

func TestServerErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "user-1", nil)
	err := c.Clear(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrBackendOffline)
}
