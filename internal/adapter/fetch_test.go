package adapter

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"

	"github.com/mgoujon/storyline/internal/story"
)

func TestDefaultFetcher_Network(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()

	f := &DefaultFetcher{Client: srv.Client()}
	rc, err := f.Fetch(story.OriginNetwork, srv.URL)
	assert.NoError(t, err)
	defer rc.Close()

	body, err := io.ReadAll(rc)
	assert.NoError(t, err)
	assert.Equal(t, "payload", string(body))
}

func TestDefaultFetcher_NetworkErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := &DefaultFetcher{Client: srv.Client()}
	_, err := f.Fetch(story.OriginNetwork, srv.URL)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestDefaultFetcher_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "item.txt")
	assert.NoError(t, os.WriteFile(path, []byte("on disk"), 0o600))

	f := &DefaultFetcher{}
	rc, err := f.Fetch(story.OriginFile, path)
	assert.NoError(t, err)
	defer rc.Close()

	body, err := io.ReadAll(rc)
	assert.NoError(t, err)
	assert.Equal(t, "on disk", string(body))
}

func TestDefaultFetcher_FileMissing(t *testing.T) {
	f := &DefaultFetcher{}
	_, err := f.Fetch(story.OriginFile, filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestDefaultFetcher_Asset(t *testing.T) {
	f := &DefaultFetcher{Assets: fstest.MapFS{
		"intro.txt": &fstest.MapFile{Data: []byte("bundled")},
	}}

	rc, err := f.Fetch(story.OriginAsset, "intro.txt")
	assert.NoError(t, err)
	defer rc.Close()

	body, err := io.ReadAll(rc)
	assert.NoError(t, err)
	assert.Equal(t, "bundled", string(body))
}

func TestDefaultFetcher_AssetWithoutFS(t *testing.T) {
	f := &DefaultFetcher{}
	_, err := f.Fetch(story.OriginAsset, "intro.txt")
	assert.ErrorIs(t, err, ErrNoAssetFS)
}
