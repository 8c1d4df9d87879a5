package adapter

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"

	"github.com/mgoujon/storyline/internal/story"
)

// Fetcher resolves an item source to a readable stream. Implementations
// must be safe for concurrent use; adapters call Fetch from their own
// acquisition goroutines.
type Fetcher interface {
	Fetch(origin story.Origin, locator string) (io.ReadCloser, error)
}

// ErrNoAssetFS is returned for asset-origin items when no asset
// filesystem was configured.
var ErrNoAssetFS = errors.New("adapter: no asset filesystem configured")

// DefaultFetcher fetches network sources over HTTP, file sources from
// the local filesystem and asset sources from an injected fs.FS.
//
// No timeout is imposed on network fetches: a hung load leaves the item
// in its loading phase until a user command forces a transition.
type DefaultFetcher struct {
	Client *http.Client // nil means http.DefaultClient
	Assets fs.FS        // nil rejects asset-origin items
}

func (f *DefaultFetcher) Fetch(origin story.Origin, locator string) (io.ReadCloser, error) {
	switch origin {
	case story.OriginNetwork:
		client := f.Client
		if client == nil {
			client = http.DefaultClient
		}
		resp, err := client.Get(locator)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			resp.Body.Close()
			return nil, fmt.Errorf("adapter: fetch %q: unexpected status %s", locator, resp.Status)
		}
		return resp.Body, nil
	case story.OriginFile:
		return os.Open(locator)
	case story.OriginAsset:
		if f.Assets == nil {
			return nil, ErrNoAssetFS
		}
		return f.Assets.Open(locator)
	default:
		return nil, fmt.Errorf("adapter: unknown origin %d", int(origin))
	}
}
