//go:build linux

package mpris

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mgoujon/storyline/internal/story"
)

// artNames lists common artwork filenames in priority order.
var artNames = []string{
	"cover.jpg", "cover.png", "cover.jpeg",
	"poster.jpg", "poster.png", "poster.jpeg",
	"folder.jpg", "folder.png", "folder.jpeg",
}

// FindArtwork resolves a local artwork path for a story item. A
// file-backed image is its own artwork; for other file-backed media it
// looks for a sibling image named after the file, then for generic
// artwork names in the same directory. Returns empty when nothing
// local applies.
func FindArtwork(item story.Item) string {
	if item.Origin != story.OriginFile {
		return ""
	}
	if item.Kind == story.KindImage {
		return item.Locator
	}

	base := strings.TrimSuffix(item.Locator, filepath.Ext(item.Locator))
	for _, ext := range []string{".jpg", ".png", ".jpeg"} {
		if path := base + ext; fileExists(path) {
			return path
		}
	}

	dir := filepath.Dir(item.Locator)
	for _, name := range artNames {
		if path := filepath.Join(dir, name); fileExists(path) {
			return path
		}
	}
	return ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
