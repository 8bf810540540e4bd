package library

import (
	"os"
	"strings"

	"github.com/dhowden/tag"

	"github.com/arialabs/aria/internal/core"
)

// readTags fills title, artist, and album from the file's embedded
// metadata. Untagged or unreadable files keep their zero values and
// display falls back to the file stem.
func readTags(t *core.Track) {
	f, err := os.Open(t.Path)
	if err != nil {
		return
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return
	}
	t.Title = strings.TrimSpace(m.Title())
	t.Artist = strings.TrimSpace(m.Artist())
	t.Album = strings.TrimSpace(m.Album())
}
