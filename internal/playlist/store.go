// Package playlist persists named track lists as M3U files in the
// user's data directory. The store reads the directory on every call
// rather than caching, so concurrent processes never see stale state.
package playlist

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arialabs/aria/internal/core"
	"github.com/arialabs/aria/internal/errors"
)

const ext = ".m3u"

// Store manages playlists under a single directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create playlist directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// DefaultDir returns the playlist directory under the user data
// location ($XDG_DATA_HOME or ~/.local/share).
func DefaultDir() (string, error) {
	data := os.Getenv("XDG_DATA_HOME")
	if data == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		data = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(data, "aria", "playlists"), nil
}

// path maps a playlist name to its file, rejecting names that would
// escape the store directory.
func (s *Store) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", &errors.ParseError{Input: name, Reason: "invalid playlist name"}
	}
	return filepath.Join(s.dir, name+ext), nil
}

// Save writes tracks under name, silently overwriting any existing
// playlist with that name. The write is atomic (temp file + rename)
// and flushed before returning.
func (s *Store) Save(name string, tracks []core.Track) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString("#EXTM3U\n")
	for _, t := range tracks {
		secs := int(t.Duration.Seconds())
		if secs == 0 {
			secs = -1
		}
		fmt.Fprintf(&sb, "#EXTINF:%d,%s\n%s\n", secs, t.DisplayName(), t.Path)
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(sb.String()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Load reads the playlist stored under name.
func (s *Store) Load(name string) ([]core.Track, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q", errors.ErrPlaylistNotFound, name)
		}
		return nil, err
	}

	var tracks []core.Track
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tracks = append(tracks, core.Track{
			Path:   line,
			Format: core.FormatForPath(line),
		})
	}
	return tracks, nil
}

// Delete removes the playlist stored under name.
func (s *Store) Delete(name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %q", errors.ErrPlaylistNotFound, name)
		}
		return err
	}
	return nil
}

// List returns the names of all stored playlists, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ext))
	}
	sort.Strings(names)
	return names, nil
}
