// Package library expands user-supplied paths into playable tracks.
package library

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arialabs/aria/internal/core"
	"github.com/arialabs/aria/internal/errors"
)

// Expand resolves path into tracks. A single file yields one track; a
// directory is walked recursively and recognized formats are returned
// in lexical path order.
func Expand(path string) ([]core.Track, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ErrNotFound
		}
		return nil, err
	}

	if !info.IsDir() {
		if core.FormatForPath(abs) == "" {
			return nil, errors.ErrNoPlayableFiles
		}
		return []core.Track{makeTrack(abs, info.Size())}, nil
	}

	tracks, err := scanDir(abs)
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, errors.ErrNoPlayableFiles
	}
	return tracks, nil
}

// scanDir walks root collecting recognized audio files. WalkDir visits
// entries in lexical order, which fixes the enqueue order.
func scanDir(root string) ([]core.Track, error) {
	var tracks []core.Track

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || core.FormatForPath(path) == "" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		tracks = append(tracks, makeTrack(path, info.Size()))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tracks, nil
}

func makeTrack(path string, size int64) core.Track {
	t := core.Track{
		Path:     path,
		Format:   core.FormatForPath(path),
		FileSize: size,
	}
	readTags(&t)
	return t
}
