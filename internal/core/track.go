package core

import (
	"path/filepath"
	"strings"
	"time"
)

// Format identifies the container/codec of a track.
type Format string

const (
	FormatMP3    Format = "mp3"
	FormatWAV    Format = "wav"
	FormatFLAC   Format = "flac"
	FormatVorbis Format = "ogg"
)

// Extensions returns the file extensions recognized for this format.
func (f Format) Extensions() []string {
	switch f {
	case FormatMP3:
		return []string{".mp3"}
	case FormatWAV:
		return []string{".wav", ".wave"}
	case FormatFLAC:
		return []string{".flac"}
	case FormatVorbis:
		return []string{".ogg", ".oga"}
	}
	return nil
}

// Lossless reports whether the format is lossless.
func (f Format) Lossless() bool {
	return f == FormatWAV || f == FormatFLAC
}

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatMP3, FormatWAV, FormatFLAC, FormatVorbis}
}

// FormatForPath returns the format matching the path's extension,
// or "" if the extension is not recognized.
func FormatForPath(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	for _, f := range Formats() {
		for _, e := range f.Extensions() {
			if e == ext {
				return f
			}
		}
	}
	return ""
}

// Track represents a playable audio file. Tracks are immutable once
// enumerated; Duration may be refined from zero after the decoder opens
// the file.
type Track struct {
	Path     string        `json:"path"`
	Title    string        `json:"title"`
	Artist   string        `json:"artist,omitempty"`
	Album    string        `json:"album,omitempty"`
	Format   Format        `json:"format"`
	Duration time.Duration `json:"duration"`
	FileSize int64         `json:"file_size"`
}

// DisplayName returns the track title, falling back to the file stem.
func (t *Track) DisplayName() string {
	if t.Title != "" {
		return t.Title
	}
	base := filepath.Base(t.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ArtistName returns the artist, or "Unknown Artist" when untagged.
func (t *Track) ArtistName() string {
	if t.Artist != "" {
		return t.Artist
	}
	return "Unknown Artist"
}
