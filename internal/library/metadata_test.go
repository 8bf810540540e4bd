package library

import (
	"os"
	"path/filepath"
	"testing"
)

// id3v2Frame encodes one ID3v2.3 text frame with ISO-8859-1 content.
func id3v2Frame(id, text string) []byte {
	body := append([]byte{0}, text...)
	frame := []byte(id)
	frame = append(frame,
		byte(len(body)>>24), byte(len(body)>>16), byte(len(body)>>8), byte(len(body)),
		0, 0)
	return append(frame, body...)
}

// writeTagged writes a file carrying only an ID3v2.3 tag, which is
// enough for metadata extraction.
func writeTagged(t *testing.T, path, title, artist, album string) {
	t.Helper()
	var frames []byte
	frames = append(frames, id3v2Frame("TIT2", title)...)
	frames = append(frames, id3v2Frame("TPE1", artist)...)
	frames = append(frames, id3v2Frame("TALB", album)...)

	size := len(frames)
	data := []byte{'I', 'D', '3', 3, 0, 0,
		byte(size >> 21 & 0x7f), byte(size >> 14 & 0x7f),
		byte(size >> 7 & 0x7f), byte(size & 0x7f)}
	data = append(data, frames...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestExpandReadsTags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "03.mp3")
	writeTagged(t, path, "Paranoid Android", "Radiohead", "OK Computer")

	tracks, err := Expand(path)
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	tr := tracks[0]
	if tr.Title != "Paranoid Android" {
		t.Errorf("Title = %q, want Paranoid Android", tr.Title)
	}
	if tr.Artist != "Radiohead" {
		t.Errorf("Artist = %q, want Radiohead", tr.Artist)
	}
	if tr.Album != "OK Computer" {
		t.Errorf("Album = %q, want OK Computer", tr.Album)
	}
	if got := tr.DisplayName(); got != "Paranoid Android" {
		t.Errorf("DisplayName() = %q, want the tagged title", got)
	}
}

func TestExpandUntaggedFallsBackToStem(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "field-recording.mp3")
	touch(t, path)

	tracks, err := Expand(path)
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	tr := tracks[0]
	if tr.Title != "" || tr.Artist != "" {
		t.Errorf("tags = %q/%q, want empty for an untagged file", tr.Title, tr.Artist)
	}
	if got := tr.DisplayName(); got != "field-recording" {
		t.Errorf("DisplayName() = %q, want field-recording", got)
	}
	if got := tr.ArtistName(); got != "Unknown Artist" {
		t.Errorf("ArtistName() = %q, want Unknown Artist", got)
	}
}
