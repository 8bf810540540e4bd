package decode

import (
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	ariaerrors "github.com/arialabs/aria/internal/errors"
)

// writeWAV writes a 16-bit stereo 44.1kHz PCM file with the given
// number of frames of silence.
func writeWAV(t *testing.T, path string, frames int) {
	t.Helper()

	const (
		sampleRate = 44100
		channels   = 2
		bitDepth   = 16
	)
	blockAlign := channels * bitDepth / 8
	dataSize := frames * blockAlign

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create wav: %v", err)
	}
	defer f.Close()

	w := func(v interface{}) {
		if err := binary.Write(f, binary.LittleEndian, v); err != nil {
			t.Fatalf("write wav: %v", err)
		}
	}

	f.WriteString("RIFF")
	w(uint32(36 + dataSize))
	f.WriteString("WAVE")
	f.WriteString("fmt ")
	w(uint32(16))
	w(uint16(1)) // PCM
	w(uint16(channels))
	w(uint32(sampleRate))
	w(uint32(sampleRate * blockAlign))
	w(uint16(blockAlign))
	w(uint16(bitDepth))
	f.WriteString("data")
	w(uint32(dataSize))
	w(make([]int16, frames*channels))
}

func TestOpenUnsupportedExtension(t *testing.T) {
	_, err := Open("/tmp/whatever.txt")

	var de *ariaerrors.DecodeError
	if !errors.As(err, &de) || de.Kind != ariaerrors.UnsupportedFormat {
		t.Fatalf("Open() error = %v, want UnsupportedFormat", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.mp3"))
	if !errors.Is(err, ariaerrors.ErrNotFound) {
		t.Fatalf("Open() error = %v, want ErrNotFound", err)
	}
}

func TestOpenCorruptStream(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.wav")
	if err := os.WriteFile(path, []byte("this is not a wav file at all"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Open(path)
	var de *ariaerrors.DecodeError
	if !errors.As(err, &de) || de.Kind != ariaerrors.CorruptStream {
		t.Fatalf("Open() error = %v, want CorruptStream", err)
	}
}

func TestDecodeWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeWAV(t, path, 44100) // one second

	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer d.Close()

	if got := d.Duration(); got != time.Second {
		t.Errorf("Duration() = %v, want 1s", got)
	}

	total := 0
	for {
		block, err := d.NextBlock()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("NextBlock() error = %v", err)
		}
		if len(block)%Channels != 0 {
			t.Fatalf("block length %d not frame-aligned", len(block))
		}
		total += len(block) / Channels
	}

	if total != 44100 {
		t.Errorf("decoded %d frames, want 44100", total)
	}
}

func TestSeekClampsAndRepositions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeWAV(t, path, 44100)

	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer d.Close()

	if err := d.Seek(500 * time.Millisecond); err != nil {
		t.Fatalf("Seek() error = %v", err)
	}
	if got := d.Position(); got != 500*time.Millisecond {
		t.Errorf("Position() = %v, want 500ms", got)
	}

	// Past-the-end seeks clamp to the duration, not error.
	if err := d.Seek(time.Hour); err != nil {
		t.Fatalf("Seek(1h) error = %v", err)
	}
	if got := d.Position(); got != time.Second {
		t.Errorf("Position() after clamped seek = %v, want 1s", got)
	}

	// Negative seeks clamp to zero.
	if err := d.Seek(-time.Second); err != nil {
		t.Fatalf("Seek(-1s) error = %v", err)
	}
	if got := d.Position(); got != 0 {
		t.Errorf("Position() = %v, want 0", got)
	}
}

func TestProbe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeWAV(t, path, 22050)

	got, err := Probe(path)
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if got != 500*time.Millisecond {
		t.Errorf("Probe() = %v, want 500ms", got)
	}
}
