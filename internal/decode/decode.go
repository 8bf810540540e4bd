// Package decode wraps format-specific decoders behind a uniform
// block-oriented contract. The backend is selected by file extension at
// open time; every decoder delivers stereo interleaved float32 samples
// resampled to the fixed engine rate.
package decode

import (
	"io"
	"os"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"

	"github.com/arialabs/aria/internal/core"
	"github.com/arialabs/aria/internal/errors"
)

// Engine-wide output format. Decoders resample to this on open.
const (
	SampleRate = beep.SampleRate(44100)
	Channels   = 2
)

// BlockFrames is the number of frames produced per NextBlock call.
const BlockFrames = 2048

// BlockDuration is the wall-clock length of one decoded block. Seek
// accuracy and cancellation latency are bounded by it.
const BlockDuration = time.Duration(BlockFrames) * time.Second / time.Duration(SampleRate)

// Decoder produces successive PCM blocks from one audio source. A
// Decoder is used by exactly one goroutine at a time; no call may be
// made concurrently with another on the same Decoder.
type Decoder interface {
	// NextBlock returns the next block of interleaved stereo samples.
	// The returned slice is only valid until the next call. io.EOF
	// signals end of stream.
	NextBlock() ([]float32, error)

	// Seek repositions the stream to target, clamped to [0, Duration].
	Seek(target time.Duration) error

	// Position returns the stream position of the next block.
	Position() time.Duration

	// Duration returns the total stream length, or 0 if unknown.
	Duration() time.Duration

	Close() error
}

// OpenFunc opens a Decoder for a path. The engine takes one of these so
// tests can substitute a fake.
type OpenFunc func(path string) (Decoder, error)

// Open selects a decoder backend by file extension and opens path.
func Open(path string) (Decoder, error) {
	format := core.FormatForPath(path)
	if format == "" {
		return nil, &errors.DecodeError{Path: path, Kind: errors.UnsupportedFormat}
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ErrNotFound
		}
		return nil, &errors.DecodeError{Path: path, Kind: errors.IoFailure, Err: err}
	}

	var (
		stream beep.StreamSeekCloser
		bf     beep.Format
	)
	switch format {
	case core.FormatMP3:
		stream, bf, err = mp3.Decode(f)
	case core.FormatWAV:
		stream, bf, err = wav.Decode(f)
	case core.FormatFLAC:
		stream, bf, err = flac.Decode(f)
	case core.FormatVorbis:
		stream, bf, err = vorbis.Decode(f)
	}
	if err != nil {
		f.Close()
		return nil, &errors.DecodeError{Path: path, Kind: errors.CorruptStream, Err: err}
	}

	d := &fileDecoder{
		path:    path,
		file:    f,
		stream:  stream,
		format:  bf,
		scratch: make([][2]float64, BlockFrames),
		block:   make([]float32, BlockFrames*Channels),
	}
	if bf.SampleRate != SampleRate {
		d.src = beep.Resample(4, bf.SampleRate, SampleRate, stream)
	} else {
		d.src = stream
	}
	return d, nil
}

// fileDecoder adapts a beep stream to the block contract.
type fileDecoder struct {
	path    string
	file    *os.File
	stream  beep.StreamSeekCloser
	format  beep.Format
	src     beep.Streamer
	scratch [][2]float64
	block   []float32
}

func (d *fileDecoder) NextBlock() ([]float32, error) {
	n, ok := d.src.Stream(d.scratch)
	if n == 0 {
		if !ok {
			if err := d.stream.Err(); err != nil {
				return nil, &errors.DecodeError{Path: d.path, Kind: errors.CorruptStream, Err: err}
			}
			return nil, io.EOF
		}
		return d.block[:0], nil
	}
	for i := 0; i < n; i++ {
		d.block[i*2] = float32(d.scratch[i][0])
		d.block[i*2+1] = float32(d.scratch[i][1])
	}
	return d.block[: n*2 : n*2], nil
}

func (d *fileDecoder) Seek(target time.Duration) error {
	if target < 0 {
		target = 0
	}
	if dur := d.Duration(); dur > 0 && target > dur {
		target = dur
	}
	pos := d.format.SampleRate.N(target)
	if max := d.stream.Len(); max > 0 && pos > max {
		pos = max
	}
	if err := d.stream.Seek(pos); err != nil {
		return &errors.DecodeError{Path: d.path, Kind: errors.IoFailure, Err: err}
	}
	return nil
}

func (d *fileDecoder) Position() time.Duration {
	return d.format.SampleRate.D(d.stream.Position())
}

func (d *fileDecoder) Duration() time.Duration {
	n := d.stream.Len()
	if n <= 0 {
		return 0
	}
	return d.format.SampleRate.D(n)
}

func (d *fileDecoder) Close() error {
	err := d.stream.Close()
	if cerr := d.file.Close(); err == nil {
		err = cerr
	}
	return err
}

// Probe opens path just long enough to read its duration. Used to
// refine Track.Duration after enumeration.
func Probe(path string) (time.Duration, error) {
	d, err := Open(path)
	if err != nil {
		return 0, err
	}
	defer d.Close()
	return d.Duration(), nil
}
