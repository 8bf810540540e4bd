package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrEmptyQueue       = errors.New("queue is empty")
	ErrInvalidState     = errors.New("command not valid in current state")
	ErrNoTrackLoaded    = errors.New("no track loaded")
	ErrNoSuchTrack      = errors.New("no such track")
	ErrNotFound         = errors.New("file or directory not found")
	ErrNoPlayableFiles  = errors.New("no playable files found")
	ErrPlaylistNotFound = errors.New("playlist not found")
	ErrDeviceNotFound   = errors.New("device not found")
	ErrEngineClosed     = errors.New("engine is closed")
)

// ParseError indicates a malformed command argument. It is rejected
// before any state change.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q: %s", e.Input, e.Reason)
}

// DecodeError is a per-track decoding failure. It is recoverable: the
// engine may skip to the next track.
type DecodeError struct {
	Path string
	Kind DecodeErrorKind
	Err  error
}

// DecodeErrorKind classifies decode failures.
type DecodeErrorKind int

const (
	UnsupportedFormat DecodeErrorKind = iota
	CorruptStream
	IoFailure
)

func (k DecodeErrorKind) String() string {
	switch k {
	case UnsupportedFormat:
		return "unsupported format"
	case CorruptStream:
		return "corrupt stream"
	case IoFailure:
		return "i/o failure"
	}
	return "decode error"
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Kind)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// FatalError is an unrecoverable output/device failure. It forces the
// engine into the Error state.
type FatalError struct {
	Op  string
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal: %s: %v", e.Op, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// AriaError wraps an error with a user-friendly suggestion.
type AriaError struct {
	Err        error
	Suggestion string
}

func (e *AriaError) Error() string {
	return e.Err.Error()
}

func (e *AriaError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &AriaError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	// Check if it's already an AriaError with suggestion
	var ariaErr *AriaError
	if errors.As(err, &ariaErr) && ariaErr.Suggestion != "" {
		return ariaErr.Suggestion
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return "Type 'help' to see command syntax"
	}

	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		switch decodeErr.Kind {
		case UnsupportedFormat:
			return "Supported formats are mp3, wav, flac, and ogg"
		case CorruptStream:
			return "The file may be truncated; try re-copying it"
		case IoFailure:
			return "Check that the file exists and is readable"
		}
	}

	switch {
	case errors.Is(err, ErrEmptyQueue):
		return "Add tracks with 'queue add <path>' or 'play <path>'"
	case errors.Is(err, ErrInvalidState), errors.Is(err, ErrNoTrackLoaded):
		return "Run 'status' to check the current playback state"
	case errors.Is(err, ErrNoSuchTrack):
		return "Run 'queue list' to see queue boundaries"
	case errors.Is(err, ErrNotFound):
		return "Check that the path is correct"
	case errors.Is(err, ErrNoPlayableFiles):
		return "Supported formats are mp3, wav, flac, and ogg"
	case errors.Is(err, ErrPlaylistNotFound):
		return "Run 'playlist list' to see saved playlists"
	case errors.Is(err, ErrDeviceNotFound):
		return "Run 'device list' to see available devices"
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "permission denied") {
		return "Check file permissions"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}

// Recoverable reports whether the engine can continue after err by
// skipping the failing track.
func Recoverable(err error) bool {
	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		return true
	}
	var fatalErr *FatalError
	return !errors.As(err, &fatalErr) &&
		!errors.Is(err, ErrEngineClosed)
}
