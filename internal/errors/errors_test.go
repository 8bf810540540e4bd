package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestWithSuggestion(t *testing.T) {
	base := errors.New("something broke")
	err := WithSuggestion(base, "try turning it off and on")

	if got := GetSuggestion(err); got != "try turning it off and on" {
		t.Errorf("GetSuggestion() = %q, want custom suggestion", got)
	}
	if !errors.Is(err, base) {
		t.Error("wrapped error should unwrap to the base error")
	}
}

func TestGetSuggestionSentinels(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrEmptyQueue, "queue add"},
		{ErrPlaylistNotFound, "playlist list"},
		{ErrDeviceNotFound, "device list"},
		{ErrNoPlayableFiles, "Supported formats"},
		{fmt.Errorf("play: %w", ErrEmptyQueue), "queue add"},
	}

	for _, tt := range tests {
		got := GetSuggestion(tt.err)
		if !strings.Contains(got, tt.want) {
			t.Errorf("GetSuggestion(%v) = %q, want substring %q", tt.err, got, tt.want)
		}
	}
}

func TestDecodeErrorKinds(t *testing.T) {
	err := &DecodeError{Path: "/music/x.mp3", Kind: CorruptStream, Err: errors.New("bad frame")}

	if !strings.Contains(err.Error(), "corrupt stream") {
		t.Errorf("Error() = %q, want corrupt stream", err.Error())
	}
	if !Recoverable(err) {
		t.Error("decode errors should be recoverable")
	}

	var de *DecodeError
	if !errors.As(fmt.Errorf("wrapped: %w", err), &de) {
		t.Error("DecodeError should survive wrapping")
	}
}

func TestFatalErrorNotRecoverable(t *testing.T) {
	err := &FatalError{Op: "open device", Err: errors.New("backend gone")}
	if Recoverable(err) {
		t.Error("fatal errors should not be recoverable")
	}
	if Recoverable(ErrEngineClosed) {
		t.Error("closed engine should not be recoverable")
	}
	if !Recoverable(ErrNotFound) {
		t.Error("plain resource errors are recoverable")
	}
}

func TestFormat(t *testing.T) {
	if got := Format(nil); got != "" {
		t.Errorf("Format(nil) = %q, want empty", got)
	}

	got := Format(ErrDeviceNotFound)
	if !strings.Contains(got, "Error: device not found") {
		t.Errorf("Format() = %q, missing error text", got)
	}
	if !strings.Contains(got, "Suggestion:") {
		t.Errorf("Format() = %q, missing suggestion", got)
	}
}

func TestParseError(t *testing.T) {
	err := &ParseError{Input: "abc", Reason: "not a time"}
	if !strings.Contains(err.Error(), `"abc"`) {
		t.Errorf("Error() = %q, want quoted input", err.Error())
	}
	if got := GetSuggestion(err); !strings.Contains(got, "help") {
		t.Errorf("GetSuggestion() = %q, want help pointer", got)
	}
}
