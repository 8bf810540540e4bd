package cli

import (
	"reflect"
	"testing"
)

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"play song.mp3", []string{"play", "song.mp3"}},
		{`play "My Music/track one.mp3"`, []string{"play", "My Music/track one.mp3"}},
		{`play 'a b'.mp3`, []string{"play", "a b.mp3"}},
		{"  seek   2:30  ", []string{"seek", "2:30"}},
		{"status", []string{"status"}},
		{`queue add ""`, []string{"queue", "add", ""}},
		{"", nil},
		{"   ", nil},
	}
	for _, tt := range tests {
		got := splitArgs(tt.line)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitArgs(%q) = %#v, want %#v", tt.line, got, tt.want)
		}
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		s      string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly-ten", 11, "exactly-ten"},
		{"a much longer string", 10, "a much ..."},
		{"abc", 2, "ab"},
	}
	for _, tt := range tests {
		if got := TruncateString(tt.s, tt.maxLen); got != tt.want {
			t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.s, tt.maxLen, got, tt.want)
		}
	}
}

func TestFormatProgress(t *testing.T) {
	if got := FormatProgress(50, 10); got != "━━━━━─────" {
		t.Errorf("FormatProgress(50, 10) = %q", got)
	}
	if got := FormatProgress(0, 4); got != "────" {
		t.Errorf("FormatProgress(0, 4) = %q", got)
	}
	if got := FormatProgress(150, 4); got != "━━━━" {
		t.Errorf("FormatProgress(150, 4) = %q", got)
	}
}
