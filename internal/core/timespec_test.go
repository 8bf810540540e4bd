package core

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/arialabs/aria/internal/errors"
)

func TestParseTimeSpec(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"2:30", 2*time.Minute + 30*time.Second},
		{"0:05", 5 * time.Second},
		{"2:30.5", 2*time.Minute + 30*time.Second + 500*time.Millisecond},
		{"90", 90 * time.Second},
		{"90s", 90 * time.Second},
		{"30.5", 30*time.Second + 500*time.Millisecond},
		{"0", 0},
		{" 1:00 ", time.Minute},
		{"120:00", 2 * time.Hour},
	}
	for _, tt := range tests {
		got, err := ParseTimeSpec(tt.input)
		if err != nil {
			t.Errorf("ParseTimeSpec(%q) error = %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTimeSpec(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseTimeSpecRejects(t *testing.T) {
	inputs := []string{
		"", "abc", "-5", "-1:00", "1:60", "1:99", "1:2:3", "1:", ":30",
		"1m30s", "30ss", "2:30:", "1:-5",
		"nan", "NaN", "inf", "+inf", "-inf", "2:nan", "1:inf",
		"1e9", "1E2", "0x1p4", "0x10", "+5", "+1:30", "30.", ".5", "1:.5",
	}
	for _, input := range inputs {
		_, err := ParseTimeSpec(input)
		var perr *errors.ParseError
		if !stderrors.As(err, &perr) {
			t.Errorf("ParseTimeSpec(%q) error = %v, want ParseError", input, err)
		}
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{5 * time.Second, "0:05"},
		{90 * time.Second, "1:30"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
		{-time.Second, "0:00"},
		{2*time.Minute + 30*time.Second + 900*time.Millisecond, "2:30"},
	}
	for _, tt := range tests {
		if got := FormatTime(tt.d); got != tt.want {
			t.Errorf("FormatTime(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
