package core

import "testing"

func track(path string) Track {
	return Track{Path: path, Format: FormatForPath(path)}
}

func TestQueueAppendSetsCurrent(t *testing.T) {
	q := NewQueue()
	if q.Current() != nil {
		t.Fatal("empty queue should have no current track")
	}

	q.Append(track("/music/a.flac"), track("/music/b.mp3"))

	if q.CurrentIndex != 0 {
		t.Errorf("CurrentIndex = %d, want 0", q.CurrentIndex)
	}
	if got := q.Current(); got == nil || got.Path != "/music/a.flac" {
		t.Errorf("Current() = %v, want /music/a.flac", got)
	}
}

func TestQueueAdvanceRetreatBounds(t *testing.T) {
	q := NewQueue()
	q.Append(track("/a.mp3"), track("/b.mp3"))

	if !q.Advance() {
		t.Error("Advance from 0 of 2 should succeed")
	}
	if q.Advance() {
		t.Error("Advance at the last track should fail, not wrap")
	}
	if q.CurrentIndex != 1 {
		t.Errorf("CurrentIndex = %d, want 1 after failed advance", q.CurrentIndex)
	}

	if !q.Retreat() {
		t.Error("Retreat from 1 should succeed")
	}
	if q.Retreat() {
		t.Error("Retreat at the first track should fail")
	}
	if q.CurrentIndex != 0 {
		t.Errorf("CurrentIndex = %d, want 0 after failed retreat", q.CurrentIndex)
	}
}

func TestQueueJump(t *testing.T) {
	q := NewQueue()
	q.Append(track("/a.mp3"), track("/b.mp3"), track("/c.mp3"))

	if !q.Jump(2) {
		t.Error("Jump(2) should succeed")
	}
	if q.Jump(3) {
		t.Error("Jump(3) out of range should fail")
	}
	if q.Jump(-1) {
		t.Error("Jump(-1) should fail")
	}
	if q.CurrentIndex != 2 {
		t.Errorf("CurrentIndex = %d, want 2", q.CurrentIndex)
	}
}

func TestQueueClear(t *testing.T) {
	q := NewQueue()
	q.Append(track("/a.mp3"))
	q.Clear()

	if !q.IsEmpty() {
		t.Error("queue should be empty after Clear")
	}
	if q.CurrentIndex != -1 {
		t.Errorf("CurrentIndex = %d, want -1", q.CurrentIndex)
	}
}

func TestQueueSnapshotIsCopy(t *testing.T) {
	q := NewQueue()
	q.Append(track("/a.mp3"), track("/b.mp3"))

	snap := q.Snapshot()
	q.Tracks[0].Path = "/mutated.mp3"

	if snap.Tracks[0].Path != "/a.mp3" {
		t.Error("snapshot should not alias queue storage")
	}
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"/music/x.mp3", FormatMP3},
		{"/music/x.MP3", FormatMP3},
		{"/music/x.flac", FormatFLAC},
		{"/music/x.wav", FormatWAV},
		{"/music/x.wave", FormatWAV},
		{"/music/x.ogg", FormatVorbis},
		{"/music/x.oga", FormatVorbis},
		{"/music/x.txt", ""},
		{"/music/noext", ""},
	}

	for _, tt := range tests {
		if got := FormatForPath(tt.path); got != tt.want {
			t.Errorf("FormatForPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestTrackDisplayName(t *testing.T) {
	tr := Track{Path: "/music/some song.flac"}
	if got := tr.DisplayName(); got != "some song" {
		t.Errorf("DisplayName() = %q, want %q", got, "some song")
	}

	tr.Title = "Actual Title"
	if got := tr.DisplayName(); got != "Actual Title" {
		t.Errorf("DisplayName() = %q, want %q", got, "Actual Title")
	}

	if got := tr.ArtistName(); got != "Unknown Artist" {
		t.Errorf("ArtistName() = %q, want %q", got, "Unknown Artist")
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{StateStopped, "Stopped"},
		{StatePlaying, "Playing"},
		{StatePaused, "Paused"},
		{StateSeeking, "Seeking"},
		{StateError, "Error"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}
