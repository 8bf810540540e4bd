package tail

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/arialabs/aria/internal/core"
)

func track(path string) *core.Track {
	return &core.Track{
		Path:     path,
		Title:    "Title of " + path,
		Artist:   "Artist",
		Duration: 3 * time.Minute,
	}
}

func playing(path string, elapsed time.Duration) core.Snapshot {
	return core.Snapshot{
		State:    core.StatePlaying,
		Track:    track(path),
		Elapsed:  elapsed,
		Duration: 3 * time.Minute,
		Volume:   80,
	}
}

const interval = 250 * time.Millisecond

func kinds(events []Event) []EventType {
	out := make([]EventType, len(events))
	for i, e := range events {
		out[i] = e.Type
	}
	return out
}

func TestDiffSnapshots(t *testing.T) {
	tests := []struct {
		name string
		prev core.Snapshot
		curr core.Snapshot
		want []EventType
	}{
		{
			name: "no change",
			prev: playing("a.mp3", time.Second),
			curr: playing("a.mp3", time.Second+interval),
			want: nil,
		},
		{
			name: "track appears",
			prev: core.Snapshot{State: core.StateStopped, TrackIndex: -1, Volume: 80},
			curr: playing("a.mp3", 0),
			want: []EventType{EventTrackChange},
		},
		{
			name: "natural completion",
			prev: playing("a.mp3", 3*time.Minute),
			curr: playing("b.mp3", 0),
			want: []EventType{EventTrackComplete},
		},
		{
			name: "skip",
			prev: playing("a.mp3", 30*time.Second),
			curr: playing("b.mp3", 0),
			want: []EventType{EventTrackSkip},
		},
		{
			name: "pause",
			prev: playing("a.mp3", time.Second),
			curr: func() core.Snapshot {
				s := playing("a.mp3", time.Second)
				s.State = core.StatePaused
				return s
			}(),
			want: []EventType{EventPause},
		},
		{
			name: "resume",
			prev: func() core.Snapshot {
				s := playing("a.mp3", time.Second)
				s.State = core.StatePaused
				return s
			}(),
			curr: playing("a.mp3", time.Second),
			want: []EventType{EventResume},
		},
		{
			name: "stop",
			prev: playing("a.mp3", time.Second),
			curr: core.Snapshot{State: core.StateStopped, Track: track("a.mp3"), Volume: 80},
			want: []EventType{EventStop},
		},
		{
			name: "seek forward",
			prev: playing("a.mp3", time.Second),
			curr: playing("a.mp3", time.Minute),
			want: []EventType{EventSeek},
		},
		{
			name: "seek backward",
			prev: playing("a.mp3", time.Minute),
			curr: playing("a.mp3", time.Second),
			want: []EventType{EventSeek},
		},
		{
			name: "volume",
			prev: playing("a.mp3", time.Second),
			curr: func() core.Snapshot {
				s := playing("a.mp3", time.Second+interval)
				s.Volume = 50
				return s
			}(),
			want: []EventType{EventVolumeChange},
		},
		{
			name: "device",
			prev: playing("a.mp3", time.Second),
			curr: func() core.Snapshot {
				s := playing("a.mp3", time.Second+interval)
				s.Device = "USB DAC"
				return s
			}(),
			want: []EventType{EventDeviceChange},
		},
		{
			name: "error",
			prev: playing("a.mp3", time.Second),
			curr: core.Snapshot{
				State: core.StateError,
				Track: track("a.mp3"),
				Err:   "decode failed",
			},
			want: []EventType{EventError, EventVolumeChange},
		},
		{
			name: "pause and volume together",
			prev: playing("a.mp3", time.Second),
			curr: func() core.Snapshot {
				s := playing("a.mp3", time.Second)
				s.State = core.StatePaused
				s.Volume = 30
				return s
			}(),
			want: []EventType{EventPause, EventVolumeChange},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := kinds(diffSnapshots(tt.prev, tt.curr, interval))
			if len(got) != len(tt.want) {
				t.Fatalf("events = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("event[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSnapshotKeyIgnoresElapsed(t *testing.T) {
	a := playing("a.mp3", time.Second)
	b := playing("a.mp3", 2*time.Second)
	if snapshotKey(a) != snapshotKey(b) {
		t.Error("key changed with elapsed time only")
	}

	c := playing("b.mp3", time.Second)
	if snapshotKey(a) == snapshotKey(c) {
		t.Error("key did not change with track")
	}
}

// fakeSource serves snapshots under lock so the watcher goroutine can
// poll while the test mutates state.
type fakeSource struct {
	mu   sync.Mutex
	snap core.Snapshot
}

func (s *fakeSource) Snapshot() core.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

func (s *fakeSource) set(snap core.Snapshot) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

func TestWatcherEmitsOnChange(t *testing.T) {
	src := &fakeSource{snap: core.Snapshot{State: core.StateStopped, TrackIndex: -1}}
	w := NewWatcher(src, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Start(ctx)
	}()

	src.set(playing("a.mp3", 0))

	select {
	case e := <-w.Events():
		if e.Type != EventTrackChange {
			t.Errorf("event = %v, want EventTrackChange", e.Type)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event emitted")
	}

	w.Stop()
	<-done
}

func TestFormatterDescriptions(t *testing.T) {
	f := NewFormatter(WithEmoji(false))

	e := Event{Type: EventTrackChange, Current: playing("a.mp3", 0)}
	if got := f.Format(e); got != "Now playing: Artist - Title of a.mp3" {
		t.Errorf("Format() = %q", got)
	}

	e = Event{Type: EventVolumeChange, Current: core.Snapshot{Volume: 42}}
	if got := f.Format(e); got != "Volume: 42%" {
		t.Errorf("Format() = %q", got)
	}
}

func TestFormatterTemplate(t *testing.T) {
	f := NewFormatter(WithTemplate("{{.Type}} {{.Artist}}/{{.Title}} vol={{.Volume}}"))
	e := Event{Type: EventTrackChange, Current: playing("a.mp3", 0)}
	got := f.Format(e)
	want := "track_change Artist/Title of a.mp3 vol=80"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestFormatterTimestamp(t *testing.T) {
	f := NewFormatter(WithEmoji(false), WithTimestamp(true))
	e := Event{
		Type:      EventPause,
		Timestamp: time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC),
	}
	if got := f.Format(e); !strings.HasPrefix(got, "15:04:05 ") {
		t.Errorf("Format() = %q, want 15:04:05 prefix", got)
	}
}
