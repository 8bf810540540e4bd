// Package tail turns polled playback snapshots into a stream of
// discrete events for `aria watch` and the interactive status view.
package tail

import (
	"context"
	"time"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/arialabs/aria/internal/core"
)

// EventType represents the type of playback event.
type EventType int

const (
	EventTrackChange EventType = iota
	EventTrackComplete
	EventTrackSkip
	EventPause
	EventResume
	EventStop
	EventSeek
	EventVolumeChange
	EventDeviceChange
	EventError
)

// Event represents a playback state change.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Previous  core.Snapshot
	Current   core.Snapshot
}

// Source is anything that can report playback state. The engine
// satisfies it directly.
type Source interface {
	Snapshot() core.Snapshot
}

// Watcher polls a source for state changes and emits events.
type Watcher struct {
	src      Source
	interval time.Duration
	events   chan Event
	done     chan struct{}
}

// NewWatcher creates a new state watcher.
func NewWatcher(src Source, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	return &Watcher{
		src:      src,
		interval: interval,
		events:   make(chan Event, 16),
		done:     make(chan struct{}),
	}
}

// Events returns the channel of playback events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start begins polling for state changes. It blocks until ctx is done
// or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.events)

	prev := w.src.Snapshot()
	prevKey := snapshotKey(prev)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return nil
		case <-ticker.C:
			curr := w.src.Snapshot()
			key := snapshotKey(curr)
			if key == prevKey && !seeked(prev, curr, w.interval) {
				prev = curr
				continue
			}

			for _, e := range diffSnapshots(prev, curr, w.interval) {
				select {
				case w.events <- e:
				default:
					// Drop event if channel is full
				}
			}

			prev = curr
			prevKey = key
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	close(w.done)
}

// keyFields is the subset of a snapshot whose change always produces
// at least one event. Elapsed is excluded: it moves every poll.
type keyFields struct {
	State  core.State
	Path   string
	Index  int
	Volume int
	Device string
	Err    string
}

// snapshotKey hashes the event-relevant snapshot fields so unchanged
// states skip the diff entirely.
func snapshotKey(s core.Snapshot) uint64 {
	k := keyFields{
		State:  s.State,
		Index:  s.TrackIndex,
		Volume: s.Volume,
		Device: s.Device,
		Err:    s.Err,
	}
	if s.Track != nil {
		k.Path = s.Track.Path
	}
	h, err := hashstructure.Hash(k, hashstructure.FormatV2, nil)
	if err != nil {
		return 0
	}
	return h
}

// diffSnapshots compares two snapshots and returns detected events.
func diffSnapshots(prev, curr core.Snapshot, interval time.Duration) []Event {
	now := time.Now()
	var events []Event

	emit := func(t EventType) {
		events = append(events, Event{
			Type:      t,
			Timestamp: now,
			Previous:  prev,
			Current:   curr,
		})
	}

	if trackChanged(prev, curr) {
		eventType := EventTrackChange
		if prev.HasTrack() {
			if wasCompleted(prev) {
				eventType = EventTrackComplete
			} else {
				eventType = EventTrackSkip
			}
		}
		emit(eventType)
	} else if seeked(prev, curr, interval) {
		emit(EventSeek)
	}

	switch {
	case prev.State == core.StatePlaying && curr.State == core.StatePaused:
		emit(EventPause)
	case prev.State == core.StatePaused && curr.State == core.StatePlaying:
		emit(EventResume)
	case curr.State == core.StateStopped &&
		(prev.State.Active() || prev.State == core.StatePaused):
		emit(EventStop)
	case curr.State == core.StateError && prev.State != core.StateError:
		emit(EventError)
	}

	if prev.Volume != curr.Volume {
		emit(EventVolumeChange)
	}
	if prev.Device != curr.Device {
		emit(EventDeviceChange)
	}

	return events
}

// trackChanged returns true if the current track changed.
func trackChanged(prev, curr core.Snapshot) bool {
	if prev.Track == nil && curr.Track == nil {
		return false
	}
	if prev.Track == nil || curr.Track == nil {
		return true
	}
	return prev.Track.Path != curr.Track.Path || prev.TrackIndex != curr.TrackIndex
}

// wasCompleted returns true if the track likely finished naturally
// rather than being skipped.
func wasCompleted(s core.Snapshot) bool {
	if s.Track == nil || s.Duration == 0 {
		return false
	}
	return float64(s.Elapsed) >= float64(s.Duration)*0.95
}

// seeked returns true if the position moved further than polling alone
// can explain.
func seeked(prev, curr core.Snapshot, interval time.Duration) bool {
	if trackChanged(prev, curr) || !prev.State.Active() || !curr.State.Active() {
		return false
	}
	delta := curr.Elapsed - prev.Elapsed
	return delta < 0 || delta > 2*interval+100*time.Millisecond
}
