package core

import "time"

// State is the playback engine's transport state.
type State int

const (
	StateStopped State = iota
	StatePlaying
	StatePaused
	StateSeeking
	StateError
)

// String returns the human-readable state name.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateSeeking:
		return "Seeking"
	case StateError:
		return "Error"
	}
	return "Unknown"
}

// Active reports whether audio should be flowing in this state.
func (s State) Active() bool {
	return s == StatePlaying || s == StateSeeking
}

// Snapshot is a read-only view of engine state, recomputed on demand.
// It never aliases engine-owned memory.
type Snapshot struct {
	State      State         `json:"state"`
	Track      *Track        `json:"track,omitempty"`
	TrackIndex int           `json:"track_index"`
	QueueLen   int           `json:"queue_len"`
	Elapsed    time.Duration `json:"elapsed"`
	Duration   time.Duration `json:"duration"`
	Volume     int           `json:"volume"`
	Device     string        `json:"device,omitempty"`
	Err        string        `json:"error,omitempty"`
}

// HasTrack returns true if there is a current track.
func (s *Snapshot) HasTrack() bool {
	return s != nil && s.Track != nil
}

// ProgressPercent returns playback progress as a percentage (0-100).
func (s *Snapshot) ProgressPercent() float64 {
	if s == nil || s.Duration == 0 {
		return 0
	}
	return float64(s.Elapsed) / float64(s.Duration) * 100
}
