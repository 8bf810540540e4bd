package core

// Queue is the live ordered list of tracks being played. The current
// index is -1 when the queue is empty or no track is selected.
type Queue struct {
	Tracks       []Track `json:"tracks"`
	CurrentIndex int     `json:"current_index"`
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{CurrentIndex: -1}
}

// Current returns the track at the current index, or nil.
func (q *Queue) Current() *Track {
	if q == nil || q.CurrentIndex < 0 || q.CurrentIndex >= len(q.Tracks) {
		return nil
	}
	return &q.Tracks[q.CurrentIndex]
}

// Len returns the total number of tracks in the queue.
func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.Tracks)
}

// IsEmpty returns true if the queue has no tracks.
func (q *Queue) IsEmpty() bool {
	return q.Len() == 0
}

// Append adds tracks to the end of the queue. If no track was selected,
// the first appended track becomes current.
func (q *Queue) Append(tracks ...Track) {
	q.Tracks = append(q.Tracks, tracks...)
	if q.CurrentIndex < 0 && len(q.Tracks) > 0 {
		q.CurrentIndex = 0
	}
}

// Clear empties the queue and unsets the current index.
func (q *Queue) Clear() {
	q.Tracks = nil
	q.CurrentIndex = -1
}

// Advance moves the current index forward by one. It returns false at
// the end of the queue; the index does not wrap.
func (q *Queue) Advance() bool {
	if q.CurrentIndex+1 >= len(q.Tracks) {
		return false
	}
	q.CurrentIndex++
	return true
}

// Retreat moves the current index back by one. It returns false at the
// start of the queue.
func (q *Queue) Retreat() bool {
	if q.IsEmpty() || q.CurrentIndex <= 0 {
		return false
	}
	q.CurrentIndex--
	return true
}

// Jump moves the current index to i. It returns false if i is out of range.
func (q *Queue) Jump(i int) bool {
	if i < 0 || i >= len(q.Tracks) {
		return false
	}
	q.CurrentIndex = i
	return true
}

// Snapshot returns a copy of the queue safe to read outside the engine.
func (q *Queue) Snapshot() Queue {
	cp := Queue{CurrentIndex: q.CurrentIndex}
	cp.Tracks = make([]Track, len(q.Tracks))
	copy(cp.Tracks, q.Tracks)
	return cp
}
