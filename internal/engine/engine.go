// Package engine implements the playback engine: the single owner of
// queue, transport state, volume, and device selection. Commands are
// applied one at a time on the engine goroutine; the audio callback
// only ever touches the ring buffer and two atomics.
package engine

import (
	stderrors "errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/arialabs/aria/internal/core"
	"github.com/arialabs/aria/internal/decode"
	"github.com/arialabs/aria/internal/errors"
	"github.com/arialabs/aria/internal/library"
	"github.com/arialabs/aria/internal/playlist"
	"github.com/arialabs/aria/internal/ring"
	"github.com/arialabs/aria/internal/sink"
)

// FailurePolicy selects the engine's reaction to per-track decode
// failures.
type FailurePolicy int

const (
	// FailureSkip advances past failing tracks, escalating to the
	// Error state after too many consecutive failures.
	FailureSkip FailurePolicy = iota
	// FailureStop transitions to the Error state on the first failure.
	FailureStop
)

// Options configures an Engine. Zero values get sensible defaults.
type Options struct {
	// Open opens decoders; defaults to decode.Open.
	Open decode.OpenFunc
	// Output is the audio sink; required.
	Output sink.Sink
	// Store persists playlists; optional.
	Store *playlist.Store
	// Log defaults to a nop logger.
	Log *zap.Logger

	RingCapacity           time.Duration
	LowWater               time.Duration
	OverflowPolicy         ring.Policy
	OnDecodeError          FailurePolicy
	MaxConsecutiveFailures int

	Volume int    // initial volume, clamped to [0,100]
	Device string // initial device selection, "" for default
}

// command is one serialized unit of work for the engine goroutine.
type command struct {
	fn    func() error
	reply chan error
}

// Engine is the playback state machine. All exported methods are safe
// for concurrent use; they are applied strictly one at a time.
type Engine struct {
	open  decode.OpenFunc
	out   sink.Sink
	store *playlist.Store
	log   *zap.Logger

	lowWater    int // samples
	policy      FailurePolicy
	maxFailures int

	cmds   chan command
	events chan workerEvent
	quit   chan struct{}
	closed chan struct{}

	// Engine-goroutine-owned state. Never touched elsewhere.
	queue     *core.Queue
	state     core.State
	errCause  error
	dec       decode.Decoder
	wrk       *worker
	gen       uint64
	trackBase time.Duration
	device    string
	sinkOpen  bool
	failures  int

	// Shared with the device callback.
	buf     *ring.Buffer
	playing atomic.Bool
	volume  atomic.Int32

	// Lock-free snapshot source for concurrent readers.
	snap atomic.Pointer[snapState]

	// Signaled when the queue finishes or playback halts on error.
	finished chan struct{}

	lastUnderruns uint64
}

// snapState is the slow-changing half of a snapshot; elapsed time is
// derived from ring counters at read time.
type snapState struct {
	state     core.State
	track     *core.Track
	index     int
	queueLen  int
	duration  time.Duration
	trackBase time.Duration
	device    string
	errMsg    string
}

// New creates and starts an engine.
func New(opts Options) *Engine {
	if opts.Open == nil {
		opts.Open = decode.Open
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.RingCapacity <= 0 {
		opts.RingCapacity = 500 * time.Millisecond
	}
	if opts.LowWater < 0 || opts.LowWater >= opts.RingCapacity {
		opts.LowWater = opts.RingCapacity / 4
	}
	if opts.MaxConsecutiveFailures < 1 {
		opts.MaxConsecutiveFailures = 3
	}

	e := &Engine{
		open:        opts.Open,
		out:         opts.Output,
		store:       opts.Store,
		log:         opts.Log,
		lowWater:    samplesFor(opts.LowWater),
		policy:      opts.OnDecodeError,
		maxFailures: opts.MaxConsecutiveFailures,
		cmds:        make(chan command),
		events:      make(chan workerEvent, 16),
		quit:        make(chan struct{}),
		closed:      make(chan struct{}),
		queue:       core.NewQueue(),
		device:      opts.Device,
		buf:         ring.New(samplesFor(opts.RingCapacity), opts.OverflowPolicy),
		finished:    make(chan struct{}, 1),
	}
	e.volume.Store(int32(clampVolume(opts.Volume)))
	e.publish()

	go e.run()
	return e
}

func samplesFor(d time.Duration) int {
	frames := int(decode.SampleRate.N(d))
	return frames * decode.Channels
}

func clampVolume(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// run is the engine goroutine: one command or worker event at a time.
func (e *Engine) run() {
	defer close(e.closed)
	for {
		select {
		case c := <-e.cmds:
			c.reply <- c.fn()
		case ev := <-e.events:
			e.handleEvent(ev)
		case <-e.quit:
			e.teardown()
			return
		}
	}
}

// do submits fn to the engine goroutine and waits for its result.
func (e *Engine) do(fn func() error) error {
	c := command{fn: fn, reply: make(chan error, 1)}
	select {
	case e.cmds <- c:
	case <-e.closed:
		return errors.ErrEngineClosed
	}
	select {
	case err := <-c.reply:
		return err
	case <-e.closed:
		return errors.ErrEngineClosed
	}
}

// Close stops playback, tears down the worker and sink, and shuts the
// engine down. Subsequent commands fail with ErrEngineClosed.
func (e *Engine) Close() error {
	select {
	case <-e.quit:
	default:
		close(e.quit)
	}
	<-e.closed
	return nil
}

func (e *Engine) teardown() {
	e.stopPlayback()
	if e.sinkOpen {
		if err := e.out.Close(); err != nil {
			e.log.Warn("closing audio sink", zap.Error(err))
		}
		e.sinkOpen = false
	}
}

// Finished is signaled when the queue plays to completion or playback
// halts on an unrecoverable error.
func (e *Engine) Finished() <-chan struct{} {
	return e.finished
}

func (e *Engine) signalFinished() {
	select {
	case e.finished <- struct{}{}:
	default:
	}
}

// publish refreshes the lock-free snapshot state. Called after every
// mutation on the engine goroutine.
func (e *Engine) publish() {
	s := &snapState{
		state:     e.state,
		index:     e.queue.CurrentIndex,
		queueLen:  e.queue.Len(),
		trackBase: e.trackBase,
		device:    e.device,
	}
	if t := e.queue.Current(); t != nil {
		cp := *t
		s.track = &cp
		s.duration = t.Duration
	}
	if e.errCause != nil {
		s.errMsg = e.errCause.Error()
	}
	e.snap.Store(s)
}

// Snapshot returns a read-only view of the engine state. It never
// blocks on the command path: many readers may call it concurrently
// while commands are in flight.
func (e *Engine) Snapshot() core.Snapshot {
	s := e.snap.Load()

	elapsed := s.trackBase
	if s.state == core.StatePlaying || s.state == core.StatePaused || s.state == core.StateSeeking {
		frames := e.buf.Popped() / decode.Channels
		elapsed += time.Duration(frames) * time.Second / time.Duration(decode.SampleRate)
	}
	if s.duration > 0 && elapsed > s.duration {
		elapsed = s.duration
	}

	return core.Snapshot{
		State:      s.state,
		Track:      s.track,
		TrackIndex: s.index,
		QueueLen:   s.queueLen,
		Elapsed:    elapsed,
		Duration:   s.duration,
		Volume:     int(e.volume.Load()),
		Device:     s.device,
		Err:        s.errMsg,
	}
}

// Underruns reports total samples replaced with silence so far.
func (e *Engine) Underruns() uint64 {
	return e.buf.Underruns()
}

// ---- transport commands ----

// Play enqueues path (file or directory) and jumps to it, or resumes/
// starts playback at the current index when path is empty.
func (e *Engine) Play(path string) error {
	return e.do(func() error {
		if e.state == core.StateError {
			e.stopPlayback()
		}

		if path != "" {
			tracks, err := library.Expand(path)
			if err != nil {
				return err
			}
			jumpTo := e.queue.Len()
			e.queue.Append(tracks...)
			e.queue.Jump(jumpTo)
			e.publish()
			return e.startCurrent(0)
		}

		switch e.state {
		case core.StatePaused:
			return e.resumeLocked()
		case core.StatePlaying, core.StateSeeking:
			return nil
		}

		if e.queue.IsEmpty() {
			return errors.ErrEmptyQueue
		}
		return e.startCurrent(0)
	})
}

// Pause suspends output. Only valid while Playing.
func (e *Engine) Pause() error {
	return e.do(func() error {
		if e.state != core.StatePlaying {
			return fmt.Errorf("%w: pause requires Playing, engine is %s", errors.ErrInvalidState, e.state)
		}
		e.playing.Store(false)
		e.state = core.StatePaused
		e.publish()
		return nil
	})
}

// Resume continues output. Only valid while Paused.
func (e *Engine) Resume() error {
	return e.do(func() error {
		if e.state != core.StatePaused {
			return fmt.Errorf("%w: resume requires Paused, engine is %s", errors.ErrInvalidState, e.state)
		}
		return e.resumeLocked()
	})
}

func (e *Engine) resumeLocked() error {
	e.playing.Store(true)
	e.state = core.StatePlaying
	e.publish()
	return nil
}

// Stop halts playback and resets the position to zero. It never fails.
func (e *Engine) Stop() error {
	return e.do(func() error {
		e.stopPlayback()
		e.publish()
		return nil
	})
}

// stopPlayback tears down worker and decoder and resets position.
// Runs on the engine goroutine.
func (e *Engine) stopPlayback() {
	e.playing.Store(false)
	e.stopWorker()
	if e.dec != nil {
		if err := e.dec.Close(); err != nil {
			e.log.Warn("closing decoder", zap.Error(err))
		}
		e.dec = nil
	}
	e.buf.Reset()
	e.trackBase = 0
	e.state = core.StateStopped
	e.errCause = nil
	e.failures = 0
}

// Next advances to the next queue entry and plays it.
func (e *Engine) Next() error {
	return e.do(func() error { return e.step(+1) })
}

// Prev retreats to the previous queue entry and plays it.
func (e *Engine) Prev() error {
	return e.do(func() error { return e.step(-1) })
}

func (e *Engine) step(dir int) error {
	if e.queue.IsEmpty() {
		return errors.ErrEmptyQueue
	}
	moved := false
	if dir > 0 {
		moved = e.queue.Advance()
	} else {
		moved = e.queue.Retreat()
	}
	if !moved {
		return fmt.Errorf("%w: queue boundary", errors.ErrNoSuchTrack)
	}
	e.publish()
	if e.state == core.StateStopped || e.state == core.StateError {
		return nil
	}
	return e.startCurrent(0)
}

// Seek repositions the current track. The target is clamped to
// [0, duration]; the engine passes through Seeking and returns to the
// state it was entered from.
func (e *Engine) Seek(target time.Duration) error {
	return e.do(func() error {
		if e.dec == nil {
			return errors.ErrNoTrackLoaded
		}
		prior := e.state
		if prior != core.StatePlaying && prior != core.StatePaused {
			return fmt.Errorf("%w: seek requires Playing or Paused, engine is %s", errors.ErrInvalidState, e.state)
		}

		if target < 0 {
			target = 0
		}
		if dur := e.dec.Duration(); dur > 0 && target > dur {
			target = dur
		}

		e.state = core.StateSeeking
		e.playing.Store(false)
		e.publish()

		e.stopWorker()
		e.buf.Reset()
		if err := e.dec.Seek(target); err != nil {
			e.state = core.StateError
			e.errCause = err
			e.publish()
			e.signalFinished()
			return err
		}
		e.trackBase = target
		e.startWorker()

		e.state = prior
		if prior == core.StatePlaying {
			e.primeRing()
			e.playing.Store(true)
		}
		e.publish()
		return nil
	})
}

// SetVolume clamps v to [0,100] and applies it on the next callback.
// It never fails.
func (e *Engine) SetVolume(v int) error {
	return e.do(func() error {
		e.volume.Store(int32(clampVolume(v)))
		return nil
	})
}

// Volume returns the current volume.
func (e *Engine) Volume() int {
	return int(e.volume.Load())
}

// SelectDevice re-registers the output sink on the named device. If
// audio is flowing it restarts on the new device without losing the
// decode position. An unknown identifier is rejected with the engine
// state and the current stream untouched; only a sink failure on the
// resolved device escalates to the Error state.
func (e *Engine) SelectDevice(id string) error {
	return e.do(func() error {
		selected := id
		if id != "" {
			d, err := e.resolveDevice(id)
			if err != nil {
				return err
			}
			selected = d.ID
		}
		if e.sinkOpen {
			if err := e.out.Open(selected, e.renderer().Render); err != nil {
				var fatal *errors.FatalError
				if stderrors.As(err, &fatal) {
					e.enterError(err)
				}
				return err
			}
		}
		e.device = selected
		e.publish()
		return nil
	})
}

func (e *Engine) resolveDevice(id string) (core.Device, error) {
	devices, err := e.out.Devices()
	if err != nil {
		return core.Device{}, err
	}
	for _, d := range devices {
		if d.ID == id || d.Name == id {
			return d, nil
		}
	}
	// 1-based index form, matching `device list` output.
	var idx int
	if _, err := fmt.Sscanf(id, "%d", &idx); err == nil && idx >= 1 && idx <= len(devices) {
		return devices[idx-1], nil
	}
	return core.Device{}, fmt.Errorf("%w: %q", errors.ErrDeviceNotFound, id)
}

// Devices enumerates playback devices, marking the active selection.
func (e *Engine) Devices() ([]core.Device, error) {
	var devices []core.Device
	err := e.do(func() error {
		var err error
		devices, err = e.out.Devices()
		if err != nil {
			return err
		}
		for i := range devices {
			devices[i].IsActive = devices[i].ID == e.device ||
				(e.device == "" && devices[i].IsDefault)
		}
		return nil
	})
	return devices, err
}

// ---- queue commands ----

// QueueAdd expands path and appends the resulting tracks. It returns
// the number of tracks added.
func (e *Engine) QueueAdd(path string) (int, error) {
	var added int
	err := e.do(func() error {
		tracks, err := library.Expand(path)
		if err != nil {
			return err
		}
		e.queue.Append(tracks...)
		added = len(tracks)
		e.publish()
		return nil
	})
	return added, err
}

// QueueClear empties the queue, stopping playback first if needed. It
// never fails.
func (e *Engine) QueueClear() error {
	return e.do(func() error {
		e.stopPlayback()
		e.queue.Clear()
		e.publish()
		return nil
	})
}

// QueueList returns a copy of the queue.
func (e *Engine) QueueList() (core.Queue, error) {
	var q core.Queue
	err := e.do(func() error {
		q = e.queue.Snapshot()
		return nil
	})
	return q, err
}

// ---- playlist commands ----

// PlaylistSave persists the current queue under name, overwriting any
// existing playlist with that name.
func (e *Engine) PlaylistSave(name string) error {
	return e.do(func() error {
		if e.store == nil {
			return errors.ErrPlaylistNotFound
		}
		q := e.queue.Snapshot()
		return e.store.Save(name, q.Tracks)
	})
}

// PlaylistLoad replaces the queue with the named playlist.
func (e *Engine) PlaylistLoad(name string) error {
	return e.do(func() error {
		if e.store == nil {
			return errors.ErrPlaylistNotFound
		}
		tracks, err := e.store.Load(name)
		if err != nil {
			return err
		}
		e.stopPlayback()
		e.queue.Clear()
		e.queue.Append(tracks...)
		e.publish()
		return nil
	})
}

// PlaylistDelete removes the named playlist.
func (e *Engine) PlaylistDelete(name string) error {
	return e.do(func() error {
		if e.store == nil {
			return errors.ErrPlaylistNotFound
		}
		return e.store.Delete(name)
	})
}

// PlaylistList names all stored playlists.
func (e *Engine) PlaylistList() ([]string, error) {
	var names []string
	err := e.do(func() error {
		if e.store == nil {
			return nil
		}
		var err error
		names, err = e.store.List()
		return err
	})
	return names, err
}

// ---- track lifecycle (engine goroutine only) ----

// startCurrent opens the current queue entry and begins playback at
// the given offset.
func (e *Engine) startCurrent(at time.Duration) error {
	track := e.queue.Current()
	if track == nil {
		return errors.ErrEmptyQueue
	}

	e.playing.Store(false)
	e.stopWorker()
	if e.dec != nil {
		e.dec.Close()
		e.dec = nil
	}
	e.buf.Reset()

	dec, err := e.open(track.Path)
	if err != nil {
		return e.noteTrackFailure(err)
	}

	// Refine duration now that the decoder knows it.
	if d := dec.Duration(); d > 0 {
		track.Duration = d
	}

	if at > 0 {
		if err := dec.Seek(at); err != nil {
			dec.Close()
			return e.noteTrackFailure(err)
		}
	}

	e.dec = dec
	e.trackBase = at
	e.failures = 0
	e.errCause = nil
	e.startWorker()

	if err := e.ensureSink(); err != nil {
		e.enterError(err)
		return err
	}

	e.state = core.StatePlaying
	e.primeRing()
	e.playing.Store(true)
	e.publish()

	e.log.Info("playing track",
		zap.String("path", track.Path),
		zap.Duration("start", at),
		zap.Duration("duration", track.Duration))
	return nil
}

// ensureSink opens the output device on first use.
func (e *Engine) ensureSink() error {
	if e.sinkOpen {
		return nil
	}
	if err := e.out.Open(e.device, e.renderer().Render); err != nil {
		return err
	}
	e.sinkOpen = true
	return nil
}

func (e *Engine) renderer() *sink.Renderer {
	return &sink.Renderer{
		Ring:    e.buf,
		Playing: &e.playing,
		Volume:  &e.volume,
	}
}

// primeRing waits briefly for the worker to fill the ring to the
// low-water mark so the first callback does not underrun. The wait is
// bounded; a slow decoder just starts with a short silence instead.
func (e *Engine) primeRing() {
	deadline := time.Now().Add(250 * time.Millisecond)
	for e.buf.Len() < e.lowWater && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
}

// enterError transitions to the Error state, halting output.
func (e *Engine) enterError(cause error) {
	e.log.Error("entering error state", zap.Error(cause))
	e.playing.Store(false)
	e.stopWorker()
	if e.dec != nil {
		e.dec.Close()
		e.dec = nil
	}
	e.buf.Reset()
	e.state = core.StateError
	e.errCause = cause
	e.publish()
	e.signalFinished()
}

// noteTrackFailure applies the decode-failure policy after track open
// or decode fails. Returns the error to surface to the caller.
func (e *Engine) noteTrackFailure(cause error) error {
	e.failures++
	e.log.Warn("track failed",
		zap.Error(cause),
		zap.Int("consecutive_failures", e.failures))

	if e.policy == FailureStop {
		e.enterError(cause)
		return cause
	}
	if e.failures >= e.maxFailures {
		e.enterError(fmt.Errorf("%d consecutive tracks failed, last: %w", e.failures, cause))
		return cause
	}

	// Skip policy: try the rest of the queue.
	if e.queue.Advance() {
		e.publish()
		if err := e.startCurrent(0); err != nil {
			return cause
		}
		return cause
	}

	// Nothing left to try.
	e.playing.Store(false)
	e.state = core.StateStopped
	e.publish()
	e.signalFinished()
	return cause
}

// handleEvent processes worker notifications. Stale generations are
// dropped: they belong to a track that has already been replaced.
func (e *Engine) handleEvent(ev workerEvent) {
	if ev.gen != e.gen {
		return
	}

	e.reportUnderruns()

	switch ev.kind {
	case eventTrackComplete:
		e.failures = 0
		if e.state != core.StatePlaying && e.state != core.StatePaused {
			return
		}
		if e.queue.Advance() {
			e.publish()
			if err := e.startCurrent(0); err != nil {
				e.log.Warn("auto-advance failed", zap.Error(err))
			}
			return
		}
		// Parked at the end of the queue: index unchanged, position
		// held at the end of the last track.
		e.playing.Store(false)
		e.stopWorker()
		if e.dec != nil {
			if d := e.dec.Duration(); d > 0 {
				e.trackBase = d
			}
			e.dec.Close()
			e.dec = nil
		}
		e.buf.Reset()
		e.state = core.StateStopped
		e.publish()
		e.signalFinished()
		e.log.Info("queue finished")

	case eventTrackFailed:
		if e.state == core.StateStopped {
			return
		}
		e.noteTrackFailure(ev.err)
	}
}

// reportUnderruns logs ring starvation since the last event.
func (e *Engine) reportUnderruns() {
	total := e.buf.Underruns()
	if total > e.lastUnderruns {
		e.log.Warn("audio underrun",
			zap.Uint64("samples", total-e.lastUnderruns))
		e.lastUnderruns = total
	}
}
