package engine

import (
	"context"
	"io"
	"time"
)

type eventKind int

const (
	eventTrackComplete eventKind = iota
	eventTrackFailed
)

// workerEvent is a notification from a decode worker. The generation
// lets the engine discard events from workers it has already replaced.
type workerEvent struct {
	kind eventKind
	gen  uint64
	err  error
}

// worker is one decode goroutine. It owns the decoder until cancelled
// and is the ring's only producer.
type worker struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// startWorker launches a decode goroutine for the current decoder.
// Engine goroutine only; the previous worker must already be stopped.
func (e *Engine) startWorker() {
	ctx, cancel := context.WithCancel(context.Background())
	w := &worker{cancel: cancel, done: make(chan struct{})}
	e.gen++

	gen := e.gen
	dec := e.dec

	go func() {
		defer close(w.done)
		for {
			if ctx.Err() != nil {
				return
			}

			block, err := dec.NextBlock()
			if len(block) > 0 {
				if _, perr := e.buf.Push(ctx, block); perr != nil {
					return
				}
			}
			if err == io.EOF {
				e.drainAndComplete(ctx, gen)
				return
			}
			if err != nil {
				e.send(ctx, workerEvent{kind: eventTrackFailed, gen: gen, err: err})
				return
			}
		}
	}()

	e.wrk = w
}

// stopWorker cancels the current worker and waits for it to exit.
// After it returns the ring has no producer. Engine goroutine only.
func (e *Engine) stopWorker() {
	if e.wrk == nil {
		return
	}
	e.wrk.cancel()
	<-e.wrk.done
	e.wrk = nil
}

// drainAndComplete reports track completion only once the buffered
// tail has actually been played, so auto-advance does not cut off the
// last half second of audio.
func (e *Engine) drainAndComplete(ctx context.Context, gen uint64) {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for e.buf.Len() > 0 {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
	e.send(ctx, workerEvent{kind: eventTrackComplete, gen: gen})
}

func (e *Engine) send(ctx context.Context, ev workerEvent) {
	select {
	case e.events <- ev:
	case <-ctx.Done():
	}
}
