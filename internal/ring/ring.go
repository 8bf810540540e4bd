// Package ring implements the single-producer/single-consumer sample
// buffer between the decode worker and the audio output callback.
//
// The producer side (Push) may block with a bounded wait; the consumer
// side (Pop) never blocks and never allocates, which is what makes it
// safe to call from the real-time device callback.
package ring

import (
	"context"
	"sync/atomic"
	"time"
)

// Policy selects the producer's behavior when the buffer is full.
type Policy int

const (
	// PolicyWait retries with a short sleep until space frees up or the
	// context is cancelled. This is the default: no audio is dropped.
	PolicyWait Policy = iota
	// PolicyDropOldest discards the oldest buffered samples to make room.
	PolicyDropOldest
)

const waitTick = 5 * time.Millisecond

// Buffer is a fixed-capacity circular buffer of interleaved float32
// samples. Exactly one goroutine may call Push and exactly one may call
// Pop. The head index is advanced by CAS because PolicyDropOldest lets
// the producer steal space from the consumer side.
type Buffer struct {
	buf    []float32
	mask   uint64
	policy Policy

	head atomic.Uint64 // next sample to read
	tail atomic.Uint64 // next sample to write

	underruns atomic.Uint64
	popped    atomic.Uint64
	dropped   atomic.Uint64
}

// New returns a buffer holding at least capacity samples, rounded up to
// a power of two.
func New(capacity int, policy Policy) *Buffer {
	if capacity < 2 {
		capacity = 2
	}
	n := uint64(1)
	for n < uint64(capacity) {
		n <<= 1
	}
	return &Buffer{
		buf:    make([]float32, n),
		mask:   n - 1,
		policy: policy,
	}
}

// Cap returns the buffer capacity in samples.
func (b *Buffer) Cap() int {
	return len(b.buf)
}

// Len returns the number of buffered samples.
func (b *Buffer) Len() int {
	return int(b.tail.Load() - b.head.Load())
}

// Push writes samples into the buffer and returns the count written.
// Under PolicyWait it blocks in bounded ticks until everything is
// written or ctx is cancelled; under PolicyDropOldest it always writes
// everything, discarding the oldest samples if needed.
func (b *Buffer) Push(ctx context.Context, samples []float32) (int, error) {
	written := 0
	for written < len(samples) {
		n := b.writeSome(samples[written:])
		written += n
		if written == len(samples) {
			break
		}
		if b.policy == PolicyDropOldest {
			b.dropOldest(uint64(len(samples) - written))
			continue
		}
		select {
		case <-ctx.Done():
			return written, ctx.Err()
		case <-time.After(waitTick):
		}
	}
	return written, nil
}

// writeSome copies as many samples as currently fit.
func (b *Buffer) writeSome(samples []float32) int {
	head := b.head.Load()
	tail := b.tail.Load()
	free := uint64(len(b.buf)) - (tail - head)
	n := uint64(len(samples))
	if n > free {
		n = free
	}
	for i := uint64(0); i < n; i++ {
		b.buf[(tail+i)&b.mask] = samples[i]
	}
	b.tail.Store(tail + n)
	return int(n)
}

// dropOldest advances the head past n samples, competing with Pop.
func (b *Buffer) dropOldest(n uint64) {
	for {
		head := b.head.Load()
		tail := b.tail.Load()
		avail := tail - head
		if avail == 0 {
			return
		}
		if n > avail {
			n = avail
		}
		if b.head.CompareAndSwap(head, head+n) {
			b.dropped.Add(n)
			return
		}
	}
}

// Pop copies up to len(dst) samples into dst and returns the count
// copied. It never blocks. The caller is responsible for zero-filling
// the remainder of dst on a short read.
func (b *Buffer) Pop(dst []float32) int {
	for {
		head := b.head.Load()
		tail := b.tail.Load()
		avail := tail - head
		if avail == 0 {
			return 0
		}
		n := uint64(len(dst))
		if n > avail {
			n = avail
		}
		for i := uint64(0); i < n; i++ {
			dst[i] = b.buf[(head+i)&b.mask]
		}
		if b.head.CompareAndSwap(head, head+n) {
			b.popped.Add(n)
			return int(n)
		}
	}
}

// Reset discards all buffered samples and the popped-sample count. The
// producer must be stopped; the consumer may still be inside Pop. Head
// is advanced to tail rather than both indices being zeroed. Zeroing
// tail would let a concurrent Pop pair a fresh head with a stale tail
// and read a bogus length; advancing head keeps both indices monotonic
// so an in-flight Pop either completes against the old samples or fails
// its CAS and re-reads the emptied state.
func (b *Buffer) Reset() {
	b.head.Store(b.tail.Load())
	b.popped.Store(0)
}

// NoteUnderrun records a consumer-side shortfall of n samples.
func (b *Buffer) NoteUnderrun(n int) {
	b.underruns.Add(uint64(n))
}

// Underruns returns the total samples substituted with silence.
func (b *Buffer) Underruns() uint64 {
	return b.underruns.Load()
}

// Popped returns the total samples consumed since the last Reset.
// The engine derives the elapsed position from this.
func (b *Buffer) Popped() uint64 {
	return b.popped.Load()
}

// Dropped returns the total samples discarded under PolicyDropOldest.
func (b *Buffer) Dropped() uint64 {
	return b.dropped.Load()
}
