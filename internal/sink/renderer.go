package sink

import (
	"sync/atomic"

	"github.com/arialabs/aria/internal/ring"
)

// Renderer is the real-time render pass shared by every sink backend.
// Render is called from the device callback and must not block,
// allocate, or take locks: it reads two atomics and pops the ring.
type Renderer struct {
	Ring    *ring.Buffer
	Playing *atomic.Bool
	Volume  *atomic.Int32 // 0-100, linear gain
}

// Render fills out with scaled samples from the ring, or silence when
// playback is not active. Shortfalls are zero-filled and counted as
// underruns.
func (r *Renderer) Render(out []float32) {
	if !r.Playing.Load() {
		zero(out)
		return
	}

	n := r.Ring.Pop(out)
	gain := float32(r.Volume.Load()) / 100
	for i := 0; i < n; i++ {
		out[i] *= gain
	}
	if n < len(out) {
		zero(out[n:])
		r.Ring.NoteUnderrun(len(out) - n)
	}
}

func zero(s []float32) {
	for i := range s {
		s[i] = 0
	}
}
