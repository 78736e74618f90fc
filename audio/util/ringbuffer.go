package util

import (
	"sync"
)

// RingBuffer is a fixed-capacity circular buffer of samples. Its length never
// changes after construction: pushing N samples overwrites the N oldest ones.
// A zeroed buffer reads back as silence, which is what a freshly started
// history window should look like.
type RingBuffer struct {
	mu    sync.RWMutex
	buf   []float64
	index int
}

// NewRingBuffer creates a ring buffer holding size samples, all zero.
func NewRingBuffer(size int) *RingBuffer {
	return &RingBuffer{buf: make([]float64, size)}
}

// Size returns the fixed capacity of the buffer.
func (r *RingBuffer) Size() int {
	return len(r.buf)
}

// Push appends data, evicting the same number of oldest samples.
// Pushing more samples than the buffer holds is a programming error.
func (r *RingBuffer) Push(data []float64) {
	if len(data) > len(r.buf) {
		panic("ringbuffer: push larger than capacity")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	n := copy(r.buf[r.index:], data)
	copy(r.buf, data[n:])
	r.index = (r.index + len(data)) % len(r.buf)
}

// Snapshot returns the full buffer contents in chronological order,
// oldest sample first. The returned slice is a copy.
func (r *RingBuffer) Snapshot() []float64 {
	return r.Tail(len(r.buf))
}

// Tail returns the most recent n samples in chronological order.
func (r *RingBuffer) Tail(n int) []float64 {
	if n > len(r.buf) {
		panic("ringbuffer: tail larger than capacity")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]float64, n)
	start := r.index - n
	if start < 0 {
		start += len(r.buf)
	}
	m := copy(out, r.buf[start:])
	copy(out[m:], r.buf[:r.index])
	return out
}
