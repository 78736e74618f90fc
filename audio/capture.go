package audio

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/golang/glog"
	"github.com/gordonklaus/portaudio"
	"github.com/sirupsen/logrus"

	"github.com/spectralab/micspec/audio/util"
)

// Capture owns the shared state between the ingest path and the render loop:
// the latest delivered block and the rolling history window. The ingest
// goroutine is the only writer; the render loop reads snapshots. Both sides
// go through the container's own locks, so a reader always sees buffers of
// the right length even when the content is mid-rotation.
type Capture struct {
	blockSize int

	mu     sync.RWMutex
	latest []float64

	history *util.RingBuffer

	delivered atomic.Uint64
	dropped   atomic.Uint64
	flagged   atomic.Uint64
}

// CaptureStats is a snapshot of ingest counters.
type CaptureStats struct {
	Delivered uint64 // blocks accepted into the buffers
	Dropped   uint64 // deliveries rejected (wrong size or ingest failure)
	Flagged   uint64 // deliveries carrying overflow/underflow status bits
}

// NewCapture allocates the shared buffers: a latest-block slot of blockSize
// samples and a history window of historySize samples, both silent. The
// history must rotate in whole blocks, so historySize has to be a positive
// multiple of blockSize.
func NewCapture(blockSize, historySize int) (*Capture, error) {
	if blockSize <= 0 {
		return nil, fmt.Errorf("block size must be positive, got %d", blockSize)
	}
	if historySize <= 0 || historySize%blockSize != 0 {
		return nil, fmt.Errorf("history size %d is not a positive multiple of block size %d",
			historySize, blockSize)
	}
	return &Capture{
		blockSize: blockSize,
		latest:    make([]float64, blockSize),
		history:   util.NewRingBuffer(historySize),
	}, nil
}

// BlockSize returns the expected delivery size in samples.
func (c *Capture) BlockSize() int { return c.blockSize }

// HistorySize returns the fixed length of the history window in samples.
func (c *Capture) HistorySize() int { return c.history.Size() }

// Ingest accepts one capture delivery: it overwrites the latest-block slot
// and rotates the block into the history window. Deliveries whose length
// does not match the configured block size are dropped; the buffers keep
// their length no matter what arrives. Ingest never panics out to the
// caller, since the capture source expects the callback path to complete.
func (c *Capture) Ingest(block Block) {
	defer func() {
		if r := recover(); r != nil {
			c.dropped.Add(1)
			logrus.WithField("panic", r).Error("ingest failed, block dropped")
		}
	}()

	if len(block.Samples) != c.blockSize {
		c.dropped.Add(1)
		logrus.WithFields(logrus.Fields{
			"got":  len(block.Samples),
			"want": c.blockSize,
		}).Warn("dropping block with unexpected size")
		return
	}

	if block.Flags&(portaudio.InputOverflow|portaudio.InputUnderflow) != 0 {
		c.flagged.Add(1)
		if glog.V(2) {
			glog.Infof("capture status flags set: %v (adc time %v)", block.Flags, block.Time)
		}
	}

	samples := make([]float64, len(block.Samples))
	for i, v := range block.Samples {
		samples[i] = float64(v)
	}

	c.mu.Lock()
	copy(c.latest, samples)
	c.mu.Unlock()

	c.history.Push(samples)
	c.delivered.Add(1)
}

// LatestBlock returns a copy of the most recent block, silence before the
// first delivery.
func (c *Capture) LatestBlock() []float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]float64, len(c.latest))
	copy(out, c.latest)
	return out
}

// History returns the history window in chronological order, oldest first.
func (c *Capture) History() []float64 {
	return c.history.Snapshot()
}

// Stats returns the current ingest counters.
func (c *Capture) Stats() CaptureStats {
	return CaptureStats{
		Delivered: c.delivered.Load(),
		Dropped:   c.dropped.Load(),
		Flagged:   c.flagged.Load(),
	}
}
