package audio

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gordonklaus/portaudio"
)

// Config describes the capture stream to open.
type Config struct {
	// BlockSize is the number of frames delivered per callback.
	BlockSize int
	// Channels is the number of input channels to request.
	Channels int
	// SampleRate is the capture sample rate in Hz.
	SampleRate float64
}

// Block is one capture delivery: the samples plus the metadata portaudio
// hands to the stream callback.
type Block struct {
	// Samples holds the first channel of the delivery. The slice is owned by
	// the receiver; it does not alias device memory.
	Samples []float32
	// Frames is the delivered frame count.
	Frames int
	// Time is the ADC capture time of the first sample.
	Time time.Duration
	// Flags carries the stream status bits. InputOverflow means the device
	// dropped samples before we read them.
	Flags portaudio.StreamCallbackFlags
}

// NewSource opens the default input device in callback mode and returns a
// channel of capture blocks. The portaudio callback runs on the device's
// real-time thread: it copies the delivery and hands it off with a
// non-blocking send, so a stalled consumer costs a dropped block and a log
// line rather than an audible glitch.
//
// Open or start failures are reported on the error channel; the stream and
// portaudio itself are released when ctx is cancelled.
func NewSource(ctx context.Context, cfg *Config) (<-chan Block, <-chan error) {
	out := make(chan Block, 4)
	errc := make(chan error, 1)

	go func() {
		defer close(out)

		portaudio.Initialize()
		defer portaudio.Terminate()

		callback := func(in []float32, timeInfo portaudio.StreamCallbackTimeInfo, flags portaudio.StreamCallbackFlags) {
			samples := make([]float32, len(in))
			copy(samples, in)

			block := Block{
				Samples: samples,
				Frames:  len(in),
				Time:    timeInfo.InputBufferAdcTime,
				Flags:   flags,
			}
			select {
			case out <- block:
			default:
				log.Println("[WARNING] Input buffer overrun! Block was dropped.")
			}
		}

		stream, err := portaudio.OpenDefaultStream(
			cfg.Channels, 0, cfg.SampleRate, cfg.BlockSize, callback)
		if err != nil {
			errc <- fmt.Errorf("opening stream: %w", err)
			return
		}
		defer stream.Close()

		if err := stream.Start(); err != nil {
			errc <- fmt.Errorf("starting stream: %w", err)
			return
		}
		defer stream.Stop()

		<-ctx.Done()
	}()

	return out, errc
}
