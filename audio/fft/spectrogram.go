package fft

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// dbFloor keeps log scaling defined on silent input. Power below this reads
// as the bottom of the color scale.
const dbFloor = 1e-12

// STFT computes short-time power spectra over a long sample window, the raw
// material for a spectrogram. Consecutive analysis windows overlap by Overlap
// samples, so the hop between frames is WindowSize - Overlap.
type STFT struct {
	SampleRate float64
	WindowSize int
	Overlap    int

	win []float64
}

// NewSTFT returns an STFT with a Hann analysis window.
func NewSTFT(sampleRate float64, windowSize, overlap int) *STFT {
	return &STFT{
		SampleRate: sampleRate,
		WindowSize: windowSize,
		Overlap:    overlap,
		win:        window.Hann(windowSize),
	}
}

// FloorDB returns the dB value silent cells land on, set by the power floor.
func (s *STFT) FloorDB() float64 {
	return 10 * math.Log10(dbFloor)
}

// Hop returns the stride between consecutive analysis windows.
func (s *STFT) Hop() int {
	return s.WindowSize - s.Overlap
}

// Bins returns the number of one-sided frequency bins per frame.
func (s *STFT) Bins() int {
	return s.WindowSize/2 + 1
}

// NumFrames returns how many full analysis windows fit in n samples.
func (s *STFT) NumFrames(n int) int {
	if n < s.WindowSize {
		return 0
	}
	return (n-s.WindowSize)/s.Hop() + 1
}

// BinFrequency returns the center frequency of bin k in Hz.
func (s *STFT) BinFrequency(k int) float64 {
	return float64(k) * s.SampleRate / float64(s.WindowSize)
}

// FrameTime returns the start time of frame i in seconds, relative to the
// beginning of the sample window.
func (s *STFT) FrameTime(i int) float64 {
	return float64(i*s.Hop()) / s.SampleRate
}

// PowerDB slides the analysis window across samples and returns per-frame
// one-sided power spectra on a decibel scale, indexed [frame][bin]. The
// spectrogram is recomputed whole on every call; there is no incremental
// form.
func (s *STFT) PowerDB(samples []float64) [][]float64 {
	frames := s.NumFrames(len(samples))
	out := make([][]float64, frames)

	windowed := make([]float64, s.WindowSize)
	for i := 0; i < frames; i++ {
		off := i * s.Hop()
		for j := range windowed {
			windowed[j] = samples[off+j] * s.win[j]
		}
		coeffs := fft.FFTReal(windowed)

		row := make([]float64, s.Bins())
		for k := range row {
			p := cmplx.Abs(coeffs[k])
			row[k] = 10 * math.Log10(p*p+dbFloor)
		}
		out[i] = row
	}
	return out
}
