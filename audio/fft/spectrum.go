package fft

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Spectrum computes one-sided magnitude spectra of fixed-size sample blocks.
// The bin layout is fixed by the sample rate and block size, so the frequency
// axis can be computed once at setup and never again.
type Spectrum struct {
	SampleRate float64
	Size       int
}

// NewSpectrum returns a Spectrum for blocks of size samples at the given rate.
func NewSpectrum(sampleRate float64, size int) *Spectrum {
	return &Spectrum{SampleRate: sampleRate, Size: size}
}

// Bins returns the number of one-sided frequency bins, size/2+1.
func (s *Spectrum) Bins() int {
	return s.Size/2 + 1
}

// Frequencies returns the center frequency of every bin: k * rate / size Hz.
func (s *Spectrum) Frequencies() []float64 {
	freqs := make([]float64, s.Bins())
	for k := range freqs {
		freqs[k] = float64(k) * s.SampleRate / float64(s.Size)
	}
	return freqs
}

// Magnitudes computes the normalized one-sided magnitude spectrum of block:
// |FFT(block)[k]| / size for k in [0, size/2]. The result is non-negative
// and depends only on the block contents.
func (s *Spectrum) Magnitudes(block []float64) []float64 {
	coeffs := fft.FFTReal(block)

	mags := make([]float64, len(block)/2+1)
	n := float64(len(block))
	for k := range mags {
		mags[k] = cmplx.Abs(coeffs[k]) / n
	}
	return mags
}
