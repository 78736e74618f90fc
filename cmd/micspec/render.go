package main

import (
	"image"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/spectralab/micspec/audio"
	"github.com/spectralab/micspec/audio/fft"
	"github.com/spectralab/micspec/gfx/figure"
)

// renderer is the periodic update cycle: on each due tick it snapshots the
// shared capture state, recomputes both views, and redraws the figure. It is
// deliberately unsynchronized with ingest beyond the capture container's own
// locks; a frame mixing old and new samples is fine, a dead render loop is
// not.
type renderer struct {
	capture  *audio.Capture
	spectrum *fft.Spectrum
	stft     *fft.STFT
	fig      *figure.Figure

	interval time.Duration
	last     time.Time
}

func newRenderer(capture *audio.Capture, spectrum *fft.Spectrum, stft *fft.STFT,
	fig *figure.Figure, interval time.Duration) *renderer {
	return &renderer{
		capture:  capture,
		spectrum: spectrum,
		stft:     stft,
		fig:      fig,
		interval: interval,
	}
}

// tick runs inside the display loop. It returns true when the backing image
// was redrawn and needs re-upload. Any panic is confined to the tick: the
// frame is skipped and the loop keeps going.
func (r *renderer) tick(img *image.RGBA) (updated bool) {
	if time.Since(r.last) < r.interval {
		return false
	}
	r.last = time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			logrus.WithField("panic", rec).Error("render tick failed, frame skipped")
			updated = false
		}
	}()

	mags := r.spectrum.Magnitudes(r.capture.LatestBlock())
	grid := r.stft.PowerDB(r.capture.History())

	if err := r.fig.Draw(mags, grid, img); err != nil {
		logrus.WithError(err).Warn("figure draw failed, frame skipped")
		return false
	}
	return true
}
