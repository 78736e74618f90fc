// micspec opens the default capture device and shows a live magnitude
// spectrum over a rolling spectrogram, refreshed on a fixed interval.
package main

import (
	"context"
	"flag"
	"runtime"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/golang/glog"
	"github.com/gordonklaus/portaudio"
	"github.com/sirupsen/logrus"

	"github.com/spectralab/micspec/audio"
	"github.com/spectralab/micspec/audio/fft"
	"github.com/spectralab/micspec/gfx"
	"github.com/spectralab/micspec/gfx/figure"
)

const configPath = "micspec.yaml"

func init() {
	// the GL context and event loop must stay on the main thread
	runtime.LockOSThread()
}

func main() {
	cfg, err := loadConfig(configPath)
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	setupLogging(cfg)
	defer glog.Flush()

	logrus.WithFields(logrus.Fields{
		"sample_rate":     cfg.SampleRate,
		"block_samples":   cfg.blockSize(),
		"history_samples": humanize.Comma(int64(cfg.historySize())),
		"render_interval": cfg.renderInterval(),
	}).Info("starting capture")

	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		logDevices()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	capture, err := audio.NewCapture(cfg.blockSize(), cfg.historySize())
	if err != nil {
		logrus.WithError(err).Fatal("bad buffer geometry")
	}

	source, errc := audio.NewSource(ctx, &audio.Config{
		BlockSize:  cfg.blockSize(),
		Channels:   1,
		SampleRate: cfg.SampleRate,
	})

	// ingest: the only writer to the shared capture state. Its channel closes
	// only after the source has stopped the stream and released portaudio.
	ingestDone := make(chan struct{})
	go func() {
		defer close(ingestDone)
		for block := range source {
			capture.Ingest(block)
		}
	}()

	// a source error means there is no stream to show; bail out
	go func() {
		if err := <-errc; err != nil {
			logrus.WithError(err).Fatal("audio stream failed")
		}
	}()

	display, err := gfx.NewDisplay(ctx, &gfx.DisplayConfig{
		Width:       cfg.WindowWidth,
		Height:      cfg.WindowHeight,
		ImageWidth:  cfg.WindowWidth,
		ImageHeight: cfg.WindowHeight,
		Title:       "micspec",
	})
	if err != nil {
		logrus.WithError(err).Fatal("creating display")
	}

	spectrum := fft.NewSpectrum(cfg.SampleRate, cfg.blockSize())
	stft := fft.NewSTFT(cfg.SampleRate, cfg.STFTWindow, cfg.STFTOverlap)
	fig := figure.New(figure.Config{
		Width:            cfg.WindowWidth,
		Height:           cfg.WindowHeight,
		SpectrumMaxHz:    cfg.SpectrumMaxHz,
		SpectrumMaxAmp:   cfg.SpectrumMaxAmp,
		SpectrogramMaxHz: cfg.SpectrogramMaxHz,
		DBRange:          cfg.DBRange,
	}, spectrum.Frequencies(), stft)

	r := newRenderer(capture, spectrum, stft, fig, cfg.renderInterval())
	display.Run(r.tick)

	// window closed; tear down the stream and wait for the source to finish
	// releasing the device before reporting
	cancel()
	<-ingestDone

	stats := capture.Stats()
	logrus.WithFields(logrus.Fields{
		"delivered": stats.Delivered,
		"dropped":   stats.Dropped,
		"flagged":   stats.Flagged,
	}).Info("capture stopped")
}

// setupLogging wires the verbosity knob from the config into glog and
// logrus. glog reads its settings from package flags; with no command-line
// surface they are set programmatically, and parsing an empty argument list
// keeps glog from complaining about unparsed flags.
func setupLogging(cfg config) {
	_ = flag.CommandLine.Parse(nil)
	_ = flag.Set("logtostderr", "true")
	_ = flag.Set("v", strconv.Itoa(cfg.Verbosity))

	if cfg.Verbosity > 0 {
		logrus.SetLevel(logrus.DebugLevel)
	}
}

func logDevices() {
	if err := portaudio.Initialize(); err != nil {
		logrus.WithError(err).Warn("portaudio init for device listing failed")
		return
	}
	defer portaudio.Terminate()

	inv, err := audio.DeviceInventory()
	if err != nil {
		logrus.WithError(err).Warn("listing devices failed")
		return
	}
	logrus.Debug(inv)
}
