package main

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// config holds the startup parameters. Defaults are compiled in; a
// micspec.yaml next to the working directory overrides them. There are no
// flags and no environment variables.
type config struct {
	SampleRate      float64 `yaml:"sample_rate"`
	BlockDuration   float64 `yaml:"block_duration"`   // seconds
	HistoryDuration float64 `yaml:"history_duration"` // seconds

	RenderIntervalMS int `yaml:"render_interval_ms"`

	STFTWindow  int `yaml:"stft_window"`
	STFTOverlap int `yaml:"stft_overlap"`

	WindowWidth  int `yaml:"window_width"`
	WindowHeight int `yaml:"window_height"`

	SpectrumMaxHz    float64 `yaml:"spectrum_max_hz"`
	SpectrumMaxAmp   float64 `yaml:"spectrum_max_amp"`
	SpectrogramMaxHz float64 `yaml:"spectrogram_max_hz"`
	DBRange          float64 `yaml:"db_range"`

	// Verbosity drives glog's V-level diagnostics (and debug logging when
	// above zero). There is no flag surface, so this is the only knob.
	Verbosity int `yaml:"verbosity"`
}

func defaultConfig() config {
	return config{
		SampleRate:       44100,
		BlockDuration:    0.1,
		HistoryDuration:  2.0,
		RenderIntervalMS: 50,
		STFTWindow:       2048,
		STFTOverlap:      512,
		WindowWidth:      1000,
		WindowHeight:     600,
		SpectrumMaxHz:    5000,
		SpectrumMaxAmp:   0.05,
		SpectrogramMaxHz: 1000,
		DBRange:          80,
	}
}

// loadConfig reads path over the defaults. A missing file is not an error.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, cfg.validate()
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

func (c *config) blockSize() int {
	return int(math.Round(c.SampleRate * c.BlockDuration))
}

func (c *config) historySize() int {
	return int(math.Round(c.SampleRate * c.HistoryDuration))
}

func (c *config) renderInterval() time.Duration {
	return time.Duration(c.RenderIntervalMS) * time.Millisecond
}

func (c *config) validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %v", c.SampleRate)
	}
	if c.blockSize() <= 0 {
		return fmt.Errorf("block duration %vs yields an empty block", c.BlockDuration)
	}
	if c.historySize()%c.blockSize() != 0 {
		return fmt.Errorf("history (%d samples) must be a whole multiple of the block (%d samples)",
			c.historySize(), c.blockSize())
	}
	if c.STFTOverlap < 0 || c.STFTOverlap >= c.STFTWindow {
		return fmt.Errorf("stft overlap %d must be in [0, window %d)", c.STFTOverlap, c.STFTWindow)
	}
	if c.STFTWindow > c.historySize() {
		return fmt.Errorf("stft window %d does not fit the history of %d samples",
			c.STFTWindow, c.historySize())
	}
	if c.RenderIntervalMS <= 0 {
		return fmt.Errorf("render interval must be positive, got %dms", c.RenderIntervalMS)
	}
	if c.Verbosity < 0 {
		return fmt.Errorf("verbosity must be non-negative, got %d", c.Verbosity)
	}
	return nil
}
