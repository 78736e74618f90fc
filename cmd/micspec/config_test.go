package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, cfg.validate())

	assert.Equal(t, 4410, cfg.blockSize())
	assert.Equal(t, 88200, cfg.historySize())
	assert.Equal(t, "50ms", cfg.renderInterval().String())
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "micspec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"sample_rate: 48000\nblock_duration: 0.05\nhistory_duration: 1.0\n"), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 48000.0, cfg.SampleRate)
	assert.Equal(t, 2400, cfg.blockSize())
	assert.Equal(t, 48000, cfg.historySize())

	// untouched keys keep their defaults
	assert.Equal(t, 2048, cfg.STFTWindow)
}

func TestLoadConfigVerbosity(t *testing.T) {
	assert.Zero(t, defaultConfig().Verbosity)

	path := filepath.Join(t.TempDir(), "micspec.yaml")
	require.NoError(t, os.WriteFile(path, []byte("verbosity: 3\n"), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Verbosity)

	cfg = defaultConfig()
	cfg.Verbosity = -1
	require.Error(t, cfg.validate())
}

// Durations that are not exactly representable must round to the intended
// sample counts, not truncate one short.
func TestSizesRoundRatherThanTruncate(t *testing.T) {
	cfg := defaultConfig()
	// 0.3 * 44100 floats to 13229.999...; 2.4 s is 8 such blocks
	cfg.BlockDuration = 0.3
	cfg.HistoryDuration = 2.4

	assert.Equal(t, 13230, cfg.blockSize())
	assert.Equal(t, 105840, cfg.historySize())
	require.NoError(t, cfg.validate())
}

func TestValidateRejectsRaggedHistory(t *testing.T) {
	cfg := defaultConfig()
	cfg.HistoryDuration = 0.25 // 11025 samples, not a multiple of 4410
	require.Error(t, cfg.validate())
}

func TestValidateRejectsBadOverlap(t *testing.T) {
	cfg := defaultConfig()
	cfg.STFTOverlap = cfg.STFTWindow
	require.Error(t, cfg.validate())

	cfg = defaultConfig()
	cfg.STFTOverlap = -1
	require.Error(t, cfg.validate())
}

func TestValidateRejectsOversizedWindow(t *testing.T) {
	cfg := defaultConfig()
	cfg.HistoryDuration = 0.0
	require.Error(t, cfg.validate())

	cfg = defaultConfig()
	cfg.STFTWindow = cfg.historySize() + 1
	require.Error(t, cfg.validate())
}

func TestLoadConfigRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "micspec.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o644))

	_, err := loadConfig(path)
	require.Error(t, err)
}
