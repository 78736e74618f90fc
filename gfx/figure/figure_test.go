package figure

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spectralab/micspec/audio/fft"
)

func testConfig() Config {
	return Config{
		Width:            500,
		Height:           300,
		SpectrumMaxHz:    5000,
		SpectrumMaxAmp:   0.05,
		SpectrogramMaxHz: 1000,
		DBRange:          80,
	}
}

func TestFigureDraw(t *testing.T) {
	const (
		rate      = 44100.0
		blockSize = 4410
	)
	spec := fft.NewSpectrum(rate, blockSize)
	stft := fft.NewSTFT(rate, 2048, 512)

	fig := New(testConfig(), spec.Frequencies(), stft)

	history := make([]float64, 88200)
	for i := range history {
		history[i] = 0.01 * math.Sin(2*math.Pi*440*float64(i)/rate)
	}
	spectrum := spec.Magnitudes(history[:blockSize])
	grid := stft.PowerDB(history)

	dst := image.NewRGBA(image.Rect(0, 0, 500, 300))
	require.NoError(t, fig.Draw(spectrum, grid, dst))

	// the canvas background is opaque white: every destination pixel must
	// come out opaque, or the blit is reading from an image the canvas
	// never painted
	for i := 3; i < len(dst.Pix); i += 4 {
		require.Equal(t, uint8(255), dst.Pix[i])
	}

	// and not blank white either
	colored := false
	for i := 0; i < len(dst.Pix); i += 4 {
		if dst.Pix[i] != 255 || dst.Pix[i+1] != 255 || dst.Pix[i+2] != 255 {
			colored = true
			break
		}
	}
	assert.True(t, colored)
}

func TestFigureDrawSilence(t *testing.T) {
	spec := fft.NewSpectrum(44100, 4410)
	stft := fft.NewSTFT(44100, 2048, 512)
	fig := New(testConfig(), spec.Frequencies(), stft)

	dst := image.NewRGBA(image.Rect(0, 0, 500, 300))
	spectrum := spec.Magnitudes(make([]float64, 4410))
	grid := stft.PowerDB(make([]float64, 88200))

	// an all-silent frame must still render
	require.NoError(t, fig.Draw(spectrum, grid, dst))

	// and its spectrogram cells sit at the dark end of the palette: a good
	// share of the figure is near-black, far more than axis text alone
	dark := 0
	for i := 0; i < len(dst.Pix); i += 4 {
		if int(dst.Pix[i])+int(dst.Pix[i+1])+int(dst.Pix[i+2]) < 60 {
			dark++
		}
	}
	total := len(dst.Pix) / 4
	assert.Greater(t, dark, total/10)
}

func TestColorScaleSilenceAtBottom(t *testing.T) {
	spec := fft.NewSpectrum(44100, 4410)
	stft := fft.NewSTFT(44100, 2048, 512)
	fig := New(testConfig(), spec.Frequencies(), stft)

	rows := stft.PowerDB(make([]float64, 88200))
	grid := newSTFTGrid(stft, rows, 1000)

	lo, hi := fig.colorScale(grid)
	// silent cells land on lo, the bottom of the palette, not on hi
	assert.InDelta(t, stft.FloorDB(), lo, 1e-9)
	assert.InDelta(t, stft.FloorDB()+fig.cfg.DBRange, hi, 1e-9)
}

func TestColorScaleTracksLoudestCell(t *testing.T) {
	const rate = 44100.0
	spec := fft.NewSpectrum(rate, 4410)
	stft := fft.NewSTFT(rate, 2048, 512)
	fig := New(testConfig(), spec.Frequencies(), stft)

	samples := make([]float64, 88200)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/rate)
	}
	grid := newSTFTGrid(stft, stft.PowerDB(samples), 1000)

	lo, hi := fig.colorScale(grid)
	assert.InDelta(t, grid.maxZ(), hi, 1e-9)
	assert.InDelta(t, hi-fig.cfg.DBRange, lo, 1e-9)
	assert.Greater(t, hi, stft.FloorDB()+fig.cfg.DBRange)
}

func TestFigureDrawEmptyGrid(t *testing.T) {
	spec := fft.NewSpectrum(44100, 4410)
	stft := fft.NewSTFT(44100, 2048, 512)
	fig := New(testConfig(), spec.Frequencies(), stft)

	dst := image.NewRGBA(image.Rect(0, 0, 500, 300))

	// not enough history for a single analysis window
	require.NoError(t, fig.Draw(make([]float64, 2206), nil, dst))
}

func TestSTFTGridClipsToBand(t *testing.T) {
	stft := fft.NewSTFT(44100, 2048, 512)
	rows := stft.PowerDB(make([]float64, 8192))

	grid := newSTFTGrid(stft, rows, 1000)

	c, r := grid.Dims()
	assert.Equal(t, len(rows), c)
	// every row within the band, none past it
	assert.LessOrEqual(t, grid.Y(r-1), 1000.0)
	assert.Greater(t, stft.BinFrequency(r), 1000.0)
}

func TestHzTicks(t *testing.T) {
	ticks := hzTicks{}.Ticks(0, 5000)
	require.NotEmpty(t, ticks)

	labeled := 0
	for _, tick := range ticks {
		if tick.Label != "" {
			labeled++
			assert.Contains(t, tick.Label, "Hz")
		}
	}
	assert.NotZero(t, labeled)
}
