package figure

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"

	"github.com/spectralab/micspec/audio/fft"
)

func (f *Figure) spectrogramPlot(gridDB [][]float64) *plot.Plot {
	p := plot.New()
	p.Title.Text = "Spectrogram"
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Frequency (Hz)"
	p.Y.Tick.Marker = hzTicks{}

	// the displayed band is re-applied on every rebuild; the pane starts
	// from a cleared state each tick
	p.Y.Min, p.Y.Max = 0, f.cfg.SpectrogramMaxHz

	grid := newSTFTGrid(f.stft, gridDB, f.cfg.SpectrogramMaxHz)
	if grid.frames() > 0 {
		heat := plotter.NewHeatMap(grid, f.palette)
		heat.Min, heat.Max = f.colorScale(grid)
		p.Add(heat)
	}

	return p
}

// colorScale anchors the color range to the loudest cell with a fixed span.
// The anchor never drops below one span above the silence floor: a uniform
// silent grid would otherwise sit exactly at Max and map to the top of the
// palette, lighting the whole pane up instead of leaving it dark.
func (f *Figure) colorScale(grid *stftGrid) (lo, hi float64) {
	hi = grid.maxZ()
	if min := f.stft.FloorDB() + f.cfg.DBRange; hi < min {
		hi = min
	}
	return hi - f.cfg.DBRange, hi
}

// stftGrid adapts an STFT power grid to the heatmap's GridXYZ: columns are
// analysis frames on the time axis, rows are frequency bins up to the
// displayed band.
type stftGrid struct {
	stft *fft.STFT
	rows [][]float64
	bins int
}

func newSTFTGrid(stft *fft.STFT, rows [][]float64, maxHz float64) *stftGrid {
	bins := 0
	for k := 0; k < stft.Bins(); k++ {
		if stft.BinFrequency(k) > maxHz {
			break
		}
		bins++
	}
	return &stftGrid{stft: stft, rows: rows, bins: bins}
}

func (g *stftGrid) frames() int { return len(g.rows) }

func (g *stftGrid) maxZ() float64 {
	max := g.rows[0][0]
	for _, row := range g.rows {
		if m := floats.Max(row[:g.bins]); m > max {
			max = m
		}
	}
	return max
}

func (g *stftGrid) Dims() (c, r int)   { return len(g.rows), g.bins }
func (g *stftGrid) Z(c, r int) float64 { return g.rows[c][r] }
func (g *stftGrid) X(c int) float64    { return g.stft.FrameTime(c) }
func (g *stftGrid) Y(r int) float64    { return g.stft.BinFrequency(r) }
