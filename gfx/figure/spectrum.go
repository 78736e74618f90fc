package figure

import (
	"fmt"
	"image/color"

	"github.com/dustin/go-humanize"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
)

func (f *Figure) spectrumPlot(spectrum []float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Live spectrum"
	p.X.Label.Text = "Frequency (Hz)"
	p.Y.Label.Text = "Amplitude"
	p.X.Min, p.X.Max = 0, f.cfg.SpectrumMaxHz
	p.Y.Min, p.Y.Max = 0, f.cfg.SpectrumMaxAmp
	p.X.Tick.Marker = hzTicks{}

	n := f.visible
	if len(spectrum) < n {
		n = len(spectrum)
	}
	xys := make(plotter.XYs, n)
	for i := 0; i < n; i++ {
		xys[i].X = f.freqs[i]
		xys[i].Y = spectrum[i]
	}

	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, err
	}
	line.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	p.Add(line)

	return p, nil
}

// hzTicks relabels the default tick positions with SI-prefixed frequencies.
type hzTicks struct{}

func (hzTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i, t := range ticks {
		if t.Label == "" {
			continue
		}
		v, prefix := humanize.ComputeSI(t.Value)
		ticks[i].Label = fmt.Sprintf("%g %sHz", v, prefix)
	}
	return ticks
}
