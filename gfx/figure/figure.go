// Package figure renders the two stacked plots of the live display, a
// magnitude spectrum over a spectrogram, into an RGBA image. Both panes are
// rebuilt from scratch on every draw; the plotting layer has no incremental
// update primitive, and at render cadence a full redraw is cheap enough.
package figure

import (
	"image"

	xdraw "golang.org/x/image/draw"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/spectralab/micspec/audio/fft"
	"github.com/spectralab/micspec/audio/util"
)

// Config fixes the presentation state of the figure. The axis ranges come
// from the display defaults and never auto-scale.
type Config struct {
	// Width and Height are the canvas size in pixels.
	Width  int
	Height int

	// SpectrumMaxHz and SpectrumMaxAmp bound the spectrum pane axes.
	SpectrumMaxHz  float64
	SpectrumMaxAmp float64

	// SpectrogramMaxHz is the top of the displayed frequency band,
	// re-applied on every draw.
	SpectrogramMaxHz float64

	// DBRange is the color scale span below the loudest cell.
	DBRange float64
}

// Figure owns the canvas and the fixed parts of both panes.
type Figure struct {
	cfg Config

	freqs   []float64 // spectrum bin centers, fixed at setup
	visible int       // spectrum bins within SpectrumMaxHz
	stft    *fft.STFT
	palette util.Palette

	canvas *vgimg.Canvas
	img    *image.RGBA
}

// New creates a figure for spectra with the given fixed bin frequencies and
// spectrograms produced by stft.
func New(cfg Config, freqs []float64, stft *fft.STFT) *Figure {
	visible := len(freqs)
	for i, f := range freqs {
		if f > cfg.SpectrumMaxHz {
			visible = i + 1 // keep one bin past the edge so the line exits the frame
			break
		}
	}

	seed := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	canvas := vgimg.NewWith(vgimg.UseImage(seed))
	return &Figure{
		cfg:     cfg,
		freqs:   freqs,
		visible: visible,
		stft:    stft,
		palette: util.Magma().Palette(256),
		canvas:  canvas,
		// the canvas copies the seed image and paints onto its own backing,
		// so blits must come from the canvas's image, not the seed
		img: canvas.Image().(*image.RGBA),
	}
}

// Draw renders the spectrum and spectrogram grid into dst. The spectrum must
// have one value per bin frequency; the grid is indexed [frame][bin] in dB.
func (f *Figure) Draw(spectrum []float64, gridDB [][]float64, dst *image.RGBA) error {
	top, err := f.spectrumPlot(spectrum)
	if err != nil {
		return err
	}
	bottom := f.spectrogramPlot(gridDB)

	dc := draw.New(f.canvas)
	tiles := draw.Tiles{Rows: 2, Cols: 1}
	canvases := plot.Align([][]*plot.Plot{{top}, {bottom}}, tiles, dc)
	top.Draw(canvases[0][0])
	bottom.Draw(canvases[1][0])

	if dst.Bounds() == f.img.Bounds() {
		xdraw.Copy(dst, image.Point{}, f.img, f.img.Bounds(), xdraw.Src, nil)
	} else {
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), f.img, f.img.Bounds(), xdraw.Src, nil)
	}
	return nil
}
