package util

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Gradient is a set of color keypoints positioned on [0,1]. Lookups blend the
// two surrounding keypoints in HCL space, which keeps the perceived
// brightness ramp smooth. Keypoints must be sorted by position.
type Gradient []struct {
	Col colorful.Color
	Pos float64
}

// At returns the blended color for t in [0,1]. A lookup landing exactly on a
// keypoint returns that keypoint's color unblended, so the anchors survive
// the round trip through HCL. Values past the last keypoint clamp to it.
func (g Gradient) At(t float64) colorful.Color {
	for i := 0; i < len(g)-1; i++ {
		c1, c2 := g[i], g[i+1]
		if c1.Pos <= t && t <= c2.Pos {
			switch t {
			case c1.Pos:
				return c1.Col
			case c2.Pos:
				return c2.Col
			}
			frac := (t - c1.Pos) / (c2.Pos - c1.Pos)
			return c1.Col.BlendHcl(c2.Col, frac).Clamped()
		}
	}
	return g[len(g)-1].Col
}

// Palette samples the gradient into n discrete colors. The result satisfies
// gonum/plot's palette.Palette, so a heatmap can consume it directly.
func (g Gradient) Palette(n int) Palette {
	cols := make(Palette, n)
	for i := range cols {
		cols[i] = g.At(float64(i) / float64(n-1))
	}
	return cols
}

// Palette is a fixed list of colors implementing palette.Palette.
type Palette []color.Color

// Colors returns the palette's colors, dark to bright.
func (p Palette) Colors() []color.Color { return p }

func mustParseHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic("mustParseHex: " + err.Error())
	}
	return c
}

// Magma returns the gradient used for the spectrogram color scale: near-black
// through purple and orange up to pale yellow.
func Magma() Gradient {
	return Gradient{
		{mustParseHex("#000004"), 0.0},
		{mustParseHex("#140e36"), 0.1},
		{mustParseHex("#3b0f70"), 0.2},
		{mustParseHex("#641a80"), 0.3},
		{mustParseHex("#8c2981"), 0.4},
		{mustParseHex("#b73779"), 0.5},
		{mustParseHex("#de4968"), 0.6},
		{mustParseHex("#f7705c"), 0.7},
		{mustParseHex("#fe9f6d"), 0.8},
		{mustParseHex("#fece91"), 0.9},
		{mustParseHex("#fcfdbf"), 1.0},
	}
}
