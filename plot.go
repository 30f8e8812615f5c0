// Copyright 2019 The fouracc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fouracc

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lsst-lpc/fouracc/labeled"
	"github.com/pkg/errors"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Plot plots the provided analysis on the provided canvas: the series on
// top and its spectrogram below.
func Plot(dc draw.Canvas, an Analysis) error {
	var err error

	err = topPlot(dc, an)
	if err != nil {
		return err
	}

	err = bottomPlot(dc, an)
	if err != nil {
		return err
	}

	return nil
}

func topPlot(dc draw.Canvas, an Analysis) error {
	var (
		pt     = dc.Size()
		height = pt.Y
		width  = pt.X
	)

	top := draw.Canvas{
		Canvas: dc,
		Rectangle: vg.Rectangle{
			Min: vg.Point{X: 0, Y: 0.6 * height},
			Max: vg.Point{X: width, Y: height},
		},
	}

	var (
		dim = an.Series.Dims()[0]
		xs  = relative(an.Series.CoordOrIndex(dim).Float64s())
	)
	p := hplot.New()
	p.Title.Text = fmt.Sprintf("%s -- chunks=%d", an.Name, an.Chunks)
	p.X.Label.Text = dim
	line, err := hplot.NewLine(hplot.ZipXY(xs, an.Series.Floats()))
	if err != nil {
		return errors.Wrap(err, "fouracc: could not create new-line")
	}
	line.LineStyle.Color = color.RGBA{R: 255, A: 255}

	p.Add(line, hplot.NewGrid())
	p.Draw(top)

	return nil
}

func bottomPlot(dc draw.Canvas, an Analysis) error {
	var (
		pt     = dc.Size()
		height = pt.Y
		width  = pt.X
	)

	bottom := draw.Canvas{
		Canvas: dc,
		Rectangle: vg.Rectangle{
			Min: vg.Point{X: 0, Y: 0},
			Max: vg.Point{X: width, Y: 0.6 * height},
		},
	}

	g, err := newGrid(an.Spectrogram, 1)
	if err != nil {
		return err
	}

	p := hplot.New()
	p.X.Label.Text = an.Spectrogram.Dims()[0]
	p.Y.Label.Text = an.Spectrogram.Dims()[1]
	pal := palette.Rainbow(255, 0, 1, 1, 1, 1)
	hmap := plotter.NewHeatMap(g, pal)
	hmap.NaN = color.Black
	p.Add(hmap)
	p.Draw(bottom)

	return nil
}

// PlotSpectrum plots the 1-dimensional spectrum s in log-log scale, with
// its FitLogLog line.
func PlotSpectrum(dc draw.Canvas, title string, s *labeled.Array) error {
	if s.NDim() != 1 {
		return errors.Wrapf(ErrInvalidDimension, "can only plot 1-dimensional spectra, got %v", s.Dims())
	}
	var (
		dim    = s.Dims()[0]
		fs     = s.CoordOrIndex(dim).Float64s()
		vs     = s.Floats()
		xs, ys []float64
	)
	for i, f := range fs {
		if f <= 0 || vs[i] <= 0 {
			continue
		}
		xs = append(xs, f)
		ys = append(ys, vs[i])
	}

	p := hplot.New()
	p.Title.Text = title
	p.X.Label.Text = dim
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}

	line, err := hplot.NewLine(hplot.ZipXY(xs, ys))
	if err != nil {
		return errors.Wrap(err, "fouracc: could not create spectrum line")
	}
	line.LineStyle.Color = color.RGBA{B: 255, A: 255}
	p.Add(line, hplot.NewGrid())

	fit, slope, _, err := FitLogLog(xs, ys)
	if err == nil {
		fl, err := hplot.NewLine(hplot.ZipXY(xs, fit))
		if err != nil {
			return errors.Wrap(err, "fouracc: could not create fit line")
		}
		fl.LineStyle.Color = color.RGBA{R: 255, A: 255}
		fl.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(fl)
		p.Legend.Add(fmt.Sprintf("slope=%.3g", slope), fl)
	}

	p.Draw(dc)
	return nil
}

func relative(xs []float64) []float64 {
	o := make([]float64, len(xs))
	for i, x := range xs {
		o[i] = x - xs[0]
	}
	return o
}

// grid presents a 2-dimensional spectrum as a heat map of log10 values:
// columns run along the first dimension, relative to its first coordinate,
// and rows along the second.
type grid struct {
	a    *labeled.Array
	xs   []float64
	ys   []float64
	skip int // leading rows left out, e.g. the zero frequency
}

func newGrid(a *labeled.Array, skip int) (grid, error) {
	if a.NDim() != 2 {
		return grid{}, errors.Wrapf(ErrInvalidDimension, "heat map needs a 2-dimensional array, got %v", a.Dims())
	}
	dims := a.Dims()
	g := grid{
		a:    a,
		xs:   relative(a.CoordOrIndex(dims[0]).Float64s()),
		ys:   a.CoordOrIndex(dims[1]).Float64s(),
		skip: skip,
	}
	if len(g.xs) == 0 || len(g.ys) <= skip {
		return grid{}, errors.Errorf("fouracc: empty heat map (%d x %d)", len(g.xs), len(g.ys)-skip)
	}
	return g, nil
}

func (g grid) Dims() (c, r int) { return len(g.xs), len(g.ys) - g.skip }
func (g grid) X(c int) float64    { return g.xs[c] }
func (g grid) Y(r int) float64    { return g.ys[r+g.skip] }
func (g grid) Z(c, r int) float64 {
	v := real(g.a.At(c, r+g.skip))
	if v <= 0 {
		return math.NaN()
	}
	return math.Log10(v)
}

var (
	_ plotter.GridXYZ = grid{}
)
