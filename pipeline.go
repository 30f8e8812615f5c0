// Copyright 2019 The fouracc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fouracc

import (
	"math"
	"math/cmplx"
	"strings"

	"github.com/lsst-lpc/fouracc/internal/backend"
	"github.com/lsst-lpc/fouracc/internal/kernel"
	"github.com/lsst-lpc/fouracc/labeled"
	"github.com/pkg/errors"
)

type direction int

const (
	forward direction = iota
	inverse
)

// Coordinate attributes set on frequency dimensions.
const (
	SpacingAttr   = "spacing"
	DirectLagAttr = "direct_lag"
)

// transform carries one Dft or Idft call through its stages.
type transform struct {
	op  string
	dir direction
	cfg Config

	a     *labeled.Array
	owned bool // a's data may be modified in place

	dims    []string           // transformed dimensions, real one last
	rawdims []string           // dimension order of the result
	lags    map[string]float64 // phase origins, inverse only
	lens    []int
	spacing []Spacing
	renamed map[string]string

	kern kernel.Transformer
}

type stage struct {
	name string
	on   func(t *transform) bool
	run  func(t *transform) error
}

// stages is the ordered list of steps shared by both directions.
var stages = []stage{
	{name: "validate", run: (*transform).validate},
	{
		name: "unwind-lag",
		on:   func(t *transform) bool { return t.dir == inverse && len(t.lags) > 0 },
		run:  (*transform).unwindLag,
	},
	{
		name: "segment",
		on:   func(t *transform) bool { return t.cfg.segments },
		run:  (*transform).segment,
	},
	{
		name: "real-last",
		on:   func(t *transform) bool { return t.cfg.realDim != "" },
		run:  (*transform).realLast,
	},
	{name: "analyze", run: (*transform).analyze},
	{
		name: "detrend",
		on:   func(t *transform) bool { return t.cfg.detrend != NoDetrend },
		run:  (*transform).detrend,
	},
	{
		name: "window",
		on:   func(t *transform) bool { return t.cfg.window },
		run:  (*transform).window,
	},
	{name: "pre-shift", run: (*transform).preShift},
	{name: "kernel", run: (*transform).kernel},
	{name: "post-shift", run: (*transform).postShift},
	{name: "relabel", run: (*transform).relabel},
	{
		name: "phase",
		on:   func(t *transform) bool { return t.dir == forward && t.cfg.truePhase },
		run:  (*transform).phase,
	},
	{
		name: "lag-offset",
		on:   func(t *transform) bool { return t.dir == inverse && len(t.lags) > 0 },
		run:  (*transform).lagOffset,
	},
	{
		name: "amplitude",
		on:   func(t *transform) bool { return t.cfg.trueAmplitude },
		run:  (*transform).amplitude,
	},
	{name: "restore-order", run: (*transform).restoreOrder},
}

func run(op string, dir direction, a *labeled.Array, cfg Config) (*labeled.Array, error) {
	t := &transform{op: op, dir: dir, cfg: cfg, a: a}
	for _, s := range stages {
		if s.on != nil && !s.on(t) {
			continue
		}
		err := s.run(t)
		if err != nil {
			return nil, errors.WithMessage(err, op)
		}
	}
	return t.a, nil
}

// own makes sure t.a can be modified in place.
func (t *transform) own() {
	if t.owned {
		return
	}
	t.a = t.a.Clone()
	t.owned = true
}

func (t *transform) axes(keep func(d string) bool) []int {
	axes := make([]int, 0, len(t.dims))
	for _, d := range t.dims {
		if keep != nil && !keep(d) {
			continue
		}
		axes = append(axes, t.a.Axis(d))
	}
	return axes
}

func (t *transform) notReal(d string) bool { return d != t.cfg.realDim }

func (t *transform) validate() error {
	var (
		cfg  = t.cfg
		dims = cfg.dims
	)
	if dims == nil {
		dims = t.a.Dims()
	}
	seen := make(map[string]bool, len(dims))
	for _, d := range dims {
		switch {
		case !t.a.Has(d):
			return errors.Wrapf(ErrInvalidDimension, "no dimension %q", d)
		case seen[d]:
			return errors.Wrapf(ErrInvalidDimension, "dimension %q given twice", d)
		}
		seen[d] = true
	}

	t.dims = make([]string, 0, len(dims)+1)
	for _, d := range dims {
		if d != cfg.realDim {
			t.dims = append(t.dims, d)
		}
	}
	if cfg.realDim != "" {
		if !t.a.Has(cfg.realDim) {
			return errors.Wrapf(ErrInvalidDimension, "real transform dimension %q does not exist", cfg.realDim)
		}
		t.dims = append(t.dims, cfg.realDim)
	}
	t.rawdims = t.a.Dims()

	if t.dir == inverse {
		err := t.resolveLags()
		if err != nil {
			return err
		}
	}

	switch cfg.detrend {
	case NoDetrend, ConstantDetrend:
	case LinearDetrend:
		if len(t.dims) > 2 {
			return errors.Wrapf(ErrUnsupportedDetrend, "linear detrend over %d dimensions", len(t.dims))
		}
	default:
		return errors.Wrapf(ErrUnsupportedDetrend, "%q", cfg.detrend)
	}
	if cfg.window {
		_, err := windowFunc(cfg.windowType)
		if err != nil {
			return err
		}
	}
	if !cfg.segments {
		for _, d := range t.dims {
			if ch := t.a.Chunks(d); len(ch) > 1 {
				return errors.Wrapf(ErrChunkedAxis, "dimension %q has %d chunks", d, len(ch))
			}
		}
	}

	if !cfg.truePhase && !cfg.trueAmplitude && !cfg.quiet {
		cfg.warn(t.op, FutureDefault,
			"true phase and true amplitude will default to true; use FFT/IFFT for index-based transforms")
	}

	be := cfg.backend
	if be == nil {
		be = backend.For(t.a.IsChunked())
	}
	t.kern = kernel.Transformer{Engine: cfg.engine, Backend: be}
	return nil
}

// resolveLags pairs explicit lags with the transformed dimensions, the real
// dimension last.
// Without explicit lags, a true phase inverse uses the lags recorded by the
// forward transform.
func (t *transform) resolveLags() error {
	cfg := t.cfg
	t.lags = make(map[string]float64)
	if cfg.lag != nil {
		if len(cfg.lag) != len(t.dims) {
			return errors.Wrapf(ErrInvalidLag, "got %d lag(s) for %d dimension(s)", len(cfg.lag), len(t.dims))
		}
		if !cfg.truePhase {
			cfg.warn(t.op, Accuracy, "setting lag without true phase does not guarantee an accurate inverse transform")
		}
		for i, d := range t.dims {
			t.lags[d] = cfg.lag[i]
		}
		return nil
	}
	if !cfg.truePhase {
		return nil
	}
	for _, d := range t.dims {
		c := t.a.Coord(d)
		if c == nil {
			continue
		}
		if l, ok := c.Attr(DirectLagAttr); ok {
			t.lags[d] = l
		}
	}
	return nil
}

// phaseRamp returns exp(sign*2πi*f*lag) for every frequency f.
func phaseRamp(fs []float64, lag, sign float64) []complex128 {
	w := make([]complex128, len(fs))
	for i, f := range fs {
		w[i] = cmplx.Exp(complex(0, sign*2*math.Pi*f*lag))
	}
	return w
}

func (t *transform) unwindLag() error {
	t.own()
	for _, d := range t.dims {
		l, ok := t.lags[d]
		if !ok {
			continue
		}
		fs := t.a.CoordOrIndex(d).Float64s()
		err := t.a.MulAlong(t.a.Axis(d), phaseRamp(fs, l, +1))
		if err != nil {
			return err
		}
	}
	return nil
}

func (t *transform) segment() error {
	a, err := Segment(t.a, t.dims...)
	if err != nil {
		return err
	}
	t.a = a
	t.rawdims = a.Dims()
	return nil
}

func (t *transform) realLast() error {
	order := make([]string, 0, t.a.NDim())
	for _, d := range t.a.Dims() {
		if d != t.cfg.realDim {
			order = append(order, d)
		}
	}
	order = append(order, t.cfg.realDim)
	a, err := t.a.Transpose(order...)
	if err != nil {
		return err
	}
	t.a = a
	return nil
}

func (t *transform) analyze() error {
	t.lens = make([]int, len(t.dims))
	t.spacing = make([]Spacing, len(t.dims))
	for i, d := range t.dims {
		c := t.a.CoordOrIndex(d)
		switch t.dir {
		case forward:
			sp, err := AnalyzeCoord(d, c, t.cfg.spacingTol)
			if err != nil {
				return err
			}
			t.spacing[i] = sp
		case inverse:
			sp, perm, err := analyzeFreq(d, c, t.cfg.spacingTol, d == t.cfg.realDim)
			if err != nil {
				return err
			}
			if perm != nil {
				a, err := t.a.Take(d, perm)
				if err != nil {
					return err
				}
				t.a = a
				t.owned = true
			}
			t.spacing[i] = sp
		}
		t.lens[i] = t.a.Len(d)
	}
	return nil
}

func (t *transform) detrend() error {
	t.own()
	return detrend(t.a, t.axes(nil), t.cfg.detrend, t.kern.Backend)
}

func (t *transform) window() error {
	t.own()
	return taper(t.a, t.axes(nil), t.cfg.windowType)
}

func (t *transform) preShift() error {
	var axes []int
	switch t.dir {
	case forward:
		if !t.cfg.truePhase {
			return nil
		}
		axes = t.axes(nil)
	case inverse:
		axes = t.axes(t.notReal)
	}
	a, err := kernel.Unshift(t.a, axes)
	if err != nil {
		return err
	}
	t.a = a
	return nil
}

func (t *transform) kernel() error {
	var (
		a    *labeled.Array
		err  error
		axes = t.axes(nil)
		real = t.cfg.realDim != ""
	)
	switch {
	case t.dir == forward && real:
		a, err = t.kern.RFFTN(t.a, axes)
	case t.dir == forward:
		a, err = t.kern.FFTN(t.a, axes)
	case real:
		a, err = t.kern.IRFFTN(t.a, axes)
	default:
		a, err = t.kern.IFFTN(t.a, axes)
	}
	if err != nil {
		return errors.Wrap(err, "fouracc: transform failed")
	}
	t.a = a
	t.owned = true
	return nil
}

func (t *transform) postShift() error {
	var err error
	switch t.dir {
	case forward:
		if t.cfg.shift {
			t.a, err = kernel.Shift(t.a, t.axes(t.notReal))
		}
	case inverse:
		if !t.cfg.truePhase {
			t.a, err = kernel.Unshift(t.a, t.axes(nil))
			if err != nil {
				return err
			}
		}
		if t.cfg.shift {
			t.a, err = kernel.Shift(t.a, t.axes(nil))
		}
	}
	return err
}

// rename returns the frequency dimension name of d, or the physical one if
// d already carries the prefix.
func rename(d, prefix string) string {
	if name, ok := strings.CutPrefix(d, prefix); ok && prefix != "" {
		return name
	}
	return prefix + d
}

func (t *transform) relabel() error {
	deltas := make([]float64, len(t.dims))
	for i, sp := range t.spacing {
		deltas[i] = sp.Delta
	}
	grid := freqGrid(t.dir, t.lens, deltas, t.cfg.realDim != "", t.cfg.shift)

	t.renamed = make(map[string]string, len(t.dims))
	for i, d := range t.dims {
		var (
			name = rename(d, t.cfg.prefix)
			c    = labeled.NewCoord(grid[i])
		)
		if len(grid[i]) > 1 {
			c.SetAttr(SpacingAttr, grid[i][1]-grid[i][0])
		}
		a, err := t.a.Replace(d, name, c)
		if err != nil {
			return errors.Wrapf(ErrInvalidDimension, "could not rename %q to %q: %v", d, name, err)
		}
		t.a = a
		t.renamed[d] = name
	}
	return nil
}

func (t *transform) phase() error {
	for i, d := range t.dims {
		var (
			name = t.renamed[d]
			c    = t.a.Coord(name)
			lag  = t.spacing[i].Lag
		)
		err := t.a.MulAlong(t.a.Axis(name), phaseRamp(c.Values, lag, -1))
		if err != nil {
			return err
		}
		c.SetAttr(DirectLagAttr, lag)
	}
	return nil
}

func (t *transform) lagOffset() error {
	for _, d := range t.dims {
		l, ok := t.lags[d]
		if !ok {
			continue
		}
		name := t.renamed[d]
		err := t.a.SetCoord(name, t.a.Coord(name).Offset(l))
		if err != nil {
			return err
		}
	}
	return nil
}

func (t *transform) amplitude() error {
	scale := 1.0
	for i, d := range t.dims {
		switch t.dir {
		case forward:
			scale *= t.spacing[i].Delta
		case inverse:
			sp, _ := t.a.Coord(t.renamed[d]).Attr(SpacingAttr)
			scale /= sp
		}
	}
	t.a.Scale(complex(scale, 0))
	return nil
}

func (t *transform) restoreOrder() error {
	order := make([]string, len(t.rawdims))
	for i, d := range t.rawdims {
		if name, ok := t.renamed[d]; ok {
			d = name
		}
		order[i] = d
	}
	a, err := t.a.Transpose(order...)
	if err != nil {
		return err
	}
	t.a = a
	return nil
}
