// Copyright 2019 The fouracc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fouracc

import (
	"fmt"
	"math/cmplx"
	"slices"
	"strings"

	"github.com/lsst-lpc/fouracc/labeled"
	"github.com/pkg/errors"
)

// resolveScaling resolves the legacy Density option and validates the scaling.
func (cfg *Config) resolveScaling(op string) error {
	if cfg.density != nil {
		cfg.warn(op, Deprecated, "density is deprecated and replaced by scaling; the scaling option is ignored")
		cfg.scaling = FalseDensityScaling
		if *cfg.density {
			cfg.scaling = DensityScaling
		}
	}
	switch cfg.scaling {
	case DensityScaling, SpectrumScaling, FalseDensityScaling:
		return nil
	}
	return errors.Wrapf(ErrInvalidScaling, "%s: %q", op, cfg.scaling)
}

// freqDims returns the dimensions of ft that are not in a and are not
// segment dimensions.
func freqDims(a, ft *labeled.Array) []string {
	var dims []string
	for _, d := range ft.Dims() {
		if a.Has(d) || strings.Contains(d, "segment") {
			continue
		}
		dims = append(dims, d)
	}
	return dims
}

// scale applies the spectral normalization to s in place.
func scale(s *labeled.Array, dims []string, scaling Scaling, real bool) {
	fs := 1.0
	for _, d := range dims {
		sp, _ := s.Coord(d).Attr(SpacingAttr)
		fs *= sp
	}
	factor := 1.0
	if real {
		factor = 2
	}
	switch scaling {
	case DensityScaling:
		factor *= fs
	case SpectrumScaling:
		factor *= fs * fs
	}
	s.Scale(complex(factor, 0))
}

// PowerSpectrum computes the power spectrum of a, |F(a)|², with amplitudes
// scaled by the sample spacing.
//
// With RealDim the one-sided spectrum is doubled. The result is then
// normalized according to WithScaling: as a density (the default), as a
// spectrum, or not at all.
func PowerSpectrum(a *labeled.Array, opts ...Option) (*labeled.Array, error) {
	const op = "power spectrum"
	cfg := newConfig(opts)
	err := cfg.resolveScaling(op)
	if err != nil {
		return nil, err
	}
	cfg.trueAmplitude = true
	cfg.truePhase = false

	ft, err := run("dft", forward, a, cfg)
	if err != nil {
		return nil, errors.WithMessage(err, op)
	}
	ps := ft.Clone()
	ps.Apply(func(v complex128) complex128 {
		r := cmplx.Abs(v)
		return complex(r*r, 0)
	})
	scale(ps, freqDims(a, ps), cfg.scaling, cfg.realDim != "")
	return ps, nil
}

// CrossSpectrum computes the cross spectrum F(a)·conj(F(b)) of a and b,
// normalized as PowerSpectrum does.
func CrossSpectrum(a, b *labeled.Array, opts ...Option) (*labeled.Array, error) {
	return crossSpectrum("cross spectrum", a, b, opts)
}

func crossSpectrum(op string, a, b *labeled.Array, opts []Option) (*labeled.Array, error) {
	cfg := newConfig(opts)
	if !cfg.truePhaseSet {
		cfg.warn(op, FutureDefault, "true phase will default to true and may change the result; set it explicitly")
	}
	err := cfg.resolveScaling(op)
	if err != nil {
		return nil, err
	}
	cfg.trueAmplitude = true

	fa, err := run("dft", forward, a, cfg)
	if err != nil {
		return nil, errors.WithMessage(err, op)
	}
	fb, err := run("dft", forward, b, cfg)
	if err != nil {
		return nil, errors.WithMessage(err, op)
	}
	if !slices.Equal(fa.Dims(), fb.Dims()) || !slices.Equal(fa.Shape(), fb.Shape()) {
		return nil, errors.Wrapf(ErrMismatchedDimensions, "%s: %v%v and %v%v", op, fa.Dims(), fa.Shape(), fb.Dims(), fb.Shape())
	}

	cs := fa.Clone()
	var (
		dst = cs.Data()
		src = fb.Data()
	)
	for i := range dst {
		dst[i] *= cmplx.Conj(src[i])
	}
	scale(cs, freqDims(a, cs), cfg.scaling, cfg.realDim != "")
	return cs, nil
}

// CrossPhase computes the phase of the cross spectrum of a and b, in
// [-π, π].
func CrossPhase(a, b *labeled.Array, opts ...Option) (*labeled.Array, error) {
	const op = "cross phase"
	cs, err := crossSpectrum(op, a, b, opts)
	if err != nil {
		return nil, err
	}
	cs.Apply(func(v complex128) complex128 {
		return complex(cmplx.Phase(v), 0)
	})
	if a.Name != "" && b.Name != "" {
		cs.Name = fmt.Sprintf("%s_%s_phase", a.Name, b.Name)
	}
	return cs, nil
}
