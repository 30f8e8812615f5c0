// Copyright 2019 The fouracc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fouracc

import (
	"math"
	"slices"

	"github.com/lsst-lpc/fouracc/internal/binning"
	"github.com/lsst-lpc/fouracc/labeled"
	"github.com/pkg/errors"
)

// RadialDim is the dimension of isotropic spectra.
const RadialDim = "freq_r"

// Isotropize averages the spectrum s azimuthally over its two frequency
// dimensions dims.
//
// The radial frequency range is split into min(len)/nfactor equal-width
// bins. Each bin holds the mean of the spectrum over the cells it
// contains, multiplied by the mean radial frequency of those cells, which
// is also the coordinate of the bin. Empty bins are zero. Dimensions of s
// other than dims are kept.
func Isotropize(s *labeled.Array, dims [2]string, nfactor int) (*labeled.Array, error) {
	for _, d := range dims {
		if !s.Has(d) {
			return nil, errors.Wrapf(ErrInvalidDimension, "isotropize: no dimension %q", d)
		}
	}
	if dims[0] == dims[1] {
		return nil, errors.Wrapf(ErrInvalidDimension, "isotropize: dimension %q given twice", dims[0])
	}
	if nfactor < 1 {
		return nil, errors.Errorf("fouracc: isotropize: invalid nfactor %d", nfactor)
	}

	var (
		ls    = s.CoordOrIndex(dims[0]).Float64s()
		ks    = s.CoordOrIndex(dims[1]).Float64s()
		nbins = min(len(ks), len(ls)) / nfactor
	)
	if nbins < 1 {
		return nil, errors.Wrapf(ErrInvalidDimension, "isotropize: %dx%d grid is too small for nfactor=%d", len(ls), len(ks), nfactor)
	}

	var order []string
	for _, d := range s.Dims() {
		if d != dims[0] && d != dims[1] {
			order = append(order, d)
		}
	}
	outer := slices.Clone(order)
	order = append(order, dims[0], dims[1])
	t, err := s.Transpose(order...)
	if err != nil {
		return nil, err
	}

	fr := make([]float64, 0, len(ls)*len(ks))
	for _, l := range ls {
		for _, k := range ks {
			fr = append(fr, math.Hypot(k, l))
		}
	}
	_, idx, err := binning.Cut(fr, nbins)
	if err != nil {
		return nil, errors.Wrap(err, "fouracc: isotropize")
	}
	kr := binning.Mean(fr, idx, nbins)

	shape := t.Shape()[:len(outer)]
	o, err := labeled.New(append(outer, RadialDim), append(shape, nbins), nil)
	if err != nil {
		return nil, errors.Wrap(err, "fouracc: isotropize")
	}
	o.Name = s.Name
	for _, d := range outer {
		if c := t.Coord(d); c != nil {
			_ = o.SetCoord(d, c)
		}
	}
	err = o.SetCoord(RadialDim, labeled.NewCoord(kr))
	if err != nil {
		return nil, err
	}

	var (
		n   = len(fr)
		src = t.Data()
		dst = o.Data()
	)
	for g := 0; g < len(src)/n; g++ {
		mean := binning.MeanComplex(src[g*n:(g+1)*n], idx, nbins)
		for b, v := range mean {
			dst[g*nbins+b] = v * complex(kr[b], 0)
		}
	}
	return o, nil
}

func isoDims(op string, cfg Config, a *labeled.Array) ([2]string, error) {
	dims := cfg.dims
	if dims == nil {
		dims = a.Dims()
	}
	if len(dims) != 2 {
		return [2]string{}, errors.Wrapf(ErrInvalidDimension, "%s: need 2 dimensions, got %d", op, len(dims))
	}
	if cfg.realDim != "" {
		return [2]string{}, errors.Wrapf(ErrInvalidDimension, "%s: real transform dimension %q not supported", op, cfg.realDim)
	}
	return [2]string{dims[0], dims[1]}, nil
}

// IsotropicPowerSpectrum computes the power spectrum of a over exactly two
// dimensions and averages it azimuthally, as Isotropize does.
func IsotropicPowerSpectrum(a *labeled.Array, opts ...Option) (*labeled.Array, error) {
	const op = "isotropic power spectrum"
	cfg := newConfig(opts)
	dims, err := isoDims(op, cfg, a)
	if err != nil {
		return nil, err
	}
	ps, err := PowerSpectrum(a, append(opts[:len(opts):len(opts)], Dims(dims[:]...))...)
	if err != nil {
		return nil, err
	}
	return Isotropize(ps, [2]string{
		rename(dims[0], cfg.prefix),
		rename(dims[1], cfg.prefix),
	}, cfg.nfactor)
}

// IsotropicCrossSpectrum computes the cross spectrum of a and b over
// exactly two dimensions and averages it azimuthally.
func IsotropicCrossSpectrum(a, b *labeled.Array, opts ...Option) (*labeled.Array, error) {
	const op = "isotropic cross spectrum"
	cfg := newConfig(opts)
	if cfg.dims == nil && !slices.Equal(a.Dims(), b.Dims()) {
		return nil, errors.Wrapf(ErrMismatchedDimensions, "%s: %v and %v", op, a.Dims(), b.Dims())
	}
	dims, err := isoDims(op, cfg, a)
	if err != nil {
		return nil, err
	}
	cs, err := CrossSpectrum(a, b, append(opts[:len(opts):len(opts)], Dims(dims[:]...))...)
	if err != nil {
		return nil, err
	}
	return Isotropize(cs, [2]string{
		rename(dims[0], cfg.prefix),
		rename(dims[1], cfg.prefix),
	}, cfg.nfactor)
}
