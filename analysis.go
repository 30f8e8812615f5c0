// Copyright 2019 The fouracc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fouracc

import (
	"github.com/lsst-lpc/fouracc/labeled"
	"github.com/pkg/errors"
)

// Analysis is the chunked spectral analysis of a time series.
type Analysis struct {
	Name   string
	Chunks int // samples per segment

	Series      *labeled.Array // analyzed samples
	Spectrogram *labeled.Array // power spectral density of each segment
	Spectrum    *labeled.Array // mean power spectral density
}

// Analyze splits the 1-dimensional series into segments of chunksz samples
// and computes the one-sided power spectral density of each segment, and
// their mean. Trailing samples that do not fill a segment are dropped.
//
// Segments are labeled with the coordinate of their first sample.
func Analyze(name string, series *labeled.Array, chunksz int, opts ...Option) (Analysis, error) {
	if series.NDim() != 1 {
		return Analysis{}, errors.Wrapf(ErrInvalidDimension, "analysis needs a 1-dimensional series, got %v", series.Dims())
	}
	if chunksz < 2 {
		return Analysis{}, errors.Errorf("fouracc: invalid chunk size %d", chunksz)
	}
	var (
		dim = series.Dims()[0]
		n   = series.Len(dim) / chunksz * chunksz
	)
	if n == 0 {
		return Analysis{}, errors.Errorf("fouracc: series of %d samples is shorter than a chunk (%d)", series.Len(dim), chunksz)
	}

	s, err := series.Slice(dim, 0, n)
	if err != nil {
		return Analysis{}, err
	}
	c, err := s.Chunk(map[string]int{dim: chunksz})
	if err != nil {
		return Analysis{}, err
	}

	opts = append(opts[:len(opts):len(opts)], Dims(dim), RealDim(dim), ChunksToSegments(true))
	ps, err := PowerSpectrum(c, opts...)
	if err != nil {
		return Analysis{}, errors.Wrap(err, "fouracc: could not compute spectrogram")
	}

	var (
		seg    = dim + SegmentSuffix
		starts = make([]int, n/chunksz)
	)
	for i := range starts {
		starts[i] = i * chunksz
	}
	err = ps.SetCoord(seg, s.CoordOrIndex(dim).Take(starts))
	if err != nil {
		return Analysis{}, err
	}

	mean, err := ps.MeanAlong(seg)
	if err != nil {
		return Analysis{}, errors.Wrap(err, "fouracc: could not average spectrogram")
	}

	return Analysis{
		Name:        name,
		Chunks:      chunksz,
		Series:      s,
		Spectrogram: ps,
		Spectrum:    mean,
	}, nil
}
