// Copyright 2019 The fouracc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fouracc

import (
	"math"

	"github.com/lsst-lpc/fouracc/labeled"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// Spacing describes the sampling of a coordinate.
type Spacing struct {
	Delta   float64 // absolute distance between consecutive samples
	Lag     float64 // coordinate value at the midpoint index
	Uniform bool
}

// evenlySpaced reports whether all consecutive differences of vs are
// within tol (relative) of the first one.
func evenlySpaced(vs []float64, tol float64) bool {
	if len(vs) < 3 {
		return true
	}
	d0 := vs[1] - vs[0]
	for i := 2; i < len(vs); i++ {
		d := vs[i] - vs[i-1]
		if !scalar.EqualWithinAbs(d, d0, 1e-8+tol*math.Abs(d0)) {
			return false
		}
	}
	return true
}

// AnalyzeCoord computes the spacing and lag of the coordinate of dim,
// checking that it is evenly spaced within tol.
func AnalyzeCoord(dim string, c *labeled.Coord, tol float64) (Spacing, error) {
	vs := c.Float64s()
	if len(vs) < 2 {
		return Spacing{}, errors.Wrapf(ErrDegenerateAxis, "dimension %q has %d sample(s)", dim, len(vs))
	}
	sp := Spacing{
		Delta:   math.Abs(vs[1] - vs[0]),
		Lag:     vs[len(vs)/2],
		Uniform: evenlySpaced(vs, tol),
	}
	if !sp.Uniform {
		return sp, errors.Wrapf(ErrNonUniformSpacing, "dimension %q", dim)
	}
	if sp.Delta == 0 {
		return sp, errors.Wrapf(ErrDegenerateAxis, "dimension %q", dim)
	}
	return sp, nil
}

// analyzeFreq checks the frequency coordinate of dim before an inverse
// transform.
//
// A coordinate failing the spacing check is sorted and checked again: a
// sorted grid passing the check is an unshifted frequency grid, and the
// returned permutation must be applied to the data. The grid must be
// centered on zero; for the real dimension the first value is the one
// checked.
func analyzeFreq(dim string, c *labeled.Coord, tol float64, real bool) (Spacing, []int, error) {
	vs := c.Float64s()
	if len(vs) < 2 {
		return Spacing{}, nil, errors.Wrapf(ErrDegenerateAxis, "dimension %q has %d sample(s)", dim, len(vs))
	}
	var (
		perm []int
		lag  = vs[len(vs)/2]
	)
	if real {
		lag = vs[0]
	}
	if !evenlySpaced(vs, tol) {
		sorted := append([]float64(nil), vs...)
		perm = make([]int, len(vs))
		floats.Argsort(sorted, perm)
		if !evenlySpaced(sorted, tol) {
			return Spacing{}, nil, errors.Wrapf(ErrNonUniformSpacing, "dimension %q", dim)
		}
		vs = sorted
		lag = vs[len(vs)/2]
	}
	sp := Spacing{
		Delta:   math.Abs(vs[1] - vs[0]),
		Lag:     lag,
		Uniform: true,
	}
	if math.Abs(sp.Lag) > tol {
		return sp, nil, errors.Wrapf(ErrUncenteredSpectrum, "dimension %q (lag=%g)", dim, sp.Lag)
	}
	if sp.Delta == 0 {
		return sp, nil, errors.Wrapf(ErrDegenerateAxis, "dimension %q", dim)
	}
	return sp, perm, nil
}
