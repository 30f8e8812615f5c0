// Copyright 2019 The fouracc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fouracc

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// FitLogLog fits a line to y(x) in log2-log2 space, as is done for
// isotropic spectra. It returns the fitted values, the slope and the
// intercept.
func FitLogLog(x, y []float64) (fit []float64, slope, intercept float64, err error) {
	if len(x) != len(y) {
		return nil, 0, 0, errors.Errorf("fouracc: fit length mismatch (x=%d, y=%d)", len(x), len(y))
	}
	if len(x) < 2 {
		return nil, 0, 0, errors.Errorf("fouracc: need at least 2 points to fit, got %d", len(x))
	}
	var (
		lx = make([]float64, len(x))
		ly = make([]float64, len(y))
	)
	for i := range x {
		if x[i] <= 0 || y[i] <= 0 {
			return nil, 0, 0, errors.Errorf("fouracc: non-positive value at %d (x=%g, y=%g)", i, x[i], y[i])
		}
		lx[i] = math.Log2(x[i])
		ly[i] = math.Log2(y[i])
	}
	intercept, slope = stat.LinearRegression(lx, ly, nil, false)

	fit = make([]float64, len(x))
	for i, v := range lx {
		fit[i] = math.Exp2(v*slope + intercept)
	}
	return fit, slope, intercept, nil
}
