// Copyright 2019 The fouracc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fouracc

import (
	"github.com/lsst-lpc/fouracc/labeled"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/dsp/window"
)

func windowFunc(name string) (func(seq []float64) []float64, error) {
	switch name {
	case "hann", "hanning":
		return window.Hann, nil
	}
	return nil, errors.Wrapf(ErrUnsupportedWindow, "%q", name)
}

// taper multiplies a, in place, by the separable window along axes.
func taper(a *labeled.Array, axes []int, name string) error {
	fn, err := windowFunc(name)
	if err != nil {
		return err
	}
	shape := a.Shape()
	for _, axis := range axes {
		n := shape[axis]
		seq := make([]float64, n)
		for i := range seq {
			seq[i] = 1
		}
		if n > 1 {
			seq = fn(seq)
		}
		w := make([]complex128, n)
		for i, v := range seq {
			w[i] = complex(v, 0)
		}
		err = a.MulAlong(axis, w)
		if err != nil {
			return err
		}
	}
	return nil
}
