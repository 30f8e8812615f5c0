// Copyright 2019 The fouracc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fouracc

import (
	"github.com/lsst-lpc/fouracc/internal/backend"
	"github.com/lsst-lpc/fouracc/labeled"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// groups returns, for every combination of indices along the dimensions
// not in axes, the offsets of the elements spanned by axes, in row-major
// order.
func groups(a *labeled.Array, axes []int) [][]int {
	var (
		shape = a.Shape()
		in    = make([]bool, len(shape))
		gst   = make([]int, len(shape))
		ng    = 1
	)
	for _, ax := range axes {
		in[ax] = true
	}
	for i := len(shape) - 1; i >= 0; i-- {
		if in[i] {
			continue
		}
		gst[i] = ng
		ng *= shape[i]
	}
	if a.Size() == 0 {
		return nil
	}

	var (
		out = make([][]int, ng)
		idx = make([]int, len(shape))
	)
	for k := 0; k < a.Size(); k++ {
		g := 0
		for i, j := range idx {
			g += j * gst[i]
		}
		out[g] = append(out[g], k)
		for i := len(idx) - 1; i >= 0; i-- {
			idx[i]++
			if idx[i] < shape[i] {
				break
			}
			idx[i] = 0
		}
	}
	return out
}

// detrend removes, in place, the trend of a over axes.
func detrend(a *labeled.Array, axes []int, kind DetrendType, be backend.Backend) error {
	var (
		data = a.Data()
		grps = groups(a, axes)
	)
	switch kind {
	case NoDetrend:
		return nil
	case ConstantDetrend:
		return be.Run(len(grps), func(g int) error {
			var mean complex128
			for _, k := range grps[g] {
				mean += data[k]
			}
			mean /= complex(float64(len(grps[g])), 0)
			for _, k := range grps[g] {
				data[k] -= mean
			}
			return nil
		})
	case LinearDetrend:
		switch len(axes) {
		case 1:
			return be.Run(len(grps), func(g int) error {
				removeLine(data, grps[g])
				return nil
			})
		case 2:
			shape := a.Shape()
			return removePlanes(data, grps, shape[max(axes[0], axes[1])], be)
		}
		return errors.Wrapf(ErrUnsupportedDetrend, "linear detrend over %d dimensions", len(axes))
	}
	return errors.Wrapf(ErrUnsupportedDetrend, "%q", kind)
}

func removeLine(data []complex128, lane []int) {
	var (
		n  = len(lane)
		xs = make([]float64, n)
		re = make([]float64, n)
		im = make([]float64, n)
	)
	for i, k := range lane {
		xs[i] = float64(i)
		re[i] = real(data[k])
		im[i] = imag(data[k])
	}
	ra, rb := stat.LinearRegression(xs, re, nil, false)
	ia, ib := stat.LinearRegression(xs, im, nil, false)
	for i, k := range lane {
		x := xs[i]
		data[k] -= complex(ra+rb*x, ia+ib*x)
	}
}

// removePlanes subtracts the least-squares plane from every group of
// offsets. Groups are row-major over two axes, the inner one of length ni.
func removePlanes(data []complex128, grps [][]int, ni int, be backend.Backend) error {
	if len(grps) == 0 {
		return nil
	}
	n := len(grps[0])
	x := mat.NewDense(n, 3, nil)
	for r := 0; r < n; r++ {
		x.Set(r, 0, 1)
		x.Set(r, 1, float64(r/ni))
		x.Set(r, 2, float64(r%ni))
	}
	var qr mat.QR
	qr.Factorize(x)

	return be.Run(len(grps), func(g int) error {
		var (
			grp  = grps[g]
			b    = mat.NewDense(n, 2, nil)
			coef mat.Dense
			fit  mat.Dense
		)
		for r, k := range grp {
			b.Set(r, 0, real(data[k]))
			b.Set(r, 1, imag(data[k]))
		}
		err := qr.SolveTo(&coef, false, b)
		if err != nil {
			return errors.Wrap(err, "fouracc: could not fit plane")
		}
		fit.Mul(x, &coef)
		for r, k := range grp {
			data[k] -= complex(fit.At(r, 0), fit.At(r, 1))
		}
		return nil
	})
}
