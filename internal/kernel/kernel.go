// Copyright 2019 The fouracc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kernel implements index-based N-dimensional discrete Fourier
// transforms of labeled arrays along axis positions.
//
// Forward transforms are unnormalized, inverse transforms are scaled by 1/n,
// as numpy.fft does. Coordinates are not interpreted here.
package kernel

import (
	"github.com/lsst-lpc/fouracc/internal/backend"
	"github.com/lsst-lpc/fouracc/labeled"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Transformer applies 1-dimensional engine transforms lane by lane.
type Transformer struct {
	Engine  Engine
	Backend backend.Backend
}

func (t Transformer) engine() Engine {
	if t.Engine == nil {
		return Gonum{}
	}
	return t.Engine
}

func (t Transformer) backend() backend.Backend {
	if t.Backend == nil {
		return backend.Eager{}
	}
	return t.Backend
}

func copyOf(a *labeled.Array) (*labeled.Array, error) {
	return a.WithData(a.Shape(), append([]complex128(nil), a.Data()...))
}

// FFTN returns the forward transform of a along axes.
func (t Transformer) FFTN(a *labeled.Array, axes []int) (*labeled.Array, error) {
	o, err := copyOf(a)
	if err != nil {
		return nil, err
	}
	for _, axis := range axes {
		err = t.along(o, axis, false)
		if err != nil {
			return nil, err
		}
	}
	return o, nil
}

// IFFTN returns the inverse transform of a along axes.
func (t Transformer) IFFTN(a *labeled.Array, axes []int) (*labeled.Array, error) {
	o, err := copyOf(a)
	if err != nil {
		return nil, err
	}
	for _, axis := range axes {
		err = t.along(o, axis, true)
		if err != nil {
			return nil, err
		}
	}
	return o, nil
}

// RFFTN returns the forward transform of the real part of a along axes.
// The last axis is transformed first with a real-input transform and keeps
// only its n/2+1 non-negative frequencies.
func (t Transformer) RFFTN(a *labeled.Array, axes []int) (*labeled.Array, error) {
	if len(axes) == 0 {
		return copyOf(a)
	}
	last := axes[len(axes)-1]
	o, err := t.realForward(a, last)
	if err != nil {
		return nil, err
	}
	for _, axis := range axes[:len(axes)-1] {
		err = t.along(o, axis, false)
		if err != nil {
			return nil, err
		}
	}
	return o, nil
}

// IRFFTN inverts RFFTN: the last axis of length m is expanded to a real
// sequence of length 2*(m-1).
func (t Transformer) IRFFTN(a *labeled.Array, axes []int) (*labeled.Array, error) {
	if len(axes) == 0 {
		return copyOf(a)
	}
	o, err := copyOf(a)
	if err != nil {
		return nil, err
	}
	for _, axis := range axes[:len(axes)-1] {
		err = t.along(o, axis, true)
		if err != nil {
			return nil, err
		}
	}
	return t.realBackward(o, axes[len(axes)-1])
}

func (t Transformer) along(a *labeled.Array, axis int, inverse bool) error {
	var (
		eng  = t.engine()
		data = a.Data()
		n    = a.Shape()[axis]
		norm = complex(1/float64(n), 0)
	)
	lanes, stride, offset := a.Lanes(axis)
	return t.backend().Run(lanes, func(k int) error {
		var (
			off = offset(k)
			buf = make([]complex128, n)
		)
		for i := range buf {
			buf[i] = data[off+i*stride]
		}
		switch {
		case inverse:
			eng.Backward(buf)
			for i := range buf {
				buf[i] *= norm
			}
		default:
			eng.Forward(buf)
		}
		for i, v := range buf {
			data[off+i*stride] = v
		}
		return nil
	})
}

func (t Transformer) realForward(a *labeled.Array, axis int) (*labeled.Array, error) {
	var (
		shape = a.Shape()
		n     = shape[axis]
		m     = n/2 + 1
	)
	if n < 1 {
		return nil, errors.Errorf("kernel: empty axis %d", axis)
	}
	shape[axis] = m
	o, err := a.WithData(shape, nil)
	if err != nil {
		return nil, err
	}

	var (
		eng                 = t.engine()
		src, dst            = a.Data(), o.Data()
		lanes, sst, soff    = a.Lanes(axis)
		_, dstride, doffset = o.Lanes(axis)
	)
	err = t.backend().Run(lanes, func(k int) error {
		var (
			seq   = make([]float64, n)
			coeff = make([]complex128, m)
			off   = soff(k)
		)
		for i := range seq {
			seq[i] = real(src[off+i*sst])
		}
		realForward(eng, coeff, seq)
		off = doffset(k)
		for i, v := range coeff {
			dst[off+i*dstride] = v
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (t Transformer) realBackward(a *labeled.Array, axis int) (*labeled.Array, error) {
	var (
		shape = a.Shape()
		m     = shape[axis]
		n     = 2 * (m - 1)
	)
	if m < 2 {
		return nil, errors.Errorf("kernel: real inverse transform needs at least 2 coefficients, got %d", m)
	}
	shape[axis] = n
	o, err := a.WithData(shape, nil)
	if err != nil {
		return nil, err
	}

	var (
		eng                 = t.engine()
		norm                = 1 / float64(n)
		src, dst            = a.Data(), o.Data()
		lanes, sst, soff    = a.Lanes(axis)
		_, dstride, doffset = o.Lanes(axis)
	)
	err = t.backend().Run(lanes, func(k int) error {
		var (
			coeff = make([]complex128, m)
			seq   = make([]float64, n)
			off   = soff(k)
		)
		for i := range coeff {
			coeff[i] = src[off+i*sst]
		}
		realBackward(eng, seq, coeff)
		off = doffset(k)
		for i, v := range seq {
			dst[off+i*dstride] = complex(v*norm, 0)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Shift reorders a along axes so that the zero frequency sits at the
// centre, as numpy.fft.fftshift does.
func Shift(a *labeled.Array, axes []int) (*labeled.Array, error) {
	return roll(a, axes, (*fourier.CmplxFFT).ShiftIdx)
}

// Unshift is the inverse of Shift, as numpy.fft.ifftshift.
func Unshift(a *labeled.Array, axes []int) (*labeled.Array, error) {
	return roll(a, axes, (*fourier.CmplxFFT).UnshiftIdx)
}

func roll(a *labeled.Array, axes []int, idx func(*fourier.CmplxFFT, int) int) (*labeled.Array, error) {
	var (
		o    = a
		dims = a.Dims()
	)
	for _, axis := range axes {
		n := a.Shape()[axis]
		if n < 2 {
			continue
		}
		var (
			plan = fourier.NewCmplxFFT(n)
			perm = make([]int, n)
		)
		for i := range perm {
			perm[i] = idx(plan, i)
		}
		var err error
		o, err = o.Take(dims[axis], perm)
		if err != nil {
			return nil, err
		}
	}
	return o, nil
}
