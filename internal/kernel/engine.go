// Copyright 2019 The fouracc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"math/cmplx"
	"sync"

	dspfft "github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Engine computes unnormalized 1-dimensional complex DFTs in place.
type Engine interface {
	Forward(seq []complex128)
	Backward(seq []complex128)
}

// RealEngine is implemented by engines with dedicated real-input transforms.
type RealEngine interface {
	Engine

	// RealForward places the len(seq)/2+1 non-negative frequency
	// coefficients of seq into dst.
	RealForward(dst []complex128, seq []float64)

	// RealBackward computes the unnormalized real sequence of length
	// len(dst) from its non-negative frequency coefficients.
	RealBackward(dst []float64, coeff []complex128)
}

// Gonum is the engine backed by gonum's dsp/fourier package.
type Gonum struct{}

var (
	cplans sync.Map // map[int]*sync.Pool holding *fourier.CmplxFFT
	rplans sync.Map // map[int]*sync.Pool holding *fourier.FFT
)

func pool(plans *sync.Map, n int, mk func() any) *sync.Pool {
	if v, ok := plans.Load(n); ok {
		return v.(*sync.Pool)
	}
	v, _ := plans.LoadOrStore(n, &sync.Pool{New: mk})
	return v.(*sync.Pool)
}

func cmplxPlan(n int) (*fourier.CmplxFFT, func()) {
	p := pool(&cplans, n, func() any { return fourier.NewCmplxFFT(n) })
	fft := p.Get().(*fourier.CmplxFFT)
	return fft, func() { p.Put(fft) }
}

func realPlan(n int) (*fourier.FFT, func()) {
	p := pool(&rplans, n, func() any { return fourier.NewFFT(n) })
	fft := p.Get().(*fourier.FFT)
	return fft, func() { p.Put(fft) }
}

func (Gonum) Forward(seq []complex128) {
	fft, done := cmplxPlan(len(seq))
	defer done()
	fft.Coefficients(seq, seq)
}

func (Gonum) Backward(seq []complex128) {
	fft, done := cmplxPlan(len(seq))
	defer done()
	fft.Sequence(seq, seq)
}

func (Gonum) RealForward(dst []complex128, seq []float64) {
	fft, done := realPlan(len(seq))
	defer done()
	fft.Coefficients(dst, seq)
}

func (Gonum) RealBackward(dst []float64, coeff []complex128) {
	fft, done := realPlan(len(dst))
	defer done()
	fft.Sequence(dst, coeff)
}

// GoDSP is the engine backed by github.com/mjibson/go-dsp/fft.
type GoDSP struct{}

func (GoDSP) Forward(seq []complex128) {
	copy(seq, dspfft.FFT(seq))
}

func (GoDSP) Backward(seq []complex128) {
	// go-dsp normalizes its inverse transform.
	n := complex(float64(len(seq)), 0)
	for i, v := range dspfft.IFFT(seq) {
		seq[i] = v * n
	}
}

func realForward(eng Engine, dst []complex128, seq []float64) {
	if re, ok := eng.(RealEngine); ok {
		re.RealForward(dst, seq)
		return
	}
	buf := make([]complex128, len(seq))
	for i, v := range seq {
		buf[i] = complex(v, 0)
	}
	eng.Forward(buf)
	copy(dst, buf[:len(dst)])
}

func realBackward(eng Engine, dst []float64, coeff []complex128) {
	if re, ok := eng.(RealEngine); ok {
		re.RealBackward(dst, coeff)
		return
	}
	n := len(dst)
	buf := make([]complex128, n)
	for k := 0; k <= n/2; k++ {
		buf[k] = coeff[k]
	}
	for k := 1; k < (n+1)/2; k++ {
		buf[n-k] = cmplx.Conj(coeff[k])
	}
	// the DC and Nyquist bins of a real sequence are real.
	buf[0] = complex(real(buf[0]), 0)
	if n%2 == 0 {
		buf[n/2] = complex(real(buf[n/2]), 0)
	}
	eng.Backward(buf)
	for i, v := range buf {
		dst[i] = real(v)
	}
}
