// Copyright 2019 The fouracc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fouracc

import (
	"gonum.org/v1/gonum/dsp/fourier"
)

// FFTFreq returns the frequencies of the n coefficients of a complex
// transform of samples spaced by d, in transform order.
func FFTFreq(n int, d float64) []float64 {
	fs := make([]float64, n)
	if n == 0 {
		return fs
	}
	fft := fourier.NewCmplxFFT(n)
	for i := range fs {
		fs[i] = fft.Freq(i) / d
	}
	return fs
}

// RFFTFreq returns the n/2+1 non-negative frequencies of a real transform
// of n samples spaced by d.
func RFFTFreq(n int, d float64) []float64 {
	fs := make([]float64, n/2+1)
	if n == 0 {
		return fs[:0]
	}
	fft := fourier.NewFFT(n)
	for i := range fs {
		fs[i] = fft.Freq(i) / d
	}
	return fs
}

// ShiftFreq returns fs reordered with the zero frequency at the centre.
func ShiftFreq(fs []float64) []float64 {
	o := make([]float64, len(fs))
	if len(fs) < 2 {
		copy(o, fs)
		return o
	}
	fft := fourier.NewCmplxFFT(len(fs))
	for i := range o {
		o[i] = fs[fft.ShiftIdx(i)]
	}
	return o
}

// freqGrid builds the frequency coordinates of the transformed dimensions
// of lengths ns sampled with spacings ds. The last dimension is the real
// one when real is set.
//
// In the forward direction the real dimension keeps its n/2+1
// non-negative frequencies and is never shifted. In the inverse direction
// a real dimension of length n describes 2*(n-1) samples.
func freqGrid(dir direction, ns []int, ds []float64, real, shift bool) [][]float64 {
	grid := make([][]float64, len(ns))
	for i, n := range ns {
		last := real && i == len(ns)-1
		var fs []float64
		switch {
		case dir == forward && last:
			grid[i] = RFFTFreq(n, ds[i])
			continue
		case dir == inverse && last:
			fs = FFTFreq(2*(n-1), ds[i])
		default:
			fs = FFTFreq(n, ds[i])
		}
		if shift {
			fs = ShiftFreq(fs)
		}
		grid[i] = fs
	}
	return grid
}
