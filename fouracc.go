// Copyright 2019 The fouracc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fouracc computes Fourier transforms and spectra of labeled
// arrays, taking the coordinates of the transformed dimensions into
// account.
//
// Transformed dimensions are renamed with a prefix ("freq_" by default)
// and carry their frequencies as coordinates. Transforming such a
// dimension back strips the prefix. With TruePhase and TrueAmplitude, Dft
// and Idft approximate the continuous Fourier transform of the sampled
// signal: the phase is referenced to the coordinate at the middle of each
// dimension and the amplitude is scaled by the sample spacing.
package fouracc

import (
	"github.com/lsst-lpc/fouracc/labeled"
)

// Dft computes the discrete Fourier transform of a.
func Dft(a *labeled.Array, opts ...Option) (*labeled.Array, error) {
	return run("dft", forward, a, newConfig(opts))
}

// Idft computes the inverse discrete Fourier transform of a, whose
// transformed dimensions must hold frequencies centered on zero.
//
// The output coordinates are centered on zero, unless a lag is given with
// the Lag option or, with TruePhase, recorded by Dft.
func Idft(a *labeled.Array, opts ...Option) (*labeled.Array, error) {
	return run("idft", inverse, a, newConfig(opts))
}

// FFT computes the index-based transform of a, like numpy.fft.fftn with
// frequency coordinates. TruePhase and TrueAmplitude are ignored.
func FFT(a *labeled.Array, opts ...Option) (*labeled.Array, error) {
	const op = "fft"
	cfg := newConfig(append(opts[:len(opts):len(opts)], quiet()))
	plain(op, &cfg)
	return run(op, forward, a, cfg)
}

// IFFT computes the index-based inverse transform of a. TruePhase,
// TrueAmplitude and Lag are ignored.
func IFFT(a *labeled.Array, opts ...Option) (*labeled.Array, error) {
	const op = "ifft"
	cfg := newConfig(append(opts[:len(opts):len(opts)], quiet()))
	plain(op, &cfg)
	if cfg.lag != nil {
		cfg.warn(op, IgnoredArgument, "lag argument is ignored")
		cfg.lag = nil
	}
	return run(op, inverse, a, cfg)
}

func plain(op string, cfg *Config) {
	if cfg.truePhase {
		cfg.warn(op, IgnoredArgument, "true phase argument is ignored")
	}
	if cfg.trueAmplitude {
		cfg.warn(op, IgnoredArgument, "true amplitude argument is ignored")
	}
	cfg.truePhase = false
	cfg.trueAmplitude = false
}
