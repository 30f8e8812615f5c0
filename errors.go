// Copyright 2019 The fouracc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fouracc

import (
	"github.com/pkg/errors"
)

// Errors returned by the transforms and spectra. They are wrapped with the
// name of the offending dimension; use errors.Is to test for them.
var (
	ErrNonUniformSpacing    = errors.New("fouracc: coordinate is not evenly spaced")
	ErrDegenerateAxis       = errors.New("fouracc: coordinate has zero spacing")
	ErrUncenteredSpectrum   = errors.New("fouracc: frequency coordinate is not centered on zero")
	ErrUnevenChunking       = errors.New("fouracc: chunks are not of equal size")
	ErrChunkedAxis          = errors.New("fouracc: transform dimension is split in several chunks")
	ErrUnsupportedDetrend   = errors.New("fouracc: unsupported detrend")
	ErrUnsupportedWindow    = errors.New("fouracc: unsupported window")
	ErrMismatchedDimensions = errors.New("fouracc: dimensions do not match")
	ErrInvalidScaling       = errors.New("fouracc: invalid scaling")
	ErrInvalidDimension     = errors.New("fouracc: invalid dimension")
	ErrInvalidLag           = errors.New("fouracc: invalid lag")
)
