// Copyright 2019 The fouracc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fouracc

import (
	"github.com/lsst-lpc/fouracc/labeled"
	"github.com/pkg/errors"
)

// SegmentSuffix is appended to a dimension name to name its segment
// dimension.
const SegmentSuffix = "_segment"

// Segment splits every dimension of dims into a segment dimension, named
// after it with SegmentSuffix, followed by the dimension itself holding
// one chunk of samples.
//
// All chunks along a split dimension must have the same length. The
// within-segment dimension keeps the coordinates of the first segment and
// the segment dimension is indexed from 0. Each segment is one chunk of
// the result.
func Segment(a *labeled.Array, dims ...string) (*labeled.Array, error) {
	split := make(map[string]bool, len(dims))
	for _, d := range dims {
		if !a.Has(d) {
			return nil, errors.Wrapf(ErrInvalidDimension, "no dimension %q", d)
		}
		split[d] = true
	}

	var (
		names  []string
		shape  []int
		coords = make(map[string]*labeled.Coord)
		chunks = make(map[string][]int)
	)
	for _, d := range a.Dims() {
		n := a.Len(d)
		if !split[d] {
			names = append(names, d)
			shape = append(shape, n)
			chunks[d] = a.Chunks(d)
			continue
		}
		ch := a.Chunks(d)
		for _, c := range ch[1:] {
			if c != ch[0] {
				return nil, errors.Wrapf(ErrUnevenChunking, "dimension %q has chunks %v", d, ch)
			}
		}
		var (
			size = ch[0]
			nseg = len(ch)
			seg  = d + SegmentSuffix
		)
		names = append(names, seg, d)
		shape = append(shape, nseg, size)
		coords[seg] = labeled.IndexCoord(nseg)
		coords[d] = a.CoordOrIndex(d).Slice(0, size)
		ones := make([]int, nseg)
		for i := range ones {
			ones[i] = 1
		}
		chunks[seg] = ones
	}

	o, err := a.Reshape(names, shape)
	if err != nil {
		return nil, errors.Wrap(err, "fouracc: could not segment array")
	}
	for d, c := range coords {
		err = o.SetCoord(d, c)
		if err != nil {
			return nil, err
		}
	}
	for d, ch := range chunks {
		err = o.SetChunks(d, ch)
		if err != nil {
			return nil, err
		}
	}
	return o, nil
}
