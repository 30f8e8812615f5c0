// Copyright 2019 The fouracc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"testing"

	"github.com/lsst-lpc/fouracc/labeled"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	beg, end, err := clean(10, 2, -1)
	require.NoError(t, err)
	assert.Equal(t, 2, beg)
	assert.Equal(t, 10, end)

	for _, tc := range [][2]int{{0, 11}, {5, 4}, {-1, 3}} {
		_, _, err = clean(10, tc[0], tc[1])
		assert.Error(t, err, "range %v", tc)
	}
}

func TestSlice(t *testing.T) {
	a, err := labeled.Series("time", []float64{0, 1, 2, 3, 4}, []float64{5, 6, 7, 8, 9})
	require.NoError(t, err)

	s, err := slice(a, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{6, 7}, s.Floats())
	assert.Equal(t, []float64{1, 2}, s.Coord("time").Values)

	_, err = slice(a, 0, 6)
	assert.Error(t, err)
}
