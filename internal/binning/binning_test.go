// Copyright 2019 The fouracc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binning

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCut(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, math.NaN()}
	edges, idx, err := Cut(xs, 4)
	require.NoError(t, err)
	require.Len(t, edges, 5)
	assert.InDelta(t, -0.008, edges[0], 1e-12)
	assert.Equal(t, []float64{2, 4, 6, 8}, edges[1:])
	// right-closed: 2 belongs to (0, 2], 2.5 would belong to (2, 4].
	assert.Equal(t, []int{0, 0, 0, 1, 1, 2, 2, 3, 3, -1}, idx)
}

func TestCutConstant(t *testing.T) {
	edges, idx, err := Cut([]float64{3, 3, 3}, 2)
	require.NoError(t, err)
	assert.InDelta(t, 2.997, edges[0], 1e-12)
	assert.InDelta(t, 3.003, edges[2], 1e-12)
	assert.Equal(t, []int{0, 0, 0}, idx)
}

func TestCutErrors(t *testing.T) {
	_, _, err := Cut([]float64{1, 2}, 0)
	assert.Error(t, err)
	_, _, err = Cut([]float64{math.NaN()}, 2)
	assert.Error(t, err)
}

func TestMean(t *testing.T) {
	vs := []float64{1, 2, 3, 10, 99}
	idx := []int{0, 0, 0, 2, -1}
	assert.Equal(t, []float64{2, 0, 10}, Mean(vs, idx, 3))

	cs := []complex128{1 + 1i, 3 - 1i, 5i}
	assert.Equal(t, []complex128{2, 5i}, MeanComplex(cs, []int{0, 0, 1}, 2))
}
