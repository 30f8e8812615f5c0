// Copyright 2019 The fouracc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package binning groups values into equal-width bins and reduces them.
package binning

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Cut partitions the value range of xs into n equal-width bins.
//
// Bins are right-closed intervals (e[i], e[i+1]]. The lowest edge is moved
// down by 0.1% of the range so that the minimum falls in the first bin.
// Cut returns the n+1 edges and the bin index of every value; NaN values
// get index -1.
func Cut(xs []float64, n int) (edges []float64, idx []int, err error) {
	if n < 1 {
		return nil, nil, errors.Errorf("binning: invalid number of bins %d", n)
	}
	lo, hi := math.Inf(+1), math.Inf(-1)
	for _, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return nil, nil, errors.Errorf("binning: no finite values to bin")
	}

	edges = make([]float64, n+1)
	switch {
	case lo == hi:
		lo -= widen(lo)
		hi += widen(hi)
		floats.Span(edges, lo, hi)
	default:
		floats.Span(edges, lo, hi)
		edges[0] -= (hi - lo) * 0.001
	}

	idx = make([]int, len(xs))
	for i, x := range xs {
		if math.IsNaN(x) {
			idx[i] = -1
			continue
		}
		j := sort.SearchFloat64s(edges, x) - 1
		idx[i] = min(max(j, 0), n-1)
	}
	return edges, idx, nil
}

func widen(v float64) float64 {
	if v == 0 {
		return 0.001
	}
	return 0.001 * math.Abs(v)
}

// Mean returns the mean of the values in each of the n bins. Empty bins
// are zero. Values with a negative bin index are ignored.
func Mean(vs []float64, idx []int, n int) []float64 {
	var (
		sum = make([]float64, n)
		cnt = make([]int, n)
	)
	for i, v := range vs {
		j := idx[i]
		if j < 0 {
			continue
		}
		sum[j] += v
		cnt[j]++
	}
	for j := range sum {
		if cnt[j] > 0 {
			sum[j] /= float64(cnt[j])
		}
	}
	return sum
}

// MeanComplex is the complex counterpart of Mean.
func MeanComplex(vs []complex128, idx []int, n int) []complex128 {
	var (
		sum = make([]complex128, n)
		cnt = make([]int, n)
	)
	for i, v := range vs {
		j := idx[i]
		if j < 0 {
			continue
		}
		sum[j] += v
		cnt[j]++
	}
	for j := range sum {
		if cnt[j] > 0 {
			sum[j] /= complex(float64(cnt[j]), 0)
		}
	}
	return sum
}
