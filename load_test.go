// Copyright 2019 The fouracc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fouracc

import (
	"bytes"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/lsst-lpc/fouracc/labeled"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestLoad(t *testing.T) {
	for _, tc := range []struct {
		name   string
		input  string
		xs, ys []float64
	}{
		{
			name:  "two-columns",
			input: "# time,acc\n0,1\n0.5,2\n1,3\n",
			xs:    []float64{0, 0.5, 1},
			ys:    []float64{1, 2, 3},
		},
		{
			name:  "one-column",
			input: "4\n5\n6\n7\n",
			xs:    []float64{0, 1, 2, 3},
			ys:    []float64{4, 5, 6, 7},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			a, err := Load(strings.NewReader(tc.input))
			require.NoError(t, err)
			assert.Equal(t, []string{TimeDim}, a.Dims())
			assert.Equal(t, tc.xs, a.Coord(TimeDim).Values)
			assert.Equal(t, tc.ys, a.Floats())
		})
	}

	_, err := Load(strings.NewReader("1,2,3\n"))
	assert.Error(t, err)
}

func TestSave(t *testing.T) {
	a, err := labeled.New([]string{"freq_x", "y"}, []int{2, 3}, []complex128{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	require.NoError(t, a.SetCoord("freq_x", labeled.NewCoord([]float64{-0.5, 0})))

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, a))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	want := [][]float64{{-0.5, 1, 2, 3}, {0, 4, 5, 6}}
	for i, line := range lines {
		fields := strings.Split(line, "\t")
		require.Len(t, fields, 4, "line %d", i)
		for j, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			require.NoError(t, err)
			assert.Equal(t, want[i][j], v, "line %d, field %d", i, j)
		}
	}

	cube, err := labeled.New([]string{"x", "y", "z"}, []int{1, 1, 1}, nil)
	require.NoError(t, err)
	assert.Error(t, Save(&buf, cube))
}

func TestAnalyze(t *testing.T) {
	const (
		n  = 1050
		dt = 0.01
	)
	var (
		xs = span(n, 0, dt)
		ys = make([]float64, n)
	)
	for i, x := range xs {
		ys[i] = math.Sin(2 * math.Pi * 10 * x)
	}
	series, err := labeled.Series(TimeDim, xs, ys)
	require.NoError(t, err)

	an, err := Analyze("acc", series, 100, quietly())
	require.NoError(t, err)
	assert.Equal(t, "acc", an.Name)
	assert.Equal(t, 100, an.Chunks)
	assert.Equal(t, []int{1000}, an.Series.Shape())

	sg := an.Spectrogram
	assert.Equal(t, []string{"time_segment", "freq_time"}, sg.Dims())
	assert.Equal(t, []int{10, 51}, sg.Shape())
	assert.InDeltaSlice(t, span(10, 0, 1), sg.Coord("time_segment").Values, 1e-9)
	assert.InDeltaSlice(t, span(51, 0, 1), sg.Coord("freq_time").Values, 1e-9)

	sp := an.Spectrum
	assert.Equal(t, []string{"freq_time"}, sp.Dims())
	assert.Equal(t, 10, floats.MaxIdx(sp.Floats()))

	_, err = Analyze("acc", series, 1)
	assert.Error(t, err)
	_, err = Analyze("acc", series, 2000)
	assert.Error(t, err)
}
