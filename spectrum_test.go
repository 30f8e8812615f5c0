// Copyright 2019 The fouracc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fouracc

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/lsst-lpc/fouracc/internal/binning"
	"github.com/lsst-lpc/fouracc/labeled"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestParseval(t *testing.T) {
	const (
		n  = 64
		dx = 0.1
		df = 1 / (n * dx)
	)
	var (
		ys    = lcg(n, 9)
		a     = series(t, span(n, 0, dx), ys)
		mean  = floats.Sum(ys) / n
		power float64
	)
	for _, y := range ys {
		power += (y - mean) * (y - mean)
	}

	for _, tc := range []struct {
		scaling Scaling
		want    float64
	}{
		{DensityScaling, power * dx},
		{FalseDensityScaling, power * dx / df},
		{SpectrumScaling, power / n},
	} {
		t.Run(string(tc.scaling), func(t *testing.T) {
			ps, err := PowerSpectrum(a, Detrend(ConstantDetrend), WithScaling(tc.scaling), quietly())
			require.NoError(t, err)
			assert.Equal(t, []string{"freq_x"}, ps.Dims())
			assert.InEpsilon(t, tc.want, floats.Sum(ps.Floats()), 1e-10)
			for i, v := range ps.Data() {
				assert.Zero(t, imag(v), "imag[%d]", i)
			}
		})
	}
}

func TestPowerSpectrumReal(t *testing.T) {
	a := series(t, span(16, 0, 0.5), lcg(16, 10))
	full, err := PowerSpectrum(a, quietly())
	require.NoError(t, err)
	half, err := PowerSpectrum(a, RealDim("x"), quietly())
	require.NoError(t, err)
	require.Equal(t, []int{9}, half.Shape())
	for i := 0; i < 9; i++ {
		assert.InDelta(t, 2*real(full.At((8+i)%16)), real(half.At(i)), 1e-12, "bin %d", i)
	}
}

func TestScalingOptions(t *testing.T) {
	a := series(t, span(16, 0, 0.5), lcg(16, 11))

	_, err := PowerSpectrum(a, WithScaling("bogus"), quietly())
	assert.True(t, errors.Is(err, ErrInvalidScaling), "got %v", err)

	diag := &Diagnostics{}
	legacy, err := PowerSpectrum(a, Density(false), WithScaling(SpectrumScaling), WithReporter(diag))
	require.NoError(t, err)
	assert.True(t, diag.Has(Deprecated))
	assert.False(t, diag.Has(FutureDefault))

	want, err := PowerSpectrum(a, WithScaling(FalseDensityScaling), quietly())
	require.NoError(t, err)
	assertCmplx(t, want.Data(), legacy.Data(), 1e-12)
}

func TestCrossSpectrum(t *testing.T) {
	var (
		xs = span(32, 0, 0.25)
		a  = series(t, xs, lcg(32, 12))
		b  = series(t, xs, lcg(32, 13))
	)
	ab, err := CrossSpectrum(a, b, TruePhase(true))
	require.NoError(t, err)
	ba, err := CrossSpectrum(b, a, TruePhase(true))
	require.NoError(t, err)
	for i := range ab.Data() {
		assert.InDelta(t, 0, cmplx.Abs(ab.At(i)-cmplx.Conj(ba.At(i))), 1e-12, "bin %d", i)
	}

	aa, err := CrossSpectrum(a, a, TruePhase(true))
	require.NoError(t, err)
	ps, err := PowerSpectrum(a)
	require.NoError(t, err)
	assertCmplx(t, ps.Data(), aa.Data(), 1e-12)

	diag := &Diagnostics{}
	_, err = CrossSpectrum(a, b, WithReporter(diag))
	require.NoError(t, err)
	assert.True(t, diag.Has(FutureDefault))

	_, err = CrossSpectrum(a, series(t, span(16, 0, 0.25), lcg(16, 14)), TruePhase(true))
	assert.True(t, errors.Is(err, ErrMismatchedDimensions), "got %v", err)
}

func TestCrossPhase(t *testing.T) {
	var (
		n  = 32
		xs = span(n, 0, 1)
		u  = make([]float64, n)
		v  = make([]float64, n)
	)
	for i, x := range xs {
		u[i] = math.Sin(2 * math.Pi * 4 * x / float64(n))
		v[i] = math.Cos(2 * math.Pi * 4 * x / float64(n))
	}
	a := series(t, xs, u)
	a.Name = "u"
	b := series(t, xs, v)
	b.Name = "v"

	ph, err := CrossPhase(a, b, TruePhase(true))
	require.NoError(t, err)
	assert.Equal(t, "u_v_phase", ph.Name)
	for i, v := range ph.Data() {
		assert.True(t, math.Abs(real(v)) <= math.Pi, "bin %d: %v", i, v)
	}
	// sin lags cos by a quarter period.
	k := n/2 + 4
	assert.InDelta(t, 4.0/float64(n), ph.Coord("freq_x").Values[k], 1e-12)
	assert.InDelta(t, -math.Pi/2, real(ph.At(k)), 1e-9)
}

func TestIsotropicPowerSpectrum(t *testing.T) {
	const n = 64
	a, err := labeled.FromFloats([]string{"y", "x"}, []int{n, n}, lcg(n*n, 15))
	require.NoError(t, err)

	iso, err := IsotropicPowerSpectrum(a, quietly())
	require.NoError(t, err)
	assert.Equal(t, []string{RadialDim}, iso.Dims())
	assert.Equal(t, []int{16}, iso.Shape())
	kr := iso.Coord(RadialDim).Values
	for i := 1; i < len(kr); i++ {
		assert.Greater(t, kr[i], kr[i-1], "bin %d", i)
	}

	iso, err = IsotropicPowerSpectrum(a, NFactor(8), quietly())
	require.NoError(t, err)
	assert.Equal(t, []int{8}, iso.Shape())

	cs, err := IsotropicCrossSpectrum(a, a, TruePhase(true), quietly())
	require.NoError(t, err)
	ps, err := IsotropicPowerSpectrum(a, quietly())
	require.NoError(t, err)
	assertCmplx(t, ps.Data(), cs.Data(), 1e-6)

	_, err = IsotropicPowerSpectrum(a, RealDim("x"), quietly())
	assert.True(t, errors.Is(err, ErrInvalidDimension), "got %v", err)
}

func TestIsotropicOuterDims(t *testing.T) {
	a, err := labeled.FromFloats([]string{"y", "t", "x"}, []int{16, 3, 16}, lcg(16*3*16, 16))
	require.NoError(t, err)

	_, err = IsotropicPowerSpectrum(a, quietly())
	assert.True(t, errors.Is(err, ErrInvalidDimension), "got %v", err)

	iso, err := IsotropicPowerSpectrum(a, Dims("y", "x"), quietly())
	require.NoError(t, err)
	assert.Equal(t, []string{"t", RadialDim}, iso.Dims())
	assert.Equal(t, []int{3, 4}, iso.Shape())

	b, err := labeled.FromFloats([]string{"x", "y", "t"}, []int{16, 16, 3}, lcg(16*3*16, 17))
	require.NoError(t, err)
	_, err = IsotropicCrossSpectrum(a, b, TruePhase(true), quietly())
	assert.True(t, errors.Is(err, ErrMismatchedDimensions), "got %v", err)
}

func TestIsotropize(t *testing.T) {
	const n = 8
	s, err := labeled.New([]string{"freq_y", "freq_x"}, []int{n, n}, nil)
	require.NoError(t, err)
	s.Apply(func(complex128) complex128 { return 1 })
	fs := ShiftFreq(FFTFreq(n, 1))
	require.NoError(t, s.SetCoord("freq_y", labeled.NewCoord(fs)))
	require.NoError(t, s.SetCoord("freq_x", labeled.NewCoord(fs)))

	iso, err := Isotropize(s, [2]string{"freq_y", "freq_x"}, 2)
	require.NoError(t, err)
	require.Equal(t, []int{4}, iso.Shape())
	kr := iso.Coord(RadialDim).Values
	for i, v := range iso.Data() {
		assert.InDelta(t, kr[i], real(v), 1e-12, "bin %d", i)
	}
	// hypot(k, l) over the shifted 8-point frequencies, cut in 4 bins.
	want := []float64{
		(0.5 + 4*math.Hypot(0.125, 0.125)) / 9,
		0.2906425962420553,
		0.4483567364000282,
		0.604797195409593,
	}
	assert.InDeltaSlice(t, want, kr, 1e-12)
	assert.True(t, kr[3] <= math.Sqrt(0.5))

	var fr []float64
	for _, l := range fs {
		for _, k := range fs {
			fr = append(fr, math.Hypot(k, l))
		}
	}
	_, idx, err := binning.Cut(fr, 4)
	require.NoError(t, err)
	counts := make([]int, 4)
	for _, i := range idx {
		counts[i]++
	}
	assert.Equal(t, []int{9, 16, 30, 9}, counts)

	_, err = Isotropize(s, [2]string{"freq_y", "freq_y"}, 2)
	assert.True(t, errors.Is(err, ErrInvalidDimension), "got %v", err)
	_, err = Isotropize(s, [2]string{"freq_y", "freq_x"}, 16)
	assert.True(t, errors.Is(err, ErrInvalidDimension), "got %v", err)
}

func TestFitLogLog(t *testing.T) {
	var (
		x = []float64{1, 2, 4, 8, 16}
		y = make([]float64, len(x))
	)
	for i, v := range x {
		y[i] = 3 * math.Pow(v, -2)
	}
	fit, slope, intercept, err := FitLogLog(x, y)
	require.NoError(t, err)
	assert.InDelta(t, -2, slope, 1e-12)
	assert.InDelta(t, math.Log2(3), intercept, 1e-12)
	assert.InDeltaSlice(t, y, fit, 1e-12)

	_, _, _, err = FitLogLog(x, y[:2])
	assert.Error(t, err)
	_, _, _, err = FitLogLog(x[:1], y[:1])
	assert.Error(t, err)
	_, _, _, err = FitLogLog([]float64{0, 1}, []float64{1, 1})
	assert.Error(t, err)
}
