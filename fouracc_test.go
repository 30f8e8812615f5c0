// Copyright 2019 The fouracc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fouracc

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/lsst-lpc/fouracc/labeled"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lcg returns a deterministic sequence of values in [0, 1).
func lcg(n int, seed uint32) []float64 {
	vs := make([]float64, n)
	for i := range vs {
		seed = seed*1664525 + 1013904223
		vs[i] = float64(seed>>8) / float64(1<<24)
	}
	return vs
}

func span(n int, x0, dx float64) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = x0 + float64(i)*dx
	}
	return xs
}

func series(t *testing.T, xs, ys []float64) *labeled.Array {
	t.Helper()
	a, err := labeled.Series("x", xs, ys)
	require.NoError(t, err)
	return a
}

func grid2D(t *testing.T, ny, nx int, complexValued bool) *labeled.Array {
	t.Helper()
	var (
		re   = lcg(ny*nx, 1)
		im   = lcg(ny*nx, 2)
		data = make([]complex128, ny*nx)
	)
	for i := range data {
		data[i] = complex(re[i], 0)
		if complexValued {
			data[i] += complex(0, im[i])
		}
	}
	a, err := labeled.New([]string{"y", "x"}, []int{ny, nx}, data)
	require.NoError(t, err)
	require.NoError(t, a.SetCoord("y", labeled.NewCoord(span(ny, 1, 0.5))))
	require.NoError(t, a.SetCoord("x", labeled.NewCoord(span(nx, -3, 0.25))))
	return a
}

func assertCmplx(t *testing.T, want, got []complex128, tol float64) {
	t.Helper()
	require.Equal(t, len(want), len(got))
	for i := range want {
		if cmplx.Abs(want[i]-got[i]) > tol {
			t.Fatalf("value[%d]: got=%v, want=%v", i, got[i], want[i])
		}
	}
}

func quietly() Option { return WithReporter(&Diagnostics{}) }

func TestFrequencyGrid(t *testing.T) {
	a := series(t, span(8, 0, 0.5), lcg(8, 3))

	ft, err := Dft(a, TrueAmplitude(true), quietly())
	require.NoError(t, err)
	assert.Equal(t, []string{"freq_x"}, ft.Dims())
	c := ft.Coord("freq_x")
	require.NotNil(t, c)
	assert.InDeltaSlice(t, []float64{-1, -0.75, -0.5, -0.25, 0, 0.25, 0.5, 0.75}, c.Values, 1e-12)
	sp, ok := c.Attr(SpacingAttr)
	assert.True(t, ok)
	assert.InDelta(t, 0.25, sp, 1e-12)

	rt, err := Dft(a, RealDim("x"), TrueAmplitude(true), quietly())
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 0.25, 0.5, 0.75, 1}, rt.Coord("freq_x").Values, 1e-12)

	// the one-sided spectrum matches the non-negative half of the full one.
	for i := 0; i < 4; i++ {
		assert.InDelta(t, 0, cmplx.Abs(rt.At(i)-ft.At(4+i)), 1e-12)
	}
	assert.InDelta(t, 0, cmplx.Abs(rt.At(4)-ft.At(0)), 1e-12)
}

func TestRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name string
		a    *labeled.Array
		fwd  []Option
		inv  []Option
	}{
		{
			name: "complex",
			a:    grid2D(t, 5, 8, true),
		},
		{
			name: "real",
			a:    grid2D(t, 5, 8, false),
			fwd:  []Option{RealDim("x")},
			inv:  []Option{RealDim("freq_x")},
		},
		{
			name: "real-odd-other",
			a:    grid2D(t, 7, 6, false),
			fwd:  []Option{RealDim("x")},
			inv:  []Option{RealDim("freq_x")},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var (
				diag = &Diagnostics{}
				opts = []Option{TruePhase(true), TrueAmplitude(true), WithReporter(diag)}
			)
			ft, err := Dft(tc.a, append(tc.fwd, opts...)...)
			require.NoError(t, err)
			assert.Equal(t, []string{"freq_y", "freq_x"}, ft.Dims())
			lag, ok := ft.Coord("freq_x").Attr(DirectLagAttr)
			require.True(t, ok)
			assert.InDelta(t, tc.a.Coord("x").Values[tc.a.Len("x")/2], lag, 1e-12)

			back, err := Idft(ft, append(tc.inv, opts...)...)
			require.NoError(t, err)
			assert.Equal(t, tc.a.Dims(), back.Dims())
			assert.Equal(t, tc.a.Shape(), back.Shape())
			assertCmplx(t, tc.a.Data(), back.Data(), 1e-10)
			for _, d := range tc.a.Dims() {
				assert.InDeltaSlice(t, tc.a.Coord(d).Values, back.Coord(d).Values, 1e-10, "coordinate %q", d)
			}
			assert.Empty(t, diag.Warnings())
		})
	}
}

func TestRoundTripPlain(t *testing.T) {
	a := series(t, span(8, 0, 0.5), lcg(8, 4))

	ft, err := FFT(a, Shift(false))
	require.NoError(t, err)
	// unshifted frequencies are re-sorted before the inverse transform.
	assert.InDeltaSlice(t, []float64{0, 0.25, 0.5, 0.75, -1, -0.75, -0.5, -0.25}, ft.Coord("freq_x").Values, 1e-12)

	back, err := IFFT(ft)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, back.Dims())
	assertCmplx(t, a.Data(), back.Data(), 1e-12)
	assert.InDeltaSlice(t, span(8, -2, 0.5), back.Coord("x").Values, 1e-12)
}

func TestGoDSPEngine(t *testing.T) {
	a := grid2D(t, 6, 10, true)
	want, err := Dft(a, TruePhase(true), TrueAmplitude(true))
	require.NoError(t, err)
	got, err := Dft(a, TruePhase(true), TrueAmplitude(true), WithEngine(GoDSPEngine), WithBackend(Parallel(3)))
	require.NoError(t, err)
	assertCmplx(t, want.Data(), got.Data(), 1e-10)
}

func TestLag(t *testing.T) {
	const n = 9
	impulse := make([]float64, n)
	impulse[n/2] = 1

	t.Run("centered", func(t *testing.T) {
		a := series(t, span(n, -2, 0.5), impulse)

		ft, err := Dft(a, TruePhase(true), TrueAmplitude(true))
		require.NoError(t, err)
		for i, v := range ft.Data() {
			assert.InDelta(t, 0, imag(v), 1e-12, "imag[%d]", i)
			assert.InDelta(t, 0.5, real(v), 1e-12, "real[%d]", i)
		}

		raw, err := Dft(a, TruePhase(false), TrueAmplitude(true))
		require.NoError(t, err)
		var ramp float64
		for _, v := range raw.Data() {
			ramp = math.Max(ramp, math.Abs(imag(v)))
		}
		assert.Greater(t, ramp, 0.1)
	})

	t.Run("offset", func(t *testing.T) {
		a := series(t, span(n, 3, 0.5), impulse)
		ft, err := Dft(a, TruePhase(true), TrueAmplitude(true))
		require.NoError(t, err)
		fs := ft.Coord("freq_x").Values
		for i, v := range ft.Data() {
			want := 0.5 * cmplx.Exp(complex(0, -2*math.Pi*fs[i]*5))
			assert.InDelta(t, 0, cmplx.Abs(v-want), 1e-12, "value[%d]", i)
		}
	})

	t.Run("explicit", func(t *testing.T) {
		a := series(t, span(8, 10, 1), lcg(8, 5))
		ft, err := FFT(a)
		require.NoError(t, err)

		diag := &Diagnostics{}
		back, err := Idft(ft, Lag(14), WithReporter(diag))
		require.NoError(t, err)
		assert.True(t, diag.Has(Accuracy))
		assert.True(t, diag.Has(FutureDefault))
		assert.InDeltaSlice(t, span(8, 10, 1), back.Coord("x").Values, 1e-12)

		_, err = Idft(ft, Lag(1, 2), quietly())
		assert.True(t, errors.Is(err, ErrInvalidLag))
	})

	t.Run("real-dim-last", func(t *testing.T) {
		a := grid2D(t, 5, 8, false)
		opts := []Option{TruePhase(true), TrueAmplitude(true), quietly()}
		ft, err := Dft(a, append([]Option{RealDim("x")}, opts...)...)
		require.NoError(t, err)

		inv := append([]Option{Dims("freq_y"), RealDim("freq_x")}, opts...)
		_, err = Idft(ft, append(inv, Lag(2))...)
		assert.True(t, errors.Is(err, ErrInvalidLag), "got %v", err)

		back, err := Idft(ft, append(inv, Lag(2, -2))...)
		require.NoError(t, err)
		assertCmplx(t, a.Data(), back.Data(), 1e-10)
		assert.InDeltaSlice(t, a.Coord("y").Values, back.Coord("y").Values, 1e-10)
		assert.InDeltaSlice(t, a.Coord("x").Values, back.Coord("x").Values, 1e-10)
	})
}

func TestSpacingErrors(t *testing.T) {
	ys := []float64{1, 2, 3, 4}
	a := series(t, []float64{0, 1, 2, 5}, ys)

	_, err := Dft(a, quietly())
	assert.True(t, errors.Is(err, ErrNonUniformSpacing), "got %v", err)

	_, err = Dft(a, SpacingTol(2), quietly())
	assert.NoError(t, err)

	_, err = Dft(series(t, []float64{1, 1, 1}, ys[:3]), quietly())
	assert.True(t, errors.Is(err, ErrDegenerateAxis), "got %v", err)

	fa := series(t, []float64{1, 2, 3, 4}, ys)
	_, err = Idft(fa, quietly())
	assert.True(t, errors.Is(err, ErrUncenteredSpectrum), "got %v", err)

	_, err = Idft(series(t, []float64{-1, 0, 3, 4}, ys), quietly())
	assert.True(t, errors.Is(err, ErrNonUniformSpacing), "got %v", err)
}

func TestOptionErrors(t *testing.T) {
	a := grid2D(t, 4, 4, false)

	_, err := Dft(a, RealDim("z"), quietly())
	assert.True(t, errors.Is(err, ErrInvalidDimension), "got %v", err)

	_, err = Dft(a, Dims("x", "x"), quietly())
	assert.True(t, errors.Is(err, ErrInvalidDimension), "got %v", err)

	_, err = Dft(a, Detrend("quadratic"), quietly())
	assert.True(t, errors.Is(err, ErrUnsupportedDetrend), "got %v", err)

	_, err = Dft(a, Window(true), WindowType("kaiser"), quietly())
	assert.True(t, errors.Is(err, ErrUnsupportedWindow), "got %v", err)

	c, err := a.Chunk(map[string]int{"x": 2})
	require.NoError(t, err)
	_, err = Dft(c, quietly())
	assert.True(t, errors.Is(err, ErrChunkedAxis), "got %v", err)

	b, err := labeled.New([]string{"x", "y", "z"}, []int{2, 2, 2}, nil)
	require.NoError(t, err)
	_, err = Dft(b, Detrend(LinearDetrend), quietly())
	assert.True(t, errors.Is(err, ErrUnsupportedDetrend), "got %v", err)
}

func TestAdvisories(t *testing.T) {
	a := series(t, span(8, 0, 1), lcg(8, 6))

	diag := &Diagnostics{}
	_, err := Dft(a, WithReporter(diag))
	require.NoError(t, err)
	assert.True(t, diag.Has(FutureDefault))

	diag = &Diagnostics{}
	_, err = FFT(a, TruePhase(true), TrueAmplitude(true), WithReporter(diag))
	require.NoError(t, err)
	assert.Len(t, diag.Warnings(), 2)
	assert.True(t, diag.Has(IgnoredArgument))
	assert.False(t, diag.Has(FutureDefault))

	diag = &Diagnostics{}
	ft, err := FFT(a, WithReporter(diag))
	require.NoError(t, err)
	_, err = IFFT(ft, Lag(3), WithReporter(diag))
	require.NoError(t, err)
	assert.Equal(t, []Warning{{Op: "ifft", Kind: IgnoredArgument, Message: "lag argument is ignored"}}, diag.Warnings())
}

func TestWindowDetrend(t *testing.T) {
	var (
		xs = span(16, 0, 0.1)
		ys = make([]float64, len(xs))
	)
	for i, x := range xs {
		ys[i] = 2 + 3*x
	}
	a := series(t, xs, ys)

	ft, err := Dft(a, Detrend(LinearDetrend), TrueAmplitude(true))
	require.NoError(t, err)
	for i, v := range ft.Data() {
		assert.InDelta(t, 0, cmplx.Abs(v), 1e-10, "value[%d]", i)
	}

	// a window zeroes the end points.
	ones := series(t, xs, make([]float64, len(xs)))
	ones.Apply(func(complex128) complex128 { return 1 })
	ft, err = Dft(ones, Window(true), TrueAmplitude(true))
	require.NoError(t, err)
	var sum float64
	for i := 1; i < len(xs)-1; i++ {
		sum += 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(len(xs)-1)))
	}
	assert.InDelta(t, sum*0.1, real(ft.At(len(xs)/2)), 1e-12)
}

func TestSegments(t *testing.T) {
	var (
		n  = 64
		xs = span(n, 0, 0.5)
		ys = lcg(n, 7)
	)
	a := series(t, xs, ys)
	c, err := a.Chunk(map[string]int{"x": 16})
	require.NoError(t, err)

	ft, err := Dft(c, ChunksToSegments(true), TrueAmplitude(true))
	require.NoError(t, err)
	assert.Equal(t, []string{"x_segment", "freq_x"}, ft.Dims())
	assert.Equal(t, []int{4, 16}, ft.Shape())

	for s := 0; s < 4; s++ {
		seg := series(t, xs[:16], ys[s*16:(s+1)*16])
		want, err := Dft(seg, TrueAmplitude(true))
		require.NoError(t, err)
		part, err := ft.Slice("x_segment", s, s+1)
		require.NoError(t, err)
		assertCmplx(t, want.Data(), part.Data(), 1e-12)
	}
}
