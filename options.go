// Copyright 2019 The fouracc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fouracc

import (
	"github.com/lsst-lpc/fouracc/internal/backend"
	"github.com/lsst-lpc/fouracc/internal/kernel"
)

// DetrendType selects the trend removed before transforming.
type DetrendType string

const (
	NoDetrend       DetrendType = ""
	ConstantDetrend DetrendType = "constant"
	LinearDetrend   DetrendType = "linear"
)

// Scaling selects the normalization of power and cross spectra.
type Scaling string

const (
	DensityScaling      Scaling = "density"
	SpectrumScaling     Scaling = "spectrum"
	FalseDensityScaling Scaling = "false_density"
)

// DefaultPrefix is prepended to the names of transformed dimensions.
const DefaultPrefix = "freq_"

// Backend runs lane-wise work. See Sequential and Parallel.
type Backend = backend.Backend

// Sequential returns a backend processing lanes one after the other.
func Sequential() Backend { return backend.Eager{} }

// Parallel returns a backend processing lanes on at most workers
// goroutines. A zero workers uses GOMAXPROCS.
func Parallel(workers int) Backend { return backend.Parallel{Workers: workers} }

// Engine computes 1-dimensional discrete Fourier transforms.
type Engine = kernel.Engine

var (
	GonumEngine Engine = kernel.Gonum{} // gonum.org/v1/gonum/dsp/fourier
	GoDSPEngine Engine = kernel.GoDSP{} // github.com/mjibson/go-dsp/fft
)

// Config holds the settings of one transform or spectrum call.
type Config struct {
	dims          []string
	realDim       string
	shift         bool
	detrend       DetrendType
	window        bool
	windowType    string
	truePhase     bool
	truePhaseSet  bool
	trueAmplitude bool
	segments      bool
	spacingTol    float64
	prefix        string
	lag           []float64
	scaling       Scaling
	density       *bool
	nfactor       int

	reporter Reporter
	backend  Backend
	engine   Engine

	quiet bool // silences the future-default advisory of Dft/Idft
}

// Option configures a call.
type Option func(*Config)

func newConfig(opts []Option) Config {
	cfg := Config{
		shift:      true,
		windowType: "hann",
		spacingTol: 1e-3,
		prefix:     DefaultPrefix,
		scaling:    DensityScaling,
		nfactor:    4,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.reporter == nil {
		cfg.reporter = LogReporter{}
	}
	return cfg
}

func (cfg Config) warn(op string, k Kind, msg string) {
	cfg.reporter.Report(Warning{Op: op, Kind: k, Message: msg})
}

// Dims sets the dimensions to transform. The default is all dimensions.
func Dims(dims ...string) Option {
	return func(cfg *Config) { cfg.dims = append([]string(nil), dims...) }
}

// RealDim requests a real-input transform along dim, which is then
// transformed last.
func RealDim(dim string) Option {
	return func(cfg *Config) { cfg.realDim = dim }
}

// Shift sets whether frequencies are reordered in ascending order.
func Shift(v bool) Option {
	return func(cfg *Config) { cfg.shift = v }
}

// Detrend sets the trend removed along the transformed dimensions before
// windowing.
func Detrend(t DetrendType) Option {
	return func(cfg *Config) { cfg.detrend = t }
}

// Window enables tapering with the configured window type.
func Window(v bool) Option {
	return func(cfg *Config) { cfg.window = v }
}

// WindowType sets the window used when Window is enabled.
func WindowType(name string) Option {
	return func(cfg *Config) { cfg.windowType = name }
}

// TruePhase references the phase of the result to the coordinate values
// instead of the array indices.
func TruePhase(v bool) Option {
	return func(cfg *Config) {
		cfg.truePhase = v
		cfg.truePhaseSet = true
	}
}

// TrueAmplitude scales the result by the coordinate spacing so that it
// approximates the continuous Fourier transform.
func TrueAmplitude(v bool) Option {
	return func(cfg *Config) { cfg.trueAmplitude = v }
}

// ChunksToSegments splits every chunked transform dimension into a
// segment dimension and a within-segment dimension.
func ChunksToSegments(v bool) Option {
	return func(cfg *Config) { cfg.segments = v }
}

// SpacingTol sets the relative tolerance of the even-spacing check.
func SpacingTol(tol float64) Option {
	return func(cfg *Config) { cfg.spacingTol = tol }
}

// Prefix sets the prefix of frequency dimension names.
func Prefix(p string) Option {
	return func(cfg *Config) { cfg.prefix = p }
}

// Lag sets, for Idft, the coordinate origin of each output dimension,
// in the order of Dims with the RealDim dimension, if any, last.
func Lag(lags ...float64) Option {
	return func(cfg *Config) { cfg.lag = append([]float64(nil), lags...) }
}

// WithScaling sets the normalization of power and cross spectra.
func WithScaling(s Scaling) Option {
	return func(cfg *Config) { cfg.scaling = s }
}

// Density is the legacy form of WithScaling: true selects DensityScaling,
// false FalseDensityScaling.
//
// Deprecated: use WithScaling.
func Density(v bool) Option {
	return func(cfg *Config) { cfg.density = &v }
}

// NFactor sets the ratio between the grid size and the number of radial
// bins of isotropic spectra.
func NFactor(n int) Option {
	return func(cfg *Config) { cfg.nfactor = n }
}

// WithReporter routes advisory warnings to r. The default logs them
// through logrus.
func WithReporter(r Reporter) Option {
	return func(cfg *Config) { cfg.reporter = r }
}

// WithBackend sets the execution backend. By default chunked arrays are
// processed in parallel and others sequentially.
func WithBackend(b Backend) Option {
	return func(cfg *Config) { cfg.backend = b }
}

// WithEngine sets the 1-dimensional transform engine.
func WithEngine(e Engine) Option {
	return func(cfg *Config) { cfg.engine = e }
}

func quiet() Option {
	return func(cfg *Config) { cfg.quiet = true }
}
