// Copyright 2019 The fouracc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config reads the analysis defaults shared by the fouracc
// commands from a YAML file:
//
//	chunks: 512
//	window: hann
//	detrend: constant
//	scaling: density
//	spacing-tol: 1e-3
//	dt: 0.02
package config

import (
	"io"
	"os"

	"github.com/lsst-lpc/fouracc"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Analysis holds the settings of a chunked spectral analysis.
type Analysis struct {
	Chunks     int     `yaml:"chunks"`
	Window     string  `yaml:"window"` // empty disables windowing
	Detrend    string  `yaml:"detrend"`
	Scaling    string  `yaml:"scaling"`
	SpacingTol float64 `yaml:"spacing-tol"`
	DT         float64 `yaml:"dt"` // sample spacing of inputs without a time column
}

// Default returns the settings used without a configuration file.
func Default() Analysis {
	return Analysis{
		Chunks:     256,
		Scaling:    string(fouracc.DensityScaling),
		SpacingTol: 1e-3,
	}
}

// Load reads the settings from the named file. Missing keys keep their
// default value.
func Load(fname string) (Analysis, error) {
	f, err := os.Open(fname)
	if err != nil {
		return Analysis{}, errors.Wrap(err, "could not open config file")
	}
	defer f.Close()
	return Read(f)
}

// Read decodes the settings from r.
func Read(r io.Reader) (Analysis, error) {
	cfg := Default()
	err := yaml.NewDecoder(r).Decode(&cfg)
	if err != nil && err != io.EOF {
		return cfg, errors.Wrap(err, "could not decode config")
	}
	return cfg, cfg.Validate()
}

func (cfg Analysis) Validate() error {
	switch {
	case cfg.Chunks < 2:
		return errors.Errorf("invalid chunk size %d", cfg.Chunks)
	case cfg.DT < 0:
		return errors.Errorf("invalid sample spacing %g", cfg.DT)
	}
	return nil
}

// Options returns the analysis options matching the settings.
func (cfg Analysis) Options() []fouracc.Option {
	opts := []fouracc.Option{
		fouracc.Detrend(fouracc.DetrendType(cfg.Detrend)),
		fouracc.WithScaling(fouracc.Scaling(cfg.Scaling)),
	}
	if cfg.Window != "" {
		opts = append(opts, fouracc.Window(true), fouracc.WindowType(cfg.Window))
	}
	if cfg.SpacingTol > 0 {
		opts = append(opts, fouracc.SpacingTol(cfg.SpacingTol))
	}
	return opts
}
