// Copyright 2019 The fouracc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command fouracc runs a spectral analysis on an MSR acceleration file or
// on a CSV time series.
//
// For each analyzed series, fouracc writes the series and its spectrogram
// to out[-axis].png, and the mean power spectral density to
// spectrum[-axis].png.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/lsst-lpc/fouracc"
	"github.com/lsst-lpc/fouracc/internal/config"
	"github.com/lsst-lpc/fouracc/labeled"
	"github.com/lsst-lpc/fouracc/msr"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

func main() {
	log.SetPrefix("fouracc: ")
	log.SetFlags(0)

	var (
		chunksz = flag.Int("chunks", 256, "chunk size of Fourier processing")
		xmin    = flag.Int("xmin", 0, "start of analysis range index")
		xmax    = flag.Int("xmax", -1, "end of analysis range index")
		dt      = flag.Float64("dt", 0, "sample spacing of CSV files without a time column")
		fcfg    = flag.String("config", "", "path to a YAML analysis configuration")
	)

	flag.Parse()

	cfg := config.Default()
	if *fcfg != "" {
		var err error
		cfg, err = config.Load(*fcfg)
		if err != nil {
			log.Fatal(err)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "chunks":
			cfg.Chunks = *chunksz
		case "dt":
			cfg.DT = *dt
		}
	})
	err := cfg.Validate()
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("chunk size: %v", cfg.Chunks)
	log.Printf("file:       %v", flag.Arg(0))
	log.Printf("range:      data[%d:%d]", *xmin, *xmax)

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	var head [64]byte

	_, err = io.ReadFull(f, head[:])
	if err != nil && err != io.ErrUnexpectedEOF {
		log.Fatalf("could not read CSV header: %v", err)
	}
	_, err = f.Seek(0, io.SeekStart)
	if err != nil {
		log.Fatalf("could not rewind input file: %v", err)
	}

	fname := filepath.Base(flag.Arg(0))

	switch {
	case strings.HasPrefix(string(head[:]), "*CREATOR"):
		file, err := msr.Parse(f)
		if err != nil {
			log.Fatalf("could not parse MSR file: %v", err)
		}
		var grp errgroup.Group
		for _, axis := range []struct {
			Name    string
			Channel string
		}{
			{"x", msr.AccX},
			{"y", msr.AccY},
			{"z", msr.AccZ},
		} {
			series, err := file.Series(axis.Channel)
			if err != nil {
				log.Fatal(err)
			}
			series, err = slice(series, *xmin, *xmax)
			if err != nil {
				log.Fatal(err)
			}
			axis, series := axis, series
			grp.Go(func() error {
				err := process(fname, axis.Name, series, cfg)
				if err != nil {
					return errors.Wrapf(err, "could not process axis %s", axis.Name)
				}
				return nil
			})
		}
		err = grp.Wait()
		if err != nil {
			log.Fatal(err)
		}

	default:
		series, err := fouracc.Load(f)
		if err != nil {
			log.Fatal(err)
		}
		if cfg.DT > 0 {
			n := series.Len(fouracc.TimeDim)
			ts := make([]float64, n)
			for i := range ts {
				ts[i] = float64(i) * cfg.DT
			}
			err = series.SetCoord(fouracc.TimeDim, labeled.NewCoord(ts))
			if err != nil {
				log.Fatal(err)
			}
		}
		series, err = slice(series, *xmin, *xmax)
		if err != nil {
			log.Fatal(err)
		}
		err = process(fname, "", series, cfg)
		if err != nil {
			log.Fatalf("could not process data: %v", err)
		}
	}
}

func slice(a *labeled.Array, xmin, xmax int) (*labeled.Array, error) {
	dim := a.Dims()[0]
	beg, end, err := clean(a.Len(dim), xmin, xmax)
	if err != nil {
		return nil, err
	}
	return a.Slice(dim, beg, end)
}

func clean(len, beg, end int) (int, int, error) {
	if end == -1 {
		end = len
	}
	switch {
	case beg < 0:
		return beg, end, errors.Errorf("invalid data range (beg=%d < 0)", beg)
	case end > len:
		return beg, end, errors.Errorf("invalid data range (end=%d > len=%d)", end, len)
	case beg > end:
		return beg, end, errors.Errorf("invalid data range (beg=%d > end=%d)", beg, end)
	}
	return beg, end, nil
}

func process(fname, title string, series *labeled.Array, cfg config.Analysis) error {
	log.Printf("data: %d", series.Size())

	if title != "" {
		fname += " [axis=" + title + "]"
	}

	opts := append(cfg.Options(), fouracc.WithReporter(fouracc.LogReporter{
		Logger: logrus.WithField("file", fname),
	}))
	an, err := fouracc.Analyze(fname, series, cfg.Chunks, opts...)
	if err != nil {
		return errors.Wrap(err, "could not analyze series")
	}
	log.Printf("spectrogram: %v%v", an.Spectrogram.Dims(), an.Spectrogram.Shape())

	const (
		width  = 20 * vg.Centimeter
		height = 30 * vg.Centimeter
	)

	c := vgimg.PngCanvas{Canvas: vgimg.New(width, height)}
	err = fouracc.Plot(draw.New(c), an)
	if err != nil {
		return errors.Wrap(err, "could not plot spectrogram")
	}
	err = save(c, name("out", title))
	if err != nil {
		return err
	}

	c = vgimg.PngCanvas{Canvas: vgimg.New(width, 0.5*height)}
	err = fouracc.PlotSpectrum(draw.New(c), fname, an.Spectrum)
	if err != nil {
		return errors.Wrap(err, "could not plot spectrum")
	}
	return save(c, name("spectrum", title))
}

func name(base, title string) string {
	if title == "" {
		return base + ".png"
	}
	return fmt.Sprintf("%s-%s.png", base, title)
}

func save(c vgimg.PngCanvas, oname string) error {
	o, err := os.Create(oname)
	if err != nil {
		return errors.Wrapf(err, "could not create output file")
	}
	defer o.Close()
	_, err = c.WriteTo(o)
	if err != nil {
		return errors.Wrapf(err, "could not create output plot")
	}
	err = o.Close()
	if err != nil {
		return errors.Wrapf(err, "could not close output file")
	}
	return nil
}
