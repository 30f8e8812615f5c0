// Copyright 2019 The fouracc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package msr parses CSV files directly produced by MSR acceleration sensors.
package msr

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/lsst-lpc/fouracc/labeled"
	"github.com/pkg/errors"
)

// TimeDim is the dimension of the series extracted from a File.
const TimeDim = "time"

// Names of the acceleration channels.
const (
	AccX = "ACC x"
	AccY = "ACC y"
	AccZ = "ACC z"
)

type File struct {
	Start time.Time
	Times []time.Time
	Cols  []Column
}

type Column struct {
	Name      string // title of the associated data
	Unit      string // units of the associated data
	Sensor    string // name of the sensor collecting the data
	TimeDelay time.Duration
	Data      []float64
}

// Column returns the column with the given channel name.
func (f File) Column(name string) (Column, bool) {
	for _, col := range f.Cols {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}

// Series returns the samples of the named channel as a labeled series
// with a datetime coordinate.
func (f File) Series(name string) (*labeled.Array, error) {
	col, ok := f.Column(name)
	if !ok {
		return nil, errors.Errorf("msr: no channel %q", name)
	}
	if len(col.Data) != len(f.Times) {
		return nil, errors.Errorf("msr: channel %q has %d samples for %d timestamps", name, len(col.Data), len(f.Times))
	}
	a, err := labeled.FromFloats([]string{TimeDim}, []int{len(col.Data)}, col.Data)
	if err != nil {
		return nil, err
	}
	a.Name = name
	if col.Unit != "" {
		a.Attrs = map[string]string{"unit": col.Unit}
	}
	err = a.SetCoord(TimeDim, labeled.TimeCoord(f.Times))
	if err != nil {
		return nil, err
	}
	return a, nil
}

type sectionKind byte

const (
	UndefinedSection sectionKind = iota
	CreatorSection
	StartTimeSection
	ModuleSection
	NameSection
	TimeDelaySection
	ChannelSection
	UnitSection
	LimitsSection
	CalibrationSection
	DataSection
)

var sections = map[string]sectionKind{
	"*CREATOR":     CreatorSection,
	"*STARTTIME":   StartTimeSection,
	"*MODUL":       ModuleSection,
	"*NAME":        NameSection,
	"*TIMEDELAY":   TimeDelaySection,
	"*CHANNEL":     ChannelSection,
	"*UNIT":        UnitSection,
	"*LIMITS":      LimitsSection,
	"*CALIBRATION": CalibrationSection,
	"*DATA":        DataSection,
}

// Parse parses a MSR stream.
func Parse(r io.Reader) (File, error) {
	var (
		p   parser
		sec sectionKind
	)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		txt := strings.TrimSpace(sc.Text())
		if len(txt) == 0 {
			continue
		}
		if txt[0] == '*' {
			if kind, ok := sections[txt]; ok {
				sec = kind
			}
			continue
		}
		err := p.line(sec, txt)
		if err != nil {
			return p.f, err
		}
	}

	err := sc.Err()
	if err != nil {
		return p.f, errors.Wrap(err, "could not scan MSR file")
	}

	// the first column holds the timestamps.
	if len(p.f.Cols) > 0 {
		p.f.Cols = p.f.Cols[1:]
	}
	return p.f, nil
}

type parser struct {
	f    File
	rows int
}

func (p *parser) line(sec sectionKind, txt string) error {
	tokens := strings.Split(txt, ";")
	switch sec {
	case StartTimeSection:
		start, err := time.Parse("2006-01-02;15:04:05;", txt)
		if err != nil {
			return errors.Wrapf(err, "could not parse start-time %q", txt)
		}
		p.f.Start = start

	case ModuleSection:
		p.f.Cols = make([]Column, len(tokens))
		for i, tok := range tokens {
			p.f.Cols[i].Sensor = tok
		}

	case TimeDelaySection:
		for i, tok := range tokens {
			if i == 0 || i >= len(p.f.Cols) {
				continue
			}
			delay, err := time.ParseDuration(tok + tokens[0])
			if err != nil {
				return errors.Wrapf(err, "could not parse #%d-th time-delay %q", i, txt)
			}
			p.f.Cols[i].TimeDelay = delay
		}

	case ChannelSection:
		for i, tok := range tokens {
			if i < len(p.f.Cols) {
				p.f.Cols[i].Name = tok
			}
		}

	case UnitSection:
		for i, tok := range tokens {
			if i > 0 && i < len(p.f.Cols) {
				p.f.Cols[i].Unit = tok
			}
		}

	case DataSection:
		return p.data(tokens, txt)
	}
	return nil
}

// data appends a row of samples. An empty field repeats the previous
// sample of its column.
func (p *parser) data(tokens []string, txt string) error {
	t, err := time.Parse("2006-01-02 15:04:05.999", tokens[0])
	if err != nil {
		return errors.Wrapf(err, "could not parse data row[%d] %q", p.rows, txt)
	}
	if len(tokens) > len(p.f.Cols) {
		return errors.Errorf("data row[%d] has %d fields for %d columns", p.rows, len(tokens), len(p.f.Cols))
	}
	p.f.Times = append(p.f.Times, t)
	for i := 1; i < len(p.f.Cols); i++ {
		var (
			col = &p.f.Cols[i]
			val float64
			tok string
		)
		if i < len(tokens) {
			tok = tokens[i]
		}
		switch {
		case tok == "" && len(col.Data) > 0:
			val = col.Data[len(col.Data)-1]
		case tok == "":
			val = 0
		default:
			val, err = strconv.ParseFloat(tok, 64)
			if err != nil {
				return errors.Wrapf(err, "could not parse float %q in row %d", tok, p.rows)
			}
		}
		col.Data = append(col.Data, val)
	}
	p.rows++
	return nil
}
