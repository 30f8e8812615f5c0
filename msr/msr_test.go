// Copyright 2019 The fouracc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msr

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `*CREATOR
MSR Reader V5.18.01
*STARTTIME
2019-03-28;10:26:15;
*MODUL
;MSR145;MSR145;MSR145
*NAME
;314159;314159;314159
*TIMEDELAY
s;0;0.5;1
*CHANNEL
TIME;ACC x;ACC y;ACC z
*UNIT
;g;g;g
*DATA
2019-03-28 10:26:15.000;0.01;0.02;1.00
2019-03-28 10:26:15.020;;0.03;1.10
2019-03-28 10:26:15.040;0.05;;
`

func TestParse(t *testing.T) {
	f, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2019, 3, 28, 10, 26, 15, 0, time.UTC), f.Start)
	require.Len(t, f.Times, 3)
	assert.Equal(t, 40*time.Millisecond, f.Times[2].Sub(f.Times[0]))

	require.Len(t, f.Cols, 3)
	x, ok := f.Column(AccX)
	require.True(t, ok)
	assert.Equal(t, "g", x.Unit)
	assert.Equal(t, "MSR145", x.Sensor)
	assert.Equal(t, []float64{0.01, 0.01, 0.05}, x.Data)

	y, _ := f.Column(AccY)
	assert.Equal(t, 500*time.Millisecond, y.TimeDelay)
	assert.Equal(t, []float64{0.02, 0.03, 0.03}, y.Data)

	z, _ := f.Column(AccZ)
	assert.Equal(t, []float64{1.00, 1.10, 1.10}, z.Data)

	_, ok = f.Column("TIME")
	assert.False(t, ok)
}

func TestSeries(t *testing.T) {
	f, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	a, err := f.Series(AccZ)
	require.NoError(t, err)
	assert.Equal(t, AccZ, a.Name)
	assert.Equal(t, "g", a.Attrs["unit"])
	assert.Equal(t, []string{TimeDim}, a.Dims())
	assert.Equal(t, []float64{1.00, 1.10, 1.10}, a.Floats())
	c := a.Coord(TimeDim)
	require.NotNil(t, c)
	assert.True(t, c.IsTime())
	assert.Equal(t, f.Times, c.Times)

	_, err = f.Series("HUMIDITY")
	assert.Error(t, err)
}

func TestParseErrors(t *testing.T) {
	for _, tc := range []struct {
		name  string
		input string
	}{
		{"start-time", "*STARTTIME\n2019-03-28 10:26:15\n"},
		{"timestamp", "*MODUL\n;a\n*DATA\nnot-a-time;1\n"},
		{"value", "*MODUL\n;a\n*DATA\n2019-03-28 10:26:15.000;x\n"},
		{"fields", "*MODUL\n;a\n*DATA\n2019-03-28 10:26:15.000;1;2\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.input))
			assert.Error(t, err)
		})
	}
}
