// Copyright 2019 The fouracc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package labeled

import (
	"time"
)

// Coord is the coordinate vector attached to a dimension.
//
// A coordinate holds either numeric values or timestamps. Timestamps are
// presented to numeric consumers as seconds since the Unix epoch.
type Coord struct {
	Values []float64
	Times  []time.Time
	Attrs  map[string]float64
}

// NewCoord returns a numeric coordinate.
func NewCoord(vs []float64) *Coord {
	return &Coord{Values: vs}
}

// TimeCoord returns a datetime coordinate.
func TimeCoord(ts []time.Time) *Coord {
	return &Coord{Times: ts}
}

// IndexCoord returns the coordinate 0, 1, ..., n-1.
func IndexCoord(n int) *Coord {
	vs := make([]float64, n)
	for i := range vs {
		vs[i] = float64(i)
	}
	return &Coord{Values: vs}
}

func (c *Coord) Len() int {
	if c.Times != nil {
		return len(c.Times)
	}
	return len(c.Values)
}

// IsTime reports whether c holds timestamps.
func (c *Coord) IsTime() bool { return c.Times != nil }

// Float64s returns the numeric view of the coordinate.
func (c *Coord) Float64s() []float64 {
	if c.Times == nil {
		return c.Values
	}
	vs := make([]float64, len(c.Times))
	for i, t := range c.Times {
		vs[i] = Seconds(t)
	}
	return vs
}

// At returns the numeric value of the i-th coordinate.
func (c *Coord) At(i int) float64 {
	if c.Times != nil {
		return Seconds(c.Times[i])
	}
	return c.Values[i]
}

// Attr returns the named attribute.
func (c *Coord) Attr(name string) (float64, bool) {
	v, ok := c.Attrs[name]
	return v, ok
}

// SetAttr sets the named attribute.
func (c *Coord) SetAttr(name string, v float64) {
	if c.Attrs == nil {
		c.Attrs = make(map[string]float64)
	}
	c.Attrs[name] = v
}

// Clone returns a deep copy of c.
func (c *Coord) Clone() *Coord {
	if c == nil {
		return nil
	}
	o := &Coord{}
	if c.Values != nil {
		o.Values = append([]float64(nil), c.Values...)
	}
	if c.Times != nil {
		o.Times = append([]time.Time(nil), c.Times...)
	}
	for k, v := range c.Attrs {
		o.SetAttr(k, v)
	}
	return o
}

// Take returns the coordinate reordered by idx.
func (c *Coord) Take(idx []int) *Coord {
	o := &Coord{}
	switch {
	case c.Times != nil:
		o.Times = make([]time.Time, len(idx))
		for i, j := range idx {
			o.Times[i] = c.Times[j]
		}
	default:
		o.Values = make([]float64, len(idx))
		for i, j := range idx {
			o.Values[i] = c.Values[j]
		}
	}
	for k, v := range c.Attrs {
		o.SetAttr(k, v)
	}
	return o
}

// Slice returns the coordinates in [beg, end).
func (c *Coord) Slice(beg, end int) *Coord {
	idx := make([]int, 0, end-beg)
	for i := beg; i < end; i++ {
		idx = append(idx, i)
	}
	return c.Take(idx)
}

// Offset returns a numeric coordinate shifted by v. Attributes are kept.
func (c *Coord) Offset(v float64) *Coord {
	vs := c.Float64s()
	o := &Coord{Values: make([]float64, len(vs))}
	for i, x := range vs {
		o.Values[i] = x + v
	}
	for k, a := range c.Attrs {
		o.SetAttr(k, a)
	}
	return o
}

// Seconds converts t to seconds since the Unix epoch.
func Seconds(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())*1e-9
}
