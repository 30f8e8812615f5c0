// Copyright 2019 The fouracc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package labeled provides n-dimensional arrays with named dimensions,
// coordinate vectors and a chunk layout.
//
// Values are stored as complex128 in row-major order. Real-valued data
// simply carries a zero imaginary part.
package labeled

import (
	"math/cmplx"

	"github.com/pkg/errors"
)

// Array is an n-dimensional array with named dimensions.
//
// Operations that change the layout (Transpose, Reshape, Take, ...) return
// new arrays. The in-place helpers (Apply, MulAlong, Scale) are meant for
// arrays the caller owns, typically the result of Clone.
type Array struct {
	Name  string
	Attrs map[string]string

	dims   []string
	shape  []int
	data   []complex128
	coords map[string]*Coord
	chunks map[string][]int
}

// New creates an array with the given dimensions, shape and data.
// data may be nil, in which case a zero-filled array is allocated.
func New(dims []string, shape []int, data []complex128) (*Array, error) {
	if len(dims) != len(shape) {
		return nil, errors.Errorf("labeled: dims/shape mismatch (dims=%d, shape=%d)", len(dims), len(shape))
	}
	seen := make(map[string]struct{}, len(dims))
	size := 1
	for i, d := range dims {
		if _, dup := seen[d]; dup {
			return nil, errors.Errorf("labeled: duplicate dimension %q", d)
		}
		seen[d] = struct{}{}
		if shape[i] < 0 {
			return nil, errors.Errorf("labeled: negative length %d for dimension %q", shape[i], d)
		}
		size *= shape[i]
	}
	switch {
	case data == nil:
		data = make([]complex128, size)
	case len(data) != size:
		return nil, errors.Errorf("labeled: data length mismatch (got=%d, want=%d)", len(data), size)
	}
	return &Array{
		dims:   append([]string(nil), dims...),
		shape:  append([]int(nil), shape...),
		data:   data,
		coords: make(map[string]*Coord),
		chunks: make(map[string][]int),
	}, nil
}

// FromFloats creates an array from real values.
func FromFloats(dims []string, shape []int, vs []float64) (*Array, error) {
	data := make([]complex128, len(vs))
	for i, v := range vs {
		data[i] = complex(v, 0)
	}
	return New(dims, shape, data)
}

// Series creates a 1-dimensional real array with a numeric coordinate.
func Series(dim string, xs, ys []float64) (*Array, error) {
	a, err := FromFloats([]string{dim}, []int{len(ys)}, ys)
	if err != nil {
		return nil, err
	}
	if xs != nil {
		err = a.SetCoord(dim, NewCoord(xs))
		if err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *Array) Dims() []string { return append([]string(nil), a.dims...) }
func (a *Array) Shape() []int   { return append([]int(nil), a.shape...) }
func (a *Array) NDim() int      { return len(a.dims) }
func (a *Array) Size() int      { return len(a.data) }

// Data returns the backing storage.
func (a *Array) Data() []complex128 { return a.data }

// Floats returns the real parts of the values.
func (a *Array) Floats() []float64 {
	vs := make([]float64, len(a.data))
	for i, v := range a.data {
		vs[i] = real(v)
	}
	return vs
}

// Axis returns the position of dim, or -1.
func (a *Array) Axis(dim string) int {
	for i, d := range a.dims {
		if d == dim {
			return i
		}
	}
	return -1
}

func (a *Array) Has(dim string) bool { return a.Axis(dim) >= 0 }

// Len returns the length of dim, or 0 if a has no such dimension.
func (a *Array) Len(dim string) int {
	i := a.Axis(dim)
	if i < 0 {
		return 0
	}
	return a.shape[i]
}

// Coord returns the coordinate of dim, or nil.
func (a *Array) Coord(dim string) *Coord { return a.coords[dim] }

// CoordOrIndex returns the coordinate of dim, defaulting to positions.
func (a *Array) CoordOrIndex(dim string) *Coord {
	if c := a.coords[dim]; c != nil {
		return c
	}
	return IndexCoord(a.Len(dim))
}

// SetCoord attaches c to dim.
func (a *Array) SetCoord(dim string, c *Coord) error {
	i := a.Axis(dim)
	if i < 0 {
		return errors.Errorf("labeled: no dimension %q", dim)
	}
	if c == nil {
		delete(a.coords, dim)
		return nil
	}
	if c.Len() != a.shape[i] {
		return errors.Errorf("labeled: coordinate length mismatch for %q (got=%d, want=%d)", dim, c.Len(), a.shape[i])
	}
	a.coords[dim] = c
	return nil
}

// At returns the value at the given index.
func (a *Array) At(idx ...int) complex128 {
	return a.data[a.offset(idx)]
}

// Set sets the value at the given index.
func (a *Array) Set(v complex128, idx ...int) {
	a.data[a.offset(idx)] = v
}

func (a *Array) offset(idx []int) int {
	if len(idx) != len(a.shape) {
		panic(errors.Errorf("labeled: index rank mismatch (got=%d, want=%d)", len(idx), len(a.shape)))
	}
	off := 0
	for i, j := range idx {
		if j < 0 || j >= a.shape[i] {
			panic(errors.Errorf("labeled: index %d out of range for %q", j, a.dims[i]))
		}
		off = off*a.shape[i] + j
	}
	return off
}

// Strides returns the row-major element strides.
func (a *Array) Strides() []int {
	return strides(a.shape)
}

func strides(shape []int) []int {
	st := make([]int, len(shape))
	s := 1
	for i := len(shape) - 1; i >= 0; i-- {
		st[i] = s
		s *= shape[i]
	}
	return st
}

// Lanes describes the 1-dimensional lanes of a along axis: it returns the
// number of lanes, the element stride inside a lane and the offset of the
// first element of lane k.
func (a *Array) Lanes(axis int) (n, stride int, offset func(k int) int) {
	size := a.shape[axis]
	stride = strides(a.shape)[axis]
	if size == 0 {
		return 0, stride, func(int) int { return 0 }
	}
	n = len(a.data) / size
	return n, stride, func(k int) int {
		return (k/stride)*size*stride + k%stride
	}
}

// Clone returns a deep copy of a.
func (a *Array) Clone() *Array {
	o := a.meta()
	o.data = append([]complex128(nil), a.data...)
	for d, c := range a.coords {
		o.coords[d] = c.Clone()
	}
	return o
}

// meta copies everything but the data. Coordinates are shared.
func (a *Array) meta() *Array {
	o := &Array{
		Name:   a.Name,
		dims:   append([]string(nil), a.dims...),
		shape:  append([]int(nil), a.shape...),
		data:   a.data,
		coords: make(map[string]*Coord, len(a.coords)),
		chunks: make(map[string][]int, len(a.chunks)),
	}
	o.Attrs = copyAttrs(a.Attrs)
	for d, c := range a.coords {
		o.coords[d] = c
	}
	for d, c := range a.chunks {
		o.chunks[d] = c
	}
	return o
}

func copyAttrs(attrs map[string]string) map[string]string {
	if attrs == nil {
		return nil
	}
	o := make(map[string]string, len(attrs))
	for k, v := range attrs {
		o[k] = v
	}
	return o
}

// WithData returns an array with a's dimensions but a new shape and data.
// Coordinates and chunks are kept for dimensions whose length is unchanged.
func (a *Array) WithData(shape []int, data []complex128) (*Array, error) {
	o, err := New(a.dims, shape, data)
	if err != nil {
		return nil, err
	}
	o.Name = a.Name
	o.Attrs = copyAttrs(a.Attrs)
	for i, d := range a.dims {
		if shape[i] != a.shape[i] {
			continue
		}
		if c, ok := a.coords[d]; ok {
			o.coords[d] = c
		}
		if c, ok := a.chunks[d]; ok {
			o.chunks[d] = c
		}
	}
	return o, nil
}

// Apply replaces every value v with fn(v), in place.
func (a *Array) Apply(fn func(v complex128) complex128) {
	for i, v := range a.data {
		a.data[i] = fn(v)
	}
}

// Scale multiplies every value by s, in place.
func (a *Array) Scale(s complex128) {
	for i := range a.data {
		a.data[i] *= s
	}
}

// MulAlong multiplies a, in place, by the vector w broadcast along axis.
func (a *Array) MulAlong(axis int, w []complex128) error {
	if len(w) != a.shape[axis] {
		return errors.Errorf("labeled: broadcast length mismatch along %q (got=%d, want=%d)", a.dims[axis], len(w), a.shape[axis])
	}
	st := strides(a.shape)[axis]
	for i := range a.data {
		a.data[i] *= w[(i/st)%len(w)]
	}
	return nil
}

// Abs returns |v| for every value.
func (a *Array) Abs() *Array {
	o := a.meta()
	o.data = make([]complex128, len(a.data))
	for i, v := range a.data {
		o.data[i] = complex(cmplx.Abs(v), 0)
	}
	return o
}
