// Copyright 2019 The fouracc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package labeled

import (
	"github.com/pkg/errors"
)

// Transpose returns a with its dimensions permuted into order.
func (a *Array) Transpose(order ...string) (*Array, error) {
	if len(order) != len(a.dims) {
		return nil, errors.Errorf("labeled: transpose needs %d dimensions, got %d", len(a.dims), len(order))
	}
	var (
		perm = make([]int, len(order))
		seen = make(map[int]bool, len(order))
	)
	for i, d := range order {
		j := a.Axis(d)
		switch {
		case j < 0:
			return nil, errors.Errorf("labeled: no dimension %q", d)
		case seen[j]:
			return nil, errors.Errorf("labeled: duplicate dimension %q", d)
		}
		seen[j] = true
		perm[i] = j
	}
	identity := true
	for i, j := range perm {
		if i != j {
			identity = false
			break
		}
	}

	o := a.meta()
	if identity {
		return o, nil
	}
	for i, j := range perm {
		o.dims[i] = a.dims[j]
		o.shape[i] = a.shape[j]
	}

	var (
		src = strides(a.shape)
		dst = make([]complex128, len(a.data))
		idx = make([]int, len(perm))
	)
	for k := range dst {
		off := 0
		for i, j := range perm {
			off += idx[i] * src[j]
		}
		dst[k] = a.data[off]
		for i := len(idx) - 1; i >= 0; i-- {
			idx[i]++
			if idx[i] < o.shape[i] {
				break
			}
			idx[i] = 0
		}
	}
	o.data = dst
	return o, nil
}

// Reshape returns a view of a's data with new dimensions and shape.
// Coordinates are kept for dimensions present in both with equal length.
// The chunk layout is dropped.
func (a *Array) Reshape(dims []string, shape []int) (*Array, error) {
	o, err := New(dims, shape, a.data)
	if err != nil {
		return nil, err
	}
	o.Name = a.Name
	o.Attrs = copyAttrs(a.Attrs)
	for i, d := range dims {
		if c, ok := a.coords[d]; ok && c.Len() == shape[i] {
			o.coords[d] = c
		}
	}
	return o, nil
}

// Take returns a with the elements along dim reordered by idx.
func (a *Array) Take(dim string, idx []int) (*Array, error) {
	axis := a.Axis(dim)
	if axis < 0 {
		return nil, errors.Errorf("labeled: no dimension %q", dim)
	}
	for _, j := range idx {
		if j < 0 || j >= a.shape[axis] {
			return nil, errors.Errorf("labeled: index %d out of range for %q", j, dim)
		}
	}

	o := a.meta()
	o.shape[axis] = len(idx)
	delete(o.chunks, dim)

	var (
		n     = a.shape[axis]
		st    = strides(a.shape)[axis]
		outer = 1
		src   = a.data
		dst   = make([]complex128, 0, len(src)/max(n, 1)*len(idx))
	)
	for _, s := range a.shape[:axis] {
		outer *= s
	}
	for b := 0; b < outer; b++ {
		base := b * n * st
		for _, j := range idx {
			dst = append(dst, src[base+j*st:base+(j+1)*st]...)
		}
	}
	o.data = dst
	if c, ok := a.coords[dim]; ok {
		o.coords[dim] = c.Take(idx)
	}
	return o, nil
}

// Slice returns the elements of a with dim in [beg, end).
func (a *Array) Slice(dim string, beg, end int) (*Array, error) {
	n := a.Len(dim)
	if beg < 0 || end > n || beg > end {
		return nil, errors.Errorf("labeled: invalid range [%d:%d] for %q (len=%d)", beg, end, dim, n)
	}
	idx := make([]int, 0, end-beg)
	for i := beg; i < end; i++ {
		idx = append(idx, i)
	}
	return a.Take(dim, idx)
}

// Replace returns a with dimension dim renamed to name and carrying
// coordinate c. The data is shared.
func (a *Array) Replace(dim, name string, c *Coord) (*Array, error) {
	axis := a.Axis(dim)
	if axis < 0 {
		return nil, errors.Errorf("labeled: no dimension %q", dim)
	}
	if name != dim && a.Has(name) {
		return nil, errors.Errorf("labeled: dimension %q already exists", name)
	}
	o := a.meta()
	o.dims[axis] = name
	delete(o.coords, dim)
	delete(o.chunks, dim)
	if err := o.SetCoord(name, c); err != nil {
		return nil, err
	}
	if ch, ok := a.chunks[dim]; ok {
		o.chunks[name] = ch
	}
	return o, nil
}

// Chunk returns a sharing a's data, chunked along the given dimensions
// into blocks of the given size. The last block may be shorter.
func (a *Array) Chunk(sizes map[string]int) (*Array, error) {
	o := a.meta()
	for d, sz := range sizes {
		n := a.Len(d)
		if !a.Has(d) {
			return nil, errors.Errorf("labeled: no dimension %q", d)
		}
		if sz <= 0 {
			return nil, errors.Errorf("labeled: invalid chunk size %d for %q", sz, d)
		}
		var ch []int
		for i := 0; i < n; i += sz {
			ch = append(ch, min(sz, n-i))
		}
		o.chunks[d] = ch
	}
	return o, nil
}

// SetChunks sets the chunk layout of dim.
func (a *Array) SetChunks(dim string, chunks []int) error {
	n := a.Len(dim)
	if !a.Has(dim) {
		return errors.Errorf("labeled: no dimension %q", dim)
	}
	sum := 0
	for _, c := range chunks {
		sum += c
	}
	if sum != n {
		return errors.Errorf("labeled: chunks of %q cover %d elements, want %d", dim, sum, n)
	}
	a.chunks[dim] = append([]int(nil), chunks...)
	return nil
}

// Chunks returns the chunk lengths along dim. Unchunked dimensions are a
// single block.
func (a *Array) Chunks(dim string) []int {
	if ch, ok := a.chunks[dim]; ok {
		return append([]int(nil), ch...)
	}
	return []int{a.Len(dim)}
}

// IsChunked reports whether any dimension is split into several blocks.
func (a *Array) IsChunked() bool {
	for _, ch := range a.chunks {
		if len(ch) > 1 {
			return true
		}
	}
	return false
}

// MeanAlong averages a over dim, removing that dimension.
func (a *Array) MeanAlong(dim string) (*Array, error) {
	axis := a.Axis(dim)
	if axis < 0 {
		return nil, errors.Errorf("labeled: no dimension %q", dim)
	}
	var (
		dims  = make([]string, 0, len(a.dims)-1)
		shape = make([]int, 0, len(a.dims)-1)
	)
	for i, d := range a.dims {
		if i == axis {
			continue
		}
		dims = append(dims, d)
		shape = append(shape, a.shape[i])
	}
	o, err := New(dims, shape, nil)
	if err != nil {
		return nil, err
	}
	o.Name = a.Name
	for _, d := range dims {
		if c, ok := a.coords[d]; ok {
			o.coords[d] = c
		}
		if c, ok := a.chunks[d]; ok {
			o.chunks[d] = c
		}
	}

	n := a.shape[axis]
	if n == 0 {
		return o, nil
	}
	lanes, stride, offset := a.Lanes(axis)
	for k := 0; k < lanes; k++ {
		var (
			off = offset(k)
			sum complex128
		)
		for i := 0; i < n; i++ {
			sum += a.data[off+i*stride]
		}
		o.data[k] = sum / complex(float64(n), 0)
	}
	return o, nil
}
