// Copyright 2019 The fouracc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fouracc

import (
	"bufio"
	"encoding/csv"
	"io"

	"github.com/lsst-lpc/fouracc/labeled"
	"github.com/pkg/errors"
	"go-hep.org/x/hep/csvutil"
)

// TimeDim is the dimension of loaded time series.
const TimeDim = "time"

// Load reads a time series from the provided io.Reader.
// Load expects 1 or 2 columns of the form ([time series], amplitudes).
// Without a time column, samples are indexed from 0.
func Load(r io.Reader) (*labeled.Array, error) {
	tbl := &csvutil.Table{
		Reader: csv.NewReader(bufio.NewReader(r)),
	}
	tbl.Reader.Comment = '#'
	defer tbl.Close()

	rows, err := tbl.ReadRows(0, -1)
	if err != nil {
		return nil, errors.Wrap(err, "fouracc: could not read rows")
	}
	defer rows.Close()

	var (
		xs, ys []float64
		ncols  int
		id     = 0
	)
	for rows.Next() {
		if id == 0 {
			ncols = len(rows.Fields())
		}
		var x, y float64
		switch ncols {
		case 1:
			err = rows.Scan(&y)
			x = float64(id)
		case 2:
			err = rows.Scan(&x, &y)
		default:
			return nil, errors.Errorf("fouracc: invalid number of columns (got=%d, want=1 or 2)", ncols)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "fouracc: could not scan row %d", id)
		}
		xs = append(xs, x)
		ys = append(ys, y)
		id++
	}

	err = rows.Err()
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "fouracc: error while processing rows")
	}

	return labeled.Series(TimeDim, xs, ys)
}

// Save writes the real part of the 1- or 2-dimensional array a as
// tab-separated rows. Each row starts with the coordinate along the first
// dimension; a 2-dimensional array has one row per element of its first
// dimension.
func Save(w io.Writer, a *labeled.Array) error {
	if a.NDim() < 1 || a.NDim() > 2 {
		return errors.Errorf("fouracc: can only save 1- or 2-dimensional arrays (got %d)", a.NDim())
	}
	tbl := &csvutil.Table{
		Writer: csv.NewWriter(w),
	}
	tbl.Writer.Comma = '\t'

	var (
		dims = a.Dims()
		xs   = a.CoordOrIndex(dims[0]).Float64s()
		vs   = a.Floats()
		ncol = 1
	)
	if len(dims) == 2 {
		ncol = a.Len(dims[1])
	}
	for i, x := range xs {
		args := make([]interface{}, 0, ncol+1)
		args = append(args, x)
		for _, v := range vs[i*ncol : (i+1)*ncol] {
			args = append(args, v)
		}
		err := tbl.WriteRow(args...)
		if err != nil {
			return errors.Wrapf(err, "fouracc: could not write row %d", i)
		}
	}

	tbl.Writer.Flush()
	err := tbl.Writer.Error()
	if err != nil {
		return errors.Wrap(err, "fouracc: could not flush rows")
	}
	return nil
}
