// Copyright 2019 The fouracc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package backend provides the execution strategies used to run lane-wise
// array work: sequentially, or fanned out over a pool of goroutines.
package backend

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Backend runs n independent work items.
type Backend interface {
	// Run calls fn(i) for every i in [0, n) and returns the first error.
	Run(n int, fn func(i int) error) error
}

// Eager runs work items one after the other, in order.
type Eager struct{}

func (Eager) Run(n int, fn func(i int) error) error {
	for i := 0; i < n; i++ {
		if err := fn(i); err != nil {
			return err
		}
	}
	return nil
}

// Parallel splits work items into contiguous blocks run by at most Workers
// goroutines. A zero Workers uses GOMAXPROCS.
type Parallel struct {
	Workers int
}

func (p Parallel) Run(n int, fn func(i int) error) error {
	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		return Eager{}.Run(n, fn)
	}

	var (
		grp  errgroup.Group
		size = (n + workers - 1) / workers
	)
	grp.SetLimit(workers)
	for beg := 0; beg < n; beg += size {
		beg := beg
		end := min(beg+size, n)
		grp.Go(func() error {
			for i := beg; i < end; i++ {
				if err := fn(i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return grp.Wait()
}

// For returns the backend matching a data layout: chunked data is processed
// in parallel, contiguous data eagerly.
func For(chunked bool) Backend {
	if chunked {
		return Parallel{}
	}
	return Eager{}
}
