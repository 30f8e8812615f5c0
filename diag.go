// Copyright 2019 The fouracc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fouracc

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Kind classifies an advisory warning.
type Kind string

const (
	FutureDefault   Kind = "future-default"   // a default value will change
	Deprecated      Kind = "deprecated"       // a legacy option was used
	IgnoredArgument Kind = "ignored-argument" // an option has no effect for this operation
	Accuracy        Kind = "accuracy"         // the result may not be what was asked for
)

// Warning is a non-fatal advisory emitted by an operation.
type Warning struct {
	Op      string
	Kind    Kind
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s: %s", w.Op, w.Kind, w.Message)
}

// Reporter receives advisory warnings.
type Reporter interface {
	Report(w Warning)
}

// Diagnostics collects warnings. It is safe for concurrent use.
type Diagnostics struct {
	mu       sync.Mutex
	warnings []Warning
}

func (d *Diagnostics) Report(w Warning) {
	d.mu.Lock()
	d.warnings = append(d.warnings, w)
	d.mu.Unlock()
}

// Warnings returns the collected warnings.
func (d *Diagnostics) Warnings() []Warning {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Warning(nil), d.warnings...)
}

// Has reports whether a warning of the given kind was collected.
func (d *Diagnostics) Has(k Kind) bool {
	for _, w := range d.Warnings() {
		if w.Kind == k {
			return true
		}
	}
	return false
}

// LogReporter logs warnings through a logrus logger.
type LogReporter struct {
	Logger logrus.FieldLogger
}

func (r LogReporter) Report(w Warning) {
	l := r.Logger
	if l == nil {
		l = logrus.StandardLogger()
	}
	l.WithFields(logrus.Fields{
		"op":   w.Op,
		"kind": string(w.Kind),
	}).Warn(w.Message)
}
