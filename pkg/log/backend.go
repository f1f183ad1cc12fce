// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"time"

	"github.com/hashicorp/go-multierror"
)

// Entry is a single log line handed to a Backend.
type Entry struct {
	Time    time.Time
	Level   Level
	Logger  string
	Pattern string
	Message string
}

// Backend receives entries that passed the level check of a Record.
// Implementations must be safe for concurrent use once initialized.
type Backend interface {
	Log(e Entry) error
}

// Flusher is implemented by backends that buffer output.
type Flusher interface {
	Flush() error
}

// Initializer is implemented by backends that need a one-time setup of shared
// resources. The Registry calls Init before the first Record is handed out.
type Initializer interface {
	Init() error
}

// MultiBackend returns a Backend that duplicates every entry to all backends.
func MultiBackend(backends ...Backend) Backend {
	all := make([]Backend, 0, len(backends))
	for _, b := range backends {
		if mb, ok := b.(*multiBackend); ok {
			all = append(all, mb.backends...)
			continue
		}
		all = append(all, b)
	}
	return &multiBackend{backends: all}
}

type multiBackend struct {
	backends []Backend
}

func (m *multiBackend) Init() error {
	var result *multierror.Error
	for _, b := range m.backends {
		if in, ok := b.(Initializer); ok {
			if err := in.Init(); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}
	return result.ErrorOrNil()
}

func (m *multiBackend) Log(e Entry) error {
	var result *multierror.Error
	for _, b := range m.backends {
		if err := b.Log(e); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func (m *multiBackend) Flush() error {
	var result *multierror.Error
	for _, b := range m.backends {
		if f, ok := b.(Flusher); ok {
			if err := f.Flush(); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}
	return result.ErrorOrNil()
}
