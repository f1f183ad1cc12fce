// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"fmt"
	"time"

	"go.uber.org/atomic"
)

// Record is the shared state of one named logger. Records are created and
// owned by a Registry and are never removed, so a *Record stays valid for the
// lifetime of the process. The level and pattern may change at any time
// through the Registry; readers never take a lock.
type Record struct {
	name    string
	level   atomic.Int32
	pattern atomic.String
	backend Backend
	fault   func(error)
}

// Name returns the identifier the record was registered with.
func (r *Record) Name() string { return r.name }

// Level returns the current level of the record.
func (r *Record) Level() Level { return Level(r.level.Load()) }

// setLevel updates the level. Callers go through the Registry.
func (r *Record) setLevel(l Level) { r.level.Store(int32(l)) }

// Pattern returns the current format pattern of the record.
func (r *Record) Pattern() string { return r.pattern.Load() }

func (r *Record) setPattern(p string) { r.pattern.Store(p) }

// Enabled tests whether an entry at level l would be written.
func (r *Record) Enabled(l Level) bool {
	return l < LevelOff && l >= r.Level()
}

// Log writes msg at level l if the record's level allows it.
func (r *Record) Log(l Level, msg string) {
	if r.Enabled(l) {
		r.write(l, msg)
	}
}

// Logf formats and writes a message at level l if the record's level
// allows it. Arguments are not evaluated for suppressed entries.
func (r *Record) Logf(l Level, format string, args ...interface{}) {
	if r.Enabled(l) {
		r.write(l, fmt.Sprintf(format, args...))
	}
}

// Flush flushes the backend if it buffers output.
func (r *Record) Flush() error {
	if f, ok := r.backend.(Flusher); ok {
		return f.Flush()
	}
	return nil
}

func (r *Record) write(l Level, msg string) {
	err := r.backend.Log(Entry{
		Time:    time.Now(),
		Level:   l,
		Logger:  r.name,
		Pattern: r.Pattern(),
		Message: msg,
	})
	if err != nil {
		r.fault(fmt.Errorf("log %s: unable to write entry: %w", r.name, err))
	}
	if l >= LevelCritical {
		if err := r.Flush(); err != nil {
			r.fault(fmt.Errorf("log %s: flush: %w", r.name, err))
		}
	}
}
