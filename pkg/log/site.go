// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"fmt"
	"runtime"

	"go.uber.org/atomic"
)

// Site caches the record of a single log statement. A Site is meant to be a
// package level variable, one per call site or group of call sites:
//
//	var logger = log.NewSite(log.FileKey())
//
//	func serve() {
//		logger.Infof("listening on %s", addr)
//	}
//
// The first call resolves the key through the registry; every later call is
// a single atomic load of the cached record.
type Site struct {
	key  string
	reg  *Registry
	slot atomic.Pointer[Record]
}

// NewSite returns a Site for key that resolves through the default registry
// at the time of its first use.
func NewSite(key string) *Site {
	return &Site{key: key}
}

// NewSite returns a Site for key bound to this registry.
func (r *Registry) NewSite(key string) *Site {
	return &Site{key: key, reg: r}
}

// FileKey returns the path of the source file it is called from.
func FileKey() string {
	_, file, _, ok := runtime.Caller(1)
	if !ok {
		return "<unknown>"
	}
	return file
}

// Key returns the identifier of the site.
func (s *Site) Key() string { return s.key }

// Record returns the record of the site, resolving it on first use.
func (s *Site) Record() *Record {
	if rec := s.slot.Load(); rec != nil {
		return rec
	}
	return s.resolve()
}

// resolve looks up or creates the record and publishes it in the slot.
// Concurrent resolvers get the same record from the registry, so whichever
// store lands last writes the same pointer.
func (s *Site) resolve() *Record {
	reg := s.reg
	if reg == nil {
		reg = Default()
	}
	rec := reg.LookupOrCreate(s.key)
	s.slot.Store(rec)
	return rec
}

// Enabled tests whether an entry at level l would be written.
func (s *Site) Enabled(l Level) bool { return s.Record().Enabled(l) }

// Log writes msg at level l.
func (s *Site) Log(l Level, msg string) { s.Record().Log(l, msg) }

// Logf formats and writes a message at level l.
func (s *Site) Logf(l Level, format string, args ...interface{}) {
	s.Record().Logf(l, format, args...)
}

// Trace writes msg at trace level.
func (s *Site) Trace(msg string) {
	s.Record().Log(LevelTrace, msg)
}

// Debug writes msg at debug level.
func (s *Site) Debug(msg string) {
	s.Record().Log(LevelDebug, msg)
}

// Info writes msg at info level.
func (s *Site) Info(msg string) {
	s.Record().Log(LevelInfo, msg)
}

// Warn writes msg at warning level.
func (s *Site) Warn(msg string) {
	s.Record().Log(LevelWarn, msg)
}

// Error writes msg at error level.
func (s *Site) Error(msg string) {
	s.Record().Log(LevelError, msg)
}

// Critical writes msg at critical level.
func (s *Site) Critical(msg string) {
	s.Record().Log(LevelCritical, msg)
}

// Tracef formats and writes a message at trace level.
func (s *Site) Tracef(format string, args ...interface{}) {
	s.Record().Logf(LevelTrace, format, args...)
}

// Debugf formats and writes a message at debug level.
func (s *Site) Debugf(format string, args ...interface{}) {
	s.Record().Logf(LevelDebug, format, args...)
}

// Infof formats and writes a message at info level.
func (s *Site) Infof(format string, args ...interface{}) {
	s.Record().Logf(LevelInfo, format, args...)
}

// Warnf formats and writes a message at warning level.
func (s *Site) Warnf(format string, args ...interface{}) {
	s.Record().Logf(LevelWarn, format, args...)
}

// Errorf formats and writes a message at error level.
func (s *Site) Errorf(format string, args ...interface{}) {
	s.Record().Logf(LevelError, format, args...)
}

// Criticalf formats and writes a message at critical level.
func (s *Site) Criticalf(format string, args ...interface{}) {
	s.Record().Logf(LevelCritical, format, args...)
}

// Connf logs a message about a connection, prefixed with "[C<conn>] ".
func (s *Site) Connf(l Level, conn uint64, format string, args ...interface{}) {
	rec := s.Record()
	if !rec.Enabled(l) {
		return
	}
	rec.write(l, fmt.Sprintf("[C%d] ", conn)+fmt.Sprintf(format, args...))
}

// Streamf logs a message about a stream of a connection, prefixed with
// "[C<conn>][S<stream>] ".
func (s *Site) Streamf(l Level, conn, stream uint64, format string, args ...interface{}) {
	rec := s.Record()
	if !rec.Enabled(l) {
		return
	}
	rec.write(l, fmt.Sprintf("[C%d][S%d] ", conn, stream)+fmt.Sprintf(format, args...))
}

// Flush flushes the backend of the site's record.
func (s *Site) Flush() error { return s.Record().Flush() }
