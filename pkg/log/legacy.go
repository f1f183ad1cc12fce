// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"fmt"

	"github.com/go-logr/logr"
	"go.uber.org/atomic"
)

// LegacyComponents is the fixed set of component loggers of the legacy
// facade. Identifiers outside the set are logged through "misc".
var LegacyComponents = []string{
	"admin",
	"assert",
	"backtrace",
	"client",
	"config",
	"connection",
	"conn_handler",
	"file",
	"filter",
	"grpc",
	"health_checker",
	"http",
	"http2",
	"init",
	"io",
	"main",
	"misc",
	"pool",
	"router",
	"runtime",
	"secret",
	"stats",
	"tracing",
	"udp",
	"upstream",
}

const legacyFallback = "misc"

// LegacyFacade logs through a fixed set of named logr loggers sharing a
// single level. It does not consult any Registry.
type LegacyFacade struct {
	level      atomic.Int32
	components map[string]*legacyEmitter
}

// NewLegacyFacade builds one component logger per LegacyComponents entry by
// naming base, all starting at level l.
func NewLegacyFacade(base logr.Logger, l Level) *LegacyFacade {
	f := &LegacyFacade{
		components: make(map[string]*legacyEmitter, len(LegacyComponents)),
	}
	f.level.Store(int32(l))
	for _, name := range LegacyComponents {
		f.components[name] = &legacyEmitter{
			facade: f,
			logger: base.WithName(name),
		}
	}
	return f
}

// Emitter returns the component logger named key, or the misc logger.
func (f *LegacyFacade) Emitter(key string) Emitter {
	if e, ok := f.components[key]; ok {
		return e
	}
	return f.components[legacyFallback]
}

// Level returns the shared level.
func (f *LegacyFacade) Level() Level { return Level(f.level.Load()) }

// SetLevel changes the shared level of all components.
func (f *LegacyFacade) SetLevel(l Level) { f.level.Store(int32(l)) }

type legacyEmitter struct {
	facade *LegacyFacade
	logger logr.Logger
}

func (e *legacyEmitter) Enabled(l Level) bool {
	return l < LevelOff && l >= e.facade.Level()
}

func (e *legacyEmitter) Log(l Level, msg string) {
	if !e.Enabled(l) {
		return
	}
	switch {
	case l >= LevelError:
		e.logger.Error(nil, msg, "severity", l.String())
	case l == LevelWarn:
		e.logger.Info(msg, "severity", l.String())
	default:
		e.logger.V(verbosity(l)).Info(msg)
	}
}

func (e *legacyEmitter) Logf(l Level, format string, args ...interface{}) {
	if e.Enabled(l) {
		e.Log(l, fmt.Sprintf(format, args...))
	}
}
