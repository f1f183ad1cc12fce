// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"fmt"
	"strings"
)

// Emitter is the logging call capability handed to call sites.
// *Site and *Record implement it.
type Emitter interface {
	Enabled(l Level) bool
	Log(l Level, msg string)
	Logf(l Level, format string, args ...interface{})
}

var (
	_ Emitter = (*Site)(nil)
	_ Emitter = (*Record)(nil)
)

// Facade hands out emitters for identifiers. The implementation is chosen
// once at startup by Strategy.
type Facade interface {
	Emitter(key string) Emitter
}

// Strategy selects a Facade implementation.
type Strategy string

const (
	// StrategyFancy keys loggers by arbitrary identifiers through a Registry.
	StrategyFancy Strategy = "fancy"
	// StrategyLegacy maps identifiers onto a fixed set of component loggers.
	StrategyLegacy Strategy = "legacy"
)

// ParseStrategy converts a strategy name to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch v := Strategy(strings.ToLower(strings.TrimSpace(s))); v {
	case StrategyFancy, StrategyLegacy:
		return v, nil
	}
	return "", fmt.Errorf("unknown logging strategy %q", s)
}

// NewFancyFacade returns a Facade which hands out a new Site bound to reg for
// every requested identifier.
func NewFancyFacade(reg *Registry) Facade {
	return fancyFacade{reg: reg}
}

type fancyFacade struct {
	reg *Registry
}

func (f fancyFacade) Emitter(key string) Emitter {
	return f.reg.NewSite(key)
}
