// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package backend

import (
	"github.com/ethersphere/fancylog/pkg/log"
	"github.com/rs/zerolog"
)

// LoggerFieldName is the field carrying the record name in structured output.
const LoggerFieldName = "logger"

// NewZerolog returns a Backend writing through l.
func NewZerolog(l zerolog.Logger) log.Backend {
	return &zerologBackend{logger: l}
}

type zerologBackend struct {
	logger zerolog.Logger
}

func (b *zerologBackend) Log(e log.Entry) error {
	// WithLevel does not exit or panic for the fatal level.
	b.logger.WithLevel(zerologLevel(e.Level)).
		Time(zerolog.TimestampFieldName, e.Time).
		Str(LoggerFieldName, e.Logger).
		Msg(e.Message)
	return nil
}

func zerologLevel(l log.Level) zerolog.Level {
	switch l {
	case log.LevelTrace:
		return zerolog.TraceLevel
	case log.LevelDebug:
		return zerolog.DebugLevel
	case log.LevelInfo:
		return zerolog.InfoLevel
	case log.LevelWarn:
		return zerolog.WarnLevel
	case log.LevelError:
		return zerolog.ErrorLevel
	case log.LevelCritical:
		return zerolog.FatalLevel
	}
	return zerolog.NoLevel
}
