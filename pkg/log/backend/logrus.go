// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package backend

import (
	"github.com/ethersphere/fancylog/pkg/log"
	"github.com/sirupsen/logrus"
)

// NewLogrus returns a Backend writing through l.
func NewLogrus(l *logrus.Logger) log.Backend {
	return &logrusBackend{logger: l}
}

type logrusBackend struct {
	logger *logrus.Logger
}

func (b *logrusBackend) Log(e log.Entry) error {
	// Entry.Log neither exits nor panics for the fatal level.
	b.logger.WithTime(e.Time).
		WithField(LoggerFieldName, e.Logger).
		Log(logrusLevel(e.Level), e.Message)
	return nil
}

func logrusLevel(l log.Level) logrus.Level {
	switch l {
	case log.LevelTrace:
		return logrus.TraceLevel
	case log.LevelDebug:
		return logrus.DebugLevel
	case log.LevelInfo:
		return logrus.InfoLevel
	case log.LevelWarn:
		return logrus.WarnLevel
	case log.LevelError:
		return logrus.ErrorLevel
	}
	return logrus.FatalLevel
}
