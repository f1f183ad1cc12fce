// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package backend

import (
	"github.com/ethersphere/fancylog/pkg/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewZap returns a Backend writing through l.
func NewZap(l *zap.Logger) log.Backend {
	return &zapBackend{logger: l}
}

type zapBackend struct {
	logger *zap.Logger
}

func (b *zapBackend) Log(e log.Entry) error {
	ce := b.logger.Check(zapLevel(e.Level), e.Message)
	if ce == nil {
		return nil
	}
	ce.Time = e.Time
	ce.LoggerName = e.Logger
	if e.Level == log.LevelCritical {
		ce.Write(zap.String("severity", e.Level.String()))
		return nil
	}
	ce.Write()
	return nil
}

func (b *zapBackend) Flush() error {
	return b.logger.Sync()
}

// zapLevel maps critical to error: zap's higher levels panic or exit.
func zapLevel(l log.Level) zapcore.Level {
	switch l {
	case log.LevelTrace:
		return zapcore.DebugLevel - 1
	case log.LevelDebug:
		return zapcore.DebugLevel
	case log.LevelInfo:
		return zapcore.InfoLevel
	case log.LevelWarn:
		return zapcore.WarnLevel
	}
	return zapcore.ErrorLevel
}
