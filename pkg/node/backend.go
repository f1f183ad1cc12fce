// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package node

import (
	"fmt"
	"io"
	"strings"

	"github.com/ethersphere/fancylog/pkg/log"
	"github.com/ethersphere/fancylog/pkg/log/backend"
	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/go-logr/zapr"
	"github.com/go-logr/zerologr"
	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func init() {
	// Records filter before the adapter, so zerolog lets everything through.
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	zerologr.NameFieldName = "logger"
	zerologr.NameSeparator = "/"
}

// Backend names accepted by NewBackend.
const (
	BackendWriter  = "writer"
	BackendZerolog = "zerolog"
	BackendZap     = "zap"
	BackendLogrus  = "logrus"
)

// Backends lists the accepted backend names.
var Backends = []string{BackendWriter, BackendZerolog, BackendZap, BackendLogrus}

// NewBackend builds the named backend writing to w. The returned logr.Logger
// writes to the same destination and is the base of the legacy facade.
func NewBackend(name string, w io.Writer) (log.Backend, logr.Logger, error) {
	switch strings.ToLower(name) {
	case BackendWriter:
		w = log.Lock(w)
		return log.NewWriterBackend(w), newFuncLogger(w), nil

	case BackendZerolog:
		zl := zerolog.New(log.Lock(w))
		base := zl.With().Timestamp().Logger()
		return backend.NewZerolog(zl), zerologr.New(&base), nil

	case BackendZap:
		core := zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(log.Lock(w)),
			zap.NewAtomicLevelAt(zapcore.DebugLevel-1),
		)
		zl := zap.New(core)
		return backend.NewZap(zl), zapr.NewLogger(zl), nil

	case BackendLogrus:
		ll := logrus.New()
		ll.SetOutput(w)
		ll.SetFormatter(&logrus.JSONFormatter{})
		ll.SetLevel(logrus.TraceLevel)
		return backend.NewLogrus(ll), newLogrusLogger(ll), nil
	}
	return nil, logr.Discard(), fmt.Errorf("unknown backend %q, want one of %s", name, strings.Join(Backends, ", "))
}

func newFuncLogger(w io.Writer) logr.Logger {
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			_, _ = fmt.Fprintf(w, "%s: %s\n", prefix, args)
			return
		}
		_, _ = fmt.Fprintln(w, args)
	}, funcr.Options{Verbosity: 2})
}

func newLogrusLogger(ll *logrus.Logger) logr.Logger {
	return funcr.New(func(prefix, args string) {
		ll.WithField(backend.LoggerFieldName, prefix).Info(args)
	}, funcr.Options{Verbosity: 2})
}
