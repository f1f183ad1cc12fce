// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

var _ logr.LogSink = (*recordSink)(nil)

// Logr returns a logr.Logger that writes through the record. Info entries
// map V(0) to info, V(1) to debug and V(2) and above to trace; Error entries
// are written at error level. Key/value pairs are rendered into the message
// by funcr and logger names prefix it:
//
//	dial: connection failed "error"="refused" "attempt"=3
func (r *Record) Logr() logr.Logger {
	return logr.New(&recordSink{
		Formatter: funcr.NewFormatter(funcr.Options{
			RenderBuiltinsHook: dropBuiltins,
		}),
		rec: r,
	})
}

type recordSink struct {
	funcr.Formatter
	rec *Record
}

func (s *recordSink) Enabled(level int) bool {
	return s.rec.Enabled(levelOf(level))
}

func (s *recordSink) Info(level int, msg string, keysAndValues ...interface{}) {
	l := levelOf(level)
	if s.rec.Enabled(l) {
		prefix, args := s.FormatInfo(level, msg, keysAndValues)
		s.rec.write(l, joinMessage(prefix, msg, args))
	}
}

func (s *recordSink) Error(err error, msg string, keysAndValues ...interface{}) {
	if s.rec.Enabled(LevelError) {
		prefix, args := s.FormatError(err, msg, keysAndValues)
		s.rec.write(LevelError, joinMessage(prefix, msg, args))
	}
}

func (s *recordSink) WithValues(keysAndValues ...interface{}) logr.LogSink {
	c := *s
	c.AddValues(keysAndValues)
	return &c
}

func (s *recordSink) WithName(name string) logr.LogSink {
	c := *s
	c.AddName(name)
	return &c
}

// dropBuiltins removes the level and msg pairs funcr adds to every line, and
// the error pair when there is no error. The record carries the level and
// the message is written ahead of the pairs.
func dropBuiltins(kvList []interface{}) []interface{} {
	out := make([]interface{}, 0, len(kvList))
	for i := 0; i+1 < len(kvList); i += 2 {
		switch kvList[i] {
		case "level", "msg":
			continue
		case "error":
			if kvList[i+1] == nil {
				continue
			}
		}
		out = append(out, kvList[i], kvList[i+1])
	}
	return out
}

// joinMessage builds "prefix: msg args". funcr separates the dropped
// builtins from the remaining pairs with a space, which is trimmed.
func joinMessage(prefix, msg, args string) string {
	args = strings.TrimPrefix(args, " ")

	var b strings.Builder
	b.Grow(len(prefix) + len(msg) + len(args) + 3)
	if prefix != "" {
		b.WriteString(prefix)
		b.WriteString(": ")
	}
	b.WriteString(msg)
	if args != "" {
		if msg != "" {
			b.WriteByte(' ')
		}
		b.WriteString(args)
	}
	return b.String()
}

// levelOf converts a logr verbosity to a Level.
func levelOf(v int) Level {
	switch {
	case v <= 0:
		return LevelInfo
	case v == 1:
		return LevelDebug
	}
	return LevelTrace
}

// verbosity converts a Level below warning to a logr verbosity.
func verbosity(l Level) int {
	switch l {
	case LevelTrace:
		return 2
	case LevelDebug:
		return 1
	}
	return 0
}
