// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidLevel is returned when a level name cannot be parsed.
var ErrInvalidLevel = errors.New("invalid log level")

// Level specifies the severity threshold of a logger.
// Entries are written when their level is at or above the
// level of the logger they are emitted through.
type Level int32

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
	LevelOff
)

var levelNames = [...]string{
	LevelTrace:    "trace",
	LevelDebug:    "debug",
	LevelInfo:     "info",
	LevelWarn:     "warning",
	LevelError:    "error",
	LevelCritical: "critical",
	LevelOff:      "off",
}

// shortNames are the one letter level names used by the %L pattern flag.
var shortNames = [...]string{"T", "D", "I", "W", "E", "C", "O"}

// String implements the fmt.Stringer interface.
func (l Level) String() string {
	if l.valid() {
		return levelNames[l]
	}
	return strconv.FormatInt(int64(l), 10)
}

func (l Level) short() string {
	if l.valid() {
		return shortNames[l]
	}
	return "?"
}

func (l Level) valid() bool {
	return l >= LevelTrace && l <= LevelOff
}

// ParseLevel converts a level name to a Level. Matching is case-insensitive
// and accepts the common aliases warn, err and crit.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "err", "error":
		return LevelError, nil
	case "crit", "critical":
		return LevelCritical, nil
	case "off", "none":
		return LevelOff, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
}

// MarshalText implements the encoding.TextMarshaler interface.
func (l Level) MarshalText() ([]byte, error) {
	if !l.valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLevel, l)
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (l *Level) UnmarshalText(text []byte) error {
	v, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}
