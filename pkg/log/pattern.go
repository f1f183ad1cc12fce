// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"strconv"
)

// DefaultFormat is the pattern used for records when none is configured.
//
// Supported flags:
//
//	%Y year, %m month, %d day, %H hour, %M minute, %S second,
//	%T shorthand for %H:%M:%S, %e milliseconds, %f microseconds,
//	%t and %P process id, %l level name, %L short level name,
//	%n logger name, %v message, %% literal percent sign.
//
// Any other flag is written through as is.
const DefaultFormat = "[%Y-%m-%d %T.%e][%t][%l][%n] %v"

// appendPattern renders e according to e.Pattern and appends a new line.
func appendPattern(dst []byte, e Entry, pid string) []byte {
	p := e.Pattern
	for i := 0; i < len(p); i++ {
		c := p[i]
		if c != '%' {
			dst = append(dst, c)
			continue
		}
		if i+1 == len(p) {
			dst = append(dst, '%')
			break
		}
		i++
		t := e.Time
		switch p[i] {
		case 'Y':
			dst = appendInt(dst, t.Year(), 4)
		case 'm':
			dst = appendInt(dst, int(t.Month()), 2)
		case 'd':
			dst = appendInt(dst, t.Day(), 2)
		case 'H':
			dst = appendInt(dst, t.Hour(), 2)
		case 'M':
			dst = appendInt(dst, t.Minute(), 2)
		case 'S':
			dst = appendInt(dst, t.Second(), 2)
		case 'T':
			dst = appendInt(dst, t.Hour(), 2)
			dst = append(dst, ':')
			dst = appendInt(dst, t.Minute(), 2)
			dst = append(dst, ':')
			dst = appendInt(dst, t.Second(), 2)
		case 'e':
			dst = appendInt(dst, t.Nanosecond()/1e6, 3)
		case 'f':
			dst = appendInt(dst, t.Nanosecond()/1e3, 6)
		case 't', 'P':
			dst = append(dst, pid...)
		case 'l':
			dst = append(dst, e.Level.String()...)
		case 'L':
			dst = append(dst, e.Level.short()...)
		case 'n':
			dst = append(dst, e.Logger...)
		case 'v':
			dst = append(dst, e.Message...)
		case '%':
			dst = append(dst, '%')
		default:
			dst = append(dst, '%', p[i])
		}
	}
	return append(dst, '\n')
}

// appendInt appends v zero padded to width digits.
func appendInt(dst []byte, v, width int) []byte {
	var tmp [20]byte
	b := strconv.AppendInt(tmp[:0], int64(v), 10)
	for n := len(b); n < width; n++ {
		dst = append(dst, '0')
	}
	return append(dst, b...)
}
