// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"io"
	"os"
	"strconv"
	"sync"
)

// Lock wraps io.Writer in a mutex to make it safe for concurrent use.
// In particular, *os.Files must be locked before use.
func Lock(w io.Writer) io.Writer {
	if _, ok := w.(*lockWriter); ok {
		return w // No need to layer on another lock.
	}
	return &lockWriter{w: w}
}

type lockWriter struct {
	sync.Mutex
	w io.Writer
}

func (ls *lockWriter) Write(bs []byte) (int, error) {
	ls.Lock()
	n, err := ls.w.Write(bs)
	ls.Unlock()
	return n, err
}

func (ls *lockWriter) Flush() error {
	ls.Lock()
	defer ls.Unlock()
	return flushWriter(ls.w)
}

func flushWriter(w io.Writer) error {
	if f, ok := w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// NewWriterBackend returns a Backend which renders every entry with the
// entry's pattern and writes it to w. The writer is wrapped with Lock when
// the backend is initialized.
func NewWriterBackend(w io.Writer) Backend {
	return &writerBackend{
		sink: w,
		pid:  strconv.Itoa(os.Getpid()),
	}
}

type writerBackend struct {
	once sync.Once
	sink io.Writer
	pid  string
}

func (b *writerBackend) Init() error {
	b.once.Do(func() {
		b.sink = Lock(b.sink)
	})
	return nil
}

func (b *writerBackend) Log(e Entry) error {
	buf := make([]byte, 0, 256)
	buf = appendPattern(buf, e, b.pid)
	_, err := b.sink.Write(buf)
	return err
}

func (b *writerBackend) Flush() error {
	return flushWriter(b.sink)
}
