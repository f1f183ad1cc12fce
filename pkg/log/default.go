// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"go.uber.org/atomic"
)

var defaultRegistry atomic.Pointer[Registry]

func init() {
	SetDefault(nil)
}

// Default returns the process wide registry. It is never nil.
func Default() *Registry {
	return defaultRegistry.Load()
}

// SetDefault replaces the process wide registry. A nil registry resets it
// to a fresh NewRegistry(). Sites that already resolved keep their record.
func SetDefault(r *Registry) {
	if r == nil {
		r = NewRegistry()
	}
	defaultRegistry.Store(r)
}

// Emit writes msg at level l through the record registered under key in the
// default registry.
func Emit(key string, l Level, msg string) {
	Default().Emit(key, l, msg)
}
