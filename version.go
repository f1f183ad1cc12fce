// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fancylog provides keyed, runtime-adjustable loggers.
package fancylog

var (
	version = "0.1.0" // manually set semantic version number
	commit  string    // automatically set git commit hash

	// Version is the full version of the build.
	Version = func() string {
		if commit != "" {
			return version + "-" + commit
		}
		return version + "-dev"
	}()
)
