// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package backend adapts third party loggers to log.Backend.
//
// The adapters ignore the record pattern: the wrapped logger owns the output
// format. Level filtering is done by the record before an entry reaches the
// adapter, so the wrapped loggers should be configured to let everything
// through.
package backend
