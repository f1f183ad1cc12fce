// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logadmin

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	Requests    *prometheus.CounterVec
	RateLimited prometheus.Counter
}

func newMetrics() metrics {
	subsystem := "admin"

	return metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fancylog",
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "Number of admin API requests, by response code and method.",
		}, []string{"code", "method"}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fancylog",
			Subsystem: subsystem,
			Name:      "rate_limited_total",
			Help:      "Number of mutating admin requests rejected by the rate limiter.",
		}),
	}
}

func (m metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.Requests, m.RateLimited}
}
