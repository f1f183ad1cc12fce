// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "fancylog"

// metrics are only touched on the slow and medium paths and by
// administrative operations, never when logging through a resolved Site.
type metrics struct {
	LoggersCreated    prometheus.Counter
	SiteResolutions   *prometheus.CounterVec
	LevelUpdates      *prometheus.CounterVec
	RegisteredLoggers prometheus.GaugeFunc
}

func newMetrics(r *Registry) metrics {
	subsystem := "registry"

	return metrics{
		LoggersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "loggers_created_total",
			Help:      "Number of loggers created on first use of an identifier.",
		}),
		SiteResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "site_resolutions_total",
			Help:      "Number of registry lookups, by path (slow creates, medium reuses).",
		}, []string{"path"}),
		LevelUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "level_updates_total",
			Help:      "Number of level updates, by operation.",
		}, []string{"op"}),
		RegisteredLoggers: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "loggers",
			Help:      "Number of registered loggers.",
		}, func() float64 {
			return float64(r.Len())
		}),
	}
}

// Metrics returns the prometheus collectors of the registry.
func (r *Registry) Metrics() []prometheus.Collector {
	return []prometheus.Collector{
		r.metrics.LoggersCreated,
		r.metrics.SiteResolutions,
		r.metrics.LevelUpdates,
		r.metrics.RegisteredLoggers,
	}
}
