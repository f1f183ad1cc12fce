// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logadmin exposes the administrative operations of a log.Registry
// over HTTP.
package logadmin

import (
	"net/http"

	"github.com/ethersphere/fancylog/pkg/log"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

// RequestIDHeader carries the identifier assigned to every request.
const RequestIDHeader = "X-Request-Id"

// LevelSetter is a group of loggers sharing one level outside the registry,
// such as log.LegacyFacade.
type LevelSetter interface {
	Level() log.Level
	SetLevel(log.Level)
}

// Options configures the Service.
type Options struct {
	// Version is reported by the health endpoint.
	Version string
	// RateLimit bounds the rate of mutating requests per second.
	// Zero disables rate limiting.
	RateLimit rate.Limit
	// Burst is the number of mutating requests allowed at once.
	Burst int
	// Legacy, when set, also takes the level given to all loggers.
	Legacy LevelSetter
}

// Service is the admin HTTP handler of a registry.
type Service struct {
	http.Handler

	reg     *log.Registry
	logger  log.Emitter
	version string
	limiter *rate.Limiter
	legacy  LevelSetter

	metricsRegistry *prometheus.Registry
	metrics         metrics
}

// New constructs the admin Service for reg. Requests are logged through
// logger at debug level.
func New(reg *log.Registry, logger log.Emitter, o Options) *Service {
	s := &Service{
		reg:     reg,
		logger:  logger,
		version: o.Version,
		legacy:  o.Legacy,
		metrics: newMetrics(),
	}
	if o.RateLimit > 0 {
		burst := o.Burst
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(o.RateLimit, burst)
	}

	s.metricsRegistry = prometheus.NewRegistry()
	s.metricsRegistry.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	s.metricsRegistry.MustRegister(reg.Metrics()...)
	s.metricsRegistry.MustRegister(s.metrics.collectors()...)

	s.setupRouting()
	return s
}

// MetricsRegistry returns the prometheus registry served on /metrics.
func (s *Service) MetricsRegistry() *prometheus.Registry {
	return s.metricsRegistry
}
