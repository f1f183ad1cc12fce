// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logadmin

import (
	"fmt"
	"net/http"

	"github.com/ethersphere/fancylog/pkg/jsonhttp"
	"github.com/ethersphere/fancylog/pkg/log"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"resenje.org/web"
)

func (s *Service) setupRouting() {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(jsonhttp.NotFoundHandler)

	router.Handle("/health", jsonhttp.MethodHandler{
		"GET": http.HandlerFunc(s.healthHandler),
	})

	router.Handle("/metrics", web.ChainHandlers(
		func(h http.Handler) http.Handler {
			return promhttp.InstrumentMetricHandler(s.metricsRegistry, h)
		},
		web.FinalHandler(promhttp.HandlerFor(s.metricsRegistry, promhttp.HandlerOpts{})),
	))

	router.Handle("/loggers", jsonhttp.MethodHandler{
		"GET": http.HandlerFunc(s.loggersGetHandler),
	})

	router.Handle("/loggers/flush", jsonhttp.MethodHandler{
		"POST": web.ChainHandlers(
			s.rateLimitHandler,
			web.FinalHandlerFunc(s.loggersFlushHandler),
		),
	})

	router.Handle("/loggers/default/{level}", jsonhttp.MethodHandler{
		"PUT": web.ChainHandlers(
			s.rateLimitHandler,
			web.FinalHandlerFunc(s.loggersDefaultPutHandler),
		),
	})

	router.Handle("/loggers/{level}", jsonhttp.MethodHandler{
		"PUT": web.ChainHandlers(
			s.rateLimitHandler,
			web.FinalHandlerFunc(s.loggersPutHandler),
		),
	})

	s.Handler = web.ChainHandlers(
		s.requestIDHandler,
		s.accessLogHandler,
		func(h http.Handler) http.Handler {
			return promhttp.InstrumentHandlerCounter(s.metrics.Requests, h)
		},
		handlers.CompressHandler,
		handlers.RecoveryHandler(
			handlers.PrintRecoveryStack(false),
			handlers.RecoveryLogger(recoveryLogger{s.logger}),
		),
		web.FinalHandler(router),
	)
}

func (s *Service) rateLimitHandler(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			s.metrics.RateLimited.Inc()
			jsonhttp.TooManyRequests(w, nil)
			return
		}
		h.ServeHTTP(w, r)
	})
}

func (s *Service) requestIDHandler(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(RequestIDHeader, id)
		}
		w.Header().Set(RequestIDHeader, id)
		h.ServeHTTP(w, r)
	})
}

func (s *Service) accessLogHandler(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h.ServeHTTP(rw, r)
		s.logger.Logf(log.LevelDebug, "api access: %s %s %d %s",
			r.Method, r.URL.Path, rw.status, r.Header.Get(RequestIDHeader))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// recoveryLogger routes panics recovered by the handler chain to the logger.
type recoveryLogger struct {
	logger log.Emitter
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.logger.Log(log.LevelError, fmt.Sprint(v...))
}
