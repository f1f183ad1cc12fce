// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logadmin

import (
	"net/http"

	"github.com/ethersphere/fancylog/pkg/jsonhttp"
	"github.com/ethersphere/fancylog/pkg/log"
	"github.com/gorilla/mux"
)

// LoggersResponse lists the registered loggers in registration order.
// Legacy is the shared level of the legacy loggers, when there are any.
type LoggersResponse struct {
	Loggers  []log.LoggerLevel `json:"loggers" yaml:"loggers"`
	Defaults DefaultsResponse  `json:"defaults" yaml:"defaults"`
	Legacy   *log.Level        `json:"legacy,omitempty" yaml:"legacy,omitempty"`
}

// DefaultsResponse describes the settings given to new loggers.
type DefaultsResponse struct {
	Level  log.Level `json:"level" yaml:"level"`
	Format string    `json:"format" yaml:"format"`
}

// HealthResponse reports the liveness and version of the service.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Service) healthHandler(w http.ResponseWriter, _ *http.Request) {
	jsonhttp.OK(w, HealthResponse{
		Status:  "ok",
		Version: s.version,
	})
}

func (s *Service) loggersGetHandler(w http.ResponseWriter, _ *http.Request) {
	loggers := s.reg.List()
	if loggers == nil {
		loggers = []log.LoggerLevel{}
	}
	d := s.reg.Defaults()
	resp := LoggersResponse{
		Loggers:  loggers,
		Defaults: DefaultsResponse{Level: d.Level, Format: d.Format},
	}
	if s.legacy != nil {
		l := s.legacy.Level()
		resp.Legacy = &l
	}
	jsonhttp.OK(w, resp)
}

// loggersPutHandler sets the level of the logger named by the "name" query
// parameter, or of every logger, legacy ones included, when it is absent.
func (s *Service) loggersPutHandler(w http.ResponseWriter, r *http.Request) {
	l, err := log.ParseLevel(mux.Vars(r)["level"])
	if err != nil {
		s.logger.Logf(log.LevelDebug, "loggers put: %v", err)
		jsonhttp.BadRequest(w, err)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		s.reg.SetAllLevels(l)
		if s.legacy != nil {
			s.legacy.SetLevel(l)
		}
		s.logger.Logf(log.LevelInfo, "all loggers set to %s", l)
		jsonhttp.OK(w, nil)
		return
	}

	if !s.reg.SetLevel(name, l) {
		jsonhttp.NotFound(w, log.ErrNotFound)
		return
	}
	s.logger.Logf(log.LevelInfo, "logger %q set to %s", name, l)
	jsonhttp.OK(w, nil)
}

// loggersDefaultPutHandler changes the default level and, when the "format"
// query parameter is given, the default format.
func (s *Service) loggersDefaultPutHandler(w http.ResponseWriter, r *http.Request) {
	l, err := log.ParseLevel(mux.Vars(r)["level"])
	if err != nil {
		s.logger.Logf(log.LevelDebug, "loggers default put: %v", err)
		jsonhttp.BadRequest(w, err)
		return
	}

	format := s.reg.Defaults().Format
	if v, ok := r.URL.Query()["format"]; ok && len(v) > 0 {
		format = v[0]
	}

	s.reg.SetDefaultLevelAndFormat(l, format)
	s.logger.Logf(log.LevelInfo, "default level set to %s", l)
	jsonhttp.OK(w, nil)
}

func (s *Service) loggersFlushHandler(w http.ResponseWriter, _ *http.Request) {
	if err := s.reg.FlushAll(); err != nil {
		s.logger.Logf(log.LevelError, "loggers flush: %v", err)
		jsonhttp.InternalServerError(w, "unable to flush loggers")
		return
	}
	jsonhttp.OK(w, nil)
}
