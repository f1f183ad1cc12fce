// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logadmin_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethersphere/fancylog/pkg/jsonhttp"
	"github.com/ethersphere/fancylog/pkg/log"
	"github.com/ethersphere/fancylog/pkg/logadmin"
	"github.com/go-logr/logr"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/time/rate"
)

type flushFailure struct{}

func (flushFailure) Log(log.Entry) error { return nil }
func (flushFailure) Flush() error        { return errors.New("disk full") }

func newTestServer(t *testing.T, reg *log.Registry, o logadmin.Options) *httptest.Server {
	t.Helper()

	logger := log.NewRegistry(log.WithBackend(log.NewWriterBackend(io.Discard))).NewSite("admin")
	ts := httptest.NewServer(logadmin.New(reg, logger, o))
	t.Cleanup(ts.Close)
	return ts
}

// request sends a request and decodes the response body into v when v is
// not nil.
func request(t *testing.T, ts *httptest.Server, method, url string, wantCode int, v interface{}) http.Header {
	t.Helper()

	req, err := http.NewRequest(method, ts.URL+url, nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantCode {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("%s %s: want status %d, have %d: %s", method, url, wantCode, resp.StatusCode, body)
	}
	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("%s %s: decode: %v", method, url, err)
		}
	}
	return resp.Header
}

func newRegistry() *log.Registry {
	return log.NewRegistry(log.WithBackend(log.NewWriterBackend(io.Discard)))
}

func TestLoggersGet(t *testing.T) {
	reg := newRegistry()
	ts := newTestServer(t, reg, logadmin.Options{})

	var have logadmin.LoggersResponse
	request(t, ts, http.MethodGet, "/loggers", http.StatusOK, &have)
	want := logadmin.LoggersResponse{
		Loggers:  []log.LoggerLevel{},
		Defaults: logadmin.DefaultsResponse{Level: log.LevelInfo, Format: log.DefaultFormat},
	}
	if diff := cmp.Diff(want, have); diff != "" {
		t.Errorf("response mismatch (-want +have):\n%s", diff)
	}

	reg.LookupOrCreate("a.go")
	reg.LookupOrCreateLevel("b.go", log.LevelTrace)

	request(t, ts, http.MethodGet, "/loggers", http.StatusOK, &have)
	wantLoggers := []log.LoggerLevel{{Name: "a.go", Level: log.LevelInfo}, {Name: "b.go", Level: log.LevelTrace}}
	if diff := cmp.Diff(wantLoggers, have.Loggers); diff != "" {
		t.Errorf("loggers mismatch (-want +have):\n%s", diff)
	}
}

func TestLoggersPut(t *testing.T) {
	reg := newRegistry()
	reg.LookupOrCreate("a.go")
	reg.LookupOrCreate("b.go")
	ts := newTestServer(t, reg, logadmin.Options{})

	t.Run("one", func(t *testing.T) {
		request(t, ts, http.MethodPut, "/loggers/debug?name=a.go", http.StatusOK, nil)

		want := []log.LoggerLevel{{Name: "a.go", Level: log.LevelDebug}, {Name: "b.go", Level: log.LevelInfo}}
		if diff := cmp.Diff(want, reg.List()); diff != "" {
			t.Errorf("list mismatch (-want +have):\n%s", diff)
		}
	})

	t.Run("unknown name", func(t *testing.T) {
		var have jsonhttp.StatusResponse
		request(t, ts, http.MethodPut, "/loggers/debug?name=missing.go", http.StatusNotFound, &have)

		want := jsonhttp.StatusResponse{Message: log.ErrNotFound.Error(), Code: http.StatusNotFound}
		if diff := cmp.Diff(want, have); diff != "" {
			t.Errorf("response mismatch (-want +have):\n%s", diff)
		}
		if _, ok := reg.Get("missing.go"); ok {
			t.Error("unknown logger must not be created")
		}
	})

	t.Run("invalid level", func(t *testing.T) {
		var have jsonhttp.StatusResponse
		request(t, ts, http.MethodPut, "/loggers/loud", http.StatusBadRequest, &have)
		if !strings.Contains(have.Message, "invalid log level") {
			t.Errorf("unexpected message %q", have.Message)
		}
	})

	t.Run("all", func(t *testing.T) {
		request(t, ts, http.MethodPut, "/loggers/error", http.StatusOK, nil)

		want := []log.LoggerLevel{{Name: "a.go", Level: log.LevelError}, {Name: "b.go", Level: log.LevelError}}
		if diff := cmp.Diff(want, reg.List()); diff != "" {
			t.Errorf("list mismatch (-want +have):\n%s", diff)
		}
	})
}

func TestLoggersPutLegacy(t *testing.T) {
	reg := newRegistry()
	reg.LookupOrCreate("a.go")
	legacy := log.NewLegacyFacade(logr.Discard(), log.LevelDebug)
	ts := newTestServer(t, reg, logadmin.Options{Legacy: legacy})

	var have logadmin.LoggersResponse
	request(t, ts, http.MethodGet, "/loggers", http.StatusOK, &have)
	if have.Legacy == nil || *have.Legacy != log.LevelDebug {
		t.Fatalf("legacy level: want %s, have %v", log.LevelDebug, have.Legacy)
	}

	request(t, ts, http.MethodPut, "/loggers/debug?name=a.go", http.StatusOK, nil)
	if legacy.Level() != log.LevelDebug {
		t.Errorf("setting one logger must leave the legacy level, have %s", legacy.Level())
	}

	request(t, ts, http.MethodPut, "/loggers/error", http.StatusOK, nil)
	if legacy.Level() != log.LevelError {
		t.Errorf("legacy level: want %s, have %s", log.LevelError, legacy.Level())
	}
	if rec, _ := reg.Get("a.go"); rec.Level() != log.LevelError {
		t.Errorf("a.go: want %s, have %s", log.LevelError, rec.Level())
	}
	if legacy.Emitter("upstream").Enabled(log.LevelWarn) {
		t.Error("legacy warnings must be suppressed at error level")
	}

	request(t, ts, http.MethodGet, "/loggers", http.StatusOK, &have)
	if have.Legacy == nil || *have.Legacy != log.LevelError {
		t.Errorf("legacy level: want %s, have %v", log.LevelError, have.Legacy)
	}
}

func TestLoggersDefaultPut(t *testing.T) {
	reg := newRegistry()
	x := reg.LookupOrCreate("x.go")
	y := reg.LookupOrCreate("y.go")
	reg.SetLevel("y.go", log.LevelError)
	ts := newTestServer(t, reg, logadmin.Options{})

	request(t, ts, http.MethodPut, "/loggers/default/trace?format=%25l+%25v", http.StatusOK, nil)

	if x.Level() != log.LevelTrace || x.Pattern() != "%l %v" {
		t.Errorf("x.go: want trace %q, have %s %q", "%l %v", x.Level(), x.Pattern())
	}
	if y.Level() != log.LevelError {
		t.Errorf("y.go: want %s, have %s", log.LevelError, y.Level())
	}

	request(t, ts, http.MethodPut, "/loggers/default/warning", http.StatusOK, nil)
	want := log.Defaults{Level: log.LevelWarn, Format: "%l %v"}
	if diff := cmp.Diff(want, reg.Defaults()); diff != "" {
		t.Errorf("defaults mismatch (-want +have):\n%s", diff)
	}

	request(t, ts, http.MethodPut, "/loggers/default/sometimes", http.StatusBadRequest, nil)
}

func TestLoggersFlush(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		ts := newTestServer(t, newRegistry(), logadmin.Options{})
		request(t, ts, http.MethodPost, "/loggers/flush", http.StatusOK, nil)
	})
	t.Run("backend failure", func(t *testing.T) {
		reg := log.NewRegistry(log.WithBackend(flushFailure{}))
		ts := newTestServer(t, reg, logadmin.Options{})
		request(t, ts, http.MethodPost, "/loggers/flush", http.StatusInternalServerError, nil)
	})
	t.Run("method not allowed", func(t *testing.T) {
		ts := newTestServer(t, newRegistry(), logadmin.Options{})
		request(t, ts, http.MethodGet, "/loggers/flush", http.StatusMethodNotAllowed, nil)
	})
}

func TestRateLimit(t *testing.T) {
	reg := newRegistry()
	ts := newTestServer(t, reg, logadmin.Options{RateLimit: rate.Every(time.Hour), Burst: 1})

	request(t, ts, http.MethodPut, "/loggers/debug", http.StatusOK, nil)
	request(t, ts, http.MethodPut, "/loggers/info", http.StatusTooManyRequests, nil)
	request(t, ts, http.MethodGet, "/loggers", http.StatusOK, nil)
}

func TestHealthAndRequestID(t *testing.T) {
	ts := newTestServer(t, newRegistry(), logadmin.Options{Version: "1.2.3"})

	var have logadmin.HealthResponse
	header := request(t, ts, http.MethodGet, "/health", http.StatusOK, &have)
	if diff := cmp.Diff(logadmin.HealthResponse{Status: "ok", Version: "1.2.3"}, have); diff != "" {
		t.Errorf("response mismatch (-want +have):\n%s", diff)
	}
	if header.Get(logadmin.RequestIDHeader) == "" {
		t.Error("want a generated request id")
	}

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/health", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set(logadmin.RequestIDHeader, "abc")
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if have := resp.Header.Get(logadmin.RequestIDHeader); have != "abc" {
		t.Errorf("request id: want %q, have %q", "abc", have)
	}
}

func TestNotFound(t *testing.T) {
	ts := newTestServer(t, newRegistry(), logadmin.Options{})
	request(t, ts, http.MethodGet, "/nope", http.StatusNotFound, nil)
}

func TestMetrics(t *testing.T) {
	reg := newRegistry()
	reg.LookupOrCreate("a.go")
	ts := newTestServer(t, reg, logadmin.Options{})

	request(t, ts, http.MethodGet, "/loggers", http.StatusOK, nil)

	resp, err := ts.Client().Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"fancylog_registry_loggers_created_total 1",
		"fancylog_registry_loggers 1",
		`fancylog_admin_requests_total{code="200",method="get"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics: want %q", want)
		}
	}
}
