// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// recorder is a Backend which keeps all entries in memory.
type recorder struct {
	mu      sync.Mutex
	entries []Entry
	inits   int
	flushes int
	err     error
}

func (r *recorder) Init() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inits++
	return nil
}

func (r *recorder) Log(e Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return r.err
}

func (r *recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flushes++
	return nil
}

func (r *recorder) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var msgs []string
	for _, e := range r.entries {
		msgs = append(msgs, e.Message)
	}
	return msgs
}

func newTestRegistry(t *testing.T, opts ...Option) (*Registry, *recorder) {
	t.Helper()

	rec := new(recorder)
	opts = append([]Option{WithBackend(rec)}, opts...)
	return NewRegistry(opts...), rec
}

func TestRegistryLookupOrCreate(t *testing.T) {
	reg, backend := newTestRegistry(t, WithDefaults(Defaults{Level: LevelWarn, Format: "%v"}))

	a := reg.LookupOrCreate("a")
	if a.Name() != "a" {
		t.Errorf("name: want %q, have %q", "a", a.Name())
	}
	if a.Level() != LevelWarn {
		t.Errorf("level: want %s, have %s", LevelWarn, a.Level())
	}
	if a.Pattern() != "%v" {
		t.Errorf("pattern: want %q, have %q", "%v", a.Pattern())
	}
	if reg.LookupOrCreate("a") != a {
		t.Error("second lookup returned a different record")
	}

	b := reg.LookupOrCreateLevel("b", LevelTrace)
	if b.Level() != LevelTrace {
		t.Errorf("override level: want %s, have %s", LevelTrace, b.Level())
	}
	if got := reg.LookupOrCreateLevel("b", LevelError); got != b || got.Level() != LevelTrace {
		t.Errorf("existing record must be returned unchanged, have level %s", got.Level())
	}

	if reg.Len() != 2 {
		t.Errorf("len: want 2, have %d", reg.Len())
	}
	if backend.inits != 1 {
		t.Errorf("backend initialized %d times, want once", backend.inits)
	}
}

func TestRegistrySingleCreationUnderRace(t *testing.T) {
	reg, backend := newTestRegistry(t)

	const n = 64
	var (
		start   = make(chan struct{})
		wg      sync.WaitGroup
		records = make([]*Record, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			records[i] = reg.NewSite("race").Record()
		}(i)
	}
	close(start)
	wg.Wait()

	for i, r := range records {
		if r != records[0] {
			t.Fatalf("goroutine %d resolved a different record", i)
		}
	}
	if reg.Len() != 1 {
		t.Errorf("len: want 1, have %d", reg.Len())
	}
	if have := testutil.ToFloat64(reg.metrics.LoggersCreated); have != 1 {
		t.Errorf("created: want 1, have %v", have)
	}
	if backend.inits != 1 {
		t.Errorf("backend initialized %d times, want once", backend.inits)
	}
}

func TestSiteSharedResolutionUnderRace(t *testing.T) {
	reg, _ := newTestRegistry(t)
	site := reg.NewSite("shared")

	const n = 64
	var (
		start   = make(chan struct{})
		wg      sync.WaitGroup
		records = make([]*Record, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			if i%8 == 0 {
				reg.SetDefaultLevelAndFormat(Level(i/8%int(LevelOff)), "")
			}
			records[i] = site.Record()
			records[i].Enabled(LevelInfo)
		}(i)
	}
	close(start)
	wg.Wait()

	for i, r := range records {
		if r != records[0] {
			t.Fatalf("goroutine %d resolved a different record", i)
		}
	}
	if site.Record() != records[0] {
		t.Error("cached record changed after resolution")
	}
	if reg.Len() != 1 {
		t.Errorf("len: want 1, have %d", reg.Len())
	}
	if have := testutil.ToFloat64(reg.metrics.LoggersCreated); have != 1 {
		t.Errorf("created: want 1, have %v", have)
	}
}

func TestRegistrySetLevel(t *testing.T) {
	reg, _ := newTestRegistry(t)
	reg.LookupOrCreate("a")
	reg.LookupOrCreate("b")

	if !reg.SetLevel("a", LevelError) {
		t.Fatal("SetLevel(a): want found")
	}

	want := []LoggerLevel{{"a", LevelError}, {"b", DefaultLevel}}
	if diff := cmp.Diff(want, reg.List()); diff != "" {
		t.Errorf("list mismatch (-want +have):\n%s", diff)
	}
}

func TestRegistrySetLevelUnknownKey(t *testing.T) {
	reg, _ := newTestRegistry(t)
	reg.LookupOrCreate("a")

	if reg.SetLevel("missing", LevelInfo) {
		t.Error("SetLevel(missing): want not found")
	}
	if _, ok := reg.Get("missing"); ok {
		t.Error("unknown key must not be created")
	}
	if reg.Len() != 1 {
		t.Errorf("len: want 1, have %d", reg.Len())
	}
}

func TestRegistrySetAllLevels(t *testing.T) {
	reg, _ := newTestRegistry(t)
	reg.LookupOrCreate("a")
	reg.LookupOrCreateLevel("b", LevelCritical)
	reg.LookupOrCreate("c")
	reg.SetLevel("c", LevelTrace)

	reg.SetAllLevels(LevelDebug)

	want := []LoggerLevel{{"a", LevelDebug}, {"b", LevelDebug}, {"c", LevelDebug}}
	if diff := cmp.Diff(want, reg.List()); diff != "" {
		t.Errorf("list mismatch (-want +have):\n%s", diff)
	}
	if d := reg.Defaults(); d.Level != DefaultLevel {
		t.Errorf("SetAllLevels must not change the default level, have %s", d.Level)
	}
}

func TestRegistrySetDefaultLevelAndFormat(t *testing.T) {
	reg, _ := newTestRegistry(t)
	x := reg.LookupOrCreate("x")
	y := reg.LookupOrCreate("y")
	reg.SetLevel("y", LevelError)

	reg.SetDefaultLevelAndFormat(LevelDebug, "%l %v")

	if x.Level() != LevelDebug {
		t.Errorf("x: want %s, have %s", LevelDebug, x.Level())
	}
	if y.Level() != LevelError {
		t.Errorf("y: want %s, have %s", LevelError, y.Level())
	}
	if x.Pattern() != "%l %v" {
		t.Errorf("x pattern: want %q, have %q", "%l %v", x.Pattern())
	}

	z := reg.LookupOrCreate("z")
	if z.Level() != LevelDebug || z.Pattern() != "%l %v" {
		t.Errorf("new record: want debug %q, have %s %q", "%l %v", z.Level(), z.Pattern())
	}

	want := Defaults{Level: LevelDebug, Format: "%l %v"}
	if diff := cmp.Diff(want, reg.Defaults()); diff != "" {
		t.Errorf("defaults mismatch (-want +have):\n%s", diff)
	}

	t.Run("empty format selects the default format", func(t *testing.T) {
		reg.SetDefaultLevelAndFormat(LevelInfo, "")
		if have := reg.Defaults().Format; have != DefaultFormat {
			t.Errorf("want %q, have %q", DefaultFormat, have)
		}
		if x.Pattern() != DefaultFormat {
			t.Errorf("x pattern: want %q, have %q", DefaultFormat, x.Pattern())
		}
	})
}

func TestRegistryEmitEndToEnd(t *testing.T) {
	reg, backend := newTestRegistry(t)

	if reg.Len() != 0 {
		t.Fatalf("want empty registry, have %d records", reg.Len())
	}

	reg.Emit("f.cc", LevelInfo, "hello")
	want := []LoggerLevel{{"f.cc", DefaultLevel}}
	if diff := cmp.Diff(want, reg.List()); diff != "" {
		t.Errorf("list mismatch (-want +have):\n%s", diff)
	}

	if !reg.SetLevel("f.cc", LevelError) {
		t.Fatal("SetLevel(f.cc): want found")
	}
	reg.Emit("f.cc", LevelInfo, "suppressed")
	reg.Emit("f.cc", LevelError, "shown")

	if diff := cmp.Diff([]string{"hello", "shown"}, backend.messages()); diff != "" {
		t.Errorf("messages mismatch (-want +have):\n%s", diff)
	}
}

func TestRegistryListString(t *testing.T) {
	reg, _ := newTestRegistry(t)
	reg.LookupOrCreate("a.go")
	reg.LookupOrCreateLevel("b.go", LevelTrace)

	want := "  a.go: info\n  b.go: trace\n"
	if have := reg.ListString(); have != want {
		t.Errorf("\nwant %q\nhave %q", want, have)
	}
}

func TestRegistryFlush(t *testing.T) {
	reg, backend := newTestRegistry(t)
	reg.LookupOrCreate("a")

	if err := reg.Flush("a"); err != nil {
		t.Fatalf("Flush(a): %v", err)
	}
	if err := reg.Flush("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Flush(missing): want %v, have %v", ErrNotFound, err)
	}
	if err := reg.FlushAll(); err != nil {
		t.Fatalf("FlushAll: %v", err)
	}
	if backend.flushes != 2 {
		t.Errorf("flushes: want 2, have %d", backend.flushes)
	}
}

func TestRegistryFaultHandler(t *testing.T) {
	var faults []error
	reg, backend := newTestRegistry(t, WithFaultHandler(func(err error) {
		faults = append(faults, err)
	}))
	errWrite := errors.New("disk full")
	backend.err = errWrite

	reg.Emit("a", LevelError, "msg")

	if len(faults) != 1 {
		t.Fatalf("want 1 fault, have %d", len(faults))
	}
	if !errors.Is(faults[0], errWrite) {
		t.Errorf("fault: want wrapped %v, have %v", errWrite, faults[0])
	}
}

func TestRegistryMetrics(t *testing.T) {
	reg, _ := newTestRegistry(t)

	s1 := reg.NewSite("k")
	s2 := reg.NewSite("k")
	s3 := reg.NewSite("k")
	for i := 0; i < 3; i++ {
		s1.Info("msg")
		s2.Info("msg")
		s3.Info("msg")
	}
	reg.SetLevel("k", LevelWarn)
	reg.SetAllLevels(LevelWarn)
	reg.SetDefaultLevelAndFormat(LevelWarn, "")

	for _, tc := range []struct {
		name string
		have float64
		want float64
	}{
		{"created", testutil.ToFloat64(reg.metrics.LoggersCreated), 1},
		{"slow", testutil.ToFloat64(reg.metrics.SiteResolutions.WithLabelValues("slow")), 1},
		{"medium", testutil.ToFloat64(reg.metrics.SiteResolutions.WithLabelValues("medium")), 2},
		{"updates one", testutil.ToFloat64(reg.metrics.LevelUpdates.WithLabelValues("one")), 1},
		{"updates all", testutil.ToFloat64(reg.metrics.LevelUpdates.WithLabelValues("all")), 1},
		{"updates default", testutil.ToFloat64(reg.metrics.LevelUpdates.WithLabelValues("default")), 1},
		{"registered", testutil.ToFloat64(reg.metrics.RegisteredLoggers), 1},
	} {
		if tc.have != tc.want {
			t.Errorf("%s: want %v, have %v", tc.name, tc.want, tc.have)
		}
	}

	if have := len(reg.Metrics()); have != 4 {
		t.Errorf("collectors: want 4, have %d", have)
	}
}
