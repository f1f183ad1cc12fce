// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

// ErrNotFound is returned when an operation names an unregistered logger.
var ErrNotFound = errors.New("logger not found")

// DefaultLevel is the level of new records when none is configured.
const DefaultLevel = LevelInfo

// Defaults holds the level and format pattern given to newly created records.
type Defaults struct {
	Level  Level
	Format string
}

// LoggerLevel is a snapshot of one registered logger.
type LoggerLevel struct {
	Name  string `json:"name" yaml:"name"`
	Level Level  `json:"level" yaml:"level"`
}

// Option configures a Registry.
type Option func(*Registry)

// WithBackend sets the backend shared by all records of the registry.
func WithBackend(b Backend) Option {
	return func(r *Registry) { r.backend = b }
}

// WithDefaults sets the initial default level and format.
func WithDefaults(d Defaults) Option {
	return func(r *Registry) {
		r.defaults = d
		if r.defaults.Format == "" {
			r.defaults.Format = DefaultFormat
		}
	}
}

// WithFaultHandler sets the function that receives backend failures.
// By default they are printed to stderr.
func WithFaultHandler(fn func(error)) Option {
	return func(r *Registry) { r.fault = fn }
}

// Registry is the central register of Record instances keyed by an
// identifier. Records are created on first use and never removed.
type Registry struct {
	mu sync.RWMutex

	loggers  map[string]*Record
	order    []*Record
	defaults Defaults
	backend  Backend
	// initialized reports whether the backend was set up.
	// It is guarded by mu and flips once, on first record creation.
	initialized bool

	fault   func(error)
	metrics metrics
}

// NewRegistry constructs an empty registry. Without options records are
// written to stderr at DefaultLevel using DefaultFormat.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		loggers:  make(map[string]*Record),
		defaults: Defaults{Level: DefaultLevel, Format: DefaultFormat},
		fault: func(err error) {
			fmt.Fprintf(os.Stderr, "log: %v\n", err)
		},
	}
	for _, o := range opts {
		o(r)
	}
	if r.backend == nil {
		r.backend = NewWriterBackend(os.Stderr)
	}
	r.metrics = newMetrics(r)
	return r
}

// LookupOrCreate returns the record registered under key, creating it with
// the current defaults if it does not exist yet. It never fails.
func (r *Registry) LookupOrCreate(key string) *Record {
	return r.lookupOrCreate(key, nil)
}

// LookupOrCreateLevel is like LookupOrCreate but a newly created record
// starts at level l instead of the default level. An existing record is
// returned unchanged.
func (r *Registry) LookupOrCreateLevel(key string, l Level) *Record {
	return r.lookupOrCreate(key, &l)
}

func (r *Registry) lookupOrCreate(key string, override *Level) *Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec, ok := r.loggers[key]; ok {
		r.metrics.SiteResolutions.WithLabelValues("medium").Inc()
		return rec
	}

	rec := r.newRecord(key, override)
	r.loggers[key] = rec
	r.order = append(r.order, rec)
	r.metrics.LoggersCreated.Inc()
	r.metrics.SiteResolutions.WithLabelValues("slow").Inc()
	return rec
}

// newRecord must be called with r.mu held for writing.
func (r *Registry) newRecord(key string, override *Level) *Record {
	if !r.initialized {
		r.initialized = true
		if in, ok := r.backend.(Initializer); ok {
			if err := in.Init(); err != nil {
				r.fault(fmt.Errorf("log: initialize backend: %w", err))
			}
		}
	}

	lvl := r.defaults.Level
	if override != nil {
		lvl = *override
	}
	rec := &Record{
		name:    key,
		backend: r.backend,
		fault:   r.fault,
	}
	rec.setLevel(lvl)
	rec.setPattern(r.defaults.Format)
	return rec
}

// Get returns the record registered under key.
func (r *Registry) Get(key string) (*Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.loggers[key]
	return rec, ok
}

// Len returns the number of registered records.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}

// SetLevel changes the level of the record registered under key.
// It reports false if no such record exists; unknown keys are not created.
func (r *Registry) SetLevel(key string, l Level) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.loggers[key]
	if !ok {
		return false
	}
	rec.setLevel(l)
	r.metrics.LevelUpdates.WithLabelValues("one").Inc()
	return true
}

// SetAllLevels changes the level of every registered record,
// including the ones that were individually customized.
func (r *Registry) SetAllLevels(l Level) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.order {
		rec.setLevel(l)
	}
	r.metrics.LevelUpdates.WithLabelValues("all").Inc()
}

// SetDefaultLevelAndFormat replaces the defaults used for new records.
// Existing records still at the previous default level move to the new
// level, and records still using the previous default format move to the
// new format. Customized records are left untouched.
func (r *Registry) SetDefaultLevelAndFormat(l Level, format string) {
	if format == "" {
		format = DefaultFormat
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	prev := r.defaults
	r.defaults = Defaults{Level: l, Format: format}
	for _, rec := range r.order {
		if rec.Level() == prev.Level {
			rec.setLevel(l)
		}
		if rec.Pattern() == prev.Format {
			rec.setPattern(format)
		}
	}
	r.metrics.LevelUpdates.WithLabelValues("default").Inc()
}

// Defaults returns the current defaults.
func (r *Registry) Defaults() Defaults {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.defaults
}

// List returns a snapshot of all records in registration order.
func (r *Registry) List() []LoggerLevel {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]LoggerLevel, 0, len(r.order))
	for _, rec := range r.order {
		list = append(list, LoggerLevel{Name: rec.name, Level: rec.Level()})
	}
	return list
}

// ListString renders List as one "  name: level" line per record.
func (r *Registry) ListString() string {
	var b strings.Builder
	for _, l := range r.List() {
		fmt.Fprintf(&b, "  %s: %s\n", l.Name, l.Level)
	}
	return b.String()
}

// Flush flushes the backend of the record registered under key.
func (r *Registry) Flush(key string) error {
	rec, ok := r.Get(key)
	if !ok {
		return fmt.Errorf("flush %q: %w", key, ErrNotFound)
	}
	return rec.Flush()
}

// FlushAll flushes the backend shared by all records.
func (r *Registry) FlushAll() error {
	if f, ok := r.backend.(Flusher); ok {
		return f.Flush()
	}
	return nil
}

// Emit resolves key without a call-site cache and writes msg at level l
// if the record's level allows it.
func (r *Registry) Emit(key string, l Level, msg string) {
	r.LookupOrCreate(key).Log(l, msg)
}
