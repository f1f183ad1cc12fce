// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package node assembles a process around a log.Registry: the configured
// backend and facade, the admin API server and a heartbeat loop which keeps
// emitting entries so that level changes are observable.
package node

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/ethersphere/fancylog/pkg/log"
	"github.com/ethersphere/fancylog/pkg/logadmin"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// HeartbeatKey is the identifier the heartbeat loop logs under.
const HeartbeatKey = "main"

// Options holds the node configuration.
type Options struct {
	Level        log.Level
	Format       string
	Backend      string
	Strategy     log.Strategy
	LoggerLevels []log.LoggerLevel
	AdminAddr    string
	RateLimit    float64
	RateBurst    int
	Heartbeat    time.Duration
	Version      string
	Output       io.Writer
}

// Node is a running process with an admin API.
type Node struct {
	registry  *log.Registry
	facade    log.Facade
	logger    log.Emitter
	heartbeat time.Duration

	adminServer   *http.Server
	adminListener net.Listener
}

// NewNode builds the registry, facade and admin server described by o and
// starts listening on the admin address.
func NewNode(o Options) (*Node, error) {
	if o.Output == nil {
		return nil, errors.New("output not set")
	}
	if o.Strategy == "" {
		o.Strategy = log.StrategyFancy
	}

	b, base, err := NewBackend(o.Backend, o.Output)
	if err != nil {
		return nil, err
	}

	registry := log.NewRegistry(
		log.WithBackend(b),
		log.WithDefaults(log.Defaults{Level: o.Level, Format: o.Format}),
	)
	for _, ll := range o.LoggerLevels {
		registry.LookupOrCreateLevel(ll.Name, ll.Level)
	}

	var (
		facade log.Facade
		legacy logadmin.LevelSetter
	)
	switch o.Strategy {
	case log.StrategyFancy:
		facade = log.NewFancyFacade(registry)
	case log.StrategyLegacy:
		lf := log.NewLegacyFacade(base, o.Level)
		facade, legacy = lf, lf
	default:
		return nil, fmt.Errorf("unknown logging strategy %q", o.Strategy)
	}

	n := &Node{
		registry:  registry,
		facade:    facade,
		logger:    facade.Emitter("admin"),
		heartbeat: o.Heartbeat,
	}

	if o.AdminAddr != "" {
		ln, err := net.Listen("tcp", o.AdminAddr)
		if err != nil {
			return nil, fmt.Errorf("admin listener: %w", err)
		}
		n.adminListener = ln
		n.adminServer = &http.Server{
			Handler: logadmin.New(registry, n.logger, logadmin.Options{
				Version:   o.Version,
				RateLimit: rate.Limit(o.RateLimit),
				Burst:     o.RateBurst,
				Legacy:    legacy,
			}),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	return n, nil
}

// Registry returns the registry of the node.
func (n *Node) Registry() *log.Registry { return n.registry }

// AdminAddr returns the address the admin API listens on, or an empty string.
func (n *Node) AdminAddr() string {
	if n.adminListener == nil {
		return ""
	}
	return n.adminListener.Addr().String()
}

// Run serves the admin API and runs the heartbeat loop until ctx is done.
// Buffered output is flushed on return.
func (n *Node) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		return nil
	})

	if n.adminServer != nil {
		n.logger.Logf(log.LevelInfo, "admin api address: %s", n.AdminAddr())
		g.Go(func() error {
			if err := n.adminServer.Serve(n.adminListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("admin server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return n.adminServer.Shutdown(shutdownCtx)
		})
	}

	if n.heartbeat > 0 {
		g.Go(func() error {
			n.runHeartbeat(ctx)
			return nil
		})
	}

	err := g.Wait()
	if ferr := n.registry.FlushAll(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

func (n *Node) runHeartbeat(ctx context.Context) {
	logger := n.facade.Emitter(HeartbeatKey)
	ticker := time.NewTicker(n.heartbeat)
	defer ticker.Stop()

	var beats uint64
	for {
		select {
		case <-ctx.Done():
			logger.Logf(log.LevelInfo, "heartbeat stopped after %d beats", beats)
			return
		case <-ticker.C:
			beats++
			logger.Logf(log.LevelDebug, "heartbeat %d", beats)
			if logger.Enabled(log.LevelTrace) {
				logger.Logf(log.LevelTrace, "heartbeat %d: %d loggers registered", beats, n.registry.Len())
			}
		}
	}
}
