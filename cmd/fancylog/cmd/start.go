// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ethersphere/fancylog"
	"github.com/ethersphere/fancylog/pkg/log"
	"github.com/ethersphere/fancylog/pkg/node"
	"github.com/spf13/cobra"
)

func (c *command) initStartCmd() {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a process logging through the registry with an admin API",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if len(args) > 0 {
				return cmd.Help()
			}

			o, err := c.nodeOptions(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			n, err := node.NewNode(o)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return n.Run(ctx)
		},
		PreRunE: c.bindFlags,
	}

	c.setAllFlags(cmd)
	c.root.AddCommand(cmd)
}

func (c *command) setAllFlags(cmd *cobra.Command) {
	cmd.Flags().String(optionNameVerbosity, log.DefaultLevel.String(), "default log level: trace, debug, info, warning, error, critical, off")
	cmd.Flags().String(optionNameFormat, log.DefaultFormat, "default log format pattern")
	cmd.Flags().String(optionNameBackend, node.BackendWriter, fmt.Sprintf("log backend: %s", strings.Join(node.Backends, ", ")))
	cmd.Flags().String(optionNameStrategy, string(log.StrategyFancy), "logging strategy: fancy, legacy")
	cmd.Flags().StringSlice(optionNameLoggerLevel, nil, "initial level of a logger as key=level, repeatable")
	cmd.Flags().String(optionNameAdminAddr, "127.0.0.1:1636", "admin API listen address, empty to disable")
	cmd.Flags().Float64(optionNameAdminRateLimit, 0, "mutating admin requests per second, zero for no limit")
	cmd.Flags().Int(optionNameAdminRateBurst, 1, "burst of mutating admin requests")
	cmd.Flags().Duration(optionNameHeartbeat, time.Second, "interval of heartbeat entries, zero to disable")
}

func (c *command) nodeOptions(out io.Writer) (node.Options, error) {
	level, err := log.ParseLevel(c.config.GetString(optionNameVerbosity))
	if err != nil {
		return node.Options{}, fmt.Errorf("%s: %w", optionNameVerbosity, err)
	}

	strategy, err := log.ParseStrategy(c.config.GetString(optionNameStrategy))
	if err != nil {
		return node.Options{}, fmt.Errorf("%s: %w", optionNameStrategy, err)
	}

	loggerLevels, err := parseLoggerLevels(c.config.GetStringSlice(optionNameLoggerLevel))
	if err != nil {
		return node.Options{}, fmt.Errorf("%s: %w", optionNameLoggerLevel, err)
	}

	return node.Options{
		Level:        level,
		Format:       c.config.GetString(optionNameFormat),
		Backend:      c.config.GetString(optionNameBackend),
		Strategy:     strategy,
		LoggerLevels: loggerLevels,
		AdminAddr:    c.config.GetString(optionNameAdminAddr),
		RateLimit:    c.config.GetFloat64(optionNameAdminRateLimit),
		RateBurst:    c.config.GetInt(optionNameAdminRateBurst),
		Heartbeat:    c.config.GetDuration(optionNameHeartbeat),
		Version:      fancylog.Version,
		Output:       out,
	}, nil
}

// parseLoggerLevels parses key=level pairs. Entries may also be separated
// by commas within a single value, as when they come from the environment.
func parseLoggerLevels(values []string) ([]log.LoggerLevel, error) {
	var levels []log.LoggerLevel
	for _, value := range values {
		for _, pair := range strings.Split(value, ",") {
			pair = strings.TrimSpace(pair)
			if pair == "" {
				continue
			}
			i := strings.LastIndex(pair, "=")
			if i <= 0 {
				return nil, fmt.Errorf("invalid logger level %q, want key=level", pair)
			}
			l, err := log.ParseLevel(pair[i+1:])
			if err != nil {
				return nil, err
			}
			levels = append(levels, log.LoggerLevel{Name: pair[:i], Level: l})
		}
	}
	return levels, nil
}
