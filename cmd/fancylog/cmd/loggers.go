// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/ethersphere/fancylog/pkg/log"
	"github.com/ethersphere/fancylog/pkg/logadmin"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

const (
	outputYAML = "yaml"
	outputJSON = "json"
	outputText = "text"
)

func (c *command) setClientFlags(cmd *cobra.Command) {
	cmd.Flags().String(optionNameAPIAddr, "http://127.0.0.1:1636", "admin API address of the running process")
	cmd.Flags().Bool(optionNameSkipVersionCheck, false, "do not check that the process runs a compatible version")
}

func (c *command) adminClient(ctx context.Context) (*adminClient, error) {
	client := newAdminClient(c.config.GetString(optionNameAPIAddr))
	if !c.config.GetBool(optionNameSkipVersionCheck) {
		if err := client.checkVersion(ctx); err != nil {
			return nil, err
		}
	}
	return client, nil
}

func (c *command) initLoggersCmd() {
	cmd := &cobra.Command{
		Use:   "loggers",
		Short: "List the loggers of a running process",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := c.adminClient(ctx)
			if err != nil {
				return err
			}

			var resp logadmin.LoggersResponse
			if err := client.do(ctx, http.MethodGet, "/loggers", nil, &resp); err != nil {
				return err
			}
			return printLoggers(cmd.OutOrStdout(), c.config.GetString(optionNameOutput), resp)
		},
		PreRunE: c.bindFlags,
	}

	c.setClientFlags(cmd)
	cmd.Flags().StringP(optionNameOutput, "o", outputYAML, "output format: yaml, json, text")
	c.root.AddCommand(cmd)
}

func printLoggers(w io.Writer, format string, resp logadmin.LoggersResponse) error {
	switch format {
	case outputYAML:
		out, err := yaml.Marshal(resp)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	case outputText:
		for _, l := range resp.Loggers {
			if _, err := fmt.Fprintf(w, "  %s: %s\n", l.Name, l.Level); err != nil {
				return err
			}
		}
		if resp.Legacy != nil {
			if _, err := fmt.Fprintf(w, "  legacy loggers: %s\n", *resp.Legacy); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unknown output format %q", format)
}

func (c *command) initSetLevelCmd() {
	cmd := &cobra.Command{
		Use:   "set-level <level> [logger]",
		Short: "Set the level of one or all loggers of a running process",
		Long: `Set the level of one or all loggers of a running process.

Without a logger name every registered logger is set, and so is the shared
level of the legacy loggers when the process runs the legacy strategy. With
--default the default level given to new loggers is changed, together with
the loggers which are still at the previous default.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := log.ParseLevel(args[0])
			if err != nil {
				return err
			}

			ctx := context.Background()
			client, err := c.adminClient(ctx)
			if err != nil {
				return err
			}

			query := url.Values{}
			path := "/loggers/" + l.String()
			switch {
			case c.config.GetBool(optionNameDefault):
				if len(args) > 1 {
					return fmt.Errorf("logger name %q not allowed with --%s", args[1], optionNameDefault)
				}
				path = "/loggers/default/" + l.String()
				if cmd.Flags().Changed(optionNameFormat) {
					query.Set("format", c.config.GetString(optionNameFormat))
				}
			case len(args) > 1:
				query.Set("name", args[1])
			}

			if err := client.do(ctx, http.MethodPut, path, query, nil); err != nil {
				return err
			}

			switch {
			case c.config.GetBool(optionNameDefault):
				cmd.Printf("default level set to %s\n", l)
			case len(args) > 1:
				cmd.Printf("logger %s set to %s\n", args[1], l)
			default:
				cmd.Printf("all loggers set to %s\n", l)
			}
			return nil
		},
		PreRunE: c.bindFlags,
	}

	c.setClientFlags(cmd)
	cmd.Flags().Bool(optionNameDefault, false, "change the default level instead of registered loggers")
	cmd.Flags().String(optionNameFormat, "", "new default format pattern, only with --default")
	c.root.AddCommand(cmd)
}

func (c *command) initFlushCmd() {
	cmd := &cobra.Command{
		Use:   "flush",
		Short: "Flush the log output of a running process",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := c.adminClient(ctx)
			if err != nil {
				return err
			}
			if err := client.do(ctx, http.MethodPost, "/loggers/flush", nil, nil); err != nil {
				return err
			}
			cmd.Println("flushed")
			return nil
		},
		PreRunE: c.bindFlags,
	}

	c.setClientFlags(cmd)
	c.root.AddCommand(cmd)
}
