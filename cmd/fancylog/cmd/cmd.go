// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	optionNameVerbosity        = "verbosity"
	optionNameFormat           = "format"
	optionNameBackend          = "backend"
	optionNameStrategy         = "strategy"
	optionNameLoggerLevel      = "logger-level"
	optionNameAdminAddr        = "admin-addr"
	optionNameAdminRateLimit   = "admin-rate-limit"
	optionNameAdminRateBurst   = "admin-rate-burst"
	optionNameHeartbeat        = "heartbeat-interval"
	optionNameAPIAddr          = "api-addr"
	optionNameOutput           = "output"
	optionNameDefault          = "default"
	optionNameSkipVersionCheck = "skip-version-check"
)

type command struct {
	root    *cobra.Command
	config  *viper.Viper
	cfgFile string
	homeDir string
	fs      afero.Fs
}

type option func(*command)

func newCommand(opts ...option) (c *command, err error) {
	c = &command{
		root: &cobra.Command{
			Use:           "fancylog",
			Short:         "Keyed, runtime-adjustable logging",
			SilenceErrors: true,
			SilenceUsage:  true,
			PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
				return c.initConfig()
			},
		},
		fs: afero.NewOsFs(),
	}

	for _, o := range opts {
		o(c)
	}

	// Find home directory.
	if err := c.setHomeDir(); err != nil {
		return nil, err
	}

	c.initGlobalFlags()
	c.initStartCmd()
	c.initLoggersCmd()
	c.initSetLevelCmd()
	c.initFlushCmd()
	c.initVersionCmd()

	return c, nil
}

func (c *command) Execute() (err error) {
	return c.root.Execute()
}

// Execute parses command line arguments and runs appropriate functions.
func Execute() (err error) {
	c, err := newCommand()
	if err != nil {
		return err
	}
	return c.Execute()
}

func (c *command) initGlobalFlags() {
	globalFlags := c.root.PersistentFlags()
	globalFlags.StringVar(&c.cfgFile, "config", "", "config file (default is $HOME/.fancylog.yaml)")
}

func (c *command) initConfig() (err error) {
	config := viper.New()
	config.SetFs(c.fs)
	configName := ".fancylog"
	if c.cfgFile != "" {
		// Use config file from the flag.
		config.SetConfigFile(c.cfgFile)
	} else {
		// Search config in home directory with name ".fancylog" (without extension).
		config.AddConfigPath(c.homeDir)
		config.SetConfigName(configName)
	}

	// Environment
	config.SetEnvPrefix("fancylog")
	config.AutomaticEnv() // read in environment variables that match
	config.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	if c.homeDir != "" && c.cfgFile == "" {
		c.cfgFile = filepath.Join(c.homeDir, configName+".yaml")
	}

	// If a config file is found, read it in.
	if err := config.ReadInConfig(); err != nil {
		var e viper.ConfigFileNotFoundError
		if !errors.As(err, &e) {
			return err
		}
	}
	c.config = config
	return nil
}

func (c *command) setHomeDir() (err error) {
	if c.homeDir != "" {
		return
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	c.homeDir = dir
	return nil
}

func (c *command) bindFlags(cmd *cobra.Command, _ []string) error {
	return c.config.BindPFlags(cmd.Flags())
}

// WithCfgFile sets the config file path.
func WithCfgFile(f string) func(c *command) {
	return func(c *command) {
		c.cfgFile = f
	}
}

// WithHomeDir sets the directory searched for the default config file.
func WithHomeDir(dir string) func(c *command) {
	return func(c *command) {
		c.homeDir = dir
	}
}

// WithFs sets the filesystem config files are read from.
func WithFs(fs afero.Fs) func(c *command) {
	return func(c *command) {
		c.fs = fs
	}
}

// WithArgs sets the command line arguments.
func WithArgs(a ...string) func(c *command) {
	return func(c *command) {
		c.root.SetArgs(a)
	}
}

// WithInput sets the standard input of commands.
func WithInput(r io.Reader) func(c *command) {
	return func(c *command) {
		c.root.SetIn(r)
	}
}

// WithOutput sets the standard output of commands.
func WithOutput(w io.Writer) func(c *command) {
	return func(c *command) {
		c.root.SetOut(w)
	}
}

// WithErrorOutput sets the error output of commands.
func WithErrorOutput(w io.Writer) func(c *command) {
	return func(c *command) {
		c.root.SetErr(w)
	}
}
