// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/JerwuQu/alines-multi/broker"
	"github.com/JerwuQu/alines-multi/cmd/alines/cli"
	"github.com/JerwuQu/alines-multi/lib/config"
	"github.com/JerwuQu/alines-multi/lib/version"
	"github.com/JerwuQu/alines-multi/protocol"
)

// PasswordEnvVar supplies the password when no flag gives one, keeping
// it out of the process list.
const PasswordEnvVar = "ALINES_PASSWORD"

// serverOptions holds the server flags. flagSet is kept so that only
// flags given on the command line override the configuration file.
type serverOptions struct {
	flagSet *pflag.FlagSet

	configPath   string
	port         int
	password     string
	socketDir    string
	pollInterval time.Duration
	logLevel     string
}

func (options *serverOptions) flags() *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("server", pflag.ContinueOnError)
	flagSet.StringVar(&options.configPath, "config", "", "configuration file (YAML or JSONC; default $"+config.EnvVar+")")
	flagSet.IntVarP(&options.port, "port", "p", protocol.DefaultPort, "TCP port for UIs")
	flagSet.StringVarP(&options.password, "password", "P", "", "password UIs must send (default $"+PasswordEnvVar+", else empty)")
	flagSet.StringVar(&options.socketDir, "socket-dir", "", "directory for per-session menu sockets (default system temp)")
	flagSet.DurationVar(&options.pollInterval, "poll-interval", broker.DefaultPollInterval, "how often to check that the program is alive")
	flagSet.StringVar(&options.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	// Everything after the program name belongs to the program.
	flagSet.SetInterspersed(false)
	options.flagSet = flagSet
	return flagSet
}

// resolve layers the configuration file, the environment, flags and
// the positional program over the defaults, in that order.
func (options *serverOptions) resolve(args []string) (*config.Config, error) {
	cfg, err := config.Load(options.configPath)
	if err != nil {
		return nil, err
	}

	if password, ok := os.LookupEnv(PasswordEnvVar); ok {
		cfg.Password = password
	}
	changed := options.flagSet.Changed
	if changed("port") {
		cfg.Port = options.port
	}
	if changed("password") {
		cfg.Password = options.password
	}
	if changed("socket-dir") {
		cfg.SocketDir = options.socketDir
	}
	if changed("poll-interval") {
		cfg.PollInterval = config.Duration(options.pollInterval)
	}
	if changed("log-level") {
		cfg.LogLevel = options.logLevel
	}
	if len(args) > 0 {
		cfg.Program = args
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func serverCommand() *cli.Command {
	var options serverOptions
	return &cli.Command{
		Name:    "server",
		Summary: "Accept UIs and run a program for each",
		Description: `Listen for UI connections. Every UI that sends the right password
gets its own copy of the program, started with ` + protocol.SocketEnvVar + `
pointing at a private socket. Menus the program asks for with
"alines menu" are shown on that UI; the session ends when either the
program or the UI goes away.

The program comes from the command line or the configuration file.
Flags override the file.`,
		Usage: "alines server [flags] <program> [args...]",
		Examples: []cli.Example{
			{
				Description: "Serve a menu script to UIs on the default port",
				Command:     "alines server -P secret ./power-menu.sh",
			},
			{
				Description: "Use a configuration file",
				Command:     "alines server --config /etc/alines.yaml",
			},
		},
		Flags: options.flags,
		Run: func(args []string) error {
			cfg, err := options.resolve(args)
			if err != nil {
				return err
			}
			level, err := cfg.Level()
			if err != nil {
				return err
			}
			logger := cli.NewCommandLogger(level).With("command", "server")

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("starting alines server",
				"version", version.Info(),
				"port", cfg.Port,
				"program", cfg.Program,
				"password_set", cfg.Password != "",
			)

			server := broker.NewServer(broker.SessionConfig{
				Password:     cfg.Password,
				Program:      cfg.Program,
				SocketDir:    cfg.SocketDir,
				PollInterval: time.Duration(cfg.PollInterval),
			}, logger)

			err = server.ListenAndServe(ctx, cfg.Port)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("server stopped", "error", err)
				return fmt.Errorf("server: %w", err)
			}
			logger.Info("server stopped")
			return nil
		},
	}
}
