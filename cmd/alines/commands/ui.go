// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/JerwuQu/alines-multi/cmd/alines/cli"
	"github.com/JerwuQu/alines-multi/protocol"
	"github.com/JerwuQu/alines-multi/ui"
)

type uiOptions struct {
	address        string
	password       string
	promptPassword bool
	logLevel       string
}

func (options *uiOptions) flags() *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("ui", pflag.ContinueOnError)
	flagSet.StringVarP(&options.address, "address", "a",
		net.JoinHostPort("localhost", strconv.Itoa(protocol.DefaultPort)), "server address (host:port)")
	flagSet.StringVarP(&options.password, "password", "P", "", "server password (default $"+PasswordEnvVar+")")
	flagSet.BoolVar(&options.promptPassword, "ask-password", false, "prompt for the password on the terminal")
	flagSet.StringVar(&options.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	return flagSet
}

func (options *uiOptions) resolvePassword() (string, error) {
	if options.promptPassword {
		return cli.ReadPassword("Password: ")
	}
	if options.password != "" {
		return options.password, nil
	}
	return os.Getenv(PasswordEnvVar), nil
}

func uiCommand() *cli.Command {
	var options uiOptions
	return &cli.Command{
		Name:    "ui",
		Summary: "Connect to a server and answer its menus",
		Description: `Connect to an alines server and show every menu its program asks for
as a full-screen picker. Type to filter, Enter to select, Tab to mark
entries in a multi-select menu, Ctrl-O to answer with the typed text
where allowed, Esc to answer with nothing.`,
		Usage: "alines ui [--address host:port] [-P password]",
		Examples: []cli.Example{
			{
				Description: "Connect to a server on another machine",
				Command:     "alines ui --address desktop:64937 --ask-password",
			},
		},
		Flags: options.flags,
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument %q", args[0])
			}
			var level slog.Level
			if err := level.UnmarshalText([]byte(options.logLevel)); err != nil {
				return fmt.Errorf("invalid --log-level %q", options.logLevel)
			}
			logger := cli.NewCommandLogger(level).With("command", "ui")

			password, err := options.resolvePassword()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			client, err := ui.Dial(ctx, options.address, logger)
			if err != nil {
				return err
			}
			if err := client.Authenticate(password); err != nil {
				client.Close()
				return err
			}

			err = client.Run(ctx, &ui.TerminalPicker{})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			if reason, ok := ui.IsDisconnect(err); ok {
				fmt.Fprintf(os.Stderr, "disconnected: %s\n", reason)
				if reason == protocol.ReasonProgramExited {
					return nil
				}
				return &cli.ExitError{Code: 1}
			}
			return err
		},
	}
}
