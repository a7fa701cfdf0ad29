// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/JerwuQu/alines-multi/cmd/alines/cli"
	"github.com/JerwuQu/alines-multi/menuer"
	"github.com/JerwuQu/alines-multi/protocol"
)

type menuOptions struct {
	title        string
	printIndices bool
	multi        bool
	custom       bool
	preselected  uint16
}

func (options *menuOptions) flags() *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("menu", pflag.ContinueOnError)
	flagSet.StringVarP(&options.title, "title", "t", "menu", "menu title")
	flagSet.BoolVarP(&options.printIndices, "index", "i", false, "print selected indices instead of entries")
	flagSet.BoolVarP(&options.multi, "multi", "m", false, "allow selecting several entries")
	flagSet.BoolVarP(&options.custom, "custom", "c", false, "allow answering with typed text")
	flagSet.Uint16VarP(&options.preselected, "selected", "s", 0, "index of the entry under the cursor initially")
	return flagSet
}

func (options *menuOptions) request(entries []string) protocol.MenuRequest {
	var flags protocol.Flags
	if options.multi {
		flags |= protocol.FlagMulti
	}
	if options.custom {
		flags |= protocol.FlagCustom
	}
	return protocol.MenuRequest{
		Flags:       flags,
		Title:       options.title,
		Entries:     entries,
		Preselected: options.preselected,
	}
}

// run reads entries from stdin, asks the broker and prints the answer.
// No selection is an *cli.ExitError with code 1 and no output.
func (options *menuOptions) run(ctx context.Context, socketPath string, stdin io.Reader, stdout io.Writer) error {
	if options.printIndices && options.custom {
		return errors.New("-i (print indices) and -c (custom entry) cannot be used together")
	}

	entries, err := menuer.ReadEntries(stdin)
	if err != nil {
		return err
	}

	selection, err := menuer.Request(ctx, socketPath, options.request(entries))
	if err != nil {
		return err
	}
	if selection.Kind == protocol.NoSelection {
		return &cli.ExitError{Code: 1}
	}
	return menuer.Render(stdout, entries, selection, options.printIndices)
}

func menuCommand() *cli.Command {
	var options menuOptions
	return &cli.Command{
		Name:    "menu",
		Summary: "Show a menu on the connected UI",
		Description: `Read one entry per line from stdin, show them on the UI of the session
this program runs in, and print the answer on stdout: one line per
selected entry, or the typed text for a custom entry. Exits 1 without
output when the user picks nothing.

Only works under "alines server", which sets ` + protocol.SocketEnvVar + `.`,
		Usage: "alines menu [-t title] [-i] [-m] [-c] [-s index]",
		Examples: []cli.Example{
			{
				Description: "Pick one of several actions",
				Command:     `printf 'lock\nsuspend\nshutdown\n' | alines menu -t power`,
			},
			{
				Description: "Pick several files by index",
				Command:     "ls | alines menu -m -i",
			},
		},
		Flags: options.flags,
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument %q", args[0])
			}
			socketPath, err := menuer.SocketPath()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return options.run(ctx, socketPath, os.Stdin, os.Stdout)
		},
	}
}
