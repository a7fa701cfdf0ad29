// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the alines command tree.
package commands

import (
	"fmt"

	"github.com/JerwuQu/alines-multi/cmd/alines/cli"
	"github.com/JerwuQu/alines-multi/lib/version"
)

// Root builds and returns the complete alines command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "alines",
		Description: `alines: menus for programs, answered by a remote user.

A server runs a program for every UI that connects. Whenever the
program runs "alines menu", the menu appears on that UI and the
user's answer is printed on the program's stdout.`,
		Subcommands: []*cli.Command{
			serverCommand(),
			menuCommand(),
			uiCommand(),
			versionCommand(),
		},
	}
}

// PrintVersion writes the one-line version for --version.
func PrintVersion() {
	fmt.Printf("alines %s\n", version.Info())
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Run: func(args []string) error {
			fmt.Printf("alines %s\n", version.Full())
			return nil
		},
	}
}
