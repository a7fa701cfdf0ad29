// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"

	"github.com/JerwuQu/alines-multi/cmd/alines/commands"
	"github.com/JerwuQu/alines-multi/lib/process"
)

func main() {
	if err := run(); err != nil {
		// "alines menu" exits 1 on no selection without printing
		// anything. Don't add an "error:" line for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		process.Fatal(err)
	}
}

func run() error {
	args := os.Args[1:]
	if len(args) == 1 && args[0] == "--version" {
		commands.PrintVersion()
		return nil
	}
	return commands.Root().Execute(args)
}
