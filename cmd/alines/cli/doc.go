// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the alines binary.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], a [pflag.FlagSet] factory, and a
// Run function. Commands are assembled into a tree in the commands
// package and dispatched via [Command.Execute], which handles flag
// parsing, subcommand routing, and structured help output with examples.
//
// When a user types an unknown subcommand or flag, the framework computes
// Levenshtein edit distance against all known names and suggests the
// closest match (threshold: distance <= 3).
//
// [ExitError] lets a command end with a specific status without an
// "error:" line, which the menu command uses for "nothing selected".
// [NewCommandLogger] builds the slog logger every long-running command
// uses, and [ReadPassword] prompts for a secret on the terminal.
package cli
