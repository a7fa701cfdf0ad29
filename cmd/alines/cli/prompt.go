// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"
)

// ReadPassword prompts on stderr and reads a line from the terminal on
// stdin without echoing it.
func ReadPassword(prompt string) (string, error) {
	stdinFileDescriptor := int(os.Stdin.Fd())
	if !term.IsTerminal(stdinFileDescriptor) {
		return "", errors.New("no terminal available for interactive password prompt")
	}

	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(stdinFileDescriptor)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(password), nil
}
