// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"fmt"
	"os"
)

// DefaultSocketPattern is the file name pattern for session sockets.
const DefaultSocketPattern = "alines-*"

// AllocateSocketPath returns a path in dir (os.TempDir when empty) that
// no file occupies. It creates a uniquely named file with
// os.CreateTemp, then removes it and hands back the freed name for the
// caller to bind a socket to.
//
// Nothing holds the name between removal and bind. This is fine for a
// directory only trusted processes write to; it is not a defence
// against an adversary racing for the name.
func AllocateSocketPath(dir, pattern string) (string, error) {
	if pattern == "" {
		pattern = DefaultSocketPattern
	}
	file, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", fmt.Errorf("allocating socket path: %w", err)
	}
	path := file.Name()
	file.Close()
	if err := os.Remove(path); err != nil {
		return "", fmt.Errorf("freeing socket path %s: %w", path, err)
	}
	return path, nil
}
