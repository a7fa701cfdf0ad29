// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

// Alines is the single binary of the alines menu broker. "alines
// server" accepts remote UIs and runs a program for each of them;
// "alines menu" is what that program calls to put a menu in front of
// the remote user; "alines ui" is a terminal UI to connect with.
package main
