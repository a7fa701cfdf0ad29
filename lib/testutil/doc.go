// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for alines packages.
//
// [SocketDir] creates a short-named temporary directory in /tmp for
// Unix domain sockets, whose paths are limited to 108 bytes; the
// nested directories t.TempDir returns can exceed that.
//
// [Script] writes an executable /bin/sh script, which supervisor and
// broker tests use as the spawned program.
//
// [RequireReceive], [RequireSend], and [RequireClosed] wrap the
// select-with-timeout pattern so that a test blocked on a channel
// fails with a message instead of hanging the suite.
//
// [UniqueID] generates distinct identifiers (passwords, titles) for
// tests that share a process.
//
// All helpers call t.Fatalf on failure rather than returning errors.
//
// This package has no alines-internal dependencies.
package testutil
