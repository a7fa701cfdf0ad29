// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides connection-level helpers for alines.
//
// [WaitReadable] waits on several sockets at once with poll(2). The
// broker runs one goroutine per session, and that goroutine must react
// to whichever of the UI connection, the menuer listener, or the
// current menuer connection becomes readable first, while waking at a
// fixed interval to check whether the spawned program is still alive.
//
// [IsExpectedCloseError] classifies errors that occur when a peer
// disconnects normally, so callers can log them quietly.
package netutil
