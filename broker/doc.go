// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

// Package broker implements the alines server: it accepts remote UI
// connections over TCP, runs one target program per UI, and relays the
// menus that program (or anything it launches) asks for to the UI and
// the answers back.
//
// The moving parts, leaves first:
//
//   - [MenuerListener] is the per-session unix socket that menuers
//     connect to. Its path reaches the program through $ALINES_SOCKET.
//   - [Relay] carries one menu from a menuer connection to the UI and
//     one answer back, and reports how that went as a [RelayOutcome].
//   - [Session] owns one UI connection for its lifetime: the password
//     handshake, the child process, the listener, and the loop that
//     serves menuers one at a time in arrival order.
//   - [Server] accepts UI connections and runs each [Session] on its
//     own goroutine.
//
// A session's goroutine never blocks indefinitely on a single socket
// while idle. Each iteration polls the UI connection and the listener
// with a short timeout (see netutil.WaitReadable), then checks whether
// the child is still alive, so a dead program is noticed within one
// poll interval even when nothing else happens. Sessions share nothing
// mutable; the configuration they receive is read-only.
//
// Failures are sorted by blast radius. A bad password, a dead program,
// a malformed menu request, or a broken UI ends only that session. A
// menuer that hangs up early or a failed write of one menu ends only
// that relay cycle. A program that cannot be executed (missing, not
// executable, bad format) ends only its session. Failing to bind the
// session socket, or a fork refused for lack of processes or memory,
// is a [FatalError]: [Server.Serve] shuts everything down and
// returns it.
package broker
