// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

// Package process covers the two ends of a process's life that alines
// cares about:
//
//   - Supervising children: [Spawn] starts a program with extra
//     environment entries in its own process group, and the returned
//     [Process] answers liveness questions without blocking. A
//     goroutine per child waits on it, so exited children are reaped
//     immediately and never linger as zombies.
//   - Exiting the current process: [Fatal] reports an unrecoverable
//     error from main() before or instead of the structured logger.
//
// [AllocateSocketPath] lives here too because a socket path is the one
// piece of per-child state the broker must create before the child
// starts.
package process
