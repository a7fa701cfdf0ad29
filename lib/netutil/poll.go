// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"errors"
	"fmt"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// readableEvents are the poll(2) results that mean a read will not
// block. Hangup and error conditions count: the read returns the EOF
// or error immediately, which is what the caller needs to see.
const readableEvents = unix.POLLIN | unix.POLLHUP | unix.POLLERR

// WaitReadable blocks until at least one of conns is readable or
// timeout elapses, and reports readiness per connection in argument
// order. A listener is readable when a connection is waiting to be
// accepted. Timing out is not an error: every entry is false. A nil
// entry in conns is skipped and reported false.
//
// Readiness is a snapshot of the kernel's view. Data already pulled
// into a userspace buffer (bufio.Reader) is invisible here, so callers
// poll only connections they read unbuffered or whose buffers they
// know to be empty.
//
// The caller must not close any of conns concurrently.
func WaitReadable(timeout time.Duration, conns ...syscall.Conn) ([]bool, error) {
	descriptors := make([]unix.PollFd, 0, len(conns))
	positions := make([]int, 0, len(conns))
	for position, conn := range conns {
		if conn == nil {
			continue
		}
		fd, err := descriptor(conn)
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, unix.PollFd{Fd: int32(fd), Events: unix.POLLIN})
		positions = append(positions, position)
	}

	ready := make([]bool, len(conns))
	if len(descriptors) == 0 {
		time.Sleep(timeout)
		return ready, nil
	}

	count, err := unix.Poll(descriptors, int(timeout.Milliseconds()))
	if err != nil {
		// A signal interrupted the wait. Report nothing ready and let
		// the caller's loop come back around.
		if errors.Is(err, unix.EINTR) {
			return ready, nil
		}
		return nil, fmt.Errorf("poll: %w", err)
	}
	if count == 0 {
		return ready, nil
	}
	for index, polled := range descriptors {
		if polled.Revents&(readableEvents|unix.POLLNVAL) != 0 {
			ready[positions[index]] = true
		}
	}
	return ready, nil
}

// descriptor extracts the file descriptor behind conn. The descriptor
// is only valid while conn stays open.
func descriptor(conn syscall.Conn) (uintptr, error) {
	raw, err := conn.SyscallConn()
	if err != nil {
		return 0, fmt.Errorf("raw connection: %w", err)
	}
	var fd uintptr
	if err := raw.Control(func(controlled uintptr) { fd = controlled }); err != nil {
		return 0, fmt.Errorf("reading descriptor: %w", err)
	}
	return fd, nil
}
