// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

package broker

import (
	"fmt"
	"net"
	"syscall"
)

// Conn is a stream connection whose descriptor can be polled.
// *net.TCPConn and *net.UnixConn satisfy it.
type Conn interface {
	net.Conn
	syscall.Conn
}

// FatalError marks a failure that must stop the whole server, not only
// the session that hit it.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal: %v", e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}
