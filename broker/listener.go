// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

package broker

import (
	"fmt"
	"net"
	"syscall"
)

// MenuerListener is the unix stream socket a session's menuers connect
// to. It carries no protocol state; every accepted connection is one
// request/response exchange handed to a Relay.
//
// The socket file stays on disk while the listener is open, so the
// program and every descendant can connect by path at any time, and is
// removed by Close.
type MenuerListener struct {
	listener *net.UnixListener
	path     string
}

// ListenMenuer binds and listens on path. The accept backlog is the
// kernel's maximum (somaxconn), which absorbs bursts of menuers
// connecting at once.
func ListenMenuer(path string) (*MenuerListener, error) {
	listener, err := net.ListenUnix("unix", &net.UnixAddr{Name: path, Net: "unix"})
	if err != nil {
		return nil, fmt.Errorf("listening on menuer socket %s: %w", path, err)
	}
	listener.SetUnlinkOnClose(true)
	return &MenuerListener{listener: listener, path: path}, nil
}

// Path returns the filesystem path the listener is bound to.
func (l *MenuerListener) Path() string {
	return l.path
}

// Accept waits for the next menuer connection.
func (l *MenuerListener) Accept() (*net.UnixConn, error) {
	conn, err := l.listener.AcceptUnix()
	if err != nil {
		return nil, fmt.Errorf("accepting menuer: %w", err)
	}
	return conn, nil
}

// SyscallConn exposes the listening descriptor for readiness polling.
func (l *MenuerListener) SyscallConn() (syscall.RawConn, error) {
	return l.listener.SyscallConn()
}

// Close stops listening and removes the socket file. Connections that
// were pending and never accepted are reset.
func (l *MenuerListener) Close() error {
	return l.listener.Close()
}
