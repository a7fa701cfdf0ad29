// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/JerwuQu/alines-multi/lib/netutil"
	"github.com/JerwuQu/alines-multi/protocol"
)

// DisconnectError is returned by Run when the server ends the session
// with a DISCONNECT message.
type DisconnectError struct {
	Reason string
}

func (e *DisconnectError) Error() string {
	return "disconnected by server: " + e.Reason
}

// Picker shows one menu to the user and returns the answer. Pick must
// return promptly once ctx is cancelled; the returned selection is
// then discarded.
type Picker interface {
	Pick(ctx context.Context, request protocol.MenuRequest) (protocol.Selection, error)
}

// PickerFunc adapts a function to the Picker interface.
type PickerFunc func(ctx context.Context, request protocol.MenuRequest) (protocol.Selection, error)

// Pick calls f.
func (f PickerFunc) Pick(ctx context.Context, request protocol.MenuRequest) (protocol.Selection, error) {
	return f(ctx, request)
}

// Client is a connection to an alines server.
type Client struct {
	conn   net.Conn
	reader *bufio.Reader
	logger *slog.Logger
}

// Dial connects to the server at address (host:port).
func Dial(ctx context.Context, address string, logger *slog.Logger) (*Client, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", address, err)
	}
	return NewClient(conn, logger), nil
}

// NewClient wraps an established connection.
func NewClient(conn net.Conn, logger *slog.Logger) *Client {
	return &Client{
		conn:   conn,
		reader: bufio.NewReader(conn),
		logger: logger.With("server", conn.RemoteAddr().String()),
	}
}

// Authenticate sends the password. The server does not acknowledge a
// correct password; a wrong one surfaces as a DisconnectError from Run.
func (c *Client) Authenticate(password string) error {
	if err := protocol.WritePassword(c.conn, password); err != nil {
		return fmt.Errorf("sending password: %w", err)
	}
	return nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

type serverRead struct {
	message protocol.ServerMessage
	err     error
}

type pickResult struct {
	generation uint64
	selection  protocol.Selection
	err        error
}

// Run serves menus until the server disconnects, the connection
// fails, or ctx is cancelled. It closes the client before returning
// and waits for any running picker to finish.
func (c *Client) Run(ctx context.Context, picker Picker) error {
	defer c.Close()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	reads := make(chan serverRead)
	go func() {
		for {
			message, err := protocol.ReadServerMessage(c.reader)
			select {
			case reads <- serverRead{message: message, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	var (
		pickers    sync.WaitGroup
		results    = make(chan pickResult, 1)
		generation uint64
		cancelPick context.CancelFunc
	)
	stopPick := func() {
		if cancelPick != nil {
			cancelPick()
			cancelPick = nil
		}
		// A cancelled pick's result carries a stale generation.
		generation++
	}
	defer func() {
		stopPick()
		pickers.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case read := <-reads:
			if read.err != nil {
				if netutil.IsExpectedCloseError(read.err) {
					return fmt.Errorf("server closed the connection: %w", read.err)
				}
				return fmt.Errorf("reading from server: %w", read.err)
			}

			switch read.message.Tag {
			case protocol.TagDisconnect:
				return &DisconnectError{Reason: read.message.Reason}

			case protocol.TagCloseMenu:
				c.logger.Debug("menu closed by server")
				stopPick()

			case protocol.TagOpenMenu:
				stopPick()
				request := read.message.Menu
				c.logger.Debug("menu opened",
					"title", request.Title,
					"entries", len(request.Entries),
					"flags", uint8(request.Flags),
				)
				pickContext, cancel := context.WithCancel(ctx)
				cancelPick = cancel
				current := generation
				pickers.Add(1)
				go func() {
					defer pickers.Done()
					selection, err := picker.Pick(pickContext, request)
					select {
					case results <- pickResult{generation: current, selection: selection, err: err}:
					case <-pickContext.Done():
					}
				}()
			}

		case result := <-results:
			if result.generation != generation {
				continue
			}
			cancelPick()
			cancelPick = nil
			generation++
			if result.err != nil {
				return fmt.Errorf("showing menu: %w", result.err)
			}
			if err := protocol.WriteSelection(c.conn, result.selection); err != nil {
				return fmt.Errorf("sending selection: %w", err)
			}
			c.logger.Debug("selection sent", "kind", result.selection.Kind.String())
		}
	}
}

// IsDisconnect reports whether err is a server DISCONNECT and returns
// its reason.
func IsDisconnect(err error) (string, bool) {
	var disconnect *DisconnectError
	if errors.As(err, &disconnect) {
		return disconnect.Reason, true
	}
	return "", false
}
