// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

package broker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
)

// Server accepts UI connections and runs one Session per connection.
type Server struct {
	config SessionConfig
	logger *slog.Logger

	// sessions tracks running sessions. Serve waits for all of them
	// before returning.
	sessions sync.WaitGroup
}

// NewServer creates a server whose sessions all use config.
func NewServer(config SessionConfig, logger *slog.Logger) *Server {
	return &Server{config: config, logger: logger}
}

// Listen opens the TCP listener for UI connections on every interface.
// Go enables SO_REUSEADDR on listening sockets, so a restarted server
// can rebind while old connections sit in TIME_WAIT.
func Listen(ctx context.Context, port int) (net.Listener, error) {
	var listenConfig net.ListenConfig
	address := net.JoinHostPort("", strconv.Itoa(port))
	listener, err := listenConfig.Listen(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", address, err)
	}
	return listener, nil
}

// ListenAndServe listens on port and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	listener, err := Listen(ctx, port)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is cancelled or a
// fatal error occurs, then closes the listener, tells every running
// session to stop, and waits for them. It returns nil after a plain
// cancellation. A session's *FatalError or a failing Accept is
// returned as is.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Unblock Accept when the context is cancelled.
	stop := context.AfterFunc(ctx, func() {
		listener.Close()
	})
	defer stop()

	fatal := make(chan error, 1)
	s.logger.Info("accepting UI connections", "address", listener.Addr().String())

	var acceptErr error
	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() == nil && !errors.Is(err, net.ErrClosed) {
				acceptErr = fmt.Errorf("accepting UI connection: %w", err)
				s.logger.Error("accept failed", "error", err)
			}
			break
		}

		uiConn, ok := conn.(Conn)
		if !ok {
			s.logger.Error("UI connection cannot be polled", "type", fmt.Sprintf("%T", conn))
			conn.Close()
			continue
		}

		session := NewSession(uiConn, s.config, s.logger)
		session.logger.Info("UI connected")

		s.sessions.Add(1)
		go func() {
			defer s.sessions.Done()
			if err := session.Run(ctx); err != nil {
				session.logger.Error("session failed", "error", err)
				select {
				case fatal <- err:
				default:
				}
				cancel()
			}
		}()
	}

	cancel()
	listener.Close()
	s.sessions.Wait()

	select {
	case err := <-fatal:
		return err
	default:
	}
	return acceptErr
}
