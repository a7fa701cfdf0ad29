// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

package broker

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/JerwuQu/alines-multi/lib/netutil"
	"github.com/JerwuQu/alines-multi/lib/process"
	"github.com/JerwuQu/alines-multi/protocol"
)

// DefaultPollInterval bounds how long a session waits before
// rechecking that its program is alive.
const DefaultPollInterval = 100 * time.Millisecond

// Child is the handle a session keeps on its spawned program.
// *process.Process satisfies it.
type Child interface {
	Pid() int
	Alive() bool
	Terminate() error
}

// SpawnFunc starts argv with env (NAME=value entries) added to the
// inherited environment.
type SpawnFunc func(argv []string, env []string) (Child, error)

// SpawnProcess is the SpawnFunc used when SessionConfig.Spawn is nil.
func SpawnProcess(argv []string, env []string) (Child, error) {
	child, err := process.Spawn(argv, process.SpawnOptions{Env: env})
	if err != nil {
		return nil, err
	}
	return child, nil
}

// SessionConfig is the read-only configuration every session shares.
type SessionConfig struct {
	// Password the UI must send, byte for byte. Empty means the UI
	// must send an empty string.
	Password string

	// Program is the argv run once per session.
	Program []string

	// SocketDir holds session sockets. Empty means os.TempDir().
	SocketDir string

	// PollInterval defaults to DefaultPollInterval.
	PollInterval time.Duration

	// Spawn defaults to SpawnProcess.
	Spawn SpawnFunc
}

func (config SessionConfig) pollInterval() time.Duration {
	if config.PollInterval <= 0 {
		return DefaultPollInterval
	}
	return config.PollInterval
}

// SessionState is where a session is in its life.
type SessionState int

const (
	StateHandshake SessionState = iota
	StateRunning
	StateTornDown
)

func (state SessionState) String() string {
	switch state {
	case StateHandshake:
		return "handshake"
	case StateRunning:
		return "running"
	case StateTornDown:
		return "torn_down"
	default:
		return fmt.Sprintf("session_state(%d)", int(state))
	}
}

// Session serves one UI connection from handshake to teardown. It is
// driven by a single goroutine calling Run.
type Session struct {
	id     string
	ui     Conn
	config SessionConfig
	logger *slog.Logger

	state    SessionState
	listener *MenuerListener
	child    Child

	// menus counts accepted menuers, for log correlation.
	menus int

	// disconnected is set once DISCONNECT was sent or the UI is known
	// to be unreachable; nothing more is written to it after that.
	disconnected bool
}

// NewSession prepares a session for conn. Nothing happens until Run.
func NewSession(conn Conn, config SessionConfig, logger *slog.Logger) *Session {
	id := uuid.NewString()
	return &Session{
		id:     id,
		ui:     conn,
		config: config,
		logger: logger.With("session_id", id, "remote", conn.RemoteAddr().String()),
		state:  StateHandshake,
	}
}

// ID returns the session's unique identifier, as it appears in logs.
func (s *Session) ID() string {
	return s.id
}

// State returns where the session is. Only meaningful from the
// goroutine running it or after Run has returned.
func (s *Session) State() SessionState {
	return s.state
}

// Run drives the session until it ends and always leaves it torn down:
// listener closed and its socket file removed, program terminated if
// still running, UI connection closed. The returned error is non-nil
// only for a *FatalError; every other ending is logged and reported
// to the UI.
func (s *Session) Run(ctx context.Context) error {
	defer s.teardown()

	// Cancellation must also break reads blocked on the UI, such as a
	// handshake that never arrives.
	stop := context.AfterFunc(ctx, func() {
		s.ui.SetReadDeadline(time.Now())
	})
	defer stop()

	if !s.handshake(ctx) {
		return nil
	}
	started, err := s.start()
	if err != nil {
		return err
	}
	if started {
		s.loop(ctx)
	}
	return nil
}

func (s *Session) handshake(ctx context.Context) bool {
	password, err := protocol.ReadPassword(s.ui)
	if err != nil {
		if ctx.Err() != nil {
			s.disconnect(protocol.ReasonShuttingDown)
			return false
		}
		s.logger.Info("handshake failed", "error", err)
		s.disconnect(protocol.ReasonExpectedPassword)
		return false
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.config.Password)) != 1 {
		s.logger.Warn("handshake failed: incorrect password")
		s.disconnect(protocol.ReasonIncorrectPassword)
		return false
	}
	s.logger.Debug("handshake ok")
	return true
}

// start binds the session socket and spawns the program pointed at it.
// The socket is listening before the program starts, so the program
// can connect as soon as it runs. It returns false without an error
// when the program could not be executed; that ends only this session.
func (s *Session) start() (bool, error) {
	s.state = StateRunning

	path, err := process.AllocateSocketPath(s.config.SocketDir, process.DefaultSocketPattern)
	if err != nil {
		s.disconnect(protocol.ReasonProgramFailed)
		return false, &FatalError{Err: fmt.Errorf("session %s: %w", s.id, err)}
	}
	listener, err := ListenMenuer(path)
	if err != nil {
		s.disconnect(protocol.ReasonProgramFailed)
		return false, &FatalError{Err: fmt.Errorf("session %s: %w", s.id, err)}
	}
	s.listener = listener

	spawn := s.config.Spawn
	if spawn == nil {
		spawn = SpawnProcess
	}
	child, err := spawn(s.config.Program, []string{protocol.SocketEnvVar + "=" + path})
	if err != nil {
		s.disconnect(protocol.ReasonProgramFailed)
		if process.IsResourceExhaustion(err) {
			return false, &FatalError{Err: fmt.Errorf("session %s: %w", s.id, err)}
		}
		s.logger.Error("program failed to start", "error", err)
		return false, nil
	}
	s.child = child
	s.logger.Info("program started", "pid", child.Pid(), "socket", path)
	return true, nil
}

// loop serves the session until it ends. Each round waits up to one
// poll interval for the UI or a menuer, then checks liveness before
// acting on either, so a dead program is reported even when a menuer
// is already waiting.
func (s *Session) loop(ctx context.Context) {
	interval := s.config.pollInterval()
	for {
		if ctx.Err() != nil {
			s.disconnect(protocol.ReasonShuttingDown)
			return
		}

		ready, err := netutil.WaitReadable(interval, s.ui, s.listener)
		if err != nil {
			s.logger.Error("waiting for session sockets", "error", err)
			return
		}

		if !s.child.Alive() {
			s.logger.Info("program exited")
			s.disconnect(protocol.ReasonProgramExited)
			return
		}

		if ready[0] && !s.drainUI(ctx) {
			return
		}
		if ready[1] && !s.serveMenuer(ctx) {
			return
		}
	}
}

// drainUI consumes UI input that arrived while no menu was open: an
// answer that crossed a CLOSE_MENU on the wire. The read is bounded by
// one poll interval; a UI that stalls mid-message ends the session. It
// returns false when the session must end.
func (s *Session) drainUI(ctx context.Context) bool {
	s.ui.SetReadDeadline(time.Now().Add(s.config.pollInterval()))
	selection, err := protocol.ReadSelection(s.ui)
	s.ui.SetReadDeadline(time.Time{})
	if err != nil {
		switch {
		case ctx.Err() != nil:
			s.disconnect(protocol.ReasonShuttingDown)
		case errors.Is(err, os.ErrDeadlineExceeded):
			s.logger.Warn("UI stalled mid-message", "error", err)
			if !s.child.Alive() {
				s.disconnect(protocol.ReasonProgramExited)
			}
			s.disconnected = true
		default:
			s.logUIFailure("UI disconnected", err)
			s.disconnected = true
		}
		return false
	}
	s.logger.Debug("discarded stale answer", "kind", selection.Kind.String())
	return true
}

// serveMenuer accepts one menuer and runs its relay cycle to the end.
// It returns false when the session must end.
func (s *Session) serveMenuer(ctx context.Context) bool {
	conn, err := s.listener.Accept()
	if err != nil {
		s.logger.Error("menuer accept failed", "error", err)
		s.disconnect(protocol.ReasonMenuerNotMenu)
		return false
	}
	defer conn.Close()

	s.menus++
	relay := &Relay{
		UI:           s.ui,
		Menuer:       conn,
		PollInterval: s.config.pollInterval(),
		Logger:       s.logger.With("menuer", s.menus),
	}
	result := relay.Run(ctx)
	logger := relay.Logger.With("outcome", result.Outcome.String())

	switch result.Outcome {
	case OutcomeResolved:
		if result.Err != nil {
			logger.Warn("answer not delivered to menuer", "error", result.Err)
		} else {
			logger.Info("menu answered", "kind", result.Selection.Kind.String())
		}
	case OutcomeMenuerGone:
		logger.Info("menuer left before the UI answered")
		if result.Err != nil {
			logger.Debug("close notification failed", "error", result.Err)
		}
	case OutcomeDropped:
		logger.Warn("menu not delivered to UI", "error", result.Err)
	case OutcomeMalformedRequest:
		logger.Warn("malformed menu request", "error", result.Err)
		s.disconnect(protocol.ReasonMenuerNotMenu)
	case OutcomeUIFailed:
		if ctx.Err() != nil {
			s.disconnect(protocol.ReasonShuttingDown)
			break
		}
		s.logUIFailure("UI failed during menu", result.Err)
		s.disconnected = true
	case OutcomeCancelled:
		s.disconnect(protocol.ReasonShuttingDown)
	}
	return !result.Outcome.EndsSession()
}

// disconnect sends DISCONNECT with reason, at most once per session.
func (s *Session) disconnect(reason string) {
	if s.disconnected {
		return
	}
	s.disconnected = true
	s.ui.SetWriteDeadline(time.Now().Add(time.Second))
	if err := protocol.WriteDisconnect(s.ui, reason); err != nil {
		s.logUIFailure("sending disconnect", err)
		return
	}
	s.logger.Info("disconnected UI", "reason", reason)
}

func (s *Session) logUIFailure(message string, err error) {
	if netutil.IsExpectedCloseError(err) {
		s.logger.Debug(message, "error", err)
		return
	}
	s.logger.Warn(message, "error", err)
}

func (s *Session) teardown() {
	if s.listener != nil {
		if err := s.listener.Close(); err != nil {
			s.logger.Debug("closing menuer listener", "error", err)
		}
	}
	if s.child != nil && s.child.Alive() {
		if err := s.child.Terminate(); err != nil {
			s.logger.Warn("terminating program", "pid", s.child.Pid(), "error", err)
		}
	}
	s.ui.Close()
	s.state = StateTornDown
	s.logger.Info("session ended", "menus", s.menus)
}
