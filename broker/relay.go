// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

package broker

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JerwuQu/alines-multi/lib/netutil"
	"github.com/JerwuQu/alines-multi/protocol"
)

// RelayOutcome is how a relay cycle ended.
type RelayOutcome int

const (
	// OutcomeResolved: the UI answered and the answer was passed on.
	// Writing it to the menuer may still have failed (see
	// RelayResult.Err); the cycle is over either way.
	OutcomeResolved RelayOutcome = iota

	// OutcomeMenuerGone: the menuer hung up while its menu was open.
	// The UI was sent CLOSE_MENU.
	OutcomeMenuerGone

	// OutcomeDropped: the menu could not be written to the UI. The
	// menuer was answered with NO_SELECTION.
	OutcomeDropped

	// OutcomeMalformedRequest: the menuer did not send a complete
	// menu request. Nothing was sent to the UI.
	OutcomeMalformedRequest

	// OutcomeUIFailed: reading the UI's answer failed or produced an
	// unknown tag. The menuer was answered with NO_SELECTION. The UI
	// byte stream is no longer usable.
	OutcomeUIFailed

	// OutcomeCancelled: the context was cancelled while the menu was
	// open. The menuer was answered with NO_SELECTION.
	OutcomeCancelled
)

func (outcome RelayOutcome) String() string {
	switch outcome {
	case OutcomeResolved:
		return "resolved"
	case OutcomeMenuerGone:
		return "menuer_gone"
	case OutcomeDropped:
		return "dropped"
	case OutcomeMalformedRequest:
		return "malformed_request"
	case OutcomeUIFailed:
		return "ui_failed"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("relay_outcome(%d)", int(outcome))
	}
}

// EndsSession reports whether the session must tear down after a
// cycle with this outcome. The other outcomes end only the cycle.
func (outcome RelayOutcome) EndsSession() bool {
	switch outcome {
	case OutcomeMalformedRequest, OutcomeUIFailed, OutcomeCancelled:
		return true
	default:
		return false
	}
}

// RelayResult describes a finished relay cycle. Request is set once
// the menuer's request was read, Selection once the UI answered. Err
// carries the underlying failure, if any, for logging.
type RelayResult struct {
	Outcome   RelayOutcome
	Request   protocol.MenuRequest
	Selection protocol.Selection
	Err       error
}

// Relay carries one menu from a menuer to the UI and one answer back.
// A Relay is used once; the caller owns both connections and closes
// the menuer connection afterwards.
type Relay struct {
	UI     Conn
	Menuer Conn

	// PollInterval bounds each wait for either side to become
	// readable, and so how quickly cancellation is noticed.
	PollInterval time.Duration

	Logger *slog.Logger
}

// Run performs the cycle:
//
//  1. Read the menuer's request.
//  2. Send it to the UI as OPEN_MENU.
//  3. Wait until the UI answers or the menuer hangs up, whichever
//     happens first. When both are ready in the same round the UI
//     wins: its answer is already on the wire.
//  4. Forward the answer to the menuer, or send CLOSE_MENU to the UI.
//
// There is no timeout on the UI; a menu stays open until one side
// acts or ctx is cancelled.
//
// After its request the menuer must only wait. Any later readiness on
// its socket counts as hanging up: a half-close (shutdown of its write
// side) or a trailing byte gets the menu closed and no answer, even if
// the menuer is still reading.
func (relay *Relay) Run(ctx context.Context) RelayResult {
	// Only the request is read through the buffer. After it, the
	// menuer has nothing more to say, so a read-ready menuer socket
	// means end-of-stream.
	request, err := protocol.ReadMenuRequest(bufio.NewReader(relay.Menuer))
	if err != nil {
		return RelayResult{Outcome: OutcomeMalformedRequest, Err: fmt.Errorf("reading menu request: %w", err)}
	}
	relay.Logger.Debug("menu requested",
		"title", request.Title,
		"entries", len(request.Entries),
		"flags", uint8(request.Flags),
	)

	if err := protocol.WriteOpenMenu(relay.UI, request); err != nil {
		relay.answerMenuer(protocol.None())
		return RelayResult{Outcome: OutcomeDropped, Request: request, Err: fmt.Errorf("sending menu to UI: %w", err)}
	}

	for {
		if ctx.Err() != nil {
			relay.answerMenuer(protocol.None())
			return RelayResult{Outcome: OutcomeCancelled, Request: request, Err: ctx.Err()}
		}

		ready, err := netutil.WaitReadable(relay.PollInterval, relay.UI, relay.Menuer)
		if err != nil {
			relay.answerMenuer(protocol.None())
			return RelayResult{Outcome: OutcomeUIFailed, Request: request, Err: err}
		}
		uiReady, menuerReady := ready[0], ready[1]

		if uiReady {
			selection, err := protocol.ReadSelection(relay.UI)
			if err != nil {
				relay.answerMenuer(protocol.None())
				return RelayResult{Outcome: OutcomeUIFailed, Request: request, Err: fmt.Errorf("reading UI answer: %w", err)}
			}
			result := RelayResult{Outcome: OutcomeResolved, Request: request, Selection: selection}
			if err := protocol.WriteSelection(relay.Menuer, selection); err != nil {
				result.Err = fmt.Errorf("forwarding answer to menuer: %w", err)
			}
			return result
		}

		if menuerReady {
			result := RelayResult{Outcome: OutcomeMenuerGone, Request: request}
			if err := protocol.WriteCloseMenu(relay.UI); err != nil {
				result.Err = fmt.Errorf("sending close to UI: %w", err)
			}
			return result
		}
	}
}

// answerMenuer sends a best-effort answer on a path where the cycle is
// already failing. The menuer may be gone too.
func (relay *Relay) answerMenuer(selection protocol.Selection) {
	if err := protocol.WriteSelection(relay.Menuer, selection); err != nil && !netutil.IsExpectedCloseError(err) {
		relay.Logger.Debug("answering menuer failed", "error", err)
	}
}
