// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

package broker

import (
	"context"
	"net"
	"reflect"
	"testing"

	"github.com/JerwuQu/alines-multi/lib/netutil"
	"github.com/JerwuQu/alines-multi/lib/testutil"
	"github.com/JerwuQu/alines-multi/protocol"
)

// relayFixture wires a Relay between two socket pairs. The test plays
// the UI on uiPeer and the menuer on menuerPeer.
type relayFixture struct {
	relay      *Relay
	uiPeer     Conn
	menuerPeer Conn
}

func newRelayFixture(t *testing.T) *relayFixture {
	t.Helper()
	uiPeer, uiSide := connPair(t)
	menuerPeer, menuerSide := connPair(t)
	return &relayFixture{
		relay: &Relay{
			UI:           uiSide,
			Menuer:       menuerSide,
			PollInterval: testPollInterval,
			Logger:       testLogger(),
		},
		uiPeer:     uiPeer,
		menuerPeer: menuerPeer,
	}
}

func (fixture *relayFixture) start(ctx context.Context) <-chan RelayResult {
	results := make(chan RelayResult, 1)
	go func() {
		results <- fixture.relay.Run(ctx)
	}()
	return results
}

func TestRelayForwardsMenuVerbatim(t *testing.T) {
	fixture := newRelayFixture(t)
	request := protocol.MenuRequest{
		Flags:       protocol.FlagMulti | protocol.FlagCustom,
		Title:       "choose\x00one",
		Entries:     []string{"alpha", "", "gamma"},
		Preselected: 2,
	}
	if err := protocol.WriteMenuRequest(fixture.menuerPeer, request); err != nil {
		t.Fatalf("WriteMenuRequest: %v", err)
	}
	results := fixture.start(context.Background())

	message := readServerMessage(t, fixture.uiPeer)
	if message.Tag != protocol.TagOpenMenu {
		t.Fatalf("UI got %v, want OPEN_MENU", message.Tag)
	}
	if !reflect.DeepEqual(message.Menu, request) {
		t.Fatalf("OPEN_MENU = %+v, want %+v", message.Menu, request)
	}

	if err := protocol.WriteSelection(fixture.uiPeer, protocol.Single(2)); err != nil {
		t.Fatalf("WriteSelection: %v", err)
	}
	selection := readSelection(t, fixture.menuerPeer)
	if selection.Kind != protocol.SingleSelection || selection.Index != 2 {
		t.Fatalf("menuer got %+v, want single 2", selection)
	}

	result := testutil.RequireReceive(t, results, testTimeout, "relay result")
	if result.Outcome != OutcomeResolved || result.Err != nil {
		t.Fatalf("result = %v (%v), want resolved", result.Outcome, result.Err)
	}
}

func TestRelayForwardsMultiAndCustom(t *testing.T) {
	for _, answer := range []protocol.Selection{
		protocol.Multi(4, 0, 2),
		protocol.Custom("typed by hand"),
		protocol.None(),
	} {
		t.Run(answer.Kind.String(), func(t *testing.T) {
			fixture := newRelayFixture(t)
			// Flags permit neither; the broker does not enforce them.
			if err := protocol.WriteMenuRequest(fixture.menuerPeer, protocol.MenuRequest{Title: "t", Entries: []string{"a"}}); err != nil {
				t.Fatalf("WriteMenuRequest: %v", err)
			}
			results := fixture.start(context.Background())
			readServerMessage(t, fixture.uiPeer)

			if err := protocol.WriteSelection(fixture.uiPeer, answer); err != nil {
				t.Fatalf("WriteSelection: %v", err)
			}
			got := readSelection(t, fixture.menuerPeer)
			if got.Kind != answer.Kind || got.Custom != answer.Custom || !reflect.DeepEqual(got.Indices, answer.Indices) {
				t.Fatalf("menuer got %+v, want %+v", got, answer)
			}
			result := testutil.RequireReceive(t, results, testTimeout, "relay result")
			if result.Outcome != OutcomeResolved {
				t.Fatalf("outcome = %v, want resolved", result.Outcome)
			}
		})
	}
}

func TestRelayMenuerLeavesFirst(t *testing.T) {
	fixture := newRelayFixture(t)
	if err := protocol.WriteMenuRequest(fixture.menuerPeer, protocol.MenuRequest{Title: "t", Entries: []string{"a"}}); err != nil {
		t.Fatalf("WriteMenuRequest: %v", err)
	}
	results := fixture.start(context.Background())
	readServerMessage(t, fixture.uiPeer)

	fixture.menuerPeer.Close()

	message := readServerMessage(t, fixture.uiPeer)
	if message.Tag != protocol.TagCloseMenu {
		t.Fatalf("UI got %v, want CLOSE_MENU", message.Tag)
	}
	result := testutil.RequireReceive(t, results, testTimeout, "relay result")
	if result.Outcome != OutcomeMenuerGone {
		t.Fatalf("outcome = %v, want menuer_gone", result.Outcome)
	}
	if result.Outcome.EndsSession() {
		t.Fatal("menuer_gone ends the session")
	}
}

func TestRelayUnknownUITag(t *testing.T) {
	fixture := newRelayFixture(t)
	if err := protocol.WriteMenuRequest(fixture.menuerPeer, protocol.MenuRequest{Title: "t", Entries: []string{"a"}}); err != nil {
		t.Fatalf("WriteMenuRequest: %v", err)
	}
	results := fixture.start(context.Background())
	readServerMessage(t, fixture.uiPeer)

	if _, err := fixture.uiPeer.Write([]byte{0x09}); err != nil {
		t.Fatalf("write: %v", err)
	}

	selection := readSelection(t, fixture.menuerPeer)
	if selection.Kind != protocol.NoSelection {
		t.Fatalf("menuer got %+v, want NO_SELECTION", selection)
	}
	result := testutil.RequireReceive(t, results, testTimeout, "relay result")
	if result.Outcome != OutcomeUIFailed {
		t.Fatalf("outcome = %v, want ui_failed", result.Outcome)
	}

	// Nothing after the NO_SELECTION byte.
	fixture.relay.Menuer.Close()
	expectEOF(t, fixture.menuerPeer)
}

func TestRelayMalformedRequest(t *testing.T) {
	fixture := newRelayFixture(t)
	// Flags and half an entry count, then hang up.
	if _, err := fixture.menuerPeer.Write([]byte{0x00, 0x00}); err != nil {
		t.Fatalf("write: %v", err)
	}
	fixture.menuerPeer.Close()

	result := testutil.RequireReceive(t, fixture.start(context.Background()), testTimeout, "relay result")
	if result.Outcome != OutcomeMalformedRequest {
		t.Fatalf("outcome = %v, want malformed_request", result.Outcome)
	}
	ready, err := netutil.WaitReadable(testPollInterval, fixture.uiPeer)
	if err != nil {
		t.Fatalf("WaitReadable: %v", err)
	}
	if ready[0] {
		t.Fatal("UI received data for a malformed request")
	}
}

func TestRelayDroppedWhenUIGone(t *testing.T) {
	fixture := newRelayFixture(t)
	fixture.uiPeer.Close()
	if err := protocol.WriteMenuRequest(fixture.menuerPeer, protocol.MenuRequest{Title: "t", Entries: []string{"a"}}); err != nil {
		t.Fatalf("WriteMenuRequest: %v", err)
	}

	result := testutil.RequireReceive(t, fixture.start(context.Background()), testTimeout, "relay result")
	if result.Outcome != OutcomeDropped {
		t.Fatalf("outcome = %v (%v), want dropped", result.Outcome, result.Err)
	}
	selection := readSelection(t, fixture.menuerPeer)
	if selection.Kind != protocol.NoSelection {
		t.Fatalf("menuer got %+v, want NO_SELECTION", selection)
	}
}

func TestRelayUIWinsSimultaneousReadiness(t *testing.T) {
	fixture := newRelayFixture(t)

	// Both sides are ready before the relay first waits: the answer is
	// already queued on the UI socket and the menuer has half-closed.
	if err := protocol.WriteSelection(fixture.uiPeer, protocol.Single(1)); err != nil {
		t.Fatalf("WriteSelection: %v", err)
	}
	if err := protocol.WriteMenuRequest(fixture.menuerPeer, protocol.MenuRequest{Title: "t", Entries: []string{"a", "b"}}); err != nil {
		t.Fatalf("WriteMenuRequest: %v", err)
	}
	if err := fixture.menuerPeer.(interface{ CloseWrite() error }).CloseWrite(); err != nil {
		t.Fatalf("CloseWrite: %v", err)
	}

	result := testutil.RequireReceive(t, fixture.start(context.Background()), testTimeout, "relay result")
	if result.Outcome != OutcomeResolved {
		t.Fatalf("outcome = %v, want resolved", result.Outcome)
	}
	selection := readSelection(t, fixture.menuerPeer)
	if selection.Kind != protocol.SingleSelection || selection.Index != 1 {
		t.Fatalf("menuer got %+v, want single 1", selection)
	}

	message := readServerMessage(t, fixture.uiPeer)
	if message.Tag != protocol.TagOpenMenu {
		t.Fatalf("UI got %v, want only OPEN_MENU", message.Tag)
	}
	ready, err := netutil.WaitReadable(testPollInterval, fixture.uiPeer)
	if err != nil {
		t.Fatalf("WaitReadable: %v", err)
	}
	if ready[0] {
		t.Fatal("UI received CLOSE_MENU after answering")
	}
}

func TestRelayCancelled(t *testing.T) {
	fixture := newRelayFixture(t)
	if err := protocol.WriteMenuRequest(fixture.menuerPeer, protocol.MenuRequest{Title: "t", Entries: []string{"a"}}); err != nil {
		t.Fatalf("WriteMenuRequest: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	results := fixture.start(ctx)
	readServerMessage(t, fixture.uiPeer)

	cancel()

	result := testutil.RequireReceive(t, results, testTimeout, "relay result")
	if result.Outcome != OutcomeCancelled {
		t.Fatalf("outcome = %v, want cancelled", result.Outcome)
	}
	selection := readSelection(t, fixture.menuerPeer)
	if selection.Kind != protocol.NoSelection {
		t.Fatalf("menuer got %+v, want NO_SELECTION", selection)
	}
}

func TestRelayMenuerActivityAfterRequestClosesMenu(t *testing.T) {
	tests := []struct {
		name  string
		after func(conn net.Conn) error
	}{
		{"half-close", func(conn net.Conn) error {
			return conn.(interface{ CloseWrite() error }).CloseWrite()
		}},
		{"trailing byte", func(conn net.Conn) error {
			_, err := conn.Write([]byte{0})
			return err
		}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			fixture := newRelayFixture(t)
			if err := protocol.WriteMenuRequest(fixture.menuerPeer, protocol.MenuRequest{Title: "t", Entries: []string{"a"}}); err != nil {
				t.Fatalf("WriteMenuRequest: %v", err)
			}
			if err := test.after(fixture.menuerPeer); err != nil {
				t.Fatalf("after request: %v", err)
			}

			result := testutil.RequireReceive(t, fixture.start(context.Background()), testTimeout, "relay result")
			if result.Outcome != OutcomeMenuerGone {
				t.Fatalf("outcome = %v, want menuer_gone", result.Outcome)
			}
			if message := readServerMessage(t, fixture.uiPeer); message.Tag != protocol.TagOpenMenu {
				t.Fatalf("UI got %v, want OPEN_MENU", message.Tag)
			}
			if message := readServerMessage(t, fixture.uiPeer); message.Tag != protocol.TagCloseMenu {
				t.Fatalf("UI got %v, want CLOSE_MENU", message.Tag)
			}
		})
	}
}
