// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/JerwuQu/alines-multi/lib/wire"
)

// SocketEnvVar is the environment variable through which a spawned
// program (and anything it launches) learns the session's menuer
// socket path.
const SocketEnvVar = "ALINES_SOCKET"

// DefaultPort is the TCP port the server listens on for UI connections
// when none is configured.
const DefaultPort = 64937

// MaxEntries is the largest entry count a menu can carry.
const MaxEntries = 0xFFFF

// Disconnect reasons sent to the UI.
const (
	ReasonExpectedPassword  = "expected password"
	ReasonIncorrectPassword = "incorrect password"
	ReasonProgramExited     = "program exited"
	ReasonProgramFailed     = "program failed to start"
	ReasonMenuerNotMenu     = "menuer not responding with menu"
	ReasonShuttingDown      = "server shutting down"
)

var (
	// ErrUnknownTag is returned when a message starts with a tag byte
	// that the reader does not recognize. The stream cannot be
	// resynchronized after this.
	ErrUnknownTag = errors.New("unknown message tag")

	// ErrTooManyEntries is returned when encoding a menu with more
	// than MaxEntries entries, or a multi-selection with more than
	// MaxEntries indices.
	ErrTooManyEntries = errors.New("more than 65535 items")
)

// ServerTag identifies a server→UI message.
type ServerTag uint8

const (
	TagDisconnect ServerTag = 0
	TagOpenMenu   ServerTag = 1
	TagCloseMenu  ServerTag = 2
)

func (tag ServerTag) String() string {
	switch tag {
	case TagDisconnect:
		return "disconnect"
	case TagOpenMenu:
		return "open_menu"
	case TagCloseMenu:
		return "close_menu"
	default:
		return fmt.Sprintf("server_tag(%d)", uint8(tag))
	}
}

// Flags is the capability byte of a menu request.
type Flags uint8

const (
	// FlagMulti permits selecting more than one entry.
	FlagMulti Flags = 1 << 0
	// FlagCustom permits answering with free text instead of an entry.
	FlagCustom Flags = 1 << 1
)

// Multi reports whether multi-selection is allowed.
func (flags Flags) Multi() bool { return flags&FlagMulti != 0 }

// Custom reports whether a custom entry is allowed.
func (flags Flags) Custom() bool { return flags&FlagCustom != 0 }

// MenuRequest is a menu asked for by a menuer and shown by the UI.
// Preselected is a hint for the initial cursor position; it is carried
// verbatim and may be out of range.
type MenuRequest struct {
	Flags       Flags
	Title       string
	Entries     []string
	Preselected uint16
}

// ReadMenuRequest reads an untagged menu request, as sent by a menuer.
func ReadMenuRequest(r io.Reader) (MenuRequest, error) {
	return readMenuBody(r)
}

// WriteMenuRequest sends request as a menuer does: no tag byte.
func WriteMenuRequest(w io.Writer, request MenuRequest) error {
	var frame bytes.Buffer
	if err := encodeMenuBody(&frame, request); err != nil {
		return err
	}
	return wire.WriteRaw(w, frame.Bytes())
}

// WriteOpenMenu sends an OPEN_MENU message carrying request to the UI.
func WriteOpenMenu(w io.Writer, request MenuRequest) error {
	var frame bytes.Buffer
	frame.WriteByte(byte(TagOpenMenu))
	if err := encodeMenuBody(&frame, request); err != nil {
		return err
	}
	return wire.WriteRaw(w, frame.Bytes())
}

// WriteCloseMenu tells the UI the open menu was withdrawn.
func WriteCloseMenu(w io.Writer) error {
	return wire.WriteU8(w, uint8(TagCloseMenu))
}

// WriteDisconnect tells the UI the session is over and why.
func WriteDisconnect(w io.Writer, reason string) error {
	var frame bytes.Buffer
	frame.WriteByte(byte(TagDisconnect))
	if err := wire.WriteString(&frame, reason); err != nil {
		return fmt.Errorf("encode disconnect reason: %w", err)
	}
	return wire.WriteRaw(w, frame.Bytes())
}

// WritePassword sends the handshake string. It is the first thing a UI
// writes after connecting.
func WritePassword(w io.Writer, password string) error {
	var frame bytes.Buffer
	if err := wire.WriteString(&frame, password); err != nil {
		return fmt.Errorf("encode password: %w", err)
	}
	return wire.WriteRaw(w, frame.Bytes())
}

// ReadPassword reads the handshake string.
func ReadPassword(r io.Reader) (string, error) {
	return wire.ReadString(r)
}

// ServerMessage is a decoded server→UI message. Menu is set for
// TagOpenMenu and Reason for TagDisconnect.
type ServerMessage struct {
	Tag    ServerTag
	Menu   MenuRequest
	Reason string
}

// ReadServerMessage reads one server→UI message.
func ReadServerMessage(r io.Reader) (ServerMessage, error) {
	tagByte, err := wire.ReadU8(r)
	if err != nil {
		return ServerMessage{}, fmt.Errorf("read server message tag: %w", err)
	}
	tag := ServerTag(tagByte)
	switch tag {
	case TagDisconnect:
		reason, err := wire.ReadString(r)
		if err != nil {
			return ServerMessage{}, fmt.Errorf("read disconnect reason: %w", err)
		}
		return ServerMessage{Tag: tag, Reason: reason}, nil
	case TagOpenMenu:
		menu, err := readMenuBody(r)
		if err != nil {
			return ServerMessage{}, err
		}
		return ServerMessage{Tag: tag, Menu: menu}, nil
	case TagCloseMenu:
		return ServerMessage{Tag: tag}, nil
	default:
		return ServerMessage{}, fmt.Errorf("server message tag %d: %w", tagByte, ErrUnknownTag)
	}
}

func encodeMenuBody(frame *bytes.Buffer, request MenuRequest) error {
	if len(request.Entries) > MaxEntries {
		return fmt.Errorf("menu with %d entries: %w", len(request.Entries), ErrTooManyEntries)
	}
	frame.WriteByte(byte(request.Flags))
	// Writes into a bytes.Buffer only fail on oversized strings.
	_ = wire.WriteU16(frame, uint16(len(request.Entries)))
	_ = wire.WriteU16(frame, request.Preselected)
	if err := wire.WriteString(frame, request.Title); err != nil {
		return fmt.Errorf("encode menu title: %w", err)
	}
	for index, entry := range request.Entries {
		if err := wire.WriteString(frame, entry); err != nil {
			return fmt.Errorf("encode menu entry %d: %w", index, err)
		}
	}
	return nil
}

func readMenuBody(r io.Reader) (MenuRequest, error) {
	flags, err := wire.ReadU8(r)
	if err != nil {
		return MenuRequest{}, fmt.Errorf("read menu flags: %w", err)
	}
	count, err := wire.ReadU16(r)
	if err != nil {
		return MenuRequest{}, fmt.Errorf("read menu entry count: %w", err)
	}
	preselected, err := wire.ReadU16(r)
	if err != nil {
		return MenuRequest{}, fmt.Errorf("read menu preselected index: %w", err)
	}
	title, err := wire.ReadString(r)
	if err != nil {
		return MenuRequest{}, fmt.Errorf("read menu title: %w", err)
	}
	entries := make([]string, count)
	for index := range entries {
		entries[index], err = wire.ReadString(r)
		if err != nil {
			return MenuRequest{}, fmt.Errorf("read menu entry %d of %d: %w", index, count, err)
		}
	}
	return MenuRequest{
		Flags:       Flags(flags),
		Title:       title,
		Entries:     entries,
		Preselected: preselected,
	}, nil
}
