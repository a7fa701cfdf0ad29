// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

package menuer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/JerwuQu/alines-multi/protocol"
)

var (
	// ErrNotUnderBroker is returned when $ALINES_SOCKET is unset, which
	// means the calling program was not started by an alines server.
	ErrNotUnderBroker = errors.New(protocol.SocketEnvVar + " is not set; not launched from an alines server?")

	// ErrIndexOutOfRange is returned by Render for an answer naming an
	// entry that was never sent.
	ErrIndexOutOfRange = errors.New("selection index out of range")
)

// SocketPath returns the session socket path from the environment.
func SocketPath() (string, error) {
	path := os.Getenv(protocol.SocketEnvVar)
	if path == "" {
		return "", ErrNotUnderBroker
	}
	return path, nil
}

// ReadEntries reads one entry per line. A final line without a
// trailing newline is still an entry; an empty input has none. Lines
// are kept byte for byte apart from the newline.
func ReadEntries(r io.Reader) ([]string, error) {
	reader := bufio.NewReader(r)
	var entries []string
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			entries = append(entries, strings.TrimSuffix(line, "\n"))
			if len(entries) > protocol.MaxEntries {
				return nil, fmt.Errorf("%w: more than %d lines", protocol.ErrTooManyEntries, protocol.MaxEntries)
			}
		}
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading entries: %w", err)
		}
	}
}

// Request sends request to the broker at socketPath and waits for the
// answer. There is no timeout: the user may take as long as they like.
// Cancelling ctx abandons the request.
func Request(ctx context.Context, socketPath string, request protocol.MenuRequest) (protocol.Selection, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "unix", socketPath)
	if err != nil {
		return protocol.Selection{}, fmt.Errorf("connecting to %s: %w", socketPath, err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		conn.SetDeadline(time.Now())
	})
	defer stop()

	if err := protocol.WriteMenuRequest(conn, request); err != nil {
		return protocol.Selection{}, requestError(ctx, "sending menu", err)
	}

	selection, err := protocol.ReadSelection(bufio.NewReader(conn))
	if err != nil {
		return protocol.Selection{}, requestError(ctx, "reading selection", err)
	}
	return selection, nil
}

func requestError(ctx context.Context, action string, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("%s: %w", action, ctx.Err())
	}
	return fmt.Errorf("%s: %w", action, err)
}

// Render writes selection to w, one line per selected entry. With
// printIndices the entry indices are printed instead of their text. A
// custom entry is printed as typed. NoSelection prints nothing.
//
// All indices are validated before anything is written, so an invalid
// answer produces no partial output.
func Render(w io.Writer, entries []string, selection protocol.Selection, printIndices bool) error {
	var lines []string
	switch selection.Kind {
	case protocol.NoSelection:
		return nil
	case protocol.SingleSelection:
		line, err := renderIndex(entries, selection.Index, printIndices)
		if err != nil {
			return err
		}
		lines = append(lines, line)
	case protocol.MultiSelection:
		for _, index := range selection.Indices {
			line, err := renderIndex(entries, index, printIndices)
			if err != nil {
				return err
			}
			lines = append(lines, line)
		}
	case protocol.CustomEntry:
		lines = append(lines, selection.Custom)
	default:
		return fmt.Errorf("%w: selection kind %d", protocol.ErrUnknownTag, selection.Kind)
	}

	var output strings.Builder
	for _, line := range lines {
		output.WriteString(line)
		output.WriteByte('\n')
	}
	_, err := io.WriteString(w, output.String())
	return err
}

func renderIndex(entries []string, index uint16, printIndices bool) (string, error) {
	if int(index) >= len(entries) {
		return "", fmt.Errorf("%w: %d with %d entries", ErrIndexOutOfRange, index, len(entries))
	}
	if printIndices {
		return strconv.Itoa(int(index)), nil
	}
	return entries[index], nil
}
