// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// MaxStringLength is the largest string a u16 length prefix can carry.
const MaxStringLength = 0xFFFF

// ErrStringTooLong is returned by WriteString when the value cannot be
// described by a u16 length prefix. Nothing is written in that case.
var ErrStringTooLong = errors.New("string exceeds 65535 bytes")

// ErrShortWrite is returned when a writer accepted fewer bytes than
// requested without reporting an error of its own.
var ErrShortWrite = errors.New("short write")

// ReadU8 reads a single byte.
func ReadU8(r io.Reader) (uint8, error) {
	var buffer [1]byte
	if _, err := io.ReadFull(r, buffer[:]); err != nil {
		return 0, fmt.Errorf("read u8: %w", err)
	}
	return buffer[0], nil
}

// ReadU16 reads a big-endian uint16.
func ReadU16(r io.Reader) (uint16, error) {
	var buffer [2]byte
	if _, err := io.ReadFull(r, buffer[:]); err != nil {
		return 0, fmt.Errorf("read u16: %w", err)
	}
	return binary.BigEndian.Uint16(buffer[:]), nil
}

// ReadString reads a u16 length followed by that many bytes. A
// zero-length string is valid and returns "".
func ReadString(r io.Reader) (string, error) {
	length, err := ReadU16(r)
	if err != nil {
		return "", fmt.Errorf("read string length: %w", err)
	}
	if length == 0 {
		return "", nil
	}
	buffer := make([]byte, length)
	if _, err := io.ReadFull(r, buffer); err != nil {
		return "", fmt.Errorf("read string body (%d bytes): %w", length, err)
	}
	return string(buffer), nil
}

// WriteU8 writes a single byte.
func WriteU8(w io.Writer, value uint8) error {
	return writeAll(w, []byte{value})
}

// WriteU16 writes value in big-endian order.
func WriteU16(w io.Writer, value uint16) error {
	var buffer [2]byte
	binary.BigEndian.PutUint16(buffer[:], value)
	return writeAll(w, buffer[:])
}

// WriteString writes the u16 length of value followed by its bytes, as
// one Write call.
func WriteString(w io.Writer, value string) error {
	if len(value) > MaxStringLength {
		return fmt.Errorf("write string of %d bytes: %w", len(value), ErrStringTooLong)
	}
	buffer := make([]byte, 2+len(value))
	binary.BigEndian.PutUint16(buffer, uint16(len(value)))
	copy(buffer[2:], value)
	return writeAll(w, buffer)
}

// WriteRaw writes pre-encoded bytes, typically a whole frame assembled
// with the other Write functions into a [bytes.Buffer], as one Write
// call.
func WriteRaw(w io.Writer, data []byte) error {
	return writeAll(w, data)
}

// writeAll issues one Write and treats anything less than the full
// length as failure. There is no retry: a short write on a stream
// socket means the peer is gone or the kernel buffer is wedged, and
// the frame is unrecoverable either way.
func writeAll(w io.Writer, data []byte) error {
	written, err := w.Write(data)
	if err != nil {
		return fmt.Errorf("write %d bytes: %w", len(data), err)
	}
	if written != len(data) {
		return fmt.Errorf("wrote %d of %d bytes: %w", written, len(data), ErrShortWrite)
	}
	return nil
}
