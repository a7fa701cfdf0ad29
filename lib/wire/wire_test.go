// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestU16BigEndian(t *testing.T) {
	var buffer bytes.Buffer
	if err := WriteU16(&buffer, 0x1234); err != nil {
		t.Fatalf("WriteU16: %v", err)
	}
	if got := buffer.Bytes(); !bytes.Equal(got, []byte{0x12, 0x34}) {
		t.Fatalf("encoded bytes = %x, want 1234", got)
	}
	value, err := ReadU16(&buffer)
	if err != nil {
		t.Fatalf("ReadU16: %v", err)
	}
	if value != 0x1234 {
		t.Errorf("ReadU16 = %#x, want 0x1234", value)
	}
}

func TestU8RoundTrip(t *testing.T) {
	for _, value := range []uint8{0, 1, 0x7F, 0xFF} {
		var buffer bytes.Buffer
		if err := WriteU8(&buffer, value); err != nil {
			t.Fatalf("WriteU8(%d): %v", value, err)
		}
		got, err := ReadU8(&buffer)
		if err != nil {
			t.Fatalf("ReadU8: %v", err)
		}
		if got != value {
			t.Errorf("ReadU8 = %d, want %d", got, value)
		}
	}
}

func TestStringRoundTripLengths(t *testing.T) {
	for _, length := range []int{0, 1, 255, 256, 4096, MaxStringLength} {
		value := strings.Repeat("x", length)
		var buffer bytes.Buffer
		if err := WriteString(&buffer, value); err != nil {
			t.Fatalf("WriteString(len %d): %v", length, err)
		}
		if buffer.Len() != length+2 {
			t.Fatalf("encoded length = %d, want %d", buffer.Len(), length+2)
		}
		got, err := ReadString(&buffer)
		if err != nil {
			t.Fatalf("ReadString(len %d): %v", length, err)
		}
		if got != value {
			t.Errorf("round trip of %d-byte string differs", length)
		}
	}
}

func TestStringPreservesNulBytes(t *testing.T) {
	value := "a\x00b\x00\x00c"
	var buffer bytes.Buffer
	if err := WriteString(&buffer, value); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	got, err := ReadString(&buffer)
	if err != nil {
		t.Fatalf("ReadString: %v", err)
	}
	if got != value {
		t.Errorf("ReadString = %q, want %q", got, value)
	}
}

func TestWriteStringTooLong(t *testing.T) {
	var buffer bytes.Buffer
	err := WriteString(&buffer, strings.Repeat("x", MaxStringLength+1))
	if !errors.Is(err, ErrStringTooLong) {
		t.Fatalf("WriteString error = %v, want ErrStringTooLong", err)
	}
	if buffer.Len() != 0 {
		t.Errorf("oversized string wrote %d bytes, want 0", buffer.Len())
	}
}

func TestReadStringTruncatedBody(t *testing.T) {
	// Length claims 10 bytes, only 3 follow.
	reader := bytes.NewReader([]byte{0x00, 0x0A, 'a', 'b', 'c'})
	_, err := ReadString(reader)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("ReadString error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestReadU16EndOfStream(t *testing.T) {
	_, err := ReadU16(bytes.NewReader(nil))
	if !errors.Is(err, io.EOF) {
		t.Fatalf("ReadU16 on empty stream = %v, want io.EOF", err)
	}
	_, err = ReadU16(bytes.NewReader([]byte{0x01}))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("ReadU16 on 1 byte = %v, want io.ErrUnexpectedEOF", err)
	}
}

// fragmentReader returns at most one byte per Read call.
type fragmentReader struct {
	data []byte
}

func (reader *fragmentReader) Read(buffer []byte) (int, error) {
	if len(reader.data) == 0 {
		return 0, io.EOF
	}
	if len(buffer) == 0 {
		return 0, nil
	}
	buffer[0] = reader.data[0]
	reader.data = reader.data[1:]
	return 1, nil
}

func TestReadStringReassemblesFragments(t *testing.T) {
	var buffer bytes.Buffer
	if err := WriteString(&buffer, "fragmented"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	got, err := ReadString(&fragmentReader{data: buffer.Bytes()})
	if err != nil {
		t.Fatalf("ReadString: %v", err)
	}
	if got != "fragmented" {
		t.Errorf("ReadString = %q, want %q", got, "fragmented")
	}
}

// shortWriter accepts one byte fewer than asked and reports no error.
type shortWriter struct{}

func (shortWriter) Write(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, nil
	}
	return len(data) - 1, nil
}

func TestShortWriteIsFailure(t *testing.T) {
	err := WriteU16(shortWriter{}, 7)
	if !errors.Is(err, ErrShortWrite) {
		t.Fatalf("WriteU16 error = %v, want ErrShortWrite", err)
	}
}
