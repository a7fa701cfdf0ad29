// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

// Package wire provides the primitive field codec shared by every
// alines connection: unsigned 8-bit and 16-bit integers in big-endian
// byte order, and byte strings prefixed with their length as a
// big-endian uint16.
//
// Readers use [io.ReadFull] so a field split across several socket
// reads is reassembled; a stream that ends mid-field is an error, never
// a silently truncated value. Writers issue exactly one Write per field
// and fail unless every byte was accepted. Message-level encoders in
// the protocol package go one step further and assemble a whole frame
// in a buffer before touching the connection.
//
// Strings are opaque bytes. No encoding is assumed, and embedded NUL
// bytes round-trip unchanged. The length prefix caps a single string
// at [MaxStringLength] bytes, which also bounds the allocation a peer
// can force with one length field.
package wire
