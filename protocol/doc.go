// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

// Package protocol defines the alines message formats exchanged on the
// two kinds of connection the broker handles:
//
//   - The UI connection (TCP). The UI sends a password string first,
//     then one [Selection] per open menu. The server sends tagged
//     messages: DISCONNECT with a reason, OPEN_MENU with a menu, and
//     CLOSE_MENU when the menu was withdrawn.
//   - The menuer connection (unix socket named by $ALINES_SOCKET). The
//     menuer sends one untagged [MenuRequest] and receives one
//     [Selection], after which the connection is finished.
//
// All integers are big-endian and all strings are u16-length-prefixed
// bytes; see the wire package for the field codec. Every Write function
// here assembles its complete frame in memory first and sends it with
// a single Write, so a failed encode never leaves half a frame on the
// connection.
//
// The protocol has no version negotiation. Selection indices are not
// checked against the entry count of the menu they answer, and a
// multi-select or custom answer is representable even when the request
// did not permit it. Consumers that care validate on their side.
package protocol
