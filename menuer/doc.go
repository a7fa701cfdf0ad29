// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

// Package menuer is the client side of a menu request. A program
// running under an alines server finds the session socket in
// $ALINES_SOCKET, sends one [protocol.MenuRequest], and blocks until
// the remote user answers.
//
// The broker forwards selection indices verbatim, so [Render] checks
// every index against the entries that were sent before printing any
// of them.
package menuer
