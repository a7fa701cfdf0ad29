// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

// Package ui is a reference UI client for an alines server. A [Client]
// dials the server's TCP port and sends the password; [Client.Run]
// then shows every menu the server opens through a [Picker] and sends
// back the user's answer.
//
// The server withdraws a menu with CLOSE_MENU when the program that
// asked for it goes away. Run cancels the running picker and drops its
// result, so a late answer never reaches the server for a menu it has
// already closed. A DISCONNECT from the server ends Run with a
// [*DisconnectError] carrying the reason.
//
// [TerminalPicker] is the interactive implementation, a bubbletea
// program with fuzzy filtering. Tests and scripted clients supply
// their own Picker.
package ui
