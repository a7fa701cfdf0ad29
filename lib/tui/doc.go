// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui provides the terminal building blocks of the alines
// picker: the color theme, fzf-based fuzzy ranking with match
// positions, a single-line filter input, match highlighting and a
// scrollbar. Built on bubbletea and lipgloss.
//
// The package holds no menu state of its own. The picker model in
// the ui package owns the entries, the cursor and the marked set, and
// calls into these helpers to filter and render them.
package tui
