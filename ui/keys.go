// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the terminal picker. Printable
// keys always go to the filter, so navigation uses arrows and control
// keys only.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	Toggle      key.Binding // Mark or unmark the entry (multi-select menus).
	Accept      key.Binding // Answer with the marked entries, or the one under the cursor.
	Custom      key.Binding // Answer with the filter text (custom-entry menus).
	ClearFilter key.Binding
	Cancel      key.Binding // Answer with no selection.
}

// DefaultKeyMap is the built-in key binding set, following fzf's
// defaults where they exist.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p", "ctrl+k"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n", "ctrl+j"),
		key.WithHelp("↓", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("PgUp", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("PgDn", "page down"),
	),
	Home: key.NewBinding(
		key.WithKeys("home"),
		key.WithHelp("Home", "top"),
	),
	End: key.NewBinding(
		key.WithKeys("end"),
		key.WithHelp("End", "bottom"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "mark"),
	),
	Accept: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "select"),
	),
	Custom: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("C-o", "use typed text"),
	),
	ClearFilter: key.NewBinding(
		key.WithKeys("ctrl+u"),
		key.WithHelp("C-u", "clear filter"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("Esc", "cancel"),
	),
}
