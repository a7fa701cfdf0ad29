// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// FilterInput is the single-line query field above the picker list.
// It is always focused: printable keys go to it while navigation keys
// go to the list.
type FilterInput struct {
	// Input is the current query text.
	Input string
}

// HandleRune appends a typed character to the query.
// Returns true if the input changed.
func (filter *FilterInput) HandleRune(character rune) bool {
	filter.Input += string(character)
	return true
}

// HandleBackspace removes the last character from the query.
// Returns true if the input changed.
func (filter *FilterInput) HandleBackspace() bool {
	if len(filter.Input) == 0 {
		return false
	}
	runes := []rune(filter.Input)
	filter.Input = string(runes[:len(runes)-1])
	return true
}

// Clear empties the query. Returns true if the input changed.
func (filter *FilterInput) Clear() bool {
	if filter.Input == "" {
		return false
	}
	filter.Input = ""
	return true
}

// View renders the query line with a prompt and a block cursor.
func (filter *FilterInput) View(theme Theme, prompt string, width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.NormalText).
		Width(width)
	promptStyle := lipgloss.NewStyle().
		Foreground(theme.FaintText)
	cursor := lipgloss.NewStyle().
		Foreground(theme.HeaderForeground).
		Bold(true).
		Render("▎")
	return style.Render(promptStyle.Render(prompt) + filter.Input + cursor)
}
