// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

package ui

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/JerwuQu/alines-multi/lib/tui"
	"github.com/JerwuQu/alines-multi/protocol"
)

// TerminalPicker shows menus as a full-screen bubbletea program.
type TerminalPicker struct {
	// Theme defaults to tui.DefaultTheme.
	Theme tui.Theme

	// Keys defaults to DefaultKeyMap.
	Keys *KeyMap

	// Input and Output default to the process's terminal.
	Input  io.Reader
	Output io.Writer
}

// Pick runs the picker until the user answers or ctx is cancelled.
func (p *TerminalPicker) Pick(ctx context.Context, request protocol.MenuRequest) (protocol.Selection, error) {
	theme := p.Theme
	if theme == (tui.Theme{}) {
		theme = tui.DefaultTheme
	}
	keys := DefaultKeyMap
	if p.Keys != nil {
		keys = *p.Keys
	}

	options := []tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}
	if p.Input != nil {
		options = append(options, tea.WithInput(p.Input))
	}
	if p.Output != nil {
		options = append(options, tea.WithOutput(p.Output))
	}

	final, err := tea.NewProgram(newPickerModel(request, theme, keys), options...).Run()
	if ctx.Err() != nil {
		return protocol.None(), ctx.Err()
	}
	if err != nil {
		return protocol.Selection{}, fmt.Errorf("running picker: %w", err)
	}
	return final.(pickerModel).selection, nil
}

// Rows taken by everything but the list: title, filter and help.
const pickerChromeHeight = 3

// Used before the first WindowSizeMsg arrives.
const (
	defaultPickerWidth  = 80
	defaultPickerHeight = 24
)

// pickerModel is the bubbletea model for one menu.
type pickerModel struct {
	request protocol.MenuRequest
	theme   tui.Theme
	keys    KeyMap

	filter  tui.FilterInput
	visible []tui.RankedItem

	// cursor indexes visible; offset is the first visible row shown.
	cursor int
	offset int

	// marked holds entry indices toggled in a multi-select menu.
	marked map[int]bool

	width  int
	height int

	selection protocol.Selection
	answered  bool
}

func newPickerModel(request protocol.MenuRequest, theme tui.Theme, keys KeyMap) pickerModel {
	model := pickerModel{
		request: request,
		theme:   theme,
		keys:    keys,
		visible: tui.FuzzyFilter(request.Entries, ""),
		marked:  make(map[int]bool),
		width:   defaultPickerWidth,
		height:  defaultPickerHeight,
	}
	// An out-of-range preselected index starts at the top.
	if int(request.Preselected) < len(model.visible) {
		model.cursor = int(request.Preselected)
	}
	model.scrollToCursor()
	return model
}

func (model pickerModel) Init() tea.Cmd {
	return nil
}

func (model pickerModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.scrollToCursor()
		return model, nil

	case tea.KeyMsg:
		return model.handleKey(message)
	}
	return model, nil
}

func (model pickerModel) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Cancel):
		return model.answer(protocol.None())

	case key.Matches(message, model.keys.Accept):
		if selection, ok := model.accepted(); ok {
			return model.answer(selection)
		}
		return model, nil

	case key.Matches(message, model.keys.Custom):
		if model.request.Flags.Custom() {
			return model.answer(protocol.Custom(model.filter.Input))
		}
		return model, nil

	case key.Matches(message, model.keys.Toggle):
		if model.request.Flags.Multi() && len(model.visible) > 0 {
			index := model.visible[model.cursor].Index
			if model.marked[index] {
				delete(model.marked, index)
			} else {
				model.marked[index] = true
			}
			model.moveCursor(1)
		}
		return model, nil

	case key.Matches(message, model.keys.Up):
		model.moveCursor(-1)
	case key.Matches(message, model.keys.Down):
		model.moveCursor(1)
	case key.Matches(message, model.keys.PageUp):
		model.moveCursor(-model.listHeight())
	case key.Matches(message, model.keys.PageDown):
		model.moveCursor(model.listHeight())
	case key.Matches(message, model.keys.Home):
		model.moveCursor(-len(model.visible))
	case key.Matches(message, model.keys.End):
		model.moveCursor(len(model.visible))

	case key.Matches(message, model.keys.ClearFilter):
		if model.filter.Clear() {
			model.refilter()
		}

	default:
		changed := false
		switch message.Type {
		case tea.KeyRunes:
			if message.Alt {
				break
			}
			for _, character := range message.Runes {
				changed = model.filter.HandleRune(character) || changed
			}
		case tea.KeySpace:
			changed = model.filter.HandleRune(' ')
		case tea.KeyBackspace:
			changed = model.filter.HandleBackspace()
		}
		if changed {
			model.refilter()
		}
	}
	return model, nil
}

// accepted returns the answer for the accept key: the marked entries
// of a multi-select menu, or else the entry under the cursor.
func (model pickerModel) accepted() (protocol.Selection, bool) {
	if model.request.Flags.Multi() && len(model.marked) > 0 {
		indices := make([]uint16, 0, len(model.marked))
		for index := range model.marked {
			indices = append(indices, uint16(index))
		}
		slices.Sort(indices)
		return protocol.Multi(indices...), true
	}
	if len(model.visible) == 0 {
		return protocol.Selection{}, false
	}
	index := uint16(model.visible[model.cursor].Index)
	if model.request.Flags.Multi() {
		return protocol.Multi(index), true
	}
	return protocol.Single(index), true
}

func (model pickerModel) answer(selection protocol.Selection) (tea.Model, tea.Cmd) {
	model.selection = selection
	model.answered = true
	return model, tea.Quit
}

func (model *pickerModel) refilter() {
	model.visible = tui.FuzzyFilter(model.request.Entries, model.filter.Input)
	model.cursor = 0
	model.offset = 0
}

func (model *pickerModel) moveCursor(delta int) {
	if len(model.visible) == 0 {
		return
	}
	model.cursor = min(max(model.cursor+delta, 0), len(model.visible)-1)
	model.scrollToCursor()
}

func (model *pickerModel) scrollToCursor() {
	height := model.listHeight()
	if model.cursor < model.offset {
		model.offset = model.cursor
	}
	if model.cursor >= model.offset+height {
		model.offset = model.cursor - height + 1
	}
	model.offset = max(min(model.offset, len(model.visible)-height), 0)
}

func (model pickerModel) listHeight() int {
	return max(model.height-pickerChromeHeight, 1)
}

func (model pickerModel) View() string {
	if model.answered {
		return ""
	}

	headerStyle := lipgloss.NewStyle().
		Foreground(model.theme.HeaderForeground).
		Bold(true)
	countStyle := lipgloss.NewStyle().
		Foreground(model.theme.FaintText)
	title := headerStyle.Render(tui.TruncateLabel(model.request.Title, model.width-12)) +
		countStyle.Render(fmt.Sprintf("  %d/%d", len(model.visible), len(model.request.Entries)))

	sections := []string{
		title,
		model.filter.View(model.theme, "> ", model.width),
		model.renderList(),
		lipgloss.NewStyle().Foreground(model.theme.HelpText).Render(model.helpLine()),
	}
	return strings.Join(sections, "\n")
}

func (model pickerModel) renderList() string {
	height := model.listHeight()
	// Marker column, space, label, space, scrollbar.
	labelWidth := max(model.width-4, 1)

	normal := lipgloss.NewStyle().Foreground(model.theme.NormalText)
	selected := lipgloss.NewStyle().
		Foreground(model.theme.SelectedForeground).
		Background(model.theme.SelectedBackground)
	match := lipgloss.NewStyle().
		Foreground(model.theme.MatchForeground).
		Bold(true)
	mark := lipgloss.NewStyle().Foreground(model.theme.MarkForeground)

	rows := make([]string, height)
	for row := range rows {
		position := model.offset + row
		if position >= len(model.visible) {
			rows[row] = strings.Repeat(" ", labelWidth+2)
			continue
		}
		item := model.visible[position]

		marker := " "
		if model.marked[item.Index] {
			marker = mark.Render("●")
		}

		base := normal
		if position == model.cursor {
			marker = mark.Render("›")
			if model.marked[item.Index] {
				marker = mark.Render("◉")
			}
			base = selected
		}

		label := tui.TruncateLabel(model.request.Entries[item.Index], labelWidth)
		padding := max(labelWidth-lipgloss.Width(label), 0)
		rows[row] = marker + " " +
			tui.HighlightMatches(label, item.Positions, base, match.Inherit(base)) +
			base.Render(strings.Repeat(" ", padding))
	}

	scrollbar := tui.RenderScrollbar(model.theme, height, len(model.visible), height, model.offset)
	return lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(rows, "\n"), " ", scrollbar)
}

func (model pickerModel) helpLine() string {
	bindings := []key.Binding{model.keys.Accept}
	if model.request.Flags.Multi() {
		bindings = append(bindings, model.keys.Toggle)
	}
	if model.request.Flags.Custom() {
		bindings = append(bindings, model.keys.Custom)
	}
	bindings = append(bindings, model.keys.Cancel)

	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		parts = append(parts, help.Key+" "+help.Desc)
	}
	return strings.Join(parts, " · ")
}
