// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"bytes"
	"fmt"
	"io"

	"github.com/JerwuQu/alines-multi/lib/wire"
)

// SelectionKind is the tag byte of a selection. The same encoding is
// used UI→server and server→menuer.
type SelectionKind uint8

const (
	NoSelection     SelectionKind = 0
	SingleSelection SelectionKind = 1
	MultiSelection  SelectionKind = 2
	CustomEntry     SelectionKind = 3
)

func (kind SelectionKind) String() string {
	switch kind {
	case NoSelection:
		return "no_selection"
	case SingleSelection:
		return "single"
	case MultiSelection:
		return "multi"
	case CustomEntry:
		return "custom"
	default:
		return fmt.Sprintf("selection_kind(%d)", uint8(kind))
	}
}

// Selection is an answer to a menu. Only the field matching Kind is
// meaningful: Index for SingleSelection, Indices for MultiSelection
// (in the order the UI sent them), Custom for CustomEntry.
type Selection struct {
	Kind    SelectionKind
	Index   uint16
	Indices []uint16
	Custom  string
}

// None returns the no-selection answer.
func None() Selection { return Selection{Kind: NoSelection} }

// Single returns a single-selection answer.
func Single(index uint16) Selection {
	return Selection{Kind: SingleSelection, Index: index}
}

// Multi returns a multi-selection answer. An empty Multi is valid on
// the wire.
func Multi(indices ...uint16) Selection {
	return Selection{Kind: MultiSelection, Indices: indices}
}

// Custom returns a custom-entry answer.
func Custom(text string) Selection {
	return Selection{Kind: CustomEntry, Custom: text}
}

// ReadSelection reads one tagged selection. An unrecognized tag returns
// an error wrapping ErrUnknownTag.
func ReadSelection(r io.Reader) (Selection, error) {
	tag, err := wire.ReadU8(r)
	if err != nil {
		return Selection{}, fmt.Errorf("read selection tag: %w", err)
	}
	kind := SelectionKind(tag)
	switch kind {
	case NoSelection:
		return None(), nil
	case SingleSelection:
		index, err := wire.ReadU16(r)
		if err != nil {
			return Selection{}, fmt.Errorf("read selected index: %w", err)
		}
		return Single(index), nil
	case MultiSelection:
		count, err := wire.ReadU16(r)
		if err != nil {
			return Selection{}, fmt.Errorf("read selection count: %w", err)
		}
		indices := make([]uint16, count)
		for position := range indices {
			indices[position], err = wire.ReadU16(r)
			if err != nil {
				return Selection{}, fmt.Errorf("read selected index %d of %d: %w", position, count, err)
			}
		}
		return Multi(indices...), nil
	case CustomEntry:
		text, err := wire.ReadString(r)
		if err != nil {
			return Selection{}, fmt.Errorf("read custom entry: %w", err)
		}
		return Custom(text), nil
	default:
		return Selection{}, fmt.Errorf("selection tag %d: %w", tag, ErrUnknownTag)
	}
}

// WriteSelection encodes selection and sends it in one Write.
func WriteSelection(w io.Writer, selection Selection) error {
	var frame bytes.Buffer
	frame.WriteByte(byte(selection.Kind))
	switch selection.Kind {
	case NoSelection:
	case SingleSelection:
		_ = wire.WriteU16(&frame, selection.Index)
	case MultiSelection:
		if len(selection.Indices) > MaxEntries {
			return fmt.Errorf("multi-selection of %d indices: %w", len(selection.Indices), ErrTooManyEntries)
		}
		_ = wire.WriteU16(&frame, uint16(len(selection.Indices)))
		for _, index := range selection.Indices {
			_ = wire.WriteU16(&frame, index)
		}
	case CustomEntry:
		if err := wire.WriteString(&frame, selection.Custom); err != nil {
			return fmt.Errorf("encode custom entry: %w", err)
		}
	default:
		return fmt.Errorf("write selection kind %d: %w", uint8(selection.Kind), ErrUnknownTag)
	}
	return wire.WriteRaw(w, frame.Bytes())
}
