// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"slices"
	"strings"
	"unicode"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// FuzzyResult is the outcome of matching one text against a pattern.
// A zero Score means no match. Positions are rune offsets into the
// text, in ascending order.
type FuzzyResult struct {
	Score     int
	Positions []int
}

// FuzzyMatch scores text against pattern with fzf's V2 algorithm.
// Matching is case-insensitive: both sides are lowercased before the
// comparison, rune by rune so positions still index the original
// text. An empty pattern never matches. slab may be nil; passing
// one reused across calls avoids an allocation per match.
func FuzzyMatch(text string, pattern []rune, slab *util.Slab) FuzzyResult {
	if len(pattern) == 0 {
		return FuzzyResult{}
	}

	lowered := []rune(strings.Map(unicode.ToLower, string(pattern)))
	chars := util.ToChars([]byte(strings.Map(unicode.ToLower, text)))
	result, positions := algo.FuzzyMatchV2(false, false, true, &chars, lowered, true, slab)
	if result.Start < 0 || result.Score <= 0 {
		return FuzzyResult{}
	}

	var sorted []int
	if positions != nil {
		sorted = slices.Clone(*positions)
		slices.Sort(sorted)
	}
	return FuzzyResult{Score: result.Score, Positions: sorted}
}

// RankedItem is one item that survived FuzzyFilter.
type RankedItem struct {
	// Index into the slice given to FuzzyFilter.
	Index int
	FuzzyResult
}

// FuzzyFilter returns the items matching query, best score first and
// original order among equal scores. An empty query keeps every item
// in its original order with a zero score.
func FuzzyFilter(items []string, query string) []RankedItem {
	ranked := make([]RankedItem, 0, len(items))
	if query == "" {
		for index := range items {
			ranked = append(ranked, RankedItem{Index: index})
		}
		return ranked
	}

	pattern := []rune(query)
	slab := util.MakeSlab(100*1024, 2048)
	for index, item := range items {
		result := FuzzyMatch(item, pattern, slab)
		if result.Score > 0 {
			ranked = append(ranked, RankedItem{Index: index, FuzzyResult: result})
		}
	}
	slices.SortStableFunc(ranked, func(a, b RankedItem) int {
		return b.Score - a.Score
	})
	return ranked
}
