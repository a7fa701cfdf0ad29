// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"slices"
	"testing"
)

func TestFuzzyMatchBasic(t *testing.T) {
	result := FuzzyMatch("Documents/reports/2026", []rune("reports"), nil)
	if result.Score <= 0 {
		t.Fatal("expected positive score for substring match")
	}
	if len(result.Positions) != len("reports") {
		t.Fatalf("positions = %v, want %d entries", result.Positions, len("reports"))
	}
	if result.Positions[0] != len("Documents/") {
		t.Errorf("first position = %d, want %d", result.Positions[0], len("Documents/"))
	}
	if !slices.IsSorted(result.Positions) {
		t.Errorf("positions %v are not ascending", result.Positions)
	}
}

func TestFuzzyMatchNonContiguous(t *testing.T) {
	result := FuzzyMatch("firefox private window", []rune("fpw"), nil)
	if result.Score <= 0 {
		t.Fatal("expected positive score for non-contiguous fuzzy match")
	}
}

func TestFuzzyMatchNoMatch(t *testing.T) {
	result := FuzzyMatch("suspend", []rune("xyz"), nil)
	if result.Score != 0 {
		t.Errorf("expected zero score for no match, got %d", result.Score)
	}
	if len(result.Positions) != 0 {
		t.Errorf("expected empty positions for no match, got %v", result.Positions)
	}
}

func TestFuzzyMatchCaseInsensitive(t *testing.T) {
	result := FuzzyMatch("HIBERNATE", []rune("hib"), nil)
	if result.Score <= 0 {
		t.Fatalf("expected case-insensitive match, got score=%d", result.Score)
	}
	result = FuzzyMatch("hibernate", []rune("HIB"), nil)
	if result.Score <= 0 {
		t.Fatalf("expected case-insensitive pattern, got score=%d", result.Score)
	}
}

func TestFuzzyMatchEmptyPattern(t *testing.T) {
	result := FuzzyMatch("anything", []rune{}, nil)
	if result.Score != 0 {
		t.Errorf("expected zero score for empty pattern, got %d", result.Score)
	}
}

func TestFuzzyMatchRunePositions(t *testing.T) {
	// Positions index runes, not bytes.
	result := FuzzyMatch("äöü config", []rune("config"), nil)
	if result.Score <= 0 {
		t.Fatal("expected match")
	}
	if result.Positions[0] != 4 {
		t.Errorf("first position = %d, want rune offset 4", result.Positions[0])
	}
}

func TestFuzzyFilterEmptyQuery(t *testing.T) {
	items := []string{"lock", "logout", "suspend"}
	ranked := FuzzyFilter(items, "")
	if len(ranked) != len(items) {
		t.Fatalf("got %d items, want %d", len(ranked), len(items))
	}
	for position, item := range ranked {
		if item.Index != position {
			t.Errorf("ranked[%d].Index = %d, want original order", position, item.Index)
		}
		if item.Score != 0 {
			t.Errorf("ranked[%d].Score = %d, want 0", position, item.Score)
		}
	}
}

func TestFuzzyFilterRanksAndDrops(t *testing.T) {
	items := []string{"shutdown", "lock screen", "log out", "reboot"}
	ranked := FuzzyFilter(items, "lo")
	if len(ranked) != 2 {
		t.Fatalf("got %d matches, want 2: %+v", len(ranked), ranked)
	}
	indices := []int{ranked[0].Index, ranked[1].Index}
	slices.Sort(indices)
	if !slices.Equal(indices, []int{1, 2}) {
		t.Errorf("matched indices = %v, want [1 2]", indices)
	}
	if ranked[0].Score < ranked[1].Score {
		t.Errorf("results not ordered by score: %d before %d", ranked[0].Score, ranked[1].Score)
	}
}

func TestFuzzyFilterStableForEqualScores(t *testing.T) {
	items := []string{"alpha one", "alpha two", "alpha three"}
	ranked := FuzzyFilter(items, "alpha")
	if len(ranked) != 3 {
		t.Fatalf("got %d matches, want 3", len(ranked))
	}
	for position, item := range ranked {
		if item.Index != position {
			t.Errorf("ranked[%d].Index = %d, want ties in original order", position, item.Index)
		}
	}
}
