package store

import (
	"errors"
	"testing"
)

func TestRankBetween_PrefixAdjacent_NoSpace(t *testing.T) {
	// "y" < "y0" but nothing sorts strictly between them: '0' is the minimal
	// digit and end-of-string sorts before any digit.
	if _, err := RankBetween("y", "y0"); err == nil {
		t.Fatalf("expected error for prefix-adjacent bounds (no space), got nil")
	}
}

func TestRankBetween_StrictlyBetween(t *testing.T) {
	cases := []struct{ lo, hi string }{
		{"", ""},
		{"a", ""},
		{"", "a"},
		{"a", "b"},
		{"a", "c"},
		{"az", "b"},
		{"h", "h1"},
		{"0", "1"},
		{"zz", ""},
	}
	for _, tc := range cases {
		r, err := RankBetween(tc.lo, tc.hi)
		if err != nil {
			t.Fatalf("RankBetween(%q, %q): %v", tc.lo, tc.hi, err)
		}
		if tc.lo != "" && !(tc.lo < r) {
			t.Fatalf("RankBetween(%q, %q) = %q, not above lower bound", tc.lo, tc.hi, r)
		}
		if tc.hi != "" && !(r < tc.hi) {
			t.Fatalf("RankBetween(%q, %q) = %q, not below upper bound", tc.lo, tc.hi, r)
		}
	}
}

func TestRankBetween_RejectsBadInput(t *testing.T) {
	if _, err := RankBetween("b", "a"); !errors.Is(err, ErrRankOrder) {
		t.Fatalf("expected ErrRankOrder, got %v", err)
	}
	if _, err := RankBetween("a", "a"); !errors.Is(err, ErrRankOrder) {
		t.Fatalf("expected ErrRankOrder for equal bounds, got %v", err)
	}
	if _, err := RankBetween("a!", ""); !errors.Is(err, ErrRankInvalid) {
		t.Fatalf("expected ErrRankInvalid, got %v", err)
	}
}

func TestRankBetween_RepeatedAppendsStayOrdered(t *testing.T) {
	prev := ""
	for i := 0; i < 200; i++ {
		r, err := RankBetween(prev, "")
		if err != nil {
			t.Fatalf("RankBetween(%q, \"\"): %v", prev, err)
		}
		if prev != "" && !(prev < r) {
			t.Fatalf("RankBetween(%q, \"\") = %q, not increasing", prev, r)
		}
		prev = r
	}
}
