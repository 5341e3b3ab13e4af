package store

import (
	"errors"
	"strings"
)

// Ranks are lowercase base36 strings compared lexicographically. A rank
// between two others is found by fractional indexing: walk both bounds digit
// by digit and stop at the first position with room for a midpoint.

const (
	rankAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	rankMinDigit = 0
	rankMaxDigit = len(rankAlphabet) - 1
	// rankMaxLen bounds the digit walk so malformed input can not spin.
	rankMaxLen = 256
)

var (
	ErrRankOrder   = errors.New("rank: lower bound must sort before upper bound")
	ErrRankNoSpace = errors.New("rank: no space between bounds")
	ErrRankInvalid = errors.New("rank: invalid character")
)

func normRank(r string) string { return strings.ToLower(strings.TrimSpace(r)) }

func rankDigit(c byte) (int, bool) {
	i := strings.IndexByte(rankAlphabet, c)
	return i, i >= 0
}

// digitAt returns the digit of r at position i, or def when r is shorter.
func digitAt(r string, i, def int) (int, error) {
	if i >= len(r) {
		return def, nil
	}
	d, ok := rankDigit(r[i])
	if !ok {
		return 0, ErrRankInvalid
	}
	return d, nil
}

// RankBetween returns a rank strictly between lo and hi. Either bound may be
// empty, meaning unbounded on that side.
func RankBetween(lo, hi string) (string, error) {
	lo, hi = normRank(lo), normRank(hi)
	if lo != "" && hi != "" && lo >= hi {
		return "", ErrRankOrder
	}
	inside := func(r string) bool {
		return r != "" && (lo == "" || lo < r) && (hi == "" || r < hi)
	}

	prefix := make([]byte, 0, 8)
	// hiOpen is set once prefix already sorts below hi.
	hiOpen := false
	for i := 0; i < rankMaxLen; i++ {
		dl, err := digitAt(lo, i, rankMinDigit)
		if err != nil {
			return "", err
		}
		dh := rankMaxDigit
		if !hiOpen {
			if dh, err = digitAt(hi, i, rankMaxDigit); err != nil {
				return "", err
			}
		}
		switch {
		case dl == dh:
			prefix = append(prefix, rankAlphabet[dl])
		case dh-dl > 1:
			prefix = append(prefix, rankAlphabet[dl+(dh-dl)/2])
			r := string(prefix)
			if !inside(r) {
				// hi extends lo by a minimal digit ("y" < "y0").
				return "", ErrRankNoSpace
			}
			return r, nil
		default:
			// Adjacent digits: keep lo's digit and search above the rest of lo.
			prefix = append(prefix, rankAlphabet[dl])
			hiOpen = true
		}
	}
	return "", ErrRankNoSpace
}

// RankBetweenUnique is RankBetween that also avoids every rank in taken
// (normalized keys). On a collision the lower bound moves up to the colliding
// rank and the search repeats.
func RankBetweenUnique(taken map[string]bool, lo, hi string) (string, error) {
	lo, hi = normRank(lo), normRank(hi)
	for i := 0; i < rankMaxLen; i++ {
		r, err := RankBetween(lo, hi)
		if err != nil {
			return "", err
		}
		if !taken[r] {
			return r, nil
		}
		lo = r
	}
	return "", ErrRankNoSpace
}
