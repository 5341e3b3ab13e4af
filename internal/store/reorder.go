package store

import (
	"errors"
	"sort"
	"strings"

	"rowlist/internal/model"
)

// RankPlan lists the rank rewrites needed to realize an index-based move.
// Ranks only holds rows whose rank changes.
type RankPlan struct {
	Ranks map[string]string
	// Window holds the rows re-ranked by the rebalance path, in final order.
	Window     []string
	Rebalanced bool
}

// SortRows orders rows in place by rank, then creation time, then ID. Rows
// without a rank sort by creation time only.
func SortRows(rows []model.Row) {
	sort.SliceStable(rows, func(i, j int) bool { return compareRows(rows[i], rows[j]) < 0 })
}

func compareRows(a, b model.Row) int {
	ra, rb := normRank(a.Rank), normRank(b.Rank)
	if ra != "" && rb != "" && ra != rb {
		return strings.Compare(ra, rb)
	}
	switch {
	case a.CreatedAt.Before(b.CreatedAt):
		return -1
	case a.CreatedAt.After(b.CreatedAt):
		return 1
	}
	return strings.Compare(a.ID, b.ID)
}

// PlanMove plans rank updates moving movedID to insertAt, an index into the
// list with the moved row taken out (equivalently, its index after the move).
//
// The fast path re-ranks only the moved row between its new neighbors. When
// those neighbors can not bound a new rank (duplicate or prefix-adjacent
// ranks), the smallest contiguous window around the insertion point whose
// outer neighbors are strictly ordered gets fresh ranks.
func PlanMove(rows []model.Row, movedID string, insertAt int) (RankPlan, error) {
	movedID = strings.TrimSpace(movedID)
	if movedID == "" {
		return RankPlan{}, errors.New("plan move: missing row id")
	}
	empty := RankPlan{Ranks: map[string]string{}}
	if len(rows) == 0 {
		return empty, nil
	}

	cur := append([]model.Row(nil), rows...)
	SortRows(cur)

	from := -1
	for i := range cur {
		if cur[i].ID == movedID {
			from = i
			break
		}
	}
	if from < 0 {
		return RankPlan{}, errors.New("plan move: row not in list")
	}
	moved := cur[from]
	rest := append(append([]model.Row(nil), cur[:from]...), cur[from+1:]...)

	if insertAt < 0 {
		insertAt = 0
	}
	if insertAt > len(rest) {
		insertAt = len(rest)
	}
	if insertAt == from {
		return empty, nil
	}
	// Moving up: rebalance toward the displaced rows below rather than
	// pulling in earlier ones.
	preferBelow := insertAt < from

	final := make([]model.Row, 0, len(cur))
	final = append(final, rest[:insertAt]...)
	final = append(final, moved)
	final = append(final, rest[insertAt:]...)

	taken := takenRanks(final, map[string]bool{movedID: true})
	if r, ok := rankAmongNeighbors(taken, final, insertAt); ok {
		if normRank(moved.Rank) == r {
			return empty, nil
		}
		return RankPlan{Ranks: map[string]string{movedID: r}}, nil
	}

	ranks, err := rebalanceWindow(final, insertAt, preferBelow)
	if err != nil {
		return RankPlan{}, err
	}
	plan := RankPlan{Ranks: map[string]string{}, Rebalanced: true}
	for _, wr := range ranks {
		plan.Window = append(plan.Window, wr.id)
		if normRank(wr.old) != wr.rank {
			plan.Ranks[wr.id] = wr.rank
		}
	}
	return plan, nil
}

type windowRank struct {
	id, old, rank string
}

func takenRanks(rows []model.Row, skip map[string]bool) map[string]bool {
	taken := map[string]bool{}
	for _, r := range rows {
		if skip[r.ID] {
			continue
		}
		if rn := normRank(r.Rank); rn != "" {
			taken[rn] = true
		}
	}
	return taken
}

// outerRanks returns the ranks just outside window [lo, hi]; empty means open.
func outerRanks(rows []model.Row, lo, hi int) (lower, upper string) {
	if lo > 0 {
		lower = normRank(rows[lo-1].Rank)
	}
	if hi+1 < len(rows) {
		upper = normRank(rows[hi+1].Rank)
	}
	return lower, upper
}

func rankAmongNeighbors(taken map[string]bool, final []model.Row, at int) (string, bool) {
	lower, upper := outerRanks(final, at, at)
	if lower != "" && upper != "" && lower >= upper {
		return "", false
	}
	r, err := RankBetweenUnique(taken, lower, upper)
	if err != nil {
		return "", false
	}
	return r, true
}

// rebalanceWindow re-ranks the smallest window of final containing at whose
// outer neighbors leave room for every row in it. Among equally small windows,
// preferBelow picks the one reaching furthest past at.
func rebalanceWindow(final []model.Row, at int, preferBelow bool) ([]windowRank, error) {
	n := len(final)
	at = max(min(at, n-1), 0)
	for size := 1; size <= n; size++ {
		first := max(at-(size-1), 0)
		last := min(at, n-size)
		if preferBelow {
			for lo := last; lo >= first; lo-- {
				if ranks, ok := assignWindow(final, lo, lo+size-1); ok {
					return ranks, nil
				}
			}
			continue
		}
		for lo := first; lo <= last; lo++ {
			if ranks, ok := assignWindow(final, lo, lo+size-1); ok {
				return ranks, nil
			}
		}
	}
	return nil, ErrRankNoSpace
}

// assignWindow hands out increasing ranks to final[lo..hi] between the ranks
// just outside the window, avoiding ranks used elsewhere in the list.
func assignWindow(final []model.Row, lo, hi int) ([]windowRank, bool) {
	lower, upper := outerRanks(final, lo, hi)
	if lower != "" && upper != "" && lower >= upper {
		return nil, false
	}
	skip := map[string]bool{}
	for i := lo; i <= hi; i++ {
		skip[final[i].ID] = true
	}
	taken := takenRanks(final, skip)

	out := make([]windowRank, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		r, err := RankBetweenUnique(taken, lower, upper)
		if err != nil {
			return nil, false
		}
		taken[r] = true
		out = append(out, windowRank{id: final[i].ID, old: final[i].Rank, rank: r})
		lower = r
	}
	return out, true
}
