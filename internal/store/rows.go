package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"rowlist/internal/model"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const rowColumns = `id, list_id, rank, title, notes, height, created_at_unixms, updated_at_unixms`

func scanRow(sc interface{ Scan(...any) error }) (model.Row, error) {
	var r model.Row
	var created, updated int64
	if err := sc.Scan(&r.ID, &r.ListID, &r.Rank, &r.Title, &r.Notes, &r.Height, &created, &updated); err != nil {
		return model.Row{}, err
	}
	r.CreatedAt = fromUnixMs(created)
	r.UpdatedAt = fromUnixMs(updated)
	return r, nil
}

func listRows(ctx context.Context, q queryer, listID string) ([]model.Row, error) {
	rs, err := q.QueryContext(ctx, `SELECT `+rowColumns+` FROM list_rows WHERE list_id = ?`, listID)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	var out []model.Row
	for rs.Next() {
		r, err := scanRow(rs)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rs.Err(); err != nil {
		return nil, err
	}
	SortRows(out)
	return out, nil
}

// Rows returns the rows of a list (by id or name) in display order.
func (s Store) Rows(ctx context.Context, listRef string) ([]model.Row, error) {
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	l, err := findList(ctx, db, strings.TrimSpace(listRef))
	if err != nil {
		return nil, err
	}
	return listRows(ctx, db, l.ID)
}

func (s Store) FindRow(ctx context.Context, rowID string) (model.Row, error) {
	db, err := s.open(ctx)
	if err != nil {
		return model.Row{}, err
	}
	defer db.Close()
	return findRow(ctx, db, strings.TrimSpace(rowID))
}

func findRow(ctx context.Context, q queryer, rowID string) (model.Row, error) {
	r, err := scanRow(q.QueryRowContext(ctx, `SELECT `+rowColumns+` FROM list_rows WHERE id = ?`, rowID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Row{}, fmt.Errorf("row %q: %w", rowID, ErrNotFound)
	}
	return r, err
}

// NewRow describes a row to be created.
type NewRow struct {
	Title  string
	Notes  string
	Height int
}

// AddRow appends a row to the end of a list.
func (s Store) AddRow(ctx context.Context, listRef string, nr NewRow) (model.Row, error) {
	return s.InsertRow(ctx, listRef, -1, nr)
}

// InsertRow creates a row at index at of a list. An index outside
// [0, len] (including -1) appends.
func (s Store) InsertRow(ctx context.Context, listRef string, at int, nr NewRow) (model.Row, error) {
	nr.Title = strings.TrimSpace(nr.Title)
	if nr.Title == "" {
		return model.Row{}, errors.New("add row: missing title")
	}
	if nr.Height < 1 {
		nr.Height = 1
	}
	db, err := s.open(ctx)
	if err != nil {
		return model.Row{}, err
	}
	defer db.Close()

	l, err := findList(ctx, db, strings.TrimSpace(listRef))
	if err != nil {
		return model.Row{}, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return model.Row{}, err
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := listRows(ctx, tx, l.ID)
	if err != nil {
		return model.Row{}, err
	}
	if at < 0 || at > len(rows) {
		at = len(rows)
	}

	now := time.Now().UTC()
	r := model.Row{
		ID:        newID("row"),
		ListID:    l.ID,
		Title:     nr.Title,
		Notes:     nr.Notes,
		Height:    nr.Height,
		CreatedAt: now,
		UpdatedAt: now,
	}

	lower, upper := "", ""
	if at > 0 {
		lower = rows[at-1].Rank
	}
	if at < len(rows) {
		upper = rows[at].Rank
	}
	rank, err := RankBetweenUnique(takenRanks(rows, nil), lower, upper)
	if err != nil {
		// Neighbors leave no room: insert at the end, then move into place.
		last := ""
		if len(rows) > 0 {
			last = rows[len(rows)-1].Rank
		}
		if rank, err = RankBetweenUnique(takenRanks(rows, nil), last, ""); err != nil {
			return model.Row{}, fmt.Errorf("add row: %w", err)
		}
	}
	r.Rank = rank

	if _, err := tx.ExecContext(ctx, `INSERT INTO list_rows(`+rowColumns+`) VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.ListID, r.Rank, r.Title, r.Notes, r.Height, unixMs(r.CreatedAt), unixMs(r.UpdatedAt)); err != nil {
		return model.Row{}, err
	}

	if at < len(rows) && (upper == "" || normRank(r.Rank) >= normRank(upper)) {
		plan, err := PlanMove(append(rows, r), r.ID, at)
		if err != nil {
			return model.Row{}, fmt.Errorf("add row: %w", err)
		}
		if err := applyRanks(ctx, tx, plan, unixMs(now)); err != nil {
			return model.Row{}, err
		}
		if rk, ok := plan.Ranks[r.ID]; ok {
			r.Rank = rk
		}
	}

	if err := appendEvent(ctx, tx, model.Event{
		ListID:  l.ID,
		Type:    model.EventRowAdded,
		RowID:   r.ID,
		Payload: model.IndexPayload{Index: at, Title: r.Title},
	}); err != nil {
		return model.Row{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Row{}, err
	}
	return r, nil
}

func applyRanks(ctx context.Context, q queryer, plan RankPlan, now int64) error {
	for id, rank := range plan.Ranks {
		if _, err := q.ExecContext(ctx, `UPDATE list_rows SET rank = ?, updated_at_unixms = ? WHERE id = ?`, rank, now, id); err != nil {
			return err
		}
	}
	return nil
}

// UpdateRow rewrites the title, notes and height of an existing row.
func (s Store) UpdateRow(ctx context.Context, r model.Row) (model.Row, error) {
	db, err := s.open(ctx)
	if err != nil {
		return model.Row{}, err
	}
	defer db.Close()

	cur, err := findRow(ctx, db, strings.TrimSpace(r.ID))
	if err != nil {
		return model.Row{}, err
	}
	cur.Title = strings.TrimSpace(r.Title)
	cur.Notes = r.Notes
	cur.Height = r.Lines()
	cur.UpdatedAt = time.Now().UTC()
	if cur.Title == "" {
		return model.Row{}, errors.New("update row: missing title")
	}
	if _, err := db.ExecContext(ctx, `UPDATE list_rows SET title = ?, notes = ?, height = ?, updated_at_unixms = ? WHERE id = ?`,
		cur.Title, cur.Notes, cur.Height, unixMs(cur.UpdatedAt), cur.ID); err != nil {
		return model.Row{}, err
	}
	if err := appendEvent(ctx, db, model.Event{ListID: cur.ListID, Type: model.EventRowUpdated, RowID: cur.ID, Payload: cur}); err != nil {
		return model.Row{}, err
	}
	return cur, nil
}

// DeleteRow removes a row and returns the index it occupied.
func (s Store) DeleteRow(ctx context.Context, rowID string) (int, error) {
	db, err := s.open(ctx)
	if err != nil {
		return -1, err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return -1, err
	}
	defer func() { _ = tx.Rollback() }()

	r, err := findRow(ctx, tx, strings.TrimSpace(rowID))
	if err != nil {
		return -1, err
	}
	rows, err := listRows(ctx, tx, r.ListID)
	if err != nil {
		return -1, err
	}
	idx := indexOfRow(rows, r.ID)
	if _, err := tx.ExecContext(ctx, `DELETE FROM list_rows WHERE id = ?`, r.ID); err != nil {
		return -1, err
	}
	if err := appendEvent(ctx, tx, model.Event{
		ListID:  r.ListID,
		Type:    model.EventRowRemoved,
		RowID:   r.ID,
		Payload: model.IndexPayload{Index: idx, Title: r.Title},
	}); err != nil {
		return -1, err
	}
	return idx, tx.Commit()
}

// MoveRow moves a row to insertAt within its list (its index after the move)
// and persists the resulting rank changes.
func (s Store) MoveRow(ctx context.Context, rowID string, insertAt int) (RankPlan, error) {
	db, err := s.open(ctx)
	if err != nil {
		return RankPlan{}, err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return RankPlan{}, err
	}
	defer func() { _ = tx.Rollback() }()

	r, err := findRow(ctx, tx, strings.TrimSpace(rowID))
	if err != nil {
		return RankPlan{}, err
	}
	rows, err := listRows(ctx, tx, r.ListID)
	if err != nil {
		return RankPlan{}, err
	}
	from := indexOfRow(rows, r.ID)
	plan, err := PlanMove(rows, r.ID, insertAt)
	if err != nil {
		return RankPlan{}, err
	}
	if len(plan.Ranks) == 0 {
		return plan, nil
	}

	if err := applyRanks(ctx, tx, plan, unixMs(time.Now())); err != nil {
		return RankPlan{}, err
	}
	if insertAt > len(rows)-1 {
		insertAt = len(rows) - 1
	}
	if insertAt < 0 {
		insertAt = 0
	}
	if err := appendEvent(ctx, tx, model.Event{
		ListID:  r.ListID,
		Type:    model.EventRowReordered,
		RowID:   r.ID,
		Payload: model.ReorderPayload{From: from, To: insertAt, Rank: plan.Ranks[r.ID]},
	}); err != nil {
		return RankPlan{}, err
	}
	return plan, tx.Commit()
}

func indexOfRow(rows []model.Row, id string) int {
	for i := range rows {
		if rows[i].ID == id {
			return i
		}
	}
	return -1
}
