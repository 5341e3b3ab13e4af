package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"rowlist/internal/model"
)

// appendEvent journals ev inside q. ID, TS and the per-list sequence number
// are assigned here.
func appendEvent(ctx context.Context, q queryer, ev model.Event) error {
	if strings.TrimSpace(ev.ListID) == "" {
		return fmt.Errorf("append event: missing list id")
	}
	if ev.ID == "" {
		ev.ID = newID("evt")
	}
	if ev.TS.IsZero() {
		ev.TS = time.Now().UTC()
	}
	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	var seq int64
	if err := q.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM events WHERE list_id = ?`, ev.ListID).Scan(&seq); err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, `INSERT INTO events(id, list_id, type, row_id, payload_json, issued_at_unixms, seq) VALUES(?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.ListID, string(ev.Type), ev.RowID, string(payload), unixMs(ev.TS), seq)
	return err
}

// AppendEvent journals ev for its list.
func (s Store) AppendEvent(ctx context.Context, ev model.Event) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	return appendEvent(ctx, db, ev)
}

// ReadEvents returns the newest limit events of a list (by id or name) in
// the order they were appended. limit <= 0 returns everything.
func (s Store) ReadEvents(ctx context.Context, listRef string, limit int) ([]model.Event, error) {
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	listID := strings.TrimSpace(listRef)
	if l, err := findList(ctx, db, listID); err == nil {
		listID = l.ID
	}

	query := `SELECT id, list_id, type, row_id, payload_json, issued_at_unixms FROM events WHERE list_id = ? ORDER BY seq DESC`
	args := []any{listID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rs, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	var out []model.Event
	for rs.Next() {
		var ev model.Event
		var typ, payload string
		var ms int64
		if err := rs.Scan(&ev.ID, &ev.ListID, &typ, &ev.RowID, &payload, &ms); err != nil {
			return nil, err
		}
		ev.Type = model.EventType(typ)
		ev.TS = fromUnixMs(ms)
		if payload != "" && payload != "null" {
			var raw json.RawMessage
			if err := json.Unmarshal([]byte(payload), &raw); err != nil {
				return nil, fmt.Errorf("event %s: %w", ev.ID, err)
			}
			ev.Payload = raw
		}
		out = append(out, ev)
	}
	if err := rs.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
