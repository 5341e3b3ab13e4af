package model

import (
	"strings"
	"time"
)

type List struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Row is one entry of a list. Ordering within a list is by Rank
// (lexicographic), then CreatedAt, then ID.
type Row struct {
	ID     string `json:"id"`
	ListID string `json:"listId"`
	Rank   string `json:"rank,omitempty"`

	Title string `json:"title"`
	Notes string `json:"notes,omitempty"`
	// Height is the number of lines the row occupies when rendered; 0 means 1.
	Height int `json:"height,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Lines is the rendered height of the row, at least 1.
func (r Row) Lines() int {
	if r.Height < 1 {
		return 1
	}
	return r.Height
}

// Signature changes whenever a field affecting the row's layout changes.
func (r Row) Signature() int {
	h := r.Lines()
	for _, c := range r.Title {
		h = h*31 + int(c)
	}
	if strings.TrimSpace(r.Notes) != "" {
		h = h*31 + 1
	}
	return h
}

type EventType string

const (
	EventRowAdded     EventType = "row.added"
	EventRowRemoved   EventType = "row.removed"
	EventRowReordered EventType = "row.reordered"
	EventRowUpdated   EventType = "row.updated"
	EventListCreated  EventType = "list.created"
	EventListDeleted  EventType = "list.deleted"
)

// Event is one journal entry describing a structural change to a list.
type Event struct {
	ID      string    `json:"id"`
	TS      time.Time `json:"ts"`
	ListID  string    `json:"listId"`
	Type    EventType `json:"type"`
	RowID   string    `json:"rowId,omitempty"`
	Payload any       `json:"payload,omitempty"`
}

// ReorderPayload is the payload of row.reordered events.
type ReorderPayload struct {
	From int    `json:"from"`
	To   int    `json:"to"`
	Rank string `json:"rank,omitempty"`
}

// IndexPayload is the payload of row.added and row.removed events.
type IndexPayload struct {
	Index int    `json:"index"`
	Title string `json:"title,omitempty"`
}
