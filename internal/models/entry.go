package models

import "time"

// JournalEntry represents one dated journal record as stored in PostgreSQL.
type JournalEntry struct {
	ID         int64     `json:"id"`
	WeekNumber int       `json:"week_number"`
	Month      int       `json:"month"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	ImageURL   *string   `json:"image_url"`
	CreatedAt  time.Time `json:"created_at"`
}

// EntryDraft is a validated entry that has not been persisted yet.
// ID and CreatedAt are assigned by the database on insert.
type EntryDraft struct {
	WeekNumber int
	Month      int
	Title      string
	Content    string
	ImageURL   *string
}
