package handlers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/jslopes/journal-backend/internal/apierror"
	"github.com/jslopes/journal-backend/internal/models"
	"github.com/jslopes/journal-backend/internal/validation"
)

const queryTimeout = 5 * time.Second

// Entry serves the journal-entry endpoints. Each request checks a dedicated
// connection out of the pool and releases it on every exit path.
type Entry struct {
	db  *sql.DB
	log zerolog.Logger
}

func NewEntry(db *sql.DB, log zerolog.Logger) *Entry {
	return &Entry{db: db, log: log}
}

// CreateEntryResponse is the body returned after a successful insert.
type CreateEntryResponse struct {
	Status string `json:"status"`
	ID     int64  `json:"id"`
}

// Create validates the request body and inserts a new journal entry.
func (h *Entry) Create(w http.ResponseWriter, r *http.Request) {
	var req validation.CreateEntryRequest
	if apiErr := decodeJSON(r.Body, &req); apiErr != nil {
		writeError(w, apiErr)
		return
	}

	draft, apiErr := validation.ValidateCreateEntry(&req)
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	conn, err := h.db.Conn(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to acquire database connection")
		writeError(w, apierror.Database("create journal entry"))
		return
	}
	defer conn.Close()

	var id int64
	err = conn.QueryRowContext(ctx, `
		INSERT INTO journal_entries (week_number, month, title, content, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, draft.WeekNumber, draft.Month, draft.Title, draft.Content, draft.ImageURL).Scan(&id)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to insert journal entry")
		writeError(w, apierror.Database("create journal entry"))
		return
	}

	writeJSON(w, http.StatusCreated, CreateEntryResponse{Status: "success", ID: id})
}

// List returns all entries, most recent first. The body is a bare JSON
// array; an empty table yields [] rather than an error.
func (h *Entry) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	conn, err := h.db.Conn(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to acquire database connection")
		writeError(w, apierror.Database("fetch journal entries"))
		return
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, `
		SELECT id, week_number, month, title, content, image_url, created_at
		FROM journal_entries
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to query journal entries")
		writeError(w, apierror.Database("fetch journal entries"))
		return
	}
	defer rows.Close()

	entries := make([]models.JournalEntry, 0)
	for rows.Next() {
		var e models.JournalEntry
		if err := rows.Scan(&e.ID, &e.WeekNumber, &e.Month, &e.Title, &e.Content, &e.ImageURL, &e.CreatedAt); err != nil {
			h.log.Error().Err(err).Msg("failed to scan journal entry")
			writeError(w, apierror.Database("fetch journal entries"))
			return
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		h.log.Error().Err(err).Msg("failed to read journal entries")
		writeError(w, apierror.Database("fetch journal entries"))
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

// Single returns one entry by the id query parameter.
func (h *Entry) Single(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get("id")
	if idStr == "" {
		writeError(w, apierror.MissingField("id"))
		return
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(w, apierror.InvalidType("id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	conn, err := h.db.Conn(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to acquire database connection")
		writeError(w, apierror.Database("fetch journal entry"))
		return
	}
	defer conn.Close()

	var e models.JournalEntry
	err = conn.QueryRowContext(ctx, `
		SELECT id, week_number, month, title, content, image_url, created_at
		FROM journal_entries
		WHERE id = $1
	`, id).Scan(&e.ID, &e.WeekNumber, &e.Month, &e.Title, &e.Content, &e.ImageURL, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, apierror.NotFound("Journal entry not found"))
		return
	}
	if err != nil {
		h.log.Error().Err(err).Int64("id", id).Msg("failed to query journal entry")
		writeError(w, apierror.Database("fetch journal entry"))
		return
	}

	writeJSON(w, http.StatusOK, Envelope{Status: "success", Data: e})
}

// Update validates the request shape but persists nothing: entry updates are
// not implemented, and saying so beats acknowledging a write that never
// happened.
func (h *Entry) Update(w http.ResponseWriter, r *http.Request) {
	var req validation.UpdateEntryRequest
	if apiErr := decodeJSON(r.Body, &req); apiErr != nil {
		writeError(w, apiErr)
		return
	}

	if apiErr := validation.ValidateUpdateEntry(&req); apiErr != nil {
		writeError(w, apiErr)
		return
	}

	writeError(w, apierror.NotImplemented("Updating journal entries is not implemented"))
}
