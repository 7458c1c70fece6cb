package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Kind names the engine that produced a history entry.
type Kind string

const (
	KindPricing Kind = "pricing"
	KindTime    Kind = "time"
)

// maxEntries caps how many calculations are kept per session; the oldest are
// evicted first.
const maxEntries = 20

// Entry is one recorded calculation. Request and Result are JSON snapshots
// of the originating engine input and output.
type Entry struct {
	ID          int64           `json:"id"`
	CreatedAt   string          `json:"created_at"`
	Kind        Kind            `json:"kind"`
	ProjectName string          `json:"project_name"`
	Request     json.RawMessage `json:"request"`
	Result      json.RawMessage `json:"result"`
}

// Log stores per-session calculation history.
type Log struct {
	db *sql.DB
}

// New returns a Log backed by database.
func New(database *sql.DB) *Log {
	return &Log{db: database}
}

// Record stores one calculation for sessionID and prunes the session's
// history to the most recent entries. Calculations without a project name
// are not recorded.
func (l *Log) Record(sessionID string, kind Kind, projectName string, request, result any) error {
	projectName = strings.TrimSpace(projectName)
	if projectName == "" {
		return nil
	}

	requestJSON, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("marshal request snapshot: %w", err)
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result snapshot: %w", err)
	}

	createdAt := time.Now().UTC().Format("2006-01-02 15:04:05")
	if _, err := l.db.Exec(`
		INSERT INTO history_entries (session_id, created_at, kind, project_name, request_json, result_json)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sessionID, createdAt, string(kind), projectName, string(requestJSON), string(resultJSON)); err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}

	if _, err := l.db.Exec(`
		DELETE FROM history_entries
		WHERE session_id = ?
		  AND id NOT IN (
			SELECT id
			FROM history_entries
			WHERE session_id = ?
			ORDER BY id DESC
			LIMIT ?
		  )
	`, sessionID, sessionID, maxEntries); err != nil {
		return fmt.Errorf("prune history entries: %w", err)
	}

	return nil
}

// List returns the session's entries, newest first.
func (l *Log) List(sessionID string) ([]Entry, error) {
	rows, err := l.db.Query(`
		SELECT id, created_at, kind, project_name, request_json, result_json
		FROM history_entries
		WHERE session_id = ?
		ORDER BY id DESC
		LIMIT ?
	`, sessionID, maxEntries)
	if err != nil {
		return nil, fmt.Errorf("query history entries: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var entry Entry
		var kind, requestJSON, resultJSON string
		if err := rows.Scan(&entry.ID, &entry.CreatedAt, &kind, &entry.ProjectName, &requestJSON, &resultJSON); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entry.Kind = Kind(kind)
		entry.Request = json.RawMessage(requestJSON)
		entry.Result = json.RawMessage(resultJSON)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history entries: %w", err)
	}

	return entries, nil
}
