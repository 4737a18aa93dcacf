// Package store persists application outcomes across runs in a local
// SQLite database.
package store

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"internbot/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS applications (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	listing_id  TEXT NOT NULL,
	title       TEXT NOT NULL,
	company     TEXT NOT NULL,
	location    TEXT NOT NULL,
	stipend     TEXT NOT NULL,
	url         TEXT NOT NULL,
	status      TEXT NOT NULL,
	message     TEXT NOT NULL,
	recorded_at TEXT NOT NULL
);
`

// ApplicationRecord is one persisted terminal outcome.
type ApplicationRecord struct {
	ID         int64  `json:"id"`
	ListingID  string `json:"listingId"`
	Title      string `json:"title"`
	Company    string `json:"company"`
	Location   string `json:"location"`
	Stipend    string `json:"stipend"`
	URL        string `json:"url"`
	Status     string `json:"status"`
	Message    string `json:"message"`
	RecordedAt string `json:"recordedAt"`
}

// Store wraps the history database.
type Store struct {
	db *sql.DB
}

// Open opens (and migrates) the SQLite database at path. Use ":memory:"
// for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record persists one terminal outcome for a listing.
func (s *Store) Record(listing *models.Internship, message string) error {
	_, err := s.db.Exec(`
		INSERT INTO applications (listing_id, title, company, location, stipend, url, status, message, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		listing.ID,
		listing.Title,
		listing.Company,
		listing.Location,
		listing.Stipend,
		listing.Link,
		string(listing.Status),
		message,
		time.Now().Format(time.RFC3339),
	)
	return err
}

// List returns recorded outcomes, newest first.
func (s *Store) List(limit int) ([]ApplicationRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(`
		SELECT id, listing_id, title, company, location, stipend, url, status, message, recorded_at
		FROM applications
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ApplicationRecord
	for rows.Next() {
		var r ApplicationRecord
		if err := rows.Scan(&r.ID, &r.ListingID, &r.Title, &r.Company, &r.Location,
			&r.Stipend, &r.URL, &r.Status, &r.Message, &r.RecordedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
