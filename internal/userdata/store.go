// Package userdata keeps per-user session annotations: ratings, interest
// levels, and tags, keyed by session id. It is a small CRUD store separate
// from the scraped catalogue, which is rebuilt wholesale on every harvest.
package userdata

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS ratings (
	session_id     TEXT PRIMARY KEY,
	rating         INTEGER,
	notes          TEXT NOT NULL DEFAULT '',
	rated_at       TEXT NOT NULL DEFAULT '',
	interest_level REAL,
	interest_notes TEXT NOT NULL DEFAULT '',
	interest_at    TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS tags (
	session_id TEXT NOT NULL,
	tag        TEXT NOT NULL,
	added_at   TEXT NOT NULL,
	PRIMARY KEY (session_id, tag)
);
`

// Annotations is everything the user has recorded against one session.
type Annotations struct {
	SessionID     string
	Rating        int
	RatingNotes   string
	HasRating     bool
	Interest      float64
	InterestNotes string
	HasInterest   bool
	Tags          []string
}

type Store struct {
	db *sqlx.DB
}

func NewStore(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// SetRating records or replaces the rating for a session. Ratings are on a
// 1-5 scale. Interest data on the same row is preserved.
func (s *Store) SetRating(sessionID string, rating int, notes string) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5, got %d", rating)
	}
	_, err := s.db.Exec(`INSERT INTO ratings (session_id, rating, notes, rated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET rating = excluded.rating, notes = excluded.notes, rated_at = excluded.rated_at`,
		sessionID, rating, notes, now())
	if err != nil {
		return fmt.Errorf("save rating: %w", err)
	}
	return nil
}

// RemoveRating clears the rating for a session but keeps any interest data.
func (s *Store) RemoveRating(sessionID string) error {
	_, err := s.db.Exec(`UPDATE ratings SET rating = NULL, notes = '', rated_at = '' WHERE session_id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("remove rating: %w", err)
	}
	return s.pruneEmptyRow(sessionID)
}

// SetInterest records an interest level for a session. Level 0 removes it.
func (s *Store) SetInterest(sessionID string, level float64, notes string) error {
	if level == 0 {
		return s.RemoveInterest(sessionID)
	}
	_, err := s.db.Exec(`INSERT INTO ratings (session_id, interest_level, interest_notes, interest_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET interest_level = excluded.interest_level, interest_notes = excluded.interest_notes, interest_at = excluded.interest_at`,
		sessionID, level, notes, now())
	if err != nil {
		return fmt.Errorf("save interest: %w", err)
	}
	return nil
}

// RemoveInterest clears the interest level but keeps any rating.
func (s *Store) RemoveInterest(sessionID string) error {
	_, err := s.db.Exec(`UPDATE ratings SET interest_level = NULL, interest_notes = '', interest_at = '' WHERE session_id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("remove interest: %w", err)
	}
	return s.pruneEmptyRow(sessionID)
}

func (s *Store) pruneEmptyRow(sessionID string) error {
	_, err := s.db.Exec(`DELETE FROM ratings WHERE session_id = ? AND rating IS NULL AND interest_level IS NULL`, sessionID)
	return err
}

// AddTags attaches tags to a session; duplicates are ignored.
func (s *Store) AddTags(sessionID string, tags []string) error {
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, err := s.db.Exec(`INSERT OR IGNORE INTO tags (session_id, tag, added_at) VALUES (?, ?, ?)`,
			sessionID, tag, now()); err != nil {
			return fmt.Errorf("add tag %q: %w", tag, err)
		}
	}
	return nil
}

// RemoveTags detaches the given tags from a session.
func (s *Store) RemoveTags(sessionID string, tags []string) error {
	for _, tag := range tags {
		if _, err := s.db.Exec(`DELETE FROM tags WHERE session_id = ? AND tag = ?`, sessionID, strings.TrimSpace(tag)); err != nil {
			return fmt.Errorf("remove tag %q: %w", tag, err)
		}
	}
	return nil
}

// TagsFor returns the tags attached to one session, alphabetically.
func (s *Store) TagsFor(sessionID string) ([]string, error) {
	var tags []string
	if err := s.db.Select(&tags, `SELECT tag FROM tags WHERE session_id = ? ORDER BY tag`, sessionID); err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	return tags, nil
}

// TagCounts returns every tag in use and how many sessions carry it.
func (s *Store) TagCounts() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT tag, COUNT(*) FROM tags GROUP BY tag`)
	if err != nil {
		return nil, fmt.Errorf("count tags: %w", err)
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var tag string
		var n int
		if err := rows.Scan(&tag, &n); err != nil {
			return nil, err
		}
		out[tag] = n
	}
	return out, rows.Err()
}

// Annotations loads everything recorded against one session.
func (s *Store) Annotations(sessionID string) (Annotations, error) {
	out := Annotations{SessionID: sessionID}

	var rating struct {
		Rating        sql.NullInt64   `db:"rating"`
		Notes         string          `db:"notes"`
		InterestLevel sql.NullFloat64 `db:"interest_level"`
		InterestNotes string          `db:"interest_notes"`
	}
	err := s.db.Get(&rating, `SELECT rating, notes, interest_level, interest_notes FROM ratings WHERE session_id = ?`, sessionID)
	if err != nil && err != sql.ErrNoRows {
		return out, fmt.Errorf("load rating: %w", err)
	}
	if err == nil {
		if rating.Rating.Valid {
			out.HasRating = true
			out.Rating = int(rating.Rating.Int64)
			out.RatingNotes = rating.Notes
		}
		if rating.InterestLevel.Valid {
			out.HasInterest = true
			out.Interest = rating.InterestLevel.Float64
			out.InterestNotes = rating.InterestNotes
		}
	}

	tags, err := s.TagsFor(sessionID)
	if err != nil {
		return out, err
	}
	out.Tags = tags
	return out, nil
}

// HighlyRated returns the ids of sessions rated at or above minRating.
func (s *Store) HighlyRated(minRating int) ([]string, error) {
	var ids []string
	if err := s.db.Select(&ids, `SELECT session_id FROM ratings WHERE rating >= ? ORDER BY session_id`, minRating); err != nil {
		return nil, fmt.Errorf("load highly rated: %w", err)
	}
	return ids, nil
}
