// Package session defines the canonical normalized record for one conference
// talk/event and its identity rules.
package session

import (
	"strings"

	"github.com/google/uuid"
)

// Schedule holds the when/where of a session. All fields are free-text
// strings exactly as the source published them.
type Schedule struct {
	Day       string `json:"day"`
	Room      string `json:"room"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Session is the canonical unit of the catalogue. Field order matters: it is
// the serialization order of every persisted record.
type Session struct {
	SessionID       string   `json:"session_id"`
	Title           string   `json:"title"`
	Track           string   `json:"track"`
	Level           string   `json:"level"`
	Type            string   `json:"type"`
	Industry        string   `json:"industry,omitempty"`
	Category        string   `json:"category,omitempty"`
	AreasOfInterest []string `json:"areas_of_interest,omitempty"`
	Speakers        []string `json:"speakers"`
	Schedule        Schedule `json:"schedule"`
	Description     string   `json:"description"`

	// GeneratedID marks records whose SessionID was minted locally because no
	// stable external identifier existed. Such records deduplicate by Title.
	GeneratedID bool `json:"-"`
}

// Valid reports whether the record is admissible to the catalogue. A record
// without a resolvable title is not a session.
func (s Session) Valid() bool {
	return strings.TrimSpace(s.Title) != ""
}

// IDFromURL derives a stable session identity from the trailing path segment
// of a session detail URL. It returns a fresh random identifier (and
// generated=true) when the URL carries no usable segment.
func IDFromURL(rawURL string) (id string, generated bool) {
	trimmed := strings.TrimSpace(rawURL)
	if idx := strings.IndexAny(trimmed, "?#"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	trimmed = strings.TrimRight(trimmed, "/")
	if trimmed != "" {
		if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
			trimmed = trimmed[idx+1:]
		}
		if seg := strings.TrimSpace(trimmed); seg != "" {
			return seg, false
		}
	}
	return uuid.NewString(), true
}
