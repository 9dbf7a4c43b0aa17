package catalog

import (
	"fmt"
	"strings"

	"github.com/joelkehle/summit-agenda/internal/session"
)

// Filter narrows a loaded catalogue. Empty fields are ignored; Search matches
// a case-insensitive substring of title or description.
type Filter struct {
	Track   string
	Level   string
	Speaker string
	Search  string
}

// Select returns the sessions matching every populated filter field, in
// catalogue order.
func Select(sessions []session.Session, f Filter) []session.Session {
	var out []session.Session
	query := strings.ToLower(f.Search)
	for _, s := range sessions {
		if f.Track != "" && !strings.EqualFold(s.Track, f.Track) {
			continue
		}
		if f.Level != "" && !strings.EqualFold(s.Level, f.Level) {
			continue
		}
		if f.Speaker != "" && !hasSpeaker(s, f.Speaker) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(s.Title), query) &&
			!strings.Contains(strings.ToLower(s.Description), query) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func hasSpeaker(s session.Session, speaker string) bool {
	needle := strings.ToLower(speaker)
	for _, sp := range s.Speakers {
		if strings.Contains(strings.ToLower(sp), needle) {
			return true
		}
	}
	return false
}

// ResolveID resolves an exact or unique-prefix session id against the
// catalogue. An ambiguous prefix is an error naming the colliding ids.
func ResolveID(sessions []session.Session, id string) (string, error) {
	var prefixMatches []string
	for _, s := range sessions {
		if s.SessionID == id {
			return id, nil
		}
		if strings.HasPrefix(s.SessionID, id) {
			prefixMatches = append(prefixMatches, s.SessionID)
		}
	}
	switch len(prefixMatches) {
	case 0:
		return "", fmt.Errorf("session not found: %s", id)
	case 1:
		return prefixMatches[0], nil
	default:
		return "", fmt.Errorf("ambiguous session id prefix %q: %s", id, strings.Join(prefixMatches, ", "))
	}
}

// Find returns the session with the given (already resolved) id.
func Find(sessions []session.Session, id string) (session.Session, bool) {
	for _, s := range sessions {
		if s.SessionID == id {
			return s, true
		}
	}
	return session.Session{}, false
}
