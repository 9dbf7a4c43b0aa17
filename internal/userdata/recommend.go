package userdata

import (
	"github.com/joelkehle/summit-agenda/internal/catalog"
	"github.com/joelkehle/summit-agenda/internal/session"
)

// Recommend suggests sessions sharing a track or level with the user's highly
// rated sessions. Already-rated seeds are excluded from the result, which
// keeps catalogue order and contains no duplicates.
func (s *Store) Recommend(sessions []session.Session, minRating int) ([]session.Session, error) {
	seedIDs, err := s.HighlyRated(minRating)
	if err != nil {
		return nil, err
	}
	if len(seedIDs) == 0 {
		return nil, nil
	}

	seeds := map[string]bool{}
	tracks := map[string]bool{}
	levels := map[string]bool{}
	for _, id := range seedIDs {
		seeds[id] = true
		if seed, ok := catalog.Find(sessions, id); ok {
			if seed.Track != "" {
				tracks[seed.Track] = true
			}
			if seed.Level != "" {
				levels[seed.Level] = true
			}
		}
	}

	var out []session.Session
	for _, cand := range sessions {
		if seeds[cand.SessionID] {
			continue
		}
		if tracks[cand.Track] || (cand.Level != "" && levels[cand.Level]) {
			out = append(out, cand)
		}
	}
	return out, nil
}
