// Package catalog merges Session candidates into a deduplicated, ordered
// catalogue and persists it as partitioned JSONL files.
package catalog

import (
	"sort"

	"github.com/joelkehle/summit-agenda/internal/session"
)

// DefaultPartition is the sentinel track for records with no resolved track.
const DefaultPartition = "Other"

// Merge deduplicates the accumulated candidates and imposes deterministic
// ordering. Records with a stable external id deduplicate by session_id;
// records with a locally generated id deduplicate by exact title, since their
// ids differ on every extraction pass. First-seen wins in both cases.
func Merge(candidates []session.Session) []session.Session {
	seenID := map[string]bool{}
	seenTitle := map[string]bool{}

	var merged []session.Session
	for _, c := range candidates {
		if !c.Valid() {
			continue
		}
		if c.GeneratedID {
			if seenTitle[c.Title] {
				continue
			}
			seenTitle[c.Title] = true
		} else {
			if seenID[c.SessionID] {
				continue
			}
			seenID[c.SessionID] = true
		}
		merged = append(merged, c)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].SessionID < merged[j].SessionID
	})
	return merged
}

// Partition groups the merged catalogue by track. Records without a track
// land in the DefaultPartition group. Group order follows first appearance;
// records inside a group keep catalogue order.
func Partition(sessions []session.Session) map[string][]session.Session {
	out := map[string][]session.Session{}
	for _, s := range sessions {
		track := s.Track
		if track == "" {
			track = DefaultPartition
		}
		out[track] = append(out[track], s)
	}
	return out
}
