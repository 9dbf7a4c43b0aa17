package extract

import (
	"encoding/json"
	"log"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/joelkehle/summit-agenda/internal/session"
)

// Core field names that mark a bare document as a single inline session.
var sessionMarkerKeys = []string{"title", "description", "startTime", "endTime"}

// ExtractStructured consumes a nested data document (a decoded agenda payload)
// and produces zero or more Session candidates. The document may hold a direct
// list, a keyed list under a known container, sessions grouped by track, or a
// single session inline. A failure on one entry skips that entry only.
func ExtractStructured(doc map[string]any, sourceURL string) []session.Session {
	entries := locateEntries(doc)
	var out []session.Session
	for _, entry := range entries {
		s, ok := extractEntry(entry, sourceURL)
		if !ok {
			continue
		}
		out = append(out, s)
	}
	return out
}

// locateEntries finds the raw per-session entries using a fixed container
// precedence. Track-grouped payloads are flattened with the track name pushed
// onto each member session.
func locateEntries(doc map[string]any) []map[string]any {
	if doc == nil {
		return nil
	}
	for _, key := range []string{"sessions", "agenda", "data"} {
		if list := entryList(doc[key]); list != nil {
			return list
		}
		// A container key may itself hold a nested document.
		if nested, ok := doc[key].(map[string]any); ok {
			if list := locateEntries(nested); list != nil {
				return list
			}
		}
	}
	if tracks, ok := doc["tracks"].([]any); ok {
		var flat []map[string]any
		for _, t := range tracks {
			trackDoc, ok := t.(map[string]any)
			if !ok {
				continue
			}
			trackName := scalarOf(trackDoc["name"])
			for _, entry := range entryList(trackDoc["sessions"]) {
				if trackName != "" {
					if _, exists := entry["track"]; !exists {
						entry["track"] = trackName
					}
				}
				flat = append(flat, entry)
			}
		}
		if len(flat) > 0 {
			return flat
		}
	}
	for _, key := range sessionMarkerKeys {
		if _, ok := doc[key]; ok {
			return []map[string]any{doc}
		}
	}
	return nil
}

func entryList(v any) []map[string]any {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []map[string]any
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// extractEntry resolves one raw entry into a Session candidate. Entries
// without a resolvable title are rejected. Malformed entries must never take
// down sibling entries, so anything that panics here is logged and skipped.
func extractEntry(entry map[string]any, sourceURL string) (s session.Session, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("extract: skipping malformed session entry: %v", r)
			ok = false
		}
	}()

	id, generated := entryID(entry, sourceURL)
	s = session.Session{
		SessionID:       id,
		GeneratedID:     generated,
		Title:           resolveField(entry, titleAliases, "text", "value"),
		Description:     resolveField(entry, descriptionAliases, "html", "text"),
		Track:           resolveField(entry, trackAliases),
		Level:           resolveField(entry, levelAliases),
		Type:            CanonicalizeType(resolveField(entry, typeAliases)),
		Industry:        resolveField(entry, industryAliases),
		Category:        resolveField(entry, categoryAliases),
		AreasOfInterest: resolveList(entry, areaAliases),
		Speakers:        resolveSpeakers(entry["speakers"]),
		Schedule:        resolveSchedule(entry),
	}
	if s.Category == s.Track {
		// Some feeds publish the track under category; keeping both would
		// just duplicate the value.
		s.Category = ""
	}
	if !s.Valid() {
		return session.Session{}, false
	}
	return s, true
}

func entryID(entry map[string]any, sourceURL string) (string, bool) {
	if id := resolveField(entry, []string{"id", "sessionId", "session_id"}); id != "" {
		return id, false
	}
	return session.IDFromURL(sourceURL)
}

// resolveSpeakers accepts a single entry or a sequence. Each entry may be an
// object carrying a name under several aliases, or a string that itself
// encodes an object literal; the literal goes through a repair-parse before
// falling back to treating it as a plain display name.
func resolveSpeakers(v any) []string {
	var raw []any
	switch val := v.(type) {
	case nil:
		return nil
	case []any:
		raw = val
	default:
		raw = []any{val}
	}

	var out []string
	for _, item := range raw {
		switch sp := item.(type) {
		case map[string]any:
			if name := resolveField(sp, speakerNameAliases); name != "" {
				out = append(out, name)
			}
		case string:
			name := strings.TrimSpace(sp)
			if name == "" {
				continue
			}
			if strings.HasPrefix(name, "{") {
				if parsed := parseSpeakerLiteral(name); parsed != "" {
					out = append(out, parsed)
					continue
				}
			}
			out = append(out, name)
		}
	}
	return out
}

// parseSpeakerLiteral recovers a name from a stringified speaker object.
// Feeds sometimes serialize these with single quotes or trailing commas, so
// the payload is repaired before decoding.
func parseSpeakerLiteral(literal string) string {
	repaired, err := jsonrepair.JSONRepair(literal)
	if err != nil {
		return ""
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(repaired), &obj); err != nil {
		return ""
	}
	return resolveField(obj, speakerNameAliases)
}

func resolveSchedule(entry map[string]any) session.Schedule {
	if nested, ok := entry["schedule"].(map[string]any); ok {
		return session.Schedule{
			Day:       resolveField(nested, dayAliases),
			Room:      resolveField(nested, roomAliases),
			StartTime: resolveField(nested, startTimeAliases),
			EndTime:   resolveField(nested, endTimeAliases),
		}
	}
	return session.Schedule{
		Day:       resolveField(entry, dayAliases),
		Room:      resolveField(entry, roomAliases),
		StartTime: resolveField(entry, startTimeAliases),
		EndTime:   resolveField(entry, endTimeAliases),
	}
}
