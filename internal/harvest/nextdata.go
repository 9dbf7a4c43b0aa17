package harvest

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/tidwall/gjson"
)

// agendaPath is where Next.js pages tuck the agenda payload.
const agendaPath = "props.pageProps.agenda"

// Script-tag variable assignments that sometimes carry the session payload on
// pages without a __NEXT_DATA__ document.
var scriptAssignPattern = regexp.MustCompile(`(?s)(?:var|const|let|window\.)\s*(?:agenda|sessions|pageData)\s*=\s*(\{.*?\});`)

// DecodeNextData parses a raw __NEXT_DATA__ payload and returns the nested
// agenda document inside it, ready for the structured extractor. Payloads
// that fail a strict decode go through a repair pass first; script innerHTML
// frequently arrives with trailing garbage or unquoted keys.
func DecodeNextData(raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil, fmt.Errorf("empty __NEXT_DATA__ payload")
	}
	if !gjson.Valid(raw) {
		repaired, err := jsonrepair.JSONRepair(raw)
		if err != nil {
			return nil, fmt.Errorf("repair __NEXT_DATA__: %w", err)
		}
		raw = repaired
	}
	agenda := gjson.Get(raw, agendaPath)
	if !agenda.Exists() {
		return nil, fmt.Errorf("no agenda data at %s", agendaPath)
	}
	return decodeDocument(agenda.Raw)
}

// ScanScriptPayload looks for a session document assigned to a well-known
// variable inside arbitrary script text. Only payloads that actually carry
// session container keys are accepted.
func ScanScriptPayload(script string) (map[string]any, bool) {
	m := scriptAssignPattern.FindStringSubmatch(script)
	if m == nil {
		return nil, false
	}
	raw := m[1]
	if !gjson.Valid(raw) {
		repaired, err := jsonrepair.JSONRepair(raw)
		if err != nil {
			return nil, false
		}
		raw = repaired
	}
	if !hasSessionKeys(raw) {
		return nil, false
	}
	doc, err := decodeDocument(raw)
	if err != nil {
		return nil, false
	}
	return doc, true
}

func hasSessionKeys(raw string) bool {
	for _, key := range []string{"sessions", "agenda", "tracks"} {
		if gjson.Get(raw, key).Exists() {
			return true
		}
	}
	return false
}

func decodeDocument(raw string) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		// The agenda node may itself be a bare list of sessions.
		var list []any
		if listErr := json.Unmarshal([]byte(raw), &list); listErr == nil {
			return map[string]any{"sessions": list}, nil
		}
		return nil, fmt.Errorf("decode agenda document: %w", err)
	}
	return doc, nil
}
