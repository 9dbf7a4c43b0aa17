package extract

import (
	"fmt"
	"strings"
)

// Alias lists for each target field, in lookup order. Sources disagree on key
// naming (camelCase, snake_case, conflated fields), so each field carries the
// full set of shapes observed in the wild. Track falls back to category last
// because some feeds publish the track under that key.
var (
	titleAliases       = []string{"title", "sessionTitle", "session_title", "name"}
	descriptionAliases = []string{"description", "abstract", "summary"}
	trackAliases       = []string{"track", "trackName", "track_name", "category"}
	typeAliases        = []string{"type", "sessionType", "session_type", "format"}
	levelAliases       = []string{"level", "experienceLevel", "experience_level", "difficulty"}
	industryAliases    = []string{"industry", "vertical"}
	categoryAliases    = []string{"category", "sessionCategory", "session_category"}
	dayAliases         = []string{"day", "date"}
	roomAliases        = []string{"room", "location", "venue"}
	startTimeAliases   = []string{"startTime", "start_time", "start"}
	endTimeAliases     = []string{"endTime", "end_time", "end"}
	areaAliases        = []string{"areas_of_interest", "areasOfInterest", "topics"}
	speakerNameAliases = []string{"name", "speakerName", "speaker_name", "displayName"}
)

// scalarOf normalizes the loose "string or object" union the feeds use for
// most fields. Objects are resolved through the given sub-keys (typically
// name/value); anything scalar is stringified and trimmed.
func scalarOf(v any, subKeys ...string) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case map[string]any:
		if len(subKeys) == 0 {
			subKeys = []string{"name", "value"}
		}
		for _, k := range subKeys {
			if s := scalarOf(val[k]); s != "" {
				return s
			}
		}
		return ""
	case bool:
		if val {
			return "true"
		}
		return "false"
	case float64:
		// JSON numbers decode as float64; keep integral values clean.
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", val))
	}
}

// resolveField walks the alias list and returns the first candidate that
// yields a non-empty scalar. Object values resolve through the given
// sub-keys. Absence of data is not an error; it resolves to "".
func resolveField(doc map[string]any, aliases []string, subKeys ...string) string {
	if doc == nil {
		return ""
	}
	for _, key := range aliases {
		v, ok := doc[key]
		if !ok {
			continue
		}
		if s := scalarOf(v, subKeys...); s != "" {
			return s
		}
	}
	return ""
}

// resolveList resolves a field that may arrive as a scalar, an object, or a
// sequence of either, into a deduplicated list of non-empty strings.
func resolveList(doc map[string]any, aliases []string) []string {
	if doc == nil {
		return nil
	}
	for _, key := range aliases {
		v, ok := doc[key]
		if !ok {
			continue
		}
		items := collectStrings(v)
		if len(items) > 0 {
			return items
		}
	}
	return nil
}

func collectStrings(v any) []string {
	var out []string
	seen := map[string]bool{}
	add := func(s string) {
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		out = append(out, s)
	}
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			add(scalarOf(item))
		}
	case []string:
		for _, item := range val {
			add(strings.TrimSpace(item))
		}
	default:
		add(scalarOf(v))
	}
	return out
}
